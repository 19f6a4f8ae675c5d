package packages

import (
	"context"
	"path/filepath"

	rpmdb "github.com/knqyf263/go-rpmdb/pkg"
	log "github.com/sirupsen/logrus"
)

// Berkeley DB, NDB and sqlite layouts, oldest first.
var rpmDBFiles = []string{
	"var/lib/rpm/Packages",
	"var/lib/rpm/Packages.db",
	"var/lib/rpm/rpmdb.sqlite",
	"usr/lib/sysimage/rpm/rpmdb.sqlite",
}

// listRpm reads every header of the rpm database at path.
var listRpm = func(path string) ([]*rpmdb.PackageInfo, error) {
	db, err := rpmdb.Open(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return db.ListPackages()
}

// getRpmPacks returns the packages of the first readable rpm database
// under root. found is false when there is none.
func getRpmPacks(ctx context.Context, root string) (packs []Package, found bool) {
	for _, dbPath := range rpmDBFiles {
		if ctx.Err() != nil {
			return nil, false
		}

		rpmPath := filepath.Join(root, dbPath)
		if !exists(rpmPath) {
			continue
		}

		pkgList, err := listRpm(rpmPath)
		if err != nil {
			log.Debugf("%s get failed, error: %v", dbPath, err)
			continue
		}

		return fromRpm(pkgList), true
	}

	return nil, false
}

func fromRpm(pkgList []*rpmdb.PackageInfo) []Package {
	packs := make([]Package, 0, len(pkgList))
	for _, pkg := range pkgList {
		if pkg == nil || pkg.Name == "" {
			continue
		}

		packs = append(packs, Package{
			Name:      pkg.Name,
			Version:   pkg.Version,
			Publisher: pkg.Vendor,
		})
	}

	return packs
}
