//go:build !windows

package packages

import (
	"context"
	"os"
	"path/filepath"

	"github.com/kvesta/hostvuln/pkg/osrelease"

	log "github.com/sirupsen/logrus"
)

var statusFiles = []string{
	"var/lib/dpkg/status",
	"lib/apk/db/installed",
}

// Collect lists the packages known to the system package databases.
func Collect(ctx context.Context) ([]Package, error) {
	return collectRoot(ctx, "/")
}

func collectRoot(ctx context.Context, root string) ([]Package, error) {
	osVersion := osrelease.DetectOs(root)
	log.Printf("Detect OS: %s %s", osVersion.NAME, osVersion.VERSION_ID)

	packs := []Package{}

	for _, f := range statusFiles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := os.ReadFile(filepath.Join(root, f))
		if err != nil {
			log.Debugf("%s get failed, error: %v", f, err)
			continue
		}

		packs = append(packs, parseStatus(string(data))...)
	}

	rpmPacks, found := getRpmPacks(ctx, root)
	if !found && osVersion.RPMBased() {
		log.Warnf("no readable rpm database on %s, use --inventory to provide the package list", osVersion.OID)
	}
	packs = append(packs, rpmPacks...)

	packs = append(packs, getArchPacks(ctx, root)...)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return Dedupe(packs), nil
}
