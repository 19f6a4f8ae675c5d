package packages

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

const pacmanLocal = "var/lib/pacman/local"

// getArchPacks reads the desc file of every package in the pacman local
// database under root.
func getArchPacks(ctx context.Context, root string) []Package {
	descs, err := filepath.Glob(filepath.Join(root, pacmanLocal, "*", "desc"))
	if err != nil || len(descs) < 1 {
		return nil
	}

	packs := []Package{}
	for _, desc := range descs {
		if ctx.Err() != nil {
			return packs
		}

		data, err := os.ReadFile(desc)
		if err != nil {
			log.Debugf("%s get failed, error: %v", desc, err)
			continue
		}

		if p, ok := parseDesc(string(data)); ok {
			packs = append(packs, p)
		}
	}

	return packs
}

// parseDesc reads the %NAME%, %VERSION% and %PACKAGER% sections of a
// pacman desc file. A section's value is the line that follows it.
func parseDesc(desc string) (Package, bool) {
	p := Package{}
	section := ""

	for _, line := range strings.Split(desc, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			section = ""
			continue
		}

		if strings.HasPrefix(line, "%") && strings.HasSuffix(line, "%") {
			section = line
			continue
		}

		switch section {
		case "%NAME%":
			p.Name = line
		case "%VERSION%":
			p.Version = line
		case "%PACKAGER%":
			p.Publisher = line
		default:
			continue
		}
		section = ""
	}

	return p, p.Name != ""
}
