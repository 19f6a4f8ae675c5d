package packages

import "os"

// Package is one installed software record of the host inventory.
type Package struct {
	Name      string `json:"name" yaml:"name"`
	Version   string `json:"version" yaml:"version"`
	Publisher string `json:"publisher,omitempty" yaml:"publisher,omitempty"`
}

type key struct {
	name    string
	version string
}

// Dedupe keeps the first record of every (name, version) pair, in order.
// Records without a name are dropped.
func Dedupe(packs []Package) []Package {
	seen := map[key]struct{}{}
	result := make([]Package, 0, len(packs))

	for _, p := range packs {
		if p.Name == "" {
			continue
		}

		k := key{name: p.Name, version: p.Version}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, p)
	}

	return result
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
