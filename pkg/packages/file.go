package packages

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type inventoryFile struct {
	Packages []Package `yaml:"packages"`
}

// LoadFile reads an inventory from a YAML or JSON file. The document is
// either a list of packages or a mapping with a "packages" list.
func LoadFile(path string) ([]Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read inventory %s: %w", path, err)
	}

	return parseInventory(data)
}

func parseInventory(data []byte) ([]Package, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parse inventory: %w", err)
	}

	// empty document
	if len(node.Content) < 1 {
		return []Package{}, nil
	}

	packs := []Package{}
	switch node.Content[0].Kind {
	case yaml.SequenceNode:
		if err := node.Decode(&packs); err != nil {
			return nil, fmt.Errorf("parse inventory: %w", err)
		}
	case yaml.MappingNode:
		inv := inventoryFile{}
		if err := node.Decode(&inv); err != nil {
			return nil, fmt.Errorf("parse inventory: %w", err)
		}
		if inv.Packages != nil {
			packs = inv.Packages
		}
	default:
		return nil, fmt.Errorf("parse inventory: unexpected document, want a list of packages")
	}

	return Dedupe(packs), nil
}
