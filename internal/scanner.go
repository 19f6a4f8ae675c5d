package internal

import (
	"io"

	"github.com/kvesta/hostvuln/config"
	"github.com/kvesta/hostvuln/pkg/inspector"
)

// Vuln holds everything one scan run needs.
type Vuln struct {
	Settings *config.Settings

	// Inventory is the path of an inventory file, empty collects from the host.
	Inventory string

	// Inspector backs the configuration audit, nil picks the host default.
	Inspector inspector.Inspector

	// Out receives the console report.
	Out io.Writer
}
