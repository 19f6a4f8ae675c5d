package vulnscan

import (
	"context"

	"github.com/kvesta/hostvuln/pkg/cpe"
	"github.com/kvesta/hostvuln/pkg/finding"
	"github.com/kvesta/hostvuln/pkg/vulnlib"
)

// Source returns the vulnerability records of one identifier.
type Source interface {
	QueryCVEs(ctx context.Context, id cpe.Identifier) ([]vulnlib.VulnRecord, error)
}

// Catalog loads the set of exploited CVE ids.
type Catalog interface {
	LoadKEV(ctx context.Context) vulnlib.ExploitSet
}

type Auditor interface {
	Audit(ctx context.Context) []*finding.Finding
}

type Scanner struct {
	Source  Source
	Catalog Catalog

	// Auditor is optional, a nil Auditor skips the configuration audit.
	Auditor Auditor

	Map     cpe.Map
	Workers int
}

// job is one resolved inventory record waiting for its query.
type job struct {
	Name    string
	Version string
	ID      cpe.Identifier
}
