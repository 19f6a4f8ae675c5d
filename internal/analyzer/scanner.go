package analyzer

import (
	"time"

	"github.com/kvesta/hostvuln/pkg/inspector"
)

// Auditor turns host configuration probes into CONFIGURATION findings.
type Auditor struct {
	Inspector inspector.Inspector

	// Now stamps every finding of one audit, time.Now when nil.
	Now func() time.Time
}

func NewAuditor(in inspector.Inspector) *Auditor {
	return &Auditor{
		Inspector: in,
		Now:       time.Now,
	}
}
