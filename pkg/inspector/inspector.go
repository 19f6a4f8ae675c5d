package inspector

import (
	"context"
)

// State is the tri-state outcome of a single configuration probe.
type State int

const (
	Unknown State = iota
	Enabled
	Disabled
)

func (s State) String() string {
	switch s {
	case Enabled:
		return "enabled"
	case Disabled:
		return "disabled"
	default:
		return "unknown"
	}
}

type FirewallProfile struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// Inspector reads host security settings. A probe that cannot reach a
// conclusion reports so instead of failing.
type Inspector interface {
	// FirewallProfiles returns the profiles in system order, ok is false
	// when they could not be read.
	FirewallProfiles(ctx context.Context) (profiles []FirewallProfile, ok bool)
	SMBv1(ctx context.Context) State
}
