package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/kvesta/hostvuln/pkg/finding"
	"github.com/kvesta/hostvuln/pkg/inspector"

	log "github.com/sirupsen/logrus"
)

const (
	firewallScore = 8.0
	smbv1Score    = 9.0
)

// Audit runs every configuration check. Inconclusive probes contribute
// nothing, so the result may be empty but is never nil.
func (a *Auditor) Audit(ctx context.Context) []*finding.Finding {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	stamp := now().Format(finding.TimeLayout)

	ths := []*finding.Finding{}
	if a.Inspector == nil {
		return ths
	}

	// Checking firewall profiles
	if ok, tlist := checkFirewall(ctx, a.Inspector, stamp); ok {
		ths = append(ths, tlist...)
	}

	// Checking obsolete SMB protocol
	if ok, tlist := checkSMBv1(ctx, a.Inspector, stamp); ok {
		ths = append(ths, tlist...)
	}

	return ths
}

func checkFirewall(ctx context.Context, in inspector.Inspector, stamp string) (bool, []*finding.Finding) {
	var isVulnerable = false
	tlist := []*finding.Finding{}

	profiles, ok := in.FirewallProfiles(ctx)
	if !ok {
		log.Debugf("firewall profiles unavailable, skipping check")
		return false, tlist
	}

	for _, p := range profiles {
		if p.Enabled {
			continue
		}

		th := &finding.Finding{
			Kind:        finding.Configuration,
			Title:       fmt.Sprintf("Firewall disabled on profile %s", p.Name),
			Score:       firewallScore,
			Severity:    finding.SeverityHigh,
			Description: fmt.Sprintf("The Windows firewall is turned off for the %s network profile.", p.Name),
			Published:   stamp,
			Modified:    stamp,
		}
		tlist = append(tlist, th)
		isVulnerable = true
	}

	return isVulnerable, tlist
}

func checkSMBv1(ctx context.Context, in inspector.Inspector, stamp string) (bool, []*finding.Finding) {
	tlist := []*finding.Finding{}

	switch state := in.SMBv1(ctx); state {
	case inspector.Enabled:
		th := &finding.Finding{
			Kind:        finding.Configuration,
			Title:       "SMBv1 protocol is enabled (obsolete protocol)",
			Score:       smbv1Score,
			Severity:    finding.SeverityCritical,
			Description: "The SMB server accepts SMBv1 connections. SMBv1 is deprecated and was abused by wormable exploits such as EternalBlue.",
			Published:   stamp,
			Modified:    stamp,
		}
		tlist = append(tlist, th)
		return true, tlist

	case inspector.Unknown:
		log.Debugf("SMBv1 state is %s, skipping check", state)
	}

	return false, tlist
}
