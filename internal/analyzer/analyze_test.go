package analyzer

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/kvesta/hostvuln/pkg/finding"
	"github.com/kvesta/hostvuln/pkg/inspector"
)

type fakeInspector struct {
	profiles []inspector.FirewallProfile
	ok       bool
	smb      inspector.State
}

func (f fakeInspector) FirewallProfiles(ctx context.Context) ([]inspector.FirewallProfile, bool) {
	return f.profiles, f.ok
}

func (f fakeInspector) SMBv1(ctx context.Context) inspector.State {
	return f.smb
}

var auditTime = time.Date(2024, 3, 1, 9, 30, 15, 123000000, time.UTC)

const auditStamp = "2024-03-01T09:30:15.123"

func TestAudit(t *testing.T) {
	privateOff := &finding.Finding{
		Kind:        finding.Configuration,
		Title:       "Firewall disabled on profile Private",
		Score:       8.0,
		Severity:    finding.SeverityHigh,
		Description: "The Windows firewall is turned off for the Private network profile.",
		Published:   auditStamp,
		Modified:    auditStamp,
	}

	tests := []struct {
		name      string
		in        inspector.Inspector
		wantTitle []string
	}{
		{
			name: "privateProfileOff",
			in: fakeInspector{
				profiles: []inspector.FirewallProfile{
					{Name: "Domain", Enabled: true},
					{Name: "Private", Enabled: false},
					{Name: "Public", Enabled: true},
				},
				ok:  true,
				smb: inspector.Disabled,
			},
			wantTitle: []string{"Firewall disabled on profile Private"},
		},
		{
			name: "allOffAndSMBv1",
			in: fakeInspector{
				profiles: []inspector.FirewallProfile{
					{Name: "Public", Enabled: false},
					{Name: "Domain", Enabled: false},
				},
				ok:  true,
				smb: inspector.Enabled,
			},
			wantTitle: []string{
				"Firewall disabled on profile Public",
				"Firewall disabled on profile Domain",
				"SMBv1 protocol is enabled (obsolete protocol)",
			},
		},
		{
			name:      "inconclusive",
			in:        fakeInspector{ok: false, smb: inspector.Unknown},
			wantTitle: []string{},
		},
		{
			name:      "noInspector",
			in:        nil,
			wantTitle: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Auditor{Inspector: tt.in, Now: func() time.Time { return auditTime }}
			got := a.Audit(context.Background())

			titles := []string{}
			for _, f := range got {
				titles = append(titles, f.Title)

				if f.Kind != finding.Configuration || f.Exploited {
					t.Errorf("Audit() finding %q kind = %s exploited = %v", f.Title, f.Kind, f.Exploited)
				}
				if f.Published != auditStamp || f.Modified != auditStamp {
					t.Errorf("Audit() finding %q stamped %s/%s", f.Title, f.Published, f.Modified)
				}
			}

			if !reflect.DeepEqual(titles, tt.wantTitle) {
				t.Errorf("Audit() got = %v, want %v", titles, tt.wantTitle)
			}
		})
	}

	a := &Auditor{
		Inspector: fakeInspector{
			profiles: []inspector.FirewallProfile{{Name: "Domain", Enabled: true}, {Name: "Private"}},
			ok:       true,
		},
		Now: func() time.Time { return auditTime },
	}
	got := a.Audit(context.Background())
	if len(got) != 1 || !reflect.DeepEqual(got[0], privateOff) {
		t.Errorf("Audit() got = %+v, want %+v", got, privateOff)
	}
}

func TestCheckSMBv1(t *testing.T) {
	tests := []struct {
		name  string
		state inspector.State
		want  bool
	}{
		{name: "enabled", state: inspector.Enabled, want: true},
		{name: "disabled", state: inspector.Disabled, want: false},
		{name: "unknown", state: inspector.Unknown, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, tlist := checkSMBv1(context.Background(), fakeInspector{smb: tt.state}, auditStamp)
			if ok != tt.want || (len(tlist) == 1) != tt.want {
				t.Errorf("checkSMBv1() got = %v %v, want %v", ok, tlist, tt.want)
			}
			if ok && (tlist[0].Severity != finding.SeverityCritical || tlist[0].Score != 9.0) {
				t.Errorf("checkSMBv1() got = %+v", tlist[0])
			}
		})
	}
}
