package inspector

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const DefaultTimeout = 30 * time.Second

const (
	firewallScript = "Get-NetFirewallProfile | Select-Object Name,Enabled | ConvertTo-Json -Compress"
	smbScript      = "Get-SmbServerConfiguration | Select-Object EnableSMB1Protocol | ConvertTo-Json -Compress"
)

// Runner executes a PowerShell script and returns its stdout.
type Runner func(ctx context.Context, script string) ([]byte, error)

// PowerShell inspects a Windows host through powershell.exe.
type PowerShell struct {
	Run     Runner
	Timeout time.Duration
}

func NewPowerShell() *PowerShell {
	return &PowerShell{
		Run:     runPowerShell,
		Timeout: DefaultTimeout,
	}
}

func runPowerShell(ctx context.Context, script string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "powershell",
		"-NoProfile", "-NonInteractive", "-ExecutionPolicy", "Bypass", "-Command", script)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return stdout.Bytes(), nil
}

func (p *PowerShell) query(ctx context.Context, script string) (gjson.Result, bool) {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := p.Run(ctx, script)
	if err != nil {
		log.Debugf("powershell probe failed, error: %v", err)
		return gjson.Result{}, false
	}

	out = bytes.TrimSpace(out)
	if len(out) < 1 || !gjson.ValidBytes(out) {
		log.Debugf("powershell probe returned no usable json")
		return gjson.Result{}, false
	}

	return gjson.ParseBytes(out), true
}

func (p *PowerShell) FirewallProfiles(ctx context.Context) ([]FirewallProfile, bool) {
	res, ok := p.query(ctx, firewallScript)
	if !ok {
		return nil, false
	}

	// a single profile is serialized as an object
	items := []gjson.Result{res}
	if res.IsArray() {
		items = res.Array()
	}

	profiles := []FirewallProfile{}
	for _, item := range items {
		name := item.Get("Name").String()
		if name == "" {
			continue
		}

		// an unreadable state is neither on nor off
		enabled := item.Get("Enabled")
		if !known(enabled) {
			log.Debugf("firewall profile %s has no readable state, skipping", name)
			continue
		}

		profiles = append(profiles, FirewallProfile{
			Name:    name,
			Enabled: truthy(enabled),
		})
	}

	if len(profiles) < 1 {
		return nil, false
	}

	return profiles, true
}

func (p *PowerShell) SMBv1(ctx context.Context) State {
	res, ok := p.query(ctx, smbScript)
	if !ok {
		return Unknown
	}

	v := res.Get("EnableSMB1Protocol")
	switch {
	case !known(v):
		return Unknown
	case truthy(v):
		return Enabled
	default:
		return Disabled
	}
}

func known(v gjson.Result) bool {
	return v.Exists() && v.Type != gjson.Null
}

// truthy accepts JSON booleans and the numeric GpoBoolean values Windows
// PowerShell 5 emits (1 = True).
func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.True:
		return true
	case gjson.Number:
		return v.Int() == 1
	case gjson.String:
		return strings.EqualFold(v.String(), "true")
	default:
		return false
	}
}
