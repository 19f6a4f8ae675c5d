package internal

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/kvesta/hostvuln/config"
	"github.com/kvesta/hostvuln/internal/analyzer"
	"github.com/kvesta/hostvuln/internal/report"
	"github.com/kvesta/hostvuln/internal/vulnscan"
	"github.com/kvesta/hostvuln/pkg/inspector"
	"github.com/kvesta/hostvuln/pkg/packages"
	"github.com/kvesta/hostvuln/pkg/vulnlib"

	log "github.com/sirupsen/logrus"
)

// DoScan runs a full scan with the given settings and writes the reports.
func DoScan(ctx context.Context, settings *config.Settings, inventory string) (*report.Report, error) {
	v := &Vuln{
		Settings:  settings,
		Inventory: inventory,
		Out:       os.Stdout,
	}

	return v.Run(ctx)
}

// Run collects the inventory, scans it and renders the ranked findings.
// An interrupted scan still reports what was collected.
func (v *Vuln) Run(ctx context.Context) (*report.Report, error) {
	s := v.Settings

	packs, err := v.getInventory(ctx)
	if err != nil {
		return nil, err
	}
	log.Printf("Found %s installed packages", config.Green(len(packs)))

	client := vulnlib.NewClient(s.ClientOptions())
	if s.Cache.Enabled {
		db, err := vulnlib.OpenCache(s.Cache.Path)
		if err != nil {
			log.Warnf("failed to open cache %s, error: %v", s.Cache.Path, err)
		} else {
			client.DB = db
		}
	}
	defer client.Close()

	scanner := &vulnscan.Scanner{
		Source:  client,
		Catalog: client,
		Map:     s.IdentifierMap(),
		Workers: s.Scan.Workers,
	}

	if s.Scan.Audit {
		if in := v.getInspector(); in != nil {
			scanner.Auditor = analyzer.NewAuditor(in)
		} else {
			log.Debugf("no configuration inspector on %s, skipping audit", runtime.GOOS)
		}
	}

	findings := scanner.Scan(ctx, packs)
	r := report.New(findings, time.Now())

	if v.Out != nil {
		report.ResolveFindings(v.Out, r)
	}

	files, err := report.Save(r, s.Output)
	if err != nil {
		return r, fmt.Errorf("saving error: %w", err)
	}

	if s.Output.Open {
		openReport(files)
	}

	log.Print(report.SummaryLine(r))

	return r, nil
}

func (v *Vuln) getInventory(ctx context.Context) ([]packages.Package, error) {
	if v.Inventory != "" {
		return packages.LoadFile(v.Inventory)
	}

	packs, err := packages.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to collect inventory: %w", err)
	}

	return packs, nil
}

func (v *Vuln) getInspector() inspector.Inspector {
	if v.Inspector != nil {
		return v.Inspector
	}

	if runtime.GOOS == "windows" {
		return inspector.NewPowerShell()
	}

	return nil
}

// openReport opens the last written file, the HTML page when there is one.
func openReport(files []string) {
	if len(files) < 1 {
		return
	}

	file := files[len(files)-1]
	if err := report.OpenBrowser(file); err != nil {
		log.Warnf("failed to open %s, error: %v", file, err)
	}
}
