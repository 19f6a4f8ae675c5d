package vulnscan

import (
	"context"
	"strings"

	"github.com/kvesta/hostvuln/config"
	"github.com/kvesta/hostvuln/pkg/cpe"
	"github.com/kvesta/hostvuln/pkg/finding"
	"github.com/kvesta/hostvuln/pkg/packages"
	"github.com/kvesta/hostvuln/pkg/vulnlib"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Scan merges the configuration audit and the correlated vulnerabilities of
// inventory into one ranked list. A cancelled ctx stops new queries, the
// findings collected so far are still returned.
func (s *Scanner) Scan(ctx context.Context, inventory []packages.Package) []*finding.Finding {
	log.Printf(config.Green("Begin to scan %d packages"), len(inventory))

	kev := vulnlib.ExploitSet{}
	if s.Catalog != nil {
		kev = s.Catalog.LoadKEV(ctx)
	}
	log.Debugf("loaded %d exploited CVE ids", kev.Len())

	results := []*finding.Finding{}
	if s.Auditor != nil {
		results = append(results, s.Auditor.Audit(ctx)...)
	}

	results = append(results, s.Correlate(ctx, inventory, kev)...)
	Rank(results)

	return results
}

// Correlate queries every resolvable inventory record and returns the
// findings in inventory order, unranked.
func (s *Scanner) Correlate(ctx context.Context, inventory []packages.Package, kev vulnlib.ExploitSet) []*finding.Finding {
	m := s.Map
	if m == nil {
		m = cpe.DefaultMap
	}

	jobs := []job{}
	for _, p := range packages.Dedupe(inventory) {
		id, ok := m.Resolve(p.Name, p.Version)
		if !ok {
			log.Debugf("no identifier for %s, skipping", p.Name)
			continue
		}

		jobs = append(jobs, job{Name: p.Name, Version: p.Version, ID: id})
	}

	workers := s.Workers
	if workers < 1 {
		workers = 1
	}

	// one slot per job keeps the output independent of completion order
	slots := make([][]*finding.Finding, len(jobs))

	g := new(errgroup.Group)
	g.SetLimit(workers)

	for i, j := range jobs {
		if ctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			records, err := s.Source.QueryCVEs(ctx, j.ID)
			if err != nil {
				if ctx.Err() == nil {
					log.WithField("cpe", j.ID.String()).Warnf("failed to query vulnerabilities, error: %v", err)
				}
				return nil
			}

			slots[i] = buildFindings(j, records, kev)
			return nil
		})
	}

	_ = g.Wait()

	if ctx.Err() != nil {
		log.Print(config.Yellow("Scan interrupted, reporting partial results"))
	}

	results := []*finding.Finding{}
	for _, slot := range slots {
		results = append(results, slot...)
	}

	return results
}

func buildFindings(j job, records []vulnlib.VulnRecord, kev vulnlib.ExploitSet) []*finding.Finding {
	seen := map[string]struct{}{}
	vulns := []*finding.Finding{}

	for _, r := range records {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}

		vulns = append(vulns, &finding.Finding{
			Kind:        finding.Vulnerability,
			Title:       title(j.Name, j.Version, r.ID),
			Score:       r.Score,
			Severity:    r.Severity,
			Exploited:   kev.Has(r.ID),
			Description: finding.TruncateDescription(r.Description),
			Published:   r.Published,
			Modified:    r.Modified,
			Vector:      r.Vector,

			ExternalID:     r.ID,
			Package:        j.Name,
			PackageVersion: j.Version,
			CPE:            j.ID.String(),
		})
	}

	return vulns
}

func title(name, version, id string) string {
	return strings.TrimSpace(strings.TrimSpace(name)+" "+strings.TrimSpace(version)) + " - " + id
}
