package vulnscan

import (
	"sort"

	"github.com/kvesta/hostvuln/pkg/finding"
)

// Rank orders findings exploited first, then by descending score. Equal
// findings keep their relative order.
func Rank(findings []*finding.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Exploited != findings[j].Exploited {
			return findings[i].Exploited
		}
		return findings[i].Score > findings[j].Score
	})
}
