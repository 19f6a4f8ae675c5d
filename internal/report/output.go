package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/kvesta/hostvuln/config"
	"github.com/kvesta/hostvuln/pkg/finding"

	"github.com/olekukonko/tablewriter"
)

const (
	consoleRows  = 50
	titleLimit   = 80
	consoleDesc  = 200
	ellipsisMark = "..."
)

// ResolveFindings prints the summary and the top findings as a table.
func ResolveFindings(w io.Writer, r *Report) {
	s := r.Summary

	fmt.Fprintf(w, "\nDetected %s findings | "+
		"Critical: %s High: %s Medium: %s Low: %s | Exploited: %s\n\n",
		config.Yellow(s.Total),
		config.Red(s.Critical),
		config.Pink(s.High),
		config.Yellow(s.Medium),
		config.Green(s.Low),
		config.Red(s.Exploited))

	if s.Total < 1 {
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Title", "Score", "Level", "KEV", "Description"})
	table.SetRowLine(true)

	for i, f := range r.Findings {
		if i >= consoleRows {
			break
		}

		kev := ""
		if f.Exploited {
			kev = config.Red("yes")
		}

		vulnData := []string{
			strconv.Itoa(i + 1),
			shorten(f.Title, titleLimit),
			fmt.Sprintf("%.1f", f.Score),
			judgeSeverity(f.Severity),
			kev,
			shorten(f.Description, consoleDesc),
		}

		table.Append(vulnData)
	}

	table.Render()

	if s.Total > consoleRows {
		fmt.Fprintf(w, "\n%d more findings are in the report file\n", s.Total-consoleRows)
	}
}

// SummaryLine is the one-line digest printed at the end of a scan.
func SummaryLine(r *Report) string {
	s := r.Summary
	return fmt.Sprintf("Scan %s finished: %d findings, %d critical, %d high, %d exploited",
		r.ScanID, s.Total, s.Critical, s.High, s.Exploited)
}

func shorten(s string, limit int) string {
	if len([]rune(s)) <= limit {
		return s
	}
	return finding.Truncate(s, limit-len(ellipsisMark)) + ellipsisMark
}

func judgeSeverity(severity finding.Severity) string {
	switch severity {
	case finding.SeverityCritical:
		return config.Red("critical")
	case finding.SeverityHigh:
		return config.Pink("high")
	case finding.SeverityMedium:
		return config.Yellow("medium")
	case finding.SeverityLow:
		return config.Green("low")
	default:
		// ignore
	}
	return "unknown"
}
