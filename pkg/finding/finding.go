package finding

import (
	"strings"
	"unicode/utf8"
)

// DescriptionLimit bounds the description carried by a Finding.
const DescriptionLimit = 500

// TimeLayout matches the timestamp layout used by NVD.
const TimeLayout = "2006-01-02T15:04:05.000"

type Kind string

const (
	Vulnerability Kind = "VULNERABILITY"
	Configuration Kind = "CONFIGURATION"
)

type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
	SeverityUnknown  Severity = "UNKNOWN"
)

// Rank returns an integer rank for comparison (Unknown=0, Critical=4).
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

func (s Severity) String() string {
	return string(s)
}

// ParseSeverity maps a label case-insensitively, "moderate" included.
// Anything else is UNKNOWN.
func ParseSeverity(s string) Severity {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CRITICAL":
		return SeverityCritical
	case "HIGH":
		return SeverityHigh
	case "MEDIUM", "MODERATE":
		return SeverityMedium
	case "LOW":
		return SeverityLow
	default:
		return SeverityUnknown
	}
}

// SeverityFromScore buckets a CVSS base score using the v3 qualitative bands.
func SeverityFromScore(score float64) Severity {
	switch {
	case score >= 9.0:
		return SeverityCritical
	case score >= 7.0:
		return SeverityHigh
	case score >= 4.0:
		return SeverityMedium
	case score > 0:
		return SeverityLow
	default:
		return SeverityUnknown
	}
}

// Finding is one reportable unit of risk.
type Finding struct {
	Kind        Kind     `json:"kind"`
	Title       string   `json:"title"`
	Score       float64  `json:"score"`
	Severity    Severity `json:"severity"`
	Exploited   bool     `json:"exploited"`
	Description string   `json:"description"`
	Published   string   `json:"published"`
	Modified    string   `json:"modified"`
	Vector      string   `json:"vector"`

	ExternalID     string `json:"external_id,omitempty"`
	Package        string `json:"package,omitempty"`
	PackageVersion string `json:"package_version,omitempty"`
	CPE            string `json:"cpe,omitempty"`
}

// TruncateDescription bounds s to DescriptionLimit runes. It is idempotent.
func TruncateDescription(s string) string {
	return Truncate(s, DescriptionLimit)
}

func Truncate(s string, limit int) string {
	if limit < 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}

	runes := []rune(s)
	return string(runes[:limit])
}
