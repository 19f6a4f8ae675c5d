package finding

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestTruncateDescription(t *testing.T) {
	long := strings.Repeat("a", 800)
	accented := strings.Repeat("é", 600)

	tests := []struct {
		name string
		in   string
		want int
	}{
		{name: "empty", in: "", want: 0},
		{name: "short", in: "heap overflow", want: 13},
		{name: "exact", in: strings.Repeat("b", DescriptionLimit), want: DescriptionLimit},
		{name: "long", in: long, want: DescriptionLimit},
		{name: "multibyte", in: accented, want: DescriptionLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateDescription(tt.in)
			if n := len([]rune(got)); n != tt.want {
				t.Errorf("TruncateDescription() runes = %d, want %d", n, tt.want)
			}

			again := TruncateDescription(got)
			if again != got {
				t.Errorf("TruncateDescription() is not idempotent for %q", tt.name)
			}
		})
	}
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want Severity
	}{
		{in: "CRITICAL", want: SeverityCritical},
		{in: "high", want: SeverityHigh},
		{in: " Moderate ", want: SeverityMedium},
		{in: "medium", want: SeverityMedium},
		{in: "low", want: SeverityLow},
		{in: "", want: SeverityUnknown},
		{in: "none", want: SeverityUnknown},
	}

	for _, tt := range tests {
		if got := ParseSeverity(tt.in); got != tt.want {
			t.Errorf("ParseSeverity(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSeverityFromScore(t *testing.T) {
	tests := []struct {
		score float64
		want  Severity
	}{
		{score: 9.8, want: SeverityCritical},
		{score: 9.0, want: SeverityCritical},
		{score: 7.5, want: SeverityHigh},
		{score: 4.0, want: SeverityMedium},
		{score: 0.1, want: SeverityLow},
		{score: 0, want: SeverityUnknown},
	}

	for _, tt := range tests {
		if got := SeverityFromScore(tt.score); got != tt.want {
			t.Errorf("SeverityFromScore(%v) = %v, want %v", tt.score, got, tt.want)
		}
	}

	if SeverityCritical.Rank() <= SeverityHigh.Rank() || SeverityLow.Rank() <= SeverityUnknown.Rank() {
		t.Errorf("Rank() ordering is broken")
	}
}

func TestFindingJSONRoundTrip(t *testing.T) {
	want := Finding{
		Kind:           Vulnerability,
		Title:          "Mozilla Firefox 118.0.1 - CVE-2023-5217",
		Score:          8.8,
		Severity:       SeverityHigh,
		Exploited:      true,
		Description:    "Heap buffer overflow in vp8 encoding in libvpx",
		Published:      "2023-09-28T16:15:10.980",
		Modified:       "2024-01-11T01:15:43.117",
		Vector:         "CVSS:3.1/AV:N/AC:L/PR:N/UI:R/S:U/C:H/I:H/A:H",
		ExternalID:     "CVE-2023-5217",
		Package:        "Mozilla Firefox",
		PackageVersion: "118.0.1",
		CPE:            "cpe:2.3:a:mozilla:firefox:118:*:*:*:*:*:*:*",
	}

	data, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got Finding
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip got = %+v, want %+v", got, want)
	}
}
