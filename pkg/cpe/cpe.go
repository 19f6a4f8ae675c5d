package cpe

import (
	"fmt"
	"strconv"
	"strings"

	version2 "github.com/hashicorp/go-version"
)

// AnyVersion widens a query to every version of a product.
const AnyVersion = "*"

// MapRevision is bumped whenever DefaultMap changes.
const MapRevision = 3

// Identifier is the vendor/product/version triple used to query NVD.
type Identifier struct {
	Vendor  string `json:"vendor"`
	Product string `json:"product"`
	Version string `json:"version"`
}

// String renders the identifier as a CPE 2.3 application name.
func (i Identifier) String() string {
	return fmt.Sprintf("cpe:2.3:a:%s:%s:%s:*:*:*:*:*:*:*", i.Vendor, i.Product, i.Version)
}

// Entry maps a product keyword found in an installed package name to a CPE vendor and product.
type Entry struct {
	Keyword string `mapstructure:"keyword" yaml:"keyword"`
	Vendor  string `mapstructure:"vendor" yaml:"vendor"`
	Product string `mapstructure:"product" yaml:"product"`
}

func (e Entry) valid() bool {
	return e.Keyword != "" && e.Vendor != "" && e.Product != ""
}

// Map is an ordered allow-list. The first matching entry wins.
type Map []Entry

var DefaultMap = Map{
	{Keyword: "Mozilla Firefox", Vendor: "mozilla", Product: "firefox"},
	{Keyword: "Google Chrome", Vendor: "google", Product: "chrome"},
	{Keyword: "Chromium", Vendor: "chromium", Product: "chromium"},
	{Keyword: "Microsoft Edge", Vendor: "microsoft", Product: "edge"},
	{Keyword: "Java 8", Vendor: "oracle", Product: "java"},
	{Keyword: "Java 11", Vendor: "oracle", Product: "java"},
	{Keyword: "Java 17", Vendor: "oracle", Product: "java"},
	{Keyword: "Java 21", Vendor: "oracle", Product: "java"},
	{Keyword: "Python", Vendor: "python_software_foundation", Product: "python"},
	{Keyword: "LibreOffice", Vendor: "libreoffice", Product: "libreoffice"},
	{Keyword: "7-Zip", Vendor: "7-zip", Product: "7-zip"},
	{Keyword: "VLC", Vendor: "videolan", Product: "vlc"},
	{Keyword: "Apache", Vendor: "apache", Product: "http_server"},
	{Keyword: "Nginx", Vendor: "nginx", Product: "nginx"},
	{Keyword: "OpenSSL", Vendor: "openssl", Product: "openssl"},
}

// With returns a copy of m with the valid extra entries appended.
func (m Map) With(extra ...Entry) Map {
	out := make(Map, 0, len(m)+len(extra))
	out = append(out, m...)
	for _, e := range extra {
		if !e.valid() {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Resolve maps a raw installed package to an Identifier. The second return
// value is false when no keyword of the map occurs in name.
func (m Map) Resolve(name, version string) (Identifier, bool) {
	lowerName := strings.ToLower(name)
	for _, e := range m {
		if !e.valid() {
			continue
		}

		if strings.Contains(lowerName, strings.ToLower(e.Keyword)) {
			return Identifier{
				Vendor:  e.Vendor,
				Product: e.Product,
				Version: MajorVersion(version),
			}, true
		}
	}

	return Identifier{}, false
}

// Resolve uses DefaultMap.
func Resolve(name, version string) (Identifier, bool) {
	return DefaultMap.Resolve(name, version)
}

// MajorVersion reduces a raw version to its leading numeric component,
// or AnyVersion when there is none.
func MajorVersion(raw string) string {
	raw = strings.TrimSpace(raw)

	// dpkg and pacman prefix an epoch, as in "1:3.1.4-1"
	if epoch, rest, ok := strings.Cut(raw, ":"); ok && epoch != "" && strings.Trim(epoch, "0123456789") == "" {
		raw = rest
	}

	if raw == "" {
		return AnyVersion
	}

	if v, err := version2.NewVersion(raw); err == nil {
		if segments := v.Segments(); len(segments) > 0 {
			return strconv.Itoa(segments[0])
		}
	}

	// Versions like "8 Update 381" are not semver-ish
	end := 0
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == 0 {
		return AnyVersion
	}

	n, err := strconv.Atoi(raw[:end])
	if err != nil {
		return AnyVersion
	}
	return strconv.Itoa(n)
}
