package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kvesta/hostvuln/pkg/cpe"
	"github.com/kvesta/hostvuln/pkg/vulnlib"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, vulnlib.DefaultNVDURL, s.NVD.BaseURL)
	assert.Equal(t, 100, s.NVD.ResultsPerPage)
	assert.Equal(t, 30*time.Second, s.NVD.Timeout)
	assert.Equal(t, 6*time.Second, s.NVD.Backoff)
	assert.Equal(t, 500*time.Millisecond, s.NVD.Delay)
	assert.Equal(t, 1, s.Scan.Workers)
	assert.True(t, s.Scan.Audit)
	assert.False(t, s.Cache.Enabled)
	assert.Equal(t, 24*time.Hour, s.Cache.TTL)
	assert.Equal(t, "cache.db", filepath.Base(s.Cache.Path))
	assert.Equal(t, "html", s.Output.Format)
	assert.Equal(t, "output", s.Output.Path)
	assert.Equal(t, "info", s.Log.Level)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hostvuln.yaml")
	content := `
nvd:
  api_key: from-file
  delay: 6s
scan:
  workers: 4
  audit: false
output:
  format: JSON
identifiers:
  extra:
    - keyword: Notepad++
      vendor: notepad-plus-plus
      product: notepad++
    - keyword: broken
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", s.NVD.APIKey)
	assert.Equal(t, 6*time.Second, s.NVD.Delay)
	assert.Equal(t, 4, s.Scan.Workers)
	assert.False(t, s.Scan.Audit)
	assert.Equal(t, "json", s.Output.Format)

	m := s.IdentifierMap()
	assert.Len(t, m, len(cpe.DefaultMap)+1)

	id, ok := m.Resolve("Notepad++ (64-bit x64)", "8.6.2")
	require.True(t, ok)
	assert.Equal(t, cpe.Identifier{Vendor: "notepad-plus-plus", Product: "notepad++", Version: "8"}, id)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("HOSTVULN_NVD_API_KEY", "from-env")
	t.Setenv("HOSTVULN_SCAN_WORKERS", "3")
	t.Setenv("HOSTVULN_CACHE_TTL", "2h")

	s, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "from-env", s.NVD.APIKey)
	assert.Equal(t, 3, s.Scan.Workers)
	assert.Equal(t, 2*time.Hour, s.Cache.TTL)

	opts := s.ClientOptions()
	assert.Equal(t, "from-env", opts.APIKey)
	assert.Equal(t, 2*time.Hour, opts.CacheTTL)
	assert.Equal(t, vulnlib.DefaultKEVURL, opts.KEVURL)
}

func TestLoadUnpacedEnv(t *testing.T) {
	t.Setenv("HOSTVULN_NVD_DELAY", "0")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nvd.delay")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Settings {
		return &Settings{
			NVD:    NVDConfig{BaseURL: vulnlib.DefaultNVDURL, ResultsPerPage: 100, Delay: vulnlib.DefaultDelay},
			Scan:   ScanConfig{Workers: 1},
			Output: OutputConfig{Format: "both"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(s *Settings)
		wantErr bool
	}{
		{name: "valid", mutate: func(s *Settings) {}},
		{name: "zeroWorkers", mutate: func(s *Settings) { s.Scan.Workers = 0 }, wantErr: true},
		{name: "negativeWorkers", mutate: func(s *Settings) { s.Scan.Workers = -2 }, wantErr: true},
		{name: "pageTooLarge", mutate: func(s *Settings) { s.NVD.ResultsPerPage = 2001 }, wantErr: true},
		{name: "pageZero", mutate: func(s *Settings) { s.NVD.ResultsPerPage = 0 }, wantErr: true},
		{name: "pageMax", mutate: func(s *Settings) { s.NVD.ResultsPerPage = 2000 }},
		{name: "zeroDelay", mutate: func(s *Settings) { s.NVD.Delay = 0 }, wantErr: true},
		{name: "negativeDelay", mutate: func(s *Settings) { s.NVD.Delay = -time.Second }, wantErr: true},
		{name: "shortDelay", mutate: func(s *Settings) { s.NVD.Delay = time.Millisecond }},
		{name: "emptyBaseURL", mutate: func(s *Settings) { s.NVD.BaseURL = "  " }, wantErr: true},
		{name: "badFormat", mutate: func(s *Settings) { s.Output.Format = "pdf" }, wantErr: true},
		{name: "formatNone", mutate: func(s *Settings) { s.Output.Format = "None" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)

			err := s.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
