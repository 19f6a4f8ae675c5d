package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kvesta/hostvuln/pkg/cpe"
	"github.com/kvesta/hostvuln/pkg/vulnlib"

	"github.com/spf13/viper"
)

const EnvPrefix = "HOSTVULN"

var outputFormats = []string{"html", "json", "both", "none"}

type Settings struct {
	NVD         NVDConfig         `mapstructure:"nvd"`
	KEV         KEVConfig         `mapstructure:"kev"`
	Scan        ScanConfig        `mapstructure:"scan"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Log         LogConfig         `mapstructure:"log"`
	Output      OutputConfig      `mapstructure:"output"`
	Identifiers IdentifiersConfig `mapstructure:"identifiers"`
}

type NVDConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	ResultsPerPage int           `mapstructure:"results_per_page"`
	Timeout        time.Duration `mapstructure:"timeout"`
	Backoff        time.Duration `mapstructure:"backoff"`
	Delay          time.Duration `mapstructure:"delay"`
	UserAgent      string        `mapstructure:"user_agent"`
}

type KEVConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type ScanConfig struct {
	Workers int  `mapstructure:"workers"`
	Audit   bool `mapstructure:"audit"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Path    string        `mapstructure:"path"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

type OutputConfig struct {
	Path   string `mapstructure:"path"`
	Format string `mapstructure:"format"`
	Open   bool   `mapstructure:"open"`
}

type IdentifiersConfig struct {
	Extra []cpe.Entry `mapstructure:"extra"`
}

func SetDefaults(v *viper.Viper) {
	// NVD
	v.SetDefault("nvd.base_url", vulnlib.DefaultNVDURL)
	v.SetDefault("nvd.api_key", "")
	v.SetDefault("nvd.results_per_page", vulnlib.DefaultResultsPerPage)
	v.SetDefault("nvd.timeout", vulnlib.DefaultTimeout)
	v.SetDefault("nvd.backoff", vulnlib.DefaultBackoff)
	v.SetDefault("nvd.delay", vulnlib.DefaultDelay)
	v.SetDefault("nvd.user_agent", vulnlib.DefaultUserAgent)

	// KEV
	v.SetDefault("kev.url", vulnlib.DefaultKEVURL)
	v.SetDefault("kev.timeout", vulnlib.DefaultTimeout)

	// Scan
	v.SetDefault("scan.workers", 1)
	v.SetDefault("scan.audit", true)

	// Cache
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.path", "")
	v.SetDefault("cache.ttl", vulnlib.DefaultCacheTTL)

	// Log
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age", 30)
	v.SetDefault("log.compress", true)

	// Output
	v.SetDefault("output.path", "output")
	v.SetDefault("output.format", "html")
	v.SetDefault("output.open", false)
}

// NewViper returns a viper instance with defaults, HOSTVULN_* environment
// binding and, when path is set, the given config file loaded.
func NewViper(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		return v, nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	return v, nil
}

// FromViper decodes and validates the settings held by v.
func FromViper(v *viper.Viper) (*Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if s.Cache.Path == "" {
		path, err := vulnlib.DefaultCachePath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve cache path: %w", err)
		}
		s.Cache.Path = path
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &s, nil
}

// Load reads the configuration from defaults, the optional file at path and
// the environment.
func Load(path string) (*Settings, error) {
	v, err := NewViper(path)
	if err != nil {
		return nil, err
	}

	return FromViper(v)
}

// Validate checks the settings for sane values.
func (s *Settings) Validate() error {
	if s.Scan.Workers <= 0 {
		return errors.New("scan.workers must be a positive integer")
	}
	if s.NVD.ResultsPerPage < 1 || s.NVD.ResultsPerPage > 2000 {
		return fmt.Errorf("nvd.results_per_page must be between 1 and 2000, got %d", s.NVD.ResultsPerPage)
	}
	// NVD throttles unpaced clients, so pacing cannot be switched off
	if s.NVD.Delay <= 0 {
		return fmt.Errorf("nvd.delay must be positive, got %s", s.NVD.Delay)
	}
	if strings.TrimSpace(s.NVD.BaseURL) == "" {
		return errors.New("nvd.base_url is required")
	}

	format := strings.ToLower(s.Output.Format)
	valid := false
	for _, f := range outputFormats {
		if format == f {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("output.format must be one of %s, got %q", strings.Join(outputFormats, ", "), s.Output.Format)
	}
	s.Output.Format = format

	return nil
}

// ClientOptions maps the settings onto the vulnerability source client.
func (s *Settings) ClientOptions() vulnlib.Options {
	return vulnlib.Options{
		BaseURL:        s.NVD.BaseURL,
		APIKey:         s.NVD.APIKey,
		UserAgent:      s.NVD.UserAgent,
		ResultsPerPage: s.NVD.ResultsPerPage,
		Timeout:        s.NVD.Timeout,
		Backoff:        s.NVD.Backoff,
		Delay:          s.NVD.Delay,
		KEVURL:         s.KEV.URL,
		KEVTimeout:     s.KEV.Timeout,
		CacheTTL:       s.Cache.TTL,
	}
}

// IdentifierMap returns the built-in identifier map extended with the
// configured entries.
func (s *Settings) IdentifierMap() cpe.Map {
	return cpe.DefaultMap.With(s.Identifiers.Extra...)
}
