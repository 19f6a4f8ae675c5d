package vulnlib

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultNVDURL = "https://services.nvd.nist.gov/rest/json/cves/2.0"
	DefaultKEVURL = "https://www.cisa.gov/sites/default/files/feeds/known_exploited_vulnerabilities.json"

	DefaultUserAgent      = "hostvuln/1.0"
	DefaultResultsPerPage = 100
	DefaultTimeout        = 30 * time.Second
	DefaultBackoff        = 6 * time.Second
	DefaultDelay          = 500 * time.Millisecond
	DefaultCacheTTL       = 24 * time.Hour

	maxBodySize = 64 << 20
)

// Pacer gates every outbound NVD request. One Pacer is shared by all workers
// of a scan so the request rate is bounded globally.
type Pacer interface {
	Wait(ctx context.Context) error
}

// NewPacer returns a token bucket that lets one request through per interval.
func NewPacer(interval time.Duration) Pacer {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

type Options struct {
	BaseURL        string
	APIKey         string
	UserAgent      string
	ResultsPerPage int
	Timeout        time.Duration
	Backoff        time.Duration
	Delay          time.Duration

	KEVURL     string
	KEVTimeout time.Duration

	// CacheTTL only matters when Client.DB is set.
	CacheTTL time.Duration
}

func (o *Options) setDefaults() {
	if o.BaseURL == "" {
		o.BaseURL = DefaultNVDURL
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.ResultsPerPage <= 0 {
		o.ResultsPerPage = DefaultResultsPerPage
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Backoff < 0 {
		o.Backoff = 0
	}
	if o.KEVURL == "" {
		o.KEVURL = DefaultKEVURL
	}
	if o.KEVTimeout <= 0 {
		o.KEVTimeout = DefaultTimeout
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = DefaultCacheTTL
	}
}

// Client talks to NVD and the KEV feed. It lives for one scan run.
type Client struct {
	Cli   *http.Client
	DB    *sql.DB
	Pacer Pacer

	opts Options
	now  func() time.Time
}

func NewClient(opts Options) *Client {
	opts.setDefaults()

	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		IdleConnTimeout:     60 * time.Second,
		MaxIdleConnsPerHost: 4,
	}

	return &Client{
		Cli: &http.Client{
			Transport: tr,
		},
		Pacer: NewPacer(opts.Delay),
		opts:  opts,
		now:   time.Now,
	}
}

func (c *Client) Options() Options {
	return c.opts
}

// Close releases the cache database, if any.
func (c *Client) Close() error {
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
