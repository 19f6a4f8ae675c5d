package vulnlib

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kvesta/hostvuln/pkg/cpe"
	"github.com/kvesta/hostvuln/pkg/finding"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

var (
	ErrRateLimited      = errors.New("rate limited by vulnerability source")
	ErrUnexpectedStatus = errors.New("unexpected status from vulnerability source")
	ErrMalformed        = errors.New("malformed response body")
)

// Newest scoring scheme first.
var metricPrecedence = []string{
	"cvssMetricV40",
	"cvssMetricV31",
	"cvssMetricV30",
	"cvssMetricV2",
}

// VulnRecord is one normalized CVE entry.
type VulnRecord struct {
	ID          string           `json:"id"`
	Score       float64          `json:"score"`
	Severity    finding.Severity `json:"severity"`
	Vector      string           `json:"vector"`
	Description string           `json:"description"`
	Published   string           `json:"published"`
	Modified    string           `json:"modified"`
}

// QueryCVEs fetches the CVEs NVD associates with id. A failure is returned
// to the caller, who should treat it as no data for this identifier only.
func (c *Client) QueryCVEs(ctx context.Context, id cpe.Identifier) ([]VulnRecord, error) {
	cpeName := id.String()

	if c.DB != nil {
		records, ok, err := c.cached(cpeName)
		if err != nil {
			log.WithField("cpe", cpeName).Debugf("cache lookup failed, error: %v", err)
		} else if ok {
			log.WithField("cpe", cpeName).Debugf("served %d records from cache", len(records))
			return records, nil
		}
	}

	body, err := c.fetchCVEs(ctx, cpeName)
	if err != nil {
		return nil, err
	}

	records, err := ParseCVEs(body)
	if err != nil {
		return nil, fmt.Errorf("parse response for %s: %w", cpeName, err)
	}

	if c.DB != nil {
		if err := c.store(cpeName, records); err != nil {
			log.WithField("cpe", cpeName).Warnf("failed to store cache, error: %v", err)
		}
	}

	return records, nil
}

func (c *Client) fetchCVEs(ctx context.Context, cpeName string) ([]byte, error) {
	body, status, err := c.getCVEs(ctx, cpeName)
	if err != nil {
		return nil, err
	}

	if status == http.StatusTooManyRequests {
		log.WithField("cpe", cpeName).Warnf("rate limited, retrying in %s", c.opts.Backoff)

		if err := sleepContext(ctx, c.opts.Backoff); err != nil {
			return nil, err
		}

		body, status, err = c.getCVEs(ctx, cpeName)
		if err != nil {
			return nil, err
		}
		if status == http.StatusTooManyRequests {
			return nil, fmt.Errorf("%w: %s", ErrRateLimited, cpeName)
		}
	}

	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d for %s", ErrUnexpectedStatus, status, cpeName)
	}

	return body, nil
}

// getCVEs performs exactly one paced round trip.
func (c *Client) getCVEs(ctx context.Context, cpeName string) ([]byte, int, error) {
	if err := c.Pacer.Wait(ctx); err != nil {
		return nil, 0, err
	}

	u, err := url.Parse(c.opts.BaseURL)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid base url: %w", err)
	}
	q := u.Query()
	q.Set("cpeName", cpeName)
	q.Set("resultsPerPage", strconv.Itoa(c.opts.ResultsPerPage))
	u.RawQuery = q.Encode()

	reqCtx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.opts.UserAgent)
	if c.opts.APIKey != "" {
		req.Header.Set("apiKey", c.opts.APIKey)
	}

	res, err := c.Cli.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, res.StatusCode, err
	}

	return body, res.StatusCode, nil
}

// ParseCVEs normalizes an NVD CVE API 2.0 response body.
func ParseCVEs(body []byte) ([]VulnRecord, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrMalformed
	}

	records := []VulnRecord{}
	gjson.GetBytes(body, "vulnerabilities").ForEach(func(_, item gjson.Result) bool {
		cve := item.Get("cve")
		id := cve.Get("id").String()
		if id == "" {
			return true
		}

		score, severity, vector := bestMetric(cve.Get("metrics"))

		records = append(records, VulnRecord{
			ID:          id,
			Score:       score,
			Severity:    severity,
			Vector:      vector,
			Description: finding.TruncateDescription(cve.Get(`descriptions.#(lang=="en").value`).String()),
			Published:   cve.Get("published").String(),
			Modified:    cve.Get("lastModified").String(),
		})
		return true
	})

	return records, nil
}

func bestMetric(metrics gjson.Result) (float64, finding.Severity, string) {
	for _, key := range metricPrecedence {
		entries := metrics.Get(key).Array()
		if len(entries) < 1 {
			continue
		}

		data := entries[0].Get("cvssData")
		base := data.Get("baseScore")
		if !base.Exists() {
			continue
		}

		label := data.Get("baseSeverity").String()
		if label == "" {
			// v2 keeps the label next to cvssData
			label = entries[0].Get("baseSeverity").String()
		}

		severity := finding.ParseSeverity(label)
		if severity == finding.SeverityUnknown {
			severity = finding.SeverityFromScore(base.Float())
		}

		return base.Float(), severity, data.Get("vectorString").String()
	}

	return 0.0, finding.SeverityUnknown, ""
}
