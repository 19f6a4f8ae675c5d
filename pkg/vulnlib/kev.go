package vulnlib

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// ExploitSet holds the CVE ids known to be exploited in the wild.
// It is read-only once loaded.
type ExploitSet map[string]struct{}

func NewExploitSet(ids ...string) ExploitSet {
	s := ExploitSet{}
	for _, id := range ids {
		if id = normalizeID(id); id != "" {
			s[id] = struct{}{}
		}
	}
	return s
}

func (s ExploitSet) Has(id string) bool {
	_, ok := s[normalizeID(id)]
	return ok
}

func (s ExploitSet) Len() int {
	return len(s)
}

func normalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// LoadKEV fetches the CISA KEV catalog. Enrichment is best effort: any
// failure yields an empty set.
func (c *Client) LoadKEV(ctx context.Context) ExploitSet {
	set, err := c.fetchKEV(ctx)
	if err != nil {
		log.Warnf("failed to load KEV catalog, error: %v", err)
		return ExploitSet{}
	}

	return set
}

func (c *Client) fetchKEV(ctx context.Context) (ExploitSet, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.opts.KEVTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.opts.KEVURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.opts.UserAgent)

	res, err := c.Cli.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d from KEV feed", ErrUnexpectedStatus, res.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, err
	}

	return ParseKEV(body)
}

// ParseKEV extracts every cveID of a KEV catalog body.
func ParseKEV(body []byte) (ExploitSet, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrMalformed
	}

	ids := []string{}
	for _, v := range gjson.GetBytes(body, "vulnerabilities.#.cveID").Array() {
		ids = append(ids, v.String())
	}

	return NewExploitSet(ids...), nil
}
