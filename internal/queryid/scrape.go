// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package queryid

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"

	"github.com/pdiddy/chirp/internal/httputil"
	"github.com/pdiddy/chirp/internal/logging"
)

// DiscoveryPages are the web app pages whose HTML references the client
// bundles. Declared as a var so tests can substitute an httptest server.
var DiscoveryPages = []string{
	"https://x.com/?lang=en",
	"https://x.com/explore",
	"https://x.com/notifications",
	"https://x.com/settings/profile",
}

var (
	bundleRe = regexp.MustCompile(`https?://[^"'\s]+/responsive-web/client-web(?:-legacy)?/[A-Za-z0-9.~_-]+\.js`)

	// Bundles emit both key orders depending on the build.
	pairRe    = regexp.MustCompile(`queryId:"([^"]+)",operationName:"([^"]+)"`)
	pairRevRe = regexp.MustCompile(`operationName:"([^"]+)",queryId:"([^"]+)"`)
)

// maxBodyBytes bounds each downloaded page or bundle.
const maxBodyBytes = 16 << 20

// Scraper discovers current query ids by downloading the web app's
// JavaScript bundles and reading the queryId/operationName pairs they
// declare.
type Scraper struct {
	Client    *http.Client
	UserAgent string
	Policy    httputil.Policy
	Log       *logging.Logger
}

// Load implements Source.
func (s *Scraper) Load(ctx context.Context) (map[string]string, error) {
	log := logging.OrNop(s.Log)

	bundles := make(map[string]bool)
	var order []string
	for _, page := range DiscoveryPages {
		body, err := s.get(ctx, page)
		if err != nil {
			log.Warn("queryid", "page_fetch_failed", logging.Fields{"url": page, "error": err.Error()})
			continue
		}
		for _, u := range bundleRe.FindAllString(body, -1) {
			if !bundles[u] {
				bundles[u] = true
				order = append(order, u)
			}
		}
	}
	if len(order) == 0 {
		return nil, fmt.Errorf("no client bundles found on %d discovery pages", len(DiscoveryPages))
	}

	ids := make(map[string]string)
	for _, u := range order {
		body, err := s.get(ctx, u)
		if err != nil {
			log.Warn("queryid", "bundle_fetch_failed", logging.Fields{"url": u, "error": err.Error()})
			continue
		}
		for op, id := range ParseBundle(body) {
			ids[op] = id
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no query ids found in %d bundles", len(order))
	}
	log.Debug("queryid", "bundles_scanned", logging.Fields{"bundles": len(order), "operations": len(ids)})
	return ids, nil
}

// ParseBundle extracts operation-name to query-id pairs from bundle source.
func ParseBundle(src string) map[string]string {
	out := make(map[string]string)
	for _, m := range pairRe.FindAllStringSubmatch(src, -1) {
		out[m[2]] = m[1]
	}
	for _, m := range pairRevRe.FindAllStringSubmatch(src, -1) {
		if _, ok := out[m[1]]; !ok {
			out[m[1]] = m[2]
		}
	}
	return out
}

func (s *Scraper) get(ctx context.Context, url string) (string, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	policy := s.Policy
	if policy.MaxAttempts == 0 {
		policy = httputil.DefaultRegistry().PolicyFor(httputil.PolicyQueryIDs)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, policy, s.Log)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GET %s returned HTTP %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", url, err)
	}
	return string(data), nil
}
