// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package twitter is the authenticated client for the X web API. One
// Client holds the session headers, per-call timeout, query id resolver
// and retry policies; every capability (posting, media upload, search,
// timelines, tweet detail, users) is a method set on it, and every
// network call goes through Client.do.
package twitter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/pdiddy/chirp/internal/credentials"
	"github.com/pdiddy/chirp/internal/httputil"
	"github.com/pdiddy/chirp/internal/logging"
	"github.com/pdiddy/chirp/internal/queryid"
	"github.com/pdiddy/chirp/pkg/types"
)

// Base URLs. Declared as vars so tests can substitute an httptest server.
var (
	apiBase    = "https://x.com/i/api"
	uploadBase = "https://upload.x.com/i/media/upload.json"
)

// bearerToken is the public token the web app authenticates with.
const bearerToken = "AAAAAAAAAAAAAAAAAAAAANRILgAAAAAAnNwIzUejRCOuH5E6I8xnZz4puTs%3D1Zv7ttfk8LF81IUq16cHjhLTvJu4FA33AGWWjCpTnA"

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
	maxResponseBytes = 32 << 20
)

// Options configures New. Only Credentials is required.
type Options struct {
	Credentials types.Credentials
	Config      types.ClientConfig

	// HTTPClient defaults to a client without its own timeout; the
	// per-call timeout comes from Config.Timeout.
	HTTPClient *http.Client

	// Retries defaults to httputil.DefaultRegistry().
	Retries *httputil.Registry

	// Resolver defaults to bundled ids (with Config.QueryIDs overrides)
	// refreshed by scraping the web bundles.
	Resolver *queryid.Resolver

	Logger *logging.Logger

	// Registerer receives the client metrics. Nil leaves them unregistered.
	Registerer prometheus.Registerer
}

// Client talks to the X web API on behalf of one session.
type Client struct {
	http       *http.Client
	creds      types.Credentials
	resolver   *queryid.Resolver
	retries    httputil.Registry
	log        *logging.Logger
	limiter    *rate.Limiter
	metrics    *Metrics
	clientUUID string
	userAgent  string
	timeout    time.Duration
	quoteDepth int

	userMu sync.Mutex
	userID string
}

// New builds a client. Missing tokens are a precondition failure and
// return credentials.ErrMissingCredentials.
func New(opts Options) (*Client, error) {
	if !opts.Credentials.Valid() {
		return nil, credentials.ErrMissingCredentials
	}
	creds := opts.Credentials
	if creds.CookieHeader == "" {
		creds.CookieHeader = credentials.CookieHeader(creds.AuthToken, creds.CT0, "")
	}

	cfg := opts.Config
	c := &Client{
		http:       opts.HTTPClient,
		creds:      creds,
		log:        logging.OrNop(opts.Logger),
		metrics:    NewMetrics(opts.Registerer),
		clientUUID: uuid.NewString(),
		userAgent:  cfg.UserAgent,
		timeout:    cfg.Timeout,
		quoteDepth: cfg.QuoteDepth,
		retries:    httputil.DefaultRegistry(),
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.userAgent == "" {
		c.userAgent = defaultUserAgent
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.quoteDepth < 0 {
		c.quoteDepth = 0
	}
	if opts.Retries != nil {
		c.retries = *opts.Retries
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	c.resolver = opts.Resolver
	if c.resolver == nil {
		scraper := &queryid.Scraper{
			Client:    c.http,
			UserAgent: c.userAgent,
			Policy:    c.retries.PolicyFor(httputil.PolicyQueryIDs),
			Log:       c.log,
		}
		c.resolver = queryid.New(queryid.Bundled(cfg.QueryIDs), scraper, c.log)
	}

	if id := userIDFromCookie(creds.CookieHeader); id != "" {
		c.userID = id
	}
	return c, nil
}

// Resolver exposes the query id cache, used by the query-ids command.
func (c *Client) Resolver() *queryid.Resolver { return c.resolver }

// Metrics exposes the client counters.
func (c *Client) Metrics() *Metrics { return c.metrics }

// request is one upstream call.
type request struct {
	// name labels logs and metrics.
	name        string
	method      string
	url         string
	body        []byte
	contentType string
}

// response is a fully read upstream response.
type response struct {
	status int
	body   []byte
}

// JSON parses the body lazily.
func (r *response) JSON() gjson.Result {
	return gjson.ParseBytes(r.body)
}

// do sends req with the session headers under the per-call timeout. The
// body is always read in full. Non-2xx statuses return the response
// together with an *HTTPError; a timeout returns ErrTimeout.
func (c *Client) do(ctx context.Context, req request) (*response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}
	httpReq, err := http.NewRequestWithContext(callCtx, req.method, req.url, body)
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", req.name, err)
	}
	c.setHeaders(httpReq)
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, c.transportError(ctx, callCtx, req, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, c.transportError(ctx, callCtx, req, err)
	}

	c.metrics.Requests.WithLabelValues(req.name, strconv.Itoa(resp.StatusCode)).Inc()
	c.log.Debug("http", "response", logging.Fields{
		"operation":   req.name,
		"status":      resp.StatusCode,
		"bytes":       len(data),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	out := &response{status: resp.StatusCode, body: data}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, &HTTPError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	return out, nil
}

func (c *Client) transportError(ctx, callCtx context.Context, req request, err error) error {
	if ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		c.metrics.Requests.WithLabelValues(req.name, "timeout").Inc()
		return fmt.Errorf("%s after %s: %w", req.name, c.timeout, ErrTimeout)
	}
	c.metrics.Requests.WithLabelValues(req.name, "error").Inc()
	return fmt.Errorf("%s: %w", req.name, err)
}

func (c *Client) setHeaders(req *http.Request) {
	h := req.Header
	h.Set("Authorization", "Bearer "+bearerToken)
	h.Set("X-Csrf-Token", c.creds.CT0)
	h.Set("Cookie", c.creds.CookieHeader)
	h.Set("X-Twitter-Auth-Type", "OAuth2Session")
	h.Set("X-Twitter-Active-User", "yes")
	h.Set("X-Twitter-Client-Language", "en")
	h.Set("X-Client-Uuid", c.clientUUID)
	h.Set("User-Agent", c.userAgent)
	h.Set("Origin", "https://x.com")
	h.Set("Referer", "https://x.com/")
	h.Set("Accept", "*/*")
	if id := c.cachedUserID(); id != "" {
		h.Set("X-Twitter-Client-User-Id", id)
	}
}

// retryable marks errors that no retry can fix as permanent: client-side
// HTTP statuses other than 429, application errors and cancellation.
func retryable(err error) error {
	if err == nil {
		return nil
	}
	var he *HTTPError
	if errors.As(err, &he) {
		if he.StatusCode == http.StatusTooManyRequests || he.StatusCode >= 500 {
			return err
		}
		return httputil.Permanent(err)
	}
	var ae *APIError
	if errors.As(err, &ae) || errors.Is(err, context.Canceled) {
		return httputil.Permanent(err)
	}
	return err
}
