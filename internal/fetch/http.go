// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/opac-connector/internal/httputil"
	"github.com/pdiddy/opac-connector/pkg/types"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultUserAgent    = "opac-connector/0.1"
	defaultMaxBodyBytes = 8 << 20
)

// HTTPTransport is the production Transport. It applies a per-request
// timeout, a per-host rate limit, and back-off on 429/503.
type HTTPTransport struct {
	Client *http.Client
	cfg    types.HTTPConfig
	hosts  *hostLimiter
}

// NewHTTPTransport returns a transport configured from cfg, filling in
// defaults for zero values.
func NewHTTPTransport(cfg types.HTTPConfig) *HTTPTransport {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	t := &HTTPTransport{
		Client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
	}
	if cfg.RequestsPerSecond > 0 {
		t.hosts = newHostLimiter(rate.Limit(cfg.RequestsPerSecond))
	}
	return t
}

// Get performs a GET request and returns the body of a 2xx response.
func (t *HTTPTransport) Get(ctx context.Context, rawURL string) ([]byte, error) {
	if t.hosts != nil {
		if err := t.hosts.wait(ctx, rawURL); err != nil {
			return nil, &TransportError{URL: rawURL, Err: fmt.Errorf("rate limit: %w", err)}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", t.cfg.UserAgent)
	req.Header.Set("Accept", "application/rss+xml, application/xml;q=0.9, text/xml;q=0.8")
	if t.cfg.Username != "" {
		req.SetBasicAuth(t.cfg.Username, t.cfg.Password)
	}

	resp, err := httputil.DoWithRetry(ctx, t.Client, req, t.cfg.MaxRetries)
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &TransportError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, t.cfg.MaxBodyBytes+1))
	if err != nil {
		return nil, &TransportError{URL: rawURL, Err: fmt.Errorf("reading body: %w", err)}
	}
	if int64(len(data)) > t.cfg.MaxBodyBytes {
		return nil, &TransportError{URL: rawURL, Err: fmt.Errorf("response exceeds %d bytes", t.cfg.MaxBodyBytes)}
	}
	return data, nil
}

// hostLimiter keeps one token bucket per catalog host.
type hostLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
}

func newHostLimiter(limit rate.Limit) *hostLimiter {
	return &hostLimiter{limiters: make(map[string]*rate.Limiter), limit: limit}
}

func (h *hostLimiter) wait(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", rawURL)
	}
	return h.forHost(u.Host).Wait(ctx)
}

func (h *hostLimiter) forHost(host string) *rate.Limiter {
	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.limiters[host]
	if !ok {
		l = rate.NewLimiter(h.limit, 1)
		h.limiters[host] = l
	}
	return l
}
