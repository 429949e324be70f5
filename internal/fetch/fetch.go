// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves catalog documents through an injected transport.
// The Fetcher adds no retries and no caching of its own; those are policies
// of the Transport it wraps.
package fetch

import (
	"context"
	"errors"
	"fmt"
)

// Transport is the capability that turns a URL into raw bytes. It fails on
// network errors, timeouts, and non-success statuses.
type Transport interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, url string) ([]byte, error)

// Get calls f(ctx, url).
func (f TransportFunc) Get(ctx context.Context, url string) ([]byte, error) { return f(ctx, url) }

// TransportError reports a failure to reach the catalog. StatusCode is zero
// when no HTTP response was received.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Fetcher retrieves documents from the catalog.
type Fetcher struct {
	transport Transport
}

// NewFetcher returns a Fetcher delegating to t.
func NewFetcher(t Transport) *Fetcher {
	return &Fetcher{transport: t}
}

// Fetch returns the raw bytes at url. Every failure is reported as a
// *TransportError.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	data, err := f.transport.Get(ctx, url)
	if err == nil {
		return data, nil
	}
	var te *TransportError
	if errors.As(err, &te) {
		return nil, err
	}
	return nil, &TransportError{URL: url, Err: err}
}
