// Package http provides net/http implementations of the upstream game API:
// a raw JSON Fetcher and a Client exposing the three read-only operations.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fwojciec/ladderwatch"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// DefaultUserAgent identifies the crawler to the upstream.
const DefaultUserAgent = "ladderwatch/1.0"

// DefaultMaxBodySize caps how much of a response body is accepted.
const DefaultMaxBodySize = 8 << 20

// Ensure Fetcher implements ladderwatch.Fetcher at compile time.
var _ ladderwatch.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves JSON bodies from the upstream using plain GET requests.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	limiter   ladderwatch.HostLimiter
	userAgent string
	maxBody   int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithLimiter makes every request wait on a per-host limiter first.
func WithLimiter(l ladderwatch.HostLimiter) Option {
	return func(f *Fetcher) {
		f.limiter = l
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the largest response body Fetch accepts.
// Defaults to DefaultMaxBodySize.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBody = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
		maxBody:   DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the body of the given URL.
// A 404 is reported as ENOTFOUND; any other non-2xx status is an error, as is
// a body larger than the configured maximum.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if f.limiter != nil {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, err
		}
		if err := f.limiter.Wait(ctx, u.Host); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ladderwatch.Errorf(ladderwatch.ENOTFOUND, "HTTP 404 for %s", rawURL)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > f.maxBody {
		return nil, fmt.Errorf("response too large for %s: exceeds %d bytes", rawURL, f.maxBody)
	}
	return body, nil
}
