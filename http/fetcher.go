// Package http fetches legacy blog pages, their image assets and sitemaps
// over plain HTTP. Pages that need JavaScript go through the rod package.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/blogimport"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
// Kept consistent with rod.DefaultFetchTimeout.
const DefaultFetchTimeout = 10 * time.Second

// DefaultMaxAssetSize caps downloaded asset bodies.
const DefaultMaxAssetSize = 32 << 20

// DefaultUserAgent identifies the importer to the legacy site.
const DefaultUserAgent = "blogimport/1.0"

var (
	_ blogimport.Fetcher      = (*Fetcher)(nil)
	_ blogimport.AssetFetcher = (*Fetcher)(nil)
)

// Fetcher retrieves pages and assets with HTTP GET requests.
// It does not execute JavaScript.
type Fetcher struct {
	client       *http.Client
	timeout      time.Duration
	userAgent    string
	maxAssetSize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxAssetSize limits how many bytes FetchAsset reads.
func WithMaxAssetSize(n int64) Option {
	return func(f *Fetcher) {
		f.maxAssetSize = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:      DefaultFetchTimeout,
		userAgent:    DefaultUserAgent,
		maxAssetSize: DefaultMaxAssetSize,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the HTML served at url.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	body, err := f.get(ctx, url, -1)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FetchAsset downloads a binary asset. Bodies larger than the configured
// maximum are rejected.
func (f *Fetcher) FetchAsset(ctx context.Context, url string) ([]byte, error) {
	return f.get(ctx, url, f.maxAssetSize)
}

// get performs a GET and reads at most limit bytes; a negative limit reads
// the whole body.
func (f *Fetcher) get(ctx context.Context, url string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, blogimport.Errorf(blogimport.EINVALID, "invalid URL %q: %v", url, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, blogimport.Errorf(blogimport.ENOTFOUND, "HTTP %d for %s", resp.StatusCode, url)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	var r io.Reader = resp.Body
	if limit >= 0 {
		r = io.LimitReader(resp.Body, limit+1)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if limit >= 0 && int64(len(body)) > limit {
		return nil, blogimport.Errorf(blogimport.EINVALID, "%s exceeds %d bytes", url, limit)
	}
	return body, nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
