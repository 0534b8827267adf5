// Package rod renders legacy blog pages in headless Chrome for templates
// whose content is assembled by JavaScript.
package rod

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/blogimport"
	"github.com/go-rod/rod"
)

// DefaultFetchTimeout bounds navigation and load of one page.
const DefaultFetchTimeout = 10 * time.Second

var (
	_ blogimport.Fetcher  = (*Fetcher)(nil)
	_ blogimport.Renderer = (*Fetcher)(nil)
)

// Fetcher loads pages in a managed browser. Fetch returns a snapshot after
// load; Open keeps the page live so the transform can wait on it.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager      *BrowserManager
	timeout      time.Duration
	pollInterval time.Duration
	managerOpts  []ManagerOption
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout bounds navigation and page load.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithPollInterval sets how often live sessions re-check a wait selector.
func WithPollInterval(d time.Duration) Option {
	return func(f *Fetcher) {
		f.pollInterval = d
	}
}

// WithStealth applies go-rod/stealth evasions to every page.
func WithStealth(enabled bool) Option {
	return func(f *Fetcher) {
		f.managerOpts = append(f.managerOpts, WithStealthPages(enabled))
	}
}

// WithBrowserRecycling recycles the browser after n pages.
func WithBrowserRecycling(n int64) Option {
	return func(f *Fetcher) {
		f.managerOpts = append(f.managerOpts, WithMaxPages(n))
	}
}

// WithManagerOptions passes options through to the BrowserManager.
func WithManagerOptions(opts ...ManagerOption) Option {
	return func(f *Fetcher) {
		f.managerOpts = append(f.managerOpts, opts...)
	}
}

// NewFetcher launches a headless browser. Close must be called when the
// Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:      DefaultFetchTimeout,
		pollInterval: blogimport.DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(f.managerOpts...)
	if err != nil {
		return nil, err
	}
	f.manager = manager
	return f, nil
}

// Fetch navigates to url and returns the HTML once the page has loaded.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	s, err := f.open(ctx, url)
	if err != nil {
		return "", err
	}
	defer s.Close()
	return s.HTML()
}

// Open navigates to url and returns the live page. The caller must close
// the session.
func (f *Fetcher) Open(ctx context.Context, url string) (blogimport.Session, error) {
	return f.open(ctx, url)
}

func (f *Fetcher) open(ctx context.Context, url string) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := f.manager.NewPage()
	if err != nil {
		return nil, err
	}

	if err := navigate(ctx, page, url, f.timeout); err != nil {
		_ = page.Close()
		return nil, err
	}
	return &Session{page: page, url: url, interval: f.pollInterval}, nil
}

func navigate(ctx context.Context, page *rod.Page, url string, timeout time.Duration) error {
	navCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	p := page.Context(navCtx)
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("loading %s: %w", url, err)
	}
	return nil
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// Close releases browser resources.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}
