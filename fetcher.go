package blogimport

import "context"

// Fetcher retrieves page HTML from URLs.
type Fetcher interface {
	// Fetch returns the HTML served at url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// AssetFetcher downloads binary assets such as images.
type AssetFetcher interface {
	FetchAsset(ctx context.Context, url string) ([]byte, error)
}

// Waiter blocks until an element matching selector is present in a page
// and returns the page HTML at that moment. Implementations return the
// context's error when it expires first.
type Waiter interface {
	WaitFor(ctx context.Context, selector string) (html string, err error)
}

// Session is a live rendered page.
type Session interface {
	Waiter

	// HTML returns the page's current markup.
	HTML() (string, error)

	// Close releases the page.
	Close() error
}

// Renderer opens live browser sessions for JavaScript-rendered pages.
type Renderer interface {
	Open(ctx context.Context, url string) (Session, error)
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
