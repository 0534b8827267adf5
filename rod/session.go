package rod

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/blogimport"
	"github.com/go-rod/rod"
)

var _ blogimport.Session = (*Session)(nil)

// Session is a loaded browser page.
type Session struct {
	page     *rod.Page
	url      string
	interval time.Duration
}

// WaitFor polls the live DOM until selector matches, then returns the
// page HTML. It returns ctx's error when the context ends first.
func (s *Session) WaitFor(ctx context.Context, selector string) (string, error) {
	err := blogimport.Poll(ctx, s.interval, func() (bool, error) {
		found, _, err := s.page.Context(ctx).Has(selector)
		if err != nil {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			return false, fmt.Errorf("querying %q on %s: %w", selector, s.url, err)
		}
		return found, nil
	})
	if err != nil {
		return "", err
	}
	return s.HTML()
}

// HTML returns the page's current markup.
func (s *Session) HTML() (string, error) {
	html, err := s.page.HTML()
	if err != nil {
		return "", fmt.Errorf("reading HTML of %s: %w", s.url, err)
	}
	return html, nil
}

// Close closes the page.
func (s *Session) Close() error {
	return s.page.Close()
}
