package mock

import (
	"context"

	"github.com/fwojciec/blogimport"
)

var _ blogimport.Waiter = (*Waiter)(nil)

// Waiter is a mock implementation of blogimport.Waiter.
type Waiter struct {
	WaitForFn func(ctx context.Context, selector string) (string, error)
}

func (w *Waiter) WaitFor(ctx context.Context, selector string) (string, error) {
	return w.WaitForFn(ctx, selector)
}

var _ blogimport.Session = (*Session)(nil)

// Session is a mock implementation of blogimport.Session.
type Session struct {
	WaitForFn func(ctx context.Context, selector string) (string, error)
	HTMLFn    func() (string, error)
	CloseFn   func() error
}

func (s *Session) WaitFor(ctx context.Context, selector string) (string, error) {
	return s.WaitForFn(ctx, selector)
}

func (s *Session) HTML() (string, error) {
	return s.HTMLFn()
}

func (s *Session) Close() error {
	return s.CloseFn()
}

var _ blogimport.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of blogimport.Renderer.
type Renderer struct {
	OpenFn func(ctx context.Context, url string) (blogimport.Session, error)
}

func (r *Renderer) Open(ctx context.Context, url string) (blogimport.Session, error) {
	return r.OpenFn(ctx, url)
}
