package goquery

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/blogimport"
)

var _ blogimport.Waiter = (*DocumentWaiter)(nil)

// DocumentWaiter waits on a static HTML snapshot. It is used when a source
// has no live page behind it: the condition either holds now or the wait
// runs until its context expires.
type DocumentWaiter struct {
	html     string
	interval time.Duration
	doc      *goquery.Document
}

// NewDocumentWaiter returns a waiter over the given markup.
func NewDocumentWaiter(html string, interval time.Duration) *DocumentWaiter {
	return &DocumentWaiter{html: html, interval: interval}
}

// WaitFor polls the parsed document until selector matches.
func (w *DocumentWaiter) WaitFor(ctx context.Context, selector string) (string, error) {
	m, err := cascadia.Compile(selector)
	if err != nil {
		return "", blogimport.Errorf(blogimport.EINVALID, "invalid wait selector %q: %v", selector, err)
	}
	if w.doc == nil {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(w.html))
		if err != nil {
			return "", blogimport.Errorf(blogimport.EINVALID, "parsing document: %v", err)
		}
		w.doc = doc
	}
	err = blogimport.Poll(ctx, w.interval, func() (bool, error) {
		return w.doc.FindMatcher(m).Length() > 0, nil
	})
	if err != nil {
		return "", err
	}
	return w.html, nil
}
