package batch

import (
	"context"
	"strings"
	"sync"

	"github.com/fwojciec/blogimport"
	"golang.org/x/time/rate"
)

var _ blogimport.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces out requests per host with one token bucket each, so
// page fetches and asset downloads from different hosts proceed in
// parallel while each host sees at most rps requests per second.
type DomainLimiter struct {
	limit rate.Limit
	burst int

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

// LimiterOption configures a DomainLimiter.
type LimiterOption func(*DomainLimiter)

// WithBurst lets a host take n requests back to back before spacing starts.
func WithBurst(n int) LimiterOption {
	return func(d *DomainLimiter) {
		if n > 0 {
			d.burst = n
		}
	}
}

// NewDomainLimiter returns a limiter allowing rps requests per second per
// host. A non-positive rps disables limiting.
func NewDomainLimiter(rps float64, opts ...LimiterOption) *DomainLimiter {
	d := &DomainLimiter{
		limit:   rate.Limit(rps),
		burst:   1,
		buckets: make(map[string]*rate.Limiter),
	}
	if rps <= 0 {
		d.limit = rate.Inf
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Wait blocks until domain may be requested again or ctx is done.
// Host names are compared case-insensitively.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return d.bucket(strings.ToLower(domain)).Wait(ctx)
}

func (d *DomainLimiter) bucket(host string) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.buckets[host]
	if !ok {
		b = rate.NewLimiter(d.limit, d.burst)
		d.buckets[host] = b
	}
	return b
}
