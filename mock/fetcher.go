package mock

import (
	"context"

	"github.com/fwojciec/blogimport"
)

var _ blogimport.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of blogimport.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ blogimport.AssetFetcher = (*AssetFetcher)(nil)

// AssetFetcher is a mock implementation of blogimport.AssetFetcher.
type AssetFetcher struct {
	FetchAssetFn func(ctx context.Context, url string) ([]byte, error)
}

func (f *AssetFetcher) FetchAsset(ctx context.Context, url string) ([]byte, error) {
	return f.FetchAssetFn(ctx, url)
}

var _ blogimport.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of blogimport.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
