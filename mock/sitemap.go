package mock

import (
	"context"

	"github.com/fwojciec/blogimport"
)

var _ blogimport.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of blogimport.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *blogimport.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *blogimport.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
