package slog

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/blogimport"
)

var _ blogimport.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService and logs each discovery with
// the site, the path scope and the filter that narrowed it.
type LoggingSitemapService struct {
	next   blogimport.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next blogimport.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs delegates to the wrapped service. An empty result is logged
// as a warning, since the batch then has nothing to import.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *blogimport.URLFilter) (urls []string, err error) {
	defer func(begin time.Time) {
		site, scope := baseURL, "/"
		if u, perr := url.Parse(baseURL); perr == nil && u.Host != "" {
			site = u.Host
			if p := strings.TrimSuffix(u.Path, "/"); p != "" {
				scope = p
			}
		}
		attrs := []any{
			"site", site,
			"scope", scope,
			"urls", len(urls),
			"duration", time.Since(begin),
		}
		if filter != nil {
			attrs = append(attrs, "include", len(filter.Include), "exclude", len(filter.Exclude))
		}
		switch {
		case err != nil:
			s.logger.Warn("sitemap discovery failed", append(attrs, "code", blogimport.ErrorCode(err), "err", err)...)
		case len(urls) == 0:
			s.logger.Warn("sitemap discovery found no pages in scope", attrs...)
		default:
			s.logger.Info("sitemap discovery", attrs...)
		}
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL, filter)
}
