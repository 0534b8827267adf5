package http

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/blogimport"
)

var _ blogimport.SitemapService = (*SitemapService)(nil)

// SitemapService discovers blog page URLs from a site's sitemaps.
type SitemapService struct {
	client *http.Client
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client}
}

// DiscoverURLs lists the page URLs of every sitemap reachable from the
// site's robots.txt, or /sitemap.xml when robots.txt names none. When
// baseURL has a path, only pages below it are kept. Returns ENOTFOUND if
// the site has no sitemap.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *blogimport.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, blogimport.Errorf(blogimport.EINVALID, "invalid base URL %q", baseURL)
	}
	scope := strings.TrimSuffix(base.Path, "/")
	root := &url.URL{Scheme: base.Scheme, Host: base.Host}

	queue, err := s.sitemapLocations(ctx, root)
	if err != nil {
		return nil, err
	}
	if len(queue) == 0 {
		return nil, blogimport.Errorf(blogimport.ENOTFOUND, "no sitemap found for %s", root)
	}

	var pages []string
	visited := make(map[string]bool)
	kept := make(map[string]bool)
	for len(queue) > 0 {
		loc := queue[0]
		queue = queue[1:]
		if visited[loc] {
			continue
		}
		visited[loc] = true

		children, urls, err := s.readSitemap(ctx, loc)
		if err != nil {
			return nil, err
		}
		queue = append(queue, children...)

		for _, u := range urls {
			if kept[u] || !inScope(u, scope) || !filter.Match(u) {
				continue
			}
			kept[u] = true
			pages = append(pages, u)
		}
	}
	return pages, nil
}

// inScope reports whether rawURL's path lies under scope, on a segment
// boundary: /blog matches /blog and /blog/x but not /blogs.
func inScope(rawURL, scope string) bool {
	if scope == "" {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Path == scope || strings.HasPrefix(u.Path, scope+"/")
}

// sitemapLocations returns the Sitemap directives of robots.txt, falling
// back to /sitemap.xml when it exists.
func (s *SitemapService) sitemapLocations(ctx context.Context, root *url.URL) ([]string, error) {
	if locs, err := s.robotsSitemaps(ctx, root.JoinPath("robots.txt").String()); err == nil && len(locs) > 0 {
		return locs, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fallback := root.JoinPath("sitemap.xml").String()
	body, err := s.open(ctx, fallback)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	body.Close()
	return []string{fallback}, nil
}

func (s *SitemapService) robotsSitemaps(ctx context.Context, robotsURL string) ([]string, error) {
	body, err := s.open(ctx, robotsURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	const directive = "sitemap:"
	var locs []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) > len(directive) && strings.EqualFold(line[:len(directive)], directive) {
			if loc := strings.TrimSpace(line[len(directive):]); loc != "" {
				locs = append(locs, loc)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading robots.txt: %w", err)
	}
	return locs, nil
}

// readSitemap parses one sitemap. A sitemap index yields child sitemap
// locations, a urlset yields page URLs.
func (s *SitemapService) readSitemap(ctx context.Context, loc string) (children, pages []string, err error) {
	body, err := s.open(ctx, loc)
	if err != nil {
		return nil, nil, err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, nil, blogimport.Errorf(blogimport.EINVALID, "parsing sitemap %s: %v", loc, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, nil, blogimport.Errorf(blogimport.EINVALID, "empty sitemap %s", loc)
	}

	switch root.Tag {
	case "sitemapindex":
		return locs(root, "sitemap"), nil, nil
	case "urlset":
		return nil, locs(root, "url"), nil
	default:
		return nil, nil, blogimport.Errorf(blogimport.EINVALID, "sitemap %s: unexpected root element <%s>", loc, root.Tag)
	}
}

// locs returns the non-empty <loc> text of each child element named tag.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		if loc := el.SelectElement("loc"); loc != nil {
			if v := strings.TrimSpace(loc.Text()); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func (s *SitemapService) open(ctx context.Context, target string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, target)
	}
	return resp.Body, nil
}
