package main

import (
	"fmt"
	"net/url"

	"github.com/fwojciec/blogimport"
	"github.com/fwojciec/blogimport/batch"
)

// Run executes the import command.
func (c *ImportCmd) Run(deps *Dependencies) error {
	urls, err := c.resolve(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", blogimport.ErrorMessage(err))
		return err
	}

	if c.Preview {
		for _, u := range urls {
			fmt.Fprintln(deps.Stdout, u)
		}
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Importing %d pages\n", len(urls))

	progress := func(e batch.ProgressEvent) {
		switch e.Type {
		case batch.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "skip %s: %s\n", e.URL, blogimport.ErrorMessage(e.Error))
		case batch.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "[%d/%d] %s -> %s\n", e.Completed, e.Total, truncateURL(e.URL, 60), e.Path)
		}
	}

	deps.Importer.Store = deps.Store
	result, err := deps.Importer.Run(deps.Ctx, urls, progress)
	if err != nil {
		_ = deps.Store.Abort()
		fmt.Fprintf(deps.Stderr, "error importing: %v\n", err)
		return err
	}

	if result.Saved == 0 {
		_ = deps.Store.Abort()
		fmt.Fprintln(deps.Stdout, "No pages saved")
	} else {
		if err := deps.Store.Commit(); err != nil {
			fmt.Fprintf(deps.Stderr, "error committing: %v\n", err)
			return err
		}
		fmt.Fprintf(deps.Stdout, "Saved %d pages, %d assets\n", result.Saved, result.Assets)
	}

	if result.Failed > 0 {
		return fmt.Errorf("%d of %d pages failed", result.Failed, len(urls))
	}
	return nil
}

// resolve returns the page URLs to import. With Sitemap set every argument
// is a blog root whose sitemap pages are collected in order, without
// duplicates.
func (c *ImportCmd) resolve(deps *Dependencies) ([]string, error) {
	if len(c.URLs) == 0 {
		return nil, blogimport.Errorf(blogimport.EINVALID, "at least one URL required")
	}
	if !c.Sitemap {
		for _, u := range c.URLs {
			if parsed, err := url.Parse(u); err != nil || parsed.Scheme == "" || parsed.Host == "" {
				return nil, blogimport.Errorf(blogimport.EINVALID, "invalid page URL %q", u)
			}
		}
		return c.URLs, nil
	}

	var urls []string
	seen := make(map[string]bool)
	for _, root := range c.URLs {
		found, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, root, c.Filter)
		if err != nil {
			return nil, err
		}
		for _, u := range found {
			if !seen[u] {
				seen[u] = true
				urls = append(urls, u)
			}
		}
	}
	if len(urls) == 0 {
		return nil, blogimport.Errorf(blogimport.ENOTFOUND, "no pages found in sitemaps")
	}
	return urls, nil
}

// truncateURL shortens a URL for display by showing only the path.
func truncateURL(rawURL string, maxLen int) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		if len(rawURL) <= maxLen {
			return rawURL
		}
		return rawURL[:maxLen-3] + "..."
	}

	path := parsed.Path
	if path == "" {
		path = "/"
	}
	if len(path) <= maxLen {
		return path
	}
	return "..." + path[len(path)-maxLen+3:]
}
