package main_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fwojciec/blogimport"
	"github.com/fwojciec/blogimport/batch"
	main "github.com/fwojciec/blogimport/cmd/blogimport"
	"github.com/fwojciec/blogimport/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

// Story: ImportCmd commits only when something was saved
//
// The command resolves URLs (directly or from sitemaps), runs the importer
// and then either commits or aborts the record store.

type storeCalls struct {
	saved     []string
	committed bool
	aborted   bool
}

func trackingStore(calls *storeCalls) *mock.RecordStore {
	return &mock.RecordStore{
		SaveDocumentFn: func(_ context.Context, path, _ string) error {
			calls.saved = append(calls.saved, path)
			return nil
		},
		SaveAssetFn: func(context.Context, string, []byte) error { return nil },
		CommitFn: func() error {
			calls.committed = true
			return nil
		},
		AbortFn: func() error {
			calls.aborted = true
			return nil
		},
	}
}

func stubImporter(fail string) *batch.Importer {
	return &batch.Importer{
		Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) { return "<p>" + url + "</p>", nil },
		},
		Transformer: &mock.Transformer{
			TransformFn: func(_ context.Context, src *blogimport.Source) ([]*blogimport.Record, error) {
				if fail != "" && strings.Contains(src.URL, fail) {
					return nil, blogimport.Errorf(blogimport.EINVALID, "%s: malformed card", src.URL)
				}
				path, err := blogimport.DocumentPath(src.URL)
				if err != nil {
					return nil, err
				}
				doc, _ := html.Parse(strings.NewReader(src.HTML))
				return []*blogimport.Record{{Content: doc, Path: path}}, nil
			},
		},
		Converter: &mock.Converter{
			ConvertFn: func(s string) (string, error) { return s, nil },
		},
		Concurrency: 1,
	}
}

func TestImportCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("commits saved pages", func(t *testing.T) {
		t.Parallel()

		// Given: two page URLs
		var calls storeCalls
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   &bytes.Buffer{},
			Importer: stubImporter(""),
			Store:    trackingStore(&calls),
		}
		cmd := &main.ImportCmd{URLs: []string{
			"https://www.splunk.com/en_us/blog/a.html",
			"https://www.splunk.com/en_us/blog/b.html",
		}}

		// When: running the import
		err := cmd.Run(deps)

		// Then: both documents are saved and the store is committed
		require.NoError(t, err)
		assert.Equal(t, []string{"/en-us/blog/a", "/en-us/blog/b"}, calls.saved)
		assert.True(t, calls.committed)
		assert.False(t, calls.aborted)
		assert.Contains(t, stdout.String(), "Saved 2 pages")
	})

	t.Run("aborts when nothing was saved", func(t *testing.T) {
		t.Parallel()

		var calls storeCalls
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   &bytes.Buffer{},
			Stderr:   stderr,
			Importer: stubImporter("a.html"),
			Store:    trackingStore(&calls),
		}
		cmd := &main.ImportCmd{URLs: []string{"https://www.splunk.com/en_us/blog/a.html"}}

		err := cmd.Run(deps)

		require.Error(t, err)
		assert.True(t, calls.aborted)
		assert.False(t, calls.committed)
		assert.Contains(t, stderr.String(), "malformed card")
	})

	t.Run("rejects relative page URLs", func(t *testing.T) {
		t.Parallel()

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
		}
		cmd := &main.ImportCmd{URLs: []string{"/en_us/blog/a.html"}}

		err := cmd.Run(deps)

		assert.Equal(t, blogimport.EINVALID, blogimport.ErrorCode(err))
	})

	t.Run("sitemap roots are merged without duplicates", func(t *testing.T) {
		t.Parallel()

		// Given: two roots whose sitemaps overlap
		var filters []*blogimport.URLFilter
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(_ context.Context, root string, filter *blogimport.URLFilter) ([]string, error) {
					filters = append(filters, filter)
					if strings.HasSuffix(root, "security/") {
						return []string{"https://www.splunk.com/en_us/blog/security/a.html"}, nil
					}
					return []string{
						"https://www.splunk.com/en_us/blog/security/a.html",
						"https://www.splunk.com/en_us/blog/learn/b.html",
					}, nil
				},
			},
		}
		filter, err := blogimport.NewURLFilter(nil, []string{"careers"})
		require.NoError(t, err)
		cmd := &main.ImportCmd{
			URLs: []string{
				"https://www.splunk.com/en_us/blog/security/",
				"https://www.splunk.com/en_us/blog/",
			},
			Sitemap: true,
			Preview: true,
			Filter:  filter,
		}

		// When: previewing
		err = cmd.Run(deps)

		// Then: each URL is listed once in discovery order and the filter is passed through
		require.NoError(t, err)
		assert.Equal(t, "https://www.splunk.com/en_us/blog/security/a.html\nhttps://www.splunk.com/en_us/blog/learn/b.html\n", stdout.String())
		assert.Equal(t, []*blogimport.URLFilter{filter, filter}, filters)
	})

	t.Run("empty sitemaps are not found", func(t *testing.T) {
		t.Parallel()

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
			Sitemaps: &mock.SitemapService{
				DiscoverURLsFn: func(context.Context, string, *blogimport.URLFilter) ([]string, error) {
					return nil, nil
				},
			},
		}
		cmd := &main.ImportCmd{URLs: []string{"https://www.splunk.com/en_us/blog/"}, Sitemap: true}

		err := cmd.Run(deps)

		assert.Equal(t, blogimport.ENOTFOUND, blogimport.ErrorCode(err))
	})
}
