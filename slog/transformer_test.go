package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/blogimport"
	"github.com/fwojciec/blogimport/goquery"
	"github.com/fwojciec/blogimport/mock"
	bislog "github.com/fwojciec/blogimport/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestLoggingTransformer_Transform(t *testing.T) {
	t.Parallel()

	src := &blogimport.Source{URL: "https://www.splunk.com/en_us/blog/a.html", HTML: "<p>x</p>"}

	t.Run("logs path and asset count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Transformer{
			TransformFn: func(ctx context.Context, src *blogimport.Source) ([]*blogimport.Record, error) {
				return []*blogimport.Record{
					{Content: &html.Node{Type: html.ElementNode, Data: "body"}, Path: "/en-us/blog/a"},
					{Source: "https://www.splunk.com/a.png", Path: "/a.png"},
				}, nil
			},
		}

		records, err := bislog.NewLoggingTransformer(inner, slog.New(slog.NewTextHandler(&buf, nil))).Transform(context.Background(), src)

		require.NoError(t, err)
		assert.Len(t, records, 2)
		assert.Contains(t, buf.String(), "level=INFO")
		assert.Contains(t, buf.String(), "path=/en-us/blog/a")
		assert.Contains(t, buf.String(), "assets=1")
	})

	t.Run("logs error code on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Transformer{
			TransformFn: func(ctx context.Context, src *blogimport.Source) ([]*blogimport.Record, error) {
				return nil, blogimport.Errorf(blogimport.ETIMEOUT, "%s: timed out", src.URL)
			},
		}

		_, err := bislog.NewLoggingTransformer(inner, slog.New(slog.NewTextHandler(&buf, nil))).Transform(context.Background(), src)

		require.Error(t, err)
		assert.Contains(t, buf.String(), "level=WARN")
		assert.Contains(t, buf.String(), "code=timeout")
		assert.Contains(t, buf.String(), "assets=0")
	})

	t.Run("logs the pipeline template", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		pipeline, err := goquery.NewPipeline(blogimport.TemplateArticle, blogimport.DefaultConfig(), slog.New(slog.DiscardHandler))
		require.NoError(t, err)

		_, err = bislog.NewLoggingTransformer(pipeline, slog.New(slog.NewTextHandler(&buf, nil))).
			Transform(context.Background(), &blogimport.Source{URL: src.URL, HTML: "<html><body><p>x</p></body></html>"})

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "template=article")
		assert.Contains(t, buf.String(), "path=/en-us/blog/a")
	})
}
