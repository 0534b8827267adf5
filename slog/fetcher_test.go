package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/blogimport/mock"
	bislog "github.com/fwojciec/blogimport/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "<html>content</html>", nil
			},
		}

		fetcher := bislog.NewLoggingFetcher(inner, logger)
		html, err := fetcher.Fetch(context.Background(), "https://www.splunk.com/en_us/blog/a.html")

		require.NoError(t, err)
		assert.Equal(t, "<html>content</html>", html)
		output := buf.String()
		assert.Contains(t, output, "msg=fetch")
		assert.Contains(t, output, "url=https://www.splunk.com/en_us/blog/a.html")
		assert.Contains(t, output, "bytes=20")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "", errors.New("network error")
			},
		}

		_, err := bislog.NewLoggingFetcher(inner, logger).Fetch(context.Background(), "https://example.com")

		require.Error(t, err)
		assert.Contains(t, buf.String(), `err="network error"`)
	})
}

func TestLoggingFetcher_Close(t *testing.T) {
	t.Parallel()

	closeCalled := false
	inner := &mock.Fetcher{
		CloseFn: func() error {
			closeCalled = true
			return nil
		},
	}

	err := bislog.NewLoggingFetcher(inner, slog.New(slog.DiscardHandler)).Close()

	require.NoError(t, err)
	assert.True(t, closeCalled)
}

func TestLoggingAssetFetcher_FetchAsset(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	inner := &mock.AssetFetcher{
		FetchAssetFn: func(ctx context.Context, url string) ([]byte, error) {
			return []byte("png!"), nil
		},
	}

	data, err := bislog.NewLoggingAssetFetcher(inner, logger).FetchAsset(context.Background(), "https://www.splunk.com/a.png")

	require.NoError(t, err)
	assert.Equal(t, []byte("png!"), data)
	assert.Contains(t, buf.String(), `msg="fetch asset"`)
	assert.Contains(t, buf.String(), "bytes=4")
}
