package batch_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/blogimport"
	"github.com/fwojciec/blogimport/batch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRetryDelays(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, batch.DefaultRetryDelays())
}

func TestWithRetry(t *testing.T) {
	t.Parallel()

	delays := []time.Duration{0, 0, 0}

	t.Run("returns first success", func(t *testing.T) {
		t.Parallel()

		calls := 0
		got, err := batch.WithRetry(context.Background(), "https://www.splunk.com/a", delays, nil, func(context.Context) (string, error) {
			calls++
			return "<html></html>", nil
		})

		require.NoError(t, err)
		assert.Equal(t, "<html></html>", got)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transient failures", func(t *testing.T) {
		t.Parallel()

		calls := 0
		got, err := batch.WithRetry(context.Background(), "https://www.splunk.com/a", delays, nil, func(context.Context) (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("connection reset")
			}
			return "ok", nil
		})

		require.NoError(t, err)
		assert.Equal(t, "ok", got)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after one attempt per delay plus one", func(t *testing.T) {
		t.Parallel()

		calls := 0
		_, err := batch.WithRetry(context.Background(), "https://www.splunk.com/a", delays, nil, func(context.Context) ([]byte, error) {
			calls++
			return nil, errors.New("HTTP 503")
		})

		require.EqualError(t, err, "HTTP 503")
		assert.Equal(t, 4, calls)
	})

	t.Run("does not retry not found", func(t *testing.T) {
		t.Parallel()

		calls := 0
		_, err := batch.WithRetry(context.Background(), "https://www.splunk.com/a", delays, nil, func(context.Context) (string, error) {
			calls++
			return "", blogimport.Errorf(blogimport.ENOTFOUND, "HTTP 404")
		})

		assert.Equal(t, blogimport.ENOTFOUND, blogimport.ErrorCode(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("stops when context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		_, err := batch.WithRetry(ctx, "https://www.splunk.com/a", []time.Duration{time.Hour}, nil, func(context.Context) (string, error) {
			calls++
			cancel()
			return "", errors.New("boom")
		})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}
