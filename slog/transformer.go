package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/blogimport"
)

var _ blogimport.Transformer = (*LoggingTransformer)(nil)

// LoggingTransformer wraps a Transformer with logging.
type LoggingTransformer struct {
	next   blogimport.Transformer
	logger *slog.Logger
}

// NewLoggingTransformer creates a new LoggingTransformer. When next reports
// the template it handles, every log entry carries it.
func NewLoggingTransformer(next blogimport.Transformer, logger *slog.Logger) *LoggingTransformer {
	if tp, ok := next.(interface{ Template() blogimport.Template }); ok {
		logger = logger.With("template", string(tp.Template()))
	}
	return &LoggingTransformer{next: next, logger: logger}
}

// Transform delegates to the wrapped transformer and logs where the main
// content went and how many assets the page references.
func (t *LoggingTransformer) Transform(ctx context.Context, src *blogimport.Source) (records []*blogimport.Record, err error) {
	defer func(begin time.Time) {
		var path string
		if len(records) > 0 {
			path = records[0].Path
		}
		attrs := []any{
			"url", src.URL,
			"path", path,
			"assets", max(len(records)-1, 0),
			"duration", time.Since(begin),
		}
		if err != nil {
			t.logger.Warn("transform", append(attrs, "code", blogimport.ErrorCode(err), "err", err)...)
			return
		}
		t.logger.Info("transform", attrs...)
	}(time.Now())
	return t.next.Transform(ctx, src)
}
