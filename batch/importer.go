// Package batch drives page imports across many URLs. It coordinates
// fetching or rendering, transforming, converting, asset copying and storage
// of each page, keeping failures scoped to the page that caused them.
package batch

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/blogimport"
	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DefaultConcurrency is used when Importer.Concurrency is not positive.
const DefaultConcurrency = 4

// Importer orchestrates the import of a set of pages.
//
// Exactly one of Fetcher or Renderer is used per page: when Renderer is set
// each page is opened as a live session and handed to the Transformer as its
// Waiter.
type Importer struct {
	Fetcher     blogimport.Fetcher
	Renderer    blogimport.Renderer
	Transformer blogimport.Transformer
	Converter   blogimport.Converter
	Assets      blogimport.AssetFetcher
	Store       blogimport.RecordStore
	RateLimiter blogimport.DomainLimiter
	Concurrency int
	RetryDelays []time.Duration
	Logger      *slog.Logger
}

// Result holds the outcome of an import run.
type Result struct {
	RunID        string
	Saved        int
	Failed       int
	Assets       int
	AssetsFailed int
	Bytes        int
}

// ProgressEvent reports progress during an import run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Path      string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting import progress.
type ProgressFunc func(event ProgressEvent)

// asset is a downloaded asset waiting to be stored.
type asset struct {
	path string
	data []byte
}

// pageResult holds the outcome of processing a single URL.
type pageResult struct {
	position     int
	url          string
	path         string
	markdown     string
	assets       []asset
	assetsFailed int
	err          error
}

// assetCache shares downloaded assets between pages of a run. Concurrent
// requests for one path share a single fetch; failures are not cached, so a
// later page tries again.
type assetCache struct {
	group singleflight.Group
	mu    sync.Mutex
	data  map[uint64][]byte
}

func newAssetCache() *assetCache {
	return &assetCache{data: make(map[uint64][]byte)}
}

// get returns the asset stored under path, calling fetch on a miss.
func (c *assetCache) get(path string, fetch func() ([]byte, error)) ([]byte, error) {
	h := xxhash.Sum64String(path)
	c.mu.Lock()
	data, ok := c.data[h]
	c.mu.Unlock()
	if ok {
		return data, nil
	}

	v, err, _ := c.group.Do(path, func() (any, error) {
		data, err := fetch()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.data[h] = data
		c.mu.Unlock()
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// assetSet tracks asset paths already written to the store.
type assetSet map[uint64]struct{}

func (s assetSet) has(path string) bool {
	_, ok := s[xxhash.Sum64String(path)]
	return ok
}

func (s assetSet) add(path string) {
	s[xxhash.Sum64String(path)] = struct{}{}
}

// Run imports every URL and stores the results. Page failures are counted
// and reported through progress; Run only returns an error when the run as
// a whole cannot proceed. The caller commits or aborts the store.
func (im *Importer) Run(ctx context.Context, urls []string, progress ProgressFunc) (*Result, error) {
	if im.Transformer == nil || im.Converter == nil || im.Store == nil {
		return nil, blogimport.Errorf(blogimport.EINVALID, "importer requires a transformer, converter and store")
	}
	if im.Fetcher == nil && im.Renderer == nil {
		return nil, blogimport.Errorf(blogimport.EINVALID, "importer requires a fetcher or renderer")
	}

	runID := uuid.NewString()
	logger := im.logger().With("run", runID)
	result := &Result{RunID: runID}
	if len(urls) == 0 {
		return result, nil
	}

	concurrency := im.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan pageResult, len(urls))

	var completed atomic.Int64
	total := len(urls)

	if progress != nil {
		progress(ProgressEvent{
			Type:  ProgressStarted,
			Total: total,
		})
	}
	logger.Info("import started", "pages", total, "concurrency", concurrency)

	cache := newAssetCache()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, u := range urls {
			g.Go(func() error {
				resultCh <- im.processURL(gctx, logger, cache, i, u)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	results := make([]pageResult, len(urls))
	for r := range resultCh {
		completed.Add(1)
		results[r.position] = r

		event := ProgressEvent{
			Type:      ProgressCompleted,
			Completed: int(completed.Load()),
			Total:     total,
			URL:       r.url,
			Path:      r.path,
		}
		if r.err != nil {
			event.Type = ProgressFailed
			event.Error = r.err
		}
		if progress != nil {
			progress(event)
		}
	}

	stored := make(assetSet)
	for _, r := range results {
		result.AssetsFailed += r.assetsFailed
		if r.err != nil {
			result.Failed++
			logger.Warn("page failed", "url", r.url, "code", blogimport.ErrorCode(r.err), "err", r.err)
			continue
		}
		if err := im.save(ctx, logger, r, stored, result); err != nil {
			result.Failed++
			logger.Warn("page not saved", "url", r.url, "path", r.path, "err", err)
			continue
		}
		result.Saved++
	}

	if progress != nil {
		progress(ProgressEvent{
			Type:      ProgressFinished,
			Completed: total,
			Total:     total,
		})
	}
	logger.Info("import finished",
		"saved", result.Saved,
		"failed", result.Failed,
		"assets", result.Assets,
		"assets_failed", result.AssetsFailed,
		"bytes", result.Bytes,
	)

	return result, ctx.Err()
}

// save stores one page's document and then those of its assets that no
// earlier page has stored.
func (im *Importer) save(ctx context.Context, logger *slog.Logger, r pageResult, stored assetSet, result *Result) error {
	if err := im.Store.SaveDocument(ctx, r.path, r.markdown); err != nil {
		return err
	}
	result.Bytes += len(r.markdown)
	logger.Debug("document saved", "path", r.path, "hash", strconv.FormatUint(xxhash.Sum64String(r.markdown), 16))

	for _, a := range r.assets {
		if stored.has(a.path) {
			continue
		}
		if err := im.Store.SaveAsset(ctx, a.path, a.data); err != nil {
			result.AssetsFailed++
			logger.Warn("asset not saved", "path", a.path, "err", err)
			continue
		}
		stored.add(a.path)
		result.Assets++
		result.Bytes += len(a.data)
	}
	return nil
}

// processURL fetches, transforms and converts a single page.
func (im *Importer) processURL(ctx context.Context, logger *slog.Logger, cache *assetCache, position int, pageURL string) pageResult {
	result := pageResult{
		position: position,
		url:      pageURL,
	}

	records, err := im.transform(ctx, pageURL)
	if err != nil {
		result.err = err
		return result
	}
	if len(records) == 0 || records[0].IsAsset() {
		result.err = blogimport.Errorf(blogimport.EINTERNAL, "%s: transform returned no main content", pageURL)
		return result
	}

	main := records[0]
	markdown, err := im.convert(main.Content)
	if err != nil {
		result.err = fmt.Errorf("convert %s: %w", pageURL, err)
		return result
	}
	result.path = main.Path
	result.markdown = markdown

	for _, rec := range records[1:] {
		data, err := cache.get(rec.Path, func() ([]byte, error) {
			return im.fetchAsset(ctx, rec.Source)
		})
		if err != nil {
			result.assetsFailed++
			logger.Warn("asset failed", "url", rec.Source, "page", pageURL, "err", err)
			continue
		}
		result.assets = append(result.assets, asset{path: rec.Path, data: data})
	}

	return result
}

// transform produces the page's records, either from fetched HTML or from a
// live rendered session.
func (im *Importer) transform(ctx context.Context, pageURL string) ([]*blogimport.Record, error) {
	src := &blogimport.Source{URL: pageURL, OriginalURL: pageURL}

	if err := im.wait(ctx, pageURL); err != nil {
		return nil, err
	}

	if im.Renderer != nil {
		session, err := WithRetry(ctx, pageURL, im.retryDelays(), im.Logger, func(ctx context.Context) (blogimport.Session, error) {
			return im.Renderer.Open(ctx, pageURL)
		})
		if err != nil {
			return nil, err
		}
		defer func() { _ = session.Close() }()
		src.Waiter = session
		return im.Transformer.Transform(ctx, src)
	}

	page, err := WithRetry(ctx, pageURL, im.retryDelays(), im.Logger, func(ctx context.Context) (string, error) {
		return im.Fetcher.Fetch(ctx, pageURL)
	})
	if err != nil {
		return nil, err
	}
	src.HTML = page
	return im.Transformer.Transform(ctx, src)
}

func (im *Importer) convert(root *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return "", err
	}
	return im.Converter.Convert(buf.String())
}

func (im *Importer) fetchAsset(ctx context.Context, assetURL string) ([]byte, error) {
	if im.Assets == nil {
		return nil, blogimport.Errorf(blogimport.EINVALID, "no asset fetcher configured for %s", assetURL)
	}
	if err := im.wait(ctx, assetURL); err != nil {
		return nil, err
	}
	return WithRetry(ctx, assetURL, im.retryDelays(), im.Logger, func(ctx context.Context) ([]byte, error) {
		return im.Assets.FetchAsset(ctx, assetURL)
	})
}

// wait applies the per-domain rate limit, if any.
func (im *Importer) wait(ctx context.Context, rawURL string) error {
	if im.RateLimiter == nil {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return blogimport.Errorf(blogimport.EINVALID, "invalid URL %q", rawURL)
	}
	return im.RateLimiter.Wait(ctx, u.Host)
}

func (im *Importer) retryDelays() []time.Duration {
	if im.RetryDelays == nil {
		return DefaultRetryDelays()
	}
	return im.RetryDelays
}

func (im *Importer) logger() *slog.Logger {
	if im.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return im.Logger
}
