package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/blogimport"
	"github.com/fwojciec/blogimport/batch"
	"github.com/fwojciec/blogimport/fs"
	"github.com/fwojciec/blogimport/goquery"
	"github.com/fwojciec/blogimport/htmltomarkdown"
	bihttp "github.com/fwojciec/blogimport/http"
	"github.com/fwojciec/blogimport/rod"
	bislog "github.com/fwojciec/blogimport/slog"
	"github.com/fwojciec/blogimport/yaml"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Renderer overrides the headless browser used by --render.
	// Set before calling Run().
	Renderer blogimport.Renderer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("blogimport"),
		kong.Description("Import legacy blog pages as block-table documents"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	if cli.RecycleAfter <= 0 {
		return blogimport.Errorf(blogimport.EINVALID, "--recycle-after must be positive")
	}

	template, err := blogimport.ParseTemplate(cli.Template)
	if err != nil {
		return err
	}

	filter, err := blogimport.NewURLFilter(cli.Include, cli.Exclude)
	if err != nil {
		return err
	}

	cfg := blogimport.DefaultConfig()
	if cli.Config != "" {
		if cfg, err = yaml.LoadConfig(cli.Config); err != nil {
			return fmt.Errorf("config: %s", blogimport.ErrorMessage(err))
		}
	}

	// Workers log while progress is printed from the collecting goroutine.
	stderr = &syncWriter{w: stderr}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	out, err := filepath.Abs(cli.Out)
	if err != nil {
		return fmt.Errorf("output directory: %w", err)
	}

	pipeline, err := goquery.NewPipeline(template, cfg, logger)
	if err != nil {
		return err
	}

	httpFetcher := bihttp.NewFetcher(bihttp.WithTimeout(cli.Timeout))
	defer httpFetcher.Close()

	deps := &Dependencies{
		Ctx:      ctx,
		Stdout:   stdout,
		Stderr:   stderr,
		Sitemaps: bislog.NewLoggingSitemapService(bihttp.NewSitemapService(nil), logger),
		Store:    fs.NewFileStore(filepath.Dir(out), filepath.Base(out)),
		Importer: &batch.Importer{
			Transformer: bislog.NewLoggingTransformer(pipeline, logger),
			Converter:   htmltomarkdown.NewConverter(),
			Assets:      bislog.NewLoggingAssetFetcher(httpFetcher, logger),
			RateLimiter: batch.NewDomainLimiter(cli.Rate),
			Concurrency: cli.Concurrency,
			Logger:      logger,
		},
	}

	if cli.Render && !cli.Preview {
		renderer := m.Renderer
		if renderer == nil {
			opts := []rod.Option{
				rod.WithFetchTimeout(cli.Timeout),
				rod.WithPollInterval(cfg.PollInterval),
				rod.WithStealth(cli.Stealth),
				rod.WithBrowserRecycling(cli.RecycleAfter),
			}
			if cli.Browser != "" {
				opts = append(opts, rod.WithManagerOptions(rod.WithBrowserBin(cli.Browser)))
			}
			rodFetcher, err := rod.NewFetcher(opts...)
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
				return fmt.Errorf("failed to start browser: %w", err)
			}
			defer rodFetcher.Close()
			renderer = rodFetcher
		}
		deps.Importer.Renderer = renderer
	} else {
		deps.Importer.Fetcher = bislog.NewLoggingFetcher(httpFetcher, logger)
	}

	cmd := &ImportCmd{
		URLs:    cli.URLs,
		Sitemap: cli.Sitemap,
		Preview: cli.Preview,
		Filter:  filter,
	}

	return cmd.Run(deps)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Template     string        `short:"T" default:"article" enum:"article,author,fragment" help:"Page template (article, author, fragment)"`
	Out          string        `short:"o" default:"./import" type:"path" help:"Output directory"`
	Config       string        `type:"existingfile" help:"YAML config file"`
	Render       bool          `help:"Render pages in a headless browser before transforming"`
	Stealth      bool          `help:"Use stealth pages when rendering"`
	Browser      string        `type:"path" help:"Chrome or Chromium binary used by --render"`
	RecycleAfter int64         `default:"75" help:"Pages rendered before the browser is restarted"`
	Concurrency  int           `short:"c" default:"4" help:"Concurrent page limit"`
	Timeout      time.Duration `short:"t" default:"30s" help:"Fetch timeout per page"`
	Rate         float64       `default:"2" help:"Requests per second per host"`
	Sitemap      bool          `short:"s" help:"Treat arguments as blog roots and import every page in their sitemaps"`
	Include      []string      `short:"i" sep:"none" help:"Only import sitemap URLs matching regex (repeatable)"`
	Exclude      []string      `short:"x" sep:"none" help:"Skip sitemap URLs matching regex (repeatable)"`
	Preview      bool          `short:"p" help:"List the URLs that would be imported without importing them"`
	Verbose      bool          `short:"v" help:"Debug logging"`
	URLs         []string      `arg:"" name:"url" help:"Page URLs, or blog roots with --sitemap"`
}

// syncWriter serializes writes to w.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
