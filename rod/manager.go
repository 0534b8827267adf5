package rod

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// DefaultMaxPages is the number of pages a browser renders before it is
// replaced.
const DefaultMaxPages = 75

// DefaultBlockedURLs are requests a rendered blog page never needs: images,
// media and fonts are copied separately as asset records.
var DefaultBlockedURLs = []string{
	"*.png", "*.jpg", "*.jpeg", "*.gif", "*.webp", "*.svg",
	"*.mp4", "*.webm", "*.woff", "*.woff2", "*.ttf",
}

var errManagerClosed = errors.New("browser manager closed")

// launchFlags keep background tabs rendering at full speed while several
// pages load concurrently.
var launchFlags = []flags.Flag{
	"disable-background-timer-throttling",
	"disable-backgrounding-occluded-windows",
	"disable-renderer-backgrounding",
	"disable-dev-shm-usage",
}

// BrowserManager owns the headless browser legacy pages are rendered in.
// Long imports leak renderer memory, so the browser is replaced once it has
// rendered maxPages pages.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher

	rendered atomic.Int64
	closed   atomic.Bool

	maxPages int64
	stealth  bool
	bin      string
	blocked  []string
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets how many pages a browser renders before it is replaced.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// WithStealthPages opens every page with go-rod/stealth evasions applied.
func WithStealthPages(enabled bool) ManagerOption {
	return func(bm *BrowserManager) {
		bm.stealth = enabled
	}
}

// WithBrowserBin launches the browser binary at path instead of the one
// rod finds or downloads.
func WithBrowserBin(path string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.bin = path
	}
}

// WithBlockedURLs replaces the URL patterns pages never load. Nil or empty
// loads everything.
func WithBlockedURLs(patterns []string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.blocked = patterns
	}
}

// NewBrowserManager launches a headless browser.
// Close must be called when the BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{
		maxPages: DefaultMaxPages,
		blocked:  DefaultBlockedURLs,
	}
	for _, opt := range opts {
		opt(bm)
	}

	if err := bm.launch(); err != nil {
		return nil, err
	}
	return bm, nil
}

// Browser returns the current browser, replacing it first when it has
// rendered maxPages pages.
func (bm *BrowserManager) Browser() *rod.Browser {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.rendered.Load() >= bm.maxPages {
		bm.recycle()
	}
	return bm.browser
}

// NewPage opens a blank page with the blocked URL patterns applied and
// counts it toward recycling.
func (bm *BrowserManager) NewPage() (*rod.Page, error) {
	if bm.closed.Load() {
		return nil, errManagerClosed
	}
	b := bm.Browser()
	if b == nil {
		return nil, fmt.Errorf("no active browser")
	}

	var (
		page *rod.Page
		err  error
	)
	if bm.stealth {
		page, err = stealth.Page(b)
	} else {
		page, err = b.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		return nil, fmt.Errorf("creating page: %w", err)
	}
	bm.rendered.Add(1)

	if len(bm.blocked) > 0 {
		if err := blockURLs(page, bm.blocked); err != nil {
			_ = page.Close()
			return nil, err
		}
	}
	return page, nil
}

func blockURLs(page *rod.Page, patterns []string) error {
	if err := (proto.NetworkEnable{}).Call(page); err != nil {
		return fmt.Errorf("enabling network domain: %w", err)
	}
	if err := (proto.NetworkSetBlockedURLs{Urls: patterns}).Call(page); err != nil {
		return fmt.Errorf("blocking URLs: %w", err)
	}
	return nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	if !bm.closed.CompareAndSwap(false, true) {
		return nil
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()
	return bm.shutdown()
}

// LauncherPID returns the process ID of the browser launcher, or 0 once
// closed.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}

func (bm *BrowserManager) launch() error {
	l := launcher.New().Leakless(true).Headless(true)
	for _, f := range launchFlags {
		l = l.Set(f)
	}
	if bm.bin != "" {
		l = l.Bin(bm.bin)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	bm.browser, bm.launcher = browser, l
	return nil
}

// Must be called with mu held.
func (bm *BrowserManager) shutdown() error {
	var err error
	if bm.browser != nil {
		err = bm.browser.Close()
		bm.browser = nil
	}
	if bm.launcher != nil {
		bm.launcher.Kill()
		bm.launcher = nil
	}
	return err
}

// recycle swaps in a fresh browser, keeping the old one if the launch
// fails. Must be called with mu held.
func (bm *BrowserManager) recycle() {
	oldBrowser, oldLauncher := bm.browser, bm.launcher
	if err := bm.launch(); err != nil {
		bm.browser, bm.launcher = oldBrowser, oldLauncher
		return
	}

	if oldBrowser != nil {
		_ = oldBrowser.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
	bm.rendered.Store(0)
}
