package snapshot

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"airbnb-dashboard/utils"
)

// ReadySelector appears once the page has drawn every output.
const ReadySelector = "#dashboard-ready"

// Options configure a Capturer.
type Options struct {
	BaseURL     string
	OutDir      string
	ChromeBin   string
	Concurrency int
	RateLimitMs int
	MaxRetries  int
	Width       int
	Height      int
	Timeout     time.Duration
	// Settle is how long to wait after the page is ready, for map tiles.
	Settle time.Duration
}

// Result describes one written screenshot.
type Result struct {
	Preset string
	Path   string
	Bytes  int
}

// Capturer drives headless Chrome against a running dashboard.
type Capturer struct {
	opts   Options
	logger *utils.Logger
	retry  *utils.RetryConfig

	mu      sync.Mutex
	results []Result
}

// New creates a Capturer, filling unset options with defaults.
func New(opts Options, logger *utils.Logger) *Capturer {
	if opts.Width <= 0 {
		opts.Width = 1440
	}
	if opts.Height <= 0 {
		opts.Height = 900
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.Settle < 0 {
		opts.Settle = 0
	}
	return &Capturer{
		opts:   opts,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: opts.MaxRetries,
			BaseDelay:   2 * time.Second,
			MaxDelay:    20 * time.Second,
			Logger:      logger,
		},
	}
}

// Capture writes <OutDir>/<preset>.png for every preset. Results are
// sorted by preset name.
func (c *Capturer) Capture(ctx context.Context, presets []Preset) ([]Result, error) {
	if len(presets) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(c.opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("snapshot: create %q: %w", c.opts.OutDir, err)
	}

	chromeBin := c.opts.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	c.logger.Info("[snapshot] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.WindowSize(c.opts.Width, c.opts.Height),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()
	if err := chromedp.Run(browserCtx); err != nil {
		return nil, fmt.Errorf("snapshot: start browser: %w", err)
	}

	c.results = c.results[:0]
	pool := utils.NewWorkerPool(ctx, c.opts.Concurrency, c.opts.RateLimitMs)
	for _, p := range presets {
		p := p
		pool.Submit(func(poolCtx context.Context) error {
			return c.retry.DoContext(poolCtx, "snapshot-"+p.Name, func() error {
				return c.captureOne(browserCtx, p)
			})
		})
	}
	if err := pool.Wait(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	sort.Slice(c.results, func(i, j int) bool { return c.results[i].Preset < c.results[j].Preset })
	return append([]Result(nil), c.results...), nil
}

func (c *Capturer) captureOne(browserCtx context.Context, p Preset) error {
	pageURL, err := PresetURL(c.opts.BaseURL, p)
	if err != nil {
		return err
	}

	tabCtx, cancel := chromedp.NewContext(browserCtx)
	defer cancel()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, c.opts.Timeout)
	defer cancelTimeout()

	c.logger.Debug("[snapshot] %s: loading %s", p.Name, pageURL)

	var png []byte
	err = chromedp.Run(tabCtx,
		chromedp.EmulateViewport(int64(c.opts.Width), int64(c.opts.Height)),
		chromedp.Navigate(pageURL),
		chromedp.WaitReady(ReadySelector),
		chromedp.Sleep(c.opts.Settle),
		chromedp.FullScreenshot(&png, 100),
	)
	if err != nil {
		return fmt.Errorf("chromedp capture %s: %w", p.Name, err)
	}

	path := filepath.Join(c.opts.OutDir, p.Name+".png")
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return fmt.Errorf("snapshot: write %q: %w", path, err)
	}
	c.logger.Info("[snapshot] %s: wrote %s (%d bytes)", p.Name, path, len(png))

	c.mu.Lock()
	c.results = append(c.results, Result{Preset: p.Name, Path: path, Bytes: len(png)})
	c.mu.Unlock()
	return nil
}

// findChromeBinary locates Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
