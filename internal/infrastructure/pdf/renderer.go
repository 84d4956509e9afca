// Package pdf renders pages to PDF through the Chrome DevTools Protocol.
// It backs the daily warehouse report.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	reportapp "github.com/wms/backend/internal/application/report"
	"go.uber.org/zap"
)

const (
	defaultRenderTimeout = 2 * time.Minute

	// A4 paper in inches
	paperWidthInches  = 8.27
	paperHeightInches = 11.69
	marginInches      = 0.4
)

// Config contains configuration for the chromedp renderer
type Config struct {
	// RenderTimeout caps a single render operation
	RenderTimeout time.Duration
	// RemoteURL points at a remote Chrome instance. Empty launches a local
	// headless browser.
	RemoteURL string
	// NoSandbox runs Chrome without sandbox, required when running as root
	// in containers.
	NoSandbox bool
	Logger    *zap.Logger
}

// ChromedpRenderer renders HTML or a URL to PDF
type ChromedpRenderer struct {
	config      Config
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// Ensure ChromedpRenderer implements the report renderer
var _ reportapp.Renderer = (*ChromedpRenderer)(nil)

// NewChromedpRenderer creates a chromedp-based PDF renderer
func NewChromedpRenderer(config Config) *ChromedpRenderer {
	if config.RenderTimeout == 0 {
		config.RenderTimeout = defaultRenderTimeout
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &ChromedpRenderer{config: config, logger: logger}
	r.initAllocator()
	return r
}

func (r *ChromedpRenderer) initAllocator() {
	if r.config.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), r.config.RemoteURL)
		return
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true), // Important for Docker
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if r.config.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
}

// RenderHTML renders an HTML document to PDF
func (r *ChromedpRenderer) RenderHTML(ctx context.Context, html string) ([]byte, error) {
	if strings.TrimSpace(html) == "" {
		return nil, errors.New("html content is empty")
	}
	return r.render(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
	)
}

// RenderURL loads a URL and renders the resulting page to PDF
func (r *ChromedpRenderer) RenderURL(ctx context.Context, url string) ([]byte, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("url is empty")
	}
	return r.render(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	)
}

func (r *ChromedpRenderer) render(ctx context.Context, prepare ...chromedp.Action) ([]byte, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, r.config.RenderTimeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()

	var pdfData []byte
	actions := append(prepare, chromedp.ActionFunc(func(ctx context.Context) error {
		data, _, err := page.PrintToPDF().
			WithPrintBackground(true).
			WithPaperWidth(paperWidthInches).
			WithPaperHeight(paperHeightInches).
			WithMarginTop(marginInches).
			WithMarginRight(marginInches).
			WithMarginBottom(marginInches).
			WithMarginLeft(marginInches).
			Do(ctx)
		if err != nil {
			return err
		}
		pdfData = data
		return nil
	}))

	if err := chromedp.Run(browserCtx, actions...); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("pdf rendering timed out after %v", r.config.RenderTimeout)
		}
		r.logger.Error("chromedp rendering failed", zap.Error(err))
		return nil, fmt.Errorf("chromedp execution failed: %w", err)
	}
	if len(pdfData) == 0 {
		return nil, errors.New("generated PDF is empty")
	}

	r.logger.Info("PDF rendered",
		zap.Int("bytes", len(pdfData)),
		zap.Duration("duration", time.Since(start)))
	return pdfData, nil
}

// Close releases the browser allocator
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}
