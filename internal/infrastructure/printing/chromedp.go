package printing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/preorder/backoffice/internal/infrastructure/config"
	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

// ChromedpRenderer prints HTML to PDF with headless Chrome. One browser
// process is shared and each render opens its own tab.
type ChromedpRenderer struct {
	paper       PaperSize
	margins     Margins
	timeout     time.Duration
	remoteURL   string
	noSandbox   bool
	chromePath  string
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
	closeOnce   sync.Once
}

// Option configures a ChromedpRenderer
type Option func(*ChromedpRenderer)

// WithLogger sets the logger
func WithLogger(log *zap.Logger) Option {
	return func(r *ChromedpRenderer) {
		if log != nil {
			r.logger = log
		}
	}
}

// WithRemoteURL connects to an already running browser instead of
// launching one, e.g. ws://chrome:9222
func WithRemoteURL(url string) Option {
	return func(r *ChromedpRenderer) {
		r.remoteURL = url
	}
}

// WithNoSandbox disables the Chrome sandbox, needed when running as root
// inside a container
func WithNoSandbox() Option {
	return func(r *ChromedpRenderer) {
		r.noSandbox = true
	}
}

// NewChromedpRenderer creates a renderer from the printing config. The
// browser is started lazily on the first render.
func NewChromedpRenderer(cfg *config.PrintingConfig, opts ...Option) (*ChromedpRenderer, error) {
	if cfg == nil {
		cfg = &config.PrintingConfig{}
	}
	paper, err := ParsePaperSize(cfg.PaperSize)
	if err != nil {
		return nil, err
	}

	r := &ChromedpRenderer{
		paper:      paper,
		margins:    MarginsFor(paper),
		timeout:    cfg.Timeout,
		chromePath: cfg.ChromePath,
		logger:     zap.NewNop(),
	}
	if r.timeout <= 0 {
		r.timeout = defaultTimeout
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.remoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), r.remoteURL)
	} else {
		r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), r.allocatorOptions()...)
	}
	return r, nil
}

func (r *ChromedpRenderer) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if r.noSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}
	return opts
}

// PaperSize returns the sheet the renderer prints on
func (r *ChromedpRenderer) PaperSize() PaperSize {
	return r.paper
}

// RenderPDF loads html into a blank tab and prints it
func (r *ChromedpRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	if strings.TrimSpace(html) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tabCtx, tabCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer tabCancel()

	// stop the tab when the caller gives up
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	params := r.printParams()
	var pdf []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := params.Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, NewRenderError(ErrCodeRenderTimeout,
				fmt.Sprintf("PDF rendering timed out after %v", r.timeout), err)
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, NewRenderError(ErrCodeRenderTimeout, "PDF rendering was cancelled", err)
		}
		r.logger.Error("chromedp rendering failed", zap.Error(err))
		return nil, NewRenderError(ErrCodeRenderFailed, "chromedp execution failed", err)
	}
	if len(pdf) == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}
	return pdf, nil
}

func (r *ChromedpRenderer) printParams() *page.PrintToPDFParams {
	width, height := r.paper.Dimensions()
	return page.PrintToPDF().
		WithPrintBackground(true).
		WithPaperWidth(mmToInches(width)).
		WithPaperHeight(mmToInches(height)).
		WithMarginTop(mmToInches(r.margins.Top)).
		WithMarginRight(mmToInches(r.margins.Right)).
		WithMarginBottom(mmToInches(r.margins.Bottom)).
		WithMarginLeft(mmToInches(r.margins.Left)).
		WithPreferCSSPageSize(false)
}

// Close shuts down the browser
func (r *ChromedpRenderer) Close() error {
	r.closeOnce.Do(func() {
		if r.allocCancel != nil {
			r.allocCancel()
		}
	})
	return nil
}
