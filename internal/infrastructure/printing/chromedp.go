package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

const (
	defaultChromeTimeout = 30 * time.Second
	defaultMaxConcurrent = 2
)

// ChromedpConfig contains configuration for the chromedp renderer
type ChromedpConfig struct {
	DefaultTimeout time.Duration
	// RemoteURL is the DevTools websocket of a running Chrome; empty launches one
	RemoteURL string
	// ExecPath overrides the Chrome binary of a locally launched browser
	ExecPath string
	// NoSandbox is required when Chrome runs as root in a container
	NoSandbox bool
	// MaxConcurrent caps the number of tabs rendering at once
	MaxConcurrent int
	Scale         float64
	Logger        *zap.Logger
}

// ChromedpRenderer renders HTML to PDF using the Chrome DevTools protocol
type ChromedpRenderer struct {
	config      ChromedpConfig
	logger      *zap.Logger
	slots       *semaphore.Weighted
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpRenderer creates a renderer. The browser starts lazily on the
// first Render.
func NewChromedpRenderer(cfg *ChromedpConfig) (*ChromedpRenderer, error) {
	c := ChromedpConfig{}
	if cfg != nil {
		c = *cfg
	}
	if c.DefaultTimeout <= 0 {
		c.DefaultTimeout = defaultChromeTimeout
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = defaultMaxConcurrent
	}
	if c.Scale <= 0 {
		c.Scale = 1
	}
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &ChromedpRenderer{
		config: c,
		logger: logger.Named("chromedp"),
		slots:  semaphore.NewWeighted(int64(c.MaxConcurrent)),
	}
	r.allocCtx, r.allocCancel = r.newAllocator()
	return r, nil
}

func (r *ChromedpRenderer) newAllocator() (context.Context, context.CancelFunc) {
	if r.config.RemoteURL != "" {
		return chromedp.NewRemoteAllocator(context.Background(), r.config.RemoteURL)
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if r.config.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if r.config.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.config.ExecPath))
	}
	return chromedp.NewExecAllocator(context.Background(), opts...)
}

// Render converts HTML content to PDF
func (r *ChromedpRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = r.config.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := r.slots.Acquire(ctx, 1); err != nil {
		return nil, NewRenderError(ErrCodeRenderTimeout, "timed out waiting for a free renderer", err)
	}
	defer r.slots.Release(1)

	start := time.Now()
	tabCtx, tabCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer tabCancel()
	// the tab follows the caller's deadline
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	content := completeHTML(req)
	params := r.buildPrintParams(req)

	var pdf []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, content).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := params.action().Do(ctx)
			pdf = data
			return err
		}),
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, NewRenderError(ErrCodeRenderTimeout,
				fmt.Sprintf("PDF rendering timed out after %v", timeout), err)
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, NewRenderError(ErrCodeRenderTimeout, "PDF rendering was cancelled", err)
		}
		r.logger.Error("Chrome rendering failed", zap.Error(err))
		return nil, NewRenderError(ErrCodeRenderFailed, "chromedp execution failed", err)
	}
	if len(pdf) == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}

	res := &RenderResult{
		PDFData:        pdf,
		PageCount:      estimatePageCount(pdf),
		RenderDuration: time.Since(start),
	}
	r.logger.Debug("PDF rendered",
		zap.Int("bytes", len(pdf)),
		zap.Int("pages", res.PageCount),
		zap.Duration("duration", res.RenderDuration),
	)
	return res, nil
}

// Close stops the browser
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

func validateRequest(req *RenderRequest) error {
	if req == nil {
		return NewRenderError(ErrCodeInvalidHTML, "render request is nil", nil)
	}
	if strings.TrimSpace(req.HTML) == "" {
		return NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}
	if req.PaperSize == "" {
		req.PaperSize = PaperSizeA4
	}
	if !req.PaperSize.IsValid() {
		return NewRenderError(ErrCodeInvalidPaperSize, "invalid paper size: "+string(req.PaperSize), nil)
	}
	return nil
}

// printParams are the Page.printToPDF arguments, in inches
type printParams struct {
	paperWidth          float64
	paperHeight         float64
	marginTop           float64
	marginRight         float64
	marginBottom        float64
	marginLeft          float64
	scale               float64
	landscape           bool
	displayHeaderFooter bool
	headerTemplate      string
	footerTemplate      string
}

func (p *printParams) action() *page.PrintToPDFParams {
	return page.PrintToPDF().
		WithPrintBackground(true).
		WithPaperWidth(p.paperWidth).
		WithPaperHeight(p.paperHeight).
		WithMarginTop(p.marginTop).
		WithMarginRight(p.marginRight).
		WithMarginBottom(p.marginBottom).
		WithMarginLeft(p.marginLeft).
		WithScale(p.scale).
		WithLandscape(p.landscape).
		WithDisplayHeaderFooter(p.displayHeaderFooter).
		WithHeaderTemplate(p.headerTemplate).
		WithFooterTemplate(p.footerTemplate)
}

func (r *ChromedpRenderer) buildPrintParams(req *RenderRequest) *printParams {
	width, height := req.PaperSize.Dimensions()
	p := &printParams{
		paperWidth:   mmToInches(width),
		paperHeight:  mmToInches(height),
		marginTop:    mmToInches(req.Margins.Top),
		marginRight:  mmToInches(req.Margins.Right),
		marginBottom: mmToInches(req.Margins.Bottom),
		marginLeft:   mmToInches(req.Margins.Left),
		scale:        r.config.Scale,
		landscape:    req.Orientation == OrientationLandscape,
	}

	if req.HeaderHTML != "" || req.FooterHTML != "" {
		p.displayHeaderFooter = true
		// Chrome prints a default header when the template is empty
		p.headerTemplate = orBlank(req.HeaderHTML)
		p.footerTemplate = orBlank(req.FooterHTML)
		minMargin := mmToInches(10)
		if req.HeaderHTML != "" && p.marginTop < minMargin {
			p.marginTop = minMargin
		}
		if req.FooterHTML != "" && p.marginBottom < minMargin {
			p.marginBottom = minMargin
		}
	}
	return p
}

func orBlank(tmpl string) string {
	if tmpl == "" {
		return "<span></span>"
	}
	return tmpl
}

// completeHTML wraps a fragment into a full document
func completeHTML(req *RenderRequest) string {
	lower := strings.ToLower(req.HTML)
	if strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html") {
		return req.HTML
	}

	var buf bytes.Buffer
	buf.WriteString(`<!DOCTYPE html><html><head><meta charset="UTF-8">`)
	if req.Title != "" {
		buf.WriteString("<title>")
		buf.WriteString(html.EscapeString(req.Title))
		buf.WriteString("</title>")
	}
	buf.WriteString("</head><body>")
	buf.WriteString(req.HTML)
	buf.WriteString("</body></html>")
	return buf.String()
}

// estimatePageCount counts page objects in the PDF body
func estimatePageCount(pdf []byte) int {
	pages := bytes.Count(pdf, []byte("/Type /Page")) - bytes.Count(pdf, []byte("/Type /Pages"))
	return max(pages, 1)
}

func mmToInches(mm float64) float64 {
	return mm / 25.4
}

var _ PDFRenderer = (*ChromedpRenderer)(nil)
