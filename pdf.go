package plume

import (
	"context"
	"fmt"
	"html"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/jojo1992341/plume/internal/fileutil"
	"github.com/jojo1992341/plume/internal/process"
)

// pdfConverter abstracts HTML to PDF conversion to allow different backends.
type pdfConverter interface {
	ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error)
	Close() error
}

// pdfRenderer abstracts PDF rendering from an HTML file to enable testing without a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error)
}

// Compile-time interface checks
var (
	_ pdfConverter = (*rodConverter)(nil)
	_ pdfRenderer  = (*rodRenderer)(nil)
)

// pdfOptions holds options for PDF generation.
type pdfOptions struct {
	Page   *PageSettings // nil means A4 portrait with default margins
	Footer *pdfFooter    // nil disables the page footer
}

// pdfFooter configures Chrome's native page footer.
type pdfFooter struct {
	Title string // book title shown next to the page counter
}

// pageDimension holds paper width and height in inches, portrait orientation.
type pageDimension struct {
	width  float64
	height float64
}

// pageDimensions maps page size names to their portrait dimensions in inches.
var pageDimensions = map[string]pageDimension{
	PageSizeA4:     {width: 8.27, height: 11.69},
	PageSizeLetter: {width: 8.5, height: 11.0},
	PageSizeLegal:  {width: 8.5, height: 14.0},
}

// footerMarginExtra is added to the bottom margin when a footer is shown.
const footerMarginExtra = 0.25

// resolvePageDimensions resolves page settings to paper dimensions and margins
// in inches. Zero-valued fields mean "use the default": A4, portrait, 0.5 inch
// margins. Landscape swaps width and height.
func resolvePageDimensions(page *PageSettings, hasFooter bool) (w, h, margin, bottomMargin float64) {
	size := PageSizeA4
	orientation := OrientationPortrait
	margin = DefaultMargin

	if page != nil {
		if page.Size != "" {
			size = strings.ToLower(page.Size)
		}
		if page.Orientation != "" {
			orientation = strings.ToLower(page.Orientation)
		}
		if page.Margin != 0 {
			margin = page.Margin
		}
	}

	dims, ok := pageDimensions[size]
	if !ok {
		dims = pageDimensions[PageSizeA4]
	}

	w, h = dims.width, dims.height
	if orientation == OrientationLandscape {
		w, h = h, w
	}

	bottomMargin = margin
	if hasFooter {
		bottomMargin += footerMarginExtra
	}
	return w, h, margin, bottomMargin
}

// rodRenderer implements pdfRenderer using go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodRenderer struct {
	browser     *rod.Browser
	launcher    *launcher.Launcher
	browserPath string
	timeout     time.Duration
}

// newRodRenderer creates a rodRenderer with the given browser binary and timeout.
// An empty browserPath lets rod locate or download a browser itself.
func newRodRenderer(browserPath string, timeout time.Duration) *rodRenderer {
	return &rodRenderer{browserPath: browserPath, timeout: timeout}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use a pre-installed browser if specified (Docker/containerized environments)
	bin := r.browserPath
	if bin == "" {
		bin = os.Getenv("PLUME_BROWSER_BIN")
	}
	if bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("PLUME_NO_SANDBOX") == "1" || bin != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.launcher = l

	r.browser = rod.New().ControlURL(u)
	if err := r.browser.Connect(); err != nil {
		r.browser = nil
		r.killBrowserProcess()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// Close releases browser resources.
func (r *rodRenderer) Close() error {
	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	r.browser = nil
	r.killBrowserProcess()
	return err
}

// killBrowserProcess reaps the browser process tree after the devtools
// connection is gone. The group kill is best-effort; launcher.Kill covers
// the case where the browser is not a group leader.
func (r *rodRenderer) killBrowserProcess() {
	if r.launcher == nil {
		return
	}
	if pid := r.launcher.PID(); pid > 0 {
		process.KillProcessGroup(pid)
	}
	r.launcher.Kill()
	r.launcher = nil
}

// RenderFromFile opens a local HTML file in headless Chrome and renders it to PDF.
// Returns explicit errors instead of panicking when browser operations fail.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error) {
	// Check context before starting
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	// Wait for page to load with timeout from context or default
	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	// Check context after page load
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(r.buildPDFOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}

	return pdfBuf, nil
}

// buildPDFOptions constructs proto.PagePrintToPDF from page settings and
// the optional footer.
func (r *rodRenderer) buildPDFOptions(opts *pdfOptions) *proto.PagePrintToPDF {
	var page *PageSettings
	var footer *pdfFooter
	if opts != nil {
		page = opts.Page
		footer = opts.Footer
	}

	w, h, margin, bottomMargin := resolvePageDimensions(page, footer != nil)

	pdfOpts := &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(w),
		PaperHeight:     floatPtr(h),
		MarginTop:       floatPtr(margin),
		MarginBottom:    floatPtr(bottomMargin),
		MarginLeft:      floatPtr(margin),
		MarginRight:     floatPtr(margin),
		PrintBackground: true,
	}

	if footer != nil {
		pdfOpts.DisplayHeaderFooter = true
		pdfOpts.HeaderTemplate = "<span></span>" // Empty header
		pdfOpts.FooterTemplate = buildFooterTemplate(footer)
	}

	return pdfOpts
}

// buildFooterTemplate generates an HTML template for Chrome's native footer.
// Chrome substitutes the pageNumber and totalPages CSS classes at print time.
func buildFooterTemplate(f *pdfFooter) string {
	if f == nil {
		return "<span></span>"
	}

	content := `<span class="pageNumber"></span>/<span class="totalPages"></span>`
	if f.Title != "" {
		content = html.EscapeString(f.Title) + " - " + content
	}

	return fmt.Sprintf(`<div style="font-size: 10px; font-family: %s; color: #aaa; width: 100%%; text-align: center; padding: 0 0.5in;">%s</div>`, defaultFontFamily, content)
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

// rodConverter converts HTML to PDF using headless Chrome via go-rod.
type rodConverter struct {
	renderer *rodRenderer
}

// newRodConverter creates a rodConverter with the production renderer.
func newRodConverter(browserPath string, timeout time.Duration) *rodConverter {
	return &rodConverter{
		renderer: newRodRenderer(browserPath, timeout),
	}
}

// ToPDF converts HTML content to PDF bytes using headless Chrome.
func (c *rodConverter) ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error) {
	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return c.renderer.RenderFromFile(ctx, tmpPath, opts)
}

// Close releases browser resources.
func (c *rodConverter) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}
