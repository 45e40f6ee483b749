package plume

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jojo1992341/plume/internal/fileutil"
)

// Service orchestrates the manuscript pipeline: typographic normalization,
// chapter rendering, and export to HTML, EPUB, PDF, or Markdown.
// Create with New(), call the export methods, and Close() when done to
// release the headless browser.
//
// A Service is not safe for concurrent use. Share one across goroutines
// through a ServicePool instead.
type Service struct {
	cfg      serviceConfig
	assets   AssetLoader
	renderer htmlRenderer
	docs     *docBuilder
	epub     epubPackager
	pdf      pdfConverter
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g. WithTimeout, WithStyle,
// WithAssetDir). Returns an error if asset loading or title page template
// parsing fails.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		cfg:      serviceConfig{timeout: defaultTimeout},
		renderer: newGoldmarkRenderer(),
		epub:     newZipPackager(),
	}

	for _, opt := range opts {
		opt(s)
	}

	loader, err := NewAssetLoader(s.cfg.assetDir)
	if err != nil {
		return nil, err
	}
	s.assets = loader

	titlePage, err := loader.LoadTemplate(TitlePageTemplate)
	if err != nil {
		return nil, err
	}
	s.docs, err = newDocBuilder(titlePage)
	if err != nil {
		return nil, err
	}

	// Create the PDF converter if not injected (e.g. by tests).
	if s.pdf == nil {
		s.pdf = newRodConverter(s.cfg.browserPath, s.cfg.timeout)
	}

	return s, nil
}

// Preview renders a single markdown text to an HTML fragment.
// Block elements carry data-source-line attributes so an editor can
// scroll-sync the preview pane; the input is typically one chapter's
// buffer, not a whole manuscript.
func (s *Service) Preview(ctx context.Context, markdown string) (fragment string, err error) {
	defer recoverInternal(&err)

	return s.renderer.Render(ctx, markdown)
}

// ExportHTML renders the book as a complete standalone HTML document:
// title page, chapter navigation, one section per chapter, styles inlined.
func (s *Service) ExportHTML(ctx context.Context, input ExportInput) (doc string, err error) {
	defer recoverInternal(&err)

	book, err := s.prepare(input)
	if err != nil {
		return "", err
	}
	return s.buildDocument(ctx, book, input, false)
}

// ExportEPUB packages the book as an EPUB 3 archive.
func (s *Service) ExportEPUB(ctx context.Context, input ExportInput) (data []byte, err error) {
	defer recoverInternal(&err)

	book, err := s.prepare(input)
	if err != nil {
		return nil, err
	}

	fragments, err := s.renderChapters(ctx, book)
	if err != nil {
		return nil, err
	}

	css, err := s.composeCSS(input, false)
	if err != nil {
		return nil, err
	}

	data, err = s.epub.Package(ctx, book, fragments, css)
	if err != nil {
		return nil, fmt.Errorf("packaging EPUB: %w", err)
	}
	return data, nil
}

// ExportPDF renders the book to a standalone document and converts it with
// headless Chrome. The page footer shows the book title and page counter.
func (s *Service) ExportPDF(ctx context.Context, input ExportInput) (pdf []byte, err error) {
	defer recoverInternal(&err)

	book, err := s.prepare(input)
	if err != nil {
		return nil, err
	}

	htmlContent, err := s.buildDocument(ctx, book, input, true)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdfOpts := &pdfOptions{
		Page:   input.Page,
		Footer: &pdfFooter{Title: book.Title},
	}
	pdf, err = s.pdf.ToPDF(ctx, htmlContent, pdfOpts)
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}
	return pdf, nil
}

// ExportMarkdown serializes the book back into a single manuscript file
// with YAML front matter. Combined with FixTypography this applies the
// typographic pipeline to a whole manuscript in one pass.
func (s *Service) ExportMarkdown(ctx context.Context, input ExportInput) (text string, err error) {
	defer recoverInternal(&err)

	if err := ctx.Err(); err != nil {
		return "", err
	}
	book, err := s.prepare(input)
	if err != nil {
		return "", err
	}
	return ComposeManuscript(book)
}

// Close releases resources (the headless browser).
func (s *Service) Close() error {
	if s.pdf != nil {
		return s.pdf.Close()
	}
	return nil
}

// prepare validates the input, fills metadata defaults, resolves the date,
// and runs the typographic pipeline when requested. The returned book never
// aliases the caller's chapter slice once typography ran.
func (s *Service) prepare(input ExportInput) (Book, error) {
	if err := validateInput(input); err != nil {
		return Book{}, err
	}

	book := input.Book
	if strings.TrimSpace(book.Title) == "" {
		book.Title = DefaultTitle
	}
	if strings.TrimSpace(book.Language) == "" {
		book.Language = DefaultLanguage
	}

	date, err := ResolveDate(book.Date, book.Language, time.Now())
	if err != nil {
		return Book{}, err
	}
	book.Date = date

	if input.FixTypography {
		chapters := make([]Chapter, len(book.Chapters))
		copy(chapters, book.Chapters)
		for i := range chapters {
			chapters[i].Content = NormalizeTypography(chapters[i].Content)
		}
		book.Chapters = chapters
	}

	return book, nil
}

// buildDocument renders the chapters and assembles the standalone HTML
// document. print adds page break rules for paged output.
func (s *Service) buildDocument(ctx context.Context, book Book, input ExportInput, print bool) (string, error) {
	fragments, err := s.renderChapters(ctx, book)
	if err != nil {
		return "", err
	}

	css, err := s.composeCSS(input, print)
	if err != nil {
		return "", err
	}

	doc, err := s.docs.BuildDocument(ctx, book, fragments, css)
	if err != nil {
		return "", err
	}

	// Rewrite relative image and link paths to absolute file:// URLs so the
	// document stays self-contained outside the manuscript directory.
	if input.BaseDir != "" {
		doc, err = rewriteRelativePaths(doc, input.BaseDir)
		if err != nil {
			return "", fmt.Errorf("rewriting relative paths: %w", err)
		}
	}

	return doc, nil
}

// renderChapters converts each chapter body to an HTML fragment, checking
// for cancellation between chapters.
func (s *Service) renderChapters(ctx context.Context, book Book) ([]string, error) {
	fragments := make([]string, len(book.Chapters))
	for i, ch := range book.Chapters {
		fragment, err := s.renderer.Render(ctx, ch.Content)
		if err != nil {
			return nil, fmt.Errorf("rendering chapter %d: %w", i+1, err)
		}
		fragments[i] = fragment

		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return fragments, nil
}

// composeCSS builds the document style block. Print rules and watermark are
// prepended so the base stylesheet keeps priority over them; custom CSS is
// appended last so it can override everything.
func (s *Service) composeCSS(input ExportInput, print bool) (string, error) {
	css, err := s.resolveStyle(input.Style)
	if err != nil {
		return "", err
	}

	custom := input.CSS
	if custom == "" {
		custom = s.cfg.css
	}
	if custom != "" {
		css += "\n" + custom
	}

	if input.Watermark != "" {
		css = buildWatermarkCSS(input.Watermark) + css
	}
	if print {
		css = buildPrintCSS() + css
	}

	return css, nil
}

// resolveStyle resolves a style input (name, path, or raw CSS) to CSS
// content. An empty input falls back to the configured style, then to the
// default stylesheet.
func (s *Service) resolveStyle(style string) (string, error) {
	if style == "" {
		style = s.cfg.style
	}
	if style == "" {
		style = DefaultStyle
	}

	// File path? (contains a separator)
	if fileutil.IsFilePath(style) {
		content, err := os.ReadFile(style) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrStyleNotFound, err)
		}
		return string(content), nil
	}

	// Raw CSS content? (contains a brace)
	if fileutil.IsCSS(style) {
		return style, nil
	}

	return s.assets.LoadStyle(style)
}

// validateInput checks size ceilings and page settings before any work.
//
// This is a trust boundary for direct library users who build ExportInput
// by hand. CLI users get their input validated earlier at config load time;
// both paths converge here.
func validateInput(input ExportInput) error {
	book := input.Book
	if len(book.Chapters) == 0 {
		return ErrEmptyManuscript
	}
	if len(book.Chapters) > MaxChapters {
		return fmt.Errorf("%w: %d chapters (limit %d)",
			ErrTooManyChapters, len(book.Chapters), MaxChapters)
	}
	if len(book.Title) > MaxTitleLength {
		return fmt.Errorf("%w: book title is %d bytes (limit %d)",
			ErrTitleTooLong, len(book.Title), MaxTitleLength)
	}

	size := 0
	for i, ch := range book.Chapters {
		if len(ch.Title) > MaxTitleLength {
			return fmt.Errorf("%w: chapter %d title is %d bytes (limit %d)",
				ErrTitleTooLong, i+1, len(ch.Title), MaxTitleLength)
		}
		size += len(ch.Title) + len(ch.Content)
	}
	if size > MaxManuscriptSize {
		return fmt.Errorf("%w: %d bytes (limit %d)",
			ErrManuscriptTooLarge, size, MaxManuscriptSize)
	}

	return input.Page.Validate()
}

// recoverInternal converts internal panics into errors so they never
// propagate to callers.
func recoverInternal(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("internal error: %v", r)
	}
}
