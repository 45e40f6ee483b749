package plume

// Notes:
// - rodConverter is tested through a mock renderer; no browser is launched
// - resolvePageDimensions: paper sizes are physical constants, asserted exactly
// - buildFooterTemplate and buildPDFOptions cover the footer margin rule
// - ensureBrowser/RenderFromFile stay untested here (integration concern)

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jojo1992341/plume/internal/fileutil"
)

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

type mockRenderer struct {
	Result     []byte
	Err        error
	CalledWith string
	CalledOpts *pdfOptions
}

func (m *mockRenderer) RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error) {
	m.CalledWith = filePath
	m.CalledOpts = opts
	return m.Result, m.Err
}

type testableRodConverter struct {
	mock *mockRenderer
}

func (c *testableRodConverter) ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error) {
	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return c.mock.RenderFromFile(ctx, tmpPath, opts)
}

// ---------------------------------------------------------------------------
// TestRodConverter_ToPDF - Conversion Through the Renderer
// ---------------------------------------------------------------------------

func TestRodConverter_ToPDF(t *testing.T) {
	t.Parallel()

	t.Run("renders through a temp file", func(t *testing.T) {
		t.Parallel()

		mock := &mockRenderer{Result: []byte("%PDF-1.4 contenu")}
		converter := &testableRodConverter{mock: mock}

		got, err := converter.ToPDF(context.Background(), "<html><body>«Bonjour»</body></html>", nil)
		if err != nil {
			t.Fatalf("ToPDF() error = %v", err)
		}
		if string(got) != "%PDF-1.4 contenu" {
			t.Errorf("ToPDF() = %q, want renderer bytes", got)
		}
		if !strings.Contains(mock.CalledWith, "plume-") {
			t.Errorf("renderer path = %q, want a plume- temp file", mock.CalledWith)
		}
	})

	t.Run("renderer failure propagates", func(t *testing.T) {
		t.Parallel()

		mock := &mockRenderer{Err: errors.New("browser crashed")}
		converter := &testableRodConverter{mock: mock}

		if _, err := converter.ToPDF(context.Background(), "<html></html>", nil); err == nil {
			t.Fatal("ToPDF() = nil error, want renderer failure")
		}
	})

	t.Run("options reach the renderer", func(t *testing.T) {
		t.Parallel()

		mock := &mockRenderer{Result: []byte("%PDF-1.4")}
		converter := &testableRodConverter{mock: mock}
		opts := &pdfOptions{Footer: &pdfFooter{Title: "La Traversée"}}

		if _, err := converter.ToPDF(context.Background(), "", opts); err != nil {
			t.Fatalf("ToPDF() error = %v", err)
		}
		if mock.CalledOpts != opts {
			t.Error("renderer did not receive the pdf options")
		}
	})
}

// ---------------------------------------------------------------------------
// TestNewRodConverter - Construction Without Browser Launch
// ---------------------------------------------------------------------------

func TestNewRodConverter(t *testing.T) {
	t.Parallel()

	converter := newRodConverter("/opt/chromium/chrome", defaultTimeout)

	if converter.renderer == nil {
		t.Fatal("newRodConverter() renderer is nil")
	}
	if got := converter.renderer.browserPath; got != "/opt/chromium/chrome" {
		t.Errorf("browserPath = %q, want the configured binary", got)
	}
	if got := converter.renderer.timeout; got != defaultTimeout {
		t.Errorf("timeout = %v, want %v", got, defaultTimeout)
	}
	if converter.renderer.browser != nil {
		t.Error("browser launched eagerly; it must stay nil until the first render")
	}
}

// ---------------------------------------------------------------------------
// TestClose - Idempotent Shutdown
// ---------------------------------------------------------------------------

func TestClose(t *testing.T) {
	t.Parallel()

	t.Run("renderer close is idempotent before launch", func(t *testing.T) {
		t.Parallel()

		renderer := newRodRenderer("", defaultTimeout)
		for i := 0; i < 3; i++ {
			if err := renderer.Close(); err != nil {
				t.Errorf("Close() call %d = %v", i+1, err)
			}
		}
	})

	t.Run("converter tolerates a nil renderer", func(t *testing.T) {
		t.Parallel()

		converter := &rodConverter{}
		if err := converter.Close(); err != nil {
			t.Errorf("Close() = %v, want nil", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestBuildFooterTemplate - Footer Markup
// ---------------------------------------------------------------------------

func TestBuildFooterTemplate(t *testing.T) {
	t.Parallel()

	t.Run("nil footer renders an empty span", func(t *testing.T) {
		t.Parallel()

		if got := buildFooterTemplate(nil); got != "<span></span>" {
			t.Errorf("buildFooterTemplate(nil) = %q", got)
		}
	})

	t.Run("counter only", func(t *testing.T) {
		t.Parallel()

		got := buildFooterTemplate(&pdfFooter{})
		for _, part := range []string{`class="pageNumber"`, `class="totalPages"`, "text-align: center", defaultFontFamily} {
			if !strings.Contains(got, part) {
				t.Errorf("footer missing %q:\n%s", part, got)
			}
		}
	})

	t.Run("title precedes the counter", func(t *testing.T) {
		t.Parallel()

		got := buildFooterTemplate(&pdfFooter{Title: "La Traversée"})
		if !strings.Contains(got, `La Traversée - <span class="pageNumber">`) {
			t.Errorf("footer = %s, want title before the page counter", got)
		}
	})

	t.Run("title is HTML-escaped", func(t *testing.T) {
		t.Parallel()

		got := buildFooterTemplate(&pdfFooter{Title: `<b>"Essais"</b>`})
		if strings.Contains(got, "<b>") {
			t.Errorf("footer contains raw markup from the title:\n%s", got)
		}
	})
}

// ---------------------------------------------------------------------------
// TestResolvePageDimensions - Paper Geometry
// ---------------------------------------------------------------------------

func TestResolvePageDimensions(t *testing.T) {
	t.Parallel()

	type want struct{ w, h, m, mb float64 }

	tests := []struct {
		name   string
		page   *PageSettings
		footer bool
		want   want
	}{
		{"nil means a4 portrait defaults", nil, false, want{8.27, 11.69, 0.5, 0.5}},
		{"footer widens the bottom margin", nil, true, want{8.27, 11.69, 0.5, 0.75}},
		{"a4 landscape swaps the axes", &PageSettings{Size: "a4", Orientation: "landscape", Margin: 0.5}, false, want{11.69, 8.27, 0.5, 0.5}},
		{"letter portrait", &PageSettings{Size: "letter", Margin: 0.5}, false, want{8.5, 11.0, 0.5, 0.5}},
		{"letter landscape", &PageSettings{Size: "letter", Orientation: "landscape", Margin: 0.5}, false, want{11.0, 8.5, 0.5, 0.5}},
		{"legal portrait", &PageSettings{Size: "legal", Margin: 0.5}, false, want{8.5, 14.0, 0.5, 0.5}},
		{"legal landscape", &PageSettings{Size: "legal", Orientation: "landscape", Margin: 0.5}, false, want{14.0, 8.5, 0.5, 0.5}},
		{"margins follow the settings", &PageSettings{Size: "a4", Margin: 1.5}, false, want{8.27, 11.69, 1.5, 1.5}},
		{"footer margin stacks on custom margins", &PageSettings{Size: "a4", Margin: 1.5}, true, want{8.27, 11.69, 1.5, 1.75}},
		{"size matching folds case", &PageSettings{Size: "Letter", Margin: 0.5}, false, want{8.5, 11.0, 0.5, 0.5}},
		{"orientation matching folds case", &PageSettings{Size: "a4", Orientation: "LANDSCAPE", Margin: 0.5}, false, want{11.69, 8.27, 0.5, 0.5}},
		{"unknown size falls back to a4", &PageSettings{Size: "a5", Margin: 0.5}, false, want{8.27, 11.69, 0.5, 0.5}},
		{"empty fields use the defaults", &PageSettings{}, false, want{8.27, 11.69, 0.5, 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w, h, m, mb := resolvePageDimensions(tt.page, tt.footer)
			got := want{w, h, m, mb}
			if got != tt.want {
				t.Errorf("resolvePageDimensions() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestBuildPDFOptions - proto.PagePrintToPDF Assembly
// ---------------------------------------------------------------------------

func TestBuildPDFOptions(t *testing.T) {
	t.Parallel()

	renderer := &rodRenderer{timeout: defaultTimeout}

	t.Run("nil opts use a4 defaults without footer", func(t *testing.T) {
		t.Parallel()

		got := renderer.buildPDFOptions(nil)

		if *got.PaperWidth != 8.27 || *got.PaperHeight != 11.69 {
			t.Errorf("paper = %v x %v, want a4 portrait", *got.PaperWidth, *got.PaperHeight)
		}
		if *got.MarginTop != DefaultMargin || *got.MarginBottom != DefaultMargin {
			t.Errorf("margins = %v / %v, want %v on both", *got.MarginTop, *got.MarginBottom, DefaultMargin)
		}
		if got.DisplayHeaderFooter {
			t.Error("DisplayHeaderFooter set without a footer")
		}
		if !got.PrintBackground {
			t.Error("PrintBackground must stay enabled for styled exports")
		}
	})

	t.Run("footer enables chrome header slot and extra margin", func(t *testing.T) {
		t.Parallel()

		got := renderer.buildPDFOptions(&pdfOptions{Footer: &pdfFooter{Title: "Essais"}})

		if !got.DisplayHeaderFooter {
			t.Fatal("DisplayHeaderFooter not set")
		}
		if got.HeaderTemplate != "<span></span>" {
			t.Errorf("HeaderTemplate = %q, want an empty span", got.HeaderTemplate)
		}
		if !strings.Contains(got.FooterTemplate, "Essais") {
			t.Errorf("FooterTemplate = %q, want the book title", got.FooterTemplate)
		}
		if *got.MarginBottom != DefaultMargin+footerMarginExtra {
			t.Errorf("MarginBottom = %v, want footer extra applied", *got.MarginBottom)
		}
		if *got.MarginTop != DefaultMargin {
			t.Errorf("MarginTop = %v, want %v unchanged", *got.MarginTop, DefaultMargin)
		}
	})

	t.Run("page settings flow into the proto", func(t *testing.T) {
		t.Parallel()

		got := renderer.buildPDFOptions(&pdfOptions{
			Page:   &PageSettings{Size: "legal", Orientation: "landscape", Margin: 0.75},
			Footer: &pdfFooter{},
		})

		if *got.PaperWidth != 14.0 || *got.PaperHeight != 8.5 {
			t.Errorf("paper = %v x %v, want legal landscape", *got.PaperWidth, *got.PaperHeight)
		}
		if *got.MarginLeft != 0.75 || *got.MarginRight != 0.75 {
			t.Errorf("side margins = %v / %v, want 0.75", *got.MarginLeft, *got.MarginRight)
		}
		if *got.MarginBottom != 0.75+footerMarginExtra {
			t.Errorf("MarginBottom = %v, want 0.75 plus footer extra", *got.MarginBottom)
		}
	})
}

// ---------------------------------------------------------------------------
// TestPageDimensions - Dimension Table Sanity
// ---------------------------------------------------------------------------

func TestPageDimensions(t *testing.T) {
	t.Parallel()

	for _, size := range []string{PageSizeA4, PageSizeLetter, PageSizeLegal} {
		dims, ok := pageDimensions[size]
		if !ok {
			t.Errorf("pageDimensions missing %q", size)
			continue
		}
		// Stored as portrait; landscape is derived by swapping.
		if dims.width <= 0 || dims.height <= dims.width {
			t.Errorf("%s dimensions %v x %v are not portrait", size, dims.width, dims.height)
		}
	}
}
