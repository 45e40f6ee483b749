package plume

import (
	"fmt"
	"strings"
	"time"
)

// Default metadata applied when a manuscript does not carry its own.
const (
	DefaultTitle    = "Sans titre"
	DefaultLanguage = "fr"
)

// Manuscript bounds.
const (
	MaxManuscriptSize = 10 << 20 // bytes
	MaxChapters       = 500
	MaxTitleLength    = 500
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// Chapter is one unit of a manuscript, delimited by a level-four heading.
type Chapter struct {
	Title   string
	Content string
}

// Book bundles manuscript metadata with its chapters.
type Book struct {
	Title    string
	Author   string
	Language string // BCP 47 tag, e.g. "fr"
	Date     string
	Chapters []Chapter
}

// ExportInput contains export parameters shared by all output formats.
type ExportInput struct {
	Book          Book
	Style         string        // named stylesheet (optional, "" = service default)
	CSS           string        // custom CSS appended after the stylesheet (optional)
	Watermark     string        // diagonal watermark text (optional)
	BaseDir       string        // base directory for relative image paths (optional)
	FixTypography bool          // run the typographic pipeline before rendering
	Page          *PageSettings // page settings (optional, nil = defaults)
}

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeA4,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults); zero-valued fields are
// valid and also mean "use the default".
// Does not mutate - uses case-insensitive comparison.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if p.Size != "" && !isValidPageSize(p.Size) {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	if p.Orientation != "" && !isValidOrientation(p.Orientation) {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin != 0 && (p.Margin < MinMargin || p.Margin > MaxMargin) {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// isValidPageSize checks if size is a known page size (case-insensitive).
func isValidPageSize(size string) bool {
	switch strings.ToLower(size) {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
		return true
	}
	return false
}

// isValidOrientation checks if orientation is valid (case-insensitive).
func isValidOrientation(orientation string) bool {
	switch strings.ToLower(orientation) {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	timeout     time.Duration
	style       string
	css         string
	assetDir    string
	browserPath string
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the export timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("plume: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithStyle sets the stylesheet applied when the input names none.
func WithStyle(name string) Option {
	return func(s *Service) {
		s.cfg.style = name
	}
}

// WithStylesheet sets custom CSS appended to every export when the input
// carries none of its own.
func WithStylesheet(css string) Option {
	return func(s *Service) {
		s.cfg.css = css
	}
}

// WithAssetDir overlays a directory of custom styles and templates on top of
// the embedded assets.
func WithAssetDir(dir string) Option {
	return func(s *Service) {
		s.cfg.assetDir = dir
	}
}

// WithBrowserPath sets the Chrome or Chromium binary used for PDF export.
func WithBrowserPath(path string) Option {
	return func(s *Service) {
		s.cfg.browserPath = path
	}
}
