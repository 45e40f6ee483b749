package plume

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyManuscript = errors.New("manuscript content cannot be empty")
	ErrHTMLRender      = errors.New("HTML rendering failed")
	ErrEPUBPackage     = errors.New("EPUB packaging failed")
	ErrPDFGeneration   = errors.New("PDF generation failed")
	ErrBrowserConnect  = errors.New("failed to connect to browser")
	ErrPageCreate      = errors.New("failed to create browser page")
	ErrPageLoad        = errors.New("failed to load page")
	ErrTitlePageRender = errors.New("title page template rendering failed")

	// Manuscript validation errors.
	ErrManuscriptTooLarge = errors.New("manuscript exceeds maximum size")
	ErrTooManyChapters    = errors.New("too many chapters")
	ErrTitleTooLong       = errors.New("title exceeds maximum length")
	ErrFrontMatter        = errors.New("invalid front matter")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Asset loading errors.
	ErrStyleNotFound    = errors.New("style not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidAssetPath = errors.New("invalid asset path")

	// ErrPoolClosed is returned by Acquire after the pool has been closed.
	ErrPoolClosed = errors.New("service pool is closed")
)
