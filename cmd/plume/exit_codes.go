package main

import (
	"errors"
	"os"

	plume "github.com/jojo1992341/plume"
	"github.com/jojo1992341/plume/internal/config"
	"github.com/jojo1992341/plume/internal/store"
)

// Exit codes for the plume CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, plume.ErrBrowserConnect) ||
		errors.Is(err, plume.ErrPageCreate) ||
		errors.Is(err, plume.ErrPageLoad) ||
		errors.Is(err, plume.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadManuscript) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidField) ||
		errors.Is(err, store.ErrBookNotFound) ||
		errors.Is(err, store.ErrEmptyTitle) ||
		errors.Is(err, plume.ErrEmptyManuscript) ||
		errors.Is(err, plume.ErrManuscriptTooLarge) ||
		errors.Is(err, plume.ErrTooManyChapters) ||
		errors.Is(err, plume.ErrTitleTooLong) ||
		errors.Is(err, plume.ErrInvalidPageSize) ||
		errors.Is(err, plume.ErrInvalidOrientation) ||
		errors.Is(err, plume.ErrInvalidMargin) ||
		errors.Is(err, plume.ErrStyleNotFound) ||
		errors.Is(err, plume.ErrTemplateNotFound) ||
		errors.Is(err, plume.ErrInvalidAssetPath) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrUnknownFormat) ||
		errors.Is(err, ErrOutputConflict) ||
		errors.Is(err, ErrFlagConflict) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
