package main

// Notes:
// - exitCodeFor: we test all sentinel errors from plume, config, and store
//   packages, plus wrapped errors to verify errors.Is() chain works correctly.
// - Exit code constants: we verify Unix conventions (0=success, 1=general, 2=usage)
//   and custom codes are below 126.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"fmt"
	"os"
	"testing"

	plume "github.com/jojo1992341/plume"
	"github.com/jojo1992341/plume/internal/config"
	"github.com/jojo1992341/plume/internal/store"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		// Success
		{"nil error", nil, ExitSuccess},

		// Browser errors (exit 4)
		{"browser connect", plume.ErrBrowserConnect, ExitBrowser},
		{"page create", plume.ErrPageCreate, ExitBrowser},
		{"page load", plume.ErrPageLoad, ExitBrowser},
		{"pdf generation", plume.ErrPDFGeneration, ExitBrowser},
		{"wrapped browser connect", fmt.Errorf("failed: %w", plume.ErrBrowserConnect), ExitBrowser},

		// I/O errors (exit 3)
		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},
		{"read manuscript", ErrReadManuscript, ExitIO},
		{"read css", ErrReadCSS, ExitIO},
		{"write output", ErrWriteOutput, ExitIO},
		{"no input", ErrNoInput, ExitIO},
		{"wrapped file not exist", fmt.Errorf("reading: %w", os.ErrNotExist), ExitIO},

		// Usage/config/validation errors (exit 2)
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"field too long", config.ErrFieldTooLong, ExitUsage},
		{"invalid config field", config.ErrInvalidField, ExitUsage},
		{"book not found", store.ErrBookNotFound, ExitUsage},
		{"empty book title", store.ErrEmptyTitle, ExitUsage},
		{"empty manuscript", plume.ErrEmptyManuscript, ExitUsage},
		{"manuscript too large", plume.ErrManuscriptTooLarge, ExitUsage},
		{"too many chapters", plume.ErrTooManyChapters, ExitUsage},
		{"title too long", plume.ErrTitleTooLong, ExitUsage},
		{"invalid page size", plume.ErrInvalidPageSize, ExitUsage},
		{"invalid orientation", plume.ErrInvalidOrientation, ExitUsage},
		{"invalid margin", plume.ErrInvalidMargin, ExitUsage},
		{"style not found", plume.ErrStyleNotFound, ExitUsage},
		{"template not found", plume.ErrTemplateNotFound, ExitUsage},
		{"invalid asset path", plume.ErrInvalidAssetPath, ExitUsage},
		{"invalid extension", ErrInvalidExtension, ExitUsage},
		{"invalid worker count", ErrInvalidWorkerCount, ExitUsage},
		{"invalid timeout", ErrInvalidTimeout, ExitUsage},
		{"unknown format", ErrUnknownFormat, ExitUsage},
		{"output conflict", ErrOutputConflict, ExitUsage},
		{"flag conflict", ErrFlagConflict, ExitUsage},
		{"unsupported shell", ErrUnsupportedShell, ExitUsage},
		{"wrapped config parse", fmt.Errorf("loading: %w", config.ErrConfigParse), ExitUsage},
		{"wrapped book not found", fmt.Errorf("resolving: %w", store.ErrBookNotFound), ExitUsage},

		// General errors (exit 1)
		{"unknown error", errors.New("something unexpected"), ExitGeneral},
		{"wrapped unknown", fmt.Errorf("context: %w", errors.New("unknown")), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := exitCodeFor(tt.err)
			if got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestExitCodeConstants - Unix convention compliance
// ---------------------------------------------------------------------------

func TestExitCodeConstants(t *testing.T) {
	t.Parallel()
	// Verify exit codes follow Unix conventions
	if ExitSuccess != 0 {
		t.Errorf("ExitSuccess = %d, want 0", ExitSuccess)
	}
	if ExitGeneral != 1 {
		t.Errorf("ExitGeneral = %d, want 1", ExitGeneral)
	}
	if ExitUsage != 2 {
		t.Errorf("ExitUsage = %d, want 2", ExitUsage)
	}

	// Verify custom codes are below 126 (Unix convention)
	if ExitIO >= 126 {
		t.Errorf("ExitIO = %d, should be < 126", ExitIO)
	}
	if ExitBrowser >= 126 {
		t.Errorf("ExitBrowser = %d, should be < 126", ExitBrowser)
	}
}
