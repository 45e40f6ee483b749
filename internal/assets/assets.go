// Package assets ships the CSS styles and HTML templates used by book
// exports and resolves overrides from a user-supplied asset directory.
//
// Three loaders cover the use cases. EmbeddedLoader serves the built-in
// assets compiled into the binary. FilesystemLoader reads a styles/ and
// templates/ tree on disk. AssetResolver chains the two, preferring the
// filesystem copy and falling back to the embedded one, so a user can
// override a single stylesheet without re-shipping the rest.
//
// Asset names are bare names: no extension, no path. Any name carrying a
// separator or a dot is rejected before it reaches a filesystem.
package assets

import (
	"errors"
	"fmt"
	"strings"
)

// Built-in asset names.
const (
	// DefaultStyleName is the reading stylesheet.
	DefaultStyleName = "default"

	// ManuscriptStyleName is the draft stylesheet, with wide margins and
	// generous line spacing for annotation.
	ManuscriptStyleName = "manuscript"

	// TitlePageTemplateName is the title page template.
	TitlePageTemplateName = "titlepage"
)

// Errors reported by loaders. The not-found pair triggers resolver
// fallback; the rest abort the load.
var (
	// ErrStyleNotFound reports a style name with no matching .css file.
	ErrStyleNotFound = errors.New("style not found")

	// ErrTemplateNotFound reports a template name with no matching .html file.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrInvalidAssetName reports a name carrying a separator or a dot.
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrInvalidBasePath reports an asset directory that cannot be read.
	ErrInvalidBasePath = errors.New("invalid base path")

	// ErrAssetRead reports an I/O failure on an asset that exists.
	ErrAssetRead = errors.New("failed to read asset")

	// ErrPathTraversal reports a resolved path escaping the base directory.
	ErrPathTraversal = errors.New("path traversal detected")
)

// AssetLoader loads styles and templates by bare name.
type AssetLoader interface {
	// LoadStyle returns the CSS for name, ErrStyleNotFound when absent.
	LoadStyle(name string) (string, error)

	// LoadTemplate returns the HTML template for name, ErrTemplateNotFound
	// when absent.
	LoadTemplate(name string) (string, error)
}

// ValidateAssetName rejects names that could select a file outside the
// styles/ and templates/ directories. A valid name has no path separators
// and no dots, so appending the extension yields exactly one candidate
// file inside the expected subdirectory.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, `/\.`) {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

// builtin serves the package-level Load functions.
var builtin = NewEmbeddedLoader()

// LoadStyle reads a built-in stylesheet by bare name.
func LoadStyle(name string) (string, error) { return builtin.LoadStyle(name) }

// LoadTemplate reads a built-in template by bare name.
func LoadTemplate(name string) (string, error) { return builtin.LoadTemplate(name) }
