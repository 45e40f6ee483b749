package plume

import (
	"errors"

	"github.com/jojo1992341/plume/internal/assets"
)

// Built-in asset names.
const (
	// DefaultStyle is the built-in reading stylesheet.
	DefaultStyle = assets.DefaultStyleName

	// ManuscriptStyle is the built-in draft stylesheet, with wide margins and
	// generous line spacing for annotation.
	ManuscriptStyle = assets.ManuscriptStyleName

	// TitlePageTemplate is the built-in title page template.
	TitlePageTemplate = assets.TitlePageTemplateName
)

// StyleNames returns the names of the built-in stylesheets, sorted.
func StyleNames() []string {
	return assets.NewEmbeddedLoader().StyleNames()
}

// AssetLoader loads CSS styles and HTML templates by bare name, without
// extension. Load failures surface as ErrStyleNotFound, ErrTemplateNotFound,
// or ErrInvalidAssetPath.
//
// NewAssetLoader covers the filesystem-with-embedded-fallback case; custom
// backends (object storage, a database) implement the interface directly.
type AssetLoader interface {
	LoadStyle(name string) (string, error)
	LoadTemplate(name string) (string, error)
}

// NewAssetLoader returns a loader rooted at basePath, expected to contain
// styles/{name}.css and templates/{name}.html. Names missing there fall back
// to the embedded defaults. An empty basePath serves embedded assets only.
// A basePath that is not a readable directory is ErrInvalidAssetPath.
func NewAssetLoader(basePath string) (AssetLoader, error) {
	resolver, err := assets.NewAssetResolver(basePath)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return &assetLoaderAdapter{resolver: resolver}, nil
}

// assetLoaderAdapter translates internal resolver errors into the package's
// public sentinels at the API boundary.
type assetLoaderAdapter struct {
	resolver *assets.AssetResolver
}

var _ AssetLoader = (*assetLoaderAdapter)(nil)

func (a *assetLoaderAdapter) LoadStyle(name string) (string, error) {
	content, err := a.resolver.LoadStyle(name)
	if err != nil {
		return "", convertAssetError(err)
	}
	return content, nil
}

func (a *assetLoaderAdapter) LoadTemplate(name string) (string, error) {
	content, err := a.resolver.LoadTemplate(name)
	if err != nil {
		return "", convertAssetError(err)
	}
	return content, nil
}

// assetSentinels pairs each internal asset error with its public
// counterpart. Name validation, traversal, and bad base paths all collapse
// into ErrInvalidAssetPath; callers have no use for the distinction.
var assetSentinels = []struct {
	internal error
	public   error
}{
	{assets.ErrStyleNotFound, ErrStyleNotFound},
	{assets.ErrTemplateNotFound, ErrTemplateNotFound},
	{assets.ErrInvalidBasePath, ErrInvalidAssetPath},
	{assets.ErrPathTraversal, ErrInvalidAssetPath},
	{assets.ErrInvalidAssetName, ErrInvalidAssetPath},
}

// convertAssetError swaps an internal sentinel for the public one while
// keeping the original message. Unknown errors pass through untouched.
func convertAssetError(err error) error {
	if err == nil {
		return nil
	}
	for _, pair := range assetSentinels {
		if errors.Is(err, pair.internal) {
			return &publicAssetError{sentinel: pair.public, original: err}
		}
	}
	return err
}

// publicAssetError keeps the internal error's message but matches the public
// sentinel under errors.Is. The internal sentinel stays unexported; callers
// cannot import internal/assets to compare against it anyway.
type publicAssetError struct {
	sentinel error
	original error
}

func (e *publicAssetError) Error() string { return e.original.Error() }
func (e *publicAssetError) Unwrap() error { return e.sentinel }
