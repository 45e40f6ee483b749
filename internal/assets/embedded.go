package assets

import (
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed styles/*.css
var styleFS embed.FS

//go:embed templates/*.html
var templateFS embed.FS

// EmbeddedLoader serves the assets compiled into the binary.
type EmbeddedLoader struct{}

// NewEmbeddedLoader returns a loader over the embedded assets.
func NewEmbeddedLoader() *EmbeddedLoader { return &EmbeddedLoader{} }

var _ AssetLoader = (*EmbeddedLoader)(nil)

// LoadStyle returns the embedded stylesheet for name.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	return readEmbedded(styleFS, "styles", name, ".css", ErrStyleNotFound)
}

// LoadTemplate returns the embedded template for name.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	return readEmbedded(templateFS, "templates", name, ".html", ErrTemplateNotFound)
}

// StyleNames lists the embedded stylesheets by bare name, sorted.
func (e *EmbeddedLoader) StyleNames() []string {
	entries, err := styleFS.ReadDir("styles")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".css"))
	}
	sort.Strings(names)
	return names
}

func readEmbedded(fsys embed.FS, dir, name, ext string, missing error) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}
	content, err := fsys.ReadFile(dir + "/" + name + ext)
	if err != nil {
		return "", fmt.Errorf("%w: %q", missing, name)
	}
	return string(content), nil
}
