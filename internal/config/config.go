// Package config loads and validates plume.yaml project configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jojo1992341/plume/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidField    = errors.New("invalid config field")
)

// DefaultConfigName is the base name searched when no --config is given.
const DefaultConfigName = "plume"

// Field length limits. Generous for book metadata, tight for enums.
const (
	MaxTitleLength         = 500  // Book title
	MaxAuthorLength        = 200  // Author name
	MaxLanguageLength      = 20   // BCP 47 tag
	MaxDateLength          = 50   // Literal date or "auto:FORMAT"
	MaxStyleLength         = 2048 // Style name or file path
	MaxCSSLength           = 1 << 16
	MaxWatermarkTextLength = 50 // "BROUILLON", "CONFIDENTIEL"
	MaxPathLength          = 2048
	MaxWorkers             = 64
	MaxTimeoutSeconds      = 3600
)

// Config holds all configuration for a book project.
type Config struct {
	Book       BookConfig       `yaml:"book"`
	Style      StyleConfig      `yaml:"style"`
	Assets     AssetsConfig     `yaml:"assets"`
	Page       PageConfig       `yaml:"page"`
	Watermark  string           `yaml:"watermark"`
	Library    LibraryConfig    `yaml:"library"`
	Output     OutputConfig     `yaml:"output"`
	Typography TypographyConfig `yaml:"typography"`
	Export     ExportConfig     `yaml:"export"`
}

// BookConfig carries the book metadata printed on the title page and
// embedded in EPUB files.
type BookConfig struct {
	Title    string `yaml:"title"`
	Author   string `yaml:"author"`
	Language string `yaml:"language"` // BCP 47 tag (default: "fr")
	Date     string `yaml:"date"`     // Literal text, "auto", or "auto:FORMAT"
}

// StyleConfig defines CSS styling options.
type StyleConfig struct {
	Name string `yaml:"name"` // Embedded style name or CSS file path
	CSS  string `yaml:"css"`  // Extra CSS appended after the style (inline or path)
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "letter", "a4", "legal" (default: "a4")
	Orientation string  `yaml:"orientation"` // "portrait", "landscape" (default: "portrait")
	Margin      float64 `yaml:"margin"`      // inches (default: 0.5)
}

// LibraryConfig locates the SQLite book library.
type LibraryConfig struct {
	Path string `yaml:"path"` // Empty = <user config dir>/plume/library.db
}

// OutputConfig defines export destination options.
type OutputConfig struct {
	Dir string `yaml:"dir"` // Default export directory (empty = current directory)
}

// TypographyConfig controls the French typography pass applied on export.
type TypographyConfig struct {
	Fix bool `yaml:"fix"` // default: true
}

// ExportConfig tunes batch export behavior.
type ExportConfig struct {
	Workers        int `yaml:"workers"`        // Parallel exports (0 = number of CPUs)
	TimeoutSeconds int `yaml:"timeoutSeconds"` // Per-export timeout (0 = service default)
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("book.title", c.Book.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("book.author", c.Book.Author, MaxAuthorLength); err != nil {
		return err
	}
	if err := validateFieldLength("book.language", c.Book.Language, MaxLanguageLength); err != nil {
		return err
	}
	if err := validateFieldLength("book.date", c.Book.Date, MaxDateLength); err != nil {
		return err
	}

	if err := validateFieldLength("style.name", c.Style.Name, MaxStyleLength); err != nil {
		return err
	}
	if err := validateFieldLength("style.css", c.Style.CSS, MaxCSSLength); err != nil {
		return err
	}

	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("library.path", c.Library.Path, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.dir", c.Output.Dir, MaxPathLength); err != nil {
		return err
	}

	if err := validateFieldLength("watermark", c.Watermark, MaxWatermarkTextLength); err != nil {
		return err
	}

	if c.Page.Size != "" {
		switch strings.ToLower(c.Page.Size) {
		case "letter", "a4", "legal":
			// valid
		default:
			return fmt.Errorf("%w: page.size %q (must be letter, a4, or legal)", ErrInvalidField, c.Page.Size)
		}
	}
	if c.Page.Orientation != "" {
		switch strings.ToLower(c.Page.Orientation) {
		case "portrait", "landscape":
			// valid
		default:
			return fmt.Errorf("%w: page.orientation %q (must be portrait or landscape)", ErrInvalidField, c.Page.Orientation)
		}
	}
	if c.Page.Margin < 0 {
		return fmt.Errorf("%w: page.margin must not be negative, got %.2f", ErrInvalidField, c.Page.Margin)
	}

	if c.Export.Workers < 0 || c.Export.Workers > MaxWorkers {
		return fmt.Errorf("%w: export.workers must be between 0 and %d, got %d", ErrInvalidField, MaxWorkers, c.Export.Workers)
	}
	if c.Export.TimeoutSeconds < 0 || c.Export.TimeoutSeconds > MaxTimeoutSeconds {
		return fmt.Errorf("%w: export.timeoutSeconds must be between 0 and %d, got %d", ErrInvalidField, MaxTimeoutSeconds, c.Export.TimeoutSeconds)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no plume.yaml exists:
// French book, default style, A4 portrait, typography pass enabled.
func DefaultConfig() *Config {
	return &Config{
		Book:       BookConfig{Language: "fr", Date: "auto"},
		Style:      StyleConfig{Name: "default"},
		Page:       PageConfig{Size: "a4", Orientation: "portrait", Margin: 0.5},
		Typography: TypographyConfig{Fix: true},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
//
// Values absent from the file keep their DefaultConfig values, so a minimal
// plume.yaml only has to name what it changes.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	return loadFile(configPath)
}

// LoadDefault searches the standard locations for a "plume" config and falls
// back to DefaultConfig when none exists.
func LoadDefault() (*Config, error) {
	configPath, err := resolveConfigPath(DefaultConfigName)
	if err != nil {
		if errors.Is(err, ErrConfigNotFound) {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	return loadFile(configPath)
}

func loadFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultLibraryPath returns the default location of the book library database.
func DefaultLibraryPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}
	return filepath.Join(dir, "plume", "library.db"), nil
}

// SearchPaths lists the locations LoadConfig would try for a config name,
// in order. Used to build actionable error messages.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "plume", name+ext))
		}
	}

	return paths
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/plume/
func resolveConfigPath(name string) (string, error) {
	triedPaths := SearchPaths(name)
	for _, p := range triedPaths {
		if fileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
