package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemLoader reads assets from a styles/ and templates/ tree under a
// base directory.
type FilesystemLoader struct {
	base string // absolute, symlinks resolved
}

var _ AssetLoader = (*FilesystemLoader)(nil)

// NewFilesystemLoader opens basePath as an asset directory. The path must
// exist, be a directory, and be listable; ErrInvalidBasePath otherwise.
func NewFilesystemLoader(basePath string) (*FilesystemLoader, error) {
	base, err := resolveBaseDir(basePath)
	if err != nil {
		return nil, err
	}
	return &FilesystemLoader{base: base}, nil
}

// resolveBaseDir normalizes basePath to an absolute, symlink-free directory
// so later containment checks compare like with like.
func resolveBaseDir(basePath string) (string, error) {
	if basePath == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	abs, err := filepath.Abs(basePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}

	info, err := os.Stat(abs)
	switch {
	case os.IsNotExist(err):
		return "", fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, abs)
	case err != nil:
		return "", fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	case !info.IsDir():
		return "", fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, abs)
	}
	if _, err := os.ReadDir(abs); err != nil {
		return "", fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}
	return abs, nil
}

// LoadStyle reads {base}/styles/{name}.css.
func (f *FilesystemLoader) LoadStyle(name string) (string, error) {
	return f.read("styles", name, ".css", ErrStyleNotFound)
}

// LoadTemplate reads {base}/templates/{name}.html.
func (f *FilesystemLoader) LoadTemplate(name string) (string, error) {
	return f.read("templates", name, ".html", ErrTemplateNotFound)
}

func (f *FilesystemLoader) read(subdir, name, ext string, missing error) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	path := filepath.Join(f.base, subdir, name+ext)
	if err := f.ensureWithinBase(path); err != nil {
		return "", err
	}

	content, err := os.ReadFile(path) // #nosec G304 -- name validated, containment checked
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %q", missing, name)
		}
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return string(content), nil
}

// ensureWithinBase rejects paths that resolve outside the base directory,
// including escapes through symlinks. The trailing separator keeps /base
// from matching /basement.
func (f *FilesystemLoader) ensureWithinBase(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathTraversal)
	}
	// EvalSymlinks fails on missing files; the unresolved path still gets
	// the prefix check and the read fails right after.
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}
	if !strings.HasPrefix(abs, f.base+string(filepath.Separator)) {
		return fmt.Errorf("%w: path escapes base directory", ErrPathTraversal)
	}
	return nil
}
