package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	plume "github.com/jojo1992341/plume"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for CLI file operations.
var (
	ErrNoInput          = errors.New("no input specified")
	ErrReadManuscript   = errors.New("failed to read manuscript")
	ErrReadCSS          = errors.New("failed to read CSS file")
	ErrWriteOutput      = errors.New("failed to write output")
	ErrInvalidExtension = errors.New("file must have .md or .markdown extension")
)

// isMarkdownFile reports whether path carries a markdown extension.
func isMarkdownFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".md" || ext == ".markdown"
}

// validateMarkdownExtension checks that the file has a .md or .markdown extension.
func validateMarkdownExtension(path string) error {
	if !isMarkdownFile(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// discoverManuscripts expands the given paths into markdown files. A file
// argument must carry a markdown extension; a directory is walked recursively.
func discoverManuscripts(paths []string) ([]string, error) {
	var files []string

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadManuscript, err)
		}

		if !info.IsDir() {
			if err := validateMarkdownExtension(path); err != nil {
				return nil, err
			}
			files = append(files, path)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !isMarkdownFile(p) {
				return nil
			}
			files = append(files, p)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadManuscript, err)
		}
	}

	return files, nil
}

// readManuscript reads a manuscript file, enforcing the library size cap
// before the content travels any further.
func readManuscript(path string) (string, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadManuscript, err)
	}
	if len(content) > plume.MaxManuscriptSize {
		return "", fmt.Errorf("%w: %s is %d bytes (max %d)",
			plume.ErrManuscriptTooLarge, path, len(content), plume.MaxManuscriptSize)
	}
	return string(content), nil
}

// writeOutput writes data to path, creating parent directories as needed.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
	}
	// #nosec G306 -- exported files are meant to be readable
	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
