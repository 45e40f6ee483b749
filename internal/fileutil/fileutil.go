// Package fileutil provides small file name and path helpers shared by the
// exporter and the CLI.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// Errors reported by WriteTempFile's extension check.
var (
	ErrExtensionEmpty         = errors.New("extension cannot be empty")
	ErrExtensionPathTraversal = errors.New("extension contains path separator or null byte")
)

// WriteTempFile writes content to a fresh temp file named plume-*.{extension}
// and returns its path with a cleanup func that removes it. On any failure
// the file is removed before returning.
func WriteTempFile(content, extension string) (string, func(), error) {
	if err := ValidateExtension(extension); err != nil {
		return "", nil, err
	}

	f, err := os.CreateTemp("", "plume-*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}
	path := f.Name()
	cleanup := func() { _ = os.Remove(path) }

	_, werr := f.WriteString(content)
	cerr := f.Close()
	if werr != nil || cerr != nil {
		cleanup()
		if werr != nil {
			return "", nil, fmt.Errorf("writing temp file: %w", werr)
		}
		return "", nil, fmt.Errorf("closing temp file: %w", cerr)
	}

	return path, cleanup, nil
}

// ValidateExtension rejects extensions that could steer the temp file out
// of the temp directory: empty strings, path separators, NUL bytes.
func ValidateExtension(extension string) error {
	if extension == "" {
		return ErrExtensionEmpty
	}
	if strings.ContainsAny(extension, "/\\\x00") {
		return ErrExtensionPathTraversal
	}
	return nil
}

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// IsFilePath reports whether s looks like a file path rather than a bare
// name. Any forward or backward slash qualifies, so "./custom.css" and
// `C:\styles\roman.css` are paths while "manuscript" and "my-style" are
// names.
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, `/\`)
}

// IsCSS reports whether s looks like inline CSS content rather than a
// style name or a file path. Any brace is taken as evidence of a rule
// body.
func IsCSS(s string) bool {
	return strings.ContainsRune(s, '{')
}

// reservedFileChars are replaced when building file names from titles.
// Covers path separators plus the characters Windows rejects.
const reservedFileChars = `/\:*?"<>|`

// SafeFileName converts a chapter or book title into a single file name
// component. Reserved characters, control characters, and whitespace become
// hyphens, runs of hyphens collapse, and the result is lowercased. Returns
// fallback when the title reduces to nothing usable.
func SafeFileName(title, fallback string) string {
	var b strings.Builder
	b.Grow(len(title))

	lastHyphen := true // swallows leading hyphens
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		if r < 0x20 || r == '\'' || r == '’' ||
			unicode.IsSpace(r) || strings.ContainsRune(reservedFileChars, r) {
			r = '-'
		}
		if r == '-' {
			if lastHyphen {
				continue
			}
			lastHyphen = true
		} else {
			lastHyphen = false
		}
		b.WriteRune(r)
	}

	name := strings.TrimSuffix(b.String(), "-")
	if name == "" || name == "." || name == ".." {
		return fallback
	}
	return name
}
