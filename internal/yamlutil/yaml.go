// Package yamlutil wraps YAML parsing behind a small API so callers never
// import the YAML library directly. It also handles the front matter
// framing used by manuscript files.
package yamlutil

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// MaxInputSize caps YAML input, 1MB by default. Var so tests can lower it.
var MaxInputSize = 1 << 20

// frontMatterDelim opens and closes a front matter block. The delimiter must
// sit alone on its line.
const frontMatterDelim = "---"

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
	ErrNoFrontMatter  = errors.New("yamlutil: no front matter block")
)

// Unmarshal parses data into v, tolerating unknown fields.
func Unmarshal(data []byte, v any) error {
	return decode(data, v)
}

// UnmarshalStrict parses data into v and rejects unknown fields.
func UnmarshalStrict(data []byte, v any) error {
	return decode(data, v, yaml.Strict())
}

// Marshal serializes v to YAML.
func Marshal(v any) ([]byte, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return out, nil
}

// decode funnels both Unmarshal variants through the input checks.
func decode(data []byte, v any, opts ...yaml.DecodeOption) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	if err := yaml.UnmarshalWithOptions(data, v, opts...); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// SplitFrontMatter splits a document into its leading YAML front matter block
// and the remaining body. The block opens with a "---" line at the very start
// of the document and closes with the next "---" line. Both "\n" and "\r\n"
// line endings are accepted.
//
// When the document carries no front matter (or the block never closes), the
// whole input is returned as body along with ErrNoFrontMatter so callers can
// treat the document as metadata-free.
func SplitFrontMatter(text string) (meta string, body string, err error) {
	rest, opened := cutDelimiterLine(text)
	if !opened {
		return "", text, ErrNoFrontMatter
	}

	offset := 0
	for {
		lineEnd := strings.IndexByte(rest[offset:], '\n')
		var line string
		if lineEnd < 0 {
			line = rest[offset:]
		} else {
			line = rest[offset : offset+lineEnd]
		}

		if strings.TrimSuffix(line, "\r") == frontMatterDelim {
			if lineEnd < 0 {
				return rest[:offset], "", nil
			}
			return rest[:offset], rest[offset+lineEnd+1:], nil
		}

		if lineEnd < 0 {
			return "", text, ErrNoFrontMatter
		}
		offset += lineEnd + 1
	}
}

// cutDelimiterLine strips a leading "---" line and reports whether one was
// present.
func cutDelimiterLine(text string) (string, bool) {
	rest, ok := strings.CutPrefix(text, frontMatterDelim)
	if !ok {
		return text, false
	}
	rest = strings.TrimPrefix(rest, "\r")
	rest, ok = strings.CutPrefix(rest, "\n")
	if !ok {
		return text, false
	}
	return rest, true
}
