package plume

import (
	"fmt"
	"strings"

	"github.com/jojo1992341/plume/internal/yamlutil"
)

// bookMeta is the YAML front matter schema of a manuscript file.
type bookMeta struct {
	Title    string `yaml:"title,omitempty"`
	Author   string `yaml:"author,omitempty"`
	Language string `yaml:"language,omitempty"`
	Date     string `yaml:"date,omitempty"`
}

// ComposeManuscript serializes a book to a single Markdown document:
// YAML front matter carrying the metadata, then the reassembled chapters.
// A book without any metadata produces no front matter block.
func ComposeManuscript(book Book) (string, error) {
	body := JoinChapters(book.Chapters)

	meta := bookMeta{
		Title:    book.Title,
		Author:   book.Author,
		Language: book.Language,
		Date:     book.Date,
	}
	if meta == (bookMeta{}) {
		if body == "" {
			return "", nil
		}
		return body + "\n", nil
	}

	encoded, err := yamlutil.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFrontMatter, err)
	}

	var buf strings.Builder
	buf.WriteString("---\n")
	buf.Write(encoded)
	buf.WriteString("---\n")
	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		buf.WriteString("\n")
	}
	return buf.String(), nil
}

// ParseManuscript reads a manuscript document into a Book: optional YAML
// front matter for the metadata, level-four headings for the chapters.
//
// Malformed front matter is never fatal: the returned Book then treats the
// whole document as chapter text, and the error (wrapping ErrFrontMatter)
// only signals that the metadata was dropped. Callers may warn and keep the
// Book.
func ParseManuscript(text string) (Book, error) {
	meta, body, splitErr := yamlutil.SplitFrontMatter(text)
	if splitErr != nil {
		// No front matter block at all: a plain manuscript.
		return Book{Chapters: SplitChapters(text)}, nil
	}

	var book Book
	if strings.TrimSpace(meta) != "" {
		var m bookMeta
		// Strict decoding: an unknown key is a typo in the metadata, not
		// extra data to ignore.
		if err := yamlutil.UnmarshalStrict([]byte(meta), &m); err != nil {
			book.Chapters = SplitChapters(text)
			return book, fmt.Errorf("%w: %v", ErrFrontMatter, err)
		}
		book.Title = m.Title
		book.Author = m.Author
		book.Language = m.Language
		book.Date = m.Date
	}

	book.Chapters = SplitChapters(body)
	return book, nil
}
