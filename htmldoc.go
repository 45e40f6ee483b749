package plume

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"html/template"
	"strings"
)

// titlePageData holds the fields the title page template renders.
type titlePageData struct {
	Title  string
	Author string
	Date   string
}

// docBuilder assembles complete HTML5 documents from a book's rendered
// chapters: title page, navigation, one section per chapter, one style block.
type docBuilder struct {
	titleTmpl *template.Template
}

// newDocBuilder parses the title page template.
func newDocBuilder(titlePageTemplate string) (*docBuilder, error) {
	tmpl, err := template.New("titlepage").Parse(titlePageTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTitlePageRender, err)
	}
	return &docBuilder{titleTmpl: tmpl}, nil
}

// BuildDocument assembles the standalone document for a book.
// chaptersHTML must hold one rendered fragment per book chapter, in order.
// The css argument is embedded as a single style block in the head.
func (b *docBuilder) BuildDocument(ctx context.Context, book Book, chaptersHTML []string, css string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(chaptersHTML) != len(book.Chapters) {
		return "", fmt.Errorf("%w: %d chapters but %d rendered fragments",
			ErrHTMLRender, len(book.Chapters), len(chaptersHTML))
	}

	titlePage, err := b.renderTitlePage(book)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	buf.WriteString("<!DOCTYPE html>\n<html lang=\"")
	buf.WriteString(html.EscapeString(book.Language))
	buf.WriteString("\">\n<head>\n<meta charset=\"utf-8\"/>\n<title>")
	buf.WriteString(html.EscapeString(book.Title))
	buf.WriteString("</title>\n")
	if css != "" {
		buf.WriteString("<style>")
		buf.WriteString(sanitizeCSS(css))
		buf.WriteString("</style>\n")
	}
	buf.WriteString("</head>\n<body>\n")

	buf.WriteString(titlePage)
	if !strings.HasSuffix(titlePage, "\n") {
		buf.WriteString("\n")
	}

	// Single-chapter books skip the table of contents.
	if len(book.Chapters) > 1 {
		buf.WriteString(buildChapterNav(book))
	}

	for i, fragment := range chaptersHTML {
		writeChapterSection(&buf, i+1, book.Chapters[i].Title, fragment)
	}

	buf.WriteString("</body>\n</html>\n")
	return buf.String(), nil
}

// renderTitlePage executes the title page template against the book metadata.
func (b *docBuilder) renderTitlePage(book Book) (string, error) {
	data := titlePageData{
		Title:  book.Title,
		Author: book.Author,
		Date:   book.Date,
	}

	var buf bytes.Buffer
	if err := b.titleTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTitlePageRender, err)
	}
	return buf.String(), nil
}

// chapterAnchor returns the stable fragment identifier for a chapter number.
// Navigation links and EPUB spine entries both rely on it.
func chapterAnchor(n int) string {
	return fmt.Sprintf("chapitre-%d", n)
}

// buildChapterNav generates the table of contents linking chapter sections.
func buildChapterNav(book Book) string {
	var buf strings.Builder
	buf.WriteString(`<nav class="book-nav"><h2 class="book-nav-title">`)
	buf.WriteString(html.EscapeString(navTitle(book.Language)))
	buf.WriteString(`</h2><ol class="book-nav-list">`)
	for i, ch := range book.Chapters {
		buf.WriteString(`<li><a href="#`)
		buf.WriteString(chapterAnchor(i + 1))
		buf.WriteString(`">`)
		buf.WriteString(html.EscapeString(ch.Title))
		buf.WriteString(`</a></li>`)
	}
	buf.WriteString("</ol></nav>\n")
	return buf.String()
}

// navTitle returns the contents heading in the book language.
func navTitle(language string) string {
	if strings.HasPrefix(strings.ToLower(language), "fr") {
		return "Table des matières"
	}
	return "Contents"
}

// writeChapterSection wraps one rendered fragment in its chapter section.
// The section heading is the chapter title; fragments never carry it
// themselves since segmentation strips the heading line.
func writeChapterSection(buf *strings.Builder, n int, title, fragment string) {
	buf.WriteString(`<section class="chapter" id="`)
	buf.WriteString(chapterAnchor(n))
	buf.WriteString("\">\n")
	buf.WriteString(`<h2 class="chapter-title">`)
	buf.WriteString(html.EscapeString(title))
	buf.WriteString("</h2>\n")
	buf.WriteString(fragment)
	if fragment != "" && !strings.HasSuffix(fragment, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString("</section>\n")
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
// Prevents CSS injection by escaping </style> and similar closing sequences.
func sanitizeCSS(css string) string {
	// Escape </ sequences to prevent closing the style tag prematurely
	return strings.ReplaceAll(css, "</", `<\/`)
}
