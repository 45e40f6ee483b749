package plume

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
)

// epubPackager abstracts EPUB assembly to allow different backends.
type epubPackager interface {
	Package(ctx context.Context, book Book, chaptersXHTML []string, css string) ([]byte, error)
}

// Compile-time interface check
var _ epubPackager = (*zipPackager)(nil)

// zipPackager assembles EPUB 3 archives with archive/zip. Entries are
// written in a fixed order with the mimetype entry first and uncompressed,
// as the format requires.
type zipPackager struct{}

// newZipPackager creates a zipPackager.
func newZipPackager() *zipPackager {
	return &zipPackager{}
}

const epubMimetype = "application/epub+zip"

const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

// defaultEPUBCSS is used when the caller provides no stylesheet.
const defaultEPUBCSS = `body {
  font-family: serif;
  margin: 1em;
  line-height: 1.6;
}
h1, h2, h3 {
  font-family: sans-serif;
}
p {
  text-indent: 1.5em;
  margin: 0.5em 0;
}
`

// Package builds the book into an EPUB 3 archive. chaptersXHTML carries one
// rendered XHTML fragment per chapter, in chapter order.
func (p *zipPackager) Package(ctx context.Context, book Book, chaptersXHTML []string, css string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(book.Chapters) == 0 {
		return nil, fmt.Errorf("%w: a book needs at least one chapter", ErrEPUBPackage)
	}
	if len(chaptersXHTML) != len(book.Chapters) {
		return nil, fmt.Errorf("%w: %d chapters but %d rendered fragments",
			ErrEPUBPackage, len(book.Chapters), len(chaptersXHTML))
	}

	data, err := p.assemble(book, chaptersXHTML, css)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEPUBPackage, err)
	}
	return data, nil
}

func (p *zipPackager) assemble(book Book, chaptersXHTML []string, css string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	// The mimetype entry must be first and stored uncompressed.
	w, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		return nil, err
	}
	if _, err := w.Write([]byte(epubMimetype)); err != nil {
		return nil, err
	}

	if css == "" {
		css = defaultEPUBCSS
	}
	identifier := "urn:uuid:" + uuid.NewString()

	entries := []struct {
		name    string
		content string
	}{
		{"META-INF/container.xml", containerXML},
		{"OEBPS/content.opf", p.contentOPF(book, identifier)},
		{"OEBPS/toc.ncx", p.tocNCX(book, identifier)},
		{"OEBPS/nav.xhtml", p.navXHTML(book)},
		{"OEBPS/style.css", css},
	}
	for i, content := range chaptersXHTML {
		entries = append(entries, struct {
			name    string
			content string
		}{
			name:    fmt.Sprintf("OEBPS/text/chapter-%d.xhtml", i+1),
			content: p.chapterXHTML(book, i, content),
		})
	}

	for _, entry := range entries {
		w, err := zw.Create(entry.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(entry.content)); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// contentOPF renders the OPF package document: metadata, manifest, spine.
func (p *zipPackager) contentOPF(book Book, identifier string) string {
	var meta strings.Builder
	fmt.Fprintf(&meta, "    <dc:identifier id=\"BookId\">%s</dc:identifier>\n", html.EscapeString(identifier))
	fmt.Fprintf(&meta, "    <dc:title>%s</dc:title>\n", html.EscapeString(book.Title))
	if book.Author != "" {
		fmt.Fprintf(&meta, "    <dc:creator>%s</dc:creator>\n", html.EscapeString(book.Author))
	}
	fmt.Fprintf(&meta, "    <dc:language>%s</dc:language>\n", html.EscapeString(bookLanguage(book)))
	if book.Date != "" {
		fmt.Fprintf(&meta, "    <dc:date>%s</dc:date>\n", html.EscapeString(book.Date))
	}
	fmt.Fprintf(&meta, "    <meta property=\"dcterms:modified\">%s</meta>\n",
		time.Now().UTC().Format("2006-01-02T15:04:05Z"))

	var manifest strings.Builder
	manifest.WriteString(`    <item id="nav" href="nav.xhtml" media-type="application/xhtml+xml" properties="nav"/>` + "\n")
	manifest.WriteString(`    <item id="ncx" href="toc.ncx" media-type="application/x-dtbncx+xml"/>` + "\n")
	manifest.WriteString(`    <item id="style" href="style.css" media-type="text/css"/>` + "\n")

	var spine strings.Builder
	for i := range book.Chapters {
		id := fmt.Sprintf("chapter-%d", i+1)
		fmt.Fprintf(&manifest, `    <item id="%s" href="text/%s.xhtml" media-type="application/xhtml+xml"/>`+"\n", id, id)
		fmt.Fprintf(&spine, `    <itemref idref="%s"/>`+"\n", id)
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0" unique-identifier="BookId">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
%s  </metadata>
  <manifest>
%s  </manifest>
  <spine toc="ncx">
%s  </spine>
</package>`, meta.String(), manifest.String(), spine.String())
}

// tocNCX renders the EPUB 2 compatibility table of contents.
func (p *zipPackager) tocNCX(book Book, identifier string) string {
	var navPoints strings.Builder
	for i, ch := range book.Chapters {
		fmt.Fprintf(&navPoints, `    <navPoint id="navpoint-%d" playOrder="%d">
      <navLabel><text>%s</text></navLabel>
      <content src="text/chapter-%d.xhtml"/>
    </navPoint>
`, i+1, i+1, html.EscapeString(ch.Title), i+1)
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">
  <head>
    <meta name="dtb:uid" content="%s"/>
    <meta name="dtb:depth" content="1"/>
    <meta name="dtb:totalPageCount" content="0"/>
    <meta name="dtb:maxPageNumber" content="0"/>
  </head>
  <docTitle><text>%s</text></docTitle>
  <navMap>
%s  </navMap>
</ncx>`, html.EscapeString(identifier), html.EscapeString(book.Title), navPoints.String())
}

// navXHTML renders the EPUB 3 navigation document. The heading follows the
// book language, like the HTML document nav.
func (p *zipPackager) navXHTML(book Book) string {
	language := html.EscapeString(bookLanguage(book))
	heading := html.EscapeString(navTitle(bookLanguage(book)))

	var items strings.Builder
	for i, ch := range book.Chapters {
		fmt.Fprintf(&items, "      <li><a href=\"text/chapter-%d.xhtml\">%s</a></li>\n",
			i+1, html.EscapeString(ch.Title))
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops" lang="%s" xml:lang="%s">
<head>
  <title>%s</title>
  <link rel="stylesheet" type="text/css" href="style.css"/>
</head>
<body>
  <nav epub:type="toc" id="toc">
    <h1>%s</h1>
    <ol>
%s    </ol>
  </nav>
</body>
</html>`, language, language, heading, heading, items.String())
}

// chapterXHTML wraps one rendered chapter fragment in a standalone XHTML
// document.
func (p *zipPackager) chapterXHTML(book Book, index int, content string) string {
	language := html.EscapeString(bookLanguage(book))
	title := html.EscapeString(book.Chapters[index].Title)

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml" lang="%s" xml:lang="%s">
<head>
  <title>%s</title>
  <link rel="stylesheet" type="text/css" href="../style.css"/>
</head>
<body>
  <section class="chapter">
    <h1 class="chapter-title">%s</h1>
%s
  </section>
</body>
</html>`, language, language, title, title, content)
}

// bookLanguage returns the book language, defaulting to DefaultLanguage.
func bookLanguage(book Book) string {
	if book.Language == "" {
		return DefaultLanguage
	}
	return book.Language
}
