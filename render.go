package plume

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// htmlRenderer abstracts Markdown to HTML fragment rendering.
type htmlRenderer interface {
	Render(ctx context.Context, markdown string) (string, error)
}

// sourceLineTransformer stamps data-source-line attributes on block nodes
// (1-based line of the block's first segment) so an editor preview can
// scroll-sync the rendered HTML against the Markdown source.
type sourceLineTransformer struct{}

// Transform implements parser.ASTTransformer.
func (t *sourceLineTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()

	// lineStarts[i] is the byte offset where line i+1 begins.
	lineStarts := []int{0}
	for i, b := range source {
		if b == '\n' {
			lineStarts = append(lineStarts, i+1)
		}
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Type() != ast.TypeBlock {
			return ast.WalkContinue, nil
		}
		start, ok := blockStart(n)
		if !ok {
			return ast.WalkContinue, nil
		}
		line := sort.Search(len(lineStarts), func(i int) bool { return lineStarts[i] > start })
		n.SetAttributeString("data-source-line", []byte(strconv.Itoa(line)))
		return ast.WalkContinue, nil
	})
}

// blockStart returns the byte offset of the first source segment owned by n
// or, for container blocks without segments, by its first such descendant.
// Only block nodes may be asked for Lines; inline nodes panic.
func blockStart(n ast.Node) (int, bool) {
	if lines := n.Lines(); lines != nil && lines.Len() > 0 {
		return lines.At(0).Start, true
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Type() != ast.TypeBlock {
			continue
		}
		if start, ok := blockStart(c); ok {
			return start, true
		}
	}
	return 0, false
}

// goldmarkRenderer renders Markdown to HTML fragments using goldmark (pure Go).
type goldmarkRenderer struct {
	md goldmark.Markdown
}

var _ htmlRenderer = (*goldmarkRenderer)(nil)

// newGoldmarkRenderer creates a goldmarkRenderer with GFM extensions and
// syntax highlighting.
func newGoldmarkRenderer() *goldmarkRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // CSS classes so stylesheets keep control
				),
			),
			// Note: extension.Typographer intentionally NOT used. Quote and
			// spacing rewriting is FixTypography's job and must not happen
			// a second time at render.
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(), // Generate IDs for headings (chapter anchors)
			parser.WithASTTransformers(
				util.Prioritized(&sourceLineTransformer{}, 100),
			),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(), // Prose is line-oriented: newlines become <br>
			html.WithXHTML(),     // Self-closing tags, EPUB chapters need XHTML
			// Note: WithUnsafe() intentionally NOT used for security.
		),
	)
	return &goldmarkRenderer{md: md}
}

// Render converts Markdown content to an HTML fragment.
// Supports context cancellation via goroutine + select pattern since
// goldmark doesn't natively support context.
func (r *goldmarkRenderer) Render(ctx context.Context, markdown string) (string, error) {
	// Fast path: check context before starting
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := r.md.Convert([]byte(markdown), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLRender, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.html, res.err
	}
}
