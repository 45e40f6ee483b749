// Package plume prepares French-language manuscripts for publication:
// typographic normalization, chapter handling, and export to EPUB, HTML,
// PDF, and Markdown.
//
// # Quick Start
//
// Create a service, export a book, and close when done:
//
//	svc, err := plume.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer svc.Close()
//
//	book, err := plume.ParseManuscript(text)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	data, err := svc.ExportEPUB(ctx, plume.ExportInput{
//	    Book:          book,
//	    FixTypography: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("livre.epub", data, 0644)
//
// ExportHTML, ExportPDF, and ExportMarkdown follow the same shape. Preview
// renders a single chapter to an HTML fragment whose block elements carry
// data-source-line attributes for editor scroll sync.
//
// # Typographic Normalization
//
// NormalizeTypography applies French conventions to manuscript text:
//
//  1. Straight quotes become guillemets, with dialogue state carried
//     across lines
//  2. Whitespace inside emphasis marker pairs is collapsed
//  3. Emphasis markers move outside adjacent guillemets
//
// Fenced code blocks and inline code pass through byte-for-byte. The
// function is pure and idempotent, so an editor can run it on every save.
// The plume CLI additionally shields YAML front matter before calling it;
// the library function treats its whole input as prose.
//
// # Manuscripts and Chapters
//
// A manuscript is one markdown file with optional YAML front matter and
// '#### ' chapter headings. ParseManuscript reads it into a Book,
// SplitChapters and JoinChapters convert between whole texts and chapter
// slices, and ComposeManuscript writes a Book back out as a single file.
//
// # Configuration
//
// Use functional options to customize the service:
//
//	svc, err := plume.New(
//	    plume.WithTimeout(2 * time.Minute),
//	    plume.WithStyle("manuscript"),
//	    plume.WithAssetDir("/path/to/custom/assets"),
//	)
//
// Per-export options are passed via ExportInput:
//
//	data, err := svc.ExportPDF(ctx, plume.ExportInput{
//	    Book:          book,
//	    Style:         "manuscript",
//	    CSS:           "p { text-indent: 1.5em; }",
//	    BaseDir:       "/path/to/manuscript",  // for relative image paths
//	    Page:          &plume.PageSettings{Size: "a4"},
//	    Watermark:     "BROUILLON",
//	    FixTypography: true,
//	})
//
// # Parallel Processing
//
// For batch export, use ServicePool to manage multiple browser instances:
//
//	pool := plume.NewServicePool(4)
//	defer pool.Close()
//
//	svc, err := pool.Acquire()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Release(svc)
//	data, err := svc.ExportPDF(ctx, input)
//
// # Custom Assets
//
// Override built-in stylesheets and templates with an asset directory:
//
//	assets/
//	├── styles/
//	│   └── custom.css
//	└── templates/
//	    └── titlepage.html
//
// # Browser Requirements
//
// PDF export requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
// EPUB, HTML, and Markdown export never touch a browser.
//
// For containers and CI environments, set PLUME_NO_SANDBOX=1 to disable the
// Chrome sandbox. Use PLUME_BROWSER_BIN to specify a custom Chrome binary.
package plume
