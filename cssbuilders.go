package plume

import (
	"fmt"
	"strings"
)

// defaultFontFamily is the standard font stack for PDF footers and generated content.
const defaultFontFamily = "sans-serif"

// Watermark rendering constants. The only knob is the text itself; proofs
// marked "BROUILLON" should look the same everywhere.
const (
	watermarkFontSize = "8rem"
	watermarkColor    = "#888888"
	watermarkOpacity  = 0.08
	watermarkAngle    = -45.0
)

// Orphan and widow minimums for print output.
const (
	printOrphans = 3
	printWidows  = 3
)

// cssEscaper rewrites characters that would terminate a CSS string or leak
// into the surrounding Sprintf format: backslashes and quotes are escaped,
// newlines become the CSS \A sequence, carriage returns drop, and percent
// signs are doubled.
var cssEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\A `,
	"\r", "",
	`%`, `%%`,
)

func escapeCSSString(s string) string {
	return cssEscaper.Replace(s)
}

// breakURLPattern swaps every dot for ONE DOT LEADER (U+2024) so PDF viewers
// stop auto-linking watermark text that looks like a domain. The substitute
// renders identically to a period; version markers like "brouillon v1.3" are
// affected too, invisibly.
func breakURLPattern(text string) string {
	return strings.ReplaceAll(text, ".", "․")
}

// buildWatermarkCSS returns a style block painting the text diagonally
// behind every printed page, or "" when the text is empty. position:fixed
// is what repeats it on each page of the PDF output.
func buildWatermarkCSS(text string) string {
	if text == "" {
		return ""
	}

	return fmt.Sprintf(`
/* Watermark */
body::before {
  content: "%s";
  position: fixed;
  top: 50%%;
  left: 50%%;
  transform: translate(-50%%, -50%%) rotate(%.1fdeg);
  font-family: %s;
  font-size: %s;
  font-weight: bold;
  color: %s;
  opacity: %.2f;
  white-space: nowrap;
  pointer-events: none;
  z-index: -1;
}
`, escapeCSSString(breakURLPattern(text)), watermarkAngle, defaultFontFamily, watermarkFontSize, watermarkColor, watermarkOpacity)
}

// buildPrintCSS generates the fixed print rules for book output: headings
// never sit alone at a page bottom, paragraphs keep orphan/widow minimums,
// and the navigation page plus every chapter start on a fresh page.
func buildPrintCSS() string {
	return fmt.Sprintf(`
/* Print: keep headings attached to their text */
h1, h2, h3, h4, h5, h6 {
  break-after: avoid;
  page-break-after: avoid;
  break-inside: avoid;
  page-break-inside: avoid;
}

/* Print: orphan/widow control */
p, li, dd, dt, blockquote {
  orphans: %d;
  widows: %d;
}

/* Print: table of contents and chapters each start on a new page */
nav.book-nav,
section.chapter {
  break-before: page;
  page-break-before: always;
}
`, printOrphans, printWidows)
}
