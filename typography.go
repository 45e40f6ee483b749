package plume

import (
	"regexp"
	"strings"
	"unicode"
)

// bulletMask stands in for the structural asterisk of a bullet line during
// the width-1 emphasis pass. U+E000 is private use and never appears in prose.
const bulletMask = ""

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Whitespace inside emphasis marker pairs, one pattern per marker width.
	// Bodies are lazy so tight pairs match themselves and stay unchanged.
	emphasisSpacing3 = regexp.MustCompile(`\*{3}\s*(.*?)\s*\*{3}`)
	emphasisSpacing2 = regexp.MustCompile(`\*{2}\s*(.*?)\s*\*{2}`)
	emphasisSpacing1 = regexp.MustCompile(`\*\s*(.*?)\s*\*`)

	// Bullet-list item: the leading asterisk is structural, not emphasis
	bulletPrefix = regexp.MustCompile(`^(\s*)\*(\s)`)
)

// NormalizeTypography applies French typographic conventions to manuscript
// text: whitespace inside emphasis markers is collapsed, straight quotes
// become guillemets with dialogue state carried across lines, and emphasis
// markers move outside adjacent guillemets. Code regions pass through
// byte-for-byte. The function is pure and idempotent.
func NormalizeTypography(text string) string {
	substituted, regions := ExtractCodeRegions(text)
	substituted = normalizeLineEndings(substituted)

	lines := strings.Split(substituted, "\n")
	dialogueOpen := false
	for i, line := range lines {
		if isProtectedLine(line) {
			continue
		}
		line = collapseEmphasisSpacing(line)
		line, dialogueOpen = classifyQuotes(line, dialogueOpen)
		lines[i] = reorderMarkers(line)
	}

	return RestoreCodeRegions(strings.Join(lines, "\n"), regions)
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// collapseEmphasisSpacing removes whitespace just inside emphasis marker
// pairs, widest markers first since a narrow marker is a substring of a wide
// one. A bullet line has its structural asterisk masked during the width-1
// pass and unmasked after.
func collapseEmphasisSpacing(line string) string {
	line = emphasisSpacing3.ReplaceAllString(line, "***${1}***")
	line = emphasisSpacing2.ReplaceAllString(line, "**${1}**")

	bullet := bulletPrefix.MatchString(line)
	if bullet {
		line = bulletPrefix.ReplaceAllString(line, "${1}"+bulletMask+"${2}")
	}
	line = emphasisSpacing1.ReplaceAllString(line, "*${1}*")
	if bullet {
		line = strings.Replace(line, bulletMask, "*", 1)
	}
	return line
}

// classifyQuotes rewrites straight quotes on one line in a single
// left-to-right scan. Guillemets pass through and force the dialogue state.
// An apostrophe or double quote flanked by word runes on both sides is an
// internal contraction mark and passes unchanged; any other occurrence is a
// quotation boundary and becomes a closing guillemet when dialogue is open,
// an opening guillemet otherwise. The returned flag carries into the next
// line, so dialogue may span paragraphs.
func classifyQuotes(line string, dialogueOpen bool) (string, bool) {
	runes := []rune(line)
	var b strings.Builder
	b.Grow(len(line))

	for i, r := range runes {
		switch r {
		case '«':
			dialogueOpen = true
			b.WriteRune(r)
		case '»':
			dialogueOpen = false
			b.WriteRune(r)
		case '\'', '"':
			if isWordRune(runeBefore(runes, i)) && isWordRune(runeAfter(runes, i)) {
				b.WriteRune(r)
				continue
			}
			if dialogueOpen {
				b.WriteRune('»')
			} else {
				b.WriteRune('«')
			}
			dialogueOpen = !dialogueOpen
		default:
			b.WriteRune(r)
		}
	}

	return b.String(), dialogueOpen
}

// runeBefore returns the rune preceding index i, treating the line edge as a
// space.
func runeBefore(runes []rune, i int) rune {
	if i == 0 {
		return ' '
	}
	return runes[i-1]
}

// runeAfter returns the rune following index i, treating the line edge as a
// space.
func runeAfter(runes []rune, i int) rune {
	if i == len(runes)-1 {
		return ' '
	}
	return runes[i+1]
}

// isWordRune reports whether r can sit inside a word: Latin letters,
// accented forms included, or decimal digits.
func isWordRune(r rune) bool {
	return unicode.Is(unicode.Latin, r) || unicode.IsDigit(r)
}
