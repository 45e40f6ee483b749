package plume

import (
	"regexp"
	"strings"
)

// Titles synthesized when the manuscript provides none.
const (
	DefaultChapterTitle = "Chapitre 1"
	IntroductionTitle   = "Introduction"
)

// Chapter heading: four hashes at line start, one or more spaces, a title.
var headingPattern = regexp.MustCompile(`(?m)^#### +(.+)$`)

// SplitChapters cuts a manuscript into ordered chapters on level-four
// heading boundaries. Text without any heading becomes a single chapter
// titled "Chapitre 1" (or no chapter at all when blank), and non-blank text
// before the first heading becomes a leading "Introduction" chapter. Titles
// are trimmed; content loses only its surrounding blank lines, so an
// indented first line (a code block, say) keeps its indentation and
// interior blank lines are preserved. A heading whose title trims to
// nothing is not a boundary and stays in the surrounding content.
func SplitChapters(text string) []Chapter {
	text = normalizeLineEndings(text)

	matches := headingPattern.FindAllStringSubmatchIndex(text, -1)
	boundaries := matches[:0]
	for _, m := range matches {
		if strings.TrimSpace(text[m[2]:m[3]]) != "" {
			boundaries = append(boundaries, m)
		}
	}

	if len(boundaries) == 0 {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []Chapter{{Title: DefaultChapterTitle, Content: trimmed}}
	}

	chapters := make([]Chapter, 0, len(boundaries)+1)
	if intro := trimBlankLines(text[:boundaries[0][0]]); intro != "" {
		chapters = append(chapters, Chapter{Title: IntroductionTitle, Content: intro})
	}

	for i, m := range boundaries {
		end := len(text)
		if i+1 < len(boundaries) {
			end = boundaries[i+1][0]
		}
		chapters = append(chapters, Chapter{
			Title:   strings.TrimSpace(text[m[2]:m[3]]),
			Content: trimBlankLines(text[m[1]:end]),
		})
	}

	return chapters
}

// trimBlankLines strips leading and trailing blank lines (empty or
// whitespace-only), including the final line terminator. The first and last
// content lines keep their own indentation and trailing spaces.
func trimBlankLines(s string) string {
	for {
		i := strings.IndexByte(s, '\n')
		if i < 0 || strings.TrimSpace(s[:i]) != "" {
			break
		}
		s = s[i+1:]
	}
	if strings.TrimSpace(s) == "" {
		return ""
	}
	for {
		i := strings.LastIndexByte(s, '\n')
		if i < 0 || strings.TrimSpace(s[i+1:]) != "" {
			break
		}
		s = s[:i]
	}
	return s
}
