package plume

import (
	"fmt"
	"strings"
)

// JoinChapters renders chapters back into one manuscript string. Each
// chapter becomes a level-four heading line followed, when the trimmed
// content is non-empty, by a blank line and that content. Chapter blocks are
// separated by two blank lines. Titles are trimmed; a title that trims to
// nothing renders as a numbered "Chapitre N" placeholder, since a bare
// "#### " line is not a boundary for SplitChapters and the chapter would
// silently merge into its predecessor on re-split. An empty slice yields an
// empty string. Round-trips with SplitChapters modulo the defined
// whitespace trimming.
func JoinChapters(chapters []Chapter) string {
	if len(chapters) == 0 {
		return ""
	}

	blocks := make([]string, 0, len(chapters))
	for i, ch := range chapters {
		title := strings.TrimSpace(ch.Title)
		if title == "" {
			title = fmt.Sprintf("Chapitre %d", i+1)
		}
		block := "#### " + title
		if content := strings.TrimSpace(ch.Content); content != "" {
			block += "\n\n" + content
		}
		blocks = append(blocks, block)
	}

	return strings.Join(blocks, "\n\n\n")
}
