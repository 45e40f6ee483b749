package plume

import "strings"

// Guillemet/marker rewrites, widest marker first so a wide marker is never
// split by a narrower rule.
var reorderRewrites = [...]struct{ from, to string }{
	{"***«", "«***"},
	{"»***", "***»"},
	{"**«", "«**"},
	{"»**", "**»"},
	{"*«", "«*"},
	{"»*", "*»"},
}

// reorderMarkers moves emphasis markers outside adjacent guillemets so
// quotation marks always wrap emphasis rather than sit inside it. The
// rewrite carries no state and iterates to a fixed point, which keeps it
// idempotent even for degenerate marker runs.
func reorderMarkers(line string) string {
	for {
		prev := line
		for _, r := range reorderRewrites {
			line = strings.ReplaceAll(line, r.from, r.to)
		}
		if line == prev {
			return line
		}
	}
}
