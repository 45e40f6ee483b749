package plume

import (
	"regexp"
	"strconv"
	"strings"
)

// Precompiled patterns for code region placeholders.
var (
	// Placeholder token written by ExtractCodeRegions, index captured.
	codeBlockTokenPattern = regexp.MustCompile(`__CODE_BLOCK_(\d+)__`)

	// A line holding nothing but a single placeholder token.
	protectedLinePattern = regexp.MustCompile(`^\s*__CODE_BLOCK_\d+__\s*$`)
)

// codeBlockToken formats the placeholder for the region at index n.
func codeBlockToken(n int) string {
	return "__CODE_BLOCK_" + strconv.Itoa(n) + "__"
}

// ExtractCodeRegions replaces every backtick-delimited region with an
// order-indexed placeholder token and returns the rewritten text together
// with the ordered list of original fragments. A region opens with a run of
// backticks and closes at the next run of exactly the same length; runs of a
// different length in between are part of the fragment. An unterminated
// region extends to the end of the text. Fragments keep their exact bytes,
// delimiters included.
func ExtractCodeRegions(text string) (string, []string) {
	if !strings.Contains(text, "`") {
		return text, nil
	}

	var out strings.Builder
	out.Grow(len(text))
	var regions []string

	i := 0
	for i < len(text) {
		next := strings.IndexByte(text[i:], '`')
		if next == -1 {
			out.WriteString(text[i:])
			break
		}
		out.WriteString(text[i : i+next])
		i += next

		opener := backtickRun(text, i)
		end := findClosingRun(text, i+opener, opener)

		var fragment string
		if end == -1 {
			fragment = text[i:]
			i = len(text)
		} else {
			fragment = text[i:end]
			i = end
		}

		out.WriteString(codeBlockToken(len(regions)))
		regions = append(regions, fragment)
	}

	return out.String(), regions
}

// RestoreCodeRegions substitutes each placeholder token with the fragment at
// its recorded index. The scan is a single pass, so fragments containing
// token-shaped text are never rewritten a second time. A token whose index
// has no fragment stays as it is.
func RestoreCodeRegions(text string, regions []string) string {
	if len(regions) == 0 {
		return text
	}

	return codeBlockTokenPattern.ReplaceAllStringFunc(text, func(token string) string {
		m := codeBlockTokenPattern.FindStringSubmatch(token)
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 0 || n >= len(regions) {
			return token
		}
		return regions[n]
	})
}

// isProtectedLine reports whether a line consists solely of one placeholder
// token with optional surrounding whitespace. Such lines carry code region
// content and the typographic passes skip them.
func isProtectedLine(line string) bool {
	return protectedLinePattern.MatchString(line)
}

// backtickRun returns the length of the backtick run starting at i.
func backtickRun(s string, i int) int {
	j := i
	for j < len(s) && s[j] == '`' {
		j++
	}
	return j - i
}

// findClosingRun scans from i for a backtick run of exactly length want and
// returns the index just past it, or -1 when no such run exists.
func findClosingRun(s string, i, want int) int {
	for i < len(s) {
		if s[i] != '`' {
			i++
			continue
		}
		run := backtickRun(s, i)
		if run == want {
			return i + run
		}
		i += run
	}
	return -1
}
