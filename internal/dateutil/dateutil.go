// Package dateutil expands the "auto" date syntax used in book metadata and
// localizes the month names time.Format emits.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length to prevent abuse.
const MaxDateFormatLength = 50

// DefaultDateFormat is used when "auto" is specified without a format.
// Long form, as printed on the title page of a French book.
const DefaultDateFormat = "D MMMM YYYY"

// dateTokens maps user-facing tokens to Go time format components, longest
// first so greedy matching picks YYYY over YY.
var dateTokens = []struct {
	token string
	goFmt string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// DatePresets provides named shortcuts for common date formats.
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "D MMMM YYYY",
}

// frenchMonthReplacer rewrites the English month names emitted by time.Format
// into French. Full names are listed before abbreviations so they win.
var frenchMonthReplacer = strings.NewReplacer(
	"January", "janvier",
	"February", "février",
	"March", "mars",
	"April", "avril",
	"May", "mai",
	"June", "juin",
	"July", "juillet",
	"August", "août",
	"September", "septembre",
	"October", "octobre",
	"November", "novembre",
	"December", "décembre",
	"Jan", "janv.",
	"Feb", "févr.",
	"Mar", "mars",
	"Apr", "avr.",
	"Jun", "juin",
	"Jul", "juil.",
	"Aug", "août",
	"Sep", "sept.",
	"Oct", "oct.",
	"Nov", "nov.",
	"Dec", "déc.",
)

// ParseDateFormat converts a user-facing format string to Go's time layout.
// Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D. Text inside brackets is copied
// literally ("[Date:] D/M" keeps "Date:"), and any other character outside
// brackets passes through as is. Empty, overlong, or unclosed-bracket
// formats are ErrInvalidDateFormat.
func ParseDateFormat(format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var out strings.Builder
	out.Grow(len(format) + 8)

	for i := 0; i < len(format); {
		if format[i] == '[' {
			close := strings.IndexByte(format[i+1:], ']')
			if close < 0 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			out.WriteString(format[i+1 : i+1+close])
			i += close + 2
			continue
		}
		if token, goFmt, ok := matchToken(format[i:]); ok {
			out.WriteString(goFmt)
			i += len(token)
			continue
		}
		out.WriteByte(format[i])
		i++
	}

	return out.String(), nil
}

// matchToken finds the date token prefixing s, if any. The table is ordered
// longest first, so the first hit is the longest match.
func matchToken(s string) (token, goFmt string, ok bool) {
	for _, t := range dateTokens {
		if strings.HasPrefix(s, t.token) {
			return t.token, t.goFmt, true
		}
	}
	return "", "", false
}

// ResolveDate expands the "auto" date syntax:
//   - "auto" renders now in the default format
//   - "auto:FORMAT" renders now in a custom format (e.g. "auto:DD/MM/YYYY")
//   - "auto:preset" renders now using a named preset (iso, european, us, long)
//
// Anything else is a literal date and passes through unchanged, so values
// like "Automne 2026" survive intact. Only an exact "auto" or an "auto:"
// prefix triggers resolution.
func ResolveDate(value string, now time.Time) (string, error) {
	lower := strings.ToLower(value)

	if lower == "auto" {
		goFmt, err := ParseDateFormat(DefaultDateFormat)
		if err != nil {
			return "", err
		}
		return now.Format(goFmt), nil
	}
	if !strings.HasPrefix(lower, "auto:") {
		return value, nil
	}

	// Preserve the original case of the format part; tokens are case
	// sensitive.
	spec := value[len("auto:"):]
	if spec == "" {
		return "", fmt.Errorf("%w: format cannot be empty after \"auto:\"", ErrInvalidDateFormat)
	}
	if preset, ok := DatePresets[strings.ToLower(spec)]; ok {
		spec = preset
	}

	goFmt, err := ParseDateFormat(spec)
	if err != nil {
		return "", err
	}
	return now.Format(goFmt), nil
}

// LocalizeMonths translates the English month names produced by time.Format
// into the language given by a BCP 47-ish tag. Only French is supported; any
// other language returns the input unchanged.
func LocalizeMonths(s, lang string) string {
	if !strings.HasPrefix(strings.ToLower(lang), "fr") {
		return s
	}
	return frenchMonthReplacer.Replace(s)
}
