package dateutil

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseDateFormat(t *testing.T) {
	t.Parallel()

	atLimit := strings.Repeat("-", MaxDateFormatLength)

	tests := []struct {
		name    string
		format  string
		want    string
		wantErr error
	}{
		{"year token", "YYYY", "2006", nil},
		{"short year token", "YY", "06", nil},
		{"full month token", "MMMM", "January", nil},
		{"short month token", "MMM", "Jan", nil},
		{"padded month token", "MM", "01", nil},
		{"bare month token", "M", "1", nil},
		{"padded day token", "DD", "02", nil},
		{"bare day token", "D", "2", nil},

		{"iso layout", "YYYY-MM-DD", "2006-01-02", nil},
		{"european layout", "DD/MM/YYYY", "02/01/2006", nil},
		{"us layout", "MM/DD/YYYY", "01/02/2006", nil},
		{"english long layout", "MMMM D, YYYY", "January 2, 2006", nil},
		{"short month with year", "MMM YYYY", "Jan 2006", nil},

		{"slash separators kept", "YYYY/MM/DD", "2006/01/02", nil},
		{"parens kept", "(YYYY-MM-DD)", "(2006-01-02)", nil},
		{"spaces kept", "DD MM YYYY", "02 01 2006", nil},
		// The D of "Date" is a day token; brackets exist for this.
		{"bare D in text is a token", "Date: YYYY", "2ate: 2006", nil},

		{"bracketed literal", "[Date]: YYYY", "Date: 2006", nil},
		{"bracketed token stays literal", "[YYYY]-MM-DD", "YYYY-01-02", nil},
		{"multiple bracket groups", "[Day]: D [Month]: M", "Day: 2 Month: 1", nil},
		{"empty brackets", "YYYY[]MM", "200601", nil},
		{"special characters in brackets", "[Date/Time]: YYYY-MM-DD", "Date/Time: 2006-01-02", nil},
		{"first close ends the bracket", "[a[b]c", "a[bc", nil},
		{"unclosed bracket", "[Date YYYY", "", ErrInvalidDateFormat},

		{"empty format", "", "", ErrInvalidDateFormat},
		{"over length limit", atLimit + "-", "", ErrInvalidDateFormat},
		{"at length limit", atLimit, atLimit, nil},
		{"literals only", "---", "---", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDateFormat(tt.format)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseDateFormat(%q) error = %v, want %v", tt.format, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDateFormat(%q) error = %v", tt.format, err)
			}
			if got != tt.want {
				t.Errorf("ParseDateFormat(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestResolveDate(t *testing.T) {
	t.Parallel()

	// 15 March 2024, fixed for determinism.
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		value   string
		want    string
		wantErr error
	}{
		{"empty passthrough", "", "", nil},
		{"literal date passthrough", "2024-01-01", "2024-01-01", nil},
		{"arbitrary text passthrough", "Q1 2024", "Q1 2024", nil},
		{"word starting with auto passthrough", "Automne 2026", "Automne 2026", nil},
		{"autoX passthrough", "autoX", "autoX", nil},
		{"auto123 passthrough", "auto123", "auto123", nil},

		{"auto default format", "auto", "15 March 2024", nil},
		{"AUTO case insensitive", "AUTO", "15 March 2024", nil},
		{"Auto mixed case", "Auto", "15 March 2024", nil},

		{"explicit iso", "auto:YYYY-MM-DD", "2024-03-15", nil},
		{"explicit european", "auto:DD/MM/YYYY", "15/03/2024", nil},
		{"explicit us", "auto:MM/DD/YYYY", "03/15/2024", nil},
		{"explicit english long", "auto:MMMM D, YYYY", "March 15, 2024", nil},
		{"explicit short month", "auto:MMM YYYY", "Mar 2024", nil},
		{"bracketed literal", "auto:[Date]: YYYY-MM-DD", "Date: 2024-03-15", nil},

		{"iso preset", "auto:iso", "2024-03-15", nil},
		{"european preset", "auto:european", "15/03/2024", nil},
		{"us preset", "auto:us", "03/15/2024", nil},
		{"long preset", "auto:long", "15 March 2024", nil},
		{"preset case insensitive", "auto:ISO", "2024-03-15", nil},
		{"preset mixed case", "auto:European", "15/03/2024", nil},

		{"empty format after colon", "auto:", "", ErrInvalidDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ResolveDate(tt.value, now)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ResolveDate(%q) error = %v, want %v", tt.value, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveDate(%q) error = %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("ResolveDate(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestLocalizeMonths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		lang string
		want string
	}{
		{"full month name", "15 March 2024", "fr", "15 mars 2024"},
		{"august keeps its accent", "1 August 2024", "fr", "1 août 2024"},
		{"abbreviated month", "Feb 2024", "fr", "févr. 2024"},
		{"full name wins over abbreviation", "January 2024", "fr", "janvier 2024"},
		{"regional tag matches", "15 March 2024", "fr-CA", "15 mars 2024"},
		{"english untouched", "15 March 2024", "en", "15 March 2024"},
		{"numeric date untouched", "2024-03-15", "fr", "2024-03-15"},
		{"empty language untouched", "15 March 2024", "", "15 March 2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := LocalizeMonths(tt.in, tt.lang)
			if got != tt.want {
				t.Errorf("LocalizeMonths(%q, %q) = %q, want %q", tt.in, tt.lang, got, tt.want)
			}
		})
	}
}
