package plume

import (
	"time"

	"github.com/jojo1992341/plume/internal/dateutil"
)

// ResolveDate resolves "auto" date values against a reference time and
// localizes month names for the given book language.
//   - "auto" → date in "D MMMM YYYY" form (e.g. "15 mars 2024" for French)
//   - "auto:FORMAT" → date in a custom format (e.g., "auto:DD/MM/YYYY")
//   - "auto:preset" → date using a named preset (iso, european, us, long)
//   - any other value → returned unchanged, so literal dates such as
//     "Automne 2026" survive as written
//
// The time parameter allows injecting a fixed time for testing.
func ResolveDate(value, language string, t time.Time) (string, error) {
	resolved, err := dateutil.ResolveDate(value, t)
	if err != nil {
		return "", err
	}
	return dateutil.LocalizeMonths(resolved, language), nil
}
