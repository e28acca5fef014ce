// Package dates parses the loosely formatted dates found in license records and
// rosters, and does day arithmetic on them.
//
// Parsing never fails loudly: anything that cannot be read as a date yields ok=false,
// which callers treat as "unknown".
package dates

import (
	"math"
	"strings"
	"time"
)

// Placeholder is the display marker for a missing date.
const Placeholder = "-"

// DisplayLayout is the portal's date display form.
const DisplayLayout = "2006.01.02"

const day = 24 * time.Hour

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

var dateLayouts = []string{
	time.DateOnly,
	DisplayLayout,
	"2006/01/02",
}

// ParseTimestamp reads input as an instant. Date-only forms resolve to midnight UTC;
// a "YYYY-MM-DD HH:mm" form keeps only the date part before the first space.
// The result is always in UTC.
func ParseTimestamp(input string) (time.Time, bool) {
	s := strings.TrimSpace(input)
	if s == "" || s == Placeholder {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	if datePart, _, found := strings.Cut(s, " "); found {
		s = datePart
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Midnight truncates t to the start of its UTC day.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole days from from to to, comparing UTC calendar days.
// The result is negative when to is before from.
func DaysBetween(from, to time.Time) int {
	diff := Midnight(to).Sub(Midnight(from))
	return int(math.Ceil(diff.Hours() / day.Hours()))
}

// FormatDisplay renders t as YYYY.MM.DD, or the placeholder when t is nil.
func FormatDisplay(t *time.Time) string {
	if t == nil || t.IsZero() {
		return Placeholder
	}
	return t.UTC().Format(DisplayLayout)
}
