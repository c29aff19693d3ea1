package features

import (
	"math"
	"strings"
	"time"
)

// Plausible age range; values outside it are unknown, not clamped.
const (
	MinAge = 6
	MaxAge = 30
)

// dateLayouts are the spreadsheet date renderings accepted by NormalizeAge.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
}

// NormalizeAge resolves the two encodings found in the age column: a plain
// number, or a date in January 1900 whose day of month is the age (the
// spreadsheet epoch artifact). A direct number always wins over the date
// reading. The result is missing outside [MinAge, MaxAge] and otherwise
// rounded half to even.
func NormalizeAge(v Value) Value {
	age := CoerceNumeric(v)
	if age.IsMissing() {
		age = ageFromEpochDate(v)
	}
	f, ok := age.Float()
	if !ok || f < MinAge || f > MaxAge {
		return Missing()
	}
	return Number(math.RoundToEven(f))
}

func ageFromEpochDate(v Value) Value {
	t, ok := parseDate(v)
	if !ok || t.Year() != 1900 || t.Month() != time.January {
		return Missing()
	}
	return Number(float64(t.Day()))
}

func parseDate(v Value) (time.Time, bool) {
	if t, ok := v.TimeValue(); ok {
		return t, true
	}
	s, ok := v.TextValue()
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
