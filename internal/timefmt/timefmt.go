// Package timefmt renders timestamps the way the UI displays them.
package timefmt

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

// ISOLayout matches JavaScript's Date.toISOString output.
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

const (
	layout12h = "3:04:05 PM"
	layout24h = "15:04:05"
)

// supported is ordered so that index 0 is the fallback.
var supported = []language.Tag{
	language.AmericanEnglish,
	language.BritishEnglish,
	language.German,
	language.French,
	language.Spanish,
	language.Japanese,
}

var layouts = []string{
	layout12h,
	layout24h,
	layout24h,
	layout24h,
	layout24h,
	layout24h,
}

var matcher = language.NewMatcher(supported)

// ISO renders t in UTC with millisecond precision.
func ISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// TimeOfDay renders t as a locale time-of-day string in loc.
// A nil loc means time.Local.
func TimeOfDay(t time.Time, loc *time.Location, locale string) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(Layout(locale))
}

// FormatISO parses an ISO-8601 timestamp and renders its time of day.
func FormatISO(iso string, loc *time.Location, locale string) (string, error) {
	t, err := time.Parse(time.RFC3339Nano, iso)
	if err != nil {
		return "", fmt.Errorf("parse timestamp %q: %w", iso, err)
	}
	return TimeOfDay(t, loc, locale), nil
}

// Layout returns the time layout for the closest supported locale.
// Unknown or empty locales get the en-US layout.
func Layout(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return layouts[0]
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return layouts[0]
	}
	return layouts[idx]
}
