// Package timeutil renders backend timestamps in an admin's display timezone.
package timeutil

import (
	"time"
	_ "time/tzdata" // admins run the CLI on machines without a zoneinfo database
)

// DisplayLayout is how timestamps are shown in tables and detail views
const DisplayLayout = "2006-01-02 15:04"

// Location resolves an IANA timezone name.
// Empty means the machine's local zone; an unknown name falls back to UTC.
func Location(timezone string) *time.Location {
	if timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsValidTimezone checks if a timezone string is valid
func IsValidTimezone(timezone string) bool {
	if timezone == "" {
		return false
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}

// Format renders t in the given timezone, or "-" for the zero time
func Format(t time.Time, timezone string) string {
	if t.IsZero() {
		return "-"
	}
	return t.In(Location(timezone)).Format(DisplayLayout)
}
