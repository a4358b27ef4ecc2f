// Package dates holds the civil-date arithmetic and the two wire
// formats the UIC APIs use. All dates are interpreted as UTC midnight
// so day counts stay stable across daylight-saving boundaries.
package dates

import (
	"fmt"
	"time"
)

const (
	// InternalFormat is the form-field date layout (ISO calendar date).
	InternalFormat = "2006-01-02"
	// ExternalFormat is the layout the UIC APIs require.
	ExternalFormat = "02/01/2006"
)

// ParseInternal parses a YYYY-MM-DD calendar date at UTC midnight.
func ParseInternal(s string) (time.Time, error) {
	t, err := time.ParseInLocation(InternalFormat, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// ParseExternal parses a DD/MM/YYYY calendar date at UTC midnight.
func ParseExternal(s string) (time.Time, error) {
	t, err := time.ParseInLocation(ExternalFormat, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// ToExternal converts YYYY-MM-DD to DD/MM/YYYY.
func ToExternal(internal string) (string, error) {
	t, err := ParseInternal(internal)
	if err != nil {
		return "", err
	}
	return t.Format(ExternalFormat), nil
}

// ToInternal converts DD/MM/YYYY to YYYY-MM-DD.
func ToInternal(external string) (string, error) {
	t, err := ParseExternal(external)
	if err != nil {
		return "", err
	}
	return t.Format(InternalFormat), nil
}

// Days returns the trip duration in whole days inclusive of both
// endpoints: floor((end-start)/day) + 1. A result <= 0 means the
// range is invalid.
func Days(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

// DaysBetween is Days over internal-format date strings.
func DaysBetween(startInternal, endInternal string) (int, error) {
	start, err := ParseInternal(startInternal)
	if err != nil {
		return 0, err
	}
	end, err := ParseInternal(endInternal)
	if err != nil {
		return 0, err
	}
	return Days(start, end), nil
}

// EndDate returns the trip end date for a start date and an inclusive
// day count: start + (days-1).
func EndDate(start time.Time, days int) time.Time {
	return start.AddDate(0, 0, days-1)
}

// EndDateExternal computes the external-format end date from an
// internal-format start date and an inclusive day count.
func EndDateExternal(startInternal string, days int) (string, error) {
	start, err := ParseInternal(startInternal)
	if err != nil {
		return "", err
	}
	return EndDate(start, days).Format(ExternalFormat), nil
}

// Age returns whole years between dob and now, decremented when the
// birthday has not yet been reached this year.
func Age(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}
