package models

import (
	"fmt"
	"time"
)

// ParseFlexTime parses an RFC 3339 timestamp or a bare YYYY-MM-DD date.
func ParseFlexTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q (want RFC 3339 or YYYY-MM-DD)", s)
	}
	return t, nil
}

// ParseTimeRange resolves optional start/end bounds for a session query.
// Each bound is parsed on its own: a missing end defaults to now, a missing
// start to seven days before the end. A date-only end covers that whole day.
// The result is the half-open interval [start, end).
func ParseTimeRange(startStr, endStr string, now time.Time) (time.Time, time.Time, error) {
	end := now
	if endStr != "" {
		t, err := time.Parse(time.RFC3339, endStr)
		if err != nil {
			t, err = time.Parse("2006-01-02", endStr)
			if err != nil {
				return time.Time{}, time.Time{}, fmt.Errorf("invalid end %q (want RFC 3339 or YYYY-MM-DD)", endStr)
			}
			t = t.AddDate(0, 0, 1)
		}
		end = t
	}

	start := end.AddDate(0, 0, -7)
	if startStr != "" {
		t, err := ParseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start: %w", err)
		}
		start = t
	}
	return start, end, nil
}
