// Package calendar parses the date and clock strings submitted with a birth
// form into the components every derivation works from.
package calendar

import (
	"strconv"
	"strings"
	"time"
)

// Date is a parsed YYYY-MM-DD string.
// When Valid is false every numeric field is zero and the raw parts are empty;
// callers fall back to their sentinel results instead of failing.
type Date struct {
	Year  int
	Month int
	Day   int

	// Raw parts exactly as received, zero padding included ("05").
	RawYear  string
	RawMonth string
	RawDay   string

	Valid bool
}

// Clock is a parsed HH:MM string.
type Clock struct {
	Hour   int
	Minute int
}

// Parse splits a date string into year, month and day.
// Anything that does not split into exactly three numeric parts yields a
// zero Date with Valid set to false.
func Parse(s string) Date {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return Date{}
	}

	nums := make([]int, 3)
	for i, p := range parts {
		if !isDigits(p) {
			return Date{}
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return Date{}
		}
		nums[i] = n
	}

	return Date{
		Year:     nums[0],
		Month:    nums[1],
		Day:      nums[2],
		RawYear:  parts[0],
		RawMonth: parts[1],
		RawDay:   parts[2],
		Valid:    true,
	}
}

// ParseClock parses an HH:MM string. The second return value is false for an
// empty or malformed clock, in which case the time of day is treated as unknown.
func ParseClock(s string) (Clock, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || !isDigits(parts[0]) || !isDigits(parts[1]) {
		return Clock{}, false
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil || h > 23 {
		return Clock{}, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m > 59 {
		return Clock{}, false
	}

	return Clock{Hour: h, Minute: m}, true
}

// IsGregorian reports whether the components name a real calendar day
// (so 1990-02-31 is rejected even though it parses).
func (d Date) IsGregorian() bool {
	if !d.Valid || d.Month < 1 || d.Month > 12 || d.Day < 1 {
		return false
	}
	t := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
	return t.Year() == d.Year && int(t.Month()) == d.Month && t.Day() == d.Day
}

// Instant returns the UTC instant of the date at the given clock, or at
// midnight when clock is nil. Out-of-range components are normalized the way
// time.Date does.
func (d Date) Instant(clock *Clock) time.Time {
	hour, minute := 0, 0
	if clock != nil {
		hour, minute = clock.Hour, clock.Minute
	}
	return time.Date(d.Year, time.Month(d.Month), d.Day, hour, minute, 0, 0, time.UTC)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
