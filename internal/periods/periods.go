// Package periods assigns calendar dates to user-configured pay periods.
//
// A pay period is a sub-month bucket such as the 1st to 15th or the 16th to 31st.
// Buckets are identified by a label of the form "YYYY-MM-N" where N is the
// configured period number.
package periods

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FallbackPeriod is the period assigned to a date that no range covers.
const FallbackPeriod = 1

// Range is one configured pay period covering StartDay..EndDay inclusive.
type Range struct {
	Period   int `json:"period"`
	StartDay int `json:"start_day"`
	EndDay   int `json:"end_day"`
}

// Contains reports whether day falls inside the range. A range whose start
// is after its end never contains anything; there is no month wraparound.
func (r Range) Contains(day int) bool {
	return r.StartDay <= day && day <= r.EndDay
}

// Resolve returns the label of the period date belongs to. Ranges are
// scanned in the given order and the first one containing the day of month
// wins, so overlapping ranges resolve by configuration order. Dates matched
// by no range fall back to period 1.
func Resolve(date time.Time, ranges []Range) string {
	day := date.Day()
	for _, r := range ranges {
		if r.Contains(day) {
			return Label(date.Year(), date.Month(), r.Period)
		}
	}
	return Label(date.Year(), date.Month(), FallbackPeriod)
}

// Label formats a period identifier as "YYYY-MM-N".
func Label(year int, month time.Month, period int) string {
	return fmt.Sprintf("%d-%02d-%d", year, int(month), period)
}

// ParseLabel splits a "YYYY-MM-N" label back into its parts.
func ParseLabel(label string) (year int, month time.Month, period int, err error) {
	parts := strings.Split(label, "-")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid period label %q", label)
	}
	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid period label %q: bad year", label)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 1 || m > 12 {
		return 0, 0, 0, fmt.Errorf("invalid period label %q: bad month", label)
	}
	period, err = strconv.Atoi(parts[2])
	if err != nil || period < 1 {
		return 0, 0, 0, fmt.Errorf("invalid period label %q: bad period", label)
	}
	return year, time.Month(m), period, nil
}

// LessLabel orders two labels chronologically, then by period number.
// Malformed labels sort after well-formed ones, by plain string order.
func LessLabel(a, b string) bool {
	ay, am, ap, aerr := ParseLabel(a)
	by, bm, bp, berr := ParseLabel(b)
	switch {
	case aerr != nil && berr != nil:
		return a < b
	case aerr != nil:
		return false
	case berr != nil:
		return true
	}
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ap < bp
}
