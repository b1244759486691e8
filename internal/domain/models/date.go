package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Date is a ledger-side calendar date (Jalali), kept as plain year/month/day.
// The ledger is the only authority on what a date means; the session never
// derives editability or validity from wall-clock arithmetic on these values.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// String renders the wire form used by every ledger endpoint, e.g. "1402/08/09".
func (d Date) String() string {
	return fmt.Sprintf("%04d/%02d/%02d", d.Year, d.Month, d.Day)
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Before compares two dates. Zero-padded string forms order the same way, so
// this mirrors the comparison the panel uses for styling past days.
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// ParseDate parses the "YYYY/MM/DD" wire form.
func ParseDate(s string) (Date, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("malformed date %q", s)
	}

	fields := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return Date{}, fmt.Errorf("malformed date %q: %w", s, err)
		}
		fields[i] = n
	}

	d := Date{Year: fields[0], Month: fields[1], Day: fields[2]}
	if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > 31 {
		return Date{}, fmt.Errorf("date %q out of range", s)
	}
	return d, nil
}

// MonthKey identifies one fetched month of calendar data.
type MonthKey struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// Key returns the month this date belongs to.
func (d Date) Key() MonthKey {
	return MonthKey{Year: d.Year, Month: d.Month}
}
