// Package settlement holds the month token and batch primitives shared by
// the four settlement generators.
package settlement

import (
	"fmt"
	"time"
)

// Month is a settlement batch key, parsed from a YYYY-MM operator token.
// All generated rows for one run are scoped to exactly one Month.
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth accepts the operator-facing YYYY-MM token.
func ParseMonth(token string) (Month, error) {
	t, err := time.Parse("2006-01", token)
	if err != nil {
		return Month{}, ErrInvalidMonth
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// MonthOf returns the settlement month containing t, evaluated in UTC.
func MonthOf(t time.Time) Month {
	u := t.UTC()
	return Month{Year: u.Year(), Month: u.Month()}
}

// Start is the first instant of the month, UTC midnight.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End is the first instant of the following month; the month window is the
// half-open interval [Start, End).
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, 0)
}

// Key is the DATE value rows are keyed by (first day of the month).
func (m Month) Key() time.Time { return m.Start() }

func (m Month) Equal(o Month) bool { return m.Year == o.Year && m.Month == o.Month }

// Before reports whether m is an earlier calendar month than o.
func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}
