package date

import (
	"encoding/json"
	"fmt"
	"time"
)

// MonthFormat is the layout of a Month as text.
const MonthFormat = "2006-01"

// Month is a calendar month bucket: a year and a month, regardless of the day.
type Month struct {
	y int
	m time.Month
}

// NewMonth returns a normalized Month, NewMonth(2024, 13) is January 2025.
func NewMonth(year int, month time.Month) Month {
	d := New(year, month, 1)
	return Month{d.y, d.m}
}

// MonthOf returns the month bucket of a day.
func MonthOf(d Date) Month { return Month{d.y, d.m} }

// YearMonth returns the month bucket of the date.
func (d Date) YearMonth() Month { return MonthOf(d) }

func (m Month) Year() int           { return m.y }
func (m Month) Month() time.Month   { return m.m }
func (m Month) IsZero() bool        { return m.y == 0 && m.m == 0 }
func (m Month) First() Date         { return New(m.y, m.m, 1) }
func (m Month) Last() Date          { return New(m.y, m.m+1, 0) }
func (m Month) Add(n int) Month     { return NewMonth(m.y, m.m+time.Month(n)) }
func (m Month) Before(x Month) bool { return m.Compare(x) < 0 }
func (m Month) After(x Month) bool  { return m.Compare(x) > 0 }

// Compare returns -1, 0 or +1 if m is before, equal or after x.
func (m Month) Compare(x Month) int {
	if m.y != x.y {
		return cmpInt(m.y, x.y)
	}
	return cmpInt(int(m.m), int(x.m))
}

// Contains reports whether the day d falls in the month.
func (m Month) Contains(d Date) bool { return d.y == m.y && d.m == m.m }

// String formats the month as "2006-01".
func (m Month) String() string { return fmt.Sprintf("%04d-%02d", m.y, int(m.m)) }

// ParseMonth parses a month as "2006-01" (or "2006-1").
func ParseMonth(str string) (Month, error) {
	on, err := time.Parse("2006-1", str)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q want format %q: %w", str, MonthFormat, err)
	}
	return NewMonth(on.Year(), on.Month()), nil
}

func (m *Month) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	x, err := ParseMonth(str)
	if err != nil {
		return err
	}
	*m = x
	return nil
}

func (m Month) MarshalJSON() ([]byte, error) { return json.Marshal(m.String()) }
