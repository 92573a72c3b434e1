package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// Date is a civil date without time of day. The zero value means "absent".
type Date struct {
	t time.Time
}

// NewDate truncates t to its calendar date in t's location
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{t: t}, nil
}

// IsZero reports whether the date is absent
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Time returns midnight UTC of the date
func (d Date) Time() time.Time {
	return d.t
}

// AddDays returns the date n days later (n may be negative)
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// DaysSince returns floor((d - other) / 1 day)
func (d Date) DaysSince(other Date) int {
	return int(math.Floor(d.t.Sub(other.t).Hours() / 24))
}

// Equal compares two dates
func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// Before reports whether d is strictly before other
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// Short formats the date as M/D, as shown on calendar buttons
func (d Date) Short() string {
	return fmt.Sprintf("%d/%d", int(d.t.Month()), d.t.Day())
}

// Long formats the date as "Jan 2, 2006"
func (d Date) Long() string {
	return d.t.Format("Jan 2, 2006")
}

// MarshalJSON encodes the date as "YYYY-MM-DD" or null when absent
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "YYYY-MM-DD", RFC1123 dates (as emitted by some
// JSON encoders for date objects), null and "".
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}

	for _, layout := range []string{DateLayout, time.RFC1123, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			*d = NewDate(t)
			return nil
		}
	}
	return fmt.Errorf("unrecognized date %q", s)
}

// MarshalYAML encodes the date for fixtures
func (d Date) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalYAML decodes a YYYY-MM-DD scalar
func (d *Date) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
