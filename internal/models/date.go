package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// NullableDate distinguishes an absent JSON field (Set == false) from an
// explicit null (Set == true, Time == nil).
type NullableDate struct {
	Set  bool
	Time *time.Time
}

func DateValue(t time.Time) NullableDate {
	return NullableDate{Set: true, Time: &t}
}

func (d *NullableDate) UnmarshalJSON(b []byte) error {
	d.Set = true
	if bytes.Equal(b, []byte("null")) {
		d.Time = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		d.Time = nil
		return nil
	}
	t, err := parseDate(s)
	if err != nil {
		return err
	}
	d.Time = &t
	return nil
}

func (d NullableDate) MarshalJSON() ([]byte, error) {
	if d.Time == nil {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format(DateLayout))
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t.UTC(), nil
}
