package weather

import (
	"context"
	"strings"
	"time"

	"github.com/cc0ffee/greenhouse-sim/internal/greenhouse"
)

const DateLayout = "2006-01-02"

// Location identifies where a series was observed.
type Location struct {
	Name      string  `json:"name"`
	Region    string  `json:"region,omitempty"`
	Country   string  `json:"country,omitempty"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	TimeZone  string  `json:"tz_id,omitempty"`
}

// HasCoordinates reports whether the provider resolved a position.
func (l Location) HasCoordinates() bool {
	return l.Latitude != 0 || l.Longitude != 0
}

// Series is an hourly external temperature series.
type Series struct {
	Location Location
	Samples  []greenhouse.Sample
}

// Source returns the hourly series of a city between two dates (inclusive).
type Source interface {
	Hourly(ctx context.Context, city string, start, end time.Time) (Series, error)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(field, s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, &ValidationError{Field: field, Message: "expected YYYY-MM-DD, got " + `"` + s + `"`}
	}
	return d, nil
}

// ValidateRange checks the city and an inclusive date range.
func ValidateRange(city string, start, end time.Time) error {
	if strings.TrimSpace(city) == "" {
		return &ValidationError{Field: "city", Message: "must not be empty"}
	}
	if end.Before(start) {
		return &ValidationError{Field: "end_date", Message: "must not be before start_date"}
	}
	return nil
}

// days lists every calendar date from start to end inclusive.
func days(start, end time.Time) []time.Time {
	var out []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}
