package weather

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/cc0ffee/greenhouse-sim/internal/greenhouse"
)

type csvSampleRow struct {
	Timestamp string `csv:"timestamp"`
	TempC     string `csv:"temp_c"`
}

var csvTimestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
}

// CSVSource serves a local "timestamp,temp_c" file. The city argument of
// Hourly only labels the returned Series.
type CSVSource struct {
	Path     string
	Location *time.Location
}

func NewCSVSource(path string, loc *time.Location) *CSVSource {
	if loc == nil {
		loc = time.UTC
	}
	return &CSVSource{Path: path, Location: loc}
}

func (s *CSVSource) Hourly(ctx context.Context, city string, start, end time.Time) (Series, error) {
	if err := ValidateRange(city, start, end); err != nil {
		return Series{}, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return Series{}, fmt.Errorf("open weather csv: %w", err)
	}
	defer f.Close()

	all, err := ReadSamplesCSV(f, s.Location)
	if err != nil {
		return Series{}, err
	}

	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, s.Location)
	to := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, s.Location).AddDate(0, 0, 1)
	series := Series{Location: Location{Name: city, TimeZone: s.Location.String()}}
	for _, sample := range all {
		if sample.Timestamp.Before(from) || !sample.Timestamp.Before(to) {
			continue
		}
		series.Samples = append(series.Samples, sample)
	}
	return series, ctx.Err()
}

// ReadSamplesCSV parses every row; an unparsable timestamp or empty
// temperature is malformed input.
func ReadSamplesCSV(r io.Reader, loc *time.Location) ([]greenhouse.Sample, error) {
	var rows []csvSampleRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("parse weather csv: %w", err)
	}

	out := make([]greenhouse.Sample, 0, len(rows))
	for i, row := range rows {
		ts, err := parseCSVTimestamp(row.Timestamp, loc)
		if err != nil {
			return nil, &greenhouse.SampleError{Index: i, Err: greenhouse.ErrMissingTimestamp}
		}
		temp, err := strconv.ParseFloat(strings.TrimSpace(row.TempC), 64)
		if err != nil || math.IsNaN(temp) || math.IsInf(temp, 0) {
			return nil, &greenhouse.SampleError{Index: i, Err: greenhouse.ErrNonFiniteTemperature}
		}
		out = append(out, greenhouse.Sample{Timestamp: ts, ExternalTemperature: temp})
	}
	return out, nil
}

func parseCSVTimestamp(s string, loc *time.Location) (time.Time, error) {
	var lastErr error
	for _, layout := range csvTimestampLayouts {
		ts, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
