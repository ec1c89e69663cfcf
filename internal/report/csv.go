package report

import (
	"fmt"
	"io"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/cc0ffee/greenhouse-sim/internal/greenhouse"
)

const TimestampLayout = "2006-01-02 15:04:05"

type csvRow struct {
	Timestamp           string  `csv:"timestamp"`
	Mode                string  `csv:"mode"`
	InternalTemperature float64 `csv:"internal_temperature_c"`
	ExternalTemperature float64 `csv:"external_temperature_c"`
	InternalFahrenheit  float64 `csv:"internal_temperature_f"`
	ExternalFahrenheit  float64 `csv:"external_temperature_f"`
	HeatInput           float64 `csv:"heat_input_w"`
}

// WriteCSV writes a trajectory with a header row, in both °C and °F.
func WriteCSV(w io.Writer, records []greenhouse.Record) error {
	rows := make([]csvRow, len(records))
	for i, r := range records {
		rows[i] = csvRow{
			Timestamp:           r.Timestamp.Format(TimestampLayout),
			Mode:                r.Mode.String(),
			InternalTemperature: r.InternalTemperature,
			ExternalTemperature: r.ExternalTemperature,
			InternalFahrenheit:  CelsiusToFahrenheit(r.InternalTemperature),
			ExternalFahrenheit:  CelsiusToFahrenheit(r.ExternalTemperature),
			HeatInput:           r.HeatInput,
		}
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// ReadCSV parses a trajectory written by WriteCSV. Timestamps are read in loc.
func ReadCSV(r io.Reader, loc *time.Location) ([]greenhouse.Record, error) {
	var rows []csvRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if loc == nil {
		loc = time.UTC
	}

	out := make([]greenhouse.Record, len(rows))
	for i, row := range rows {
		ts, err := time.ParseInLocation(TimestampLayout, row.Timestamp, loc)
		if err != nil {
			return nil, fmt.Errorf("read csv: row %d: %w", i+1, err)
		}
		mode, err := greenhouse.ParseMode(row.Mode)
		if err != nil {
			return nil, fmt.Errorf("read csv: row %d: %w", i+1, err)
		}
		out[i] = greenhouse.Record{
			Timestamp:           ts,
			InternalTemperature: row.InternalTemperature,
			ExternalTemperature: row.ExternalTemperature,
			Mode:                mode,
			HeatInput:           row.HeatInput,
		}
	}
	return out, nil
}
