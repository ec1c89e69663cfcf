package report

import "github.com/cc0ffee/greenhouse-sim/internal/greenhouse"

func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// ToFahrenheit returns a copy of records with both temperatures in °F.
func ToFahrenheit(records []greenhouse.Record) []greenhouse.Record {
	out := make([]greenhouse.Record, len(records))
	for i, r := range records {
		r.InternalTemperature = CelsiusToFahrenheit(r.InternalTemperature)
		r.ExternalTemperature = CelsiusToFahrenheit(r.ExternalTemperature)
		out[i] = r
	}
	return out
}
