package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/cc0ffee/greenhouse-sim/internal/greenhouse"
	"github.com/cc0ffee/greenhouse-sim/internal/report"
)

type SyntheticWeather struct {
	Start     time.Time
	Hours     int
	Mean      float64
	Amplitude float64
}

// Samples follows a daily sinusoid peaking at 15:00.
func (w SyntheticWeather) Samples() []greenhouse.Sample {
	out := make([]greenhouse.Sample, w.Hours)
	for i := range w.Hours {
		ts := w.Start.Add(time.Duration(i) * time.Hour)
		h := greenhouse.HourOfDay(ts)
		out[i] = greenhouse.Sample{
			Timestamp:           ts,
			ExternalTemperature: w.Mean + w.Amplitude*math.Sin(2*math.Pi*(h-9)/24),
		}
	}
	return out
}

func SimulateGreenhouse(weather SyntheticWeather, filename string) error {
	params := greenhouse.Params{
		Envelope: greenhouse.Envelope{
			UDay:        1.82,
			UNight:      1.96,
			Area:        100,
			ThermalMass: greenhouse.CompositeThermalMass(
				greenhouse.Layer{Material: greenhouse.Concrete, Volume: 20},
				greenhouse.Layer{Material: greenhouse.Steel, Volume: 1.5},
			),
		},
		HeatSource:    greenhouse.HeatSource{HeatingPower: greenhouse.HeatingPower(7000, 7000, 0.8)},
		PeakSolarGain: greenhouse.PeakSolarGain(150, 100, 0.6),
		Step:          time.Hour,
		Bounds:        greenhouse.DefaultBounds,
	}

	runner, err := greenhouse.NewRunner(params)
	if err != nil {
		return fmt.Errorf("failed to create runner: %v", err)
	}

	records, err := runner.Run(weather.Samples(), nil)
	if err != nil {
		return fmt.Errorf("failed to simulate: %v", err)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	if err := report.WriteCSV(file, records); err != nil {
		return err
	}

	s := report.Summarize(records)
	log.Printf("%d hours: internal min %.2f max %.2f avg %.2f", s.Count, s.Internal.Min, s.Internal.Max, s.Internal.Mean)
	return nil
}

func main() {
	weather := SyntheticWeather{
		Start:     time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		Hours:     7 * 24,
		Mean:      10,
		Amplitude: 20,
	}
	if err := SimulateGreenhouse(weather, "greenhouse.csv"); err != nil {
		log.Fatal(err)
	}
}
