package report

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cc0ffee/greenhouse-sim/internal/greenhouse"
)

// Stats describes one temperature column of a trajectory.
type Stats struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Mean    float64 `json:"avg"`
	Current float64 `json:"current"`
}

// Summary is the statistics panel of a simulation run.
type Summary struct {
	Count    int   `json:"count"`
	DayCount int   `json:"day_count"`
	Internal Stats `json:"internal"`
	External Stats `json:"external"`
}

// Summarize computes min/max/mean and the latest value of both temperature
// columns plus the number of distinct calendar days covered.
// An empty trajectory yields the zero Summary.
func Summarize(records []greenhouse.Record) Summary {
	if len(records) == 0 {
		return Summary{}
	}

	internal := make([]float64, len(records))
	external := make([]float64, len(records))
	days := make(map[string]struct{})
	latest := 0
	for i, r := range records {
		internal[i] = r.InternalTemperature
		external[i] = r.ExternalTemperature
		days[r.Timestamp.Format("2006-01-02")] = struct{}{}
		if r.Timestamp.After(records[latest].Timestamp) {
			latest = i
		}
	}

	return Summary{
		Count:    len(records),
		DayCount: len(days),
		Internal: columnStats(internal, latest),
		External: columnStats(external, latest),
	}
}

func columnStats(xs []float64, latest int) Stats {
	return Stats{
		Min:     floats.Min(xs),
		Max:     floats.Max(xs),
		Mean:    stat.Mean(xs, nil),
		Current: xs[latest],
	}
}
