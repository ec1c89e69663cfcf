package greenhouse

import (
	"math"
	"time"
)

// Sample is one hourly external temperature reading.
type Sample struct {
	Timestamp           time.Time
	ExternalTemperature float64 // °C
}

// Record is one point of a simulated trajectory.
type Record struct {
	Timestamp           time.Time
	InternalTemperature float64 // °C
	ExternalTemperature float64 // °C
	Mode                Mode
	HeatInput           float64 // W
}

// Params is the immutable configuration of a simulation run.
type Params struct {
	Envelope      Envelope
	HeatSource    HeatSource
	PeakSolarGain float64       // W
	Step          time.Duration // must match the spacing of the samples
	Bounds        Bounds
	Daylight      Daylight // nil means DefaultDaylight
}

func (p *Params) Validate() error {
	if err := p.Envelope.Validate(); err != nil {
		return err
	}
	if err := p.HeatSource.Validate(); err != nil {
		return err
	}
	if !(p.PeakSolarGain >= 0) || math.IsInf(p.PeakSolarGain, 0) {
		return ErrNegativeSolarGain
	}
	if p.Step <= 0 {
		return ErrInvalidStep
	}
	if err := p.Bounds.Validate(); err != nil {
		return err
	}
	if w, ok := p.Daylight.(DaylightWindow); ok {
		return w.Validate()
	}
	return nil
}

// Runner iterates the Stepper over an hourly series.
type Runner struct {
	params  Params
	stepper *Stepper
}

func NewRunner(params Params) (*Runner, error) {
	if params.Daylight == nil {
		params.Daylight = DefaultDaylight
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	st, err := NewStepper(params.Envelope, params.Step, params.Bounds)
	if err != nil {
		return nil, err
	}
	return &Runner{params: params, stepper: st}, nil
}

func (r *Runner) Params() Params {
	return r.params
}

// WithDaylight returns a runner sharing r's configuration with another
// daylight policy. A fixed window is validated as in NewRunner.
func (r *Runner) WithDaylight(d Daylight) (*Runner, error) {
	if d == nil {
		d = DefaultDaylight
	}
	if w, ok := d.(DaylightWindow); ok {
		if err := w.Validate(); err != nil {
			return nil, err
		}
	}
	p := r.params
	p.Daylight = d
	return &Runner{params: p, stepper: r.stepper}, nil
}

// Mode selects day or night for a timestamp along with the window in force.
func (r *Runner) Mode(t time.Time) (Mode, DaylightWindow) {
	w := r.params.Daylight.Window(t)
	if w.Contains(HourOfDay(t)) {
		return ModeDay, w
	}
	return ModeNight, w
}

// Run simulates the internal temperature for every sample, in order.
// When initial is nil the first external temperature is used.
// A failing step aborts the run and no partial trajectory is returned.
func (r *Runner) Run(samples []Sample, initial *float64) ([]Record, error) {
	if err := ValidateSamples(samples); err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(samples))
	if len(samples) == 0 {
		return out, nil
	}

	internal := samples[0].ExternalTemperature
	if initial != nil {
		if math.IsNaN(*initial) || math.IsInf(*initial, 0) {
			return nil, ErrInvalidInitialTemperature
		}
		internal = *initial
	}

	for i, s := range samples {
		mode, window := r.Mode(s.Timestamp)
		heat := r.params.HeatSource.HeatingPower
		if mode == ModeDay {
			heat = window.SolarGain(r.params.PeakSolarGain, HourOfDay(s.Timestamp))
		}

		next, err := r.stepper.Next(internal, s.ExternalTemperature, mode, heat)
		if err != nil {
			return nil, &SampleError{Index: i, Err: err}
		}
		internal = next

		out = append(out, Record{
			Timestamp:           s.Timestamp,
			InternalTemperature: internal,
			ExternalTemperature: s.ExternalTemperature,
			Mode:                mode,
			HeatInput:           heat,
		})
	}
	return out, nil
}

// ValidateSamples rejects missing fields and non-increasing timestamps.
// It never reorders or drops samples.
func ValidateSamples(samples []Sample) error {
	for i, s := range samples {
		if s.Timestamp.IsZero() {
			return &SampleError{Index: i, Err: ErrMissingTimestamp}
		}
		if math.IsNaN(s.ExternalTemperature) || math.IsInf(s.ExternalTemperature, 0) {
			return &SampleError{Index: i, Err: ErrNonFiniteTemperature}
		}
		if i == 0 {
			continue
		}
		prev := samples[i-1].Timestamp
		switch {
		case s.Timestamp.Equal(prev):
			return &SampleError{Index: i, Err: ErrDuplicateTimestamp}
		case s.Timestamp.Before(prev):
			return &SampleError{Index: i, Err: ErrNonChronological}
		}
	}
	return nil
}
