package greenhouse

import (
	"math"
	"time"
)

// Bounds is the plausible range results are clamped to. It is a guard
// against runaway values from degenerate inputs, not a physical law.
type Bounds struct {
	Min float64
	Max float64
}

var DefaultBounds = Bounds{Min: -50, Max: 60}

func (b *Bounds) Validate() error {
	if math.IsNaN(b.Min) || math.IsNaN(b.Max) || math.IsInf(b.Min, 0) || math.IsInf(b.Max, 0) || b.Min >= b.Max {
		return ErrInvalidBounds
	}
	return nil
}

func (b Bounds) Clamp(v float64) float64 {
	return min(max(v, b.Min), b.Max)
}

// Stepper advances the internal temperature by one explicit Euler step.
// It only holds immutable configuration.
type Stepper struct {
	env    Envelope
	dt     time.Duration
	bounds Bounds
}

func NewStepper(env Envelope, dt time.Duration, bounds Bounds) (*Stepper, error) {
	if err := env.Validate(); err != nil {
		return nil, err
	}
	if dt <= 0 {
		return nil, ErrInvalidStep
	}
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	return &Stepper{env: env, dt: dt, bounds: bounds}, nil
}

func (s *Stepper) Envelope() Envelope  { return s.env }
func (s *Stepper) Step() time.Duration { return s.dt }
func (s *Stepper) Bounds() Bounds      { return s.bounds }

// Next returns the internal temperature after one step.
// heatInput is the solar gain in ModeDay and the heating power in ModeNight.
func (s *Stepper) Next(prev, external float64, mode Mode, heatInput float64) (float64, error) {
	var loss float64
	switch mode {
	case ModeDay:
		loss = DayHeatLoss(s.env, prev, external)
	case ModeNight:
		loss = NightHeatLoss(s.env, prev, external)
	default:
		return 0, ErrInvalidMode
	}

	next := prev + (heatInput-loss)*s.dt.Seconds()/s.env.ThermalMass
	if math.IsNaN(next) || math.IsInf(next, 0) {
		return 0, ErrNumericDegeneracy
	}
	return s.bounds.Clamp(next), nil
}
