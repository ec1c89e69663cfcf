package greenhouse

import (
	"math"
	"time"
)

// DaylightWindow is the [Start, End) range of local hours during which the
// enclosure receives solar gain.
type DaylightWindow struct {
	Start float64
	End   float64
}

var DefaultDaylight = DaylightWindow{Start: 6, End: 18}

// Daylight gives the daylight window that applies to a timestamp.
type Daylight interface {
	Window(t time.Time) DaylightWindow
}

// Window makes a fixed window usable as a Daylight policy.
func (w DaylightWindow) Window(time.Time) DaylightWindow {
	return w
}

func (w DaylightWindow) Validate() error {
	if !(w.Start >= 0) || !(w.End <= 24) || !(w.Start < w.End) {
		return ErrInvalidDaylightWindow
	}
	return nil
}

func (w DaylightWindow) Contains(hour float64) bool {
	return hour >= w.Start && hour < w.End
}

// SolarGain is a half-sine over the window, zero outside it.
func (w DaylightWindow) SolarGain(peak, hour float64) float64 {
	if !w.Contains(hour) {
		return 0
	}
	return peak * math.Sin(math.Pi*(hour-w.Start)/(w.End-w.Start))
}

// SolarGain returns the solar heat input (W) at hour using the default
// [6,18) window: peak * sin(π(hour-6)/12).
func SolarGain(peak, hour float64) float64 {
	return DefaultDaylight.SolarGain(peak, hour)
}

// PeakSolarGain is irradiance (W/m²) * collection area (m²) * transmission.
func PeakSolarGain(irradiance, area, transmissionEfficiency float64) float64 {
	return irradiance * area * transmissionEfficiency
}

// HourOfDay returns the fractional local hour of t.
func HourOfDay(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600
}
