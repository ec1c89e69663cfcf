// Package sun derives the daylight window of a site from its coordinates.
package sun

import (
	"time"

	"github.com/sixdouglas/suncalc"

	"github.com/cc0ffee/greenhouse-sim/internal/greenhouse"
)

// Daylight is an astronomical greenhouse.Daylight. Days without a usable
// sunrise/sunset pair (polar day or night) use Fallback.
type Daylight struct {
	Latitude  float64
	Longitude float64
	Fallback  greenhouse.DaylightWindow
}

func New(lat, lon float64) Daylight {
	return Daylight{Latitude: lat, Longitude: lon, Fallback: greenhouse.DefaultDaylight}
}

// Window returns sunrise and sunset of t's local date as hours of day.
func (d Daylight) Window(t time.Time) greenhouse.DaylightWindow {
	loc := t.Location()
	noon := time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, loc)
	times := suncalc.GetTimes(noon, d.Latitude, d.Longitude)

	sunrise := times["sunrise"].Value
	sunset := times["sunset"].Value
	if !usable(noon, sunrise) || !usable(noon, sunset) {
		return d.fallback()
	}

	w := greenhouse.DaylightWindow{
		Start: greenhouse.HourOfDay(sunrise.In(loc)),
		End:   greenhouse.HourOfDay(sunset.In(loc)),
	}
	if w.Validate() != nil {
		return d.fallback()
	}
	return w
}

func (d Daylight) fallback() greenhouse.DaylightWindow {
	if d.Fallback.Validate() != nil {
		return greenhouse.DefaultDaylight
	}
	return d.Fallback
}

// usable rejects zero or NaN-derived times and ones far from the date.
func usable(noon, ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	diff := ts.Sub(noon)
	return diff > -12*time.Hour && diff < 12*time.Hour
}
