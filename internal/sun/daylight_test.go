package sun

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cc0ffee/greenhouse-sim/internal/greenhouse"
)

func TestWindow_ChicagoSummer(t *testing.T) {
	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	d := New(41.85, -87.65)
	w := d.Window(time.Date(2024, time.June, 21, 3, 0, 0, 0, loc))

	require.NoError(t, w.Validate())
	assert.Greater(t, w.Start, 3.0)
	assert.Less(t, w.Start, 8.0)
	assert.Greater(t, w.End, 16.0)
	assert.Less(t, w.End, 22.0)
	assert.Greater(t, w.End-w.Start, 12.0)
}

func TestWindow_WinterShorterThanSummer(t *testing.T) {
	d := New(41.85, -87.65)
	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	summer := d.Window(time.Date(2024, time.June, 21, 0, 0, 0, 0, loc))
	winter := d.Window(time.Date(2024, time.December, 21, 0, 0, 0, 0, loc))
	assert.Less(t, winter.End-winter.Start, summer.End-summer.Start)
}

func TestWindow_PolarNightFallsBack(t *testing.T) {
	d := New(89.9, 0)
	d.Fallback = greenhouse.DaylightWindow{Start: 9, End: 15}

	w := d.Window(time.Date(2024, time.December, 21, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, d.Fallback, w)
}

func TestWindow_InvalidFallbackUsesDefault(t *testing.T) {
	d := Daylight{Latitude: 89.9, Fallback: greenhouse.DaylightWindow{Start: 20, End: 2}}
	w := d.Window(time.Date(2024, time.December, 21, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, greenhouse.DefaultDaylight, w)
}
