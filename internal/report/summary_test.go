package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cc0ffee/greenhouse-sim/internal/greenhouse"
)

var day0 = time.Date(2024, time.May, 1, 22, 0, 0, 0, time.UTC)

func testRecords() []greenhouse.Record {
	return []greenhouse.Record{
		{Timestamp: day0, InternalTemperature: 18, ExternalTemperature: 8, Mode: greenhouse.ModeNight},
		{Timestamp: day0.Add(time.Hour), InternalTemperature: 20, ExternalTemperature: 6, Mode: greenhouse.ModeNight},
		{Timestamp: day0.Add(2 * time.Hour), InternalTemperature: 22, ExternalTemperature: 4, Mode: greenhouse.ModeNight},
		{Timestamp: day0.Add(3 * time.Hour), InternalTemperature: 24, ExternalTemperature: 2, Mode: greenhouse.ModeNight},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(testRecords())

	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 2, s.DayCount)

	assert.Equal(t, 18.0, s.Internal.Min)
	assert.Equal(t, 24.0, s.Internal.Max)
	assert.InDelta(t, 21.0, s.Internal.Mean, 1e-9)
	assert.Equal(t, 24.0, s.Internal.Current)

	assert.Equal(t, 2.0, s.External.Min)
	assert.Equal(t, 8.0, s.External.Max)
	assert.InDelta(t, 5.0, s.External.Mean, 1e-9)
	assert.Equal(t, 2.0, s.External.Current)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestCelsiusToFahrenheit(t *testing.T) {
	tests := []struct {
		c, f float64
	}{
		{0, 32},
		{100, 212},
		{-40, -40},
		{20, 68},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.f, CelsiusToFahrenheit(tt.c), 1e-9)
	}
}

func TestToFahrenheit_DoesNotMutateInput(t *testing.T) {
	in := testRecords()
	out := ToFahrenheit(in)

	assert.Equal(t, 18.0, in[0].InternalTemperature)
	assert.InDelta(t, 64.4, out[0].InternalTemperature, 1e-9)
	assert.InDelta(t, 46.4, out[0].ExternalTemperature, 1e-9)
	assert.Equal(t, in[0].Timestamp, out[0].Timestamp)
}
