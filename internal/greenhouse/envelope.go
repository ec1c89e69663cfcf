package greenhouse

import "math"

// Envelope describes the enclosure's heat exchange with the outside.
type Envelope struct {
	UDay        float64 // W/(m²·K)
	UNight      float64 // W/(m²·K)
	Area        float64 // m²
	ThermalMass float64 // J/K
}

func (e *Envelope) Validate() error {
	if !(e.ThermalMass > 0) || math.IsInf(e.ThermalMass, 0) {
		return ErrNonPositiveThermalMass
	}
	if !(e.Area >= 0) || math.IsInf(e.Area, 0) {
		return ErrNegativeArea
	}
	if !(e.UDay >= 0) || !(e.UNight >= 0) || math.IsInf(e.UDay, 0) || math.IsInf(e.UNight, 0) {
		return ErrNegativeUValue
	}
	return nil
}

// HeatSource is the constant heat input applied during night steps.
type HeatSource struct {
	HeatingPower float64 // W
}

func (h *HeatSource) Validate() error {
	if !(h.HeatingPower >= 0) || math.IsInf(h.HeatingPower, 0) {
		return ErrNegativeHeatingPower
	}
	return nil
}

// HeatingPower derives the rated heat input of a circulation + storage system.
func HeatingPower(circulation, storage, efficiency float64) float64 {
	return (circulation + storage) * efficiency
}
