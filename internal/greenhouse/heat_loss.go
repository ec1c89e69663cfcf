package greenhouse

// DayHeatLoss is the conductive loss through the envelope during the day.
// It is negative (a gain) when the outside is warmer.
func DayHeatLoss(env Envelope, internal, external float64) float64 {
	return env.UDay * env.Area * (internal - external)
}

// NightHeatLoss is floored at zero: the enclosure does not gain heat through
// the envelope at night when the outside is warmer.
func NightHeatLoss(env Envelope, internal, external float64) float64 {
	return env.UNight * env.Area * max(internal-external, 0)
}
