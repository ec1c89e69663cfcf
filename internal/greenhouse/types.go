package greenhouse

import "fmt"

// Mode is an integer enum selecting the heat balance used for a step.
type Mode int

const (
	ModeUnknown Mode = iota
	ModeDay
	ModeNight
)

func (m Mode) Valid() bool {
	return m == ModeDay || m == ModeNight
}

func (m Mode) String() string {
	switch m {
	case ModeDay:
		return "day"
	case ModeNight:
		return "night"
	default:
		return "unknown"
	}
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "day":
		return ModeDay, nil
	case "night":
		return ModeNight, nil
	default:
		return ModeUnknown, fmt.Errorf("invalid mode: %q", s)
	}
}
