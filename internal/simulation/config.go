package simulation

import (
	"strings"

	"github.com/cc0ffee/greenhouse-sim/internal/greenhouse"
)

type DaylightMode string

const (
	DaylightFixed        DaylightMode = "fixed"
	DaylightAstronomical DaylightMode = "astronomical"
)

func ParseDaylightMode(s string) (DaylightMode, error) {
	switch DaylightMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", DaylightFixed:
		return DaylightFixed, nil
	case DaylightAstronomical:
		return DaylightAstronomical, nil
	default:
		return "", ErrInvalidDaylight
	}
}

const (
	DefaultMaxDays     = 31
	DefaultConcurrency = 4
)

type Config struct {
	SiteID      string
	Params      greenhouse.Params
	Daylight    DaylightMode
	MaxDays     int
	Concurrency int
	Presets     greenhouse.Presets
}

func (c *Config) applyDefaults() {
	if c.SiteID == "" {
		c.SiteID = "default"
	}
	if c.Daylight == "" {
		c.Daylight = DaylightFixed
	}
	if c.MaxDays <= 0 {
		c.MaxDays = DefaultMaxDays
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.Presets == nil {
		c.Presets = greenhouse.DefaultPresets()
	}
}
