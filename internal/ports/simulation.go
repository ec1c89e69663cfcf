package ports

import (
	"context"

	"github.com/cc0ffee/greenhouse-sim/internal/greenhouse"
	"github.com/cc0ffee/greenhouse-sim/internal/simulation"
)

// SimulationService is the port used by controllers (HTTP/MQTT/Modbus).
type SimulationService interface {
	Simulate(ctx context.Context, req simulation.Request) (simulation.Result, error)
	SimulateBatch(ctx context.Context, reqs []simulation.Request) ([]simulation.Result, error)
	Latest() (simulation.Result, bool)
	Presets() []greenhouse.Material
}
