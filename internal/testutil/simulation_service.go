package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/cc0ffee/greenhouse-sim/internal/greenhouse"
	"github.com/cc0ffee/greenhouse-sim/internal/report"
	"github.com/cc0ffee/greenhouse-sim/internal/simulation"
)

// FakeSimulationService is a reusable fake implementing ports.SimulationService.
// Put ONLY what multiple test packages need here.
type FakeSimulationService struct {
	mu sync.Mutex

	Result simulation.Result
	Err    error

	SimulateCalls []simulation.Request
	BatchCalls    [][]simulation.Request

	LatestResult *simulation.Result
	Materials    []greenhouse.Material
}

func NewFakeSimulationService() *FakeSimulationService {
	return &FakeSimulationService{
		Result:    SampleResult(),
		Materials: greenhouse.DefaultPresets().Sorted(),
	}
}

// SampleResult is a two-hour run around dawn.
func SampleResult() simulation.Result {
	t0 := time.Date(2024, time.May, 1, 5, 0, 0, 0, time.UTC)
	records := []greenhouse.Record{
		{Timestamp: t0, InternalTemperature: 20.5, ExternalTemperature: 10, Mode: greenhouse.ModeNight, HeatInput: 11200},
		{Timestamp: t0.Add(time.Hour), InternalTemperature: 21.25, ExternalTemperature: 12, Mode: greenhouse.ModeDay, HeatInput: 0},
	}
	return simulation.Result{
		RunID:       "run-1",
		SiteID:      "default",
		City:        "Chicago",
		StartDate:   "2024-05-01",
		EndDate:     "2024-05-01",
		Records:     records,
		Summary:     report.Summarize(records),
		CompletedAt: t0.Add(2 * time.Hour),
	}
}

func (f *FakeSimulationService) Simulate(_ context.Context, req simulation.Request) (simulation.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SimulateCalls = append(f.SimulateCalls, req)
	if f.Err != nil {
		return simulation.Result{}, f.Err
	}
	res := f.Result
	res.City = req.City
	f.LatestResult = &res
	return res, nil
}

func (f *FakeSimulationService) SimulateBatch(_ context.Context, reqs []simulation.Request) ([]simulation.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.BatchCalls = append(f.BatchCalls, reqs)
	if f.Err != nil {
		return nil, f.Err
	}
	out := make([]simulation.Result, len(reqs))
	for i, req := range reqs {
		out[i] = f.Result
		out[i].City = req.City
	}
	return out, nil
}

func (f *FakeSimulationService) Latest() (simulation.Result, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.LatestResult == nil {
		return simulation.Result{}, false
	}
	return *f.LatestResult, true
}

func (f *FakeSimulationService) SetLatest(res simulation.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LatestResult = &res
}

func (f *FakeSimulationService) Presets() []greenhouse.Material {
	return f.Materials
}

func (f *FakeSimulationService) Calls() []simulation.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]simulation.Request(nil), f.SimulateCalls...)
}
