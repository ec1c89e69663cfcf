// Package simulation runs greenhouse simulations against a weather source
// and keeps the most recent result for the controllers.
package simulation

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cc0ffee/greenhouse-sim/internal/greenhouse"
	"github.com/cc0ffee/greenhouse-sim/internal/report"
	"github.com/cc0ffee/greenhouse-sim/internal/sun"
	"github.com/cc0ffee/greenhouse-sim/internal/weather"
)

type Request struct {
	City               string   `json:"city"`
	StartDate          string   `json:"start_date"`
	EndDate            string   `json:"end_date"`
	InitialTemperature *float64 `json:"initial_temperature,omitempty"`
}

type Result struct {
	RunID       string              `json:"run_id"`
	SiteID      string              `json:"site_id"`
	City        string              `json:"city"`
	Location    weather.Location    `json:"location"`
	StartDate   string              `json:"start_date"`
	EndDate     string              `json:"end_date"`
	Records     []greenhouse.Record `json:"-"`
	Summary     report.Summary      `json:"summary"`
	CompletedAt time.Time           `json:"completed_at"`
}

type Service struct {
	cfg    Config
	source weather.Source
	runner *greenhouse.Runner

	mu     sync.RWMutex
	latest *Result
}

func New(cfg Config, source weather.Source) (*Service, error) {
	if source == nil {
		return nil, ErrNoSource
	}
	cfg.applyDefaults()
	if _, err := ParseDaylightMode(string(cfg.Daylight)); err != nil {
		return nil, err
	}
	runner, err := greenhouse.NewRunner(cfg.Params)
	if err != nil {
		return nil, err
	}
	return &Service{cfg: cfg, source: source, runner: runner}, nil
}

// Simulate fetches the weather of the request and runs it. A successful
// result becomes the latest one.
func (s *Service) Simulate(ctx context.Context, req Request) (Result, error) {
	start, end, err := s.parseRange(req)
	if err != nil {
		return Result{}, err
	}
	if t := req.InitialTemperature; t != nil && (math.IsNaN(*t) || math.IsInf(*t, 0)) {
		return Result{}, greenhouse.ErrInvalidInitialTemperature
	}

	series, err := s.source.Hourly(ctx, req.City, start, end)
	if err != nil {
		return Result{}, fmt.Errorf("fetch weather for %s: %w", req.City, err)
	}

	runner, err := s.runnerFor(series.Location)
	if err != nil {
		return Result{}, err
	}
	records, err := runner.Run(series.Samples, req.InitialTemperature)
	if err != nil {
		return Result{}, fmt.Errorf("simulate %s: %w", req.City, err)
	}

	res := Result{
		RunID:       uuid.NewString(),
		SiteID:      s.cfg.SiteID,
		City:        req.City,
		Location:    series.Location,
		StartDate:   start.Format(weather.DateLayout),
		EndDate:     end.Format(weather.DateLayout),
		Records:     records,
		Summary:     report.Summarize(records),
		CompletedAt: time.Now(),
	}
	s.store(res)
	log.Printf("simulation %s: %s %s..%s, %d records", res.RunID, res.City, res.StartDate, res.EndDate, len(records))
	return res, nil
}

// SimulateBatch runs every request with bounded concurrency. The first
// failure cancels the remaining runs.
func (s *Service) SimulateBatch(ctx context.Context, reqs []Request) ([]Result, error) {
	results := make([]Result, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for i, req := range reqs {
		g.Go(func() error {
			res, err := s.Simulate(gctx, req)
			if err != nil {
				return fmt.Errorf("request %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) Latest() (Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return Result{}, false
	}
	return *s.latest, true
}

func (s *Service) Presets() []greenhouse.Material {
	return s.cfg.Presets.Sorted()
}

func (s *Service) Params() greenhouse.Params {
	return s.runner.Params()
}

func (s *Service) SiteID() string {
	return s.cfg.SiteID
}

func (s *Service) store(res Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest != nil && res.CompletedAt.Before(s.latest.CompletedAt) {
		return
	}
	s.latest = &res
}

func (s *Service) runnerFor(loc weather.Location) (*greenhouse.Runner, error) {
	if s.cfg.Daylight != DaylightAstronomical || !loc.HasCoordinates() {
		return s.runner, nil
	}
	d := sun.New(loc.Latitude, loc.Longitude)
	if w, ok := s.cfg.Params.Daylight.(greenhouse.DaylightWindow); ok {
		d.Fallback = w
	}
	return s.runner.WithDaylight(d)
}

func (s *Service) parseRange(req Request) (time.Time, time.Time, error) {
	start, err := weather.ParseDate("start_date", req.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	end, err := weather.ParseDate("end_date", req.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if err := weather.ValidateRange(req.City, start, end); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if n := int(end.Sub(start).Hours()/24) + 1; n > s.cfg.MaxDays {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %d > %d", ErrRangeTooLong, n, s.cfg.MaxDays)
	}
	return start, end, nil
}
