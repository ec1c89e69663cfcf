package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/cc0ffee/greenhouse-sim/internal/ports"
	"github.com/cc0ffee/greenhouse-sim/internal/report"
	"github.com/cc0ffee/greenhouse-sim/internal/simulation"
)

// lineReader is the part of *readline.Instance the prompt loop uses.
type lineReader interface {
	SetPrompt(prompt string)
	Readline() (string, error)
}

func runInteractive(ctx context.Context, svc ports.SimulationService, csvPath string) error {
	rl, err := readline.NewEx(&readline.Config{Prompt: "> "})
	if err != nil {
		return fmt.Errorf("readline init: %w", err)
	}
	defer func() { _ = rl.Close() }()

	return promptLoop(ctx, rl, svc, rl.Stdout(), csvPath)
}

// promptLoop asks for a city and a date range until EOF or Ctrl+C.
func promptLoop(ctx context.Context, rl lineReader, svc ports.SimulationService, out io.Writer, csvPath string) error {
	ask := func(prompt string) (string, error) {
		rl.SetPrompt(prompt)
		line, err := rl.Readline()
		return strings.TrimSpace(line), err
	}

	for ctx.Err() == nil {
		var req simulation.Request
		var err error
		if req.City, err = ask("Enter city: "); err != nil {
			return endOfInput(err)
		}
		if req.StartDate, err = ask("Enter start date (YYYY-MM-DD): "); err != nil {
			return endOfInput(err)
		}
		if req.EndDate, err = ask("Enter end date (YYYY-MM-DD): "); err != nil {
			return endOfInput(err)
		}

		res, err := svc.Simulate(ctx, req)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		printResult(out, res)

		if csvPath != "" {
			if err := writeCSV(csvPath, res); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			} else {
				fmt.Fprintf(out, "wrote %d records to %s\n", len(res.Records), csvPath)
			}
		}
	}
	return nil
}

func endOfInput(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
		return nil
	}
	return err
}

func printResult(out io.Writer, res simulation.Result) {
	fmt.Fprintf(out, "Simulated Internal Temperatures for %s:\n", res.City)
	for _, r := range res.Records {
		fmt.Fprintf(out, "%s  %-5s  internal %6.2f°C / %6.2f°F  external %6.2f°C / %6.2f°F\n",
			r.Timestamp.Format(report.TimestampLayout),
			r.Mode,
			r.InternalTemperature, report.CelsiusToFahrenheit(r.InternalTemperature),
			r.ExternalTemperature, report.CelsiusToFahrenheit(r.ExternalTemperature),
		)
	}
	s := res.Summary
	fmt.Fprintf(out, "%d hours over %d day(s): internal min %.2f°C max %.2f°C avg %.2f°C\n",
		s.Count, s.DayCount, s.Internal.Min, s.Internal.Max, s.Internal.Mean)
}

func writeCSV(path string, res simulation.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	if err := report.WriteCSV(f, res.Records); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
