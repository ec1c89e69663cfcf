package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chzyer/readline"

	"github.com/cc0ffee/greenhouse-sim/internal/testutil"
)

type scriptedReader struct {
	lines   []string
	end     error
	prompts []string
}

func (r *scriptedReader) SetPrompt(p string) { r.prompts = append(r.prompts, p) }

func (r *scriptedReader) Readline() (string, error) {
	if len(r.lines) == 0 {
		return "", r.end
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func TestPromptLoop_PrintsTrajectory(t *testing.T) {
	svc := testutil.NewFakeSimulationService()
	rl := &scriptedReader{lines: []string{" Chicago ", "2024-05-01", "2024-05-01"}, end: io.EOF}
	var out bytes.Buffer

	if err := promptLoop(context.Background(), rl, svc, &out, ""); err != nil {
		t.Fatal(err)
	}

	calls := svc.Calls()
	if len(calls) != 1 || calls[0].City != "Chicago" || calls[0].EndDate != "2024-05-01" {
		t.Fatalf("unexpected calls %+v", calls)
	}
	if len(rl.prompts) != 4 || rl.prompts[0] != "Enter city: " {
		t.Fatalf("unexpected prompts %q", rl.prompts)
	}
	text := out.String()
	if !strings.Contains(text, "Simulated Internal Temperatures for Chicago:") {
		t.Fatalf("missing header in %q", text)
	}
	if !strings.Contains(text, "2024-05-01 05:00:00  night") || !strings.Contains(text, "50.00°F") {
		t.Fatalf("missing record line in %q", text)
	}
}

func TestPromptLoop_ServiceErrorContinues(t *testing.T) {
	svc := testutil.NewFakeSimulationService()
	svc.Err = errors.New("boom")
	rl := &scriptedReader{lines: []string{"X", "a", "b", "Y", "c", "d"}, end: readline.ErrInterrupt}
	var out bytes.Buffer

	if err := promptLoop(context.Background(), rl, svc, &out, ""); err != nil {
		t.Fatal(err)
	}
	if len(svc.Calls()) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(svc.Calls()))
	}
	if strings.Count(out.String(), "error: boom") != 2 {
		t.Fatalf("expected two error lines, got %q", out.String())
	}
}

func TestPromptLoop_ReadError(t *testing.T) {
	rl := &scriptedReader{end: errors.New("tty gone")}
	err := promptLoop(context.Background(), rl, testutil.NewFakeSimulationService(), io.Discard, "")
	if err == nil || err.Error() != "tty gone" {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestPromptLoop_WritesCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.csv")
	rl := &scriptedReader{lines: []string{"Chicago", "2024-05-01", "2024-05-01"}, end: io.EOF}
	var out bytes.Buffer

	if err := promptLoop(context.Background(), rl, testutil.NewFakeSimulationService(), &out, path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "timestamp,mode,internal_temperature_c") {
		t.Fatalf("unexpected csv %q", data)
	}
	if !strings.Contains(out.String(), "wrote 2 records") {
		t.Fatalf("missing confirmation in %q", out.String())
	}
}
