package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Garsondee/Titanomachy/internal/game"
)

func TestRun_ReportSections(t *testing.T) {
	var out bytes.Buffer
	opts := options{runs: 3, ticks: 300, seedBase: 42, seedStep: 1, window: 120, parallel: 2, level: 1}
	if err := run(context.Background(), opts, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	report := out.String()
	for _, want := range []string{
		"=== Headless Flight Report ===",
		"--- Run 1 (seed=42",
		"--- Run 2 (seed=43",
		"--- Run 3 (seed=44",
		"phase_markers:",
		"damage_taken:",
		"=== Aggregate ===",
		"runs=3",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q\n%s", want, report)
		}
	}
	// Runs are reported in seed order regardless of completion order.
	if strings.Index(report, "--- Run 1") > strings.Index(report, "--- Run 3") {
		t.Fatal("runs out of order")
	}
}

func TestRun_RejectsBadFlags(t *testing.T) {
	tests := []struct {
		name string
		opts options
	}{
		{"no runs", options{runs: 0, ticks: 10}},
		{"no ticks", options{runs: 1, ticks: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(context.Background(), tt.opts, &bytes.Buffer{})
			if !errors.Is(err, errUsage) {
				t.Fatalf("expected usage error, got %v", err)
			}
		})
	}
}

func TestRunAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := runAll(ctx, options{runs: 2, ticks: 100, parallel: 1, window: 60, level: 1})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFirstTick(t *testing.T) {
	sl := game.NewSimLog(false)
	sl.Add(5, "P", "player", "boost", "start", "", 0)
	sl.Add(9, "P", "player", "boost", "start", "", 0)
	if got := firstTick(sl, "boost", "start"); got != 5 {
		t.Fatalf("got %d, want 5", got)
	}
	if got := firstTick(sl, "level", "passed"); got != -1 {
		t.Fatalf("got %d, want -1", got)
	}
}

func TestJoinCounts(t *testing.T) {
	got := joinCounts(map[string]int{"stalled": 1, "inconclusive": 2})
	if got != "inconclusive=2,stalled=1" {
		t.Fatalf("got %q", got)
	}
	if joinCounts(nil) != "none" {
		t.Fatal("empty counts should read none")
	}
}

func TestAvgTickString(t *testing.T) {
	if got := avgTickString([]int{100, 201}); got != "150.5" {
		t.Fatalf("got %q", got)
	}
	if got := avgTickString(nil); got != "n/a" {
		t.Fatalf("got %q", got)
	}
}
