package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/Garsondee/Titanomachy/internal/game"
	"github.com/atotto/clipboard"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type options struct {
	runs     int
	ticks    int
	seedBase int64
	seedStep int64
	window   int
	parallel int
	level    int
	copy     bool
	verbose  bool
}

type runStats struct {
	runIndex int
	seed     int64
	session  string
	ticks    int

	firstKillTick    int
	firstMarkerTick  int
	firstPassTick    int
	firstMissileTick int

	tally game.Tally

	outcome       game.RunOutcomeReason
	grade         game.RunGrade
	windowSummary *game.WindowReport
}

var errUsage = errors.New("usage")

func main() {
	var opts options
	var logLevel string
	flag.IntVar(&opts.runs, "runs", 5, "number of headless autopilot runs")
	flag.IntVar(&opts.ticks, "ticks", 3600, "ticks per run")
	flag.Int64Var(&opts.seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&opts.seedStep, "seed-step", 1, "seed increment between runs")
	flag.IntVar(&opts.window, "window", 600, "reporter window in ticks")
	flag.IntVar(&opts.parallel, "parallel", 4, "runs simulated concurrently")
	flag.IntVar(&opts.level, "level", 1, "starting level (1-4)")
	flag.BoolVar(&opts.copy, "copy", false, "copy the report to the clipboard")
	flag.BoolVar(&opts.verbose, "verbose", false, "record high-frequency SimLog entries")
	flag.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flag.Parse()

	if err := setupLogging(logLevel); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
	if err := run(context.Background(), opts, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func setupLogging(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("-log-level: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
	return nil
}

func run(ctx context.Context, opts options, out io.Writer) error {
	if opts.runs <= 0 {
		return fmt.Errorf("%w: -runs must be > 0", errUsage)
	}
	if opts.ticks <= 0 {
		return fmt.Errorf("%w: -ticks must be > 0", errUsage)
	}
	if opts.parallel <= 0 {
		opts.parallel = 1
	}

	all, err := runAll(ctx, opts)
	if err != nil {
		return err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Headless Flight Report ===\n")
	fmt.Fprintf(&sb, "runs=%d ticks=%d seed_base=%d seed_step=%d level=%d\n\n",
		opts.runs, opts.ticks, opts.seedBase, opts.seedStep, opts.level)
	for _, rs := range all {
		writeRun(&sb, rs)
	}
	writeAggregate(&sb, all)

	if _, err := io.WriteString(out, sb.String()); err != nil {
		return err
	}
	if opts.copy {
		if err := clipboard.WriteAll(sb.String()); err != nil {
			slog.Warn("report not copied", "err", err)
		} else {
			slog.Info("report copied to clipboard", "bytes", sb.Len())
		}
	}
	return nil
}

// runAll simulates every seed, at most opts.parallel at a time. Results keep
// run order.
func runAll(ctx context.Context, opts options) ([]runStats, error) {
	all := make([]runStats, opts.runs)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.parallel)
	for i := 0; i < opts.runs; i++ {
		seed := opts.seedBase + int64(i)*opts.seedStep
		g.Go(func() error {
			rs, err := runOne(ctx, i+1, seed, opts)
			if err != nil {
				return fmt.Errorf("run %d (seed=%d): %w", i+1, seed, err)
			}
			all[i] = rs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return all, nil
}

func runOne(ctx context.Context, runIndex int, seed int64, opts options) (runStats, error) {
	session := uuid.NewString()
	rep := game.NewSimReporter(opts.window)
	ts, err := game.NewTestSim(
		game.SimSeed(seed),
		game.SimVerbose(opts.verbose),
		game.SimLevel(opts.level),
		game.SimGameOption(game.WithReporter(rep)),
		game.SimGameOption(game.WithSessionID(session)),
		game.SimAutopilot(&game.Autopilot{}),
	)
	if err != nil {
		return runStats{}, err
	}
	slog.Debug("run started", "run", runIndex, "seed", seed, "session_id", session)

	pt := game.NewPerfTracker(ts.Snapshot())
	ts.RunUntil(func(ts *game.TestSim) bool {
		s := ts.Snapshot()
		pt.Update(s)
		if ctx.Err() != nil {
			return true
		}
		return s.State == game.StateGameOver || s.State == game.StateVictory
	}, opts.ticks)
	if err := ctx.Err(); err != nil {
		return runStats{}, err
	}
	final := ts.Snapshot()
	pt.Finalize(final)

	sl := ts.SimLog
	rs := runStats{
		runIndex:         runIndex,
		seed:             seed,
		session:          session,
		ticks:            ts.CurrentTick(),
		firstKillTick:    firstTick(sl, game.CatEnemy, "killed"),
		firstMarkerTick:  firstTick(sl, game.CatMarker, "hit"),
		firstPassTick:    firstTick(sl, game.CatLevel, "passed"),
		firstMissileTick: firstTick(sl, game.CatMissile, "fire"),
		tally:            sl.Tally(),
		outcome:          game.DetermineOutcome(final, pt.LevelsCleared),
		grade:            game.GradeRun(pt),
		windowSummary:    rep.WindowSummary(),
	}
	slog.Info("run finished", "run", runIndex, "seed", seed, "session_id", session,
		"outcome", rs.outcome.Outcome.String(), "grade", rs.grade.Grade)
	return rs, nil
}

func firstTick(sl *game.SimLog, category, key string) int {
	if e, ok := sl.First(game.Query{Category: category, Key: key}); ok {
		return e.Tick
	}
	return -1
}

func writeRun(w io.Writer, rs runStats) {
	fmt.Fprintf(w, "--- Run %d (seed=%d session=%s ticks=%d) ---\n", rs.runIndex, rs.seed, rs.session, rs.ticks)
	o := rs.outcome
	fmt.Fprintf(w, "outcome: %s (%s) level=%d objective=%s cleared=%d kills=%d hp=%d objective_hp=%d/%d\n",
		o.Outcome, o.Description, o.Level, o.Objective, o.LevelsCleared, o.Kills, o.PlayerHP, o.ObjectiveHP, o.ObjectiveMax)
	fmt.Fprintf(w, "phase_markers: first_kill=%d first_marker_hit=%d first_level_pass=%d first_missile=%d\n",
		rs.firstKillTick, rs.firstMarkerTick, rs.firstPassTick, rs.firstMissileTick)
	t := rs.tally
	fmt.Fprintf(w, "event_totals: marker_hit=%d relocate=%d missile_fire=%d missile_down=%d beam_spawn=%d pickup=%d boost=%d gated=%d\n",
		t.MarkerHits, t.Relocations, t.MissilesFired, t.MissilesDown, t.BeamsSpawned, t.Pickups, t.Boosts, t.GatedHits)
	fmt.Fprintf(w, "damage_taken: [%s]\n", joinCounts(t.DamageBySource))
	if ws := rs.windowSummary; ws != nil {
		fmt.Fprintf(w, "window_samples=%d window_tick_range=%d..%d hp_avg=%.1f enemies_avg=%.1f missiles_avg=%.1f\n",
			ws.SampleCount, ws.FromTick, ws.ToTick, ws.AvgPlayerHP, ws.AvgEnemies, ws.AvgMissiles)
	}
	fmt.Fprint(w, game.FormatGrade(rs.grade))
	fmt.Fprintln(w)
}

func writeAggregate(w io.Writer, all []runStats) {
	outcomes := map[string]int{}
	var marker, relocate, missiles, down int
	var passTicks []int
	grades := make([]game.RunGrade, 0, len(all))
	for _, rs := range all {
		outcomes[rs.outcome.Outcome.String()]++
		marker += rs.tally.MarkerHits
		relocate += rs.tally.Relocations
		missiles += rs.tally.MissilesFired
		down += rs.tally.MissilesDown
		if rs.firstPassTick >= 0 {
			passTicks = append(passTicks, rs.firstPassTick)
		}
		grades = append(grades, rs.grade)
	}

	fmt.Fprintln(w, "=== Aggregate ===")
	fmt.Fprintf(w, "runs=%d outcomes=[%s]\n", len(all), joinCounts(outcomes))
	fmt.Fprintf(w, "avg_per_run: marker_hit=%.1f relocate=%.1f missile_fire=%.1f missile_down=%.1f\n",
		avg(marker, len(all)), avg(relocate, len(all)), avg(missiles, len(all)), avg(down, len(all)))
	fmt.Fprintf(w, "first_level_pass_avg_tick=%s\n", avgTickString(passTicks))
	fmt.Fprintln(w)
	fmt.Fprint(w, game.FormatGradesSummary(grades))
}

func avg(sum, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func joinCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return strings.Join(parts, ",")
}
