package game

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// flightTraceCap bounds the per-tick trace kept for debug reports (~10s).
const flightTraceCap = 600

// FlightSample is one tick of the player's flight, kept for debug reports.
type FlightSample struct {
	Tick           int
	Pos            mgl64.Vec3
	HP             int
	Boosting       bool
	Rolling        bool
	MissileWarning bool
	NearestMissile float64 // +Inf when none
	DangerDist     float64 // distance to objective surface, or -1
	MarkerOccluded bool
	Enemies        int
}

// CompactString formats the sample on one line.
func (s FlightSample) CompactString() string {
	nm := "-"
	if !math.IsInf(s.NearestMissile, 1) {
		nm = fmt.Sprintf("%.0f", s.NearestMissile)
	}
	return fmt.Sprintf("T=%d pos=(%.0f,%.0f,%.0f) hp=%d boost=%t roll=%t warn=%t missile=%s danger=%.0f occl=%t enemies=%d",
		s.Tick, s.Pos.X(), s.Pos.Y(), s.Pos.Z(), s.HP, s.Boosting, s.Rolling, s.MissileWarning,
		nm, s.DangerDist, s.MarkerOccluded, s.Enemies)
}

func (g *Game) recordFlight() {
	p := g.player
	s := FlightSample{
		Tick:           g.tick,
		Pos:            p.Pos,
		HP:             p.HP,
		Boosting:       p.Boost.Active,
		Rolling:        math.Abs(p.RollRemaining) > rollEpsilon,
		MissileWarning: g.missileIncoming(),
		NearestMissile: math.Inf(1),
		DangerDist:     -1,
		Enemies:        len(g.enemies),
	}
	if _, d := g.nearestMissile(); !math.IsInf(d, 1) {
		s.NearestMissile = d
	}
	if d, ok := g.dangerDistance(); ok {
		s.DangerDist = d
	}
	if o := g.objective; o != nil && o.behavior.placeMarker != nil {
		s.MarkerOccluded = o.Marker.Occluded
	}
	if len(g.flightTrace) >= flightTraceCap {
		copy(g.flightTrace, g.flightTrace[1:])
		g.flightTrace = g.flightTrace[:len(g.flightTrace)-1]
	}
	g.flightTrace = append(g.flightTrace, s)
}

func (g *Game) flightSamples(fromTick, toTick int) []FlightSample {
	var out []FlightSample
	for _, s := range g.flightTrace {
		if s.Tick >= fromTick && s.Tick <= toTick {
			out = append(out, s)
		}
	}
	return out
}

// DebugReport describes the last lastTicks ticks of flight: a summary, the
// notable events and the run of stages the ship went through.
func (g *Game) DebugReport(lastTicks int) string {
	if lastTicks <= 0 {
		lastTicks = 120
	}

	toTick := g.tick
	fromTick := toTick - lastTicks + 1
	if fromTick < 0 {
		fromTick = 0
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- Titanomachy debug report ---\n")
	fmt.Fprintf(&b, "session=%s seed=%d tick_range=[%d..%d] ticks=%d\n", g.sessionID, g.seed, fromTick, toTick, toTick-fromTick+1)
	fmt.Fprintf(&b, "state=%s level=%d objective=%s kills=%d\n\n", g.state, g.level, objectiveName(g.objective), g.kills)

	snaps := g.flightSamples(fromTick, toTick)
	if len(snaps) == 0 {
		b.WriteString("(no flight samples recorded yet)\n")
		return b.String()
	}

	summary := summarizeFlight(snaps)
	fmt.Fprintf(&b,
		"summary: boost=%d roll=%d warned=%d occluded=%d hpLost=%d maxWarnRun=%d\n",
		summary.boostTicks,
		summary.rollTicks,
		summary.warnTicks,
		summary.occludedTicks,
		summary.hpLost,
		summary.maxWarnRun,
	)
	fmt.Fprintf(&b,
		"         missile[min]=%.0f  danger[min/avg]=%.0f/%.0f  travelled=%.0f\n",
		summary.minMissileDist,
		summary.minDanger,
		summary.avgDanger,
		summary.travelled,
	)

	events := storyEvents(snaps, g.simLog.Select(Query{From: fromTick, Until: toTick}))
	if len(events) > 0 {
		b.WriteString("events:\n")
		for _, e := range events {
			b.WriteString("  - ")
			b.WriteString(e)
			b.WriteByte('\n')
		}
	}

	stages := buildStages(snaps)
	b.WriteString("stages:\n")
	for i, st := range stages {
		fmt.Fprintf(&b,
			"  %02d) T=%d..%d (%dt) boost:%t roll:%t warn:%t hp:%d->%d moved:%.0f\n",
			i+1,
			st.startTick,
			st.endTick,
			st.count,
			st.first.Boosting,
			st.first.Rolling,
			st.first.MissileWarning,
			st.first.HP,
			st.last.HP,
			st.movedDistance,
		)
		if st.count <= 3 {
			for _, ss := range snaps[st.startIdx : st.endIdx+1] {
				b.WriteString("      ")
				b.WriteString(ss.CompactString())
				b.WriteByte('\n')
			}
		} else {
			b.WriteString("      first: ")
			b.WriteString(st.first.CompactString())
			b.WriteByte('\n')
			b.WriteString("      last:  ")
			b.WriteString(st.last.CompactString())
			b.WriteByte('\n')
		}
	}
	return b.String()
}

type flightSummary struct {
	boostTicks     int
	rollTicks      int
	warnTicks      int
	occludedTicks  int
	maxWarnRun     int
	hpLost         int
	minMissileDist float64
	minDanger      float64
	avgDanger      float64
	travelled      float64
}

func summarizeFlight(snaps []FlightSample) flightSummary {
	if len(snaps) == 0 {
		return flightSummary{}
	}
	res := flightSummary{
		minMissileDist: math.Inf(1),
		minDanger:      math.MaxFloat64,
	}
	warnRun := 0
	dangerSum, dangerN := 0.0, 0
	for i, s := range snaps {
		if s.Boosting {
			res.boostTicks++
		}
		if s.Rolling {
			res.rollTicks++
		}
		if s.MarkerOccluded {
			res.occludedTicks++
		}
		if s.MissileWarning {
			res.warnTicks++
			warnRun++
			res.maxWarnRun = max(res.maxWarnRun, warnRun)
		} else {
			warnRun = 0
		}
		res.minMissileDist = math.Min(res.minMissileDist, s.NearestMissile)
		if s.DangerDist >= 0 {
			res.minDanger = math.Min(res.minDanger, s.DangerDist)
			dangerSum += s.DangerDist
			dangerN++
		}
		if i > 0 {
			res.travelled += s.Pos.Sub(snaps[i-1].Pos).Len()
			if s.HP < snaps[i-1].HP {
				res.hpLost += snaps[i-1].HP - s.HP
			}
		}
	}
	if dangerN > 0 {
		res.avgDanger = dangerSum / float64(dangerN)
	}
	if res.minDanger == math.MaxFloat64 {
		res.minDanger = 0
	}
	if math.IsInf(res.minMissileDist, 1) {
		res.minMissileDist = 0
	}
	return res
}

type reportStage struct {
	startIdx      int
	endIdx        int
	startTick     int
	endTick       int
	count         int
	first         FlightSample
	last          FlightSample
	movedDistance float64
}

func buildStages(snaps []FlightSample) []reportStage {
	if len(snaps) == 0 {
		return nil
	}
	keyOf := func(s FlightSample) string {
		return fmt.Sprintf("b=%t|r=%t|w=%t|o=%t", s.Boosting, s.Rolling, s.MissileWarning, s.MarkerOccluded)
	}

	stages := make([]reportStage, 0, 16)
	start := 0
	curKey := keyOf(snaps[0])
	for i := 1; i < len(snaps); i++ {
		k := keyOf(snaps[i])
		if k == curKey {
			continue
		}
		stages = append(stages, makeStage(snaps, start, i-1))
		start = i
		curKey = k
	}
	stages = append(stages, makeStage(snaps, start, len(snaps)-1))
	return stages
}

func makeStage(snaps []FlightSample, start, end int) reportStage {
	first := snaps[start]
	last := snaps[end]
	return reportStage{
		startIdx:      start,
		endIdx:        end,
		startTick:     first.Tick,
		endTick:       last.Tick,
		count:         end - start + 1,
		first:         first,
		last:          last,
		movedDistance: last.Pos.Sub(first.Pos).Len(),
	}
}

// storyEvents merges flight transitions with the logged gameplay events of
// the same window.
func storyEvents(snaps []FlightSample, logged []SimLogEntry) []string {
	var out []string
	for i := 1; i < len(snaps); i++ {
		prev, cur := snaps[i-1], snaps[i]
		if cur.HP < prev.HP {
			out = append(out, fmt.Sprintf("T=%d hp %d -> %d", cur.Tick, prev.HP, cur.HP))
		}
		if cur.MissileWarning != prev.MissileWarning {
			out = append(out, fmt.Sprintf("T=%d missile_warning %t -> %t", cur.Tick, prev.MissileWarning, cur.MissileWarning))
		}
		if cur.MarkerOccluded != prev.MarkerOccluded {
			out = append(out, fmt.Sprintf("T=%d marker_occluded %t -> %t", cur.Tick, prev.MarkerOccluded, cur.MarkerOccluded))
		}
	}
	for _, e := range logged {
		switch e.Category {
		case "level", "marker", "boost", "pickup":
			out = append(out, fmt.Sprintf("T=%d %s/%s %s", e.Tick, e.Category, e.Key, e.Value))
		}
	}
	if len(out) > 24 {
		out = append(out[:24], fmt.Sprintf("... (%d more events)", len(out)-24))
	}
	return out
}

func objectiveName(o *Objective) string {
	if o == nil {
		return "<none>"
	}
	return o.Kind.String()
}
