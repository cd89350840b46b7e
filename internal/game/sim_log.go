package game

import (
	"fmt"
	"strings"
)

// Event categories written by the simulation.
const (
	CatDamage    = "damage"
	CatEnemy     = "enemy"
	CatMarker    = "marker"
	CatMissile   = "missile"
	CatBeam      = "beam"
	CatSpawn     = "spawn"
	CatLevel     = "level"
	CatBoost     = "boost"
	CatPickup    = "pickup"
	CatObjective = "objective"
	CatPool      = "pool"
)

// SimLogEntry is one gameplay event. Entity is a short label ("P", "E12",
// "O3", "--"); Group is "player", "enemy", the objective kind or "--".
type SimLogEntry struct {
	Tick     int
	Entity   string
	Group    string
	Category string
	Key      string
	Value    string
	NumVal   float64
}

func (e SimLogEntry) String() string {
	line := fmt.Sprintf("T%05d %-4s %s.%s", e.Tick, e.Entity, e.Category, e.Key)
	if e.Value != "" {
		line += " " + e.Value
	}
	return line
}

// SimLog is the append-only record of a session's gameplay events. Tests,
// the headless report and the on-screen feed all read it.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates an empty log. verbose keeps high-frequency entries such
// as capped missiles and beams.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

func (sl *SimLog) Add(tick int, entity, group, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{tick, entity, group, category, key, value, numVal})
}

// AddVerbose is Add for entries only a verbose log keeps.
func (sl *SimLog) AddVerbose(tick int, entity, group, category, key, value string, numVal float64) {
	if sl.verbose {
		sl.Add(tick, entity, group, category, key, value, numVal)
	}
}

func (sl *SimLog) Entries() []SimLogEntry { return sl.entries }

func (sl *SimLog) Len() int { return len(sl.entries) }

// Since returns everything after the first n entries.
func (sl *SimLog) Since(n int) []SimLogEntry {
	n = max(n, 0)
	if n >= len(sl.entries) {
		return nil
	}
	return sl.entries[n:]
}

func (sl *SimLog) Reset() { sl.entries = sl.entries[:0] }

// Query picks entries out of a log. Empty strings and a zero Until match
// anything.
type Query struct {
	Category string
	Key      string
	Entity   string
	Contains string // substring of Value
	From     int
	Until    int // inclusive
}

func (q Query) matches(e SimLogEntry) bool {
	switch {
	case q.Category != "" && q.Category != e.Category,
		q.Key != "" && q.Key != e.Key,
		q.Entity != "" && q.Entity != e.Entity,
		e.Tick < q.From,
		q.Until > 0 && e.Tick > q.Until:
		return false
	}
	return q.Contains == "" || strings.Contains(e.Value, q.Contains)
}

// Select returns the matching entries in log order.
func (sl *SimLog) Select(q Query) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if q.matches(e) {
			out = append(out, e)
		}
	}
	return out
}

func (sl *SimLog) Count(q Query) int {
	n := 0
	for _, e := range sl.entries {
		if q.matches(e) {
			n++
		}
	}
	return n
}

// First returns the earliest match.
func (sl *SimLog) First(q Query) (SimLogEntry, bool) {
	for _, e := range sl.entries {
		if q.matches(e) {
			return e, true
		}
	}
	return SimLogEntry{}, false
}

// Tally is a per-run count of the events reports care about.
type Tally struct {
	Kills          int
	MarkerHits     int
	Relocations    int
	MissilesFired  int
	MissilesDown   int
	BeamsSpawned   int
	Pickups        int
	Boosts         int
	GatedHits      int
	LevelsPassed   int
	EnemySpawns    map[string]int // verbose logs only, by spawn reason
	DamageBySource map[string]int // hp lost per damage source
}

// Tally walks the log once and counts gameplay events.
func (sl *SimLog) Tally() Tally {
	t := Tally{EnemySpawns: map[string]int{}, DamageBySource: map[string]int{}}
	for _, e := range sl.entries {
		switch e.Category + "." + e.Key {
		case "enemy.killed":
			t.Kills++
		case "marker.hit":
			t.MarkerHits++
		case "marker.relocate":
			t.Relocations++
		case "missile.fire":
			t.MissilesFired++
		case "missile.shot_down":
			t.MissilesDown++
		case "beam.spawn":
			t.BeamsSpawned++
		case "pickup.heal":
			t.Pickups++
		case "boost.start":
			t.Boosts++
		case "damage.gated":
			t.GatedHits++
		case "level.passed":
			t.LevelsPassed++
		}
		switch {
		case e.Category == CatSpawn && e.Group == "enemy" && e.Key != "top_up":
			t.EnemySpawns[e.Key]++
		case e.Category == CatDamage && e.Entity == "P":
			if n := damageAmount(e.Value); n > 0 {
				t.DamageBySource[e.Key] += n
			}
		}
	}
	return t
}

// damageAmount reads the "-N hp=M" value written for player damage.
func damageAmount(v string) int {
	var n, hp int
	if _, err := fmt.Sscanf(v, "-%d hp=%d", &n, &hp); err != nil {
		return 0
	}
	return n
}
