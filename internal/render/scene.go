package render

import (
	"sort"
	"time"

	"github.com/Garsondee/Titanomachy/internal/game"
)

// Scene mirrors the core's visuals so Draw can render them. It implements
// game.Renderer; the core never reads anything back.
type Scene struct {
	clock   game.Clock
	visuals map[int]game.Visual
	effects []game.Effect
	frame   game.Frame
	frames  int
}

// NewScene creates an empty mirror. clock ages explosion effects.
func NewScene(clock game.Clock) *Scene {
	if clock == nil {
		clock = game.SystemClock{}
	}
	return &Scene{clock: clock, visuals: make(map[int]game.Visual)}
}

func (s *Scene) Spawn(v game.Visual) { s.visuals[v.ID] = v }

func (s *Scene) Move(v game.Visual) { s.visuals[v.ID] = v }

func (s *Scene) Despawn(id int) { delete(s.visuals, id) }

func (s *Scene) Effect(e game.Effect) { s.effects = append(s.effects, e) }

// Present stores the frame and drops expired effects.
func (s *Scene) Present(f game.Frame) {
	s.frame = f
	s.frames++
	s.pruneEffects(s.clock.Now())
}

func (s *Scene) pruneEffects(now time.Time) {
	kept := s.effects[:0]
	for _, e := range s.effects {
		if now.Sub(e.At) < e.Life {
			kept = append(kept, e)
		}
	}
	s.effects = kept
}

// Frame is the last presented frame.
func (s *Scene) Frame() game.Frame { return s.frame }

// Len is the number of mirrored visuals.
func (s *Scene) Len() int { return len(s.visuals) }

// Visuals returns the mirrored visuals in draw order: large shapes first,
// then by id.
func (s *Scene) Visuals() []game.Visual {
	out := make([]game.Visual, 0, len(s.visuals))
	for _, v := range s.visuals {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := drawLayer(out[i].Kind), drawLayer(out[j].Kind)
		if di != dj {
			return di < dj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Effects returns the live effects.
func (s *Scene) Effects() []game.Effect { return s.effects }

func drawLayer(k game.EntityKind) int {
	switch k {
	case game.KindEnclosure:
		return 0
	case game.KindObjective, game.KindAsteroid:
		return 1
	case game.KindBeam:
		return 2
	case game.KindPlayer:
		return 4
	}
	return 3
}
