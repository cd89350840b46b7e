package render

import (
	"testing"
	"time"

	"github.com/Garsondee/Titanomachy/internal/game"
	"github.com/go-gl/mathgl/mgl64"
)

var sceneEpoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestScene_MirrorsLifecycle(t *testing.T) {
	s := NewScene(game.NewManualClock(sceneEpoch))
	s.Spawn(game.Visual{ID: 1, Kind: game.KindEnemy})
	s.Spawn(game.Visual{ID: 2, Kind: game.KindPlayerLaser})
	s.Move(game.Visual{ID: 1, Kind: game.KindEnemy, Pos: mgl64.Vec3{5, 0, 0}})
	if s.Len() != 2 {
		t.Fatalf("expected 2 visuals, got %d", s.Len())
	}
	s.Despawn(2)
	s.Despawn(99)
	vs := s.Visuals()
	if len(vs) != 1 || vs[0].Pos.X() != 5 {
		t.Fatalf("unexpected mirror: %+v", vs)
	}
}

func TestScene_DrawOrder(t *testing.T) {
	s := NewScene(nil)
	s.Spawn(game.Visual{ID: 5, Kind: game.KindPlayer})
	s.Spawn(game.Visual{ID: 4, Kind: game.KindEnemy})
	s.Spawn(game.Visual{ID: 3, Kind: game.KindBeam})
	s.Spawn(game.Visual{ID: 2, Kind: game.KindObjective})
	s.Spawn(game.Visual{ID: 9, Kind: game.KindEnclosure})
	s.Spawn(game.Visual{ID: 1, Kind: game.KindEnemy})

	want := []int{9, 2, 3, 1, 4, 5}
	vs := s.Visuals()
	for i, v := range vs {
		if v.ID != want[i] {
			t.Fatalf("position %d: got id %d, want %d (order %v)", i, v.ID, want[i], vs)
		}
	}
}

func TestScene_EffectsExpireOnPresent(t *testing.T) {
	clock := game.NewManualClock(sceneEpoch)
	s := NewScene(clock)
	s.Effect(game.Effect{At: sceneEpoch, Life: 500 * time.Millisecond})
	s.Effect(game.Effect{At: sceneEpoch, Life: 2 * time.Second})

	clock.Advance(time.Second)
	s.Present(game.Frame{Tick: 60})
	if n := len(s.Effects()); n != 1 {
		t.Fatalf("expected 1 live effect, got %d", n)
	}
	if s.Frame().Tick != 60 {
		t.Fatalf("frame not stored: %+v", s.Frame())
	}

	clock.Advance(2 * time.Second)
	s.Present(game.Frame{Tick: 61})
	if n := len(s.Effects()); n != 0 {
		t.Fatalf("expected all effects expired, got %d", n)
	}
}

// A real game drives the scene through the Renderer interface.
func TestScene_FedByGame(t *testing.T) {
	clock := game.NewManualClock(sceneEpoch)
	s := NewScene(clock)
	g, err := game.New(game.WithSeed(3), game.WithClock(clock), game.WithRenderer(s))
	if err != nil {
		t.Fatalf("game.New: %v", err)
	}
	for i := 0; i < 5; i++ {
		clock.Advance(16 * time.Millisecond)
		if err := g.Update(); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}
	var players, objectives int
	for _, v := range s.Visuals() {
		switch v.Kind {
		case game.KindPlayer:
			players++
		case game.KindObjective:
			objectives++
		}
	}
	if players != 1 || objectives != 1 {
		t.Fatalf("expected one player and one objective, got %d and %d", players, objectives)
	}
	if s.Frame().Tick != g.Tick() {
		t.Fatalf("frame tick %d, game tick %d", s.Frame().Tick, g.Tick())
	}
}

func TestObjectiveEdges(t *testing.T) {
	tests := []struct {
		shape game.ObjectiveKind
		want  int
	}{
		{game.ObjectiveCube, 12},
		{game.ObjectiveCubeInSphere, 12},
		{game.ObjectivePyramid, 8},
	}
	for _, tt := range tests {
		t.Run(tt.shape.String(), func(t *testing.T) {
			v := game.Visual{Shape: tt.shape, Orient: mgl64.QuatIdent(), Length: 400}
			if got := len(objectiveEdges(v)); got != tt.want {
				t.Errorf("got %d edges, want %d", got, tt.want)
			}
		})
	}
}

func TestObjectiveEdges_CubeSize(t *testing.T) {
	v := game.Visual{Shape: game.ObjectiveCube, Orient: mgl64.QuatIdent(), Pos: mgl64.Vec3{0, 0, -1000}, Length: 400}
	for _, e := range objectiveEdges(v) {
		if l := e[1].Sub(e[0]).Len(); l < 399.999 || l > 400.001 {
			t.Fatalf("cube edge length %.3f, want 400", l)
		}
		if d := e[0].Sub(v.Pos).Len(); d > 346.5 {
			t.Fatalf("corner %.1f from centre", d)
		}
	}
}
