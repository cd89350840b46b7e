package game_test

import (
	"testing"
	"time"

	"github.com/Garsondee/Titanomachy/internal/game"
	"github.com/Garsondee/Titanomachy/internal/game/mocks"
	"go.uber.org/mock/gomock"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// tickingClock returns a mock clock reading *now, which the test advances.
func tickingClock(ctrl *gomock.Controller, now *time.Time) *mocks.MockClock {
	clk := mocks.NewMockClock(ctrl)
	clk.EXPECT().Now().DoAndReturn(func() time.Time { return *now }).AnyTimes()
	return clk
}

func looseRenderer(ctrl *gomock.Controller) *mocks.MockRenderer {
	r := mocks.NewMockRenderer(ctrl)
	r.EXPECT().Spawn(gomock.Any()).AnyTimes()
	r.EXPECT().Move(gomock.Any()).AnyTimes()
	r.EXPECT().Despawn(gomock.Any()).AnyTimes()
	r.EXPECT().Effect(gomock.Any()).AnyTimes()
	return r
}

func looseAudio(ctrl *gomock.Controller) *mocks.MockAudio {
	a := mocks.NewMockAudio(ctrl)
	a.EXPECT().Play(gomock.Any()).AnyTimes()
	return a
}

func TestUpdate_PresentsEveryFrame(t *testing.T) {
	ctrl := gomock.NewController(t)
	now := epoch
	r := looseRenderer(ctrl)
	var frames []game.Frame
	r.EXPECT().Present(gomock.Any()).Do(func(f game.Frame) { frames = append(frames, f) }).Times(3)
	in := mocks.NewMockInput(ctrl)
	in.EXPECT().Poll().Return(game.Controls{}).Times(3)

	g, err := game.New(
		game.WithSeed(3),
		game.WithClock(tickingClock(ctrl, &now)),
		game.WithRenderer(r),
		game.WithAudio(looseAudio(ctrl)),
		game.WithInput(in),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 3; i++ {
		now = now.Add(16 * time.Millisecond)
		if err := g.Update(); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}
	if len(frames) != 3 || frames[2].Tick != 3 {
		t.Fatalf("expected three frames ending on tick 3, got %v", len(frames))
	}
	if frames[0].HUD.State != game.StatePlaying || frames[0].HUD.Level != 1 {
		t.Fatalf("unexpected HUD %+v", frames[0].HUD)
	}
}

func TestUpdate_PauseFreezesSimulation(t *testing.T) {
	ctrl := gomock.NewController(t)
	now := epoch
	r := looseRenderer(ctrl)
	var last game.Frame
	r.EXPECT().Present(gomock.Any()).Do(func(f game.Frame) { last = f }).AnyTimes()
	in := mocks.NewMockInput(ctrl)
	gomock.InOrder(
		in.EXPECT().Poll().Return(game.Controls{Pause: true}),
		in.EXPECT().Poll().Return(game.Controls{}).Times(2),
		in.EXPECT().Poll().Return(game.Controls{Pause: true}),
	)

	g, err := game.New(
		game.WithSeed(3),
		game.WithClock(tickingClock(ctrl, &now)),
		game.WithRenderer(r),
		game.WithAudio(looseAudio(ctrl)),
		game.WithInput(in),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 3; i++ {
		now = now.Add(16 * time.Millisecond)
		_ = g.Update()
	}
	if !g.Paused() || g.Tick() != 0 {
		t.Fatalf("paused game should not tick: paused=%v tick=%d", g.Paused(), g.Tick())
	}
	if last.HUD.Message != "PAUSED" {
		t.Fatalf("HUD should say PAUSED, got %q", last.HUD.Message)
	}
	now = now.Add(16 * time.Millisecond)
	_ = g.Update()
	if g.Paused() || g.Tick() != 1 {
		t.Fatalf("second toggle should resume: paused=%v tick=%d", g.Paused(), g.Tick())
	}
}

func TestFire_PlaysShootCue(t *testing.T) {
	ctrl := gomock.NewController(t)
	now := epoch
	a := mocks.NewMockAudio(ctrl)
	a.EXPECT().Play(game.SoundShoot).MinTimes(1)
	a.EXPECT().Play(gomock.Any()).AnyTimes()
	r := looseRenderer(ctrl)
	r.EXPECT().Present(gomock.Any()).AnyTimes()
	in := mocks.NewMockInput(ctrl)
	in.EXPECT().Poll().Return(game.Controls{Fire: true})

	g, err := game.New(
		game.WithSeed(3),
		game.WithClock(tickingClock(ctrl, &now)),
		game.WithRenderer(r),
		game.WithAudio(a),
		game.WithInput(in),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	now = now.Add(16 * time.Millisecond)
	_ = g.Update()
	if got := g.Snapshot().ShotsFired; got != 1 {
		t.Fatalf("expected one shot fired, got %d", got)
	}
}

func TestGameOver_CueOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	now := epoch
	a := mocks.NewMockAudio(ctrl)
	a.EXPECT().Play(game.SoundGameOver).Times(1)
	a.EXPECT().Play(game.SoundPlayerHit).Times(1)
	r := looseRenderer(ctrl)

	g, err := game.New(
		game.WithSeed(3),
		game.WithClock(tickingClock(ctrl, &now)),
		game.WithRenderer(r),
		game.WithAudio(a),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !g.ApplyPlayerDamage(1000, game.DamageDrain) {
		t.Fatal("lethal damage should land")
	}
	now = now.Add(time.Second)
	if g.ApplyPlayerDamage(1000, game.DamageDrain) {
		t.Fatal("damage after game over is ignored")
	}
	if g.State() != game.StateGameOver || g.Player().HP != 0 {
		t.Fatalf("expected game over at 0 hp, got %s hp=%d", g.State(), g.Player().HP)
	}
}

func TestRestart_AfterGameOver(t *testing.T) {
	ctrl := gomock.NewController(t)
	now := epoch
	r := looseRenderer(ctrl)
	r.EXPECT().Present(gomock.Any()).AnyTimes()
	in := mocks.NewMockInput(ctrl)
	gomock.InOrder(
		in.EXPECT().Poll().Return(game.Controls{Fire: true}),
		in.EXPECT().Poll().Return(game.Controls{Restart: true}),
	)

	g, err := game.New(
		game.WithSeed(3),
		game.WithClock(tickingClock(ctrl, &now)),
		game.WithRenderer(r),
		game.WithAudio(looseAudio(ctrl)),
		game.WithInput(in),
		game.WithSessionID("run-1"),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	g.ApplyPlayerDamage(1000, game.DamageDrain)

	now = now.Add(16 * time.Millisecond)
	_ = g.Update()
	if g.State() != game.StateGameOver {
		t.Fatal("fire does nothing after game over")
	}
	now = now.Add(16 * time.Millisecond)
	_ = g.Update()
	s := g.Snapshot()
	if s.State != game.StatePlaying || s.Level != 1 || s.PlayerHP != s.PlayerMaxHP {
		t.Fatalf("restart should begin a fresh session: %+v", s)
	}
	if s.SessionID != "run-1" {
		t.Fatalf("session id should survive a restart, got %q", s.SessionID)
	}
}
