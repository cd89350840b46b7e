package game

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestMarker_RelocatesAfterFifteenHits(t *testing.T) {
	ts := newQuietSim(t)
	g := ts.Game
	o := g.Objective()
	startHP := o.HP

	for i := 0; i < markerRelocateHits-1; i++ {
		g.hitMarker(o, o.MarkerWorld())
	}
	if o.Marker.Relocations != 0 || o.Marker.Hits != markerRelocateHits-1 {
		t.Fatalf("before the 15th hit: relocations=%d hits=%d", o.Marker.Relocations, o.Marker.Hits)
	}
	g.hitMarker(o, o.MarkerWorld())
	if o.Marker.Relocations != 1 {
		t.Fatalf("expected one relocation, got %d", o.Marker.Relocations)
	}
	if o.Marker.Hits != 0 {
		t.Fatalf("hit count should reset after relocation, got %d", o.Marker.Hits)
	}
	if o.HP != startHP-markerRelocateHits {
		t.Fatalf("each hit costs one hp: want %d, got %d", startHP-markerRelocateHits, o.HP)
	}
	if ts.SimLog.Count(Query{Category: CatMarker, Key: "relocate"}) != 1 {
		t.Fatal("relocation should be logged")
	}
}

func TestLevelPassed_ThenContinue(t *testing.T) {
	ts := newQuietSim(t)
	g := ts.Game
	o := g.Objective()
	o.HP = 1
	g.player.HP = 40
	baseLaser := g.player.LaserDamage

	g.hitMarker(o, o.MarkerWorld())
	if g.State() != StateLevelComplete {
		t.Fatalf("expected level_complete, got %s", g.State())
	}
	if g.Objective() != nil {
		t.Fatal("objective should be removed at once")
	}

	// The frozen level ignores ticks until Fire continues.
	ts.Game.SetInput(&ScriptedInput{Frames: []Controls{{}, {Fire: true}}})
	ts.RunTicks(1)
	if g.State() != StateLevelComplete || g.Level() != 1 {
		t.Fatalf("level should stay frozen without fire, state=%s level=%d", g.State(), g.Level())
	}
	ts.RunTicks(1)
	if g.State() != StatePlaying || g.Level() != 2 {
		t.Fatalf("fire should start level 2, state=%s level=%d", g.State(), g.Level())
	}
	if g.Objective() == nil || g.Objective().Kind != ObjectiveSphere {
		t.Fatal("level 2 should be the sphere")
	}
	if g.player.LaserDamage != baseLaser+g.cfg.LaserDamageStep {
		t.Fatalf("laser damage should rise by %d, got %d", g.cfg.LaserDamageStep, g.player.LaserDamage)
	}
	if g.player.HP != g.player.MaxHP {
		t.Fatalf("ship should be healed, hp=%d", g.player.HP)
	}
}

func TestLevelAdvance_KeepsPosition(t *testing.T) {
	ts := newQuietSim(t)
	g := ts.Game
	pos := mgl64.Vec3{10, 20, 30}
	ts.SetPlayerPose(pos, mgl64.QuatIdent())
	o := g.Objective()
	o.HP = 1
	g.hitMarker(o, o.MarkerWorld())
	g.Continue()
	if !vecNear(g.player.Pos, pos, 1e-9) {
		t.Fatalf("ship should keep its position across levels, got %v", g.player.Pos)
	}
	want := pos.Add(mgl64.Vec3{0, 0, -g.cfg.ObjectiveAhead})
	if !vecNear(g.Objective().Pos, want, 1e-6) {
		t.Fatalf("next objective should sit ahead of the ship, got %v want %v", g.Objective().Pos, want)
	}
}

func TestVictory_AfterLastLevel(t *testing.T) {
	ts := newQuietSim(t, SimLevel(4))
	g := ts.Game
	o := g.Objective()
	o.HP = 1
	g.hitMarker(o, o.MarkerWorld())
	if g.State() != StateVictory {
		t.Fatalf("destroying the last objective should win, got %s", g.State())
	}
	g.Continue()
	if g.State() != StatePlaying || g.Level() != 1 || g.Kills() != 0 {
		t.Fatalf("continue after victory restarts: state=%s level=%d kills=%d", g.State(), g.Level(), g.Kills())
	}
}

func TestStartLevel_ScalesLaser(t *testing.T) {
	ts := newQuietSim(t, SimLevel(3))
	g := ts.Game
	want := g.cfg.BaseLaserDamage + 2*g.cfg.LaserDamageStep
	if g.player.LaserDamage != want {
		t.Fatalf("level 3 start should carry laser %d, got %d", want, g.player.LaserDamage)
	}
	if g.Objective().Kind != ObjectivePyramid {
		t.Fatalf("level 3 is the pyramid, got %s", g.Objective().Kind)
	}
}

func TestRestart_AfterGameOver(t *testing.T) {
	ts := newQuietSim(t, SimLevel(2))
	g := ts.Game
	g.kills = 9
	g.ApplyPlayerDamage(1000, DamageOther)
	if g.State() != StateGameOver {
		t.Fatal("expected game over")
	}

	g.SetInput(&ScriptedInput{Frames: []Controls{{Restart: true}}})
	ts.RunTicks(1)
	if g.State() != StatePlaying || g.Level() != 1 {
		t.Fatalf("restart should return to level 1, state=%s level=%d", g.State(), g.Level())
	}
	if g.Kills() != 0 || g.player.HP != g.player.MaxHP {
		t.Fatalf("restart resets kills and hp, kills=%d hp=%d", g.Kills(), g.player.HP)
	}
	if g.player.LaserDamage != g.cfg.BaseLaserDamage {
		t.Fatalf("restart resets laser damage, got %d", g.player.LaserDamage)
	}
	if !vecNear(g.player.Pos, mgl64.Vec3{}, 1e-9) {
		t.Fatalf("restart puts the ship at the origin, got %v", g.player.Pos)
	}
}

func TestLevelTransition_ReleasesPooled(t *testing.T) {
	ts := newQuietSim(t)
	g := ts.Game
	g.fireLaser()
	ts.FireMissile()
	o := g.Objective()
	o.HP = 1
	g.hitMarker(o, o.MarkerWorld())
	g.Continue()

	if g.playerLaserPool.Outstanding() != 0 || g.missilePool.Outstanding() != 0 {
		t.Fatalf("transition should release pooled entities: lasers=%d missiles=%d",
			g.playerLaserPool.Outstanding(), g.missilePool.Outstanding())
	}
	if len(g.burstQueue) != 0 {
		t.Fatal("burst queue should be empty after a transition")
	}
}
