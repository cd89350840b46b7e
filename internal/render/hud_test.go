package render

import (
	"strings"
	"testing"
	"time"

	"github.com/Garsondee/Titanomachy/internal/game"
)

func TestHUDLines_Basic(t *testing.T) {
	h := game.HUDState{
		Level: 2, PlayerHP: 80, PlayerMaxHP: 100, LaserDamage: 3, Kills: 9,
		HasObjective: true, Objective: game.ObjectiveSphere, ObjectiveHP: 40, ObjectiveMaxHP: 100,
	}
	got := strings.Join(hudLines(h), "|")
	want := "LEVEL 2|HP 80/100|LASER 3|KILLS 9|SPHERE 40/100|BOOST ready"
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestHUDLines_Warnings(t *testing.T) {
	h := game.HUDState{MissileIncoming: true, DangerWarning: true, DangerDistance: 312.4}
	lines := hudLines(h)
	if lines[len(lines)-2] != "MISSILE INCOMING" || lines[len(lines)-1] != "DANGER 312" {
		t.Fatalf("unexpected warnings: %v", lines)
	}
	for _, l := range lines {
		if strings.HasPrefix(l, "CUBE") {
			t.Fatal("no objective line without an objective")
		}
	}
}

func TestBoostLine(t *testing.T) {
	tests := []struct {
		name string
		h    game.HUDState
		want string
	}{
		{"ready", game.HUDState{}, "BOOST ready"},
		{"active", game.HUDState{BoostActive: true, BoostRemaining: 1500 * time.Millisecond}, "BOOST 1.5s"},
		{"cooldown", game.HUDState{BoostCooldown: 2340 * time.Millisecond}, "BOOST cooldown 2.3s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := boostLine(tt.h); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestObjectiveLabel(t *testing.T) {
	if objectiveLabel(game.ObjectivePyramid) != "PYRAMID" || objectiveLabel(game.ObjectiveCubeInSphere) != "CORE" {
		t.Fatal("unexpected objective labels")
	}
}
