package render

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/Garsondee/Titanomachy/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

const (
	hudMargin     = 12
	hudLineHeight = 16
	hudBarWidth   = 160
	hudBarHeight  = 8
)

var hudFace = text.NewGoXFace(basicfont.Face7x13)

// hudLines is the text block in the top-left corner.
func hudLines(h game.HUDState) []string {
	lines := []string{
		fmt.Sprintf("LEVEL %d", h.Level),
		fmt.Sprintf("HP %d/%d", h.PlayerHP, h.PlayerMaxHP),
		fmt.Sprintf("LASER %d", h.LaserDamage),
		fmt.Sprintf("KILLS %d", h.Kills),
	}
	if h.HasObjective {
		lines = append(lines, fmt.Sprintf("%s %d/%d", objectiveLabel(h.Objective), h.ObjectiveHP, h.ObjectiveMaxHP))
	}
	lines = append(lines, boostLine(h))
	if h.MissileIncoming {
		lines = append(lines, "MISSILE INCOMING")
	}
	if h.DangerWarning {
		lines = append(lines, fmt.Sprintf("DANGER %.0f", h.DangerDistance))
	}
	return lines
}

func objectiveLabel(k game.ObjectiveKind) string {
	switch k {
	case game.ObjectiveCube:
		return "CUBE"
	case game.ObjectiveSphere:
		return "SPHERE"
	case game.ObjectivePyramid:
		return "PYRAMID"
	case game.ObjectiveCubeInSphere:
		return "CORE"
	}
	return "TARGET"
}

func boostLine(h game.HUDState) string {
	switch {
	case h.BoostActive:
		return fmt.Sprintf("BOOST %.1fs", h.BoostRemaining.Seconds())
	case h.BoostCooldown > 0:
		return fmt.Sprintf("BOOST cooldown %.1fs", h.BoostCooldown.Round(100*time.Millisecond).Seconds())
	}
	return "BOOST ready"
}

func hudLineColor(line string) color.Color {
	switch {
	case line == "MISSILE INCOMING":
		return colornames.Red
	case len(line) >= 6 && line[:6] == "DANGER":
		return colornames.Orange
	}
	return colornames.White
}

func drawText(screen *ebiten.Image, s string, x, y float64, col color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(col)
	text.Draw(screen, s, hudFace, op)
}

// DrawHUD paints the status text, health bars, crosshair and marker reticle.
func DrawHUD(screen *ebiten.Image, h game.HUDState, cam game.Camera) {
	b := screen.Bounds()
	w, ht := float32(b.Dx()), float32(b.Dy())

	y := float64(hudMargin)
	for _, line := range hudLines(h) {
		drawText(screen, line, hudMargin, y, hudLineColor(line))
		y += hudLineHeight
	}
	drawBar(screen, hudMargin, float32(y)+4, h.PlayerHP, h.PlayerMaxHP, colornames.Lime)
	if h.HasObjective {
		drawBar(screen, hudMargin, float32(y)+16, h.ObjectiveHP, h.ObjectiveMaxHP, colornames.Gold)
	}

	cx, cy := w/2, ht/2
	vector.StrokeLine(screen, cx-8, cy, cx+8, cy, 1, colornames.White, false)
	vector.StrokeLine(screen, cx, cy-8, cx, cy+8, 1, colornames.White, false)

	if h.HasObjective && h.State == game.StatePlaying {
		drawMarker(screen, newViewport(cam, b.Dx(), b.Dy()), h)
	}

	if h.Message != "" {
		adv := text.Advance(h.Message, hudFace)
		drawText(screen, h.Message, float64(cx)-adv/2, float64(ht)*0.35, colornames.Yellow)
	}
}

func drawBar(screen *ebiten.Image, x, y float32, v, maxV int, col color.Color) {
	vector.FillRect(screen, x, y, hudBarWidth, hudBarHeight, color.RGBA{40, 40, 40, 200}, false)
	if maxV <= 0 {
		return
	}
	frac := math.Max(0, math.Min(1, float64(v)/float64(maxV)))
	vector.FillRect(screen, x, y, float32(frac)*hudBarWidth, hudBarHeight, col, false)
}

func drawMarker(screen *ebiten.Image, vp viewport, h game.HUDState) {
	x, y, ok := vp.toScreen(h.MarkerWorld)
	if !ok {
		return
	}
	r := math.Max(4, vp.pixelRadius(h.MarkerWorld, h.MarkerRadius))
	col := color.Color(colornames.Cyan)
	if h.MarkerOccluded {
		col = colornames.Gray
	}
	vector.StrokeCircle(screen, float32(x), float32(y), float32(r), 2, col, true)
}
