package render

import (
	"github.com/Garsondee/Titanomachy/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
)

// Input reads the keyboard and mouse into game.Controls. Edge-triggered
// controls fire on the frame the key goes down.
type Input struct {
	// Sensitivity converts mouse pixels to radians.
	Sensitivity float64
	// MouseLook turns cursor motion into yaw and pitch.
	MouseLook bool

	keyDown   func(ebiten.Key) bool
	mouseDown func(ebiten.MouseButton) bool
	cursor    func() (int, int)

	prevKeys  map[ebiten.Key]bool
	prevMouse bool
	lastX     int
	lastY     int
	hasCursor bool
}

// NewInput reads the real devices.
func NewInput(sensitivity float64) *Input {
	return &Input{
		Sensitivity: sensitivity,
		keyDown:     ebiten.IsKeyPressed,
		mouseDown:   ebiten.IsMouseButtonPressed,
		cursor:      ebiten.CursorPosition,
		prevKeys:    make(map[ebiten.Key]bool),
	}
}

var edgeKeys = []ebiten.Key{
	ebiten.KeySpace, ebiten.KeyShiftLeft, ebiten.KeyShiftRight,
	ebiten.KeyQ, ebiten.KeyE, ebiten.KeyP, ebiten.KeyEscape, ebiten.KeyR,
}

// Poll implements game.Input.
func (in *Input) Poll() game.Controls {
	cur := make(map[ebiten.Key]bool, len(edgeKeys))
	for _, k := range edgeKeys {
		cur[k] = in.keyDown(k)
	}
	pressed := func(keys ...ebiten.Key) bool {
		for _, k := range keys {
			if cur[k] && !in.prevKeys[k] {
				return true
			}
		}
		return false
	}

	var c game.Controls
	if in.keyDown(ebiten.KeyA) || in.keyDown(ebiten.KeyArrowLeft) {
		c.YawAxis--
	}
	if in.keyDown(ebiten.KeyD) || in.keyDown(ebiten.KeyArrowRight) {
		c.YawAxis++
	}
	if in.keyDown(ebiten.KeyW) || in.keyDown(ebiten.KeyArrowUp) {
		c.PitchAxis++
	}
	if in.keyDown(ebiten.KeyS) || in.keyDown(ebiten.KeyArrowDown) {
		c.PitchAxis--
	}

	mouse := in.mouseDown(ebiten.MouseButtonLeft)
	c.Fire = pressed(ebiten.KeySpace) || (mouse && !in.prevMouse)
	c.Boost = pressed(ebiten.KeyShiftLeft, ebiten.KeyShiftRight)
	switch {
	case pressed(ebiten.KeyQ):
		c.Roll = -1
	case pressed(ebiten.KeyE):
		c.Roll = 1
	}
	c.Pause = pressed(ebiten.KeyP, ebiten.KeyEscape)
	c.Restart = pressed(ebiten.KeyR)

	x, y := in.cursor()
	if in.MouseLook && in.hasCursor {
		c.YawDelta = float64(x-in.lastX) * in.Sensitivity
		c.PitchDelta = -float64(y-in.lastY) * in.Sensitivity
	}
	in.lastX, in.lastY, in.hasCursor = x, y, true

	in.prevKeys = cur
	in.prevMouse = mouse
	return c
}
