package render

import (
	"image/color"
	"log/slog"

	"github.com/Garsondee/Titanomachy/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// reportTicks is how much history the clipboard debug report covers.
const reportTicks = 600

// App adapts a game.Game to ebiten.Game.
type App struct {
	game   *game.Game
	scene  *Scene
	input  *Input
	feed   *EventFeed
	logger *slog.Logger

	width    int
	height   int
	showFeed bool
	copied   int // frames left to show the copy notice
}

// NewApp wires an already constructed game to its scene and input. The game
// must have been built WithRenderer(scene) and WithInput(input).
func NewApp(g *game.Game, scene *Scene, input *Input, width, height int, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		game:     g,
		scene:    scene,
		input:    input,
		feed:     NewEventFeed(),
		logger:   logger,
		width:    width,
		height:   height,
		showFeed: true,
	}
}

// Update implements ebiten.Game.
func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		a.showFeed = !a.showFeed
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		a.toggleMouseLook()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		a.copyReport()
	}
	if a.copied > 0 {
		a.copied--
	}

	if err := a.game.Update(); err != nil {
		return err
	}
	a.feed.Sync(a.game.SimLog())
	return nil
}

func (a *App) toggleMouseLook() {
	a.input.MouseLook = !a.input.MouseLook
	if a.input.MouseLook {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	} else {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
	}
}

func (a *App) copyReport() {
	if err := copyText(a.game.DebugReport(reportTicks)); err != nil {
		a.logger.Warn("debug report not copied", "err", err)
		return
	}
	a.logger.Info("debug report copied", "session", a.game.SessionID(), "tick", a.game.Tick())
	a.copied = 90
}

// Draw implements ebiten.Game.
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 4, G: 6, B: 14, A: 255})
	a.scene.Draw(screen)
	f := a.scene.Frame()
	DrawHUD(screen, f.HUD, f.Camera)
	if a.copied > 0 {
		drawText(screen, "report copied", float64(a.width)/2-45, float64(a.height)-24, color.White)
	}
	if a.showFeed {
		a.feed.Draw(screen, a.width-feedPanelWidth, a.height)
	}
}

// Layout implements ebiten.Game.
func (a *App) Layout(_, _ int) (int, int) {
	return a.width, a.height
}
