package render

import (
	"fmt"
	"image/color"

	"github.com/Garsondee/Titanomachy/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	feedPanelWidth = 300
	feedMaxEntries = 48
	feedLineHeight = 14
)

// feedCategories are the SimLog categories worth showing to a pilot.
var feedCategories = map[string]bool{
	game.CatLevel:   true,
	game.CatMarker:  true,
	game.CatEnemy:   true,
	game.CatMissile: true,
	game.CatBoost:   true,
	game.CatPickup:  true,
	game.CatDamage:  true,
}

// EventFeed is a ring buffer of recent gameplay events drawn as a side panel.
type EventFeed struct {
	entries []game.SimLogEntry
	head    int
	count   int
	cursor  int // SimLog entries already consumed
}

// NewEventFeed creates a feed with a fixed capacity.
func NewEventFeed() *EventFeed {
	return &EventFeed{entries: make([]game.SimLogEntry, feedMaxEntries)}
}

// Add appends an entry, dropping the oldest when full.
func (f *EventFeed) Add(e game.SimLogEntry) {
	f.entries[f.head] = e
	f.head = (f.head + 1) % feedMaxEntries
	if f.count < feedMaxEntries {
		f.count++
	}
}

// Sync pulls the entries logged since the last call. A log that shrank
// (session restart) is read from the start again.
func (f *EventFeed) Sync(sl *game.SimLog) {
	if sl.Len() < f.cursor {
		f.cursor = 0
	}
	for _, e := range sl.Since(f.cursor) {
		if feedCategories[e.Category] {
			f.Add(e)
		}
	}
	f.cursor = sl.Len()
}

// Recent returns entries oldest first.
func (f *EventFeed) Recent() []game.SimLogEntry {
	out := make([]game.SimLogEntry, f.count)
	for i := 0; i < f.count; i++ {
		idx := (f.head - f.count + i + feedMaxEntries) % feedMaxEntries
		out[i] = f.entries[idx]
	}
	return out
}

func feedLine(e game.SimLogEntry) string {
	if e.Value == "" {
		return fmt.Sprintf("%5d %-4s %s/%s", e.Tick, e.Entity, e.Category, e.Key)
	}
	return fmt.Sprintf("%5d %-4s %s/%s %s", e.Tick, e.Entity, e.Category, e.Key, e.Value)
}

func feedColor(e game.SimLogEntry) color.RGBA {
	switch e.Category {
	case "damage":
		if e.Entity == "P" {
			return color.RGBA{R: 220, G: 80, B: 70, A: 255}
		}
		return color.RGBA{R: 200, G: 160, B: 90, A: 255}
	case "level", "marker":
		return color.RGBA{R: 90, G: 210, B: 120, A: 255}
	case "missile":
		return color.RGBA{R: 230, G: 130, B: 40, A: 255}
	}
	return color.RGBA{R: 110, G: 140, B: 200, A: 255}
}

// Draw renders the panel at the right edge of the screen.
func (f *EventFeed) Draw(screen *ebiten.Image, panelX, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, float32(feedPanelWidth), float32(panelH), color.RGBA{R: 6, G: 8, B: 14, A: 220}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 40, G: 60, B: 90, A: 255}, false)
	vector.FillRect(screen, float32(panelX), 0, float32(feedPanelWidth), 16, color.RGBA{R: 16, G: 24, B: 40, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "EVENTS", panelX+8, 0)

	entries := f.Recent()
	maxVisible := (panelH - 24) / feedLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}
	y := 20
	for _, e := range entries {
		vector.FillRect(screen, float32(panelX+4), float32(y+5), 3, 5, feedColor(e), false)
		ebitenutil.DebugPrintAt(screen, feedLine(e), panelX+12, y)
		y += feedLineHeight
	}
}
