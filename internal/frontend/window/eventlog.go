package window

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Gridcaster/internal/game"
)

const (
	logPanelWidth = 300
	logMaxEntries = 40
	logLineHeight = 14
)

// EventLog is a ring buffer of recent world events rendered as a panel.
type EventLog struct {
	entries []game.SimLogEntry
	head    int
	count   int
	cursor  int // sim log entries already consumed
}

// NewEventLog creates an event log with a fixed capacity.
func NewEventLog() *EventLog {
	return &EventLog{entries: make([]game.SimLogEntry, logMaxEntries)}
}

// Add appends an entry, dropping the oldest when full.
func (el *EventLog) Add(e game.SimLogEntry) {
	el.entries[el.head] = e
	el.head = (el.head + 1) % logMaxEntries
	if el.count < logMaxEntries {
		el.count++
	}
}

// Follow pulls entries recorded since the last call. State changes are
// skipped; they would drown out combat.
func (el *EventLog) Follow(sl *game.SimLog) {
	for _, e := range sl.Since(el.cursor) {
		if e.Category == "state" && e.Key == "change" {
			continue
		}
		el.Add(e)
	}
	el.cursor = sl.Len()
}

// Recent returns entries oldest first.
func (el *EventLog) Recent() []game.SimLogEntry {
	result := make([]game.SimLogEntry, el.count)
	for i := 0; i < el.count; i++ {
		idx := (el.head - el.count + i + logMaxEntries) % logMaxEntries
		result[i] = el.entries[idx]
	}
	return result
}

func categoryColor(cat string) color.RGBA {
	switch cat {
	case "combat":
		return color.RGBA{R: 210, G: 70, B: 70, A: 255}
	case "player":
		return color.RGBA{R: 230, G: 190, B: 60, A: 255}
	case "weapon":
		return color.RGBA{R: 160, G: 160, B: 170, A: 255}
	default:
		return color.RGBA{R: 70, G: 110, B: 210, A: 255}
	}
}

// Draw renders the panel along the right edge of screen.
func (el *EventLog) Draw(screen *ebiten.Image, panelX, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, logPanelWidth, float32(panelH), color.RGBA{R: 10, G: 10, B: 12, A: 220}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 60, G: 60, B: 70, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "EVENTS", panelX+8, 2)

	entries := el.Recent()
	maxVisible := (panelH - 24) / logLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}
	y := 20
	for _, e := range entries {
		vector.FillRect(screen, float32(panelX+5), float32(y+4), 3, 6, categoryColor(e.Category), false)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%4d %s %s", e.Tick, e.Agent, e.Key), panelX+12, y)
		y += logLineHeight
	}
}
