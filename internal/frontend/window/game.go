// Package window runs the world in a desktop window with ebiten.
package window

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/Garsondee/Gridcaster/internal/game"
)

// reportTicks is the window copied to the clipboard by F9.
const reportTicks = 300

var (
	ceilingColor = color.RGBA{R: 30, G: 30, B: 36, A: 255}
	floorColor   = color.RGBA{R: 48, G: 42, B: 36, A: 255}
	hudColor     = color.RGBA{R: 230, G: 230, B: 220, A: 255}
)

// CueSink reacts to new world events, typically with sound.
type CueSink interface {
	Sync(sl *game.SimLog) int
}

// Game adapts a World to ebiten.Game.
type Game struct {
	world  *game.World
	drawer *imageDrawer
	events *EventLog
	cues   CueSink
	log    logrus.FieldLogger
	keys   *edgeKeys

	width, height int
	hudFace       *text.GoTextFace

	lastCursorX int
	cursorKnown bool

	showMap bool
	showLog bool
	paused  bool
}

// Option customises New.
type Option func(*Game)

// WithCues plays world events through c.
func WithCues(c CueSink) Option {
	return func(g *Game) { g.cues = c }
}

// New creates the window game for w, drawing images from src.
func New(w *game.World, src ImageSource, log logrus.FieldLogger, opts ...Option) (*Game, error) {
	faceSrc, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF))
	if err != nil {
		return nil, fmt.Errorf("load hud font: %w", err)
	}
	cfg := w.Config()
	g := &Game{
		world:   w,
		drawer:  newImageDrawer(src),
		events:  NewEventLog(),
		log:     log,
		keys:    newEdgeKeys(),
		width:   cfg.Screen.Width,
		height:  cfg.Screen.Height,
		hudFace: &text.GoTextFace{Source: faceSrc, Size: 28},
		showLog: true,
	}
	for _, o := range opts {
		o(g)
	}
	return g, nil
}

func (g *Game) Update() error {
	pressed := keyPressed(ebiten.IsKeyPressed)
	if pressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	g.handleToggles(pressed)
	if g.paused {
		return nil
	}

	g.world.Tick(readInput(pressed, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft), g.mouseDelta()))
	g.events.Follow(g.world.SimLog())
	if g.cues != nil {
		g.cues.Sync(g.world.SimLog())
	}
	return nil
}

// mouseDelta is the horizontal cursor motion since the previous frame. The
// first frame after capture reports zero.
func (g *Game) mouseDelta() float64 {
	if ebiten.CursorMode() != ebiten.CursorModeCaptured {
		g.cursorKnown = false
		return 0
	}
	x, _ := ebiten.CursorPosition()
	if !g.cursorKnown {
		g.lastCursorX, g.cursorKnown = x, true
		return 0
	}
	dx := x - g.lastCursorX
	g.lastCursorX = x
	return float64(dx)
}

// handleToggles processes edge-triggered keys.
func (g *Game) handleToggles(pressed keyPressed) {
	defer g.keys.endFrame()

	// Tab: top-down map with rays and paths.
	if g.keys.justPressed(pressed, ebiten.KeyTab) {
		g.showMap = !g.showMap
	}
	// L: event log panel.
	if g.keys.justPressed(pressed, ebiten.KeyL) {
		g.showLog = !g.showLog
	}
	// P: pause.
	if g.keys.justPressed(pressed, ebiten.KeyP) {
		g.paused = !g.paused
	}
	// M: capture the mouse for turning.
	if g.keys.justPressed(pressed, ebiten.KeyM) {
		if ebiten.CursorMode() == ebiten.CursorModeCaptured {
			ebiten.SetCursorMode(ebiten.CursorModeVisible)
		} else {
			ebiten.SetCursorMode(ebiten.CursorModeCaptured)
		}
	}
	// F9: copy a debug report of the recent past.
	if g.keys.justPressed(pressed, ebiten.KeyF9) {
		g.copyReport()
	}
}

// copyReport puts the debug report on the clipboard, focused on the nearest
// visible agent when there is one.
func (g *Game) copyReport() {
	var focus *game.Agent
	best := 0.0
	pp := g.world.Player().Position()
	for _, a := range g.world.VisibleAgents() {
		if d := a.Position().Sub(pp).Len(); focus == nil || d < best {
			focus, best = a, d
		}
	}
	report := g.world.DebugReport(focus, reportTicks)
	if err := clipboard.WriteAll(report); err != nil {
		g.log.WithError(err).Warn("copy debug report")
		return
	}
	g.log.WithField("bytes", len(report)).Info("debug report copied to clipboard")
}

func (g *Game) Draw(screen *ebiten.Image) {
	w, h := float32(g.width), float32(g.height)
	vector.FillRect(screen, 0, 0, w, h/2, ceilingColor, false)
	vector.FillRect(screen, 0, h/2, w, h/2, floorColor, false)

	g.drawer.target = screen
	g.world.Render(g.drawer)

	// Crosshair.
	vector.StrokeLine(screen, w/2-8, h/2, w/2+8, h/2, 2, hudColor, false)
	vector.StrokeLine(screen, w/2, h/2-8, w/2, h/2+8, 2, hudColor, false)

	g.drawHUD(screen)
	if g.showMap {
		drawMinimap(screen, g.world, 16, 16)
	}
	if g.showLog {
		g.events.Draw(screen, g.width-logPanelWidth, g.height)
	}
	if g.paused {
		ebitenutil.DebugPrintAt(screen, "PAUSED (P)", g.width/2-30, 40)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	p := g.world.Player()
	status := fmt.Sprintf("HP %3d   ENEMIES %d/%d", p.Health(), g.world.AliveAgents(), len(g.world.Agents()))
	if p.Weapon().Reloading() {
		status += "   RELOADING"
	}
	if !p.Alive() {
		status = "YOU DIED   (Esc to quit)"
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(24, float64(g.height)-48)
	op.ColorScale.ScaleWithColor(hudColor)
	text.Draw(screen, status, g.hudFace, op)

	ebitenutil.DebugPrintAt(screen,
		fmt.Sprintf("TPS %.0f  Tab map  L log  P pause  M mouse  F9 report", ebiten.ActualTPS()),
		24, g.height-16)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
