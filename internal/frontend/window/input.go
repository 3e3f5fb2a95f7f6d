package window

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Gridcaster/internal/game"
)

// keyPressed reports whether a key is held. ebiten.IsKeyPressed in the
// game, a map in tests.
type keyPressed func(ebiten.Key) bool

func anyPressed(pressed keyPressed, keys ...ebiten.Key) bool {
	for _, k := range keys {
		if pressed(k) {
			return true
		}
	}
	return false
}

// readInput maps held keys, the fire button and horizontal mouse motion to
// one tick of input.
func readInput(pressed keyPressed, mouseFire bool, mouseDX float64) game.Input {
	return game.Input{
		Forward:     anyPressed(pressed, ebiten.KeyW, ebiten.KeyArrowUp),
		Back:        anyPressed(pressed, ebiten.KeyS, ebiten.KeyArrowDown),
		StrafeLeft:  pressed(ebiten.KeyA),
		StrafeRight: pressed(ebiten.KeyD),
		TurnLeft:    pressed(ebiten.KeyArrowLeft),
		TurnRight:   pressed(ebiten.KeyArrowRight),
		Fire:        mouseFire || anyPressed(pressed, ebiten.KeySpace, ebiten.KeyControlLeft),
		MouseDX:     mouseDX,
	}
}

// edgeKeys tracks key state between frames for toggles that fire once per
// press.
type edgeKeys struct {
	prev map[ebiten.Key]bool
	cur  map[ebiten.Key]bool
}

func newEdgeKeys() *edgeKeys {
	return &edgeKeys{prev: map[ebiten.Key]bool{}, cur: map[ebiten.Key]bool{}}
}

// justPressed records k's state this frame and reports a rising edge.
func (e *edgeKeys) justPressed(pressed keyPressed, k ebiten.Key) bool {
	e.cur[k] = pressed(k)
	return e.cur[k] && !e.prev[k]
}

// endFrame rolls the current frame's state into the previous one.
func (e *edgeKeys) endFrame() {
	e.prev, e.cur = e.cur, e.prev
	clear(e.cur)
}
