package term

import (
	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Gridcaster/internal/game"
)

// holdTicks is how long a key press counts as held. Terminals only report
// presses and auto-repeat, never releases.
const holdTicks = 6

type control int

const (
	ctlForward control = iota
	ctlBack
	ctlStrafeLeft
	ctlStrafeRight
	ctlTurnLeft
	ctlTurnRight
	ctlFire
	numControls
)

// InputState turns key presses into per-tick game input.
type InputState struct {
	held [numControls]int
}

// Press records a key event. It reports true when the user asked to quit.
func (s *InputState) Press(ev *tcell.EventKey) (quit bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		s.hold(ctlForward)
	case tcell.KeyDown:
		s.hold(ctlBack)
	case tcell.KeyLeft:
		s.hold(ctlTurnLeft)
	case tcell.KeyRight:
		s.hold(ctlTurnRight)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'w':
			s.hold(ctlForward)
		case 's':
			s.hold(ctlBack)
		case 'a':
			s.hold(ctlStrafeLeft)
		case 'd':
			s.hold(ctlStrafeRight)
		case ',':
			s.hold(ctlTurnLeft)
		case '.':
			s.hold(ctlTurnRight)
		case ' ':
			s.held[ctlFire] = 1
		}
	}
	return false
}

func (s *InputState) hold(c control) {
	s.held[c] = holdTicks
	// Opposite directions cancel rather than fight.
	switch c {
	case ctlForward:
		s.held[ctlBack] = 0
	case ctlBack:
		s.held[ctlForward] = 0
	case ctlTurnLeft:
		s.held[ctlTurnRight] = 0
	case ctlTurnRight:
		s.held[ctlTurnLeft] = 0
	case ctlStrafeLeft:
		s.held[ctlStrafeRight] = 0
	case ctlStrafeRight:
		s.held[ctlStrafeLeft] = 0
	}
}

// Next returns the input for one tick and decays held keys.
func (s *InputState) Next() game.Input {
	in := game.Input{
		Forward:     s.held[ctlForward] > 0,
		Back:        s.held[ctlBack] > 0,
		StrafeLeft:  s.held[ctlStrafeLeft] > 0,
		StrafeRight: s.held[ctlStrafeRight] > 0,
		TurnLeft:    s.held[ctlTurnLeft] > 0,
		TurnRight:   s.held[ctlTurnRight] > 0,
		Fire:        s.held[ctlFire] > 0,
	}
	for i := range s.held {
		if s.held[i] > 0 {
			s.held[i]--
		}
	}
	return in
}
