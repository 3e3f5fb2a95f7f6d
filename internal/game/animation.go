package game

import "time"

// Animation steps a frame index through a fixed number of frames.
// Non-looping animations stop on the last frame and report Finished.
type Animation struct {
	Frames    int
	FrameTime time.Duration
	Loop      bool

	frame    int
	elapsed  time.Duration
	finished bool
}

// NewAnimation creates an animation at frame 0. frames < 1 is treated as 1.
func NewAnimation(frames int, frameTime time.Duration, loop bool) Animation {
	if frames < 1 {
		frames = 1
	}
	return Animation{Frames: frames, FrameTime: frameTime, Loop: loop}
}

// Advance accumulates dt and moves forward one frame per FrameTime.
func (a *Animation) Advance(dt time.Duration) {
	if a.FrameTime <= 0 {
		if !a.Loop {
			a.frame = a.Frames - 1
			a.finished = true
		}
		return
	}
	if a.finished && !a.Loop {
		return
	}
	a.elapsed += dt
	for a.elapsed >= a.FrameTime {
		a.elapsed -= a.FrameTime
		if a.frame+1 < a.Frames {
			a.frame++
			continue
		}
		a.finished = true
		if !a.Loop {
			a.elapsed = 0
			return
		}
		a.frame = 0
	}
}

// Reset rewinds to frame 0.
func (a *Animation) Reset() {
	a.frame = 0
	a.elapsed = 0
	a.finished = false
}

// Frame returns the current frame index.
func (a *Animation) Frame() int { return a.frame }

// Finished reports whether a one-shot animation reached its last frame and
// held it for one frame time, or a looping one completed a cycle.
func (a *Animation) Finished() bool { return a.finished }
