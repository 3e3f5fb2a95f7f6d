package game

import (
	"testing"
	"time"
)

func TestAnimation_OneShotHoldsLastFrame(t *testing.T) {
	a := NewAnimation(3, 100*time.Millisecond, false)
	a.Advance(250 * time.Millisecond)
	if a.Frame() != 2 || a.Finished() {
		t.Fatalf("after 250ms: frame %d finished %t, want 2 false", a.Frame(), a.Finished())
	}
	a.Advance(100 * time.Millisecond)
	if a.Frame() != 2 || !a.Finished() {
		t.Fatalf("after 350ms: frame %d finished %t, want 2 true", a.Frame(), a.Finished())
	}
	a.Advance(time.Second)
	if a.Frame() != 2 {
		t.Fatalf("finished one-shot moved to frame %d", a.Frame())
	}
	a.Reset()
	if a.Frame() != 0 || a.Finished() {
		t.Fatal("Reset should rewind")
	}
}

func TestAnimation_LoopWraps(t *testing.T) {
	a := NewAnimation(4, 10*time.Millisecond, true)
	a.Advance(45 * time.Millisecond)
	if a.Frame() != 0 {
		t.Fatalf("frame = %d, want 0 after one full cycle", a.Frame())
	}
	if !a.Finished() {
		t.Fatal("loop should report a completed cycle")
	}
	a.Advance(10 * time.Millisecond)
	if a.Frame() != 1 {
		t.Fatalf("frame = %d, want 1", a.Frame())
	}
}

func TestAnimation_ZeroFrameTime(t *testing.T) {
	a := NewAnimation(5, 0, false)
	a.Advance(time.Millisecond)
	if !a.Finished() || a.Frame() != 4 {
		t.Fatalf("zero frame time should jump to the end, got frame %d", a.Frame())
	}
}
