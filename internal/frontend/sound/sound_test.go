package sound

import (
	"math"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/Garsondee/Gridcaster/internal/game"
)

func drain(t *testing.T, key string) (int, float64) {
	t.Helper()
	s, ok := Streamer(key)
	if !ok {
		t.Fatalf("no streamer for %q", key)
	}
	buf := make([][2]float64, 512)
	total, peak := 0, 0.0
	for {
		n, ok := s.Stream(buf)
		for _, smp := range buf[:n] {
			peak = math.Max(peak, math.Abs(smp[0]))
		}
		total += n
		if !ok {
			break
		}
	}
	return total, peak
}

func TestStreamerLengthAndVolume(t *testing.T) {
	for key, cue := range Cues {
		n, peak := drain(t, key)
		if want := SampleRate.N(cue.Length); n != want {
			t.Fatalf("%s: streamed %d samples, want %d", key, n, want)
		}
		if peak > cue.Volume+1e-9 {
			t.Fatalf("%s: peak %.3f above volume %.3f", key, peak, cue.Volume)
		}
		if peak == 0 {
			t.Fatalf("%s: silent", key)
		}
	}
}

func TestStreamerUnknownKey(t *testing.T) {
	if _, ok := Streamer("state/change"); ok {
		t.Fatal("state changes should not make a sound")
	}
}

func TestSyncConsumesOnce(t *testing.T) {
	log, _ := test.NewNullLogger()
	m := NewManager(log)
	sl := game.NewSimLog(false)
	sl.Add(1, "player", "player", "weapon", "fire", "", 0)
	sl.Add(1, "soldier#1", "soldier", "state", "change", "idle → pursuing", 0)
	sl.Add(2, "soldier#1", "soldier", "combat", "pain", "pursuing", 90)

	if got := m.Sync(sl); got != 2 {
		t.Fatalf("first sync: %d cues, want 2", got)
	}
	if got := m.Sync(sl); got != 0 {
		t.Fatalf("second sync replayed %d cues", got)
	}
	sl.Add(3, "soldier#1", "soldier", "combat", "death", "", 0)
	if got := m.Sync(sl); got != 1 {
		t.Fatalf("third sync: %d cues, want 1", got)
	}
}
