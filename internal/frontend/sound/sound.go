// Package sound plays short synthesized cues for world events.
package sound

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Gridcaster/internal/game"
)

// SampleRate is the output rate of every cue.
const SampleRate = beep.SampleRate(44100)

// Cue describes one synthesized sound.
type Cue struct {
	Freq   float64       // base frequency in Hz; 0 means noise
	EndHz  float64       // when non-zero the pitch sweeps from Freq to EndHz
	Length time.Duration // total duration
	Volume float64       // peak amplitude in [0,1]
}

// Cues maps "category/key" sim log events to sounds.
var Cues = map[string]Cue{
	"weapon/fire":   {Length: 90 * time.Millisecond, Volume: 0.5},
	"combat/pain":   {Freq: 220, Length: 120 * time.Millisecond, Volume: 0.35},
	"combat/death":  {Freq: 330, EndHz: 60, Length: 400 * time.Millisecond, Volume: 0.4},
	"combat/attack": {Freq: 140, Length: 80 * time.Millisecond, Volume: 0.2},
	"player/damage": {Freq: 110, Length: 150 * time.Millisecond, Volume: 0.45},
}

// Manager owns the speaker mixer and follows a SimLog.
type Manager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	cursor      int
	log         logrus.FieldLogger
}

// NewManager creates a manager. Nothing is audible until Initialize.
func NewManager(log logrus.FieldLogger) *Manager {
	return &Manager{mixer: &beep.Mixer{}, log: log}
}

// Initialize opens the speaker.
func (m *Manager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.initialized {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.mixer)
	m.initialized = true
	return nil
}

// Cleanup silences every queued cue.
func (m *Manager) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return
	}
	speaker.Lock()
	m.mixer.Clear()
	speaker.Unlock()
	m.initialized = false
}

// Sync plays a cue for every entry added to sl since the last call and
// returns how many entries had a cue.
func (m *Manager) Sync(sl *game.SimLog) int {
	m.mu.Lock()
	entries := sl.Since(m.cursor)
	m.cursor = sl.Len()
	m.mu.Unlock()

	n := 0
	for _, e := range entries {
		if m.Play(e.Category + "/" + e.Key) {
			n++
		}
	}
	return n
}

// Play queues the cue for key. It reports whether key has a cue, whether or
// not the speaker is open.
func (m *Manager) Play(key string) bool {
	s, ok := Streamer(key)
	if !ok {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.initialized {
		speaker.Lock()
		m.mixer.Add(s)
		speaker.Unlock()
	}
	return true
}

// Streamer builds a fresh streamer for key.
func Streamer(key string) (beep.Streamer, bool) {
	cue, ok := Cues[key]
	if !ok {
		return nil, false
	}
	s, err := cue.source()
	if err != nil {
		logrus.WithError(err).WithField("cue", key).Warn("cue source")
		return nil, false
	}
	n := SampleRate.N(cue.Length)
	return &envelope{s: beep.Take(n, s), total: n, volume: cue.Volume}, true
}

func (c Cue) source() (beep.Streamer, error) {
	switch {
	case c.Freq == 0:
		return &noise{rng: rand.New(rand.NewSource(1))}, nil // #nosec G404 -- audio noise
	case c.EndHz != 0:
		return &sweep{sr: SampleRate, from: c.Freq, to: c.EndHz, total: SampleRate.N(c.Length)}, nil
	default:
		return generators.SineTone(SampleRate, c.Freq)
	}
}

// envelope applies a linear decay over total samples.
type envelope struct {
	s      beep.Streamer
	pos    int
	total  int
	volume float64
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.s.Stream(samples)
	for i := 0; i < n; i++ {
		g := e.volume * math.Max(0, 1-float64(e.pos)/float64(e.total))
		samples[i][0] *= g
		samples[i][1] *= g
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.s.Err() }

// noise is white noise, the muzzle crack.
type noise struct {
	rng *rand.Rand
}

func (g *noise) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		v := g.rng.Float64()*2 - 1
		samples[i][0] = v
		samples[i][1] = v
	}
	return len(samples), true
}

func (g *noise) Err() error { return nil }

// sweep is a sine whose pitch slides linearly between two frequencies.
type sweep struct {
	sr       beep.SampleRate
	from, to float64
	total    int
	pos      int
	phase    float64
}

func (g *sweep) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		f := g.from + (g.to-g.from)*math.Min(1, float64(g.pos)/float64(g.total))
		g.phase += 2 * math.Pi * f / float64(g.sr)
		v := math.Sin(g.phase)
		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *sweep) Err() error { return nil }
