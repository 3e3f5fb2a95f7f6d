package game

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/sirupsen/logrus"
)

// TestSim is a headless simulation harness used by tests and the headless
// report. It drives a World with scripted input, deterministic seeding and
// a structured SimLog.
type TestSim struct {
	World  *World
	SimLog *SimLog
	Config Config
	Input  Input // held every tick until changed

	rng     *rand.Rand
	log     logrus.FieldLogger
	agents  []agentSpec
	err     error
	fireOne bool
}

type agentSpec struct {
	kind string
	x, y float64
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra simOptionKind = iota // map, player, seed, verbose, config; applied first
	simOptAgent                      // add agents; applied after the world is built
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithMapRows replaces the map. Default decorations are dropped since their
// positions belong to the default map.
func WithMapRows(rows ...string) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.Config.Map = rows
		ts.Config.Sprites = nil
	}}
}

// WithPlayer sets the player spawn position and heading.
func WithPlayer(x, y, heading float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.Config.Player.X = x
		ts.Config.Player.Y = y
		ts.Config.Player.Heading = heading
	}}
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- test harness
	}}
}

// WithVerbose enables per-tick movement logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.SimLog = NewSimLog(v)
	}}
}

// WithConfig edits the config before the world is built.
func WithConfig(edit func(*Config)) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		edit(&ts.Config)
	}}
}

// WithSimLogger routes world logging to l.
func WithSimLogger(l logrus.FieldLogger) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.log = l
	}}
}

// WithAgent adds an agent of kind at (x, y).
func WithAgent(kind string, x, y float64) SimOption {
	return SimOption{simOptAgent, func(ts *TestSim) {
		ts.agents = append(ts.agents, agentSpec{kind, x, y})
	}}
}

// WithPopulation fills the world with n random agents as the game does.
func WithPopulation(n int) SimOption {
	return SimOption{simOptAgent, func(ts *TestSim) {
		if ts.err != nil {
			return
		}
		if _, err := ts.World.Populate(n); err != nil {
			ts.err = err
		}
	}}
}

// NewTestSim constructs a TestSim in ordered passes:
//  1. Infrastructure (map, player, seed, verbose, config edits)
//  2. Build World
//  3. Agents
//
// Setup failures are kept and returned by Err so table tests can assert on
// them.
func NewTestSim(opts ...SimOption) *TestSim {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	ts := &TestSim{
		Config: DefaultConfig(),
		SimLog: NewSimLog(false),
		rng:    rand.New(rand.NewSource(1)), // #nosec G404 -- test harness default
		log:    discard,
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}
	w, err := NewWorld(ts.Config, WithRand(ts.rng), WithLogger(ts.log), WithSimLog(ts.SimLog))
	if err != nil {
		ts.err = err
		return ts
	}
	ts.World = w
	for _, o := range opts {
		if o.kind == simOptAgent {
			o.fn(ts)
		}
	}
	for _, def := range ts.agents {
		if ts.err != nil {
			break
		}
		if _, err := w.AddAgent(def.kind, Vec2{def.x, def.y}); err != nil {
			ts.err = fmt.Errorf("harness: %w", err)
		}
	}
	return ts
}

// Err is the first setup error, if any.
func (ts *TestSim) Err() error { return ts.err }

// FireOnce pulls the trigger on the next tick only.
func (ts *TestSim) FireOnce() { ts.fireOne = true }

// RunTicks advances the simulation n ticks.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.step()
	}
}

// RunUntil advances the simulation up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.step()
		if predicate(ts) {
			return ts.World.TickCount()
		}
	}
	return -1
}

func (ts *TestSim) step() {
	in := ts.Input
	if ts.fireOne {
		in.Fire = true
		ts.fireOne = false
	}
	ts.World.Tick(in)
}

// Agent returns the agent with the given label, or nil.
func (ts *TestSim) Agent(label string) *Agent {
	for _, a := range ts.World.Agents() {
		if a.Label() == label {
			return a
		}
	}
	return nil
}

// CurrentTick returns the current simulation tick.
func (ts *TestSim) CurrentTick() int {
	return ts.World.TickCount()
}

// SimSnapshot is a lightweight state summary at one tick.
type SimSnapshot struct {
	Tick   int
	Player PlayerSnapshot
	Agents []AgentSnapshot
}

// PlayerSnapshot is a copy of the player's state.
type PlayerSnapshot struct {
	Pos     Vec2
	Heading float64
	Health  int
}

// AgentSnapshot is a lightweight copy of an agent's state at a tick.
type AgentSnapshot struct {
	Label  string
	Kind   string
	Pos    Vec2
	Tile   Tile
	State  AgentState
	Health int
	Sees   bool
}

// Snapshot returns the current state of the player and all agents.
func (ts *TestSim) Snapshot() SimSnapshot {
	p := ts.World.Player()
	snap := SimSnapshot{
		Tick:   ts.World.TickCount(),
		Player: PlayerSnapshot{Pos: p.Position(), Heading: p.Heading(), Health: p.Health()},
	}
	for _, a := range ts.World.Agents() {
		snap.Agents = append(snap.Agents, AgentSnapshot{
			Label:  a.Label(),
			Kind:   a.Kind().Name,
			Pos:    a.Position(),
			Tile:   a.Tile(),
			State:  a.State(),
			Health: a.Health(),
			Sees:   a.SeesPlayer(),
		})
	}
	return snap
}
