package game

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// dumpLog prints the full SimLog to t.Log so it appears in `go test -v` output.
func dumpLog(t *testing.T, ts *TestSim) {
	t.Helper()
	if ts.SimLog.Len() == 0 {
		t.Log("(no log entries)")
		return
	}
	t.Log("\n" + ts.SimLog.Format())
}

// corridor is a one-tile-wide north/south corridor along x=5, rows 1..5.
var corridor = []string{
	"11111111111",
	"11111.11111",
	"11111.11111",
	"11111.11111",
	"11111.11111",
	"11111.11111",
	"11111111111",
}

func newSim(t *testing.T, opts ...SimOption) *TestSim {
	t.Helper()
	ts := NewTestSim(opts...)
	if err := ts.Err(); err != nil {
		t.Fatalf("NewTestSim: %v", err)
	}
	return ts
}

// frozenSoldier keeps a soldier in place and out of attack range so
// shooting tests only exercise the hit path.
func frozenSoldier(cfg *Config) {
	cfg.Agents[0].Speed = 0
	cfg.Agents[0].AttackRange = 0
}

// --- Scenario: corridor pursuit ---

func TestScenario_CorridorPursuit(t *testing.T) {
	ts := newSim(t,
		WithMapRows(corridor...),
		WithPlayer(5.5, 1.5, math.Pi/2),
		WithAgent("soldier", 5.5, 5.5),
	)
	a := ts.Agent("soldier#1")
	if a == nil || a.State() != StateIdle {
		t.Fatalf("expected idle soldier#1, got %+v", a)
	}

	ts.RunTicks(1)
	defer func() {
		if t.Failed() {
			dumpLog(t, ts)
		}
	}()

	if !a.SeesPlayer() {
		t.Fatal("agent should see the player down the corridor")
	}
	if a.State() != StatePursuing {
		t.Fatalf("state = %s, want pursuing", a.State())
	}
	want := []Tile{{5, 1}, {5, 2}, {5, 3}, {5, 4}, {5, 5}}
	got := a.Path()
	if len(got) != len(want) {
		t.Fatalf("path = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("path = %v, want %v", got, want)
		}
	}
	if !ts.SimLog.HasEntry("state", "change", "idle → pursuing") {
		t.Fatal("missing idle → pursuing state change entry")
	}
	if a.Position().Y >= 5.5 {
		t.Fatalf("agent did not step toward the player: %v", a.Position())
	}
}

func TestScenario_AgentStopsShortOfPlayer(t *testing.T) {
	ts := newSim(t,
		WithMapRows(corridor...),
		WithPlayer(5.5, 1.5, math.Pi/2),
		WithAgent("soldier", 5.5, 5.5),
		WithConfig(func(c *Config) { c.Agents[0].AttackRange = 0 }),
	)
	a := ts.Agent("soldier#1")
	ts.RunTicks(600)
	if d := ManhattanDist(a.Tile(), ts.World.Player().Tile()); d < 2 {
		t.Fatalf("agent closed to Manhattan %d of the player, tile %v", d, a.Tile())
	}
	if a.Tile() != (Tile{5, 3}) {
		t.Fatalf("agent should park two tiles away at (5,3), got %v", a.Tile())
	}
}

// --- Scenario: combat ---

func TestScenario_AttackDamagesPlayer(t *testing.T) {
	ts := newSim(t,
		WithMapRows(corridor...),
		WithPlayer(5.5, 1.5, math.Pi/2),
		WithAgent("soldier", 5.5, 4.5),
		WithConfig(func(c *Config) { c.Agents[0].Accuracy = 1 }),
	)
	a := ts.Agent("soldier#1")
	ts.RunTicks(1)
	if a.State() != StateAttacking {
		t.Fatalf("state = %s, want attacking at range 3", a.State())
	}
	startPos := a.Position()

	hit := ts.RunUntil(func(ts *TestSim) bool {
		return ts.World.Player().Health() < 100
	}, 60)
	if hit < 0 {
		dumpLog(t, ts)
		t.Fatal("attack never landed")
	}
	if got := ts.World.Player().Health(); got != 95 {
		t.Fatalf("player health = %d, want 95", got)
	}
	if a.State() != StatePursuing {
		t.Fatalf("after attack state = %s, want pursuing", a.State())
	}
	if a.Position() != startPos {
		t.Fatal("agent moved while attacking")
	}
	if _, ok := ts.SimLog.LastOf("player", "damage"); !ok {
		t.Fatal("missing player/damage entry")
	}
}

func TestScenario_PainInterruptsAttack(t *testing.T) {
	ts := newSim(t,
		WithMapRows(corridor...),
		WithPlayer(5.5, 1.5, math.Pi/2),
		WithAgent("soldier", 5.5, 4.5),
		WithConfig(func(c *Config) { c.Agents[0].Accuracy = 1 }),
	)
	a := ts.Agent("soldier#1")
	defer func() {
		if t.Failed() {
			dumpLog(t, ts)
		}
	}()

	ts.RunTicks(1)
	if a.State() != StateAttacking {
		t.Fatalf("state = %s, want attacking at range 3", a.State())
	}

	ts.FireOnce()
	ts.RunTicks(1)
	if a.State() != StateInPain || a.Health() != 50 {
		t.Fatalf("after shot: state %s health %d, want in_pain 50", a.State(), a.Health())
	}

	if ts.RunUntil(func(*TestSim) bool { return a.State() != StateInPain }, 60) < 0 {
		t.Fatal("agent never recovered from pain")
	}
	if !ts.SimLog.HasEntry("state", "change", "in_pain → pursuing") {
		t.Fatal("pain should resolve into pursuit, not back into the interrupted attack")
	}
	if _, ok := ts.SimLog.LastOf("player", "damage"); ok {
		t.Fatal("interrupted attack still damaged the player")
	}
	if got := ts.World.Player().Health(); got != 100 {
		t.Fatalf("player health = %d, want 100", got)
	}
}

func TestScenario_AgentsStandDownWhenPlayerDies(t *testing.T) {
	ts := newSim(t,
		WithMapRows(corridor...),
		WithPlayer(5.5, 1.5, math.Pi/2),
		WithAgent("soldier", 5.5, 5.5),
		WithConfig(func(c *Config) { c.Agents[0].AttackRange = 0 }),
	)
	a := ts.Agent("soldier#1")
	defer func() {
		if t.Failed() {
			dumpLog(t, ts)
		}
	}()

	ts.RunTicks(1)
	if a.State() != StatePursuing {
		t.Fatalf("state = %s, want pursuing", a.State())
	}

	ts.World.Player().TakeDamage(1000)
	pos := a.Position()
	ts.RunTicks(60)

	if a.State() != StateIdle {
		t.Fatalf("state = %s, want idle once the player is dead", a.State())
	}
	if a.Path() != nil {
		t.Fatalf("path = %v, want none", a.Path())
	}
	if a.Position() != pos {
		t.Fatalf("agent kept moving: %v -> %v", pos, a.Position())
	}
	if a.SeesPlayer() {
		t.Fatal("dead player reported as seen")
	}
	if !ts.SimLog.HasEntry("state", "target_dead", "") {
		t.Fatal("missing state/target_dead entry")
	}
	if n := ts.SimLog.CountCategory("state", "target_dead"); n != 1 {
		t.Fatalf("target_dead logged %d times, want 1", n)
	}
}

func TestScenario_ShootPainThenDeath(t *testing.T) {
	ts := newSim(t,
		WithMapRows(corridor...),
		WithPlayer(5.5, 1.5, math.Pi/2),
		WithAgent("soldier", 5.5, 5.5),
		WithConfig(frozenSoldier),
	)
	a := ts.Agent("soldier#1")

	ts.FireOnce()
	ts.RunTicks(1)
	if a.Health() != 50 || a.State() != StateInPain {
		t.Fatalf("after first shot: health %d state %s, want 50 in_pain", a.Health(), a.State())
	}

	// Wait out the reload, then fire again.
	ts.RunUntil(func(ts *TestSim) bool { return !ts.World.Player().Weapon().Reloading() }, 120)
	if a.State() != StatePursuing {
		t.Fatalf("after pain state = %s, want pursuing", a.State())
	}
	ts.FireOnce()
	ts.RunTicks(1)
	if a.Alive() || a.State() != StateDead {
		t.Fatalf("second shot should kill, state %s health %d", a.State(), a.Health())
	}
	if !ts.SimLog.HasEntry("combat", "death", "") {
		t.Fatal("missing combat/death entry")
	}

	if ts.World.CanSee(a) {
		t.Fatal("dead agents are rejected by CanSee")
	}
	if ts.World.PathFor(a) != nil {
		t.Fatal("dead agents get no path")
	}
	if ts.World.occupancy().Has(a.Tile()) {
		t.Fatal("dead agents must not occupy tiles")
	}

	if ts.RunUntil(func(*TestSim) bool { return a.Inert() }, 120) < 0 {
		t.Fatal("death animation never finished")
	}
	if _, ok := a.RenderObject(ts.World.View()); !ok {
		t.Fatal("inert agents still render their last frame")
	}
	if a.Image().Frame != a.Kind().Frames.Death-1 {
		t.Fatalf("inert frame = %d, want last death frame", a.Image().Frame)
	}
}

func TestScenario_ShotMissesWhenLookingAway(t *testing.T) {
	ts := newSim(t,
		WithMapRows(corridor...),
		WithPlayer(5.5, 1.5, 0), // facing the east wall
		WithAgent("soldier", 5.5, 5.5),
		WithConfig(frozenSoldier),
	)
	a := ts.Agent("soldier#1")
	ts.FireOnce()
	ts.RunTicks(1)
	if a.Health() != a.Kind().Health {
		t.Fatalf("agent hit while off screen: health %d", a.Health())
	}
}

// --- Scenario: giving up the chase ---

func TestScenario_GiveUpAfterLosingSight(t *testing.T) {
	ts := newSim(t,
		WithMapRows(
			"1111111111",
			"1........1",
			"1.111111.1",
			"1........1",
			"1111111111",
		),
		WithPlayer(1.5, 1.5, math.Pi/2),
		WithAgent("soldier", 7.5, 1.5),
		WithConfig(func(c *Config) {
			frozenSoldier(c)
			c.Difficulty.GiveUpTicks = 10
		}),
	)
	a := ts.Agent("soldier#1")
	ts.RunTicks(1)
	if a.State() != StatePursuing {
		t.Fatalf("state = %s, want pursuing", a.State())
	}

	ts.Input = Input{Forward: true}
	tick := ts.RunUntil(func(*TestSim) bool { return a.State() == StateIdle }, 120)
	if tick < 0 {
		dumpLog(t, ts)
		t.Fatal("agent never gave up")
	}
	if a.SeesPlayer() {
		t.Fatal("agent gave up while still seeing the player")
	}
	if !ts.SimLog.HasEntry("state", "give_up", "") {
		t.Fatal("missing state/give_up entry")
	}
}

// --- Invariants ---

func TestInvariant_OneLivingAgentPerTile(t *testing.T) {
	ts := newSim(t, WithSeed(7), WithPopulation(20))
	if got := len(ts.World.Agents()); got != 20 {
		t.Fatalf("populated %d agents, want 20", got)
	}
	player := ts.World.Player().Tile()
	for _, a := range ts.World.Agents() {
		if ManhattanDist(a.Tile(), player) <= ts.Config.Difficulty.MinSpawnDist {
			t.Fatalf("%s spawned too close: %v", a.Label(), a.Tile())
		}
	}

	ts.Input = Input{TurnLeft: true}
	for tick := 0; tick < 900; tick++ {
		ts.RunTicks(1)
		seen := map[Tile]string{}
		for _, a := range ts.World.Agents() {
			if !a.Alive() {
				continue
			}
			if !ts.World.Grid().Walkable(a.Tile()) {
				t.Fatalf("T=%d %s inside a wall at %v", ts.CurrentTick(), a.Label(), a.Tile())
			}
			if other, ok := seen[a.Tile()]; ok {
				t.Fatalf("T=%d %s and %s share tile %v", ts.CurrentTick(), a.Label(), other, a.Tile())
			}
			seen[a.Tile()] = a.Label()
		}
	}
}

func TestCommit_RefusesContestedTile(t *testing.T) {
	ts := newSim(t,
		WithMapRows(
			"11111",
			"1...1",
			"1...1",
			"1...1",
			"11111",
		),
		WithPlayer(1.5, 1.5, 0),
		WithAgent("soldier", 1.5, 3.5),
		WithAgent("soldier", 3.5, 3.5),
	)
	w := ts.World
	a, b := w.Agents()[0], w.Agents()[1]
	a.proposed = Vec2{2.1, 3.5}
	b.proposed = Vec2{2.9, 3.5}
	w.commit()
	if a.Position() != (Vec2{1.5, 3.5}) || b.Position() != (Vec2{3.5, 3.5}) {
		t.Fatalf("contested tile was granted: a=%v b=%v", a.Position(), b.Position())
	}

	a.proposed = Vec2{2.1, 3.5}
	b.proposed = Vec2{3.4, 3.5}
	w.commit()
	if a.Position() != (Vec2{2.1, 3.5}) || b.Position() != (Vec2{3.4, 3.5}) {
		t.Fatalf("uncontested moves were refused: a=%v b=%v", a.Position(), b.Position())
	}
}

// --- Setup errors ---

func TestAddAgent_Errors(t *testing.T) {
	rows := []string{
		"1111111",
		"1...1.1",
		"1...111",
		"1111111",
	}
	cases := []struct {
		name string
		kind string
		x, y float64
		want error
	}{
		{"wall", "soldier", 0.5, 0.5, ErrObstructedSpawn},
		{"isolated", "soldier", 5.5, 1.5, ErrIsolatedSpawn},
		{"player tile", "soldier", 1.5, 1.5, ErrObstructedSpawn},
		{"unknown kind", "imp", 3.5, 2.5, ErrUnknownKind},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := NewTestSim(WithMapRows(rows...), WithPlayer(1.5, 1.5, 0), WithAgent(tc.kind, tc.x, tc.y))
			if err := ts.Err(); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}

	ts := NewTestSim(WithMapRows(rows...), WithPlayer(1.5, 1.5, 0),
		WithAgent("soldier", 3.5, 1.5), WithAgent("soldier", 3.2, 1.8))
	if !errors.Is(ts.Err(), ErrObstructedSpawn) {
		t.Fatalf("second agent on the same tile: err = %v", ts.Err())
	}
}

func TestWithSimLogger_ReceivesWorldLogs(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	newSim(t,
		WithMapRows(corridor...),
		WithPlayer(5.5, 1.5, math.Pi/2),
		WithSimLogger(logger),
		WithAgent("soldier", 5.5, 5.5),
	)
	var built, added bool
	for _, e := range hook.AllEntries() {
		switch e.Message {
		case "world built":
			built = true
		case "agent added":
			added = true
		}
	}
	if !built || !added {
		t.Fatalf("world logs not routed: built=%t added=%t (%d entries)", built, added, len(hook.AllEntries()))
	}
}

func TestNewWorld_PlayerInWall(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Player.X, cfg.Player.Y = 0.5, 0.5
	if _, err := NewWorld(cfg, WithLogger(quietLogger())); !errors.Is(err, ErrObstructedSpawn) {
		t.Fatalf("err = %v, want ErrObstructedSpawn", err)
	}
}

func TestAgentIDs_DeterministicPerSeed(t *testing.T) {
	ids := func() []string {
		ts := newSim(t, WithSeed(99), WithPopulation(5))
		var out []string
		for _, a := range ts.World.Agents() {
			out = append(out, a.ID.String()+"/"+a.Label())
		}
		return out
	}
	first, second := ids(), ids()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("seeded populations differ: %v vs %v", first, second)
		}
	}
}

func TestWorld_FrameIsSortedAndEndsWithWeapon(t *testing.T) {
	ts := newSim(t, WithSeed(3), WithPopulation(5))
	ts.RunTicks(2)
	frame := ts.World.Frame()
	if len(frame) == 0 {
		t.Fatal("empty frame")
	}
	for i := 1; i < len(frame); i++ {
		if frame[i].Depth > frame[i-1].Depth {
			t.Fatalf("frame not sorted at %d: %v > %v", i, frame[i].Depth, frame[i-1].Depth)
		}
	}
	if last := frame[len(frame)-1]; last.Kind != KindWeapon {
		t.Fatalf("last object = %s, want weapon", last.Kind)
	}
}

func TestDebugReport(t *testing.T) {
	ts := newSim(t,
		WithMapRows(corridor...),
		WithPlayer(5.5, 1.5, math.Pi/2),
		WithAgent("soldier", 5.5, 5.5),
	)
	ts.RunTicks(30)
	a := ts.Agent("soldier#1")
	report := ts.World.DebugReport(a, 30)
	events := fmt.Sprintf("events=%d", len(ts.SimLog.FilterAgent("soldier#1")))
	for _, want := range []string{"soldier#1", "pursuing", events, "== events =="} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}
	t.Log(ts.SimLog.Summary(ts.CurrentTick(), ts.World.Player(), ts.World.Agents()))
}
