package game

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AgentState is the behaviour state of an agent.
type AgentState int

const (
	StateIdle      AgentState = iota // waiting, player not seen
	StatePursuing                    // walking the BFS path toward the player
	StateAttacking                   // playing the attack animation, no movement
	StateInPain                      // flinching from a hit
	StateDead                        // playing or finished the death animation
)

func (s AgentState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePursuing:
		return "pursuing"
	case StateAttacking:
		return "attacking"
	case StateInPain:
		return "in_pain"
	case StateDead:
		return "dead"
	default:
		return "unknown"
	}
}

// TickContext is everything an agent reads during its update. Occupied is
// the snapshot taken before any agent moved this tick.
type TickContext struct {
	Tick        int
	Dt          time.Duration
	Grid        *Grid
	Caster      *RayCaster
	Paths       *Pathfinder
	Player      *Player
	Occupied    Occupancy
	View        View
	Rng         *rand.Rand
	GiveUpTicks int
	SimLog      *SimLog
	Log         logrus.FieldLogger
}

// Agent is a hostile non-player character.
type Agent struct {
	ID    uuid.UUID
	label string
	kind  AgentKind
	board Billboard

	pos      Vec2
	proposed Vec2
	health   int

	state     AgentState
	resume    AgentState // branch to return to when pain ends
	pursuing  bool
	lostSight int
	seen      bool
	dist      float64
	path      []Tile
	inert     bool

	screen   Projected
	onScreen bool
	history  []AgentDebugSnapshot

	idle, walk, attack, pain, death Animation
}

// NewAgent creates an idle agent of kind at pos.
func NewAgent(id uuid.UUID, label string, kind AgentKind, pos Vec2) *Agent {
	deathTime := time.Duration(float64(kind.FrameTime) * 0.8)
	return &Agent{
		ID:       id,
		label:    label,
		kind:     kind,
		board:    Billboard{Scale: kind.Scale, HeightShift: kind.HeightShift, Aspect: kind.Aspect},
		pos:      pos,
		proposed: pos,
		health:   kind.Health,
		state:    StateIdle,
		idle:     NewAnimation(kind.Frames.Idle, kind.FrameTime, true),
		walk:     NewAnimation(kind.Frames.Walk, kind.FrameTime, true),
		attack:   NewAnimation(kind.Frames.Attack, kind.FrameTime, false),
		pain:     NewAnimation(kind.Frames.Pain, kind.FrameTime, false),
		death:    NewAnimation(kind.Frames.Death, deathTime, false),
	}
}

// Label is the human-readable name used in logs.
func (a *Agent) Label() string { return a.label }

// Kind returns the configuration record.
func (a *Agent) Kind() AgentKind { return a.kind }

// Position returns the continuous position.
func (a *Agent) Position() Vec2 { return a.pos }

// Tile returns the tile the agent stands on.
func (a *Agent) Tile() Tile { return a.pos.Tile() }

// Health is the remaining health.
func (a *Agent) Health() int { return a.health }

// Alive reports whether the agent still takes part in the world.
func (a *Agent) Alive() bool { return a.state != StateDead }

// Inert reports that the death animation has completed.
func (a *Agent) Inert() bool { return a.inert }

// State returns the behaviour state.
func (a *Agent) State() AgentState { return a.state }

// Pursuing reports whether the agent is chasing the player.
func (a *Agent) Pursuing() bool { return a.pursuing }

// SeesPlayer is the result of the last line-of-sight check.
func (a *Agent) SeesPlayer() bool { return a.seen }

// Path is the last BFS result, target first.
func (a *Agent) Path() []Tile { return a.path }

// Screen returns the last projection and whether it was on screen.
func (a *Agent) Screen() (Projected, bool) { return a.screen, a.onScreen }

// Update runs one behaviour tick. Movement is only proposed here; the world
// commits it once every agent has been evaluated.
func (a *Agent) Update(ctx *TickContext) {
	a.proposed = a.pos
	if a.state == StateDead {
		if !a.inert && a.death.Finished() {
			a.inert = true
			ctx.SimLog.Add(ctx.Tick, a.label, a.kind.Name, "state", "inert", "death animation done", 0)
		}
		return
	}

	a.screen, a.onScreen = ProjectBillboard(ctx.View, a.pos, a.board)

	if !ctx.Player.Alive() {
		a.dropTarget(ctx)
		return
	}

	if a.state == StateAttacking && a.attack.Finished() {
		a.resolveAttack(ctx)
		a.setState(ctx, StatePursuing)
		return
	}

	a.seen = a.checkLineOfSight(ctx)

	if a.seen && ctx.Player.ShotFired() && a.underCrosshair(ctx.View) {
		a.takeHit(ctx, ctx.Player.Weapon().Damage())
		return
	}

	switch a.state {
	case StateAttacking:
		return
	case StateInPain:
		if !a.pain.Finished() {
			return
		}
		a.setState(ctx, a.resume)
	}

	if a.seen {
		a.pursuing = true
		a.lostSight = 0
		if a.dist < a.kind.AttackRange {
			a.startAttack(ctx)
			return
		}
	} else if a.pursuing {
		a.lostSight++
		if ctx.GiveUpTicks > 0 && a.lostSight >= ctx.GiveUpTicks {
			a.pursuing = false
			a.path = nil
			ctx.SimLog.Add(ctx.Tick, a.label, a.kind.Name, "state", "give_up",
				fmt.Sprintf("no sight for %d ticks", a.lostSight), float64(a.lostSight))
		}
	}

	if a.pursuing {
		a.setState(ctx, StatePursuing)
		a.move(ctx)
		return
	}
	a.setState(ctx, StateIdle)
}

// dropTarget abandons pursuit of a dead player. An unfinished flinch still
// plays out before the agent goes idle.
func (a *Agent) dropTarget(ctx *TickContext) {
	a.seen = false
	a.path = nil
	if a.pursuing {
		a.pursuing = false
		a.lostSight = 0
		ctx.SimLog.Add(ctx.Tick, a.label, a.kind.Name, "state", "target_dead", "player is dead", 0)
	}
	if a.state == StateInPain && !a.pain.Finished() {
		return
	}
	a.setState(ctx, StateIdle)
}

// checkLineOfSight rejects dead or co-located players before casting.
func (a *Agent) checkLineOfSight(ctx *TickContext) bool {
	p := ctx.Player
	if !p.Alive() || p.Tile() == a.Tile() {
		return false
	}
	a.dist = p.Position().Sub(a.pos).Len()
	return ctx.Caster.IsVisible(a.pos, p.Position())
}

// underCrosshair reports whether the agent's silhouette covers the screen
// centre column, where shots resolve.
func (a *Agent) underCrosshair(v View) bool {
	if !a.onScreen {
		return false
	}
	return math.Abs(a.screen.ScreenX-v.Proj.HalfWidth) < a.screen.HalfWidth
}

func (a *Agent) takeHit(ctx *TickContext, damage int) {
	a.health = max(0, a.health-damage)
	a.pursuing = true
	a.lostSight = 0
	ctx.SimLog.Add(ctx.Tick, a.label, a.kind.Name, "combat", "hit",
		fmt.Sprintf("took %d, health %d", damage, a.health), float64(damage))

	if a.health == 0 {
		a.setState(ctx, StateDead)
		a.path = nil
		ctx.SimLog.Add(ctx.Tick, a.label, a.kind.Name, "combat", "death", "killed by player", 0)
		ctx.Log.WithFields(logrus.Fields{"agent": a.label, "tile": a.Tile()}).Info("agent killed")
		return
	}

	// A shot always reveals the player, so pain resolves into pursuit even
	// when it interrupted an attack.
	if a.state != StateInPain {
		a.resume = StatePursuing
	}
	a.pain.Reset()
	a.setState(ctx, StateInPain)
	ctx.SimLog.Add(ctx.Tick, a.label, a.kind.Name, "combat", "pain", a.resume.String(), float64(a.health))
}

func (a *Agent) startAttack(ctx *TickContext) {
	a.attack.Reset()
	a.setState(ctx, StateAttacking)
	ctx.SimLog.Add(ctx.Tick, a.label, a.kind.Name, "combat", "attack",
		fmt.Sprintf("range %.2f", a.dist), a.dist)
}

// resolveAttack rolls accuracy once the attack animation has played.
func (a *Agent) resolveAttack(ctx *TickContext) {
	if !ctx.Player.Alive() {
		return
	}
	if ctx.Rng.Float64() >= a.kind.Accuracy {
		ctx.SimLog.Add(ctx.Tick, a.label, a.kind.Name, "combat", "miss", "", 0)
		return
	}
	left := ctx.Player.TakeDamage(a.kind.Damage)
	ctx.SimLog.Add(ctx.Tick, "player", "player", "player", "damage",
		fmt.Sprintf("%s hit for %d, health %d", a.label, a.kind.Damage, left), float64(a.kind.Damage))
}

// move steers toward the next hop of a fresh BFS path. Only the hop next to
// the agent is used, so a changing path influences one step at a time.
func (a *Agent) move(ctx *TickContext) {
	self := a.Tile()
	playerTile := ctx.Player.Tile()
	a.path = ctx.Paths.FindPath(self, playerTile, ctx.Occupied)
	next, ok := NextHop(a.path)
	if !ok {
		ctx.SimLog.AddVerbose(ctx.Tick, a.label, a.kind.Name, "path", "none", "", 0)
		return
	}
	blocked := ctx.Occupied.BlockedFor(self)
	if blocked(next) {
		return
	}
	if ManhattanDist(next, playerTile) < 2 {
		return
	}

	var theta float64
	if a.seen {
		pp := ctx.Player.Position()
		theta = HeadingTo(a.pos.X, a.pos.Y, pp.X, pp.Y)
	} else {
		c := next.Center()
		theta = HeadingTo(a.pos.X, a.pos.Y, c.X, c.Y)
	}
	step := a.kind.Speed * ctx.Dt.Seconds()
	delta := Vec2{math.Cos(theta) * step, math.Sin(theta) * step}
	a.proposed = ResolveMove(ctx.Grid, a.pos, delta, a.kind.Size, blocked)
	ctx.SimLog.AddVerbose(ctx.Tick, a.label, a.kind.Name, "move", "step",
		fmt.Sprintf("(%.2f,%.2f)", a.proposed.X, a.proposed.Y), step)
}

// commitMove applies the proposed position unless it enters a tile that
// another agent also proposed to enter this tick.
func (a *Agent) commitMove(claims map[Tile]int) {
	dest := a.proposed.Tile()
	if dest != a.Tile() && claims[dest] > 1 {
		a.proposed = a.pos
		return
	}
	a.pos = a.proposed
}

func (a *Agent) setState(ctx *TickContext, s AgentState) {
	if s == a.state {
		return
	}
	ctx.SimLog.Add(ctx.Tick, a.label, a.kind.Name, "state", "change",
		fmt.Sprintf("%s → %s", a.state, s), 0)
	a.state = s
	switch s {
	case StateDead:
		a.death.Reset()
	case StateIdle:
		a.idle.Reset()
	case StatePursuing:
		a.walk.Reset()
	}
}

func (a *Agent) currentAnim() *Animation {
	switch a.state {
	case StatePursuing:
		return &a.walk
	case StateAttacking:
		return &a.attack
	case StateInPain:
		return &a.pain
	case StateDead:
		return &a.death
	default:
		return &a.idle
	}
}

func (a *Agent) animName() string {
	switch a.state {
	case StatePursuing:
		return "walk"
	case StateAttacking:
		return "attack"
	case StateInPain:
		return "pain"
	case StateDead:
		return "death"
	default:
		return "idle"
	}
}

// Image is the current animation frame handle, e.g. soldier/walk frame 2.
func (a *Agent) Image() ImageRef {
	return ImageRef{Sheet: a.kind.Name + "/" + a.animName(), Frame: a.currentAnim().Frame()}
}

// Animate advances the animation of the current state. The world calls it
// right before Update so state checks see this tick's frame. Inert agents
// hold their last death frame.
func (a *Agent) Animate(dt time.Duration) {
	if a.inert {
		return
	}
	a.currentAnim().Advance(dt)
}

// RenderObject projects the agent's current frame. Inert agents keep
// rendering their last death frame.
func (a *Agent) RenderObject(v View) (RenderObject, bool) {
	return billboardObject(v, a.pos, a.board, KindAgent, a.Image())
}
