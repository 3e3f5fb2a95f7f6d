package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	// ErrObstructedSpawn is returned when a spawn point is a wall or already
	// taken by another entity.
	ErrObstructedSpawn = errors.New("spawn tile is obstructed")
	// ErrIsolatedSpawn is returned when a spawn tile has no walkable
	// neighbour, so nothing could ever path to or from it.
	ErrIsolatedSpawn = errors.New("spawn tile has no walkable neighbour")
	// ErrUnknownKind is returned by AddAgent for a kind missing from config.
	ErrUnknownKind = errors.New("unknown agent kind")
)

// World owns the grid, the player, every agent and decoration, and runs the
// per-tick update. It is not safe for concurrent use.
type World struct {
	cfg     Config
	proj    Projection
	grid    *Grid
	caster  *RayCaster
	paths   *Pathfinder
	player  *Player
	agents  []*Agent
	sprites []Sprite

	rng    *rand.Rand
	log    logrus.FieldLogger
	simLog *SimLog
	tick   int
	rays   []Ray
	labels map[string]int // next label number per kind
}

// WorldOption customises NewWorld.
type WorldOption func(*World)

// WithRand supplies the random source used for spawning, agent ids and
// attack rolls.
func WithRand(r *rand.Rand) WorldOption {
	return func(w *World) { w.rng = r }
}

// WithLogger sets the structured logger.
func WithLogger(l logrus.FieldLogger) WorldOption {
	return func(w *World) { w.log = l }
}

// WithSimLog sets the event log.
func WithSimLog(sl *SimLog) WorldOption {
	return func(w *World) { w.simLog = sl }
}

// NewWorld builds the grid and player from cfg and places the configured
// decorations. Agents are added with Populate or AddAgent.
func NewWorld(cfg Config, opts ...WorldOption) (*World, error) {
	w := &World{
		cfg:    cfg,
		proj:   cfg.Projection(),
		labels: make(map[string]int),
	}
	for _, o := range opts {
		o(w)
	}
	if w.rng == nil {
		w.rng = rand.New(rand.NewSource(time.Now().UnixNano())) // #nosec G404 -- gameplay randomness
	}
	if w.log == nil {
		w.log = logrus.StandardLogger()
	}
	if w.simLog == nil {
		w.simLog = NewSimLog(false)
	}

	grid, err := ParseGrid(cfg.Map)
	if err != nil {
		return nil, fmt.Errorf("build world: %w", err)
	}
	w.grid = grid
	w.caster = NewRayCaster(grid, w.proj)
	w.paths = NewPathfinder(grid, w.log)

	spawn := Vec2{cfg.Player.X, cfg.Player.Y}
	if err := w.checkSpawn(spawn.Tile()); err != nil {
		return nil, fmt.Errorf("player spawn %v: %w", spawn.Tile(), err)
	}
	w.player = NewPlayer(cfg.Player, NewWeapon(cfg.Weapon))

	for _, def := range cfg.Sprites {
		w.sprites = append(w.sprites, NewSpriteFromDef(def))
	}
	w.rays = w.caster.CastFieldOfView(w.player.Position(), w.player.Heading())

	w.log.WithFields(logrus.Fields{
		"cols":    grid.Cols(),
		"rows":    grid.Rows(),
		"sprites": len(w.sprites),
	}).Debug("world built")
	return w, nil
}

// checkSpawn rejects walls and tiles no path could reach.
func (w *World) checkSpawn(t Tile) error {
	if !w.grid.Walkable(t) {
		return ErrObstructedSpawn
	}
	if len(w.paths.Neighbours(t)) == 0 {
		return ErrIsolatedSpawn
	}
	return nil
}

// AddAgent places a new agent of the named kind at pos.
func (w *World) AddAgent(kindName string, pos Vec2) (*Agent, error) {
	kind, ok := w.cfg.Kind(kindName)
	if !ok {
		return nil, fmt.Errorf("add agent: %w: %q", ErrUnknownKind, kindName)
	}
	t := pos.Tile()
	if err := w.checkSpawn(t); err != nil {
		return nil, fmt.Errorf("add %s at %v: %w", kindName, t, err)
	}
	if t == w.player.Tile() || w.occupancy().Has(t) {
		return nil, fmt.Errorf("add %s at %v: %w", kindName, t, ErrObstructedSpawn)
	}
	id, err := uuid.NewRandomFromReader(w.rng)
	if err != nil {
		return nil, fmt.Errorf("add %s: agent id: %w", kindName, err)
	}
	w.labels[kind.Name]++
	a := NewAgent(id, fmt.Sprintf("%s#%d", kind.Name, w.labels[kind.Name]), kind, pos)
	w.agents = append(w.agents, a)
	w.log.WithFields(logrus.Fields{"agent": a.Label(), "tile": t}).Debug("agent added")
	return a, nil
}

// Populate places up to n agents on random free tiles farther than the
// configured Manhattan distance from the player, choosing each kind by
// weight. It returns how many were placed.
func (w *World) Populate(n int) (int, error) {
	if len(w.cfg.Agents) == 0 || n <= 0 {
		return 0, nil
	}
	playerTile := w.player.Tile()
	var candidates []Tile
	for _, t := range w.grid.FreeTiles() {
		if ManhattanDist(t, playerTile) > w.cfg.Difficulty.MinSpawnDist && w.checkSpawn(t) == nil {
			candidates = append(candidates, t)
		}
	}
	w.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	placed := 0
	for _, t := range candidates {
		if placed == n {
			break
		}
		if w.occupancy().Has(t) {
			continue
		}
		if _, err := w.AddAgent(w.pickKind().Name, t.Center()); err != nil {
			return placed, err
		}
		placed++
	}
	if placed < n {
		w.log.WithFields(logrus.Fields{"wanted": n, "placed": placed}).Warn("not enough spawn tiles")
	}
	return placed, nil
}

// pickKind draws an agent kind proportionally to its weight.
func (w *World) pickKind() AgentKind {
	total := 0.0
	for _, k := range w.cfg.Agents {
		total += k.Weight
	}
	if total <= 0 {
		return w.cfg.Agents[w.rng.Intn(len(w.cfg.Agents))]
	}
	r := w.rng.Float64() * total
	for _, k := range w.cfg.Agents {
		r -= k.Weight
		if r < 0 {
			return k
		}
	}
	return w.cfg.Agents[len(w.cfg.Agents)-1]
}

// occupancy is the set of tiles held by living agents right now.
func (w *World) occupancy() Occupancy {
	occ := make(Occupancy, len(w.agents))
	for _, a := range w.agents {
		if a.Alive() {
			occ[a.Tile()] = struct{}{}
		}
	}
	return occ
}

// Tick advances the world by one fixed step: player input, agent behaviour
// against a snapshot of occupancy, then committing agent moves.
func (w *World) Tick(in Input) {
	dt := w.cfg.TickDuration()
	w.tick++

	w.player.Update(in, w.grid, dt)
	if w.player.ShotFired() {
		w.simLog.Add(w.tick, "player", "player", "weapon", "fire", "", 0)
	}

	ctx := &TickContext{
		Tick:        w.tick,
		Dt:          dt,
		Grid:        w.grid,
		Caster:      w.caster,
		Paths:       w.paths,
		Player:      w.player,
		Occupied:    w.occupancy(),
		View:        w.View(),
		Rng:         w.rng,
		GiveUpTicks: w.cfg.Difficulty.GiveUpTicks,
		SimLog:      w.simLog,
		Log:         w.log,
	}
	wasAlive := w.player.Alive()
	for _, a := range w.agents {
		a.Animate(dt)
		a.Update(ctx)
	}
	w.commit()

	if wasAlive && !w.player.Alive() {
		w.simLog.Add(w.tick, "player", "player", "player", "death", "", 0)
		w.log.WithField("tick", w.tick).Info("player killed")
	}

	for _, s := range w.sprites {
		if an, ok := s.(Animated); ok {
			an.Animate(dt)
		}
	}
	w.rays = w.caster.CastFieldOfView(w.player.Position(), w.player.Heading())
}

// commit applies proposed moves. A tile that two or more agents proposed
// to enter is refused to all of them.
func (w *World) commit() {
	claims := make(map[Tile]int)
	for _, a := range w.agents {
		if !a.Alive() {
			continue
		}
		if dest := a.proposed.Tile(); dest != a.Tile() {
			claims[dest]++
		}
	}
	for _, a := range w.agents {
		if a.Alive() {
			a.commitMove(claims)
		}
		if !a.inert {
			a.recordHistory(w.tick)
		}
	}
}

// View is the camera at the player.
func (w *World) View() View {
	return View{Pos: w.player.Position(), Heading: w.player.Heading(), Proj: w.proj}
}

// Frame collects every render object for the current state, sorted far to
// near.
func (w *World) Frame() []RenderObject {
	v := w.View()
	objs := WallColumns(w.rays, w.proj)
	for _, s := range w.sprites {
		if o, ok := s.RenderObject(v); ok {
			objs = append(objs, o)
		}
	}
	for _, a := range w.agents {
		if o, ok := a.RenderObject(v); ok {
			objs = append(objs, o)
		}
	}
	if o, ok := w.player.Weapon().RenderObject(v); ok {
		objs = append(objs, o)
	}
	return Composite(objs)
}

// Render draws the current frame through d.
func (w *World) Render(d Drawer) {
	DrawAll(d, w.Frame())
}

// CanSee reports whether a living agent has line of sight to the player.
// Dead agents are rejected without casting.
func (w *World) CanSee(a *Agent) bool {
	if a == nil || !a.Alive() || !w.player.Alive() {
		return false
	}
	return w.caster.IsVisible(a.Position(), w.player.Position())
}

// PathFor returns a fresh BFS path from a to the player, or nil for dead
// agents.
func (w *World) PathFor(a *Agent) []Tile {
	if a == nil || !a.Alive() {
		return nil
	}
	return w.paths.FindPath(a.Tile(), w.player.Tile(), w.occupancy())
}

// VisibleAgents lists living agents the player can currently see.
func (w *World) VisibleAgents() []*Agent {
	var out []*Agent
	for _, a := range w.agents {
		if a.Alive() && w.caster.IsVisible(w.player.Position(), a.Position()) {
			out = append(out, a)
		}
	}
	return out
}

// AliveAgents counts agents that are not dead.
func (w *World) AliveAgents() int {
	n := 0
	for _, a := range w.agents {
		if a.Alive() {
			n++
		}
	}
	return n
}

// Config returns the configuration the world was built from.
func (w *World) Config() Config { return w.cfg }

// Grid returns the static tile map.
func (w *World) Grid() *Grid { return w.grid }

// Caster returns the ray caster.
func (w *World) Caster() *RayCaster { return w.caster }

// Pathfinder returns the BFS pathfinder.
func (w *World) Pathfinder() *Pathfinder { return w.paths }

// Player returns the player.
func (w *World) Player() *Player { return w.player }

// Agents returns every agent, dead ones included.
func (w *World) Agents() []*Agent { return w.agents }

// Sprites returns the decorations.
func (w *World) Sprites() []Sprite { return w.sprites }

// Rays returns the field-of-view scan of the last tick.
func (w *World) Rays() []Ray { return w.rays }

// SimLog returns the event log.
func (w *World) SimLog() *SimLog { return w.simLog }

// TickCount is the number of ticks run.
func (w *World) TickCount() int { return w.tick }
