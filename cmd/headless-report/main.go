package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Garsondee/Gridcaster/internal/game"
	"github.com/Garsondee/Gridcaster/internal/logger"
)

type runStats struct {
	runIndex int
	seed     int64
	ticks    int

	firstContactTick int
	firstAttackTick  int
	firstKillTick    int
	playerDeathTick  int

	shots        int
	hits         int
	kills        int
	attacks      int
	misses       int
	damageTaken  int
	giveUps      int
	stateChanges int

	agentsTotal int
	agentsAlive int
	playerHP    int
	killedKinds map[string]int
}

// scenarios maps a name to the input policy driving the player.
var scenarios = map[string]func(*game.World) game.Input{
	"turret": autoAim,
	"idle":   func(*game.World) game.Input { return game.Input{} },
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var scenario string
	var configPath string

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 3600, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenario, "scenario", "turret", "player policy (turret, idle)")
	flag.StringVar(&configPath, "config", "", "optional YAML config overlay")
	flag.Parse()

	log := logger.FromEnv()
	if runs <= 0 || ticks <= 0 {
		log.Fatal("-runs and -ticks must be > 0")
	}
	policy, ok := scenarios[scenario]
	if !ok {
		log.Fatalf("unsupported scenario %q (supported: turret, idle)", scenario)
	}
	cfg := game.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = game.LoadConfig(configPath); err != nil {
			log.WithError(err).Fatal("load config")
		}
	}

	fmt.Printf("=== Headless Combat Report ===\n")
	fmt.Printf("scenario=%s runs=%d ticks=%d seed_base=%d seed_step=%d agents=%d\n\n",
		scenario, runs, ticks, seedBase, seedStep, cfg.Difficulty.NumAgents)

	all, err := runAll(context.Background(), cfg, policy, runs, ticks, seedBase, seedStep)
	if err != nil {
		log.WithError(err).Error("headless run failed")
		os.Exit(1)
	}
	for _, rs := range all {
		printRun(rs)
	}
	printAggregate(all)
}

// runAll runs every seed concurrently. Worlds share nothing, so each run is
// as deterministic as a sequential one.
func runAll(ctx context.Context, cfg game.Config, policy func(*game.World) game.Input,
	runs, ticks int, seedBase, seedStep int64) ([]runStats, error) {
	all := make([]runStats, runs)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := 0; i < runs; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			seed := seedBase + int64(i)*seedStep
			rs, err := runScenario(cfg, policy, i+1, seed, ticks)
			if err != nil {
				return fmt.Errorf("run %d (seed %d): %w", i+1, seed, err)
			}
			all[i] = rs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return all, nil
}

func runScenario(cfg game.Config, policy func(*game.World) game.Input, runIndex int, seed int64, ticks int) (runStats, error) {
	ts := game.NewTestSim(
		game.WithConfig(func(c *game.Config) { *c = cfg }),
		game.WithSeed(seed),
		game.WithPopulation(cfg.Difficulty.NumAgents),
	)
	if err := ts.Err(); err != nil {
		return runStats{}, err
	}
	played := 0
	for played < ticks && ts.World.Player().Alive() && ts.World.AliveAgents() > 0 {
		ts.Input = policy(ts.World)
		ts.RunTicks(1)
		played++
	}
	return collectStats(ts, runIndex, seed), nil
}

func collectStats(ts *game.TestSim, runIndex int, seed int64) runStats {
	entries := ts.SimLog.Entries()
	rs := runStats{
		runIndex:         runIndex,
		seed:             seed,
		ticks:            ts.CurrentTick(),
		firstContactTick: firstTick(entries, "state", "change", "→ pursuing"),
		firstAttackTick:  firstTick(entries, "combat", "attack", ""),
		firstKillTick:    firstTick(entries, "combat", "death", ""),
		playerDeathTick:  firstTick(entries, "player", "death", ""),
		shots:            ts.SimLog.CountCategory("weapon", "fire"),
		hits:             ts.SimLog.CountCategory("combat", "hit"),
		kills:            ts.SimLog.CountCategory("combat", "death"),
		attacks:          ts.SimLog.CountCategory("combat", "attack"),
		misses:           ts.SimLog.CountCategory("combat", "miss"),
		giveUps:          ts.SimLog.CountCategory("state", "give_up"),
		stateChanges:     ts.SimLog.CountCategory("state", "change"),
		agentsTotal:      len(ts.World.Agents()),
		agentsAlive:      ts.World.AliveAgents(),
		playerHP:         ts.World.Player().Health(),
		killedKinds:      map[string]int{},
	}
	for _, e := range entries {
		switch {
		case e.Category == "player" && e.Key == "damage":
			rs.damageTaken += int(e.NumVal)
		case e.Category == "combat" && e.Key == "death":
			rs.killedKinds[e.Kind]++
		}
	}
	return rs
}

// autoAim stands still, turns toward the nearest visible agent and fires
// once it is centred.
func autoAim(w *game.World) game.Input {
	p := w.Player()
	pp := p.Position()
	var target *game.Agent
	best := math.Inf(1)
	for _, a := range w.VisibleAgents() {
		if d := a.Position().Sub(pp).Len(); d < best {
			target, best = a, d
		}
	}
	if target == nil {
		return game.Input{TurnRight: true}
	}
	ap := target.Position()
	diff := math.Remainder(game.HeadingTo(pp.X, pp.Y, ap.X, ap.Y)-p.Heading(), 2*math.Pi)

	cfg := w.Config()
	secs := cfg.TickDuration().Seconds()
	maxTurn := cfg.Player.TurnRate * secs
	turn := math.Max(-maxTurn, math.Min(maxTurn, diff))
	var in game.Input
	if sens := cfg.Player.MouseSensitivity; sens > 0 {
		in.MouseDX = turn / (sens * secs * 1000)
	} else {
		in.TurnLeft, in.TurnRight = diff < 0, diff > 0
	}
	if math.Abs(diff) <= maxTurn {
		in.Fire = true
	}
	return in
}

// detectOutcome classifies a run from its final state.
func detectOutcome(rs runStats) (string, string) {
	switch {
	case rs.playerDeathTick >= 0 || rs.playerHP == 0:
		return "defeat", fmt.Sprintf("player_killed_at=%d kills=%d/%d", rs.playerDeathTick, rs.kills, rs.agentsTotal)
	case rs.agentsTotal > 0 && rs.agentsAlive == 0:
		return "victory", fmt.Sprintf("cleared_at=%d hp=%d", rs.ticks, rs.playerHP)
	case rs.firstContactTick < 0:
		return "no_contact", "no agent ever pursued the player"
	default:
		return "stalemate", fmt.Sprintf("alive=%d/%d hp=%d", rs.agentsAlive, rs.agentsTotal, rs.playerHP)
	}
}

func firstTick(entries []game.SimLogEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

func printRun(rs runStats) {
	outcome, reason := detectOutcome(rs)
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("outcome=%s (%s) ticks=%d\n", outcome, reason, rs.ticks)
	fmt.Printf("phase_markers: contact=%d first_attack=%d first_kill=%d player_death=%d\n",
		rs.firstContactTick, rs.firstAttackTick, rs.firstKillTick, rs.playerDeathTick)
	fmt.Printf("player: shots=%d hits=%d accuracy=%s kills=%d damage_taken=%d hp=%d\n",
		rs.shots, rs.hits, ratioString(rs.hits, rs.shots), rs.kills, rs.damageTaken, rs.playerHP)
	fmt.Printf("agents: attacks=%d misses=%d give_ups=%d state_changes=%d alive=%d/%d\n",
		rs.attacks, rs.misses, rs.giveUps, rs.stateChanges, rs.agentsAlive, rs.agentsTotal)
	fmt.Printf("kills_by_kind: %s\n\n", joinCounts(rs.killedKinds))
}

func printAggregate(all []runStats) {
	outcomes := map[string]int{}
	killedKinds := map[string]int{}
	totalShots, totalHits, totalKills, totalDamage, totalAttacks := 0, 0, 0, 0, 0
	contactTicks := make([]int, 0, len(all))
	killTicks := make([]int, 0, len(all))
	deathTicks := make([]int, 0, len(all))

	for _, rs := range all {
		o, _ := detectOutcome(rs)
		outcomes[o]++
		totalShots += rs.shots
		totalHits += rs.hits
		totalKills += rs.kills
		totalDamage += rs.damageTaken
		totalAttacks += rs.attacks
		for k, n := range rs.killedKinds {
			killedKinds[k] += n
		}
		if rs.firstContactTick >= 0 {
			contactTicks = append(contactTicks, rs.firstContactTick)
		}
		if rs.firstKillTick >= 0 {
			killTicks = append(killTicks, rs.firstKillTick)
		}
		if rs.playerDeathTick >= 0 {
			deathTicks = append(deathTicks, rs.playerDeathTick)
		}
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d outcomes: %s\n", len(all), joinCounts(outcomes))
	fmt.Printf("avg_per_run: shots=%.1f hits=%.1f kills=%.1f damage_taken=%.1f attacks=%.1f accuracy=%s\n",
		avg(totalShots, len(all)), avg(totalHits, len(all)), avg(totalKills, len(all)),
		avg(totalDamage, len(all)), avg(totalAttacks, len(all)), ratioString(totalHits, totalShots))
	fmt.Printf("phase_marker_avg_ticks: first_contact=%s first_kill=%s player_death=%s\n",
		avgTickString(contactTicks), avgTickString(killTicks), avgTickString(deathTicks))
	fmt.Printf("kills_by_kind: %s\n", joinCounts(killedKinds))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func ratioString(num, den int) string {
	if den == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.0f%%", float64(num)/float64(den)*100)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func joinCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, ",")
}
