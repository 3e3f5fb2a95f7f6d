package game

import (
	"fmt"
	"math"
	"strings"
)

// historyLen is how many per-tick snapshots each agent keeps.
const historyLen = 240

// AgentDebugSnapshot is one tick of an agent's recorded state.
type AgentDebugSnapshot struct {
	Tick    int
	State   AgentState
	Pos     Vec2
	Health  int
	Sees    bool
	PathLen int
}

// CompactString renders the snapshot on one line.
func (s AgentDebugSnapshot) CompactString(label string) string {
	return fmt.Sprintf("T=%d %s state=%s pos=(%.2f,%.2f) hp=%d sees=%t path=%d",
		s.Tick, label, s.State, s.Pos.X, s.Pos.Y, s.Health, s.Sees, s.PathLen)
}

// recordHistory appends the current state to the ring of snapshots.
func (a *Agent) recordHistory(tick int) {
	snap := AgentDebugSnapshot{
		Tick:    tick,
		State:   a.state,
		Pos:     a.pos,
		Health:  a.health,
		Sees:    a.seen,
		PathLen: len(a.path),
	}
	if len(a.history) >= historyLen {
		copy(a.history, a.history[1:])
		a.history = a.history[:len(a.history)-1]
	}
	a.history = append(a.history, snap)
}

// debugSnapshots returns recorded snapshots within [from, to].
func (a *Agent) debugSnapshots(from, to int) []AgentDebugSnapshot {
	var out []AgentDebugSnapshot
	for _, s := range a.history {
		if s.Tick >= from && s.Tick <= to {
			out = append(out, s)
		}
	}
	return out
}

// DebugReport describes the last lastTicks ticks of the world: the player,
// every living agent that saw the player recently, and the event log for
// that window. selected, when non-nil, is always included.
func (w *World) DebugReport(selected *Agent, lastTicks int) string {
	if lastTicks <= 0 {
		lastTicks = 120
	}
	toTick := w.tick
	fromTick := max(0, toTick-lastTicks+1)

	var b strings.Builder
	b.WriteString("--- Gridcaster debug report ---\n")
	fmt.Fprintf(&b, "tick_range=[%d..%d] ticks=%d agents=%d alive=%d\n",
		fromTick, toTick, toTick-fromTick+1, len(w.agents), w.AliveAgents())
	p := w.player
	fmt.Fprintf(&b, "player pos=(%.2f,%.2f) heading=%.3f hp=%d reloading=%t\n\n",
		p.Position().X, p.Position().Y, p.Heading(), p.Health(), p.Weapon().Reloading())

	writeTimeline := func(a *Agent) {
		fmt.Fprintf(&b, "== %s (%s) ==\n", a.label, a.ID)
		snaps := a.debugSnapshots(fromTick, toTick)
		if len(snaps) == 0 {
			b.WriteString("(no snapshots recorded yet)\n\n")
			return
		}
		sum := summarizeSnapshots(snaps)
		fmt.Fprintf(&b,
			"summary: idle=%d pursuing=%d attacking=%d pain=%d seen=%d movedTicks=%d maxIdleRun=%d noPath=%d\n",
			sum.idleTicks, sum.pursuingTicks, sum.attackingTicks, sum.painTicks,
			sum.seenTicks, sum.movedTicks, sum.maxIdleRun, sum.noPathTicks)

		var last *SimLogEntry
		events := 0
		for _, e := range w.simLog.FilterAgent(a.label) {
			if e.Tick < fromTick || e.Tick > toTick {
				continue
			}
			events++
			last = &e
		}
		fmt.Fprintf(&b, "events=%d", events)
		if last != nil {
			fmt.Fprintf(&b, " last=%s/%s@T%d", last.Category, last.Key, last.Tick)
		}
		b.WriteByte('\n')

		b.WriteString("stages:\n")
		for i, st := range buildStages(snaps) {
			fmt.Fprintf(&b, "  %02d) T=%d..%d (%dt) state:%s sees:%t moved:%.2f\n",
				i+1, st.startTick, st.endTick, st.count, st.first.State, st.first.Sees, st.movedDistance)
			if st.count <= 3 {
				for _, s := range snaps[st.startIdx : st.endIdx+1] {
					b.WriteString("      ")
					b.WriteString(s.CompactString(a.label))
					b.WriteByte('\n')
				}
			} else {
				b.WriteString("      first: ")
				b.WriteString(st.first.CompactString(a.label))
				b.WriteString("\n      last:  ")
				b.WriteString(st.last.CompactString(a.label))
				b.WriteByte('\n')
			}
		}
		b.WriteByte('\n')
	}

	if selected != nil {
		writeTimeline(selected)
	}
	for _, a := range w.agents {
		if a == selected || !a.Alive() || !a.pursuing {
			continue
		}
		writeTimeline(a)
	}

	b.WriteString("== events ==\n")
	b.WriteString(w.simLog.FormatRange(fromTick, toTick))
	return b.String()
}

type snapshotSummary struct {
	idleTicks      int
	pursuingTicks  int
	attackingTicks int
	painTicks      int
	seenTicks      int
	movedTicks     int
	maxIdleRun     int
	noPathTicks    int
}

func summarizeSnapshots(snaps []AgentDebugSnapshot) snapshotSummary {
	var res snapshotSummary
	idleRun := 0
	for i, s := range snaps {
		switch s.State {
		case StateIdle:
			res.idleTicks++
			idleRun++
			res.maxIdleRun = max(res.maxIdleRun, idleRun)
		case StatePursuing:
			res.pursuingTicks++
			idleRun = 0
			if s.PathLen <= 1 {
				res.noPathTicks++
			}
		case StateAttacking:
			res.attackingTicks++
			idleRun = 0
		case StateInPain:
			res.painTicks++
			idleRun = 0
		default:
			idleRun = 0
		}
		if s.Sees {
			res.seenTicks++
		}
		if i > 0 && s.Pos != snaps[i-1].Pos {
			res.movedTicks++
		}
	}
	return res
}

type reportStage struct {
	startIdx      int
	endIdx        int
	startTick     int
	endTick       int
	count         int
	first         AgentDebugSnapshot
	last          AgentDebugSnapshot
	movedDistance float64
}

// buildStages groups consecutive snapshots that share state and sight.
func buildStages(snaps []AgentDebugSnapshot) []reportStage {
	if len(snaps) == 0 {
		return nil
	}
	same := func(a, b AgentDebugSnapshot) bool {
		return a.State == b.State && a.Sees == b.Sees
	}
	stages := make([]reportStage, 0, 16)
	start := 0
	for i := 1; i < len(snaps); i++ {
		if same(snaps[i], snaps[start]) {
			continue
		}
		stages = append(stages, makeStage(snaps, start, i-1))
		start = i
	}
	return append(stages, makeStage(snaps, start, len(snaps)-1))
}

func makeStage(snaps []AgentDebugSnapshot, start, end int) reportStage {
	first := snaps[start]
	last := snaps[end]
	return reportStage{
		startIdx:      start,
		endIdx:        end,
		startTick:     first.Tick,
		endTick:       last.Tick,
		count:         end - start + 1,
		first:         first,
		last:          last,
		movedDistance: math.Hypot(last.Pos.X-first.Pos.X, last.Pos.Y-first.Pos.Y),
	}
}
