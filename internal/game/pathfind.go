package game

import (
	"github.com/sirupsen/logrus"
)

// neighbourDirs lists the eight moves in search order. Orthogonal moves come
// first so equal-length paths prefer straight runs over zig-zags.
var neighbourDirs = [8][2]int{
	{-1, 0}, {0, -1}, {0, 1}, {1, 0},
	{-1, -1}, {-1, 1}, {1, -1}, {1, 1},
}

// Occupancy is the set of tiles held by living agents at the start of a tick.
// It is built once per tick and never mutated afterwards.
type Occupancy map[Tile]struct{}

// Has reports whether t is occupied.
func (o Occupancy) Has(t Tile) bool {
	_, ok := o[t]
	return ok
}

// BlockedFor returns a BlockedFunc that refuses occupied tiles other than
// self.
func (o Occupancy) BlockedFor(self Tile) BlockedFunc {
	return func(t Tile) bool {
		return t != self && o.Has(t)
	}
}

// Pathfinder runs breadth-first searches over the walkable tiles of a Grid.
// The adjacency graph is built once at construction.
type Pathfinder struct {
	grid  *Grid
	graph [][]Tile // indexed by grid.index; nil for obstructed tiles
	log   logrus.FieldLogger
}

// NewPathfinder precomputes the 8-way adjacency of every walkable tile.
// Diagonal steps are only linked when both orthogonal tiles they pass
// between are walkable.
func NewPathfinder(grid *Grid, log logrus.FieldLogger) *Pathfinder {
	if log == nil {
		log = logrus.StandardLogger()
	}
	pf := &Pathfinder{
		grid:  grid,
		graph: make([][]Tile, grid.cols*grid.rows),
		log:   log.WithField("component", "pathfinder"),
	}
	for y := 0; y < grid.rows; y++ {
		for x := 0; x < grid.cols; x++ {
			if grid.IsObstructed(x, y) {
				continue
			}
			moves := make([]Tile, 0, len(neighbourDirs))
			for _, d := range neighbourDirs {
				nx, ny := x+d[0], y+d[1]
				if grid.IsObstructed(nx, ny) {
					continue
				}
				if d[0] != 0 && d[1] != 0 {
					if grid.IsObstructed(x+d[0], y) || grid.IsObstructed(x, y+d[1]) {
						continue
					}
				}
				moves = append(moves, Tile{nx, ny})
			}
			pf.graph[grid.index(Tile{x, y})] = moves
		}
	}
	return pf
}

// Neighbours returns the precomputed moves out of t.
func (pf *Pathfinder) Neighbours(t Tile) []Tile {
	if !pf.grid.InBounds(t) {
		return nil
	}
	return pf.graph[pf.grid.index(t)]
}

// FindPath returns the tiles from target back to start: path[0] is target,
// path[len-1] is start. Tiles in blocked are never expanded. When target
// cannot be reached the result is the single-element path [start].
func (pf *Pathfinder) FindPath(start, target Tile, blocked Occupancy) []Tile {
	if start == target {
		return []Tile{start}
	}
	if !pf.grid.Walkable(start) || !pf.grid.Walkable(target) {
		pf.noPath(start, target)
		return []Tile{start}
	}

	const unvisited = -1
	parent := make([]int, len(pf.graph))
	for i := range parent {
		parent[i] = unvisited
	}
	startIdx := pf.grid.index(start)
	targetIdx := pf.grid.index(target)
	parent[startIdx] = startIdx

	queue := []Tile{start}
	found := false
	for head := 0; head < len(queue); head++ {
		node := queue[head]
		if node == target {
			found = true
			break
		}
		nodeIdx := pf.grid.index(node)
		for _, next := range pf.graph[nodeIdx] {
			ni := pf.grid.index(next)
			if parent[ni] != unvisited {
				continue
			}
			if blocked.Has(next) {
				continue
			}
			parent[ni] = nodeIdx
			queue = append(queue, next)
		}
	}
	if !found {
		pf.noPath(start, target)
		return []Tile{start}
	}

	path := []Tile{target}
	for idx := targetIdx; idx != startIdx; {
		idx = parent[idx]
		path = append(path, Tile{idx % pf.grid.cols, idx / pf.grid.cols})
	}
	return path
}

func (pf *Pathfinder) noPath(start, target Tile) {
	pf.log.WithFields(logrus.Fields{
		"start":  start,
		"target": target,
	}).Debug("no path found")
}

// NextHop returns the tile after start on a FindPath result, i.e. the
// second-to-last element. ok is false for single-element paths.
func NextHop(path []Tile) (Tile, bool) {
	if len(path) < 2 {
		return Tile{}, false
	}
	return path[len(path)-2], true
}
