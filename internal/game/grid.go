package game

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGrid is returned when map rows cannot be turned into a Grid.
var ErrInvalidGrid = errors.New("invalid grid")

// Tile is an integer cell coordinate on the world lattice.
type Tile struct {
	X, Y int
}

// Vec2 is a continuous position or displacement in tile units.
type Vec2 struct {
	X, Y float64
}

// Tile returns the cell containing v (floor of each component).
func (v Vec2) Tile() Tile {
	return TileOf(v.X, v.Y)
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v-o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// TileOf converts a continuous position to its containing tile.
func TileOf(x, y float64) Tile {
	return Tile{int(math.Floor(x)), int(math.Floor(y))}
}

// Center returns the continuous centre of the tile.
func (t Tile) Center() Vec2 {
	return Vec2{float64(t.X) + 0.5, float64(t.Y) + 0.5}
}

// ManhattanDist returns |dx|+|dy| between two tiles.
func ManhattanDist(a, b Tile) int {
	return absInt(a.X-b.X) + absInt(a.Y-b.Y)
}

// ChebyshevDist returns max(|dx|,|dy|) between two tiles.
func ChebyshevDist(a, b Tile) int {
	return max(absInt(a.X-b.X), absInt(a.Y-b.Y))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Grid is the static tile lattice. A cell value of 0 is open; any positive
// value is an obstructed tile carrying that wall texture id.
type Grid struct {
	cols  int
	rows  int
	cells []int
}

// NewGrid builds a grid from row-major texture ids (rows[y][x]).
// Rows must be non-empty and rectangular, ids must be >= 0.
func NewGrid(rows [][]int) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty map", ErrInvalidGrid)
	}
	cols := len(rows[0])
	g := &Grid{
		cols:  cols,
		rows:  len(rows),
		cells: make([]int, cols*len(rows)),
	}
	for y, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidGrid, y, len(row), cols)
		}
		for x, id := range row {
			if id < 0 {
				return nil, fmt.Errorf("%w: negative texture id %d at (%d,%d)", ErrInvalidGrid, id, x, y)
			}
			g.cells[y*cols+x] = id
		}
	}
	return g, nil
}

// ParseGrid builds a grid from text rows. '.', ' ' and '_' are open tiles;
// digits '1'-'9' are walls with that texture id.
func ParseGrid(lines []string) (*Grid, error) {
	rows := make([][]int, len(lines))
	for y, line := range lines {
		row := make([]int, 0, len(line))
		for x, ch := range line {
			switch {
			case ch == '.' || ch == ' ' || ch == '_':
				row = append(row, 0)
			case ch >= '1' && ch <= '9':
				row = append(row, int(ch-'0'))
			default:
				return nil, fmt.Errorf("%w: unexpected %q at (%d,%d)", ErrInvalidGrid, ch, x, y)
			}
		}
		rows[y] = row
	}
	return NewGrid(rows)
}

// Cols returns the grid width in tiles.
func (g *Grid) Cols() int { return g.cols }

// Rows returns the grid height in tiles.
func (g *Grid) Rows() int { return g.rows }

// InBounds reports whether t lies on the lattice.
func (g *Grid) InBounds(t Tile) bool {
	return t.X >= 0 && t.Y >= 0 && t.X < g.cols && t.Y < g.rows
}

// IsObstructed returns true if the cell at (x, y) blocks movement and rays.
// Out-of-bounds cells are obstructed.
func (g *Grid) IsObstructed(x, y int) bool {
	if x < 0 || y < 0 || x >= g.cols || y >= g.rows {
		return true
	}
	return g.cells[y*g.cols+x] != 0
}

// Walkable is the inverse of IsObstructed for a tile.
func (g *Grid) Walkable(t Tile) bool {
	return !g.IsObstructed(t.X, t.Y)
}

// Texture returns the wall texture id at t, or 0 for open tiles.
// Out-of-bounds tiles report texture 1 so the map edge still draws.
func (g *Grid) Texture(t Tile) int {
	if !g.InBounds(t) {
		return 1
	}
	return g.cells[t.Y*g.cols+t.X]
}

// FreeTiles lists every walkable tile in row-major order.
func (g *Grid) FreeTiles() []Tile {
	var out []Tile
	for y := 0; y < g.rows; y++ {
		for x := 0; x < g.cols; x++ {
			if g.cells[y*g.cols+x] == 0 {
				out = append(out, Tile{x, y})
			}
		}
	}
	return out
}

func (g *Grid) index(t Tile) int {
	return t.Y*g.cols + t.X
}
