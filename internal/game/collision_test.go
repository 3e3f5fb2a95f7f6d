package game

import (
	"math"
	"testing"
)

func TestResolveMove_FreeSpace(t *testing.T) {
	g := boxGrid(t)
	got := ResolveMove(g, Vec2{5, 5}, Vec2{0.3, -0.2}, 0.2, nil)
	if math.Abs(got.X-5.3) > 1e-9 || math.Abs(got.Y-4.8) > 1e-9 {
		t.Fatalf("got %v, want (5.3,4.8)", got)
	}
}

func TestResolveMove_SlidesAlongWall(t *testing.T) {
	g := boxGrid(t)
	// Pressed against the east wall (x=9), moving diagonally: x is refused,
	// y still applies.
	pos := Vec2{8.7, 5}
	got := ResolveMove(g, pos, Vec2{0.2, 0.2}, 0.2, nil)
	if got.X != pos.X {
		t.Fatalf("x moved into wall: %v", got)
	}
	if math.Abs(got.Y-5.2) > 1e-9 {
		t.Fatalf("y did not slide: %v", got)
	}
}

func TestResolveMove_Corner(t *testing.T) {
	g := boxGrid(t)
	pos := Vec2{8.7, 8.7}
	got := ResolveMove(g, pos, Vec2{0.2, 0.2}, 0.2, nil)
	if got != pos {
		t.Fatalf("moved into corner: %v", got)
	}
}

func TestResolveMove_BlockedTile(t *testing.T) {
	g := boxGrid(t)
	occupied := Occupancy{{6, 5}: {}}
	blocked := occupied.BlockedFor(Tile{5, 5})
	got := ResolveMove(g, Vec2{5.9, 5.5}, Vec2{0.2, 0}, 0.1, blocked)
	if got.X != 5.9 {
		t.Fatalf("entered occupied tile: %v", got)
	}
	// The mover's own tile is never refused.
	got = ResolveMove(g, Vec2{5.3, 5.5}, Vec2{0.2, 0}, 0.1, blocked)
	if math.Abs(got.X-5.5) > 1e-9 {
		t.Fatalf("move within own tile refused: %v", got)
	}
}

func TestClearAt(t *testing.T) {
	g := boxGrid(t)
	if !g.ClearAt(5, 5, 0.4) {
		t.Fatal("open centre should be clear")
	}
	if g.ClearAt(1.1, 5, 0.2) {
		t.Fatal("box overlapping the west wall should not be clear")
	}
}
