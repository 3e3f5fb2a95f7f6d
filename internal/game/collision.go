package game

// corners are the bounding-box offsets checked by the collision resolver.
var corners = [4][2]float64{{1, 1}, {1, -1}, {-1, -1}, {-1, 1}}

// BlockedFunc reports whether a destination tile is refused for reasons
// other than walls, e.g. another agent standing there.
type BlockedFunc func(Tile) bool

// ClearAt returns true if a box of half-extent size centred on (x, y)
// touches no obstructed tile.
func (g *Grid) ClearAt(x, y, size float64) bool {
	for _, c := range corners {
		t := TileOf(x+c[0]*size, y+c[1]*size)
		if g.IsObstructed(t.X, t.Y) {
			return false
		}
	}
	return true
}

// ResolveMove applies delta to pos one axis at a time. Each axis is kept
// only if the moved box is clear of walls and, when blocked is non-nil,
// its centre tile is not refused. Blocking one axis never cancels the other,
// which gives wall sliding.
func ResolveMove(g *Grid, pos, delta Vec2, size float64, blocked BlockedFunc) Vec2 {
	if delta.X != 0 {
		nx := pos.X + delta.X
		if g.ClearAt(nx, pos.Y, size) && (blocked == nil || !blocked(TileOf(nx, pos.Y))) {
			pos.X = nx
		}
	}
	if delta.Y != 0 {
		ny := pos.Y + delta.Y
		if g.ClearAt(pos.X, ny, size) && (blocked == nil || !blocked(TileOf(pos.X, ny))) {
			pos.Y = ny
		}
	}
	return pos
}
