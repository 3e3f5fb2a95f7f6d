package game

import "math"

// IsVisible returns true if a straight line from observer to target is not
// interrupted by a wall. It casts a single ray along the bearing and compares
// the wall depth with the straight-line distance. Entities sharing a tile are
// never visible to each other (the bearing is degenerate).
func (rc *RayCaster) IsVisible(observer, target Vec2) bool {
	if observer.Tile() == target.Tile() {
		return false
	}
	dist := target.Sub(observer).Len()
	theta := HeadingTo(observer.X, observer.Y, target.X, target.Y)
	wall := rc.Cast(observer, math.Sin(theta), math.Cos(theta))
	return dist < wall.Depth
}

// HeadingTo returns the angle in radians from (ox,oy) toward (tx,ty).
func HeadingTo(ox, oy, tx, ty float64) float64 {
	return math.Atan2(ty-oy, tx-ox)
}

// normalizeAngle wraps an angle to [-pi, pi].
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// wrapHeading wraps an angle to [0, 2pi).
func wrapHeading(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
