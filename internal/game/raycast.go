package game

import "math"

// NoHitDepth is reported by rays that found no obstruction within MaxDepth.
// It sorts behind everything else.
var NoHitDepth = math.Inf(1)

// dirEpsilon is the smallest direction component treated as non-zero.
const dirEpsilon = 1e-9

// boundaryNudge moves a start point just across a grid line so the floor
// lands in the tile on the far side.
const boundaryNudge = 1e-6

// Ray is the result of one cast.
type Ray struct {
	Column          int     // screen column index in a field-of-view scan
	Angle           float64 // absolute bearing in radians
	Depth           float64 // distance to the hit, fish-eye corrected in FOV scans
	Texture         int     // wall texture id, 0 when Hit is false
	Offset          float64 // fractional position across the hit face, [0,1)
	ProjectedHeight float64 // screen-space wall height in pixels
	Vertical        bool    // true when an x-boundary (vertical grid line) was hit
	Hit             bool
}

// RayCaster traces rays through a Grid using digital differential analysis.
type RayCaster struct {
	grid *Grid
	proj Projection
}

// NewRayCaster creates a caster over grid using the projection constants.
func NewRayCaster(grid *Grid, proj Projection) *RayCaster {
	return &RayCaster{grid: grid, proj: proj}
}

// Projection returns the projection the caster was built with.
func (rc *RayCaster) Projection() Projection { return rc.proj }

// axisHit is the outcome of one of the two boundary scans.
type axisHit struct {
	depth   float64
	texture int
	x, y    float64 // hit point
	hit     bool
}

// Cast traces a single ray from origin along the direction (cos, sin) and
// returns the raw (uncorrected) depth to the nearest obstructed tile.
func (rc *RayCaster) Cast(origin Vec2, sin, cos float64) Ray {
	tile := origin.Tile()
	hor := rc.scanHorizontal(origin, tile, sin, cos)
	vert := rc.scanVertical(origin, tile, sin, cos)

	switch {
	case !hor.hit && !vert.hit:
		return Ray{Angle: math.Atan2(sin, cos), Depth: NoHitDepth}
	case vert.hit && (!hor.hit || vert.depth < hor.depth):
		frac := vert.y - math.Floor(vert.y)
		offset := frac
		if cos <= 0 {
			offset = 1 - frac
		}
		return Ray{
			Angle:    math.Atan2(sin, cos),
			Depth:    vert.depth,
			Texture:  vert.texture,
			Offset:   wrapUnit(offset),
			Vertical: true,
			Hit:      true,
		}
	default:
		frac := hor.x - math.Floor(hor.x)
		offset := frac
		if sin > 0 {
			offset = 1 - frac
		}
		return Ray{
			Angle:   math.Atan2(sin, cos),
			Depth:   hor.depth,
			Texture: hor.texture,
			Offset:  wrapUnit(offset),
			Hit:     true,
		}
	}
}

// CastAngle is Cast for an absolute bearing.
func (rc *RayCaster) CastAngle(origin Vec2, angle float64) Ray {
	return rc.Cast(origin, math.Sin(angle), math.Cos(angle))
}

// scanHorizontal walks the y = integer grid lines.
func (rc *RayCaster) scanHorizontal(origin Vec2, tile Tile, sin, cos float64) axisHit {
	if math.Abs(sin) < dirEpsilon {
		return axisHit{}
	}
	var y, dy float64
	if sin > 0 {
		y, dy = float64(tile.Y+1), 1
	} else {
		y, dy = float64(tile.Y)-boundaryNudge, -1
	}
	depth := (y - origin.Y) / sin
	x := origin.X + depth*cos
	deltaDepth := dy / sin
	dx := deltaDepth * cos

	for i := 0; i < rc.proj.MaxDepth; i++ {
		t := TileOf(x, y)
		if rc.grid.IsObstructed(t.X, t.Y) {
			return axisHit{depth: depth, texture: rc.grid.Texture(t), x: x, y: y, hit: true}
		}
		x += dx
		y += dy
		depth += deltaDepth
	}
	return axisHit{}
}

// scanVertical walks the x = integer grid lines.
func (rc *RayCaster) scanVertical(origin Vec2, tile Tile, sin, cos float64) axisHit {
	if math.Abs(cos) < dirEpsilon {
		return axisHit{}
	}
	var x, dx float64
	if cos > 0 {
		x, dx = float64(tile.X+1), 1
	} else {
		x, dx = float64(tile.X)-boundaryNudge, -1
	}
	depth := (x - origin.X) / cos
	y := origin.Y + depth*sin
	deltaDepth := dx / cos
	dy := deltaDepth * sin

	for i := 0; i < rc.proj.MaxDepth; i++ {
		t := TileOf(x, y)
		if rc.grid.IsObstructed(t.X, t.Y) {
			return axisHit{depth: depth, texture: rc.grid.Texture(t), x: x, y: y, hit: true}
		}
		x += dx
		y += dy
		depth += deltaDepth
	}
	return axisHit{}
}

// CastFieldOfView casts one ray per column across the field of view
// centred on heading. Depths are fish-eye corrected and converted to
// projected wall heights.
func (rc *RayCaster) CastFieldOfView(origin Vec2, heading float64) []Ray {
	rays := make([]Ray, rc.proj.NumRays)
	angle := heading - rc.proj.HalfFOV
	for i := range rays {
		r := rc.Cast(origin, math.Sin(angle), math.Cos(angle))
		r.Column = i
		r.Angle = angle
		if r.Hit {
			r.Depth *= math.Cos(heading - angle)
			r.ProjectedHeight = rc.proj.ScreenDist / (r.Depth + 1e-4)
		}
		rays[i] = r
		angle += rc.proj.DeltaAngle
	}
	return rays
}

// wrapUnit folds v into [0,1).
func wrapUnit(v float64) float64 {
	v -= math.Floor(v)
	if v >= 1 {
		return 0
	}
	return v
}
