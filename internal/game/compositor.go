package game

import (
	"image"
	"math"
	"sort"
)

// ObjectKind tags what a RenderObject was produced from.
type ObjectKind uint8

const (
	KindWall   ObjectKind = iota // one wall column
	KindSprite                   // decoration
	KindAgent                    // agent billboard
	KindWeapon                   // foreground overlay
)

func (k ObjectKind) String() string {
	switch k {
	case KindWall:
		return "wall"
	case KindSprite:
		return "sprite"
	case KindAgent:
		return "agent"
	case KindWeapon:
		return "weapon"
	default:
		return "unknown"
	}
}

// WallSheet is the ImageRef sheet for wall textures; Frame is the texture id.
const WallSheet = "walls"

// ImageRef is an opaque handle into the front end's image store.
type ImageRef struct {
	Sheet string
	Frame int
}

// Rect is a screen-space rectangle in pixels.
type Rect struct {
	X, Y, W, H float64
}

// RenderObject is the uniform drawable produced each frame for wall columns,
// sprites, agents and the weapon.
type RenderObject struct {
	Depth float64
	Kind  ObjectKind
	Image ImageRef
	// Src is the sampled part of the image in normalised [0,1] coordinates.
	Src Rect
	// Dst is where the sample lands on screen.
	Dst Rect
	// Shade is a brightness multiplier in (0,1] derived from depth.
	Shade float64
}

// SourceRect converts Src to pixels of a w x h image. A zero Src.W selects
// a single texel column. The result is never empty.
func (o RenderObject) SourceRect(w, h int) image.Rectangle {
	x0 := min(max(int(o.Src.X*float64(w)), 0), w-1)
	x1 := x0 + 1
	if o.Src.W > 0 {
		x1 = min(max(int((o.Src.X+o.Src.W)*float64(w)), x0+1), w)
	}
	y0 := min(max(int(o.Src.Y*float64(h)), 0), h-1)
	y1 := min(max(int((o.Src.Y+o.Src.H)*float64(h)), y0+1), h)
	return image.Rect(x0, y0, x1, y1)
}

// DestRect rounds Dst to whole pixels.
func (o RenderObject) DestRect() image.Rectangle {
	return image.Rect(
		int(math.Round(o.Dst.X)),
		int(math.Round(o.Dst.Y)),
		int(math.Round(o.Dst.X+o.Dst.W)),
		int(math.Round(o.Dst.Y+o.Dst.H)),
	)
}

// Drawer receives composited objects in back-to-front order.
//
//go:generate go tool mockgen -destination=./mocks/drawer_mock.go -package=mocks . Drawer
type Drawer interface {
	DrawObject(obj RenderObject)
}

// Composite returns the objects sorted farthest first. Objects at equal
// depth keep their input order. The input slice is not modified.
func Composite(objs []RenderObject) []RenderObject {
	out := make([]RenderObject, len(objs))
	copy(out, objs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Depth > out[j].Depth
	})
	return out
}

// DrawAll composites objs and hands them to d in order.
func DrawAll(d Drawer, objs []RenderObject) {
	for _, o := range Composite(objs) {
		d.DrawObject(o)
	}
}

// DistanceShade is the brightness falloff used for every object.
func DistanceShade(depth float64) float64 {
	if math.IsInf(depth, 1) {
		return 0
	}
	return 1 / (1 + math.Pow(depth, 5)*2e-5)
}

// WallColumns turns a field-of-view scan into wall RenderObjects. Columns
// taller than the viewport are clipped: the screen rect is capped to the
// viewport and the sampled texture slice shrinks around its centre. Rays that
// hit nothing produce no column.
func WallColumns(rays []Ray, proj Projection) []RenderObject {
	out := make([]RenderObject, 0, len(rays))
	viewH := float64(proj.Height)
	for _, r := range rays {
		if !r.Hit {
			continue
		}
		h := r.ProjectedHeight
		// W == 0 marks a one-texel strip starting at X.
		src := Rect{X: r.Offset, Y: 0, W: 0, H: 1}
		dst := Rect{
			X: float64(r.Column) * proj.ColumnWidth,
			Y: proj.HalfHeight - h/2,
			W: proj.ColumnWidth,
			H: h,
		}
		if h > viewH {
			frac := viewH / h
			src.Y = (1 - frac) / 2
			src.H = frac
			dst.Y = 0
			dst.H = viewH
		}
		out = append(out, RenderObject{
			Depth: r.Depth,
			Kind:  KindWall,
			Image: ImageRef{Sheet: WallSheet, Frame: r.Texture},
			Src:   src,
			Dst:   dst,
			Shade: DistanceShade(r.Depth),
		})
	}
	return out
}
