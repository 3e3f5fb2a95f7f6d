package game

import (
	"math"
	"time"
)

// View is the camera a frame is rendered from.
type View struct {
	Pos     Vec2
	Heading float64
	Proj    Projection
}

// Positioned is anything with a continuous world position.
type Positioned interface {
	Position() Vec2
}

// Renderable produces at most one RenderObject for a view.
type Renderable interface {
	RenderObject(v View) (RenderObject, bool)
}

// Animated advances its frames by simulated time.
type Animated interface {
	Animate(dt time.Duration)
}

// Billboard is the on-screen sizing of a camera-facing image.
type Billboard struct {
	Scale       float64
	HeightShift float64 // fraction of height to push the image down
	Aspect      float64 // width / height
}

// Projection of a billboard onto the screen.
type Projected struct {
	ScreenX   float64 // centre column in pixels
	HalfWidth float64
	Depth     float64 // perpendicular distance
	Dst       Rect
}

// ProjectBillboard maps a world position to screen space. ok is false when
// the point is behind the near clip distance or entirely off screen.
func ProjectBillboard(v View, pos Vec2, b Billboard) (Projected, bool) {
	d := pos.Sub(v.Pos)
	theta := math.Atan2(d.Y, d.X)
	delta := normalizeAngle(theta - v.Heading)

	screenX := (v.Proj.HalfNumRays + delta/v.Proj.DeltaAngle) * v.Proj.ColumnWidth
	norm := d.Len() * math.Cos(delta)
	if norm < v.Proj.NearClip {
		return Projected{}, false
	}

	height := v.Proj.ScreenDist / norm * b.Scale
	width := height * b.Aspect
	halfW := width / 2
	if screenX <= -halfW || screenX >= float64(v.Proj.Width)+halfW {
		return Projected{}, false
	}
	return Projected{
		ScreenX:   screenX,
		HalfWidth: halfW,
		Depth:     norm,
		Dst: Rect{
			X: screenX - halfW,
			Y: v.Proj.HalfHeight - height/2 + height*b.HeightShift,
			W: width,
			H: height,
		},
	}, true
}

// Sprite is a decoration placed in the world.
type Sprite interface {
	Positioned
	Renderable
}

// StaticSprite is a single-image decoration.
type StaticSprite struct {
	pos   Vec2
	sheet string
	board Billboard
}

// NewStaticSprite places a one-frame decoration.
func NewStaticSprite(sheet string, pos Vec2, board Billboard) *StaticSprite {
	return &StaticSprite{pos: pos, sheet: sheet, board: board}
}

// Position returns the sprite position.
func (s *StaticSprite) Position() Vec2 { return s.pos }

// RenderObject projects the sprite.
func (s *StaticSprite) RenderObject(v View) (RenderObject, bool) {
	return billboardObject(v, s.pos, s.board, KindSprite, ImageRef{Sheet: s.sheet})
}

// AnimatedSprite is a looping multi-frame decoration.
type AnimatedSprite struct {
	StaticSprite
	anim Animation
}

// NewAnimatedSprite places a looping decoration.
func NewAnimatedSprite(sheet string, pos Vec2, board Billboard, frames int, frameTime time.Duration) *AnimatedSprite {
	return &AnimatedSprite{
		StaticSprite: StaticSprite{pos: pos, sheet: sheet, board: board},
		anim:         NewAnimation(frames, frameTime, true),
	}
}

// Animate advances the loop.
func (s *AnimatedSprite) Animate(dt time.Duration) { s.anim.Advance(dt) }

// RenderObject projects the current frame.
func (s *AnimatedSprite) RenderObject(v View) (RenderObject, bool) {
	return billboardObject(v, s.pos, s.board, KindSprite, ImageRef{Sheet: s.sheet, Frame: s.anim.Frame()})
}

// NewSpriteFromDef builds the right variant for a config entry.
func NewSpriteFromDef(def SpriteDef) Sprite {
	board := Billboard{Scale: def.Scale, HeightShift: def.HeightShift, Aspect: def.Aspect}
	pos := Vec2{def.X, def.Y}
	if def.Frames > 1 {
		return NewAnimatedSprite(def.Sheet, pos, board, def.Frames, def.FrameTime)
	}
	return NewStaticSprite(def.Sheet, pos, board)
}

func billboardObject(v View, pos Vec2, b Billboard, kind ObjectKind, img ImageRef) (RenderObject, bool) {
	p, ok := ProjectBillboard(v, pos, b)
	if !ok {
		return RenderObject{}, false
	}
	return RenderObject{
		Depth: p.Depth,
		Kind:  kind,
		Image: img,
		Src:   Rect{W: 1, H: 1},
		Dst:   p.Dst,
		Shade: DistanceShade(p.Depth),
	}, true
}
