package game

import "time"

// Weapon is the player's gun. A shot can only be fired while the previous
// shot's animation is not playing.
type Weapon struct {
	sheet     string
	damage    int
	scale     float64
	aspect    float64
	anim      Animation
	reloading bool
}

// NewWeapon builds a weapon from config.
func NewWeapon(cfg WeaponConfig) *Weapon {
	return &Weapon{
		sheet:  cfg.Sheet,
		damage: cfg.Damage,
		scale:  cfg.Scale,
		aspect: cfg.Aspect,
		anim:   NewAnimation(cfg.Frames, cfg.FrameTime, false),
	}
}

// Damage is the health removed from an agent per hit.
func (w *Weapon) Damage() int { return w.damage }

// Reloading reports whether the fire animation is still playing.
func (w *Weapon) Reloading() bool { return w.reloading }

// Fire starts a shot. It returns false while reloading.
func (w *Weapon) Fire() bool {
	if w.reloading {
		return false
	}
	w.reloading = true
	w.anim.Reset()
	return true
}

// Animate plays the fire animation and ends the reload when it completes.
func (w *Weapon) Animate(dt time.Duration) {
	if !w.reloading {
		return
	}
	w.anim.Advance(dt)
	if w.anim.Finished() {
		w.reloading = false
		w.anim.Reset()
	}
}

// RenderObject pins the weapon to the bottom centre of the screen at depth 0
// so it is always drawn last.
func (w *Weapon) RenderObject(v View) (RenderObject, bool) {
	h := float64(v.Proj.Height) * w.scale
	width := h * w.aspect
	return RenderObject{
		Depth: 0,
		Kind:  KindWeapon,
		Image: ImageRef{Sheet: w.sheet, Frame: w.anim.Frame()},
		Src:   Rect{W: 1, H: 1},
		Dst: Rect{
			X: v.Proj.HalfWidth - width/2,
			Y: float64(v.Proj.Height) - h,
			W: width,
			H: h,
		},
		Shade: 1,
	}, true
}
