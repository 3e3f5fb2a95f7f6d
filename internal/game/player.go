package game

import (
	"math"
	"time"
)

// Input is one tick of player intent, filled in by a front end.
type Input struct {
	Forward     bool
	Back        bool
	StrafeLeft  bool
	StrafeRight bool
	TurnLeft    bool
	TurnRight   bool
	Fire        bool
	MouseDX     float64 // horizontal mouse motion in pixels since last tick
}

// Player is the camera entity.
type Player struct {
	pos       Vec2
	heading   float64
	health    int
	cfg       PlayerConfig
	weapon    *Weapon
	shotFired bool
}

// NewPlayer spawns the player from config holding weapon.
func NewPlayer(cfg PlayerConfig, weapon *Weapon) *Player {
	return &Player{
		pos:     Vec2{cfg.X, cfg.Y},
		heading: wrapHeading(cfg.Heading),
		health:  cfg.Health,
		cfg:     cfg,
		weapon:  weapon,
	}
}

// Position returns the continuous position.
func (p *Player) Position() Vec2 { return p.pos }

// Tile returns the tile the player stands on.
func (p *Player) Tile() Tile { return p.pos.Tile() }

// Heading is the view direction in [0, 2pi).
func (p *Player) Heading() float64 { return p.heading }

// Health is the remaining health, never negative.
func (p *Player) Health() int { return p.health }

// Alive reports health > 0.
func (p *Player) Alive() bool { return p.health > 0 }

// Weapon returns the held weapon.
func (p *Player) Weapon() *Weapon { return p.weapon }

// ShotFired is true only during the tick a shot left the weapon.
func (p *Player) ShotFired() bool { return p.shotFired }

// TakeDamage removes n health and returns what is left.
func (p *Player) TakeDamage(n int) int {
	p.health = max(0, p.health-n)
	return p.health
}

// Update applies one tick of input: firing, turning, then move-and-slide
// against the grid.
func (p *Player) Update(in Input, grid *Grid, dt time.Duration) {
	p.shotFired = false
	if !p.Alive() {
		return
	}
	if in.Fire && p.weapon.Fire() {
		p.shotFired = true
	}
	p.weapon.Animate(dt)

	secs := dt.Seconds()
	v := p.cfg.Speed * secs
	vSin := math.Sin(p.heading) * v
	vCos := math.Cos(p.heading) * v

	var d Vec2
	if in.Forward {
		d.X += vCos
		d.Y += vSin
	}
	if in.Back {
		d.X -= vCos
		d.Y -= vSin
	}
	if in.StrafeLeft {
		d.X += vSin
		d.Y -= vCos
	}
	if in.StrafeRight {
		d.X -= vSin
		d.Y += vCos
	}
	if in.TurnLeft {
		p.heading -= p.cfg.TurnRate * secs
	}
	if in.TurnRight {
		p.heading += p.cfg.TurnRate * secs
	}
	// Sensitivity is radians per pixel per millisecond.
	p.heading += in.MouseDX * p.cfg.MouseSensitivity * secs * 1000

	p.pos = ResolveMove(grid, p.pos, d, p.cfg.Size, nil)
	p.heading = wrapHeading(p.heading)
}
