package game

import (
	"math"
	"testing"
	"time"
)

func testPlayer(x, y, heading float64) *Player {
	cfg := DefaultConfig()
	cfg.Player.X, cfg.Player.Y, cfg.Player.Heading = x, y, heading
	return NewPlayer(cfg.Player, NewWeapon(cfg.Weapon))
}

func TestPlayer_MoveAndStrafe(t *testing.T) {
	g := boxGrid(t)
	dt := 100 * time.Millisecond

	p := testPlayer(5, 5, 0)
	p.Update(Input{Forward: true}, g, dt)
	if math.Abs(p.Position().X-5.4) > 1e-9 || math.Abs(p.Position().Y-5) > 1e-9 {
		t.Fatalf("forward: %v, want (5.4,5)", p.Position())
	}

	p = testPlayer(5, 5, 0)
	p.Update(Input{StrafeRight: true}, g, dt)
	if math.Abs(p.Position().Y-5.4) > 1e-9 {
		t.Fatalf("strafe right facing east should move south: %v", p.Position())
	}
}

func TestPlayer_TurnWraps(t *testing.T) {
	g := boxGrid(t)
	p := testPlayer(5, 5, 0.1)
	p.Update(Input{TurnLeft: true}, g, 100*time.Millisecond)
	want := 2*math.Pi - 0.1
	if math.Abs(p.Heading()-want) > 1e-9 {
		t.Fatalf("heading = %v, want %v", p.Heading(), want)
	}

	p = testPlayer(5, 5, 0)
	p.Update(Input{MouseDX: 10}, g, 100*time.Millisecond)
	if math.Abs(p.Heading()-0.3) > 1e-9 {
		t.Fatalf("mouse turn heading = %v, want 0.3", p.Heading())
	}
}

func TestPlayer_StopsAtWalls(t *testing.T) {
	g := boxGrid(t)
	p := testPlayer(8.5, 5, 0)
	for i := 0; i < 20; i++ {
		p.Update(Input{Forward: true}, g, 50*time.Millisecond)
	}
	if p.Position().X+p.cfg.Size >= 9 {
		t.Fatalf("player pushed into the wall: %v", p.Position())
	}
}

func TestPlayer_DamageAndDeath(t *testing.T) {
	g := boxGrid(t)
	p := testPlayer(5, 5, 0)
	if left := p.TakeDamage(30); left != 70 {
		t.Fatalf("health = %d, want 70", left)
	}
	p.TakeDamage(500)
	if p.Health() != 0 || p.Alive() {
		t.Fatalf("health = %d alive %t, want 0 false", p.Health(), p.Alive())
	}
	before := p.Position()
	p.Update(Input{Forward: true, Fire: true}, g, 100*time.Millisecond)
	if p.Position() != before || p.ShotFired() {
		t.Fatal("dead players neither move nor shoot")
	}
}

func TestWeapon_ReloadGatesFire(t *testing.T) {
	w := NewWeapon(DefaultConfig().Weapon)
	if !w.Fire() {
		t.Fatal("first shot should fire")
	}
	if w.Fire() {
		t.Fatal("fired while reloading")
	}
	// Six frames at 90ms: the reload ends after 540ms.
	w.Animate(500 * time.Millisecond)
	if !w.Reloading() {
		t.Fatal("reload ended early")
	}
	w.Animate(40 * time.Millisecond)
	if w.Reloading() {
		t.Fatal("reload should be over")
	}
	if !w.Fire() {
		t.Fatal("should fire after reload")
	}
}

func TestPlayer_ShotFlagLastsOneTick(t *testing.T) {
	g := boxGrid(t)
	p := testPlayer(5, 5, 0)
	p.Update(Input{Fire: true}, g, 10*time.Millisecond)
	if !p.ShotFired() {
		t.Fatal("shot should register")
	}
	p.Update(Input{Fire: true}, g, 10*time.Millisecond)
	if p.ShotFired() {
		t.Fatal("holding fire while reloading must not shoot again")
	}
}
