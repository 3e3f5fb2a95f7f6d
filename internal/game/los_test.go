package game

import "testing"

func TestIsVisible_SameTileIsFalse(t *testing.T) {
	rc := NewRayCaster(boxGrid(t), testProjection())
	p := Vec2{4.5, 4.5}
	if rc.IsVisible(p, p) {
		t.Fatal("a point must not see itself")
	}
	if rc.IsVisible(p, Vec2{4.9, 4.1}) {
		t.Fatal("positions sharing a tile must not see each other")
	}
}

func TestIsVisible_OpenRoom(t *testing.T) {
	rc := NewRayCaster(boxGrid(t), testProjection())
	if !rc.IsVisible(Vec2{1.5, 1.5}, Vec2{8.5, 8.5}) {
		t.Fatal("opposite corners of an empty room should see each other")
	}
}

func TestIsVisible_BlockedByWall(t *testing.T) {
	g := mustGrid(t,
		"1111111",
		"1..1..1",
		"1..1..1",
		"1111111",
	)
	rc := NewRayCaster(g, testProjection())
	a, b := Vec2{1.5, 1.5}, Vec2{5.5, 1.5}
	if rc.IsVisible(a, b) || rc.IsVisible(b, a) {
		t.Fatal("wall at x=3 should block sight both ways")
	}
}

func TestHeadingTo(t *testing.T) {
	if h := HeadingTo(0, 0, 0, 1); h < 1.5707 || h > 1.5708 {
		t.Fatalf("HeadingTo south = %.4f, want pi/2", h)
	}
}

func TestWrapHeading(t *testing.T) {
	for _, a := range []float64{-7, -0.1, 0, 3, 6.5, 100} {
		w := wrapHeading(a)
		if w < 0 || w >= 6.283185307179586 {
			t.Fatalf("wrapHeading(%v) = %v outside [0,2pi)", a, w)
		}
	}
}
