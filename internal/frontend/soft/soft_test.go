package soft

import (
	"image"
	"image/color"
	"testing"

	"github.com/Garsondee/Gridcaster/internal/game"
	"github.com/Garsondee/Gridcaster/internal/placeholders"
)

type solidSource struct{ c color.RGBA }

func (s solidSource) Image(game.ImageRef) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = s.c.R, s.c.G, s.c.B, s.c.A
	}
	return img
}

func TestDrawObject_ShadeDarkens(t *testing.T) {
	r := New(20, 20, solidSource{color.RGBA{200, 100, 50, 255}})
	r.DrawObject(game.RenderObject{
		Src:   game.Rect{W: 1, H: 1},
		Dst:   game.Rect{X: 0, Y: 0, W: 10, H: 10},
		Shade: 0.5,
	})
	r.DrawObject(game.RenderObject{
		Src:   game.Rect{W: 1, H: 1},
		Dst:   game.Rect{X: 10, Y: 10, W: 10, H: 10},
		Shade: 1,
	})
	if got := r.Image().RGBAAt(5, 5); got != (color.RGBA{100, 50, 25, 255}) {
		t.Fatalf("shaded pixel = %v", got)
	}
	if got := r.Image().RGBAAt(15, 15); got != (color.RGBA{200, 100, 50, 255}) {
		t.Fatalf("unshaded pixel = %v", got)
	}
	if got := r.Image().RGBAAt(15, 5); got.A != 0 {
		t.Fatalf("untouched pixel = %v", got)
	}
}

func TestDrawObject_OffscreenIsIgnored(t *testing.T) {
	r := New(10, 10, solidSource{color.RGBA{255, 255, 255, 255}})
	r.DrawObject(game.RenderObject{Src: game.Rect{W: 1, H: 1}, Dst: game.Rect{X: 50, Y: 50, W: 5, H: 5}, Shade: 0.3})
	for i := 3; i < len(r.Image().Pix); i += 4 {
		if r.Image().Pix[i] != 0 {
			t.Fatal("offscreen object touched the target")
		}
	}
}

func TestRenderWorld_DrawsWalls(t *testing.T) {
	cfg := game.DefaultConfig()
	cfg.Screen.Width, cfg.Screen.Height = 320, 180
	cfg.Graphics.NumRays = 160
	w, err := game.NewWorld(cfg)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	r := New(cfg.Screen.Width, cfg.Screen.Height, placeholders.NewAtlas())
	img := r.RenderWorld(w)

	mid := img.RGBAAt(cfg.Screen.Width/2, cfg.Screen.Height/2)
	if mid == ceilingColor || mid == floorColor {
		t.Fatalf("centre pixel %v shows no wall", mid)
	}
	if img.RGBAAt(0, 0).A != 255 {
		t.Fatal("ceiling not painted")
	}
}
