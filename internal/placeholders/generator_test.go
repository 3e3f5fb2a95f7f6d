package placeholders

import (
	"testing"

	"github.com/Garsondee/Gridcaster/internal/game"
)

func TestAtlas_CachesImages(t *testing.T) {
	a := NewAtlas()
	ref := game.ImageRef{Sheet: game.WallSheet, Frame: 2}
	first := a.Image(ref)
	if first != a.Image(ref) {
		t.Fatal("second lookup should return the cached image")
	}
	if first.Bounds().Dx() != TextureSize || first.Bounds().Dy() != TextureSize {
		t.Fatalf("wall size = %v", first.Bounds())
	}
}

func TestGenerate_EverySheetInDefaultConfig(t *testing.T) {
	cfg := game.DefaultConfig()
	refs := []game.ImageRef{{Sheet: cfg.Weapon.Sheet, Frame: 1}}
	for id := 1; id <= 9; id++ {
		refs = append(refs, game.ImageRef{Sheet: game.WallSheet, Frame: id})
	}
	for _, k := range cfg.Agents {
		for _, anim := range []string{"idle", "walk", "attack", "pain", "death"} {
			refs = append(refs, game.ImageRef{Sheet: k.Name + "/" + anim, Frame: 3})
		}
	}
	for _, s := range cfg.Sprites {
		refs = append(refs, game.ImageRef{Sheet: s.Sheet})
	}
	for _, ref := range refs {
		img := Generate(ref)
		if img == nil || img.Bounds().Empty() {
			t.Fatalf("no image for %+v", ref)
		}
	}
}

func TestWallColor_FallsBack(t *testing.T) {
	if WallColor(42) != WallColor(1) {
		t.Fatal("unknown texture ids should use the stone colour")
	}
	if WallColor(2) == WallColor(3) {
		t.Fatal("texture ids should be distinguishable")
	}
}

func TestFigure_DeathCollapses(t *testing.T) {
	standing := Figure("soldier", "death", 0)
	fallen := Figure("soldier", "death", 8)
	// Head row of the standing pose is empty once fallen.
	if standing.RGBAAt(32, 10).A == 0 {
		t.Fatal("standing figure should have a head at the top")
	}
	if fallen.RGBAAt(32, 10).A != 0 {
		t.Fatal("fallen figure should have cleared the top rows")
	}
}
