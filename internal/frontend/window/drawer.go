package window

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Gridcaster/internal/game"
)

// ImageSource supplies the pixels behind an ImageRef.
type ImageSource interface {
	Image(ref game.ImageRef) *image.RGBA
}

// imageDrawer draws render objects onto an ebiten image, uploading each
// source image to the GPU once.
type imageDrawer struct {
	src    ImageSource
	cache  map[game.ImageRef]*ebiten.Image
	target *ebiten.Image
}

func newImageDrawer(src ImageSource) *imageDrawer {
	return &imageDrawer{src: src, cache: make(map[game.ImageRef]*ebiten.Image)}
}

func (d *imageDrawer) texture(ref game.ImageRef) *ebiten.Image {
	if img, ok := d.cache[ref]; ok {
		return img
	}
	img := ebiten.NewImageFromImage(d.src.Image(ref))
	d.cache[ref] = img
	return img
}

// DrawObject scales the sampled part of the texture into Dst and darkens it
// by Shade.
func (d *imageDrawer) DrawObject(obj game.RenderObject) {
	tex := d.texture(obj.Image)
	b := tex.Bounds()
	sr := obj.SourceRect(b.Dx(), b.Dy())
	sub := tex.SubImage(sr).(*ebiten.Image)

	var op ebiten.DrawImageOptions
	op.GeoM.Scale(obj.Dst.W/float64(sr.Dx()), obj.Dst.H/float64(sr.Dy()))
	op.GeoM.Translate(obj.Dst.X, obj.Dst.Y)
	if obj.Shade < 1 {
		s := float32(obj.Shade)
		op.ColorScale.Scale(s, s, s, 1)
	}
	d.target.DrawImage(sub, &op)
}
