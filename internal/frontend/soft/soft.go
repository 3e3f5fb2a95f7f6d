// Package soft renders frames into an in-memory image.RGBA.
package soft

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"

	"github.com/Garsondee/Gridcaster/internal/game"
)

// ImageSource resolves image handles to pixels.
type ImageSource interface {
	Image(ref game.ImageRef) *image.RGBA
}

var (
	ceilingColor = color.RGBA{30, 30, 36, 255}
	floorColor   = color.RGBA{58, 52, 46, 255}
)

// Renderer is a game.Drawer backed by an *image.RGBA.
type Renderer struct {
	dst     *image.RGBA
	src     ImageSource
	scaler  xdraw.Scaler
	scratch *image.RGBA
}

// New creates a renderer with a w x h target.
func New(w, h int, src ImageSource) *Renderer {
	return &Renderer{
		dst:    image.NewRGBA(image.Rect(0, 0, w, h)),
		src:    src,
		scaler: xdraw.NearestNeighbor,
	}
}

// WithScaler swaps the sampling kernel, e.g. xdraw.ApproxBiLinear for
// smoother still snapshots.
func (r *Renderer) WithScaler(s xdraw.Scaler) *Renderer {
	r.scaler = s
	return r
}

// Image is the render target.
func (r *Renderer) Image() *image.RGBA { return r.dst }

// Clear paints the ceiling and floor halves.
func (r *Renderer) Clear() {
	b := r.dst.Bounds()
	half := b.Dy() / 2
	draw.Draw(r.dst, image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+half), &image.Uniform{ceilingColor}, image.Point{}, draw.Src)
	draw.Draw(r.dst, image.Rect(b.Min.X, b.Min.Y+half, b.Max.X, b.Max.Y), &image.Uniform{floorColor}, image.Point{}, draw.Src)
}

// DrawObject scales the object's source slice into its screen rectangle,
// darkened by its shade.
func (r *Renderer) DrawObject(obj game.RenderObject) {
	img := r.src.Image(obj.Image)
	if img == nil {
		return
	}
	dr := obj.DestRect()
	visible := dr.Intersect(r.dst.Bounds())
	if visible.Empty() {
		return
	}
	b := img.Bounds()
	sr := obj.SourceRect(b.Dx(), b.Dy()).Add(b.Min)

	if obj.Shade >= 1 {
		r.scaler.Scale(r.dst, dr, img, sr, draw.Over, nil)
		return
	}

	// Scale into a scratch buffer the size of dr, darken, then composite.
	size := image.Rect(0, 0, dr.Dx(), dr.Dy())
	if r.scratch == nil || !size.In(r.scratch.Bounds()) {
		r.scratch = image.NewRGBA(size)
	}
	buf := r.scratch.SubImage(size).(*image.RGBA)
	draw.Draw(buf, size, image.Transparent, image.Point{}, draw.Src)
	r.scaler.Scale(buf, size, img, sr, draw.Src, nil)
	darken(buf, obj.Shade)
	draw.Draw(r.dst, dr, buf, image.Point{}, draw.Over)
}

// darken multiplies the colour channels by f. Alpha is premultiplied, so
// scaling colour alone keeps transparency intact.
func darken(img *image.RGBA, f float64) {
	if f < 0 {
		f = 0
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 0; i < len(row); i += 4 {
			row[i] = uint8(float64(row[i]) * f)
			row[i+1] = uint8(float64(row[i+1]) * f)
			row[i+2] = uint8(float64(row[i+2]) * f)
		}
	}
}

// RenderWorld clears the target and draws the world's current frame.
func (r *Renderer) RenderWorld(w *game.World) *image.RGBA {
	r.Clear()
	w.Render(r)
	return r.dst
}
