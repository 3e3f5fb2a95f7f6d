// Package placeholders draws procedural stand-ins for every image the engine
// references, so the front ends run without an asset pack.
package placeholders

import (
	"hash/fnv"
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/Garsondee/Gridcaster/internal/game"
)

// TextureSize is the edge length of wall textures and sprite frames.
const TextureSize = 64

// wallColors is indexed by texture id; id 0 is never drawn.
var wallColors = [...]color.RGBA{
	{0, 0, 0, 255},
	{130, 125, 115, 255}, // stone
	{140, 70, 50, 255},   // brick
	{70, 90, 120, 255},   // slate
	{90, 110, 60, 255},   // moss
	{120, 100, 80, 255},  // wood
	{150, 150, 160, 255}, // steel
	{110, 40, 40, 255},   // blood brick
	{60, 60, 60, 255},    // dark stone
	{170, 150, 90, 255},  // sandstone
}

// Atlas caches generated images by handle. It is not safe for concurrent
// use.
type Atlas struct {
	images map[game.ImageRef]*image.RGBA
}

// NewAtlas creates an empty cache.
func NewAtlas() *Atlas {
	return &Atlas{images: make(map[game.ImageRef]*image.RGBA)}
}

// Image returns the image for ref, generating it on first use.
func (a *Atlas) Image(ref game.ImageRef) *image.RGBA {
	if img, ok := a.images[ref]; ok {
		return img
	}
	img := Generate(ref)
	a.images[ref] = img
	return img
}

// Generate draws the placeholder for ref. Wall textures come from
// game.WallSheet; agent sheets are "<kind>/<animation>"; anything else is
// treated as a decoration or the weapon.
func Generate(ref game.ImageRef) *image.RGBA {
	switch {
	case ref.Sheet == game.WallSheet:
		return Wall(ref.Frame)
	case strings.Contains(ref.Sheet, "/"):
		kind, anim, _ := strings.Cut(ref.Sheet, "/")
		return Figure(kind, anim, ref.Frame)
	case strings.HasSuffix(ref.Sheet, "_light"):
		return Light(ref.Sheet, ref.Frame)
	case ref.Sheet == "candelabra":
		return Candelabra()
	default:
		return Weapon(ref.Frame)
	}
}

// WallColor is the base colour of a wall texture id.
func WallColor(id int) color.RGBA {
	if id <= 0 || id >= len(wallColors) {
		return wallColors[1]
	}
	return wallColors[id]
}

// Wall draws a brick pattern in the texture's colour.
func Wall(id int) *image.RGBA {
	base := WallColor(id)
	mortar := shade(base, 0.55)
	img := solid(TextureSize, TextureSize, base)
	const brickH, brickW = 8, 16
	for y := 0; y < TextureSize; y++ {
		row := y / brickH
		for x := 0; x < TextureSize; x++ {
			off := 0
			if row%2 == 1 {
				off = brickW / 2
			}
			if y%brickH == 0 || (x+off)%brickW == 0 {
				img.SetRGBA(x, y, mortar)
			}
		}
	}
	return img
}

// Figure draws an agent silhouette. The body colour is derived from the kind
// name; the animation changes pose and tint.
func Figure(kind, anim string, frame int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, TextureSize, TextureSize))
	body := kindColor(kind)
	top, height := 8, TextureSize-8

	switch anim {
	case "walk":
		top += (frame % 2) * 2
	case "attack":
		if frame%2 == 1 {
			body = color.RGBA{255, 220, 120, 255}
		}
	case "pain":
		body = color.RGBA{220, 40, 40, 255}
	case "death":
		// Collapse toward the floor over the animation.
		drop := min(frame*6, height-6)
		top += drop
		body = shade(body, 0.6)
	}

	fill(img, image.Rect(20, top+12, 44, TextureSize), body)
	fill(img, image.Rect(24, top, 40, min(top+12, TextureSize)), shade(body, 1.2))
	if anim != "death" {
		fill(img, image.Rect(27, top+4, 30, top+7), color.RGBA{255, 0, 0, 255})
		fill(img, image.Rect(34, top+4, 37, top+7), color.RGBA{255, 0, 0, 255})
	}
	return img
}

// Light draws a lamp post whose glow pulses with the frame.
func Light(sheet string, frame int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, TextureSize/2, TextureSize))
	glow := color.RGBA{60, 220, 80, 255}
	if strings.HasPrefix(sheet, "red") {
		glow = color.RGBA{230, 50, 40, 255}
	}
	fill(img, image.Rect(14, 16, 18, TextureSize), color.RGBA{90, 90, 90, 255})
	bright := 0.7 + 0.1*float64(frame%4)
	fill(img, image.Rect(8, 2, 24, 16), shade(glow, bright))
	return img
}

// Candelabra draws the static decoration.
func Candelabra() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, TextureSize/2, TextureSize))
	gold := color.RGBA{200, 170, 60, 255}
	fill(img, image.Rect(14, 20, 18, TextureSize), gold)
	fill(img, image.Rect(4, 20, 28, 23), gold)
	for _, x := range []int{4, 14, 24} {
		fill(img, image.Rect(x, 10, x+4, 20), color.RGBA{250, 240, 200, 255})
		fill(img, image.Rect(x+1, 6, x+3, 10), color.RGBA{255, 160, 40, 255})
	}
	return img
}

// Weapon draws the shotgun; the first frames of the fire animation carry a
// muzzle flash.
func Weapon(frame int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, TextureSize, TextureSize))
	recoil := 0
	if frame > 0 && frame < 4 {
		recoil = 4
	}
	fill(img, image.Rect(28, 16+recoil, 36, TextureSize), color.RGBA{60, 60, 70, 255})
	fill(img, image.Rect(22, 40+recoil, 42, TextureSize), color.RGBA{110, 70, 40, 255})
	if frame == 1 || frame == 2 {
		fill(img, image.Rect(24, 2, 40, 16), color.RGBA{255, 230, 120, 255})
	}
	return img
}

func kindColor(kind string) color.RGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(kind))
	v := h.Sum32()
	return color.RGBA{uint8(80 + v%150), uint8(80 + (v>>8)%150), uint8(80 + (v>>16)%150), 255}
}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}

func fill(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	draw.Draw(img, r.Intersect(img.Bounds()), &image.Uniform{c}, image.Point{}, draw.Src)
}

// shade scales the colour channels by f, clamped to 255.
func shade(c color.RGBA, f float64) color.RGBA {
	ch := func(v uint8) uint8 {
		return uint8(min(255, float64(v)*f))
	}
	return color.RGBA{ch(c.R), ch(c.G), ch(c.B), c.A}
}
