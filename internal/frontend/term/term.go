// Package term renders the world into a terminal with tcell.
package term

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Gridcaster/internal/game"
	"github.com/Garsondee/Gridcaster/internal/placeholders"
)

// shadeRamp goes from dim to bright.
var shadeRamp = []rune{'░', '▒', '▓', '█'}

var (
	ceilingStyle = tcell.StyleDefault.Background(tcell.NewRGBColor(30, 30, 36))
	floorStyle   = tcell.StyleDefault.Background(tcell.NewRGBColor(48, 42, 36))
	hudStyle     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
)

// Drawer maps pixel-space render objects onto terminal cells. It
// implements game.Drawer.
type Drawer struct {
	screen tcell.Screen
	proj   game.Projection
	cols   int
	rows   int
}

// NewDrawer draws onto screen, which must already be initialised.
func NewDrawer(screen tcell.Screen, proj game.Projection) *Drawer {
	return &Drawer{screen: screen, proj: proj}
}

// Begin sizes the cell grid to the terminal and paints ceiling and floor.
func (d *Drawer) Begin() {
	d.cols, d.rows = d.screen.Size()
	for y := 0; y < d.rows; y++ {
		st := ceilingStyle
		if y >= d.rows/2 {
			st = floorStyle
		}
		for x := 0; x < d.cols; x++ {
			d.screen.SetContent(x, y, ' ', nil, st)
		}
	}
}

// cellSpan converts a pixel span to a half-open cell span, at least one
// cell wide.
func cellSpan(p, size float64, pixels, cells int) (int, int) {
	scale := float64(cells) / float64(pixels)
	c0 := int(p * scale)
	c1 := int((p + size) * scale)
	if c1 <= c0 {
		c1 = c0 + 1
	}
	return max(c0, 0), min(c1, cells)
}

// DrawObject paints one object.
func (d *Drawer) DrawObject(obj game.RenderObject) {
	if d.cols == 0 || d.rows == 0 {
		return
	}
	x0, x1 := cellSpan(obj.Dst.X, obj.Dst.W, d.proj.Width, d.cols)
	y0, y1 := cellSpan(obj.Dst.Y, obj.Dst.H, d.proj.Height, d.rows)
	if x0 >= x1 || y0 >= y1 {
		return
	}
	r, st := d.glyph(obj)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if obj.Kind != game.KindWall {
				// Billboards keep whatever background is behind them.
				_, _, under, _ := d.screen.GetContent(x, y)
				_, bg, _ := under.Decompose()
				st = st.Background(bg)
			}
			d.screen.SetContent(x, y, r, nil, st)
		}
	}
}

func (d *Drawer) glyph(obj game.RenderObject) (rune, tcell.Style) {
	switch obj.Kind {
	case game.KindWall:
		c := placeholders.WallColor(obj.Image.Frame)
		idx := min(int(obj.Shade*float64(len(shadeRamp))), len(shadeRamp)-1)
		return shadeRamp[max(idx, 0)], tcell.StyleDefault.
			Foreground(tcell.NewRGBColor(scale(c.R, obj.Shade), scale(c.G, obj.Shade), scale(c.B, obj.Shade))).
			Background(tcell.ColorBlack)
	case game.KindAgent:
		kind, anim, _ := strings.Cut(obj.Image.Sheet, "/")
		r := 'A'
		if kind != "" {
			r = []rune(strings.ToUpper(kind))[0]
		}
		fg := tcell.NewRGBColor(scale(220, obj.Shade), scale(60, obj.Shade), scale(60, obj.Shade))
		if anim == "death" {
			r = '_'
		}
		return r, tcell.StyleDefault.Foreground(fg).Bold(true)
	case game.KindWeapon:
		return '‖', tcell.StyleDefault.Foreground(tcell.ColorSilver)
	default:
		return '*', tcell.StyleDefault.Foreground(tcell.NewRGBColor(scale(240, obj.Shade), scale(200, obj.Shade), scale(80, obj.Shade)))
	}
}

func scale(v uint8, f float64) int32 {
	return int32(float64(v) * min(max(f, 0), 1))
}

// HUD writes a status line over the top row.
func (d *Drawer) HUD(w *game.World) {
	p := w.Player()
	status := "ready"
	if p.Weapon().Reloading() {
		status = "reloading"
	}
	line := fmt.Sprintf(" HP %3d  %s  enemies %d/%d  T=%d ",
		p.Health(), status, w.AliveAgents(), len(w.Agents()), w.TickCount())
	if !p.Alive() {
		line += " YOU DIED (q to quit) "
	}
	for i, r := range []rune(line) {
		if i >= d.cols {
			break
		}
		d.screen.SetContent(i, 0, r, nil, hudStyle)
	}
	if d.cols > 0 && d.rows > 0 {
		d.screen.SetContent(d.cols/2, d.rows/2, '+', nil, hudStyle)
	}
}

// Draw renders a full frame and shows it.
func (d *Drawer) Draw(w *game.World) {
	d.Begin()
	w.Render(d)
	d.HUD(w)
	d.screen.Show()
}
