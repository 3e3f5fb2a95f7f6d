package window

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Gridcaster/internal/game"
	"github.com/Garsondee/Gridcaster/internal/placeholders"
)

const minimapCell = 12

var (
	rayColor     = color.RGBA{R: 240, G: 220, B: 120, A: 60}
	pathColor    = color.RGBA{R: 90, G: 200, B: 255, A: 160}
	playerColor  = color.RGBA{R: 60, G: 220, B: 90, A: 255}
	agentIdle    = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	agentHunting = color.RGBA{R: 230, G: 60, B: 60, A: 255}
	agentDead    = color.RGBA{R: 90, G: 40, B: 40, A: 200}
)

// drawMinimap draws the grid top-down with the last ray scan, each agent and
// the BFS path of every pursuing agent.
func drawMinimap(screen *ebiten.Image, w *game.World, ox, oy float32) {
	g := w.Grid()
	c := float32(minimapCell)
	vector.FillRect(screen, ox, oy, float32(g.Cols())*c, float32(g.Rows())*c, color.RGBA{R: 0, G: 0, B: 0, A: 180}, false)
	for y := 0; y < g.Rows(); y++ {
		for x := 0; x < g.Cols(); x++ {
			id := g.Texture(game.Tile{X: x, Y: y})
			if id == 0 {
				continue
			}
			vector.FillRect(screen, ox+float32(x)*c, oy+float32(y)*c, c-1, c-1, placeholders.WallColor(id), false)
		}
	}

	toScreen := func(p game.Vec2) (float32, float32) {
		return ox + float32(p.X)*c, oy + float32(p.Y)*c
	}

	pp := w.Player().Position()
	px, py := toScreen(pp)
	for _, r := range w.Rays() {
		depth := r.Depth
		if !r.Hit || math.IsInf(depth, 1) {
			depth = float64(w.Config().Graphics.MaxDepth)
		} else if k := math.Cos(r.Angle - w.Player().Heading()); k > 1e-3 {
			depth /= k // undo the fish-eye correction
		}
		hx, hy := toScreen(game.Vec2{X: pp.X + depth*math.Cos(r.Angle), Y: pp.Y + depth*math.Sin(r.Angle)})
		vector.StrokeLine(screen, px, py, hx, hy, 1, rayColor, false)
	}

	for _, a := range w.Agents() {
		if a.Pursuing() && a.Alive() {
			path := a.Path()
			for i := 1; i < len(path); i++ {
				x0, y0 := toScreen(path[i-1].Center())
				x1, y1 := toScreen(path[i].Center())
				vector.StrokeLine(screen, x0, y0, x1, y1, 2, pathColor, false)
			}
		}
		col := agentIdle
		switch {
		case !a.Alive():
			col = agentDead
		case a.Pursuing():
			col = agentHunting
		}
		ax, ay := toScreen(a.Position())
		vector.FillCircle(screen, ax, ay, c/3, col, false)
	}

	vector.FillCircle(screen, px, py, c/3, playerColor, false)
	h := w.Player().Heading()
	vector.StrokeLine(screen, px, py, px+float32(math.Cos(h))*c, py+float32(math.Sin(h))*c, 2, playerColor, false)
}
