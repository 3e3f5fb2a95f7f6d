// Command snapshot renders one frame of a world to a PNG without a window.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"math/rand"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/Garsondee/Gridcaster/internal/frontend/soft"
	"github.com/Garsondee/Gridcaster/internal/game"
	"github.com/Garsondee/Gridcaster/internal/logger"
	"github.com/Garsondee/Gridcaster/internal/placeholders"
)

func main() {
	out := flag.String("out", "frame.png", "output PNG path")
	configPath := flag.String("config", "", "YAML config overlay")
	seed := flag.Int64("seed", 1, "world seed")
	ticks := flag.Int("ticks", 0, "idle ticks to simulate before rendering")
	smooth := flag.Bool("smooth", false, "bilinear sampling instead of nearest neighbour")
	flag.Parse()

	log := logger.FromEnv()
	if err := run(*out, *configPath, *seed, *ticks, *smooth); err != nil {
		log.WithError(err).Fatal("snapshot")
	}
	log.WithField("path", *out).Info("frame written")
}

func run(out, configPath string, seed int64, ticks int, smooth bool) error {
	cfg := game.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = game.LoadConfig(configPath); err != nil {
			return err
		}
	}
	w, err := game.NewWorld(cfg,
		game.WithRand(rand.New(rand.NewSource(seed))), // #nosec G404 -- reproducible frame
		game.WithLogger(logger.FromEnv()),
	)
	if err != nil {
		return err
	}
	if _, err := w.Populate(cfg.Difficulty.NumAgents); err != nil {
		return err
	}
	for i := 0; i < ticks; i++ {
		w.Tick(game.Input{})
	}

	r := soft.New(cfg.Screen.Width, cfg.Screen.Height, placeholders.NewAtlas())
	if smooth {
		r.WithScaler(xdraw.ApproxBiLinear)
	}
	img := r.RenderWorld(w)

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", out, err)
	}
	return f.Close()
}
