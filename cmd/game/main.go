package main

import (
	"flag"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Gridcaster/internal/frontend/sound"
	"github.com/Garsondee/Gridcaster/internal/frontend/window"
	"github.com/Garsondee/Gridcaster/internal/game"
	"github.com/Garsondee/Gridcaster/internal/logger"
	"github.com/Garsondee/Gridcaster/internal/placeholders"
)

func main() {
	configPath := flag.String("config", "", "YAML config overlay")
	seed := flag.Int64("seed", 0, "world seed (0 picks one from the clock)")
	mute := flag.Bool("mute", false, "disable sound")
	flag.Parse()

	log := logger.FromEnv()
	cfg := game.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = game.LoadConfig(*configPath); err != nil {
			log.WithError(err).Fatal("load config")
		}
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	w, err := game.NewWorld(cfg,
		game.WithRand(rand.New(rand.NewSource(*seed))), // #nosec G404 -- gameplay randomness
		game.WithLogger(log),
	)
	if err != nil {
		log.WithError(err).Fatal("build world")
	}
	placed, err := w.Populate(cfg.Difficulty.NumAgents)
	if err != nil {
		log.WithError(err).Fatal("populate world")
	}
	log.WithField("agents", placed).WithField("seed", *seed).Info("world ready")

	var opts []window.Option
	if !*mute {
		snd := sound.NewManager(log)
		if err := snd.Initialize(); err != nil {
			log.WithError(err).Warn("sound disabled")
		} else {
			defer snd.Cleanup()
			opts = append(opts, window.WithCues(snd))
		}
	}

	g, err := window.New(w, placeholders.NewAtlas(), log, opts...)
	if err != nil {
		log.WithError(err).Fatal("create window")
	}
	ebiten.SetWindowTitle("Gridcaster")
	ebiten.SetWindowSize(cfg.Screen.Width, cfg.Screen.Height)
	ebiten.SetTPS(cfg.Screen.TPS)
	if err := ebiten.RunGame(g); err != nil {
		log.WithError(err).Fatal("run game")
	}
}
