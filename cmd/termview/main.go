// Command termview plays the world inside a terminal.
package main

import (
	"flag"
	"math/rand"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Gridcaster/internal/frontend/sound"
	"github.com/Garsondee/Gridcaster/internal/frontend/term"
	"github.com/Garsondee/Gridcaster/internal/game"
	"github.com/Garsondee/Gridcaster/internal/logger"
)

func main() {
	configPath := flag.String("config", "", "YAML config overlay")
	seed := flag.Int64("seed", 0, "world seed (0 picks one from the clock)")
	mute := flag.Bool("mute", false, "disable sound")
	logPath := flag.String("log", "termview.log", "log file; the terminal is busy drawing")
	flag.Parse()

	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logrus.WithError(err).Fatal("open log file")
	}
	defer logFile.Close()
	log := logger.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"), logFile)

	if err := run(log, *configPath, *seed, !*mute); err != nil {
		log.WithError(err).Error("termview")
		os.Exit(1)
	}
}

func run(log *logrus.Logger, configPath string, seed int64, withSound bool) error {
	cfg := game.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = game.LoadConfig(configPath); err != nil {
			return err
		}
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	w, err := game.NewWorld(cfg,
		game.WithRand(rand.New(rand.NewSource(seed))), // #nosec G404 -- gameplay randomness
		game.WithLogger(log),
	)
	if err != nil {
		return err
	}
	if _, err := w.Populate(cfg.Difficulty.NumAgents); err != nil {
		return err
	}

	var snd *sound.Manager
	if withSound {
		snd = sound.NewManager(log)
		if err := snd.Initialize(); err != nil {
			log.WithError(err).Warn("sound disabled")
			snd = nil
		} else {
			defer snd.Cleanup()
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	drawer := term.NewDrawer(screen, cfg.Projection())
	var input term.InputState
	ticker := time.NewTicker(cfg.TickDuration())
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if input.Press(ev) {
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-ticker.C:
			w.Tick(input.Next())
			if snd != nil {
				snd.Sync(w.SimLog())
			}
			drawer.Draw(w)
		}
	}
}
