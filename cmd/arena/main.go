package main

import (
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Arena-Sense/internal/arena"
	"github.com/Garsondee/Arena-Sense/internal/config"
	"github.com/Garsondee/Arena-Sense/internal/viewer"
)

func main() {
	var configPath string
	var human string
	var height int
	flag.StringVar(&configPath, "config", "", "path to a YAML config file (defaults are used when empty)")
	flag.StringVar(&human, "human", "", "username to drive with the keyboard")
	flag.IntVar(&height, "height", 800, "window height in pixels")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		config.NewLogger(config.LogConfig{Level: "info"}, "arena").Fatal("load config", "err", err)
	}
	logger := config.NewLogger(cfg.Log, "arena")

	env, err := arena.NewEnvironment(cfg.Arena(), cfg.EnvOptions(logger)...)
	if err != nil {
		logger.Fatal("build environment", "err", err)
	}
	chars, agents, err := cfg.Roster(cfg.Simulation.Seed, func(p config.PlayerConfig) arena.Agent {
		if human != "" && p.Username == human {
			return viewer.NewKeyboard()
		}
		return nil
	})
	if err != nil {
		logger.Fatal("build roster", "err", err)
	}
	if err := env.SetRoster(chars, agents, nil); err != nil {
		logger.Fatal("set roster", "err", err)
	}

	game := viewer.New(env, viewer.Options{
		WindowHeight:       height,
		MaxSteps:           cfg.Simulation.MaxSteps,
		RandomizeObstacles: cfg.Simulation.RandomizeObstacles,
		RandomizePlayers:   cfg.Simulation.RandomizePlayers,
		Debug:              cfg.Log.Debug,
		Logger:             logger,
	})
	w, h := game.WindowSize()
	ebiten.SetWindowTitle("Arena Sense")
	ebiten.SetWindowSize(w, h)
	if err := ebiten.RunGame(game); err != nil {
		logger.Error("viewer stopped", "err", err)
		os.Exit(1)
	}
}
