package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Garsondee/Arena-Sense/internal/arena"
	"github.com/Garsondee/Arena-Sense/internal/batch"
	"github.com/Garsondee/Arena-Sense/internal/config"
)

type flags struct {
	runs       int
	steps      int
	seedBase   int64
	seedStep   int64
	parallel   int
	configPath string
}

func main() {
	var f flags
	flag.IntVar(&f.runs, "runs", 5, "number of headless episodes")
	flag.IntVar(&f.steps, "steps", 0, "step limit per episode (0 uses simulation.max_steps)")
	flag.Int64Var(&f.seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&f.seedStep, "seed-step", 1, "seed increment between runs")
	flag.IntVar(&f.parallel, "parallel", 0, "episodes run at once (0 uses GOMAXPROCS)")
	flag.StringVar(&f.configPath, "config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(f.configPath)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	if f.steps == 0 {
		f.steps = cfg.Simulation.MaxSteps
	}
	if err := validate(f); err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Log, "report")

	fmt.Printf("=== Headless Arena Report ===\n")
	fmt.Printf("runs=%d steps=%d seed_base=%d seed_step=%d players=%s\n\n",
		f.runs, f.steps, f.seedBase, f.seedStep, playerList(cfg.Players))

	results, err := batch.Run(context.Background(), factoryFor(cfg), batch.Options{
		Episodes:           f.runs,
		Workers:            f.parallel,
		MaxSteps:           f.steps,
		SeedBase:           f.seedBase,
		SeedStep:           f.seedStep,
		RandomizeObstacles: cfg.Simulation.RandomizeObstacles,
		RandomizePlayers:   cfg.Simulation.RandomizePlayers,
		Logger:             logger,
	})
	if err != nil {
		logger.Error("batch failed", "err", err)
		os.Exit(1)
	}

	for _, r := range results {
		fmt.Print(formatRun(r))
	}
	fmt.Println("=== Aggregate ===")
	fmt.Print(batch.Aggregate(results).Format())
}

func validate(f flags) error {
	switch {
	case f.runs <= 0:
		return fmt.Errorf("-runs must be > 0")
	case f.steps <= 0:
		return fmt.Errorf("-steps must be > 0")
	case f.parallel < 0:
		return fmt.Errorf("-parallel must be >= 0")
	}
	return nil
}

// factoryFor builds a fresh environment and roster per episode so that no
// agent state leaks between parallel runs.
func factoryFor(cfg config.Config) batch.Factory {
	return func(seed int64) (*arena.Environment, error) {
		env, err := arena.NewEnvironment(cfg.Arena(),
			arena.WithSeed(seed),
			arena.WithLogger(arena.QuietLogger()),
		)
		if err != nil {
			return nil, err
		}
		chars, agents, err := cfg.Roster(seed, nil)
		if err != nil {
			return nil, err
		}
		// batch.Run regenerates the layout itself when obstacles are randomized.
		var layout []arena.Obstacle
		if cfg.Simulation.RandomizeObstacles {
			layout = []arena.Obstacle{}
		}
		if err := env.SetRoster(chars, agents, layout); err != nil {
			return nil, err
		}
		return env, nil
	}
}

func formatRun(r batch.EpisodeResult) string {
	var b strings.Builder
	outcome := "timeout"
	if r.Over {
		outcome = "winner=" + r.Winner
	}
	fmt.Fprintf(&b, "--- Run %d (seed=%d) ---\n", r.Index+1, r.Seed)
	fmt.Fprintf(&b, "steps=%d %s alive=%d/%d\n", r.Steps, outcome, r.Final.General.AlivePlayers, r.Final.General.TotalPlayers)

	names := make([]string, 0, len(r.Final.Players))
	for name := range r.Final.Players {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p := r.Final.Players[name]
		fmt.Fprintf(&b, "  %-12s hp=%3d kills=%d damage=%d moved=%.0f reward=%.2f\n",
			name, p.Health, p.Kills, p.DamageDealt, p.MetersMoved, r.Rewards[name])
	}
	b.WriteString("\n")
	return b.String()
}

func playerList(players []config.PlayerConfig) string {
	if len(players) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(players))
	for _, p := range players {
		parts = append(parts, p.Username+":"+p.Agent)
	}
	return strings.Join(parts, ",")
}
