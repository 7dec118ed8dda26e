// Package batch runs many independent arena episodes in parallel. Each
// worker owns its Environment outright; finished episodes are handed to a
// single aggregator as msgpack-encoded records, so nothing is shared between
// workers.
package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"

	"github.com/Garsondee/Arena-Sense/internal/agent"
	"github.com/Garsondee/Arena-Sense/internal/arena"
)

// Factory builds a fresh, fully rostered Environment for one episode.
type Factory func(seed int64) (*arena.Environment, error)

// Options controls a batch.
type Options struct {
	Episodes int
	Workers  int // <= 0 means GOMAXPROCS
	MaxSteps int
	SeedBase int64
	SeedStep int64
	// RandomizeObstacles regenerates the layout before the episode starts.
	RandomizeObstacles bool
	RandomizePlayers   bool
	Logger             *log.Logger
}

// EpisodeResult is what the aggregator receives for each finished episode.
type EpisodeResult struct {
	Index     int                  `json:"index"`
	Seed      int64                `json:"seed"`
	EpisodeID string               `json:"episode_id"`
	Steps     int                  `json:"steps"`
	Over      bool                 `json:"over"`
	Winner    string               `json:"winner,omitempty"`
	Rewards   map[string]float64   `json:"rewards"`
	Final     arena.Report         `json:"final"`
	Summary   arena.EpisodeSummary `json:"summary"`
}

// ErrNoEpisodes is returned for an empty batch.
var ErrNoEpisodes = errors.New("batch: episodes must be > 0")

// Run plays opts.Episodes episodes, at most opts.Workers at a time, and
// returns their results ordered by index. The first worker error cancels
// the rest.
func Run(ctx context.Context, factory Factory, opts Options) ([]EpisodeResult, error) {
	if opts.Episodes <= 0 {
		return nil, ErrNoEpisodes
	}
	if opts.MaxSteps <= 0 {
		return nil, fmt.Errorf("batch: max steps must be > 0, got %d", opts.MaxSteps)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	logger := opts.Logger
	if logger == nil {
		logger = arena.QuietLogger()
	}

	records := make(chan []byte, workers)
	results := make([]EpisodeResult, 0, opts.Episodes)
	aggErr := make(chan error, 1)
	go func() {
		var firstErr error
		for rec := range records {
			res, err := decodeResult(rec)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			results = append(results, res)
			logger.Debug("episode collected", "index", res.Index, "winner", res.Winner, "steps", res.Steps)
		}
		aggErr <- firstErr
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < opts.Episodes; i++ {
		idx := i
		seed := opts.SeedBase + int64(i)*opts.SeedStep
		g.Go(func() error {
			res, err := playEpisode(gctx, factory, idx, seed, opts)
			if err != nil {
				return fmt.Errorf("episode %d (seed %d): %w", idx, seed, err)
			}
			rec, err := encodeResult(res)
			if err != nil {
				return err
			}
			select {
			case records <- rec:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	}
	runErr := g.Wait()
	close(records)
	if err := <-aggErr; err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return nil, runErr
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Index < results[j].Index })
	return results, nil
}

func playEpisode(ctx context.Context, factory Factory, idx int, seed int64, opts Options) (EpisodeResult, error) {
	env, err := factory(seed)
	if err != nil {
		return EpisodeResult{}, err
	}
	if opts.RandomizeObstacles || opts.RandomizePlayers {
		env.Reset(opts.RandomizeObstacles, opts.RandomizePlayers)
	}

	chars := env.Characters()
	rewards := make(map[string]float64, len(chars))
	var (
		over   bool
		report arena.Report
	)
	for step := 0; step < opts.MaxSteps && !over; step++ {
		if step%256 == 0 {
			if err := ctx.Err(); err != nil {
				return EpisodeResult{}, err
			}
		}
		over, report = env.Step(false)
		done := over || step == opts.MaxSteps-1
		for i, c := range chars {
			r := env.CalculateReward(report, c.Username())
			rewards[c.Username()] += r
			if l, ok := env.AgentFor(i).(agent.Learner); ok {
				l.Remember(r, report.Players[c.Username()], done)
			}
		}
	}

	return EpisodeResult{
		Index:     idx,
		Seed:      seed,
		EpisodeID: env.EpisodeID(),
		Steps:     env.Steps(),
		Over:      over,
		Winner:    report.Winner,
		Rewards:   rewards,
		Final:     report,
		Summary:   env.Summary(),
	}, nil
}

func encodeResult(res EpisodeResult) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(&res); err != nil {
		return nil, fmt.Errorf("batch: encode episode %d: %w", res.Index, err)
	}
	return buf.Bytes(), nil
}

func decodeResult(b []byte) (EpisodeResult, error) {
	var res EpisodeResult
	dec := msgpack.NewDecoder(bytes.NewReader(b))
	dec.SetCustomStructTag("json")
	if err := dec.Decode(&res); err != nil {
		return EpisodeResult{}, fmt.Errorf("batch: decode episode: %w", err)
	}
	return res, nil
}
