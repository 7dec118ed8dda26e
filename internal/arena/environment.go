package arena

import (
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Garsondee/Arena-Sense/internal/geom"
)

// Option configures an Environment at construction.
type Option func(*Environment)

// WithSeed sets the RNG seed used for obstacle layouts and agent shuffles.
func WithSeed(seed int64) Option {
	return func(e *Environment) {
		e.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- simulation RNG
	}
}

// WithLogger replaces the default stderr logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Environment) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock replaces the default TickClock.
func WithClock(c Clock) Option {
	return func(e *Environment) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithVerboseEvents records per-step positions in the event log.
func WithVerboseEvents(v bool) Option {
	return func(e *Environment) {
		e.events = NewEventLog(v)
	}
}

// QuietLogger returns a logger that discards everything.
func QuietLogger() *log.Logger {
	return log.New(io.Discard)
}

// Environment runs one match at a time: it owns the roster and obstacles,
// advances every live character once per Step, detects the end of an episode
// and computes rewards from successive reports.
type Environment struct {
	cfg    Config
	logger *log.Logger
	rng    *rand.Rand
	clock  Clock
	events *EventLog
	w      *world

	// original roster and policies, as given to SetRoster
	roster      []*Character
	agents      []Agent
	baseLayout  []Obstacle
	paired      []Agent
	initialized bool

	steps     int
	episodes  int
	episodeID string
	over      bool
	winner    string

	lastPosition map[string]geom.Vec2
	lastDamage   map[string]int
	lastKills    map[string]int
	lastHealth   map[string]int
	visited      map[string]map[cell]struct{}
}

type cell struct{ x, y int }

// NewEnvironment validates cfg and builds an empty Environment. Call
// SetRoster before stepping.
func NewEnvironment(cfg Config, opts ...Option) (*Environment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Environment{
		cfg:    cfg,
		logger: log.NewWithOptions(os.Stderr, log.Options{Prefix: "arena", Level: log.InfoLevel}),
		rng:    rand.New(rand.NewSource(1)), // #nosec G404 -- simulation RNG
		clock:  NewTickClock(),
		events: NewEventLog(false),
	}
	for _, o := range opts {
		o(e)
	}
	e.w = &world{
		bounds:        geom.Bounds{MinX: 0, MinY: 0, MaxX: cfg.World.Width, MaxY: cfg.World.Height},
		hasBounds:     true,
		clock:         e.clock,
		events:        e.events,
		shotOcclusion: cfg.ShotOcclusion,
		visionRays:    cfg.VisionRays,
		visionFOV:     cfg.VisionFOV,
	}
	e.clearTracking()
	return e, nil
}

// SetRoster installs the characters, their agents (paired by index) and an
// optional fixed obstacle layout, then resets. A nil obstacle slice means a
// layout is generated. A nil agent stands still.
func (e *Environment) SetRoster(chars []*Character, agents []Agent, obstacles []Obstacle) error {
	if len(chars) == 0 {
		return fmt.Errorf("%w: empty roster", ErrInvalidConfig)
	}
	if len(agents) != len(chars) {
		return fmt.Errorf("%w: %d characters but %d agents", ErrInvalidConfig, len(chars), len(agents))
	}
	seen := make(map[string]struct{}, len(chars))
	for i, c := range chars {
		if c == nil {
			return fmt.Errorf("%w: nil character at %d", ErrInvalidConfig, i)
		}
		if _, dup := seen[c.username]; dup {
			return fmt.Errorf("%w: duplicate username %q", ErrInvalidConfig, c.username)
		}
		seen[c.username] = struct{}{}
		if !e.w.bounds.Rect().Contains(c.spawn) {
			return fmt.Errorf("%w: %s spawns outside the world at (%.1f,%.1f)", ErrInvalidConfig, c.username, c.spawn.X, c.spawn.Y)
		}
	}
	for i, o := range obstacles {
		if !o.Rect.Valid() {
			return fmt.Errorf("%w: obstacle %d has size %.1fx%.1f", ErrInvalidConfig, i, o.Rect.W, o.Rect.H)
		}
	}

	e.roster = append([]*Character(nil), chars...)
	e.agents = append([]Agent(nil), agents...)
	if obstacles != nil {
		e.baseLayout = append([]Obstacle{}, obstacles...)
	} else {
		e.baseLayout = nil
	}
	e.initialized = true
	e.Reset(false, false)
	return nil
}

// Reset starts a new episode. With randomizeObstacles (or when no layout
// exists yet) a fresh obstacle layout is generated; with randomizePlayers the
// agent-to-character pairing is shuffled. Every character is reset and wired
// to all other roster members as opponents.
func (e *Environment) Reset(randomizeObstacles, randomizePlayers bool) {
	e.steps = 0
	e.over = false
	e.winner = ""
	e.episodes++
	e.episodeID = uuid.NewString()
	e.events.Reset()
	e.w.tick = 0
	e.clearTracking()

	if !e.initialized {
		return
	}

	if randomizeObstacles || e.baseLayout == nil {
		e.baseLayout = e.generateLayout()
	}
	e.w.obstacles = e.baseLayout

	e.paired = append(e.paired[:0], e.agents...)
	if randomizePlayers {
		e.rng.Shuffle(len(e.paired), func(i, j int) {
			e.paired[i], e.paired[j] = e.paired[j], e.paired[i]
		})
	}

	e.w.roster = e.roster
	for i, c := range e.roster {
		c.w = e.w
		c.index = i
		c.opponents = c.opponents[:0]
		for j := range e.roster {
			if j != i {
				c.opponents = append(c.opponents, j)
			}
		}
		c.Reset()
	}

	e.events.Add(0, "--", CategoryEpisode, "reset", e.episodeID, float64(len(e.w.obstacles)))
	e.logger.Debug("episode reset", "episode", e.episodeID, "characters", len(e.roster), "obstacles", len(e.w.obstacles))
}

func (e *Environment) generateLayout() []Obstacle {
	avoid := make([]geom.Rect, 0, len(e.roster))
	for _, c := range e.roster {
		s := c.stats.Size
		avoid = append(avoid, geom.Rect{X: c.spawn.X - s, Y: c.spawn.Y - s, W: 3 * s, H: 3 * s})
	}
	wc := e.cfg.World
	obstacles, err := GenerateObstacles(e.rng, GenSpec{
		Bounds:       e.w.bounds,
		Count:        wc.Obstacles,
		MinSize:      wc.MinObstacleSize,
		MaxSize:      wc.MaxObstacleSize,
		CornerRadius: wc.CornerRadius,
		Avoid:        avoid,
	})
	if err != nil {
		e.logger.Error("obstacle generation failed", "err", err)
		return []Obstacle{}
	}
	if len(obstacles) < wc.Obstacles {
		e.logger.Warn("placed fewer obstacles than requested", "placed", len(obstacles), "requested", wc.Obstacles)
	}
	return obstacles
}

// Step advances the episode by one tick. Each live character, in roster
// order, reloads, asks its agent for an action and applies it (moves in the
// order forward, right, down, left, then rotation, then shooting). Dead
// characters are skipped. The episode is over when exactly one character is
// left alive.
func (e *Environment) Step(debug bool) (bool, Report) {
	e.clock.Advance(e.cfg.TickInterval)
	e.steps++
	e.w.tick = e.steps

	for _, c := range e.roster {
		c.shotFired = false
	}

	for i, c := range e.roster {
		if !c.alive {
			continue
		}
		c.Reload()

		var act Action
		if a := e.paired[i]; a != nil {
			act = a.Act(c.Info()).Sanitize()
		}
		if debug {
			e.logger.Info("action", "step", e.steps, "character", c.username, "action", act.String())
		}
		e.apply(c, act)
		e.events.AddVerbose(e.steps, c.username, CategoryMove, "position",
			fmt.Sprintf("(%.1f,%.1f)", c.Location().X, c.Location().Y), c.rotation)
	}

	report := e.buildReport()
	if report.General.AlivePlayers == 1 {
		for _, c := range e.roster {
			if c.alive {
				report.Winner = c.username
			}
		}
		if !e.over {
			e.over = true
			e.winner = report.Winner
			e.events.Add(e.steps, report.Winner, CategoryEpisode, "over", "winner", float64(e.steps))
			e.logger.Info("episode over", "episode", e.episodeID, "winner", report.Winner, "steps", e.steps)
		}
		return true, report
	}
	return false, report
}

func (e *Environment) apply(c *Character, act Action) {
	moves := [...]struct {
		on  bool
		dir Direction
	}{
		{act.Forward, Forward},
		{act.Right, Right},
		{act.Down, Down},
		{act.Left, Left},
	}
	for _, m := range moves {
		if m.on {
			_ = c.Move(m.dir) // blocked moves are already in the event log
		}
	}
	if act.Rotate != 0 {
		c.AddRotate(act.Rotate)
	}
	if act.Shoot {
		_ = c.Shoot()
	}
}

func (e *Environment) buildReport() Report {
	r := Report{
		EpisodeID: e.episodeID,
		Step:      e.steps,
		Players:   make(map[string]Snapshot, len(e.roster)),
	}
	r.General.TotalPlayers = len(e.roster)
	for _, c := range e.roster {
		r.Players[c.username] = c.Info()
		if c.alive {
			r.General.AlivePlayers++
		}
	}
	return r
}

// WorldBounds returns the playable rectangle.
func (e *Environment) WorldBounds() geom.Bounds { return e.w.bounds }

// Obstacles returns the active layout.
func (e *Environment) Obstacles() []Obstacle { return e.w.obstacles }

// Characters returns the roster in step order.
func (e *Environment) Characters() []*Character { return e.roster }

// Character looks a roster member up by username.
func (e *Environment) Character(username string) (*Character, bool) {
	for _, c := range e.roster {
		if c.username == username {
			return c, true
		}
	}
	return nil, false
}

// AgentFor returns the agent currently paired with the roster member at index i.
func (e *Environment) AgentFor(i int) Agent {
	if i < 0 || i >= len(e.paired) {
		return nil
	}
	return e.paired[i]
}

// Steps returns the number of steps in the current episode.
func (e *Environment) Steps() int { return e.steps }

// Episodes returns how many episodes have been started.
func (e *Environment) Episodes() int { return e.episodes }

// EpisodeID identifies the current episode.
func (e *Environment) EpisodeID() string { return e.episodeID }

// Over reports whether the current episode has a winner.
func (e *Environment) Over() bool { return e.over }

// Events returns the current episode's event log.
func (e *Environment) Events() *EventLog { return e.events }

// Config returns the configuration the Environment was built with.
func (e *Environment) Config() Config { return e.cfg }

// Clock returns the simulation clock.
func (e *Environment) Clock() Clock { return e.clock }
