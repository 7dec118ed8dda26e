package arena

import (
	"testing"

	"github.com/Garsondee/Arena-Sense/internal/geom"
)

// spawnAt describes one roster member for newTestEnv.
type spawnAt struct {
	name  string
	x, y  float64
	agent Agent
}

type envOption func(*Config)

func withOcclusion() envOption {
	return func(c *Config) { c.ShotOcclusion = true }
}

func withTimeDecay() envOption {
	return func(c *Config) { c.Reward.TimeDecay = true }
}

// newTestEnv builds a quiet, seeded Environment with a fixed obstacle layout.
// A nil layout is replaced by an empty one so tests never depend on
// generation unless they ask for it.
func newTestEnv(t *testing.T, roster []spawnAt, obstacles []Obstacle, opts ...envOption) *Environment {
	t.Helper()
	cfg := DefaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	env, err := NewEnvironment(cfg, WithSeed(42), WithLogger(QuietLogger()))
	if err != nil {
		t.Fatalf("NewEnvironment: %v", err)
	}
	chars := make([]*Character, 0, len(roster))
	agents := make([]Agent, 0, len(roster))
	for _, s := range roster {
		c, err := NewCharacter(s.name, geom.Vec2{X: s.x, Y: s.y}, DefaultStats())
		if err != nil {
			t.Fatalf("NewCharacter(%s): %v", s.name, err)
		}
		chars = append(chars, c)
		agents = append(agents, s.agent)
	}
	if obstacles == nil {
		obstacles = []Obstacle{}
	}
	if err := env.SetRoster(chars, agents, obstacles); err != nil {
		t.Fatalf("SetRoster: %v", err)
	}
	return env
}

func mustChar(t *testing.T, env *Environment, name string) *Character {
	t.Helper()
	c, ok := env.Character(name)
	if !ok {
		t.Fatalf("character %q not in roster", name)
	}
	return c
}

func mustObstacle(t *testing.T, x, y, w, h float64) Obstacle {
	t.Helper()
	o, err := NewObstacle(x, y, w, h)
	if err != nil {
		t.Fatalf("NewObstacle: %v", err)
	}
	return o
}

// countingAgent records how often it was asked to act.
type countingAgent struct {
	calls  int
	action Action
}

func (a *countingAgent) Act(Snapshot) Action {
	a.calls++
	return a.action
}
