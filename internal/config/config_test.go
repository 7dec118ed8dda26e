package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Garsondee/Arena-Sense/internal/agent"
	"github.com/Garsondee/Arena-Sense/internal/arena"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "arena.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, arena.DefaultConfig(), cfg.Arena())
	assert.Equal(t, arena.DefaultStats(), cfg.Stats())
	assert.Equal(t, "info", cfg.Log.Level)
	require.Len(t, cfg.Players, 2)
	assert.Equal(t, "player1", cfg.Players[0].Username)
	assert.Equal(t, agent.KindHunter, cfg.Players[0].Agent)
	assert.Equal(t, 1000.0, cfg.Players[1].X)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
world:
  width: 800
  obstacles: 3
character:
  shot_delay: 150ms
  reload_time: 2s
simulation:
  seed: 99
  shot_occlusion: true
reward:
  time_decay: true
players:
  - username: red
    x: 100
    y: 100
    agent: idle
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 800.0, cfg.World.Width)
	assert.Equal(t, arena.DefaultWorldSize, cfg.World.Height, "unset keys keep their default")
	assert.Equal(t, 3, cfg.World.Obstacles)
	assert.Equal(t, 150*time.Millisecond, cfg.Character.ShotDelay)
	assert.Equal(t, 2*time.Second, cfg.Stats().ReloadTime)
	assert.Equal(t, int64(99), cfg.Simulation.Seed)
	assert.True(t, cfg.Arena().ShotOcclusion)
	assert.True(t, cfg.Arena().Reward.TimeDecay)
	require.Len(t, cfg.Players, 1)
	assert.Equal(t, "red", cfg.Players[0].Username)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ARENA_SIMULATION_SEED", "7")
	t.Setenv("ARENA_LOG_LEVEL", "debug")
	t.Setenv("ARENA_CHARACTER_DAMAGE", "35")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Simulation.Seed)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 35, cfg.Stats().Damage)
}

func TestLoad_SampleFile(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "arena.yaml"))
	require.NoError(t, err)
	assert.Equal(t, arena.DefaultStats(), cfg.Stats())
	assert.Equal(t, 16*time.Millisecond, cfg.Arena().TickInterval)
	assert.Len(t, cfg.Players, 2)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "world:\n  width: -5\n"))
	assert.True(t, errors.Is(err, arena.ErrInvalidConfig), "got %v", err)

	_, err = Load(writeConfig(t, "players: []\n"))
	assert.ErrorIs(t, err, ErrNoPlayers)

	_, err = Load(writeConfig(t, "log:\n  level: shouting\n"))
	assert.Error(t, err)
}

func TestRoster_BuildsAgents(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	chars, agents, err := cfg.Roster(10, nil)
	require.NoError(t, err)
	require.Len(t, chars, 2)
	require.Len(t, agents, 2)
	assert.Equal(t, "player1", chars[0].Username())
	assert.IsType(t, &agent.Hunter{}, agents[0])
	assert.IsType(t, &agent.Random{}, agents[1])
}

func TestRoster_Override(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	mine := agent.Idle()
	_, agents, err := cfg.Roster(1, func(p PlayerConfig) arena.Agent {
		if p.Username == "player2" {
			return mine
		}
		return nil
	})
	require.NoError(t, err)
	assert.IsType(t, &agent.Hunter{}, agents[0])
	assert.NotNil(t, agents[1])
	_, isRandom := agents[1].(*agent.Random)
	assert.False(t, isRandom, "override must replace the configured policy")
}

func TestRoster_UnknownAgent(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
players:
  - username: red
    x: 100
    y: 100
    agent: oracle
`))
	require.NoError(t, err)
	_, _, err = cfg.Roster(1, nil)
	assert.Error(t, err)
}

func TestNewLogger_Level(t *testing.T) {
	l := NewLogger(LogConfig{Level: "warn"}, "arena")
	assert.Equal(t, log.WarnLevel, l.GetLevel())

	l = NewLogger(LogConfig{Level: "nonsense"}, "arena")
	assert.Equal(t, log.InfoLevel, l.GetLevel())
}

func TestEnvOptions_BuildEnvironment(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	env, err := arena.NewEnvironment(cfg.Arena(), cfg.EnvOptions(arena.QuietLogger())...)
	require.NoError(t, err)
	chars, agents, err := cfg.Roster(cfg.Simulation.Seed, nil)
	require.NoError(t, err)
	require.NoError(t, env.SetRoster(chars, agents, nil))
	assert.LessOrEqual(t, len(env.Obstacles()), cfg.World.Obstacles)
}
