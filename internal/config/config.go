// Package config loads arena settings from a YAML file, ARENA_* environment
// variables and built-in defaults, and turns them into arena types.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/Garsondee/Arena-Sense/internal/agent"
	"github.com/Garsondee/Arena-Sense/internal/arena"
	"github.com/Garsondee/Arena-Sense/internal/geom"
)

// EnvPrefix is the prefix for environment overrides, e.g.
// ARENA_SIMULATION_SEED=7 or ARENA_LOG_LEVEL=debug.
const EnvPrefix = "ARENA"

// Config is the full on-disk configuration.
type Config struct {
	World      WorldConfig      `mapstructure:"world"`
	Character  CharacterConfig  `mapstructure:"character"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Reward     RewardConfig     `mapstructure:"reward"`
	Log        LogConfig        `mapstructure:"log"`
	Players    []PlayerConfig   `mapstructure:"players"`
}

// WorldConfig sizes the playfield and its generated obstacles.
type WorldConfig struct {
	Width           float64 `mapstructure:"width"`
	Height          float64 `mapstructure:"height"`
	Obstacles       int     `mapstructure:"obstacles"`
	MinObstacleSize float64 `mapstructure:"min_obstacle_size"`
	MaxObstacleSize float64 `mapstructure:"max_obstacle_size"`
	CornerRadius    float64 `mapstructure:"corner_radius"`
}

// CharacterConfig holds the stats shared by every player.
type CharacterConfig struct {
	Size                 float64       `mapstructure:"size"`
	Speed                float64       `mapstructure:"speed"`
	VisionDistance       float64       `mapstructure:"vision_distance"`
	Damage               int           `mapstructure:"damage"`
	ShotDelay            time.Duration `mapstructure:"shot_delay"`
	MaxAmmo              int           `mapstructure:"max_ammo"`
	ReloadTime           time.Duration `mapstructure:"reload_time"`
	CollideWithObstacles bool          `mapstructure:"collide_with_obstacles"`
}

// SimulationConfig controls stepping and episode management.
type SimulationConfig struct {
	Seed               int64         `mapstructure:"seed"`
	TickInterval       time.Duration `mapstructure:"tick_interval"`
	MaxSteps           int           `mapstructure:"max_steps"`
	VisionRays         int           `mapstructure:"vision_rays"`
	VisionFOV          float64       `mapstructure:"vision_fov"`
	ShotOcclusion      bool          `mapstructure:"shot_occlusion"`
	RandomizeObstacles bool          `mapstructure:"randomize_obstacles"`
	RandomizePlayers   bool          `mapstructure:"randomize_players"`
}

// RewardConfig mirrors arena.RewardConfig.
type RewardConfig struct {
	MoveBonus        float64 `mapstructure:"move_bonus"`
	GridSize         float64 `mapstructure:"grid_size"`
	ExploreBonus     float64 `mapstructure:"explore_bonus"`
	DamageFactor     float64 `mapstructure:"damage_factor"`
	KillBonus        float64 `mapstructure:"kill_bonus"`
	MissPenalty      float64 `mapstructure:"miss_penalty"`
	HitPenaltyFactor float64 `mapstructure:"hit_penalty_factor"`
	BorderThreshold  float64 `mapstructure:"border_threshold"`
	BorderPenalty    float64 `mapstructure:"border_penalty"`
	TimeDecay        bool    `mapstructure:"time_decay"`
	DecayRate        float64 `mapstructure:"decay_rate"`
	DecayFloor       float64 `mapstructure:"decay_floor"`
}

// LogConfig selects the operational log level and event log detail.
type LogConfig struct {
	Level   string `mapstructure:"level"`
	Verbose bool   `mapstructure:"verbose"`
	Debug   bool   `mapstructure:"debug"`
}

// PlayerConfig is one roster entry. X and Y are the top-left spawn corner.
type PlayerConfig struct {
	Username string  `mapstructure:"username"`
	X        float64 `mapstructure:"x"`
	Y        float64 `mapstructure:"y"`
	Agent    string  `mapstructure:"agent"`
}

// ErrNoPlayers is returned when the roster is empty.
var ErrNoPlayers = errors.New("config: no players configured")

func setDefaults(v *viper.Viper) {
	stats := arena.DefaultStats()
	rc := arena.DefaultReward()

	v.SetDefault("world.width", arena.DefaultWorldSize)
	v.SetDefault("world.height", arena.DefaultWorldSize)
	v.SetDefault("world.obstacles", arena.DefaultObstacleCount)
	v.SetDefault("world.min_obstacle_size", arena.DefaultMinObstacleSize)
	v.SetDefault("world.max_obstacle_size", arena.DefaultMaxObstacleSize)
	v.SetDefault("world.corner_radius", arena.DefaultCornerRadius)

	v.SetDefault("character.size", stats.Size)
	v.SetDefault("character.speed", stats.Speed)
	v.SetDefault("character.vision_distance", stats.VisionDistance)
	v.SetDefault("character.damage", stats.Damage)
	v.SetDefault("character.shot_delay", stats.ShotDelay)
	v.SetDefault("character.max_ammo", stats.MaxAmmo)
	v.SetDefault("character.reload_time", stats.ReloadTime)
	v.SetDefault("character.collide_with_obstacles", stats.CollideWithObstacles)

	v.SetDefault("simulation.seed", 1)
	v.SetDefault("simulation.tick_interval", arena.DefaultTickInterval)
	v.SetDefault("simulation.max_steps", 3000)
	v.SetDefault("simulation.vision_rays", arena.DefaultVisionRays)
	v.SetDefault("simulation.vision_fov", arena.DefaultVisionFOV)
	v.SetDefault("simulation.shot_occlusion", false)
	v.SetDefault("simulation.randomize_obstacles", true)
	v.SetDefault("simulation.randomize_players", false)

	v.SetDefault("reward.move_bonus", rc.MoveBonus)
	v.SetDefault("reward.grid_size", rc.GridSize)
	v.SetDefault("reward.explore_bonus", rc.ExploreBonus)
	v.SetDefault("reward.damage_factor", rc.DamageFactor)
	v.SetDefault("reward.kill_bonus", rc.KillBonus)
	v.SetDefault("reward.miss_penalty", rc.MissPenalty)
	v.SetDefault("reward.hit_penalty_factor", rc.HitPenaltyFactor)
	v.SetDefault("reward.border_threshold", rc.BorderThreshold)
	v.SetDefault("reward.border_penalty", rc.BorderPenalty)
	v.SetDefault("reward.time_decay", rc.TimeDecay)
	v.SetDefault("reward.decay_rate", rc.DecayRate)
	v.SetDefault("reward.decay_floor", rc.DecayFloor)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.verbose", false)
	v.SetDefault("log.debug", false)

	v.SetDefault("players", []map[string]any{
		{"username": "player1", "x": 200, "y": 200, "agent": agent.KindHunter},
		{"username": "player2", "x": 1000, "y": 1000, "agent": agent.KindRandom},
	})
}

// Load reads path (if non-empty), applies ARENA_* overrides on top, then
// fills the rest from defaults. Load("") yields the built-in configuration.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the roster and the derived arena configuration.
func (c Config) Validate() error {
	if len(c.Players) == 0 {
		return ErrNoPlayers
	}
	if err := c.Arena().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.Stats().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log level: %w", err)
	}
	return nil
}

// Arena converts to the environment configuration.
func (c Config) Arena() arena.Config {
	r := c.Reward
	return arena.Config{
		World: arena.WorldConfig{
			Width:           c.World.Width,
			Height:          c.World.Height,
			Obstacles:       c.World.Obstacles,
			MinObstacleSize: c.World.MinObstacleSize,
			MaxObstacleSize: c.World.MaxObstacleSize,
			CornerRadius:    c.World.CornerRadius,
		},
		Reward: arena.RewardConfig{
			MoveBonus:        r.MoveBonus,
			GridSize:         r.GridSize,
			ExploreBonus:     r.ExploreBonus,
			DamageFactor:     r.DamageFactor,
			KillBonus:        r.KillBonus,
			MissPenalty:      r.MissPenalty,
			HitPenaltyFactor: r.HitPenaltyFactor,
			BorderThreshold:  r.BorderThreshold,
			BorderPenalty:    r.BorderPenalty,
			TimeDecay:        r.TimeDecay,
			DecayRate:        r.DecayRate,
			DecayFloor:       r.DecayFloor,
		},
		TickInterval:  c.Simulation.TickInterval,
		VisionRays:    c.Simulation.VisionRays,
		VisionFOV:     c.Simulation.VisionFOV,
		ShotOcclusion: c.Simulation.ShotOcclusion,
	}
}

// Stats returns the character stats shared by the roster.
func (c Config) Stats() arena.CharacterStats {
	ch := c.Character
	return arena.CharacterStats{
		Size:                 ch.Size,
		Speed:                ch.Speed,
		VisionDistance:       ch.VisionDistance,
		Damage:               ch.Damage,
		ShotDelay:            ch.ShotDelay,
		MaxAmmo:              ch.MaxAmmo,
		ReloadTime:           ch.ReloadTime,
		CollideWithObstacles: ch.CollideWithObstacles,
	}
}

// Roster builds the characters and their agents. override may supply an
// agent for a player (the viewer uses it for the keyboard); returning nil
// falls back to the built-in policy named by PlayerConfig.Agent. Stochastic
// agents are seeded from seed plus the roster index.
func (c Config) Roster(seed int64, override func(PlayerConfig) arena.Agent) ([]*arena.Character, []arena.Agent, error) {
	chars := make([]*arena.Character, 0, len(c.Players))
	agents := make([]arena.Agent, 0, len(c.Players))
	stats := c.Stats()
	for i, p := range c.Players {
		ch, err := arena.NewCharacter(p.Username, geom.Vec2{X: p.X, Y: p.Y}, stats)
		if err != nil {
			return nil, nil, fmt.Errorf("player %d: %w", i, err)
		}
		var a arena.Agent
		if override != nil {
			a = override(p)
		}
		if a == nil {
			a, err = agent.New(p.Agent, seed+int64(i), c.Simulation.VisionFOV)
			if err != nil {
				return nil, nil, fmt.Errorf("player %s: %w", p.Username, err)
			}
		}
		chars = append(chars, ch)
		agents = append(agents, a)
	}
	return chars, agents, nil
}

// NewLogger builds the operational logger for the configured level.
func NewLogger(lc LogConfig, prefix string) *log.Logger {
	level, err := log.ParseLevel(lc.Level)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
}

// EnvOptions returns the arena options implied by the configuration.
func (c Config) EnvOptions(logger *log.Logger) []arena.Option {
	return []arena.Option{
		arena.WithSeed(c.Simulation.Seed),
		arena.WithLogger(logger),
		arena.WithVerboseEvents(c.Log.Verbose),
	}
}
