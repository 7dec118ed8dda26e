package arena

import (
	"fmt"
	"time"
)

// Defaults: a 1280x1280 world, 40px characters
// and a five-ray 80 degree vision cone.
const (
	DefaultWorldSize       = 1280.0
	DefaultObstacleCount   = 10
	DefaultMinObstacleSize = 50.0
	DefaultMaxObstacleSize = 100.0
	DefaultCornerRadius    = 100.0

	DefaultCharacterSize  = 40.0
	DefaultSpeed          = 5.0
	DefaultVisionDistance = 1500.0
	DefaultDamage         = 20
	DefaultShotDelay      = 300 * time.Millisecond
	DefaultMaxAmmo        = 30
	DefaultReloadTime     = 3 * time.Second

	DefaultVisionRays   = 5
	DefaultVisionFOV    = 80.0
	DefaultTickInterval = time.Second / 60

	MaxHealth = 100

	shotRange   = 5000.0
	corpseCoord = -1000.0
)

// WorldConfig describes the playfield and its obstacle layout.
type WorldConfig struct {
	Width           float64
	Height          float64
	Obstacles       int
	MinObstacleSize float64
	MaxObstacleSize float64
	CornerRadius    float64
}

// CharacterStats is the static configuration of a character. It survives
// every reset.
type CharacterStats struct {
	Size                 float64
	Speed                float64
	VisionDistance       float64
	Damage               int
	ShotDelay            time.Duration
	MaxAmmo              int
	ReloadTime           time.Duration
	CollideWithObstacles bool
}

// RewardConfig holds the weights of the per-step reward.
type RewardConfig struct {
	MoveBonus        float64
	GridSize         float64
	ExploreBonus     float64
	DamageFactor     float64
	KillBonus        float64
	MissPenalty      float64
	HitPenaltyFactor float64
	BorderThreshold  float64
	BorderPenalty    float64

	// TimeDecay scales the total by max(DecayFloor, 1-DecayRate*step).
	// Off by default.
	TimeDecay  bool
	DecayRate  float64
	DecayFloor float64
}

// Config is everything an Environment needs besides its roster.
type Config struct {
	World        WorldConfig
	Reward       RewardConfig
	TickInterval time.Duration
	VisionRays   int
	VisionFOV    float64

	// ShotOcclusion stops shots at the first obstacle or boundary. When false
	// every opponent crossed by the shot line is damaged, even behind cover.
	ShotOcclusion bool
}

// DefaultStats returns the baseline character.
func DefaultStats() CharacterStats {
	return CharacterStats{
		Size:                 DefaultCharacterSize,
		Speed:                DefaultSpeed,
		VisionDistance:       DefaultVisionDistance,
		Damage:               DefaultDamage,
		ShotDelay:            DefaultShotDelay,
		MaxAmmo:              DefaultMaxAmmo,
		ReloadTime:           DefaultReloadTime,
		CollideWithObstacles: true,
	}
}

// DefaultReward returns the standard shaping weights without time decay.
func DefaultReward() RewardConfig {
	return RewardConfig{
		MoveBonus:        1,
		GridSize:         100,
		ExploreBonus:     5,
		DamageFactor:     1,
		KillBonus:        20,
		MissPenalty:      1,
		HitPenaltyFactor: 0.2,
		BorderThreshold:  50,
		BorderPenalty:    1,
		TimeDecay:        false,
		DecayRate:        0.001,
		DecayFloor:       0.2,
	}
}

// DefaultConfig returns a complete configuration.
func DefaultConfig() Config {
	return Config{
		World: WorldConfig{
			Width:           DefaultWorldSize,
			Height:          DefaultWorldSize,
			Obstacles:       DefaultObstacleCount,
			MinObstacleSize: DefaultMinObstacleSize,
			MaxObstacleSize: DefaultMaxObstacleSize,
			CornerRadius:    DefaultCornerRadius,
		},
		Reward:       DefaultReward(),
		TickInterval: DefaultTickInterval,
		VisionRays:   DefaultVisionRays,
		VisionFOV:    DefaultVisionFOV,
	}
}

// Validate reports the first precondition violation in c.
func (c Config) Validate() error {
	switch {
	case c.World.Width <= 0 || c.World.Height <= 0:
		return fmt.Errorf("%w: world size %.0fx%.0f", ErrInvalidConfig, c.World.Width, c.World.Height)
	case c.World.Obstacles < 0:
		return fmt.Errorf("%w: negative obstacle count %d", ErrInvalidConfig, c.World.Obstacles)
	case c.World.MinObstacleSize <= 0 || c.World.MaxObstacleSize < c.World.MinObstacleSize:
		return fmt.Errorf("%w: obstacle size range [%.0f, %.0f]", ErrInvalidConfig, c.World.MinObstacleSize, c.World.MaxObstacleSize)
	case c.World.CornerRadius < 0:
		return fmt.Errorf("%w: negative corner radius", ErrInvalidConfig)
	case c.TickInterval <= 0:
		return fmt.Errorf("%w: tick interval must be positive", ErrInvalidConfig)
	case c.VisionRays < 1:
		return fmt.Errorf("%w: need at least one vision ray", ErrInvalidConfig)
	case c.VisionFOV < 0 || c.VisionFOV > 360:
		return fmt.Errorf("%w: vision fov %.1f out of [0, 360]", ErrInvalidConfig, c.VisionFOV)
	case c.Reward.GridSize <= 0:
		return fmt.Errorf("%w: reward grid size must be positive", ErrInvalidConfig)
	case c.Reward.TimeDecay && (c.Reward.DecayRate < 0 || c.Reward.DecayFloor < 0 || c.Reward.DecayFloor > 1):
		return fmt.Errorf("%w: decay rate %.4f floor %.2f", ErrInvalidConfig, c.Reward.DecayRate, c.Reward.DecayFloor)
	}
	return nil
}

// Validate reports the first precondition violation in s.
func (s CharacterStats) Validate() error {
	switch {
	case s.Size <= 0:
		return fmt.Errorf("%w: character size must be positive", ErrInvalidConfig)
	case s.Speed < 0:
		return fmt.Errorf("%w: negative speed", ErrInvalidConfig)
	case s.VisionDistance <= 0:
		return fmt.Errorf("%w: vision distance must be positive", ErrInvalidConfig)
	case s.Damage < 0:
		return fmt.Errorf("%w: negative damage", ErrInvalidConfig)
	case s.MaxAmmo < 0:
		return fmt.Errorf("%w: negative max ammo", ErrInvalidConfig)
	case s.ShotDelay < 0 || s.ReloadTime < 0:
		return fmt.Errorf("%w: negative timer", ErrInvalidConfig)
	}
	return nil
}
