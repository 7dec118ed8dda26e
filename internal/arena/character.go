package arena

import (
	"fmt"
	"strings"
	"time"

	"github.com/Garsondee/Arena-Sense/internal/geom"
)

// Direction is an axis-aligned movement command. Facing does not affect it.
type Direction int

const (
	Forward Direction = iota // -Y
	Right                    // +X
	Down                     // +Y
	Left                     // -X
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return "unknown"
	}
}

func (d Direction) unit() (geom.Vec2, bool) {
	switch d {
	case Forward:
		return geom.Vec2{X: 0, Y: -1}, true
	case Right:
		return geom.Vec2{X: 1, Y: 0}, true
	case Down:
		return geom.Vec2{X: 0, Y: 1}, true
	case Left:
		return geom.Vec2{X: -1, Y: 0}, true
	}
	return geom.Vec2{}, false
}

// Character is one combat agent for the lifetime of an Environment.
//
// Two orthogonal state machines live here: reload
// (NotReloading -> Reloading -> NotReloading) and life (Alive -> Dead, only
// undone by Reset between episodes).
type Character struct {
	username string
	spawn    geom.Vec2 // top-left of the spawn rect
	stats    CharacterStats

	rect     geom.Rect
	rotation float64
	health   int
	alive    bool
	ammo     int

	reloading     bool
	reloadStarted bool
	reloadStart   time.Duration
	hasShot       bool
	lastShot      time.Duration
	shotFired     bool

	kills         int
	damageDealt   int
	metersMoved   float64
	totalRotation float64

	rays      []Ray
	shotRay   *Ray
	index     int
	opponents []int
	w         *world
}

// NewCharacter creates a character whose rect's top-left corner starts at
// spawn. It joins a world when handed to Environment.SetRoster.
func NewCharacter(username string, spawn geom.Vec2, stats CharacterStats) (*Character, error) {
	if strings.TrimSpace(username) == "" {
		return nil, fmt.Errorf("%w: empty username", ErrInvalidConfig)
	}
	if !spawn.Finite() {
		return nil, fmt.Errorf("%w: spawn point for %s is not finite", ErrInvalidConfig, username)
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("character %s: %w", username, err)
	}
	c := &Character{
		username: username,
		spawn:    spawn,
		stats:    stats,
		w:        detachedWorld(),
	}
	c.Reset()
	return c, nil
}

// Username is the stable identity used in reports.
func (c *Character) Username() string { return c.username }

// Stats returns the static configuration.
func (c *Character) Stats() CharacterStats { return c.stats }

// Rect returns the current footprint.
func (c *Character) Rect() geom.Rect { return c.rect }

// Location returns the center of the footprint.
func (c *Character) Location() geom.Vec2 { return c.rect.Center() }

// Rotation returns the facing in degrees; 0 faces up.
func (c *Character) Rotation() float64 { return c.rotation }

// Health returns the remaining health in [0, MaxHealth].
func (c *Character) Health() int { return c.health }

// Alive reports whether the character is still in play.
func (c *Character) Alive() bool { return c.alive }

// Ammo returns the rounds left in the magazine.
func (c *Character) Ammo() int { return c.ammo }

// Reloading reports whether a reload is in progress.
func (c *Character) Reloading() bool { return c.reloading }

// Kills returns the kills credited this episode.
func (c *Character) Kills() int { return c.kills }

// DamageDealt returns the non-lethal damage credited this episode.
func (c *Character) DamageDealt() int { return c.damageDealt }

// MetersMoved returns the accumulated successful movement.
func (c *Character) MetersMoved() float64 { return c.metersMoved }

// TotalRotation returns the accumulated absolute rotation in degrees.
func (c *Character) TotalRotation() float64 { return c.totalRotation }

// Rays returns the last computed vision rays.
func (c *Character) Rays() []Ray { return c.rays }

// LastShot returns the ray of the most recent shot this step, if any.
func (c *Character) LastShot() (Ray, bool) {
	if c.shotRay == nil || !c.shotFired {
		return Ray{}, false
	}
	return *c.shotRay, true
}

// Reset restores every mutable field for a new episode. Identity, stats and
// the world wiring survive.
func (c *Character) Reset() {
	size := c.stats.Size
	c.rect = geom.Rect{X: c.spawn.X, Y: c.spawn.Y, W: size, H: size}
	c.rotation = 0
	c.health = MaxHealth
	c.alive = true
	c.ammo = c.stats.MaxAmmo
	c.reloading = false
	c.reloadStarted = false
	c.reloadStart = 0
	c.hasShot = false
	c.lastShot = 0
	c.shotFired = false
	c.kills = 0
	c.damageDealt = 0
	c.metersMoved = 0
	c.totalRotation = 0
	c.rays = nil
	c.shotRay = nil
	c.clampToBounds()
}

// Move translates the character by its speed along dir. The whole step is
// reverted when the resulting rect overlaps an obstacle.
func (c *Character) Move(dir Direction) error {
	if !c.alive {
		return ErrDead
	}
	u, ok := dir.unit()
	if !ok {
		return fmt.Errorf("%w: %d", ErrBadDirection, int(dir))
	}

	prev := c.rect
	c.rect = c.rect.Translate(u.Scale(c.stats.Speed))
	c.clampToBounds()

	if c.stats.CollideWithObstacles {
		for _, o := range c.w.obstacles {
			if c.rect.Overlaps(o.Rect) {
				c.rect = prev
				c.event(CategoryMove, "blocked", dir.String(), 0)
				return ErrBlocked
			}
		}
	}

	c.metersMoved += c.stats.Speed
	return nil
}

// AddRotate turns the character by deg degrees (positive is clockwise on
// screen).
func (c *Character) AddRotate(deg float64) {
	c.rotation += deg
	if deg < 0 {
		c.totalRotation -= deg
	} else {
		c.totalRotation += deg
	}
}

// clampToBounds keeps the whole footprint, and therefore its center, inside
// the world bounds.
func (c *Character) clampToBounds() {
	if c.w == nil || !c.w.hasBounds {
		return
	}
	b := c.w.bounds
	center := c.rect.Center()
	halfW, halfH := c.rect.W/2, c.rect.H/2
	center.X = geom.Clamp(center.X, b.MinX+halfW, b.MaxX-halfW)
	center.Y = geom.Clamp(center.Y, b.MinY+halfH, b.MaxY-halfH)
	c.rect = c.rect.WithCenter(center)
}

// Shoot fires a single ray along the facing. It fails without side effects
// when the character is dead, out of ammo, or still inside the shot delay.
func (c *Character) Shoot() error {
	if !c.alive {
		return ErrDead
	}
	if c.ammo <= 0 {
		c.event(CategoryCombat, "no_ammo", "", 0)
		return ErrNoAmmo
	}
	now := c.w.clock.Now()
	if c.hasShot && now-c.lastShot < c.stats.ShotDelay {
		c.event(CategoryCombat, "cooldown", "", 0)
		return ErrOnCooldown
	}

	ray := c.castDamagingRay(c.stats.Damage)
	c.shotRay = &ray
	c.lastShot = now
	c.hasShot = true
	c.shotFired = true
	c.ammo--
	c.event(CategoryCombat, "shot", string(ray.HitType), ray.Distance)

	if c.ammo <= 0 && !c.reloading {
		c.reloading = true
		c.Reload()
	}
	return nil
}

// Reload advances the reload state machine. It is cheap to call every step:
// nothing happens unless a reload is pending. The first call after the
// magazine empties starts the timer; a later call past ReloadTime refills.
func (c *Character) Reload() {
	if !c.reloading {
		return
	}
	now := c.w.clock.Now()
	if !c.reloadStarted {
		c.reloadStarted = true
		c.reloadStart = now
		c.event(CategoryReload, "start", "", 0)
		return
	}
	if now-c.reloadStart >= c.stats.ReloadTime {
		c.ammo = c.stats.MaxAmmo
		c.reloadStarted = false
		c.reloadStart = 0
		c.reloading = false
		c.event(CategoryReload, "done", "", float64(c.ammo))
	}
}

// DoDamage applies amount to the character. It returns killed=true exactly
// once, on the hit that takes health to zero; the attacker should credit the
// kill. Corpses ignore further damage and report (false, 0).
func (c *Character) DoDamage(amount int, attacker *Character) (killed bool, effective int) {
	if !c.alive || amount <= 0 {
		return false, 0
	}
	by := "--"
	if attacker != nil {
		by = attacker.username
	}

	c.health -= amount
	if c.health <= 0 {
		c.health = 0
		c.alive = false
		c.ammo = 0
		c.rect.X = corpseCoord
		c.rect.Y = corpseCoord
		c.event(CategoryCombat, "died", "killed by "+by, float64(amount))
		return true, amount
	}
	c.event(CategoryCombat, "damaged", "by "+by, float64(amount))
	return false, amount
}

// Info computes a fresh snapshot. Vision rays are recast against the current
// obstacles and opponents; a dead character sees nothing.
func (c *Character) Info() Snapshot {
	if c.alive {
		c.rays = c.CreateRays(c.w.visionRays, c.w.visionFOV, c.stats.VisionDistance)
	} else {
		c.rays = nil
	}
	rays := make([]Ray, len(c.rays))
	copy(rays, c.rays)
	return Snapshot{
		Location:      c.Location(),
		Rotation:      c.rotation,
		Rays:          rays,
		CurrentAmmo:   c.ammo,
		Reloading:     c.reloading,
		Alive:         c.alive,
		Health:        c.health,
		Kills:         c.kills,
		DamageDealt:   c.damageDealt,
		MetersMoved:   c.metersMoved,
		TotalRotation: c.totalRotation,
		ShotFired:     c.shotFired,
	}
}

func (c *Character) event(category, key, value string, num float64) {
	if c.w == nil {
		return
	}
	c.w.events.Add(c.w.tick, c.username, category, key, value, num)
}
