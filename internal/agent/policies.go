package agent

import (
	"math"
	"math/rand"

	"github.com/Garsondee/Arena-Sense/internal/arena"
	"github.com/Garsondee/Arena-Sense/internal/geom"
)

// Learner is an agent that wants feedback after every step it took part in.
type Learner interface {
	arena.Agent
	Remember(reward float64, next arena.Snapshot, done bool)
}

// Tally accumulates the rewards handed to Remember. Embed it to satisfy
// Learner.
type Tally struct {
	total    float64
	steps    int
	episodes int
}

// Remember adds reward to the running total.
func (t *Tally) Remember(reward float64, _ arena.Snapshot, done bool) {
	t.total += reward
	t.steps++
	if done {
		t.episodes++
	}
}

// Return is the total reward seen so far.
func (t *Tally) Return() float64 { return t.total }

// Steps is the number of Remember calls.
func (t *Tally) Steps() int { return t.steps }

// Episodes counts Remember calls with done set.
func (t *Tally) Episodes() int { return t.episodes }

// Idle never does anything.
func Idle() arena.Agent {
	return arena.AgentFunc(func(arena.Snapshot) arena.Action { return arena.Action{} })
}

// Random picks a discrete action uniformly at random each step.
type Random struct {
	Tally
	rng  *rand.Rand
	last int
}

// NewRandom returns a Random agent with its own seeded RNG.
func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))} // #nosec G404 -- simulation RNG
}

// Act implements arena.Agent.
func (r *Random) Act(arena.Snapshot) arena.Action {
	r.last = r.rng.Intn(NumActions)
	return FromIndex(r.last)
}

// LastAction is the index chosen by the most recent Act call.
func (r *Random) LastAction() int { return r.last }

// Hunter is a scripted opponent. It turns toward and shoots any player its
// rays see; otherwise it patrols along its facing, turning away from walls
// and sweeping its vision cone every few steps.
type Hunter struct {
	Tally
	fov       float64
	wallGap   float64
	sweepEach int

	ticks   int
	lastLoc geom.Vec2
	moved   bool
}

// NewHunter returns a Hunter for characters whose vision cone is fov degrees.
func NewHunter(fov float64) *Hunter {
	return &Hunter{fov: fov, wallGap: 60, sweepEach: 30}
}

// Act implements arena.Agent.
func (h *Hunter) Act(s arena.Snapshot) arena.Action {
	if !s.Alive {
		return arena.Action{}
	}
	h.ticks++
	stuck := h.moved && s.Location == h.lastLoc
	h.lastLoc = s.Location
	h.moved = false

	if n := len(s.Rays); n > 0 {
		step := h.fov / float64(n)
		mid := step * float64(n-1) / 2
		best := -1
		for i, r := range s.Rays {
			if r.HitType != arena.HitPlayer {
				continue
			}
			if best < 0 || r.Distance < s.Rays[best].Distance {
				best = i
			}
		}
		if best >= 0 {
			offset := float64(best)*step - mid
			return arena.Action{Rotate: offset, Shoot: s.CurrentAmmo > 0 && !s.Reloading}
		}

		ahead := s.Rays[n/2]
		if stuck || (ahead.HitType == arena.HitObject && ahead.Distance < h.wallGap) {
			return arena.Action{Rotate: 90}
		}
	}

	act := moveAlong(s.Rotation)
	h.moved = true
	if h.sweepEach > 0 && h.ticks%h.sweepEach == 0 {
		act.Rotate = h.fov
	}
	return act
}

// moveAlong picks the axis-aligned move closest to a facing.
func moveAlong(rotation float64) arena.Action {
	d := geom.Heading(rotation)
	if math.Abs(d.X) > math.Abs(d.Y) {
		if d.X > 0 {
			return arena.Action{Right: true}
		}
		return arena.Action{Left: true}
	}
	if d.Y > 0 {
		return arena.Action{Down: true}
	}
	return arena.Action{Forward: true}
}
