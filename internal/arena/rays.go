package arena

import (
	"math"

	"github.com/Garsondee/Arena-Sense/internal/geom"
)

type playerHit struct {
	target *Character
	dist   float64
}

// CreateRays casts numRays vision rays spread evenly over a fov-degree cone
// centered on the facing. Ray i is offset by i*(fov/n) - (fov/n)*(n-1)/2
// degrees. Each ray reports the closest of: obstacles, live opponents and the
// world boundary, evaluated in that order with strictly-closer replacement.
// Vision rays never change any state.
func (c *Character) CreateRays(numRays int, fov, distance float64) []Ray {
	rays, _ := c.castRays(numRays, fov, distance)
	return rays
}

// castDamagingRay resolves one shot along the facing and applies damage to
// the opponents it crosses.
func (c *Character) castDamagingRay(damage int) Ray {
	rays, hits := c.castRays(1, 0, shotRange)
	ray := rays[0]
	if damage <= 0 {
		return ray
	}

	occluder := math.Inf(1)
	if c.w.shotOcclusion {
		far := ray.Start.Add(geom.Heading(c.rotation).Scale(shotRange))
		occluder = c.nearestObjectDistance(ray.Start, far)
	}

	for _, h := range hits[0] {
		if h.dist >= occluder {
			continue
		}
		killed, effective := h.target.DoDamage(damage, c)
		if killed {
			c.kills++
			c.event(CategoryCombat, "kill", h.target.username, float64(effective))
		} else if effective > 0 {
			c.damageDealt += effective
			c.event(CategoryCombat, "hit", h.target.username, float64(effective))
		}
	}
	return ray
}

// castRays does the geometry for both vision and shots. Alongside the rays it
// returns, per ray, every live opponent the ray crossed.
func (c *Character) castRays(numRays int, fov, distance float64) ([]Ray, [][]playerHit) {
	if numRays < 1 {
		numRays = 1
	}
	origin := c.rect.Center()
	step := fov / float64(numRays)
	mid := step * float64(numRays-1) / 2

	rays := make([]Ray, 0, numRays)
	hits := make([][]playerHit, 0, numRays)
	for i := 0; i < numRays; i++ {
		offset := float64(i)*step - mid
		far := origin.Add(geom.Heading(c.rotation + offset).Scale(distance))

		ray := Ray{Start: origin, End: far, HitType: HitNone}
		best := distance
		consider := func(pt geom.Vec2, kind HitType, target string) float64 {
			d := geom.Distance(origin, pt)
			if d < best {
				best = d
				ray.End = pt
				ray.Distance = d
				ray.HitType = kind
				ray.Target = target
			}
			return d
		}

		for _, o := range c.w.obstacles {
			if pt, ok := geom.SegmentRectHit(origin, far, o.Rect); ok {
				consider(pt, HitObject, "")
			}
		}

		var crossed []playerHit
		for _, idx := range c.opponents {
			opp := c.w.character(idx)
			if opp == nil || opp == c || !opp.alive {
				continue
			}
			if pt, ok := geom.SegmentRectHit(origin, far, opp.rect); ok {
				d := consider(pt, HitPlayer, opp.username)
				crossed = append(crossed, playerHit{target: opp, dist: d})
			}
		}

		if c.w.hasBounds {
			if pt, ok := geom.SegmentRectHit(origin, far, c.w.bounds.Rect()); ok {
				consider(pt, HitObject, "")
			}
		}

		rays = append(rays, ray)
		hits = append(hits, crossed)
	}
	return rays, hits
}

// nearestObjectDistance returns the distance to the closest obstacle or
// boundary crossing along from->to, or +Inf when nothing is crossed.
func (c *Character) nearestObjectDistance(from, to geom.Vec2) float64 {
	nearest := math.Inf(1)
	for _, o := range c.w.obstacles {
		if pt, ok := geom.SegmentRectHit(from, to, o.Rect); ok {
			nearest = math.Min(nearest, geom.Distance(from, pt))
		}
	}
	if c.w.hasBounds {
		if pt, ok := geom.SegmentRectHit(from, to, c.w.bounds.Rect()); ok {
			nearest = math.Min(nearest, geom.Distance(from, pt))
		}
	}
	return nearest
}
