package arena

import (
	"math"

	"github.com/Garsondee/Arena-Sense/internal/geom"
)

// CalculateReward scores one character's step from the difference between
// report and the previous report seen for that character. The components
// are summed with no early exit:
//
//  1. +MoveBonus when the location changed at all
//  2. +ExploreBonus the first time a GridSize cell is entered this episode
//  3. +DamageFactor per unit of new damage dealt
//  4. +KillBonus per new kill
//  5. -MissPenalty when a shot was fired and no new damage was dealt
//  6. -HitPenaltyFactor per unit of health lost
//  7. -BorderPenalty within BorderThreshold of any world edge
//
// Tracking state is initialized lazily on the first call for a username and
// updated after scoring. An unknown username scores 0.
func (e *Environment) CalculateReward(report Report, username string) float64 {
	snap, ok := report.Players[username]
	if !ok {
		e.logger.Warn("reward requested for unknown character", "character", username, "episode", e.episodeID)
		return 0
	}
	rc := e.cfg.Reward
	loc := snap.Location

	if _, ok := e.lastPosition[username]; !ok {
		e.lastPosition[username] = loc
		e.lastDamage[username] = snap.DamageDealt
		e.lastKills[username] = snap.Kills
		e.lastHealth[username] = snap.Health
	}
	if _, ok := e.visited[username]; !ok {
		e.visited[username] = make(map[cell]struct{})
	}

	reward := 0.0

	if geom.Distance(loc, e.lastPosition[username]) > 0 {
		reward += rc.MoveBonus
	}

	c := cell{
		x: int(math.Floor(loc.X / rc.GridSize)),
		y: int(math.Floor(loc.Y / rc.GridSize)),
	}
	if _, seen := e.visited[username][c]; !seen {
		e.visited[username][c] = struct{}{}
		reward += rc.ExploreBonus
	}

	deltaDamage := snap.DamageDealt - e.lastDamage[username]
	if deltaDamage > 0 {
		reward += float64(deltaDamage) * rc.DamageFactor
	}

	deltaKills := snap.Kills - e.lastKills[username]
	if deltaKills > 0 {
		reward += float64(deltaKills) * rc.KillBonus
	}

	if snap.ShotFired && deltaDamage <= 0 {
		reward -= rc.MissPenalty
	}

	if lost := e.lastHealth[username] - snap.Health; lost > 0 {
		reward -= float64(lost) * rc.HitPenaltyFactor
	}

	if e.nearBorder(loc, rc.BorderThreshold) {
		reward -= rc.BorderPenalty
	}

	e.lastPosition[username] = loc
	e.lastDamage[username] = snap.DamageDealt
	e.lastKills[username] = snap.Kills
	e.lastHealth[username] = snap.Health

	if rc.TimeDecay {
		reward *= math.Max(rc.DecayFloor, 1-rc.DecayRate*float64(e.steps))
	}
	return reward
}

func (e *Environment) nearBorder(p geom.Vec2, threshold float64) bool {
	b := e.w.bounds
	return p.X < b.MinX+threshold || p.X > b.MaxX-threshold ||
		p.Y < b.MinY+threshold || p.Y > b.MaxY-threshold
}

func (e *Environment) clearTracking() {
	e.lastPosition = make(map[string]geom.Vec2)
	e.lastDamage = make(map[string]int)
	e.lastKills = make(map[string]int)
	e.lastHealth = make(map[string]int)
	e.visited = make(map[string]map[cell]struct{})
}
