package batch

import (
	"fmt"
	"sort"
	"strings"
)

// PlayerStats aggregates one username across a batch.
type PlayerStats struct {
	Username    string
	Wins        int
	Kills       int
	DamageDealt int
	Survived    int
	TotalReward float64
	Episodes    int
}

// MeanReward is the average per-episode return.
func (p PlayerStats) MeanReward() float64 {
	if p.Episodes == 0 {
		return 0
	}
	return p.TotalReward / float64(p.Episodes)
}

// Stats summarizes a batch.
type Stats struct {
	Episodes  int
	Decided   int
	Undecided int
	MeanSteps float64
	Players   []PlayerStats // sorted by wins, then username
}

// Aggregate folds episode results into batch statistics.
func Aggregate(results []EpisodeResult) Stats {
	s := Stats{Episodes: len(results)}
	byName := make(map[string]*PlayerStats)
	get := func(name string) *PlayerStats {
		p, ok := byName[name]
		if !ok {
			p = &PlayerStats{Username: name}
			byName[name] = p
		}
		return p
	}

	totalSteps := 0
	for _, r := range results {
		totalSteps += r.Steps
		if r.Over {
			s.Decided++
			if r.Winner != "" {
				get(r.Winner).Wins++
			}
		} else {
			s.Undecided++
		}
		for name, snap := range r.Final.Players {
			p := get(name)
			p.Episodes++
			p.Kills += snap.Kills
			p.DamageDealt += snap.DamageDealt
			if snap.Alive {
				p.Survived++
			}
			p.TotalReward += r.Rewards[name]
		}
	}
	if len(results) > 0 {
		s.MeanSteps = float64(totalSteps) / float64(len(results))
	}

	for _, p := range byName {
		s.Players = append(s.Players, *p)
	}
	sort.Slice(s.Players, func(i, j int) bool {
		if s.Players[i].Wins != s.Players[j].Wins {
			return s.Players[i].Wins > s.Players[j].Wins
		}
		return s.Players[i].Username < s.Players[j].Username
	})
	return s
}

// Format renders the aggregate as report lines.
func (s Stats) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "episodes=%d decided=%d undecided=%d mean_steps=%.1f\n", s.Episodes, s.Decided, s.Undecided, s.MeanSteps)
	for _, p := range s.Players {
		winRate := 0.0
		if s.Episodes > 0 {
			winRate = float64(p.Wins) / float64(s.Episodes) * 100
		}
		fmt.Fprintf(&b, "  %-12s wins=%d (%.0f%%) kills=%d damage=%d survived=%d mean_reward=%.2f\n",
			p.Username, p.Wins, winRate, p.Kills, p.DamageDealt, p.Survived, p.MeanReward())
	}
	return b.String()
}
