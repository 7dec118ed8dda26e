package arena

import (
	"fmt"
	"sort"
	"strings"
)

// Outcome classifies an episode as seen from the outside.
type Outcome int

const (
	OutcomeInProgress Outcome = iota
	OutcomeVictory
	OutcomeDraw
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInProgress:
		return "in_progress"
	case OutcomeVictory:
		return "victory"
	case OutcomeDraw:
		return "draw"
	default:
		return "unknown"
	}
}

// CharacterResult is one roster member's line in an EpisodeSummary.
type CharacterResult struct {
	Username    string  `json:"username" msgpack:"username"`
	Alive       bool    `json:"alive" msgpack:"alive"`
	Health      int     `json:"health" msgpack:"health"`
	Kills       int     `json:"kills" msgpack:"kills"`
	DamageDealt int     `json:"damage_dealt" msgpack:"damage_dealt"`
	MetersMoved float64 `json:"meters_moved" msgpack:"meters_moved"`
	ShotsFired  int     `json:"shots_fired" msgpack:"shots_fired"`
}

// EpisodeSummary is the end-of-episode digest used by reports and the viewer.
type EpisodeSummary struct {
	EpisodeID   string            `json:"episode_id" msgpack:"episode_id"`
	Steps       int               `json:"steps" msgpack:"steps"`
	Outcome     Outcome           `json:"outcome" msgpack:"outcome"`
	Winner      string            `json:"winner,omitempty" msgpack:"winner,omitempty"`
	Survivors   int               `json:"survivors" msgpack:"survivors"`
	Description string            `json:"description" msgpack:"description"`
	Results     []CharacterResult `json:"results" msgpack:"results"`
}

// Summary describes the current episode. With a single survivor it is a
// victory; with none (everyone fell on the same step, or a roster that never
// had a fight) it is a draw; otherwise it is still in progress. Results are
// ordered by kills, then damage dealt, then username.
func (e *Environment) Summary() EpisodeSummary {
	s := EpisodeSummary{
		EpisodeID: e.episodeID,
		Steps:     e.steps,
	}
	for _, c := range e.roster {
		if c.alive {
			s.Survivors++
		}
		s.Results = append(s.Results, CharacterResult{
			Username:    c.username,
			Alive:       c.alive,
			Health:      c.health,
			Kills:       c.kills,
			DamageDealt: c.damageDealt,
			MetersMoved: c.metersMoved,
			ShotsFired:  e.shotsBy(c.username),
		})
	}
	sort.SliceStable(s.Results, func(i, j int) bool {
		a, b := s.Results[i], s.Results[j]
		if a.Kills != b.Kills {
			return a.Kills > b.Kills
		}
		if a.DamageDealt != b.DamageDealt {
			return a.DamageDealt > b.DamageDealt
		}
		return a.Username < b.Username
	})

	switch {
	case s.Survivors == 1:
		s.Outcome = OutcomeVictory
		s.Winner = e.winner
		if s.Winner == "" {
			for _, c := range e.roster {
				if c.alive {
					s.Winner = c.username
				}
			}
		}
		s.Description = "last_standing_" + s.Winner
	case s.Survivors == 0 && len(e.roster) > 0:
		s.Outcome = OutcomeDraw
		s.Description = "mutual_annihilation"
	default:
		s.Outcome = OutcomeInProgress
		s.Description = fmt.Sprintf("%d_of_%d_standing", s.Survivors, len(e.roster))
	}
	return s
}

func (e *Environment) shotsBy(username string) int {
	n := 0
	for _, ev := range e.events.FilterCharacter(username) {
		if ev.is(CategoryCombat, "shot") {
			n++
		}
	}
	return n
}

// String renders a one-line digest.
func (s EpisodeSummary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "episode %s step %d: %s", s.EpisodeID, s.Steps, s.Outcome)
	if s.Winner != "" {
		fmt.Fprintf(&b, " winner=%s", s.Winner)
	}
	for _, r := range s.Results {
		fmt.Fprintf(&b, " | %s k=%d dmg=%d hp=%d", r.Username, r.Kills, r.DamageDealt, r.Health)
	}
	return b.String()
}
