package arena

import (
	"fmt"
	"math"

	"github.com/Garsondee/Arena-Sense/internal/geom"
)

// Agent is the decision-making policy behind a character. Act is called
// synchronously inside Environment.Step and must return promptly; it must
// not mutate the snapshot.
type Agent interface {
	Act(s Snapshot) Action
}

// AgentFunc adapts a plain function to the Agent interface.
type AgentFunc func(s Snapshot) Action

// Act calls f(s).
func (f AgentFunc) Act(s Snapshot) Action { return f(s) }

// Action is the command an agent issues for one step. The zero value stands
// still, keeps its facing and holds fire.
type Action struct {
	Forward bool    `json:"forward"`
	Right   bool    `json:"right"`
	Down    bool    `json:"down"`
	Left    bool    `json:"left"`
	Rotate  float64 `json:"rotate"`
	Shoot   bool    `json:"shoot"`
}

// Sanitize drops a non-finite rotation.
func (a Action) Sanitize() Action {
	if math.IsNaN(a.Rotate) || math.IsInf(a.Rotate, 0) {
		a.Rotate = 0
	}
	return a
}

// Idle reports whether a does nothing.
func (a Action) Idle() bool { return a == Action{} }

func (a Action) String() string {
	return fmt.Sprintf("fwd=%t right=%t down=%t left=%t rot=%.1f shoot=%t",
		a.Forward, a.Right, a.Down, a.Left, a.Rotate, a.Shoot)
}

// HitType classifies what a ray stopped on.
type HitType string

const (
	HitNone   HitType = "none"
	HitObject HitType = "object" // obstacle or world boundary
	HitPlayer HitType = "player"
)

// Ray is one perception or shot probe. Distance is only meaningful when
// HitType is not HitNone; End is then the hit point, otherwise the far end.
type Ray struct {
	Start    geom.Vec2 `json:"start"`
	End      geom.Vec2 `json:"end"`
	Distance float64   `json:"distance"`
	HitType  HitType   `json:"hit_type"`
	Target   string    `json:"target,omitempty"`
}

// Hit reports whether the ray stopped on something.
func (r Ray) Hit() bool { return r.HitType != HitNone }

// Snapshot is the read-only observation handed to an Agent each step.
type Snapshot struct {
	Location      geom.Vec2 `json:"location"`
	Rotation      float64   `json:"rotation"`
	Rays          []Ray     `json:"rays"`
	CurrentAmmo   int       `json:"current_ammo"`
	Reloading     bool      `json:"is_reloading"`
	Alive         bool      `json:"alive"`
	Health        int       `json:"health"`
	Kills         int       `json:"kills"`
	DamageDealt   int       `json:"damage_dealt"`
	MetersMoved   float64   `json:"meters_moved"`
	TotalRotation float64   `json:"total_rotation"`
	ShotFired     bool      `json:"shot_fired"`
}

// GeneralInfo summarizes the roster for one report.
type GeneralInfo struct {
	TotalPlayers int `json:"total_players"`
	AlivePlayers int `json:"alive_players"`
}

// Report is the structured output of one Environment step.
type Report struct {
	EpisodeID string              `json:"episode_id"`
	Step      int                 `json:"step"`
	General   GeneralInfo         `json:"general_info"`
	Players   map[string]Snapshot `json:"players_info"`
	Winner    string              `json:"winner,omitempty"`
}
