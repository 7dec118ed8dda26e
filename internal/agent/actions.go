// Package agent holds the built-in policies that can drive an arena
// character, plus the fixed-size observation encoding and the discrete
// action table used by learning agents.
package agent

import "github.com/Garsondee/Arena-Sense/internal/arena"

// TurnStep is the rotation applied by the discrete turn actions.
const TurnStep = 45.0

// NumActions is the size of the discrete action table.
const NumActions = 8

// Discrete action indices.
const (
	ActNoop = iota
	ActForward
	ActRight
	ActDown
	ActLeft
	ActTurnLeft
	ActTurnRight
	ActShoot
)

// FromIndex maps a discrete action to an arena.Action. Out-of-range
// indices do nothing.
func FromIndex(i int) arena.Action {
	switch i {
	case ActForward:
		return arena.Action{Forward: true}
	case ActRight:
		return arena.Action{Right: true}
	case ActDown:
		return arena.Action{Down: true}
	case ActLeft:
		return arena.Action{Left: true}
	case ActTurnLeft:
		return arena.Action{Rotate: -TurnStep}
	case ActTurnRight:
		return arena.Action{Rotate: TurnStep}
	case ActShoot:
		return arena.Action{Shoot: true}
	}
	return arena.Action{}
}

// ActionName is the short label used in reports.
func ActionName(i int) string {
	switch i {
	case ActNoop:
		return "noop"
	case ActForward:
		return "forward"
	case ActRight:
		return "right"
	case ActDown:
		return "down"
	case ActLeft:
		return "left"
	case ActTurnLeft:
		return "turn_left"
	case ActTurnRight:
		return "turn_right"
	case ActShoot:
		return "shoot"
	default:
		return "unknown"
	}
}
