package arena

import "errors"

// Outcomes of character commands. None of them are fatal: the Environment
// records them in the event log and moves on.
var (
	ErrNoAmmo        = errors.New("arena: no ammo")
	ErrOnCooldown    = errors.New("arena: shot on cooldown")
	ErrBlocked       = errors.New("arena: move blocked by obstacle")
	ErrDead          = errors.New("arena: character is dead")
	ErrBadDirection  = errors.New("arena: unknown direction")
	ErrInvalidConfig = errors.New("arena: invalid configuration")
)
