package viewer

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Arena-Sense/internal/arena"
)

// KeySource reports whether a key is held. The live window uses
// ebiten.IsKeyPressed; tests substitute a fixed set.
type KeySource interface {
	IsKeyPressed(k ebiten.Key) bool
}

type ebitenKeys struct{}

func (ebitenKeys) IsKeyPressed(k ebiten.Key) bool { return ebiten.IsKeyPressed(k) }

// DefaultTurnRate is the rotation per step while Q or E is held.
const DefaultTurnRate = 5.0

// Keyboard is a human-driven agent: W/A/S/D move, Q/E rotate, Space shoots.
// Arrow keys mirror WASD.
type Keyboard struct {
	keys     KeySource
	TurnRate float64
}

// NewKeyboard returns a Keyboard reading the live window's keys.
func NewKeyboard() *Keyboard {
	return &Keyboard{keys: ebitenKeys{}, TurnRate: DefaultTurnRate}
}

func (k *Keyboard) held(keys ...ebiten.Key) bool {
	for _, key := range keys {
		if k.keys.IsKeyPressed(key) {
			return true
		}
	}
	return false
}

// Act implements arena.Agent.
func (k *Keyboard) Act(arena.Snapshot) arena.Action {
	var a arena.Action
	a.Forward = k.held(ebiten.KeyW, ebiten.KeyArrowUp)
	a.Right = k.held(ebiten.KeyD, ebiten.KeyArrowRight)
	a.Down = k.held(ebiten.KeyS, ebiten.KeyArrowDown)
	a.Left = k.held(ebiten.KeyA, ebiten.KeyArrowLeft)
	if k.held(ebiten.KeyQ) {
		a.Rotate -= k.TurnRate
	}
	if k.held(ebiten.KeyE) {
		a.Rotate += k.TurnRate
	}
	a.Shoot = k.held(ebiten.KeySpace)
	return a
}
