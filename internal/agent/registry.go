package agent

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Garsondee/Arena-Sense/internal/arena"
)

// Built-in policy names accepted by New.
const (
	KindIdle   = "idle"
	KindRandom = "random"
	KindHunter = "hunter"
)

// Kinds lists the policy names New understands.
func Kinds() []string {
	k := []string{KindIdle, KindRandom, KindHunter}
	sort.Strings(k)
	return k
}

// New builds a built-in policy by name. seed feeds stochastic policies and
// fov must match the vision cone of the character being driven.
func New(kind string, seed int64, fov float64) (arena.Agent, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindIdle, "":
		return Idle(), nil
	case KindRandom:
		return NewRandom(seed), nil
	case KindHunter:
		return NewHunter(fov), nil
	}
	return nil, fmt.Errorf("unknown agent kind %q (want one of %s)", kind, strings.Join(Kinds(), ", "))
}
