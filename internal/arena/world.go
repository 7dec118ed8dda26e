package arena

import "github.com/Garsondee/Arena-Sense/internal/geom"

// world is the entity store shared by an Environment and its characters.
// Characters address each other by roster index, never by pointer, so a
// reset only has to rewrite index lists.
type world struct {
	bounds    geom.Bounds
	hasBounds bool
	obstacles []Obstacle
	roster    []*Character

	clock         Clock
	events        *EventLog
	tick          int
	shotOcclusion bool
	visionRays    int
	visionFOV     float64
}

// detachedWorld is used by characters that have not joined an Environment:
// no bounds, no obstacles, no opponents.
func detachedWorld() *world {
	return &world{
		clock:      NewTickClock(),
		visionRays: DefaultVisionRays,
		visionFOV:  DefaultVisionFOV,
	}
}

func (w *world) character(i int) *Character {
	if i < 0 || i >= len(w.roster) {
		return nil
	}
	return w.roster[i]
}
