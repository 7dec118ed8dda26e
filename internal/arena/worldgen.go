package arena

import (
	"fmt"
	"math/rand"

	"github.com/Garsondee/Arena-Sense/internal/geom"
)

// Obstacle is a static blocker. It never changes after spawn.
type Obstacle struct {
	Rect geom.Rect `json:"rect"`
}

// NewObstacle returns an obstacle with top-left (x,y) and size (w,h).
func NewObstacle(x, y, w, h float64) (Obstacle, error) {
	r := geom.Rect{X: x, Y: y, W: w, H: h}
	if !r.Valid() {
		return Obstacle{}, fmt.Errorf("%w: obstacle size %.1fx%.1f", ErrInvalidConfig, w, h)
	}
	return Obstacle{Rect: r}, nil
}

// attemptsPerObstacle bounds the rejection sampling in GenerateObstacles.
const attemptsPerObstacle = 100

// GenSpec parameterizes GenerateObstacles.
type GenSpec struct {
	Bounds       geom.Bounds
	Count        int
	MinSize      float64
	MaxSize      float64
	CornerRadius float64
	// Avoid lists areas that must stay clear, typically spawn rects.
	Avoid []geom.Rect
}

// GenerateObstacles scatters up to spec.Count non-overlapping obstacles with
// integer sizes and positions inside spec.Bounds. A candidate is rejected when
// any of its corners lies within CornerRadius of a world corner, or when it
// overlaps a placed obstacle or an Avoid rect. Sampling stops after
// Count*100 attempts, so fewer obstacles than requested is a normal result.
func GenerateObstacles(rng *rand.Rand, spec GenSpec) ([]Obstacle, error) {
	if spec.Count < 0 {
		return nil, fmt.Errorf("%w: negative obstacle count %d", ErrInvalidConfig, spec.Count)
	}
	if spec.MinSize <= 0 || spec.MaxSize < spec.MinSize {
		return nil, fmt.Errorf("%w: obstacle size range [%.0f, %.0f]", ErrInvalidConfig, spec.MinSize, spec.MaxSize)
	}
	if !spec.Bounds.Valid() {
		return nil, fmt.Errorf("%w: empty world bounds", ErrInvalidConfig)
	}

	minSize := int(spec.MinSize)
	maxSize := int(spec.MaxSize)
	if minSize < 1 {
		minSize = 1
	}
	if maxSize < minSize {
		maxSize = minSize
	}

	b := spec.Bounds
	corners := b.Rect().Corners()
	inCorner := func(r geom.Rect) bool {
		for _, wc := range corners {
			for _, oc := range r.Corners() {
				if geom.Distance(wc, oc) < spec.CornerRadius {
					return true
				}
			}
		}
		return false
	}

	obstacles := make([]Obstacle, 0, spec.Count)
	maxAttempts := spec.Count * attemptsPerObstacle
	for attempts := 0; len(obstacles) < spec.Count && attempts < maxAttempts; attempts++ {
		w := float64(minSize + rng.Intn(maxSize-minSize+1))
		h := float64(minSize + rng.Intn(maxSize-minSize+1))

		spanX := int(b.Width() - w)
		spanY := int(b.Height() - h)
		if spanX < 0 || spanY < 0 {
			continue
		}
		r := geom.Rect{
			X: b.MinX + float64(rng.Intn(spanX+1)),
			Y: b.MinY + float64(rng.Intn(spanY+1)),
			W: w,
			H: h,
		}

		if inCorner(r) || overlapsAny(r, spec.Avoid) || overlapsObstacle(r, obstacles) {
			continue
		}
		obstacles = append(obstacles, Obstacle{Rect: r})
	}
	return obstacles, nil
}

func overlapsAny(r geom.Rect, others []geom.Rect) bool {
	for _, o := range others {
		if r.Overlaps(o) {
			return true
		}
	}
	return false
}

func overlapsObstacle(r geom.Rect, obstacles []Obstacle) bool {
	for _, o := range obstacles {
		if r.Overlaps(o.Rect) {
			return true
		}
	}
	return false
}
