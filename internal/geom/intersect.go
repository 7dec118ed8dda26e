package geom

import "math"

const parallelEpsilon = 1e-12

func cross(a, b Vec2) float64 { return a.X*b.Y - a.Y*b.X }

// SegmentIntersect returns the crossing point of segments a0->a1 and b0->b1.
// Parallel and collinear segments report no intersection.
func SegmentIntersect(a0, a1, b0, b1 Vec2) (Vec2, bool) {
	r := a1.Sub(a0)
	s := b1.Sub(b0)
	denom := cross(r, s)
	if math.Abs(denom) < parallelEpsilon {
		return Vec2{}, false
	}
	qp := b0.Sub(a0)
	t := cross(qp, s) / denom
	u := cross(qp, r) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Vec2{}, false
	}
	return a0.Add(r.Scale(t)), true
}

// SegmentRectHit returns the point where the directed segment p0->p1 crosses
// an edge of r closest to p0. Edges are tested top, right, bottom, left and
// an equidistant later edge never replaces an earlier one, so the result is
// stable for a given geometry. A segment lying entirely inside r crosses no
// edge and reports no hit.
func SegmentRectHit(p0, p1 Vec2, r Rect) (Vec2, bool) {
	if !segmentTouchesRect(p0, p1, r) {
		return Vec2{}, false
	}

	c := r.Corners()
	var (
		best     Vec2
		bestDist = math.Inf(1)
		found    bool
	)
	for i := 0; i < 4; i++ {
		pt, ok := SegmentIntersect(p0, p1, c[i], c[(i+1)%4])
		if !ok {
			continue
		}
		if d := Distance(p0, pt); d < bestDist {
			best, bestDist, found = pt, d, true
		}
	}
	return best, found
}

// segmentTouchesRect clips p0->p1 against the x and y slabs of r and
// reports whether any part of the segment survives.
func segmentTouchesRect(p0, p1 Vec2, r Rect) bool {
	lo, hi := 0.0, 1.0
	tl, br := Vec2{r.X, r.Y}, r.Max()
	clip := func(o, d, a, b float64) bool {
		if math.Abs(d) < parallelEpsilon {
			return o >= a && o <= b
		}
		t1, t2 := (a-o)/d, (b-o)/d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		lo, hi = math.Max(lo, t1), math.Min(hi, t2)
		return lo <= hi
	}
	d := p1.Sub(p0)
	return clip(p0.X, d.X, tl.X, br.X) && clip(p0.Y, d.Y, tl.Y, br.Y)
}
