package geom

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestSegmentRectHit_NearEdgeFromLeft(t *testing.T) {
	r := Rect{X: 40, Y: 0, W: 20, H: 200}
	pt, ok := SegmentRectHit(Vec2{0, 100}, Vec2{200, 100}, r)
	if !ok {
		t.Fatal("expected segment to cross the rect")
	}
	if !near(pt.X, 40) || !near(pt.Y, 100) {
		t.Fatalf("expected hit at near edge (40,100), got (%.3f,%.3f)", pt.X, pt.Y)
	}
}

func TestSegmentRectHit_NearEdgeFromRight(t *testing.T) {
	r := Rect{X: 40, Y: 0, W: 20, H: 200}
	pt, ok := SegmentRectHit(Vec2{200, 100}, Vec2{0, 100}, r)
	if !ok {
		t.Fatal("expected segment to cross the rect")
	}
	if !near(pt.X, 60) {
		t.Fatalf("expected hit on the right edge x=60, got x=%.3f", pt.X)
	}
}

func TestSegmentRectHit_StopsShort(t *testing.T) {
	r := Rect{X: 300, Y: 0, W: 64, H: 64}
	if _, ok := SegmentRectHit(Vec2{0, 32}, Vec2{200, 32}, r); ok {
		t.Fatal("rect beyond the segment end should not be hit")
	}
}

func TestSegmentRectHit_FromInsideHitsExitEdge(t *testing.T) {
	world := Rect{X: 0, Y: 0, W: 1280, H: 1280}
	pt, ok := SegmentRectHit(Vec2{640, 640}, Vec2{640, -5000}, world)
	if !ok {
		t.Fatal("segment leaving the world should cross its top edge")
	}
	if !near(pt.Y, 0) || !near(pt.X, 640) {
		t.Fatalf("expected exit at (640,0), got (%.3f,%.3f)", pt.X, pt.Y)
	}
}

func TestSegmentRectHit_FullyInsideNoHit(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 100, H: 100}
	if _, ok := SegmentRectHit(Vec2{10, 10}, Vec2{20, 20}, r); ok {
		t.Fatal("segment inside the rect crosses no edge")
	}
}

func TestSegmentRectHit_DiagonalThroughCorner(t *testing.T) {
	r := Rect{X: 80, Y: 80, W: 40, H: 40}
	pt, ok := SegmentRectHit(Vec2{0, 0}, Vec2{200, 200}, r)
	if !ok {
		t.Fatal("diagonal segment should cross the rect")
	}
	if !near(pt.X, 80) || !near(pt.Y, 80) {
		t.Fatalf("expected corner hit (80,80), got (%.3f,%.3f)", pt.X, pt.Y)
	}
	again, _ := SegmentRectHit(Vec2{0, 0}, Vec2{200, 200}, r)
	if again != pt {
		t.Fatalf("tie-break must be deterministic: %v vs %v", pt, again)
	}
}

func TestSegmentRectHit_ZeroLength(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 100, H: 100}
	// A point segment: should not panic.
	_, _ = SegmentRectHit(Vec2{50, 50}, Vec2{50, 50}, r)
}

func TestSegmentTouchesRect(t *testing.T) {
	r := Rect{X: 50, Y: 0, W: 100, H: 100}
	if segmentTouchesRect(Vec2{0, 0}, Vec2{0, 100}, r) {
		t.Fatal("segment to the left of the rect should not touch it")
	}
	if !segmentTouchesRect(Vec2{0, 50}, Vec2{200, 50}, r) {
		t.Fatal("segment crossing the rect should touch it")
	}
	if !segmentTouchesRect(Vec2{100, -50}, Vec2{100, 10}, r) {
		t.Fatal("vertical segment ending inside the rect should touch it")
	}
	if segmentTouchesRect(Vec2{0, 50}, Vec2{40, 50}, r) {
		t.Fatal("segment stopping short of the rect should not touch it")
	}
}

func TestDistance_SymmetricAndZero(t *testing.T) {
	a := Vec2{3, 4}
	b := Vec2{0, 0}
	if Distance(a, b) != 5 || Distance(b, a) != 5 {
		t.Fatalf("expected symmetric distance 5, got %.3f / %.3f", Distance(a, b), Distance(b, a))
	}
	if Distance(a, a) != 0 {
		t.Fatal("distance to self must be zero")
	}
}

func TestHeading_ZeroFacesUp(t *testing.T) {
	h := Heading(0)
	if !near(h.X, 0) || !near(h.Y, -1) {
		t.Fatalf("heading 0 should face -Y, got (%.3f,%.3f)", h.X, h.Y)
	}
	r := Heading(90)
	if !near(r.X, 1) || !near(r.Y, 0) {
		t.Fatalf("heading 90 should face +X, got (%.3f,%.3f)", r.X, r.Y)
	}
}

func TestRect_OverlapsExcludesTouching(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	b := Rect{X: 10, Y: 0, W: 10, H: 10}
	if a.Overlaps(b) {
		t.Fatal("edge-touching rects must not overlap")
	}
	c := Rect{X: 9, Y: 9, W: 10, H: 10}
	if !a.Overlaps(c) {
		t.Fatal("expected overlap")
	}
}
