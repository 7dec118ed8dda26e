package agent

import "github.com/Garsondee/Arena-Sense/internal/arena"

const (
	// MaxRays is the number of rays encoded; extra rays are dropped and
	// missing ones are zero-padded.
	MaxRays = 5
	// RayFeatures is x1, y1, x2, y2, distance, hit code.
	RayFeatures = 6
	// FeatureLen is the length of the vector returned by Features.
	FeatureLen = 4 + MaxRays*RayFeatures
)

// HitCode encodes a hit type as none 0, object 1, player 2.
func HitCode(h arena.HitType) float64 {
	switch h {
	case arena.HitObject:
		return 1
	case arena.HitPlayer:
		return 2
	}
	return 0
}

// Features flattens a snapshot into a fixed-length vector: location x, y,
// rotation, current ammo, then MaxRays blocks of RayFeatures. A ray that hit
// nothing reports distance 0.
func Features(s arena.Snapshot) []float64 {
	out := make([]float64, FeatureLen)
	out[0] = s.Location.X
	out[1] = s.Location.Y
	out[2] = s.Rotation
	out[3] = float64(s.CurrentAmmo)
	for i, r := range s.Rays {
		if i >= MaxRays {
			break
		}
		base := 4 + i*RayFeatures
		out[base] = r.Start.X
		out[base+1] = r.Start.Y
		out[base+2] = r.End.X
		out[base+3] = r.End.Y
		if r.Hit() {
			out[base+4] = r.Distance
		}
		out[base+5] = HitCode(r.HitType)
	}
	return out
}
