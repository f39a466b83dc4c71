package castle

import "math"

// Vec is a 2D offset in world units.
type Vec struct {
	X float64
	Y float64
}

// Anchor computes the joint anchor on self, in self's local frame, for a
// mortar joint toward other. The returned offset always targets the shared
// face between the blocks:
//
//   - When self is strictly larger than other on some axis, the raw
//     center-to-center offset is clamped per axis to self's half-extents.
//     If that lands exactly on a corner, the axis with the larger magnitude
//     is zeroed so the anchor sits on an edge midpoint instead; corner-pinned
//     joints are unstable under the solver.
//   - Otherwise the offset snaps to its dominant axis (connections are
//     purely horizontal or vertical, never diagonal) and is then clamped.
//
// The boolean reports whether the result lies within self's half-extent box;
// false indicates a calculation bug upstream and should be logged, but the
// offset is still usable.
func Anchor(self, other *Block, unit float64) (Vec, bool) {
	dx := (other.CenterX - self.CenterX) * unit
	dy := (other.CenterY - self.CenterY) * unit

	xMax, yMax := self.HalfExtents()

	var x, y float64
	if self.Width > other.Width || self.Height > other.Height {
		x = clamp(dx, -xMax, xMax)
		y = clamp(dy, -yMax, yMax)
		if math.Abs(x) == xMax && math.Abs(y) == yMax {
			if math.Abs(x) > math.Abs(y) {
				x = 0
			} else {
				y = 0
			}
		}
	} else {
		x, y = dx, dy
		if math.Abs(x) > math.Abs(y) {
			y = 0
		} else {
			x = 0
		}
		x = clamp(x, -xMax, xMax)
		y = clamp(y, -yMax, yMax)
	}

	v := Vec{X: x, Y: y}
	return v, withinHalfExtents(v, xMax, yMax)
}

func withinHalfExtents(v Vec, xMax, yMax float64) bool {
	const eps = 1e-9
	return math.Abs(v.X) <= xMax+eps && math.Abs(v.Y) <= yMax+eps
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
