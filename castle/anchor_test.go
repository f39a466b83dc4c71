package castle

import "testing"

func TestAnchorEqualSizeNeighbors(t *testing.T) {
	g := NewGrid(16)
	left := place(t, g, 1, Coord{0, 0}, 16, 16)
	right := place(t, g, 2, Coord{1, 0}, 16, 16)
	top := place(t, g, 3, Coord{0, 1}, 16, 16)

	cases := []struct {
		name       string
		self, peer *Block
		want       Vec
	}{
		{"left_to_right", left, right, Vec{8, 0}},
		{"right_to_left", right, left, Vec{-8, 0}},
		{"bottom_to_top", left, top, Vec{0, 8}},
		{"top_to_bottom", top, left, Vec{0, -8}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := Anchor(c.self, c.peer, 16)
			if !ok {
				t.Fatalf("anchor out of half-extents: %v", got)
			}
			if got != c.want {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
		})
	}
}

func TestAnchorSymmetryWithinHalfExtents(t *testing.T) {
	cases := []struct {
		name             string
		wA, hA           float64
		originB          Coord
		wB, hB           float64
	}{
		{"equal_horizontal", 16, 16, Coord{1, 0}, 16, 16},
		{"a_larger_horizontal", 32, 32, Coord{2, 0}, 16, 16},
		{"b_larger_horizontal", 16, 16, Coord{1, 0}, 32, 32},
		{"a_larger_vertical", 32, 32, Coord{0, -2}, 16, 16},
		{"b_larger_vertical", 16, 16, Coord{0, -1}, 32, 32},
		{"wide_meets_tall", 32, 16, Coord{2, 0}, 16, 32},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			g := NewGrid(16)
			a := place(t, g, 1, Coord{0, 0}, c.wA, c.hA)
			b := place(t, g, 2, c.originB, c.wB, c.hB)

			// Guard the fixture itself: the blocks must touch without
			// overlapping or the case isn't testing an adjacency.
			if pairs := g.AdjacentPairs(); len(pairs) != 1 {
				t.Fatalf("fixture yields %d adjacent pairs, want 1", len(pairs))
			}

			anchorA, okA := Anchor(a, b, 16)
			if !okA {
				t.Fatalf("anchor(A,B) out of A's half-extents: %v", anchorA)
			}
			anchorB, okB := Anchor(b, a, 16)
			if !okB {
				t.Fatalf("anchor(B,A) out of B's half-extents: %v", anchorB)
			}
		})
	}
}

func TestAnchorLargerSelfClampsPerAxis(t *testing.T) {
	g := NewGrid(16)
	big := place(t, g, 1, Coord{0, 1}, 32, 32)     // center (1, 0)
	small := place(t, g, 2, Coord{2, 1}, 16, 16)   // center (2.5, 0.5)

	got, ok := Anchor(big, small, 16)
	if !ok {
		t.Fatalf("anchor out of half-extents: %v", got)
	}
	// Raw offset is (24, 8); x clamps to the 16-unit half extent, y passes.
	if got != (Vec{16, 8}) {
		t.Fatalf("expected (16, 8), got %v", got)
	}
}

func TestAnchorCornerTieBreak(t *testing.T) {
	g := NewGrid(16)
	big := place(t, g, 1, Coord{0, 1}, 32, 32)      // center (1, 0)
	small := place(t, g, 2, Coord{2, -1}, 16, 16)   // center (2.5, -1.5)

	got, ok := Anchor(big, small, 16)
	if !ok {
		t.Fatalf("anchor out of half-extents: %v", got)
	}
	// Raw offset (24, -24) clamps to the corner (16, -16); the tie-break
	// zeroes one axis so the joint pins to an edge midpoint.
	if got.X != 0 && got.Y != 0 {
		t.Fatalf("corner-pinned anchor survived tie-break: %v", got)
	}
	if got == (Vec{0, 0}) {
		t.Fatalf("tie-break zeroed both axes")
	}
}

func TestAnchorSmallerSelfSnapsToDominantAxis(t *testing.T) {
	g := NewGrid(16)
	small := place(t, g, 1, Coord{0, 0}, 16, 16)    // center (0.5, -0.5)
	big := place(t, g, 2, Coord{1, 1}, 32, 32)      // center (2, 0)

	got, ok := Anchor(small, big, 16)
	if !ok {
		t.Fatalf("anchor out of half-extents: %v", got)
	}
	if got.X != 0 && got.Y != 0 {
		t.Fatalf("expected a pure-axis anchor, got %v", got)
	}
}
