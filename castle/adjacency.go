package castle

import "sort"

// Pair is one discovered adjacency. A is the block whose cell found the
// neighbor, B the neighbor; the pair is unique regardless of direction.
type Pair struct {
	A *Block
	B *Block
}

// probeDirections covers every adjacency exactly once for well-formed
// geometry: if A sits left of B, the pair is found from A's cell looking
// right; if A sits above B, from A's cell looking down.
var probeDirections = [2]Coord{
	{X: 1, Y: 0},  // right
	{X: 0, Y: -1}, // down
}

// AdjacentPairs walks every occupied cell and returns the unique adjacent
// block pairs. Cells of the same block never pair with themselves, and the
// unordered pair key guards against duplicates even when malformed geometry
// would let both probe directions discover the same pair.
func (g *Grid) AdjacentPairs() []Pair {
	if g == nil || len(g.cells) == 0 {
		return nil
	}

	// Map iteration order is randomized; sort the cells so joint creation
	// order, and therefore the solver's constraint order, is deterministic.
	coords := make([]Coord, 0, len(g.cells))
	for c := range g.cells {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Y != coords[j].Y {
			return coords[i].Y > coords[j].Y
		}
		return coords[i].X < coords[j].X
	})

	type pairKey struct{ lo, hi uint64 }
	seen := make(map[pairKey]struct{})

	var pairs []Pair
	for _, c := range coords {
		cur := g.cells[c]
		for _, dir := range probeDirections {
			neighbor := g.cells[Coord{X: c.X + dir.X, Y: c.Y + dir.Y}]
			if neighbor == nil || neighbor.Handle == cur.Handle {
				continue
			}
			key := pairKey{lo: cur.Handle, hi: neighbor.Handle}
			if key.lo > key.hi {
				key.lo, key.hi = key.hi, key.lo
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			pairs = append(pairs, Pair{A: cur, B: neighbor})
		}
	}
	return pairs
}
