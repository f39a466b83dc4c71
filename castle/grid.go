// Package castle holds the engine-free structural logic for destructible
// block assemblies: grid indexing, adjacency resolution, and joint anchor
// calculation. The ecs castle system wires these into the physics world.
package castle

import (
	"fmt"
	"math"
)

// Coord is an integer grid cell key. Y increases upward; a block's origin is
// its top-left cell, so a tall block occupies cells below its origin.
type Coord struct {
	X int
	Y int
}

// Block is one indexed castle block.
type Block struct {
	// Handle is the owning entity, opaque to this package.
	Handle uint64

	// Footprint in world units.
	Width  float64
	Height float64

	// Origin is the top-left occupied cell.
	Origin Coord

	// CenterX/CenterY is the block center in grid-unit space, computed
	// when the block is placed.
	CenterX float64
	CenterY float64
}

// HalfExtents returns the block's half sizes in world units.
func (b *Block) HalfExtents() (float64, float64) {
	return b.Width / 2, b.Height / 2
}

// ConflictError reports level-data cells claimed by more than one block.
// The earlier occupant is kept for every conflicting cell; the error exists
// so callers can surface the bad level data instead of silently corrupting
// adjacency.
type ConflictError struct {
	Block *Block
	Cells []Coord
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("castle: block %d overlaps %d occupied cell(s), first at %v", e.Block.Handle, len(e.Cells), e.Cells[0])
}

// Grid maps occupied cells to blocks for one level. Allocate one per level
// load and discard it with the level.
type Grid struct {
	unit  int
	cells map[Coord]*Block
}

// NewGrid creates an empty grid with the given world units per cell.
func NewGrid(unit int) *Grid {
	if unit <= 0 {
		unit = 16
	}
	return &Grid{unit: unit, cells: make(map[Coord]*Block)}
}

// Unit returns the grid cell size in world units.
func (g *Grid) Unit() int {
	return g.unit
}

// Len returns the number of occupied cells.
func (g *Grid) Len() int {
	if g == nil {
		return 0
	}
	return len(g.cells)
}

// At returns the block occupying a cell, or nil.
func (g *Grid) At(c Coord) *Block {
	if g == nil {
		return nil
	}
	return g.cells[c]
}

// Place indexes a block at its top-left origin, claiming one cell per grid
// unit of footprint (truncating division; a footprint smaller than one unit
// still claims its origin cell). If any cell is already occupied by another
// block the earlier occupant is kept and a *ConflictError listing the
// contested cells is returned alongside the block, which remains indexed in
// its remaining cells.
func (g *Grid) Place(handle uint64, origin Coord, width, height float64) (*Block, error) {
	cellsWide := max(1, int(width)/g.unit)
	cellsHigh := max(1, int(height)/g.unit)

	b := &Block{
		Handle:  handle,
		Width:   width,
		Height:  height,
		Origin:  origin,
		CenterX: float64(origin.X) + float64(cellsWide)/2,
		CenterY: float64(origin.Y) - float64(cellsHigh)/2,
	}

	var conflicts []Coord
	for x := origin.X; x < origin.X+cellsWide; x++ {
		for y := origin.Y - cellsHigh + 1; y <= origin.Y; y++ {
			c := Coord{X: x, Y: y}
			if prev := g.cells[c]; prev != nil && prev.Handle != handle {
				conflicts = append(conflicts, c)
				continue
			}
			g.cells[c] = b
		}
	}

	if len(conflicts) > 0 {
		return b, &ConflictError{Block: b, Cells: conflicts}
	}
	return b, nil
}

// BlockMass derives a block's mass from its footprint: baseMass scaled by
// the square root of the area ratio against a reference block.
func BlockMass(width, height, baseMass, referenceArea float64) float64 {
	if referenceArea <= 0 {
		return baseMass
	}
	return baseMass * math.Sqrt(width*height/referenceArea)
}
