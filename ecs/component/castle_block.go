package component

// CastleBlock marks a rectangular destructible block placed on the level
// grid. GridX/GridY is the block's top-left cell; Width/Height is the
// footprint in world units. Joints lists the mortar joint entities this
// block participates in, maintained by the castle system. Entity references
// are stored as raw uint64 handles, same as the other request components.
type CastleBlock struct {
	GridX  int
	GridY  int
	Width  float64
	Height float64

	Joints []uint64
}

// DetachJoint removes a joint handle from the block's list. Missing handles
// are a no-op so fracture stays idempotent.
func (b *CastleBlock) DetachJoint(j uint64) {
	if b == nil {
		return
	}
	for i, existing := range b.Joints {
		if existing == j {
			b.Joints = append(b.Joints[:i], b.Joints[i+1:]...)
			return
		}
	}
}

var CastleBlockComponent = NewComponent[CastleBlock]()
