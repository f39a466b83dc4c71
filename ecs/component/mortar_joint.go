package component

import "github.com/jakecoffman/cp"

// MortarJoint is the structural constraint between two adjacent castle
// blocks. It owns two Chipmunk constraints: a pivot joint pinned at the
// computed local anchors and a gear joint locking relative rotation.
type MortarJoint struct {
	A uint64
	B uint64

	Pivot *cp.Constraint
	Gear  *cp.Constraint

	AnchorA cp.Vector
	AnchorB cp.Vector
}

var MortarJointComponent = NewComponent[MortarJoint]()
