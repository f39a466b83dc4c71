package component

import "github.com/jakecoffman/cp"

// PhysicsBody stores Chipmunk2D runtime data and collider configuration.
// Body and Shape are assigned by the physics system when it first sees the
// component; until then only the configuration fields are meaningful.
type PhysicsBody struct {
	Body  *cp.Body
	Shape *cp.Shape

	Width      float64
	Height     float64
	Radius     float64
	Mass       float64
	Friction   float64
	Elasticity float64
	Static     bool

	// LinearDamping/AngularDamping, when nonzero, install a custom velocity
	// update on the body that bleeds off velocity each step. Used by castle
	// blocks to suppress joint vibration.
	LinearDamping  float64
	AngularDamping float64

	// VelX/VelY is the initial velocity applied when the body is created.
	VelX float64
	VelY float64
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
