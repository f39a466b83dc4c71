package component

// ShockwaveHit is a transient component recording the impulse a castle block
// received this tick. The ballistics system adds it (accumulating when a
// block is hit by overlapping explosions) and the castle system consumes and
// removes it in the same tick.
type ShockwaveHit struct {
	ImpulseX float64
	ImpulseY float64
}

var ShockwaveHitComponent = NewComponent[ShockwaveHit]()
