package component

// Fireball is a projectile that explodes on contact with solid geometry or
// when its TTL expires. Radius and Power describe the resulting shockwave.
type Fireball struct {
	Radius float64
	Power  float64

	// Exploded is set by the contact handler; the ballistics system turns
	// it into a shockwave on the next update.
	Exploded bool
}

var FireballComponent = NewComponent[Fireball]()
