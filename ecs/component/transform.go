package component

// Transform is an entity's world-space position and rotation. The world is
// y-up; grid coordinates in level data use the same convention.
type Transform struct {
	X        float64
	Y        float64
	Rotation float64
}

var TransformComponent = NewComponent[Transform]()
