package component

// Wall marks a static level tile. Walls get static physics shapes and never
// participate in castle adjacency.
type Wall struct{}

var WallComponent = NewComponent[Wall]()
