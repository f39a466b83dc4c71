package ecs

// Event is a generic world event payload.
type Event struct {
	Type string
	Data any
}

// Event types emitted by the castle subsystem. Consumers (the demo runner,
// the diagnostics recorder) drain these once per tick.
const (
	EventJointBuilt  = "joint_built"
	EventJointBroken = "joint_broken"
	EventShockwave   = "shockwave"
)

// JointBuiltEvent is emitted when a mortar joint is created between two
// castle blocks.
type JointBuiltEvent struct {
	Joint Entity
	A     Entity
	B     Entity
}

// JointBrokenEvent is emitted when a fracture removes a mortar joint.
type JointBrokenEvent struct {
	Joint Entity
	A     Entity
	B     Entity
}

// ShockwaveEvent is emitted when a block receives an impulse, whether or not
// it fractures.
type ShockwaveEvent struct {
	Block     Entity
	Magnitude float64
	Fractured bool
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
