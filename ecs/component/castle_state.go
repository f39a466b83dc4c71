package component

// CastlePhase tracks the one-shot castle initialization passes for a level.
// The phases advance strictly forward; the castle system never repeats a
// completed pass, which keeps mass assignment and joint creation idempotent
// across ticks.
type CastlePhase int

const (
	CastleUninitialized CastlePhase = iota
	CastleIndexed
	CastleJointsBuilt
)

func (p CastlePhase) String() string {
	switch p {
	case CastleUninitialized:
		return "uninitialized"
	case CastleIndexed:
		return "indexed"
	case CastleJointsBuilt:
		return "joints_built"
	default:
		return "unknown"
	}
}

// CastleState is the singleton level-scoped state for the castle subsystem.
type CastleState struct {
	Phase CastlePhase

	// JointsBuilt counts mortar joints created during initialization.
	JointsBuilt int
}

var CastleStateComponent = NewComponent[CastleState]()
