package registry

// State is the lifecycle state of a Registry.
//
// A registry moves from StateUninitialized to StateStarted once Start
// completes, and to StateStopped on Shutdown. StateStopped is terminal.
type State int32

const (
	StateUninitialized State = iota
	StateStarted
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "UNINITIALIZED"
	case StateStarted:
		return "STARTED"
	case StateStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}
