package player

// State is a playback state.
type State int32

// Playback states. Completed and Cancelled are terminal.
const (
	StateIdle State = iota
	StatePlaying
	StateCompleted
	StateCancelled
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	}

	return "unknown"
}

// Done reports whether s is a terminal state.
func (s State) Done() bool {
	return s == StateCompleted || s == StateCancelled
}
