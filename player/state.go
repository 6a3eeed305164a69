package player

// State is the playback state of a Controller.
type State int32

const (
	// StateUnloaded means no media is loaded.
	StateUnloaded State = iota
	// StateLoaded means media is loaded and playback never started.
	StateLoaded
	// StatePlaying means both worker goroutines are running.
	StatePlaying
	// StatePaused means the workers are running but frames are held.
	StatePaused
	// StateStopping means stop was requested and the workers are winding down.
	StateStopping
	// StateStopped means both workers have exited.
	StateStopped
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoaded:
		return "loaded"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// active reports whether the state belongs to a running session.
func (s State) active() bool {
	return s == StatePlaying || s == StatePaused
}
