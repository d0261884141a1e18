package playback

import "time"

// State is the playback state of a Controller.
type State int

const (
	// StateIdle means no session exists.
	StateIdle State = iota
	// StateRunning means the loop is advancing through units.
	StateRunning
	// StatePaused means a run was interrupted and can be resumed.
	StatePaused
	// StateCompleted means the last run reached the final unit.
	StateCompleted
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// EventKind identifies what changed.
type EventKind int

const (
	// EventStarted is published when a run begins.
	EventStarted EventKind = iota
	// EventAdvanced is published each time a unit is shown.
	EventAdvanced
	// EventPaused is published when a run is interrupted.
	EventPaused
	// EventCompleted is published when a run reaches the end.
	EventCompleted
	// EventStepped is published after a manual step.
	EventStepped
	// EventStopped is published after a reset, stop or reconfiguration.
	EventStopped
)

// String returns the string representation of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventAdvanced:
		return "advanced"
	case EventPaused:
		return "paused"
	case EventCompleted:
		return "completed"
	case EventStepped:
		return "stepped"
	case EventStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Status is a snapshot of the observable playback state.
type Status struct {
	State    State
	Document string
	Config   Config
	Index    int
	Total    int
	Unit     string
	Resume   bool
	Busy     bool

	// Elapsed is the reading time captured at completion or when paused
	// on the final unit. It is zero otherwise.
	Elapsed time.Duration
}

// Progress returns the 1-based position and the unit count.
func (s Status) Progress() (current, total int) {
	if s.Total == 0 {
		return 0, 0
	}
	return s.Index + 1, s.Total
}

// Event is delivered to observers registered with OnEvent.
type Event struct {
	Kind EventKind
	Status
}
