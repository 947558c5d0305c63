package engine

import "fmt"

// ObserverEvent identifies a point in the engine's execution.
type ObserverEvent int

const (
	// EventStep fires once per individual rule application, with the
	// post-application state and "rule"/"steps"/"epoch" metadata.
	EventStep ObserverEvent = iota

	// EventEpoch fires once per completed epoch, with the metric delta
	// between the epoch's start and end states as "delta" metadata.
	EventEpoch

	// EventFixpointConverged fires once, when the delta drops to epsilon.
	EventFixpointConverged

	// EventFixpointMaxed fires once, when the epoch budget is exhausted
	// before the delta reaches epsilon.
	EventFixpointMaxed
)

// String returns the event's wire-friendly name.
func (e ObserverEvent) String() string {
	switch e {
	case EventStep:
		return "step"
	case EventEpoch:
		return "epoch"
	case EventFixpointConverged:
		return "fixpoint-converged"
	case EventFixpointMaxed:
		return "fixpoint-maxed"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// Metadata carries event-specific values such as "epoch", "delta", "rule"
// and "steps".
type Metadata map[string]any

func (m Metadata) clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Observer receives engine events. The engine hands every observer an
// independent deep copy of the state and metadata, so an observer can
// neither corrupt engine-internal state nor see another observer's
// mutations.
type Observer func(event ObserverEvent, state State, meta Metadata)

// NoopObserver discards every event.
func NoopObserver(ObserverEvent, State, Metadata) {}

// CombineObservers returns an observer that forwards each event to every
// given observer in order. Each recipient gets its own snapshot of the
// state and metadata; nil observers are skipped.
func CombineObservers(observers ...Observer) Observer {
	return func(event ObserverEvent, state State, meta Metadata) {
		for _, obs := range observers {
			if obs == nil {
				continue
			}
			obs(event, state.Clone(), meta.clone())
		}
	}
}
