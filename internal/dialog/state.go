// README: Conversation state machine. States gate what a turn is allowed
// to do; every transition goes through CanTransition so an illegal jump
// is a bug we see in logs rather than silent corruption.
package dialog

// State is the lifecycle position of one conversation.
type State string

const (
	// StateEmpty is a conversation with no slots collected yet.
	StateEmpty State = "empty"
	// StateCollecting means some slots are filled and clarification
	// questions are being asked.
	StateCollecting State = "collecting"
	// StateReady means every required slot is filled and a search can run.
	StateReady State = "ready"
	// StateSearching means a search round is in flight.
	StateSearching State = "searching"
	// StateAnswered means results were delivered; new details restart
	// collection.
	StateAnswered State = "answered"
	// StateError means the last search round failed entirely; slots are
	// preserved for a retry.
	StateError State = "error"
)

// allowedTransitions is the complete legal state graph.
var allowedTransitions = map[State][]State{
	StateEmpty:      {StateCollecting},
	StateCollecting: {StateCollecting, StateReady, StateAnswered},
	StateReady:      {StateSearching, StateCollecting},
	StateSearching:  {StateAnswered, StateError, StateCollecting},
	StateAnswered:   {StateCollecting, StateSearching, StateAnswered},
	StateError:      {StateCollecting, StateReady, StateSearching},
}

// CanTransition reports whether moving from one state to another is legal.
func CanTransition(from, to State) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
