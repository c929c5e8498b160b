package vercel

// State is one stage of a single deployment attempt.
type State string

const (
	StateCreatingProject      State = "CREATING_PROJECT"
	StateSubmittingDeployment State = "SUBMITTING_DEPLOYMENT"
	StatePolling              State = "POLLING"
	StateReady                State = "READY"
	StateError                State = "ERROR"
	StateCanceled             State = "CANCELED"
	StateTimeout              State = "TIMEOUT"
	// StateFailed covers transport and API errors in any non-terminal stage.
	StateFailed State = "FAILED"
)

var validTransitions = map[State][]State{
	StateCreatingProject:      {StateSubmittingDeployment, StateFailed},
	StateSubmittingDeployment: {StatePolling, StateFailed},
	StatePolling:              {StatePolling, StateReady, StateError, StateCanceled, StateTimeout, StateFailed},
}

func IsValidTransition(from, to State) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (s State) Terminal() bool {
	_, hasNext := validTransitions[s]
	return !hasNext
}
