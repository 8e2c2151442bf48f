package status

// stateless object, just used for state computing
type StateMachine struct {
	States      []State      `json:"states"`
	Transitions []Transition `json:"transitions"`
}

type State struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

type Transition struct {
	Name string `json:"name"`
	From State  `json:"from"`
	To   State  `json:"to"`
}

func NewStateMachine(states []State, transitions []Transition) *StateMachine {
	return &StateMachine{States: states, Transitions: transitions}
}

func (sm *StateMachine) AvailableTransitions(from Kind) []Transition {
	r := []Transition{}
	for _, transition := range sm.Transitions {
		if transition.From.Kind == from {
			r = append(r, transition)
		}
	}
	return r
}

func (sm *StateMachine) FindTransition(name string) (Transition, bool) {
	for _, transition := range sm.Transitions {
		if transition.Name == name {
			return transition, true
		}
	}
	return Transition{}, false
}
