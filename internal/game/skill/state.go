package skill

// State is the usability of a skill for a given actor.
type State int

const (
	StateTrained State = iota
	StateUntrainedBasic
	StateUntrainedAdvancedUnlocked
	StateUntrainedAdvancedLocked
)

func (s State) String() string {
	switch s {
	case StateTrained:
		return "trained"
	case StateUntrainedBasic:
		return "untrained basic"
	case StateUntrainedAdvancedUnlocked:
		return "untrained advanced (basic override)"
	case StateUntrainedAdvancedLocked:
		return "untrained advanced"
	default:
		return "unknown"
	}
}

// Usable reports whether a skill in state s can be tested.
func (s State) Usable() bool {
	return s != StateUntrainedAdvancedLocked
}

// StateOf maps the training flags of a skill to its usability state.
func StateOf(trained, isBasic, isAdvanced bool) State {
	switch {
	case trained:
		return StateTrained
	case !isAdvanced:
		return StateUntrainedBasic
	case isBasic:
		return StateUntrainedAdvancedUnlocked
	default:
		return StateUntrainedAdvancedLocked
	}
}
