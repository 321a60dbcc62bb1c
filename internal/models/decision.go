package models

// Decision is the keep/drop outcome for a single compiled variant
type Decision int

const (
	DecisionDrop Decision = iota
	DecisionKeep
)

// Kept reports whether the variant survives stripping
func (d Decision) Kept() bool {
	return d == DecisionKeep
}

func (d Decision) String() string {
	if d == DecisionKeep {
		return "keep"
	}
	return "drop"
}

// DecisionFromBool converts a passed flag into a Decision
func DecisionFromBool(kept bool) Decision {
	if kept {
		return DecisionKeep
	}
	return DecisionDrop
}
