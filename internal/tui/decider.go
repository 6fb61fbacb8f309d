package tui

// Decider answers the yes/no questions keel asks before risky steps
// (overwriting a directory, publishing from a feature branch, ...).
type Decider interface {
	Confirm(title, description string) (bool, error)
}

// PromptDecider asks the user through a huh confirm form.
type PromptDecider struct{}

// Confirm shows a yes/no confirmation prompt.
func (PromptDecider) Confirm(title, description string) (bool, error) {
	return Confirm(title, description)
}

// FixedDecider gives the same answer to every question.
type FixedDecider struct {
	Answer bool
}

// Confirm returns the fixed answer.
func (d FixedDecider) Confirm(string, string) (bool, error) {
	return d.Answer, nil
}

// NewDecider picks the decider for the current session: --yes answers
// everything with yes, a non-interactive session answers no, otherwise
// the user is asked.
func NewDecider(assumeYes bool) Decider {
	switch {
	case assumeYes:
		return FixedDecider{Answer: true}
	case !IsInteractive():
		return FixedDecider{Answer: false}
	default:
		return PromptDecider{}
	}
}
