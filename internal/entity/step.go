package entity

import "fmt"

type WizardStep string

// Wizard steps in order. Transitions only move one step at a time.
const (
	StepIntro    WizardStep = "intro"
	StepPersonal WizardStep = "personal"
	StepPast     WizardStep = "past"
	StepComplete WizardStep = "complete"
)

// WizardSteps lists every step in wizard order.
var WizardSteps = []WizardStep{StepIntro, StepPersonal, StepPast, StepComplete}

func (s WizardStep) Validate() error {
	switch s {
	case StepIntro, StepPersonal, StepPast, StepComplete:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownStep, s)
	}
}

// Index returns the position of the step in WizardSteps, or -1.
func (s WizardStep) Index() int {
	for i, step := range WizardSteps {
		if step == s {
			return i
		}
	}
	return -1
}

// Fields returns the answers a step collects. Intro and complete collect none.
func (s WizardStep) Fields() []Field {
	switch s {
	case StepPersonal:
		return PersonalInfoFields
	case StepPast:
		return PastSituationFields
	default:
		return nil
	}
}

// ProgressStep is one entry of the progress bar shown outside the intro step.
type ProgressStep struct {
	Step      WizardStep `json:"step"`
	Active    bool       `json:"active"`
	Completed bool       `json:"completed"`
}
