// Package wizard implements the step machine of the multi-step form.
package wizard

import (
	"fmt"

	"github.com/futig/parallel-universe/internal/entity"
)

// StepValidator decides whether the answers of a step allow moving forward.
type StepValidator interface {
	IsStepValid(s *entity.FormSnapshot, step entity.WizardStep) bool
}

// Controller moves linearly through intro -> personal -> past -> complete.
// Forward moves out of personal and past require a valid step; backward moves
// never revalidate. Reaching complete does not submit anything.
type Controller struct {
	validator StepValidator
	current   entity.WizardStep
	completed map[entity.WizardStep]struct{}
}

func NewController(validator StepValidator) *Controller {
	return &Controller{
		validator: validator,
		current:   entity.StepIntro,
		completed: make(map[entity.WizardStep]struct{}),
	}
}

func (c *Controller) Current() entity.WizardStep {
	return c.current
}

// IsCompleted reports whether step was left forward at least once.
func (c *Controller) IsCompleted(step entity.WizardStep) bool {
	_, ok := c.completed[step]
	return ok
}

// CompletedSteps returns the visited steps in wizard order.
func (c *Controller) CompletedSteps() []entity.WizardStep {
	steps := make([]entity.WizardStep, 0, len(c.completed))
	for _, step := range entity.WizardSteps {
		if c.IsCompleted(step) {
			steps = append(steps, step)
		}
	}
	return steps
}

// CanAdvance reports whether Next would succeed for the given answers.
func (c *Controller) CanAdvance(s *entity.FormSnapshot) bool {
	if c.current == entity.StepComplete {
		return false
	}
	return c.current == entity.StepIntro || c.validator.IsStepValid(s, c.current)
}

// Next moves one step forward and marks the step being left as completed.
func (c *Controller) Next(s *entity.FormSnapshot) (entity.WizardStep, error) {
	idx := c.current.Index()
	if idx < 0 {
		return c.current, fmt.Errorf("%w: %s", entity.ErrUnknownStep, c.current)
	}
	if idx == len(entity.WizardSteps)-1 {
		return c.current, entity.ErrNoNextStep
	}

	// Intro has no answers to check.
	if c.current != entity.StepIntro && !c.validator.IsStepValid(s, c.current) {
		return c.current, fmt.Errorf("%w: %s", entity.ErrStepInvalid, c.current)
	}

	c.completed[c.current] = struct{}{}
	c.current = entity.WizardSteps[idx+1]
	return c.current, nil
}

// Prev moves one step back. It never touches the completed set.
func (c *Controller) Prev() (entity.WizardStep, error) {
	idx := c.current.Index()
	if idx < 0 {
		return c.current, fmt.Errorf("%w: %s", entity.ErrUnknownStep, c.current)
	}
	if idx == 0 {
		return c.current, entity.ErrNoPrevStep
	}

	c.current = entity.WizardSteps[idx-1]
	return c.current, nil
}

// Progress returns the progress bar entries. Intro is not part of the bar.
func (c *Controller) Progress() []entity.ProgressStep {
	if c.current == entity.StepIntro {
		return nil
	}

	bar := make([]entity.ProgressStep, 0, len(entity.WizardSteps)-1)
	for _, step := range entity.WizardSteps[1:] {
		bar = append(bar, entity.ProgressStep{
			Step:      step,
			Active:    step == c.current,
			Completed: c.IsCompleted(step),
		})
	}
	return bar
}
