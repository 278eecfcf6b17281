package wizard

import (
	"testing"

	"github.com/futig/parallel-universe/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	valid map[entity.WizardStep]bool
	calls int
}

func (s *stubValidator) IsStepValid(_ *entity.FormSnapshot, step entity.WizardStep) bool {
	s.calls++
	return s.valid[step]
}

func allValid() *stubValidator {
	return &stubValidator{valid: map[entity.WizardStep]bool{
		entity.StepPersonal: true,
		entity.StepPast:     true,
	}}
}

func TestForwardPath(t *testing.T) {
	c := NewController(allValid())
	s := &entity.FormSnapshot{}

	assert.Equal(t, entity.StepIntro, c.Current())
	assert.Nil(t, c.Progress())

	for _, want := range []entity.WizardStep{entity.StepPersonal, entity.StepPast, entity.StepComplete} {
		step, err := c.Next(s)
		require.NoError(t, err)
		assert.Equal(t, want, step)
	}

	_, err := c.Next(s)
	assert.ErrorIs(t, err, entity.ErrNoNextStep)
	assert.Equal(t, entity.StepComplete, c.Current())
	assert.Equal(t, []entity.WizardStep{entity.StepIntro, entity.StepPersonal, entity.StepPast}, c.CompletedSteps())
	assert.False(t, c.IsCompleted(entity.StepComplete))
}

func TestIntroIsUnconditional(t *testing.T) {
	v := &stubValidator{valid: map[entity.WizardStep]bool{}}
	c := NewController(v)

	step, err := c.Next(&entity.FormSnapshot{})
	require.NoError(t, err)
	assert.Equal(t, entity.StepPersonal, step)
	assert.Zero(t, v.calls)
}

func TestInvalidStepBlocksForward(t *testing.T) {
	for _, blocked := range []entity.WizardStep{entity.StepPersonal, entity.StepPast} {
		t.Run(string(blocked), func(t *testing.T) {
			v := allValid()
			c := NewController(v)
			s := &entity.FormSnapshot{}

			for c.Current() != blocked {
				_, err := c.Next(s)
				require.NoError(t, err)
			}

			v.valid[blocked] = false
			assert.False(t, c.CanAdvance(s))

			step, err := c.Next(s)
			assert.ErrorIs(t, err, entity.ErrStepInvalid)
			assert.Equal(t, blocked, step)
			assert.Equal(t, blocked, c.Current())
			assert.False(t, c.IsCompleted(blocked))
		})
	}
}

func TestBackwardNeverRevalidates(t *testing.T) {
	v := allValid()
	c := NewController(v)
	s := &entity.FormSnapshot{}

	for i := 0; i < 3; i++ {
		_, err := c.Next(s)
		require.NoError(t, err)
	}

	v.valid[entity.StepPersonal] = false
	v.valid[entity.StepPast] = false
	calls := v.calls

	for _, want := range []entity.WizardStep{entity.StepPast, entity.StepPersonal, entity.StepIntro} {
		step, err := c.Prev()
		require.NoError(t, err)
		assert.Equal(t, want, step)
	}
	assert.Equal(t, calls, v.calls)

	_, err := c.Prev()
	assert.ErrorIs(t, err, entity.ErrNoPrevStep)
	assert.Equal(t, entity.StepIntro, c.Current())
}

func TestCompletedStepsGrowMonotonically(t *testing.T) {
	c := NewController(allValid())
	s := &entity.FormSnapshot{}

	_, _ = c.Next(s)
	_, _ = c.Next(s)
	_, _ = c.Prev()
	_, _ = c.Prev()

	assert.Equal(t, entity.StepIntro, c.Current())
	assert.Equal(t, []entity.WizardStep{entity.StepIntro, entity.StepPersonal}, c.CompletedSteps())
}

func TestProgress(t *testing.T) {
	c := NewController(allValid())
	s := &entity.FormSnapshot{}

	_, _ = c.Next(s)
	_, _ = c.Next(s)

	assert.Equal(t, []entity.ProgressStep{
		{Step: entity.StepPersonal, Active: false, Completed: true},
		{Step: entity.StepPast, Active: true, Completed: false},
		{Step: entity.StepComplete, Active: false, Completed: false},
	}, c.Progress())
}
