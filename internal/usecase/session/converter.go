package session

import (
	"github.com/futig/parallel-universe/internal/entity"
	"github.com/futig/parallel-universe/internal/usecase/simulation"
)

// toSessionDTO must be called with s.mu held.
func toSessionDTO(s *Session, v FormValidator) *entity.SessionDTO {
	stepValid := make(map[string]bool, len(entity.WizardSteps))
	for _, step := range entity.WizardSteps {
		stepValid[string(step)] = v.IsStepValid(&s.Form, step)
	}

	return &entity.SessionDTO{
		ID:             s.ID,
		ClientID:       s.ClientID,
		Step:           s.Wizard.Current(),
		CompletedSteps: s.Wizard.CompletedSteps(),
		Progress:       s.Wizard.Progress(),
		Form:           s.Form,
		StepValid:      stepValid,
		FieldErrors:    v.ValidateStep(&s.Form, s.Wizard.Current()),
		Submission:     toSubmissionDTO(s.Submit.Status()),
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func toSubmissionDTO(status simulation.Status) entity.SubmissionDTO {
	dto := entity.SubmissionDTO{
		Loading:   status.Loading,
		HasResult: status.Result != nil,
	}

	if status.LastError != nil {
		msg := status.LastError.Error()
		dto.LastError = &msg
	}

	if !status.CompletedAt.IsZero() {
		completedAt := status.CompletedAt
		dto.CompletedAt = &completedAt
	}

	return dto
}
