package session

import (
	"context"

	"github.com/futig/parallel-universe/internal/entity"
	"github.com/futig/parallel-universe/internal/usecase/simulation"
	"github.com/futig/parallel-universe/internal/wizard"
)

type SessionStore interface {
	Create(ctx context.Context, id string, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Touch(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type PreferenceStore interface {
	LoadPersonalInfo(ctx context.Context, clientID string) (*entity.PersonalInfo, bool)
	Sync(ctx context.Context, clientID string, snapshot *entity.FormSnapshot)
	Locale(ctx context.Context, clientID, acceptLanguage string) entity.Language
}

type FormValidator interface {
	wizard.StepValidator
	ValidateStep(s *entity.FormSnapshot, step entity.WizardStep) []entity.FieldError
	ValidateSnapshot(s *entity.FormSnapshot) []entity.FieldError
}

type SubmissionCoordinator interface {
	Start(ctx context.Context, state *simulation.State, snapshot *entity.FormSnapshot) (<-chan simulation.Outcome, error)
}
