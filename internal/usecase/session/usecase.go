package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/futig/parallel-universe/internal/entity"
	"github.com/futig/parallel-universe/internal/pkg/logger"
	"github.com/futig/parallel-universe/internal/prefs"
	"github.com/futig/parallel-universe/internal/usecase/simulation"
	"github.com/futig/parallel-universe/internal/wizard"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// SessionUsecase implements the wizard session business logic
type SessionUsecase struct {
	sessions    SessionStore
	prefs       PreferenceStore
	validator   FormValidator
	coordinator SubmissionCoordinator
	logger      *zap.Logger
	now         func() time.Time
}

// NewUsecase creates a new session use case
func NewUsecase(
	sessions SessionStore,
	preferences PreferenceStore,
	validator FormValidator,
	coordinator SubmissionCoordinator,
	logger *zap.Logger,
) *SessionUsecase {
	return &SessionUsecase{
		sessions:    sessions,
		prefs:       preferences,
		validator:   validator,
		coordinator: coordinator,
		logger:      logger,
		now:         time.Now,
	}
}

// StartSession creates a session on the intro step. Personal info saved by
// an earlier session is prefilled and keeps the save opt-in switched on.
func (uc *SessionUsecase) StartSession(
	ctx context.Context,
	req *entity.StartSessionRequest,
	acceptLanguage string,
) (*entity.SessionDTO, error) {
	if err := prefs.ValidateClientID(req.ClientID); err != nil {
		return nil, err
	}

	now := uc.now()
	session := &Session{
		ID:        uuid.New().String(),
		ClientID:  req.ClientID,
		Wizard:    wizard.NewController(uc.validator),
		Submit:    simulation.NewState(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	ctx = logger.WithSession(ctx, session.ID, session.ClientID)

	if info, ok := uc.prefs.LoadPersonalInfo(ctx, req.ClientID); ok {
		saveData := true
		session.Form.PersonalInfo = *info
		session.Form.SaveData = &saveData
		ctxzap.Debug(ctx, "prefilled personal info from saved data")
	}
	session.Form.Lang = string(uc.prefs.Locale(ctx, req.ClientID, acceptLanguage))

	if err := uc.sessions.Create(ctx, session.ID, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	ctxzap.Info(ctx, "wizard session started")

	session.mu.Lock()
	defer session.mu.Unlock()
	return toSessionDTO(session, uc.validator), nil
}

func (uc *SessionUsecase) GetSession(ctx context.Context, sessionID string) (*entity.SessionDTO, error) {
	session, err := uc.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	return toSessionDTO(session, uc.validator), nil
}

// ResetSession drops the session together with its result.
func (uc *SessionUsecase) ResetSession(ctx context.Context, sessionID string) error {
	if err := uc.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	ctxzap.Info(ctx, "wizard session reset", zap.String("session_id", sessionID))
	return nil
}

// UpdateForm applies a partial edit and mirrors personal info into the
// preference store when a watched field or the opt-in changed.
func (uc *SessionUsecase) UpdateForm(
	ctx context.Context,
	sessionID string,
	patch *entity.FormPatch,
) (*entity.SessionDTO, error) {
	session, err := uc.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	ctx = logger.WithSession(ctx, session.ID, session.ClientID)

	if session.Submit.Loading() {
		return nil, entity.ErrSubmissionInProgress
	}

	if patch.Lang != nil {
		lang, err := entity.ParseLanguage(*patch.Lang)
		if err != nil {
			return nil, err
		}
		canonical := string(lang)
		patch.Lang = &canonical
	}

	if patch.Gender != nil && *patch.Gender != "" {
		if err := patch.Gender.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrInvalidParameter, err)
		}
	}

	if watchedChanged := patch.Apply(&session.Form); watchedChanged {
		uc.prefs.Sync(ctx, session.ClientID, &session.Form)
	}

	uc.touch(ctx, session)
	return toSessionDTO(session, uc.validator), nil
}

// Next moves forward. A blocked move returns an *entity.ValidationError
// listing the offending fields.
func (uc *SessionUsecase) Next(ctx context.Context, sessionID string) (*entity.SessionDTO, error) {
	session, err := uc.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	ctx = logger.WithSession(ctx, session.ID, session.ClientID)

	if session.Submit.Loading() {
		return nil, entity.ErrSubmissionInProgress
	}

	from := session.Wizard.Current()
	to, err := session.Wizard.Next(&session.Form)
	if err != nil {
		if errors.Is(err, entity.ErrStepInvalid) {
			return nil, &entity.ValidationError{
				Err:         entity.ErrStepInvalid,
				Step:        from,
				FieldErrors: uc.validator.ValidateStep(&session.Form, from),
			}
		}
		return nil, err
	}

	ctxzap.Debug(ctx, "wizard moved forward", zap.String("from", string(from)), zap.String("to", string(to)))

	uc.touch(ctx, session)
	return toSessionDTO(session, uc.validator), nil
}

func (uc *SessionUsecase) Prev(ctx context.Context, sessionID string) (*entity.SessionDTO, error) {
	session, err := uc.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	ctx = logger.WithSession(ctx, session.ID, session.ClientID)

	if session.Submit.Loading() {
		return nil, entity.ErrSubmissionInProgress
	}

	from := session.Wizard.Current()
	to, err := session.Wizard.Prev()
	if err != nil {
		return nil, err
	}

	ctxzap.Debug(ctx, "wizard moved back", zap.String("from", string(from)), zap.String("to", string(to)))

	uc.touch(ctx, session)
	return toSessionDTO(session, uc.validator), nil
}

// Submit starts the simulation in the background and returns immediately
// with the loading flag set. The call outlives the request context.
func (uc *SessionUsecase) Submit(ctx context.Context, sessionID string) (*entity.SessionDTO, error) {
	session, err := uc.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	ctx = logger.WithSession(ctx, session.ID, session.ClientID)

	if session.Wizard.Current() != entity.StepComplete {
		return nil, fmt.Errorf("%w: current step is %s", entity.ErrNotAtCompleteStep, session.Wizard.Current())
	}

	if fieldErrors := uc.validator.ValidateSnapshot(&session.Form); len(fieldErrors) > 0 {
		return nil, &entity.ValidationError{
			Err:         entity.ErrSnapshotInvalid,
			FieldErrors: fieldErrors,
		}
	}

	snapshot := session.Form
	if _, err := uc.coordinator.Start(context.WithoutCancel(ctx), session.Submit, &snapshot); err != nil {
		return nil, err
	}

	ctxzap.Info(ctx, "simulation submitted")

	uc.touch(ctx, session)
	return toSessionDTO(session, uc.validator), nil
}

// Result returns the current result of the session.
func (uc *SessionUsecase) Result(ctx context.Context, sessionID string) (*entity.SimulationResult, error) {
	session, err := uc.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result := session.Submit.Result()
	if result == nil {
		return nil, entity.ErrNoResult
	}

	return result, nil
}

// ResultPage returns one page of the result; index len(timeline) is the
// closing last-message page.
func (uc *SessionUsecase) ResultPage(ctx context.Context, sessionID string, index int) (*entity.ResultPage, error) {
	result, err := uc.Result(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return result.Page(index)
}

func (uc *SessionUsecase) getSession(ctx context.Context, sessionID string) (*Session, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, fmt.Errorf("%w: %s", entity.ErrSessionNotFound, sessionID)
	}

	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	return session, nil
}

// touch must be called with s.mu held.
func (uc *SessionUsecase) touch(ctx context.Context, s *Session) {
	s.UpdatedAt = uc.now()
	if err := uc.sessions.Touch(ctx, s.ID); err != nil {
		ctxzap.Warn(ctx, "failed to renew session expiration", zap.Error(err))
	}
}
