package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/futig/parallel-universe/internal/entity"
	"github.com/futig/parallel-universe/internal/pkg/validator"
	"github.com/futig/parallel-universe/internal/prefs"
	"github.com/futig/parallel-universe/internal/repository"
	"github.com/futig/parallel-universe/internal/usecase/simulation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

const reply = `[{"title":"2016D / 10 /","contents":"moved"},{"title":"2020D / 1400 /","contents":"opened a cafe"}] "lastMessage": "be well"`

type stubSimulator struct {
	gate  chan struct{}
	reply string
	err   error
}

func (s *stubSimulator) Simulate(ctx context.Context, _ *entity.FormSnapshot) (string, error) {
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.reply, s.err
}

type fixture struct {
	uc     *SessionUsecase
	prefs  *prefs.Manager
	sim    *stubSimulator
	client string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clock := func() time.Time { return time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC) }
	manager := prefs.NewManager(repository.NewPreferenceMemory())
	sim := &stubSimulator{reply: reply}

	uc := NewUsecase(
		repository.NewSessionStore[*Session](0),
		manager,
		validator.NewFormValidator(validator.WithClock(clock)),
		simulation.NewCoordinator(sim),
		zap.NewNop(),
	)

	return &fixture{uc: uc, prefs: manager, sim: sim, client: uuid.NewString()}
}

func ptr[T any](v T) *T {
	return &v
}

func personalPatch() *entity.FormPatch {
	return &entity.FormPatch{
		BirthDate:       ptr("1991-03-02"),
		Gender:          ptr(entity.GenderMale),
		CurrentLocation: ptr("Seoul"),
		CurrentJob:      ptr("Engineer"),
		CurrentSelf:     ptr("Restless, but hopeful"),
	}
}

func pastPatch() *entity.FormPatch {
	return &entity.FormPatch{
		Year:          ptr(2012),
		PastChoice:    ptr("I declined the offer abroad"),
		DesiredChange: ptr("I would have taken the job"),
	}
}

func (f *fixture) start(t *testing.T) *entity.SessionDTO {
	t.Helper()
	dto, err := f.uc.StartSession(context.Background(), &entity.StartSessionRequest{ClientID: f.client}, "")
	require.NoError(t, err)
	return dto
}

// walkToComplete fills every answer and moves to the complete step.
func (f *fixture) walkToComplete(t *testing.T, id string) {
	t.Helper()
	ctx := context.Background()

	_, err := f.uc.Next(ctx, id)
	require.NoError(t, err)
	_, err = f.uc.UpdateForm(ctx, id, personalPatch())
	require.NoError(t, err)
	_, err = f.uc.Next(ctx, id)
	require.NoError(t, err)
	_, err = f.uc.UpdateForm(ctx, id, pastPatch())
	require.NoError(t, err)
	dto, err := f.uc.Next(ctx, id)
	require.NoError(t, err)
	require.Equal(t, entity.StepComplete, dto.Step)
}

func (f *fixture) waitIdle(t *testing.T, id string) *entity.SessionDTO {
	t.Helper()
	var dto *entity.SessionDTO
	require.Eventually(t, func() bool {
		var err error
		dto, err = f.uc.GetSession(context.Background(), id)
		return err == nil && !dto.Submission.Loading
	}, time.Second, 5*time.Millisecond)
	return dto
}

func TestStartSession(t *testing.T) {
	f := newFixture(t)

	dto := f.start(t)
	assert.Equal(t, entity.StepIntro, dto.Step)
	assert.Empty(t, dto.CompletedSteps)
	assert.Nil(t, dto.Progress)
	assert.Equal(t, f.client, dto.ClientID)
	assert.Equal(t, "ko", dto.Form.Lang)
	assert.False(t, dto.Form.SaveDataEnabled())
	assert.False(t, dto.Submission.Loading)

	_, err := f.uc.StartSession(context.Background(), &entity.StartSessionRequest{ClientID: "nope"}, "")
	assert.ErrorIs(t, err, entity.ErrInvalidClientID)
}

func TestStartSessionUsesAcceptLanguage(t *testing.T) {
	f := newFixture(t)

	dto, err := f.uc.StartSession(context.Background(), &entity.StartSessionRequest{ClientID: f.client}, "es-MX,es;q=0.8")
	require.NoError(t, err)
	assert.Equal(t, "es", dto.Form.Lang)
}

func TestSavedPersonalInfoPrefillsNextSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.start(t)
	patch := personalPatch()
	patch.SaveData = ptr(true)
	_, err := f.uc.UpdateForm(ctx, first.ID, patch)
	require.NoError(t, err)

	second := f.start(t)
	assert.True(t, second.Form.SaveDataEnabled())
	assert.Equal(t, "Seoul", second.Form.CurrentLocation)
	assert.Equal(t, entity.GenderMale, second.Form.Gender)
	assert.Zero(t, second.Form.Year, "past answers are never saved")

	_, err = f.uc.UpdateForm(ctx, second.ID, &entity.FormPatch{SaveData: ptr(false)})
	require.NoError(t, err)

	third := f.start(t)
	assert.False(t, third.Form.SaveDataEnabled())
	assert.Empty(t, third.Form.CurrentLocation)
}

func TestEditsAreSavedOnlyWithOptIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dto := f.start(t)

	_, err := f.uc.UpdateForm(ctx, dto.ID, personalPatch())
	require.NoError(t, err)
	_, ok := f.prefs.LoadPersonalInfo(ctx, f.client)
	assert.False(t, ok)

	_, err = f.uc.UpdateForm(ctx, dto.ID, &entity.FormPatch{SaveData: ptr(true)})
	require.NoError(t, err)
	saved, ok := f.prefs.LoadPersonalInfo(ctx, f.client)
	require.True(t, ok)
	assert.Equal(t, "Engineer", saved.CurrentJob)

	_, err = f.uc.UpdateForm(ctx, dto.ID, &entity.FormPatch{CurrentJob: ptr("Baker")})
	require.NoError(t, err)
	saved, ok = f.prefs.LoadPersonalInfo(ctx, f.client)
	require.True(t, ok)
	assert.Equal(t, "Baker", saved.CurrentJob)
}

func TestUpdateFormRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dto := f.start(t)

	_, err := f.uc.UpdateForm(ctx, dto.ID, &entity.FormPatch{Lang: ptr("de")})
	assert.ErrorIs(t, err, entity.ErrUnsupportedLanguage)

	_, err = f.uc.UpdateForm(ctx, dto.ID, &entity.FormPatch{Gender: ptr(entity.Gender("other"))})
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)

	updated, err := f.uc.UpdateForm(ctx, dto.ID, &entity.FormPatch{Lang: ptr("en-US")})
	require.NoError(t, err)
	assert.Equal(t, "en", updated.Form.Lang)
}

func TestNextIsGatedByValidity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dto := f.start(t)

	dto, err := f.uc.Next(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StepPersonal, dto.Step)

	_, err = f.uc.UpdateForm(ctx, dto.ID, &entity.FormPatch{CurrentSelf: ptr("short")})
	require.NoError(t, err)

	_, err = f.uc.Next(ctx, dto.ID)
	require.ErrorIs(t, err, entity.ErrStepInvalid)

	var validationErr *entity.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, entity.StepPersonal, validationErr.Step)
	assert.Len(t, validationErr.FieldErrors, len(entity.PersonalInfoFields))

	current, err := f.uc.GetSession(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StepPersonal, current.Step)
	assert.NotEmpty(t, current.FieldErrors)
	assert.False(t, current.StepValid["personal"])
	assert.True(t, current.StepValid["intro"])
}

func TestPrevNeverRevalidates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dto := f.start(t)
	f.walkToComplete(t, dto.ID)

	_, err := f.uc.UpdateForm(ctx, dto.ID, &entity.FormPatch{PastChoice: ptr("")})
	require.NoError(t, err)

	back, err := f.uc.Prev(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StepPast, back.Step)

	back, err = f.uc.Prev(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StepPersonal, back.Step)
	assert.Equal(t, []entity.WizardStep{entity.StepIntro, entity.StepPersonal, entity.StepPast}, back.CompletedSteps)

	_, err = f.uc.Prev(ctx, dto.ID)
	require.NoError(t, err)
	_, err = f.uc.Prev(ctx, dto.ID)
	assert.ErrorIs(t, err, entity.ErrNoPrevStep)
}

func TestSubmitAndPageResult(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newFixture(t)
	ctx := context.Background()
	dto := f.start(t)
	f.walkToComplete(t, dto.ID)

	_, err := f.uc.Result(ctx, dto.ID)
	assert.ErrorIs(t, err, entity.ErrNoResult)

	submitted, err := f.uc.Submit(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StepComplete, submitted.Step)

	idle := f.waitIdle(t, dto.ID)
	assert.True(t, idle.Submission.HasResult)
	assert.Nil(t, idle.Submission.LastError)
	assert.NotNil(t, idle.Submission.CompletedAt)

	result, err := f.uc.Result(ctx, dto.ID)
	require.NoError(t, err)
	assert.Len(t, result.Timeline, 2)

	page, err := f.uc.ResultPage(ctx, dto.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "2020", page.Year)
	assert.Equal(t, "opened a cafe", page.Item.Contents)
	assert.False(t, page.IsLast)

	last, err := f.uc.ResultPage(ctx, dto.ID, 2)
	require.NoError(t, err)
	assert.True(t, last.IsLast)
	assert.Equal(t, "be well", last.LastMessage)

	_, err = f.uc.ResultPage(ctx, dto.ID, 3)
	assert.ErrorIs(t, err, entity.ErrPageOutOfRange)
	_, err = f.uc.ResultPage(ctx, dto.ID, -1)
	assert.ErrorIs(t, err, entity.ErrPageOutOfRange)
}

func TestSubmitFailureIsRecorded(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newFixture(t)
	f.sim.err = errors.New("upstream unavailable")
	dto := f.start(t)
	f.walkToComplete(t, dto.ID)

	_, err := f.uc.Submit(context.Background(), dto.ID)
	require.NoError(t, err)

	idle := f.waitIdle(t, dto.ID)
	assert.False(t, idle.Submission.HasResult)
	require.NotNil(t, idle.Submission.LastError)
	assert.Contains(t, *idle.Submission.LastError, "upstream unavailable")
	assert.Equal(t, entity.StepComplete, idle.Step)
}

func TestSubmitRequiresCompleteStep(t *testing.T) {
	f := newFixture(t)
	dto := f.start(t)

	_, err := f.uc.Submit(context.Background(), dto.ID)
	assert.ErrorIs(t, err, entity.ErrNotAtCompleteStep)
}

func TestSessionIsLockedWhileLoading(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newFixture(t)
	f.sim.gate = make(chan struct{})
	ctx := context.Background()
	dto := f.start(t)
	f.walkToComplete(t, dto.ID)

	submitted, err := f.uc.Submit(ctx, dto.ID)
	require.NoError(t, err)
	assert.True(t, submitted.Submission.Loading)

	_, err = f.uc.Submit(ctx, dto.ID)
	assert.ErrorIs(t, err, entity.ErrSubmissionInProgress)
	_, err = f.uc.UpdateForm(ctx, dto.ID, &entity.FormPatch{CurrentJob: ptr("Pilot")})
	assert.ErrorIs(t, err, entity.ErrSubmissionInProgress)
	_, err = f.uc.Prev(ctx, dto.ID)
	assert.ErrorIs(t, err, entity.ErrSubmissionInProgress)

	close(f.sim.gate)
	idle := f.waitIdle(t, dto.ID)
	assert.True(t, idle.Submission.HasResult)

	_, err = f.uc.Prev(ctx, dto.ID)
	assert.NoError(t, err)
}

func TestResetSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dto := f.start(t)

	require.NoError(t, f.uc.ResetSession(ctx, dto.ID))

	_, err := f.uc.GetSession(ctx, dto.ID)
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
	assert.ErrorIs(t, f.uc.ResetSession(ctx, dto.ID), entity.ErrSessionNotFound)

	_, err = f.uc.GetSession(ctx, "../not-a-uuid")
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
}
