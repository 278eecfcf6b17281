package session

import (
	"context"

	"github.com/futig/parallel-universe/internal/entity"
)

type SessionUsecase interface {
	StartSession(ctx context.Context, req *entity.StartSessionRequest, acceptLanguage string) (*entity.SessionDTO, error)
	GetSession(ctx context.Context, sessionID string) (*entity.SessionDTO, error)
	ResetSession(ctx context.Context, sessionID string) error
	UpdateForm(ctx context.Context, sessionID string, patch *entity.FormPatch) (*entity.SessionDTO, error)
	Next(ctx context.Context, sessionID string) (*entity.SessionDTO, error)
	Prev(ctx context.Context, sessionID string) (*entity.SessionDTO, error)
	Submit(ctx context.Context, sessionID string) (*entity.SessionDTO, error)
	Result(ctx context.Context, sessionID string) (*entity.SimulationResult, error)
	ResultPage(ctx context.Context, sessionID string, index int) (*entity.ResultPage, error)
}
