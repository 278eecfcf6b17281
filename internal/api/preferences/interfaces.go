package preferences

import (
	"context"

	"github.com/futig/parallel-universe/internal/entity"
)

type PreferencesUsecase interface {
	Get(ctx context.Context, clientID, acceptLanguage string) (*entity.PreferencesDTO, error)
	Update(ctx context.Context, clientID, acceptLanguage string, req *entity.UpdatePreferencesRequest) (*entity.PreferencesDTO, error)
	Languages() []entity.LanguageOption
}
