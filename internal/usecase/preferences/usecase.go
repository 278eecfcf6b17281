package preferences

import (
	"context"
	"fmt"

	"github.com/futig/parallel-universe/internal/entity"
	"github.com/futig/parallel-universe/internal/pkg/logger"
	"github.com/futig/parallel-universe/internal/prefs"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// PreferencesUsecase exposes the per-client UI preferences.
type PreferencesUsecase struct {
	store PreferenceStore
}

func NewUsecase(store PreferenceStore) *PreferencesUsecase {
	return &PreferencesUsecase{
		store: store,
	}
}

func (uc *PreferencesUsecase) Get(ctx context.Context, clientID, acceptLanguage string) (*entity.PreferencesDTO, error) {
	if err := prefs.ValidateClientID(clientID); err != nil {
		return nil, err
	}

	return &entity.PreferencesDTO{
		ClientID:     clientID,
		SkipGreeting: uc.store.SkipGreeting(ctx, clientID),
		Language:     uc.store.Locale(ctx, clientID, acceptLanguage),
		HasSavedData: uc.store.HasPersonalInfo(ctx, clientID),
	}, nil
}

// Update stores the provided preferences; nil fields are left untouched.
func (uc *PreferencesUsecase) Update(
	ctx context.Context,
	clientID, acceptLanguage string,
	req *entity.UpdatePreferencesRequest,
) (*entity.PreferencesDTO, error) {
	if err := prefs.ValidateClientID(clientID); err != nil {
		return nil, err
	}
	ctx = logger.WithAction(logger.AddFields(ctx, zap.String("client_id", clientID)), "update_preferences")

	if req.Language != nil {
		lang, err := uc.store.SetLocale(ctx, clientID, *req.Language)
		if err != nil {
			return nil, fmt.Errorf("set language: %w", err)
		}
		ctxzap.Debug(ctx, "language preference stored", zap.String("language", string(lang)))
	}

	if req.SkipGreeting != nil {
		if err := uc.store.SetSkipGreeting(ctx, clientID, *req.SkipGreeting); err != nil {
			return nil, fmt.Errorf("set greeting preference: %w", err)
		}
	}

	return uc.Get(ctx, clientID, acceptLanguage)
}

// Languages lists the supported locales, default first.
func (uc *PreferencesUsecase) Languages() []entity.LanguageOption {
	return entity.SupportedLanguages
}
