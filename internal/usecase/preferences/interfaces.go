package preferences

import (
	"context"

	"github.com/futig/parallel-universe/internal/entity"
)

type PreferenceStore interface {
	HasPersonalInfo(ctx context.Context, clientID string) bool
	SkipGreeting(ctx context.Context, clientID string) bool
	SetSkipGreeting(ctx context.Context, clientID string, skip bool) error
	Locale(ctx context.Context, clientID, acceptLanguage string) entity.Language
	SetLocale(ctx context.Context, clientID, tag string) (entity.Language, error)
}
