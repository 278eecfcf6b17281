package prefs

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/futig/parallel-universe/internal/entity"
	"github.com/futig/parallel-universe/internal/pkg/logger"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Manager keeps the opt-in subset of wizard answers and the client's UI
// preferences.
type Manager struct {
	storage Storage
}

// NewManager creates a new preference manager
func NewManager(storage Storage) *Manager {
	return &Manager{
		storage: storage,
	}
}

// ValidateClientID checks that the client identity is a UUID.
func ValidateClientID(clientID string) error {
	if _, err := uuid.Parse(clientID); err != nil {
		return fmt.Errorf("%w: %q", entity.ErrInvalidClientID, clientID)
	}
	return nil
}

// LoadPersonalInfo returns the saved personal info for the client.
// Unreadable data is logged and reported as absent.
func (m *Manager) LoadPersonalInfo(ctx context.Context, clientID string) (*entity.PersonalInfo, bool) {
	ctx = logger.WithAction(ctx, "load_personal_info")

	raw, err := m.get(ctx, clientID, KeyFormData)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			ctxzap.Error(ctx, "failed to load saved form data", zap.Error(err))
		}
		return nil, false
	}

	var info entity.PersonalInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		ctxzap.Error(ctx, "failed to decode saved form data", zap.Error(err))
		return nil, false
	}

	return &info, true
}

// HasPersonalInfo reports whether a saved subset exists.
func (m *Manager) HasPersonalInfo(ctx context.Context, clientID string) bool {
	_, ok := m.LoadPersonalInfo(ctx, clientID)
	return ok
}

// SavePersonalInfo overwrites the saved subset.
func (m *Manager) SavePersonalInfo(ctx context.Context, clientID string, info entity.PersonalInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("marshal personal info: %w", err)
	}

	if err := m.set(ctx, clientID, KeyFormData, string(data)); err != nil {
		return fmt.Errorf("save personal info: %w", err)
	}

	return nil
}

// ClearPersonalInfo removes the saved subset.
func (m *Manager) ClearPersonalInfo(ctx context.Context, clientID string) error {
	if err := ValidateClientID(clientID); err != nil {
		return err
	}

	if err := m.storage.Delete(ctx, clientID, KeyFormData); err != nil {
		return fmt.Errorf("clear personal info: %w", err)
	}

	return nil
}

// Sync mirrors the snapshot into storage: the personal info is saved when
// the user opted in and removed otherwise. Failures are logged, never returned.
func (m *Manager) Sync(ctx context.Context, clientID string, snapshot *entity.FormSnapshot) {
	ctx = logger.WithAction(ctx, "sync_personal_info")

	var err error
	if snapshot.SaveDataEnabled() {
		err = m.SavePersonalInfo(ctx, clientID, snapshot.PersonalInfo)
	} else {
		err = m.ClearPersonalInfo(ctx, clientID)
	}

	if err != nil {
		ctxzap.Error(ctx, "failed to sync personal info",
			zap.Bool("save_data", snapshot.SaveDataEnabled()),
			zap.Error(err),
		)
	}
}

// SkipGreeting reports whether the intro greeting was dismissed for good.
func (m *Manager) SkipGreeting(ctx context.Context, clientID string) bool {
	raw, err := m.get(ctx, clientID, KeySkipGreeting)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			ctxzap.Warn(ctx, "failed to load greeting preference", zap.Error(err))
		}
		return false
	}

	skip, err := strconv.ParseBool(raw)
	if err != nil {
		return false
	}
	return skip
}

func (m *Manager) SetSkipGreeting(ctx context.Context, clientID string, skip bool) error {
	if err := m.set(ctx, clientID, KeySkipGreeting, strconv.FormatBool(skip)); err != nil {
		return fmt.Errorf("save greeting preference: %w", err)
	}
	return nil
}

// Locale returns the stored language, then the best match for acceptLanguage,
// then the default language.
func (m *Manager) Locale(ctx context.Context, clientID, acceptLanguage string) entity.Language {
	raw, err := m.get(ctx, clientID, KeyLanguage)
	switch {
	case err == nil:
		if lang, perr := entity.ParseLanguage(raw); perr == nil {
			return lang
		}
		ctxzap.Warn(ctx, "stored language is not supported", zap.String("language", raw))
	case !errors.Is(err, ErrNotFound):
		ctxzap.Warn(ctx, "failed to load language preference", zap.Error(err))
	}

	if lang, ok := entity.LanguageFromAcceptHeader(acceptLanguage); ok {
		return lang
	}

	return entity.DefaultLanguage
}

// SetLocale stores a supported language and returns its canonical code.
func (m *Manager) SetLocale(ctx context.Context, clientID, tag string) (entity.Language, error) {
	lang, err := entity.ParseLanguage(tag)
	if err != nil {
		return "", err
	}

	if err := m.set(ctx, clientID, KeyLanguage, string(lang)); err != nil {
		return "", fmt.Errorf("save language preference: %w", err)
	}

	return lang, nil
}

func (m *Manager) get(ctx context.Context, clientID string, key Key) (string, error) {
	if err := ValidateClientID(clientID); err != nil {
		return "", err
	}
	return m.storage.Get(ctx, clientID, key)
}

func (m *Manager) set(ctx context.Context, clientID string, key Key, value string) error {
	if err := ValidateClientID(clientID); err != nil {
		return err
	}
	return m.storage.Set(ctx, clientID, key, value)
}
