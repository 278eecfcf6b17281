package preferences

import (
	"context"
	"net/http"

	"github.com/futig/parallel-universe/internal/entity"
	"github.com/futig/parallel-universe/internal/pkg/logger"
	"github.com/futig/parallel-universe/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type Handler struct {
	usecase PreferencesUsecase
}

func NewHandler(usecase PreferencesUsecase) *Handler {
	return &Handler{
		usecase: usecase,
	}
}

// ListLanguages handles GET /languages
func (h *Handler) ListLanguages(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.usecase.Languages())
}

// GetPreferences handles GET /clients/{client_id}/preferences
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	ctx, clientID := clientContext(r, "GetPreferences")

	prefs, err := h.usecase.Get(ctx, clientID, r.Header.Get("Accept-Language"))
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.JSON(w, http.StatusOK, prefs)
}

// UpdatePreferences handles PUT /clients/{client_id}/preferences
func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	ctx, clientID := clientContext(r, "UpdatePreferences")

	var req entity.UpdatePreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	prefs, err := h.usecase.Update(ctx, clientID, r.Header.Get("Accept-Language"), &req)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.JSON(w, http.StatusOK, prefs)
}

func clientContext(r *http.Request, action string) (context.Context, string) {
	clientID := chi.URLParam(r, "client_id")
	ctx := logger.AddFields(r.Context(),
		zap.String("client_id", clientID),
		zap.String("action", action),
	)
	return ctx, clientID
}
