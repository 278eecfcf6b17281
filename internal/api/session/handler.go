package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/futig/parallel-universe/internal/entity"
	"github.com/futig/parallel-universe/internal/pkg/formatter"
	"github.com/futig/parallel-universe/internal/pkg/logger"
	"github.com/futig/parallel-universe/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase    SessionUsecase
	formatters *formatter.Factory
}

func NewHandler(usecase SessionUsecase, formatters *formatter.Factory) *Handler {
	return &Handler{
		usecase:    usecase,
		formatters: formatters,
	}
}

// StartSession handles POST /wizard-sessions - Start new wizard session
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "StartSession")

	var req entity.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	session, err := h.usecase.StartSession(ctx, &req, r.Header.Get("Accept-Language"))
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.JSON(w, http.StatusCreated, session)
}

// GetSession handles GET /wizard-sessions/{id} - Get session view
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "GetSession")

	session, err := h.usecase.GetSession(ctx, sessionID)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.JSON(w, http.StatusOK, session)
}

// ResetSession handles DELETE /wizard-sessions/{id} - Drop session and result
func (h *Handler) ResetSession(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "ResetSession")

	if err := h.usecase.ResetSession(ctx, sessionID); err != nil {
		response.FromError(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateForm handles PATCH /wizard-sessions/{id}/form - Partial form edit
func (h *Handler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "UpdateForm")

	var patch entity.FormPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	session, err := h.usecase.UpdateForm(ctx, sessionID, &patch)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.JSON(w, http.StatusOK, session)
}

// Next handles POST /wizard-sessions/{id}/next
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "Next")

	session, err := h.usecase.Next(ctx, sessionID)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.JSON(w, http.StatusOK, session)
}

// Prev handles POST /wizard-sessions/{id}/prev
func (h *Handler) Prev(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "Prev")

	session, err := h.usecase.Prev(ctx, sessionID)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.JSON(w, http.StatusOK, session)
}

// Submit handles POST /wizard-sessions/{id}/submit - Start the simulation
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "Submit")

	session, err := h.usecase.Submit(ctx, sessionID)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "submission accepted")
	response.JSON(w, http.StatusAccepted, session)
}

// GetResult handles GET /wizard-sessions/{id}/result - Download the result
func (h *Handler) GetResult(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "GetResult")

	formatParam := r.URL.Query().Get("format")
	if formatParam == "" {
		formatParam = string(entity.FormatJSON)
	}

	format := entity.ResultFormat(formatParam)
	if !format.IsValid() {
		response.Error(ctx, w, http.StatusBadRequest, "invalid format parameter",
			fmt.Errorf("%w: format must be one of: markdown, json, docx, pdf", entity.ErrUnsupportedFormat))
		return
	}

	ctx = logger.AddFields(ctx, zap.String("format", string(format)))

	result, err := h.usecase.Result(ctx, sessionID)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	fmtr, err := h.formatters.Create(format)
	if err != nil {
		response.Error(ctx, w, http.StatusNotImplemented, "format not implemented", err)
		return
	}

	formatted, err := fmtr.Format(result)
	if errors.Is(err, entity.ErrUnsupportedFormat) {
		response.Error(ctx, w, http.StatusNotImplemented, "result cannot be rendered in this format", err)
		return
	}
	if err != nil {
		response.Error(ctx, w, http.StatusInternalServerError, "failed to format result", err)
		return
	}

	ctxzap.Debug(ctx, "result formatted", zap.Int("bytes", len(formatted)))
	w.Header().Set("Content-Type", fmtr.ContentType())
	if format != entity.FormatJSON {
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=\"parallel-universe-%s%s\"", sessionID, fmtr.FileExtension()))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(formatted)
}

// GetResultPage handles GET /wizard-sessions/{id}/result/pages/{index}
func (h *Handler) GetResultPage(w http.ResponseWriter, r *http.Request) {
	ctx, sessionID := h.sessionContext(r, "GetResultPage")

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid page index",
			fmt.Errorf("%w: %v", entity.ErrInvalidParameter, err))
		return
	}

	page, err := h.usecase.ResultPage(ctx, sessionID, index)
	if err != nil {
		response.FromError(ctx, w, err)
		return
	}

	response.JSON(w, http.StatusOK, page)
}

func (h *Handler) sessionContext(r *http.Request, action string) (context.Context, string) {
	sessionID := chi.URLParam(r, "id")
	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", action),
	)
	return ctx, sessionID
}
