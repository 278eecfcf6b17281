package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/futig/parallel-universe/internal/entity"
	"github.com/goccy/go-json"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		// Headers are already sent, nothing left to report to the client.
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Error writes an error response and logs the cause.
func Error(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, message, zap.Error(err))
	} else {
		ctxzap.Warn(ctx, message, zap.Error(err))
	}

	body := entity.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	}

	var validationErr *entity.ValidationError
	if errors.As(err, &validationErr) {
		body.FieldErrors = validationErr.FieldErrors
	}

	JSON(w, status, body)
}

// FromError maps a usecase error onto its HTTP status.
func FromError(ctx context.Context, w http.ResponseWriter, err error) {
	status, message := classify(err)
	Error(ctx, w, status, message, err)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, entity.ErrSessionNotFound):
		return http.StatusNotFound, "session not found"
	case errors.Is(err, entity.ErrNoResult):
		return http.StatusNotFound, "result not available"
	case errors.Is(err, entity.ErrPageOutOfRange):
		return http.StatusNotFound, "result page not found"
	case errors.Is(err, entity.ErrStepInvalid), errors.Is(err, entity.ErrSnapshotInvalid):
		return http.StatusBadRequest, "validation failed"
	case errors.Is(err, entity.ErrInvalidClientID),
		errors.Is(err, entity.ErrUnsupportedLanguage),
		errors.Is(err, entity.ErrUnsupportedFormat),
		errors.Is(err, entity.ErrInvalidParameter),
		errors.Is(err, entity.ErrInvalidFormat),
		errors.Is(err, entity.ErrMissingField):
		return http.StatusBadRequest, "invalid parameter"
	case errors.Is(err, entity.ErrSubmissionInProgress),
		errors.Is(err, entity.ErrNotAtCompleteStep),
		errors.Is(err, entity.ErrNoNextStep),
		errors.Is(err, entity.ErrNoPrevStep),
		errors.Is(err, entity.ErrUnknownStep):
		return http.StatusConflict, "invalid session state"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
