package api

import (
	"net/http"
	"time"

	"github.com/futig/parallel-universe/internal/api/docs"
	"github.com/futig/parallel-universe/internal/api/middleware"
	preferencesapi "github.com/futig/parallel-universe/internal/api/preferences"
	sessionapi "github.com/futig/parallel-universe/internal/api/session"
	"github.com/futig/parallel-universe/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(
	sessionHandler *sessionapi.Handler,
	preferencesHandler *preferencesapi.Handler,
	allowedOrigins []string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(allowedOrigins))
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	docs.RegisterRoutes(r)

	sessionapi.RegisterRoutes(r, sessionHandler)
	preferencesapi.RegisterRoutes(r, preferencesHandler)

	return r
}
