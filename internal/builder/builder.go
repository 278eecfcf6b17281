package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/parallel-universe/internal/api"
	preferencesapi "github.com/futig/parallel-universe/internal/api/preferences"
	sessionapi "github.com/futig/parallel-universe/internal/api/session"
	"github.com/futig/parallel-universe/internal/config"
	"github.com/futig/parallel-universe/internal/integration/simulator"
	"github.com/futig/parallel-universe/internal/pkg/formatter"
	pkglogger "github.com/futig/parallel-universe/internal/pkg/logger"
	"github.com/futig/parallel-universe/internal/pkg/validator"
	"github.com/futig/parallel-universe/internal/prefs"
	"github.com/futig/parallel-universe/internal/repository"
	"github.com/futig/parallel-universe/internal/usecase/preferences"
	"github.com/futig/parallel-universe/internal/usecase/session"
	"github.com/futig/parallel-universe/internal/usecase/simulation"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := pkglogger.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
		zap.String("storage_driver", cfg.StorageCfg.Driver),
	)

	// Initialize repositories
	preferenceStorage, closeStorage, err := setupPreferenceStorage(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup preference storage: %w", err)
	}
	sessionStore := repository.NewSessionStore[*session.Session](cfg.SessionTTL)
	preferenceManager := prefs.NewManager(preferenceStorage)
	logger.Info("Repositories initialized")

	// Initialize external service connectors (with mock support)
	sim, err := setupSimulator(ctx, cfg, logger)
	if err != nil {
		closeStorage()
		return nil, fmt.Errorf("setup simulator: %w", err)
	}

	formatters, err := setupFormatters(cfg.FormatterCfg, logger)
	if err != nil {
		closeStorage()
		return nil, fmt.Errorf("setup formatters: %w", err)
	}

	formValidator := validator.NewFormValidator()

	// Initialize use cases
	sessionUC := session.NewUsecase(
		sessionStore,
		preferenceManager,
		formValidator,
		simulation.NewCoordinator(sim),
		logger,
	)
	preferencesUC := preferences.NewUsecase(preferenceManager)
	logger.Info("Use cases initialized")

	// Setup router
	router := api.SetupRouter(
		sessionapi.NewHandler(sessionUC, formatters),
		preferencesapi.NewHandler(preferencesUC),
		cfg.CORSAllowedOrigins,
		logger,
	)
	logger.Info("HTTP router configured")

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server:       server,
		closeStorage: closeStorage,
		logger:       logger,
	}, nil
}

func setupSimulator(ctx context.Context, cfg *config.Config, logger *zap.Logger) (simulation.Simulator, error) {
	if cfg.EnableMocks {
		logger.Info("Using mock simulator")
		return simulator.NewMockConnector(logger), nil
	}

	switch cfg.SimulatorCfg.Backend {
	case config.SimulatorBackendGemini:
		logger.Info("Using Gemini simulator", zap.String("model", cfg.SimulatorCfg.Gemini.Model))
		return simulator.NewGeminiConnector(ctx, cfg.SimulatorCfg, logger)
	default:
		logger.Info("Using proxy simulator", zap.String("url", cfg.SimulatorCfg.Url))
		return simulator.NewProxyConnector(cfg.SimulatorCfg, logger), nil
	}
}

func setupFormatters(cfg config.FormatterConfig, logger *zap.Logger) (*formatter.Factory, error) {
	var opts []formatter.FactoryOption

	if cfg.PDFFontPath != "" {
		pdf, err := formatter.LoadPDFFormatter(cfg.PDFFontPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, formatter.WithPDFFormatter(pdf))
		logger.Info("Using custom PDF font", zap.String("path", cfg.PDFFontPath))
	}

	if cfg.DOCXLicenseKey != "" {
		if err := formatter.ActivateDOCXLicense(cfg.DOCXLicenseKey); err != nil {
			return nil, err
		}
		opts = append(opts, formatter.WithDOCX())
		logger.Info("DOCX downloads enabled")
	} else {
		logger.Warn("DOCX_LICENSE_KEY not set, DOCX downloads are disabled")
	}

	return formatter.NewFactory(opts...), nil
}
