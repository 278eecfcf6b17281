package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/parallel-universe/internal/pkg/retry"
	"github.com/joho/godotenv"
)

const (
	StorageDriverMemory   = "memory"
	StorageDriverFile     = "file"
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"

	SimulatorBackendProxy  = "proxy"
	SimulatorBackendGemini = "gemini"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr         string        `env:"SERVER_ADDR,notEmpty"`
	ServerReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	ServerWriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// Wizard sessions are kept in memory and dropped after this much inactivity
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"2h"`

	// Preference storage configuration
	StorageCfg StorageConfig `envPrefix:"STORAGE_"`

	// Database configuration, used by the postgres storage driver
	DatabaseURL         string               `env:"DATABASE_URL"`
	DBMaxConns          int                  `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns          int                  `env:"DB_MIN_CONNS" envDefault:"1"`
	DBMaxConnLifetime   time.Duration        `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration        `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration        `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
	DBConnectRetry      pkgRetry.RetryConfig `envPrefix:"DB_CONNECT_RETRY_"`

	// External simulator configuration
	SimulatorCfg SimulatorConfig `envPrefix:"SIMULATOR_"`

	// Result download configuration
	FormatterCfg FormatterConfig

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

type StorageConfig struct {
	Driver     string `env:"DRIVER" envDefault:"memory"`
	FileDir    string `env:"FILE_DIR" envDefault:"data/preferences"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"data/preferences.db"`
}

// FormatterConfig tunes the document formats offered for result downloads.
// DOCX downloads stay disabled until a unioffice metered key is provided.
type FormatterConfig struct {
	PDFFontPath    string `env:"PDF_FONT_PATH"`
	DOCXLicenseKey string `env:"DOCX_LICENSE_KEY"`
}

// SimulatorConfig selects and configures the generative backend.
// The HTTP client settings apply to both backends.
type SimulatorConfig struct {
	HTTPClientConfig
	Backend  string       `env:"BACKEND" envDefault:"proxy"`
	Endpoint string       `env:"ENDPOINT" envDefault:"/default/parallel-universe-proxy"`
	Gemini   GeminiConfig `envPrefix:"GEMINI_"`
}

type GeminiConfig struct {
	APIKey             string  `env:"API_KEY"`
	Model              string  `env:"MODEL" envDefault:"gemini-2.5-flash"`
	Temperature        float32 `env:"TEMPERATURE" envDefault:"1.0"`
	PromptTemplatePath string  `env:"PROMPT_TEMPLATE_PATH"`

	// PromptTemplate is loaded from PromptTemplatePath; empty means the built-in prompt
	PromptTemplate string
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"0s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"30s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"0s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL" envDefault:"https://0cez11yh0i.execute-api.eu-west-1.amazonaws.com"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	cfg.Environment = *envFlag

	if err := loadPromptTemplate(cfg); err != nil {
		return nil, fmt.Errorf("load prompt template: %w", err)
	}

	return cfg, nil
}

// Parse reads and validates the configuration from the process environment.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	switch cfg.StorageCfg.Driver {
	case StorageDriverMemory, StorageDriverFile, StorageDriverSQLite:
	case StorageDriverPostgres:
		if cfg.DatabaseURL == "" {
			errors = append(errors, "DATABASE_URL is required for the postgres storage driver")
		}
	default:
		errors = append(errors, fmt.Sprintf("STORAGE_DRIVER must be one of memory, file, sqlite, postgres, got %q", cfg.StorageCfg.Driver))
	}

	switch cfg.SimulatorCfg.Backend {
	case SimulatorBackendProxy:
		if cfg.SimulatorCfg.Url == "" && !cfg.EnableMocks {
			errors = append(errors, "SIMULATOR_SERVICE_URL is required for the proxy simulator")
		}
	case SimulatorBackendGemini:
		if cfg.SimulatorCfg.Gemini.APIKey == "" && !cfg.EnableMocks {
			errors = append(errors, "SIMULATOR_GEMINI_API_KEY is required for the gemini simulator")
		}
	default:
		errors = append(errors, fmt.Sprintf("SIMULATOR_BACKEND must be proxy or gemini, got %q", cfg.SimulatorCfg.Backend))
	}

	if cfg.SimulatorCfg.RequestTimeout < 0 {
		errors = append(errors, "SIMULATOR_TIMEOUT must not be negative")
	}

	if cfg.SessionTTL < 0 {
		errors = append(errors, "SESSION_TTL must not be negative")
	}

	// Validate Database configuration
	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		errors = append(errors, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errors = append(errors, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func loadPromptTemplate(cfg *Config) error {
	path := cfg.SimulatorCfg.Gemini.PromptTemplatePath
	if path == "" {
		return nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Printf("Warning: prompt template not found at %s, using the built-in prompt\n", path)
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read prompt template: %w", err)
	}

	if strings.TrimSpace(string(data)) == "" {
		return fmt.Errorf("prompt template file is empty: %s", path)
	}

	cfg.SimulatorCfg.Gemini.PromptTemplate = string(data)
	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
