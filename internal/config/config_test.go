package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":8080")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverMemory, cfg.StorageCfg.Driver)
	assert.Equal(t, SimulatorBackendProxy, cfg.SimulatorCfg.Backend)
	assert.Equal(t, "/default/parallel-universe-proxy", cfg.SimulatorCfg.Endpoint)
	assert.Zero(t, cfg.SimulatorCfg.RequestTimeout, "no simulator timeout by default")
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.EqualValues(t, 5, cfg.DBConnectRetry.Attempts)
	assert.Empty(t, cfg.FormatterCfg.PDFFontPath)
	assert.Empty(t, cfg.FormatterCfg.DOCXLicenseKey)
}

func TestParseNested(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":8080")
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("STORAGE_SQLITE_PATH", "/tmp/prefs.db")
	t.Setenv("SIMULATOR_BACKEND", "gemini")
	t.Setenv("SIMULATOR_TIMEOUT", "45s")
	t.Setenv("SIMULATOR_GEMINI_API_KEY", "key")
	t.Setenv("SIMULATOR_GEMINI_MODEL", "gemini-2.0-flash")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("PDF_FONT_PATH", "/fonts/NotoSansKR-Regular.ttf")
	t.Setenv("DOCX_LICENSE_KEY", "metered-key")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/prefs.db", cfg.StorageCfg.SQLitePath)
	assert.Equal(t, 45*time.Second, cfg.SimulatorCfg.RequestTimeout)
	assert.Equal(t, "key", cfg.SimulatorCfg.Gemini.APIKey)
	assert.Equal(t, "gemini-2.0-flash", cfg.SimulatorCfg.Gemini.Model)
	assert.Len(t, cfg.CORSAllowedOrigins, 2)
	assert.Equal(t, "/fonts/NotoSansKR-Regular.ttf", cfg.FormatterCfg.PDFFontPath)
	assert.Equal(t, "metered-key", cfg.FormatterCfg.DOCXLicenseKey)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := map[string]map[string]string{
		"missing server addr":  {},
		"unknown driver":       {"SERVER_ADDR": ":1", "STORAGE_DRIVER": "redis"},
		"postgres without url": {"SERVER_ADDR": ":1", "STORAGE_DRIVER": "postgres"},
		"gemini without key":   {"SERVER_ADDR": ":1", "SIMULATOR_BACKEND": "gemini"},
		"unknown backend":      {"SERVER_ADDR": ":1", "SIMULATOR_BACKEND": "openai"},
		"negative ttl":         {"SERVER_ADDR": ":1", "SESSION_TTL": "-1m"},
	}

	for name, vars := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range vars {
				t.Setenv(k, v)
			}
			_, err := Parse()
			assert.Error(t, err)
		})
	}
}

func TestGeminiKeyOptionalWithMocks(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":8080")
	t.Setenv("SIMULATOR_BACKEND", "gemini")
	t.Setenv("ENABLE_MOCKS", "true")

	_, err := Parse()
	assert.NoError(t, err)
}

func TestGetEnvFile(t *testing.T) {
	assert.Equal(t, ".env.prod", getEnvFile("production"))
	assert.Equal(t, ".env.local", getEnvFile("dev"))
	assert.Equal(t, ".env.staging", getEnvFile("staging"))
}
