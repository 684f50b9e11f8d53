package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigLogLevelValidation(t *testing.T) {
	tests := []struct {
		name      string
		logLevel  string
		wantError bool
	}{
		{"Valid DEBUG", "DEBUG", false},
		{"Valid INFO", "INFO", false},
		{"Valid WARN", "WARN", false},
		{"Valid ERROR", "ERROR", false},
		{"Valid lowercase debug", "debug", false},
		{"Invalid value", "INVALID", true},
		{"Empty string", "", false}, // Пустая строка допустима (будет использовано значение по умолчанию)
		{"Mixed case", "DeBuG", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaults()
			cfg.LogLevel = tt.logLevel

			err := cfg.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty endpoint", func(c *Config) { c.Endpoint = "" }},
		{"relative endpoint", func(c *Config) { c.Endpoint = "/web-api/company" }},
		{"empty language", func(c *Config) { c.Language = "" }},
		{"short timeout", func(c *Config) { c.HTTPTimeout = 10 * time.Millisecond }},
		{"negative delay", func(c *Config) { c.FetchDelay = -time.Second }},
		{"zero body limit", func(c *Config) { c.MaxBodyBytes = 0 }},
		{"no snapshot path", func(c *Config) { c.SnapshotPath = "" }},
		{"no report path", func(c *Config) { c.ReportPath = "" }},
		{"bad locale", func(c *Config) { c.CollationLocale = "not a locale!" }},
		{"bad port", func(c *Config) { c.Port = "70000" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaults()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestGetDefaultsAreValid(t *testing.T) {
	cfg := GetDefaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultEndpoint, cfg.Endpoint)
	assert.Equal(t, "companies.json", cfg.SnapshotPath)
	assert.Equal(t, "README.MD", cfg.ReportPath)
	assert.Empty(t, cfg.ExcelPath)
	assert.Empty(t, cfg.SQLitePath)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BTK_ENDPOINT", "http://127.0.0.1:8080/company")
	t.Setenv("FETCH_DELAY", "0s")
	t.Setenv("FINAL_DELAY", "not-a-duration")
	t.Setenv("INSECURE_TLS", "false")
	t.Setenv("EXCEL_PATH", "out.xlsx")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8080/company", cfg.Endpoint)
	assert.Equal(t, time.Duration(0), cfg.FetchDelay)
	assert.Equal(t, time.Second, cfg.FinalDelay, "unparseable value keeps default")
	assert.False(t, cfg.InsecureTLS)
	assert.Equal(t, "out.xlsx", cfg.ExcelPath)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SERVER_PORT", "abc")

	_, err := LoadConfig()
	assert.Error(t, err)
}
