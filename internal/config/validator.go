package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	var errors []string

	// Валидация источника
	if c.Endpoint == "" {
		errors = append(errors, "endpoint is required")
	} else if u, err := url.Parse(c.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, fmt.Sprintf("invalid endpoint: %s", c.Endpoint))
	}
	if c.Language == "" {
		errors = append(errors, "language is required")
	}

	// Валидация таймаутов
	if c.HTTPTimeout < time.Second {
		errors = append(errors, "HTTP timeout must be at least 1 second")
	}
	if c.FetchDelay < 0 {
		errors = append(errors, "fetch delay cannot be negative")
	}
	if c.FinalDelay < 0 {
		errors = append(errors, "final delay cannot be negative")
	}
	if c.MaxBodyBytes < 1 {
		errors = append(errors, "max body bytes must be at least 1")
	}

	// Валидация путей к артефактам
	if c.SnapshotPath == "" {
		errors = append(errors, "snapshot path is required")
	}
	if c.ReportPath == "" {
		errors = append(errors, "report path is required")
	}

	if _, err := language.Parse(c.CollationLocale); err != nil {
		errors = append(errors, fmt.Sprintf("invalid collation locale: %s", c.CollationLocale))
	}

	// Валидация порта
	if c.Port != "" {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("invalid port: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("port must be between 1 and 65535, got %d", port))
		}
	}

	// Валидация уровня логирования
	validLogLevels := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	if c.LogLevel != "" {
		valid := false
		logLevelUpper := strings.ToUpper(c.LogLevel)
		for _, level := range validLogLevels {
			if logLevelUpper == level {
				valid = true
				break
			}
		}
		if !valid {
			errors = append(errors, fmt.Sprintf("invalid log level: %s (valid: %s)",
				c.LogLevel, strings.Join(validLogLevels, ", ")))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// GetDefaults возвращает конфигурацию со значениями по умолчанию
func GetDefaults() *Config {
	return &Config{
		Endpoint:        DefaultEndpoint,
		Language:        "tr",
		SourceURL:       DefaultSourceURL,
		HTTPTimeout:     30 * time.Second,
		FetchDelay:      time.Second,
		FinalDelay:      time.Second,
		InsecureTLS:     true,
		MaxBodyBytes:    32 << 20,
		SnapshotPath:    "companies.json",
		ReportPath:      "README.MD",
		CollationLocale: "tr",
		Port:            "9999",
		LogLevel:        "INFO",
	}
}
