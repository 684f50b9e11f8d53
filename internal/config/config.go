package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultEndpoint адрес списка поставщиков услуг
	DefaultEndpoint = "https://www.btk.gov.tr/web-api/contentprovider/company"
	// DefaultSourceURL страница-источник, на которую ссылается отчет
	DefaultSourceURL = "https://www.btk.gov.tr/ticari-amacli-hizmet-verenler-yer-saglayici-listesi"
)

// Config конфигурация выгрузки
type Config struct {
	// Источник
	Endpoint  string `json:"endpoint"`
	Language  string `json:"language"`
	SourceURL string `json:"source_url"`

	// HTTP
	HTTPTimeout  time.Duration `json:"http_timeout"`
	FetchDelay   time.Duration `json:"fetch_delay"`
	FinalDelay   time.Duration `json:"final_delay"`
	InsecureTLS  bool          `json:"insecure_tls"`
	MaxBodyBytes int64         `json:"max_body_bytes"`

	// Артефакты
	SnapshotPath string `json:"snapshot_path"`
	ReportPath   string `json:"report_path"`
	ExcelPath    string `json:"excel_path"`
	SQLitePath   string `json:"sqlite_path"`

	// Сортировка
	CollationLocale string `json:"collation_locale"`

	// Сервер снимка
	Port string `json:"port"`

	// Логирование
	LogLevel string `json:"log_level"`
}

// LoadConfig загружает конфигурацию из переменных окружения.
// Если рядом лежит .env, значения из него подхватываются без перезаписи окружения.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Failed to load .env file: %v", err)
	}

	defaults := GetDefaults()
	config := &Config{
		// Источник
		Endpoint:  getEnv("BTK_ENDPOINT", defaults.Endpoint),
		Language:  getEnv("BTK_LANG", defaults.Language),
		SourceURL: getEnv("BTK_SOURCE_URL", defaults.SourceURL),

		// HTTP
		HTTPTimeout:  getEnvDuration("HTTP_TIMEOUT", defaults.HTTPTimeout),
		FetchDelay:   getEnvDuration("FETCH_DELAY", defaults.FetchDelay),
		FinalDelay:   getEnvDuration("FINAL_DELAY", defaults.FinalDelay),
		InsecureTLS:  getEnvBool("INSECURE_TLS", defaults.InsecureTLS),
		MaxBodyBytes: int64(getEnvInt("MAX_BODY_BYTES", int(defaults.MaxBodyBytes))),

		// Артефакты
		SnapshotPath: getEnv("SNAPSHOT_PATH", defaults.SnapshotPath),
		ReportPath:   getEnv("REPORT_PATH", defaults.ReportPath),
		ExcelPath:    os.Getenv("EXCEL_PATH"),
		SQLitePath:   os.Getenv("SQLITE_PATH"),

		CollationLocale: getEnv("COLLATION_LOCALE", defaults.CollationLocale),
		Port:            getEnv("SERVER_PORT", defaults.Port),
		LogLevel:        getEnv("LOG_LEVEL", defaults.LogLevel),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}
