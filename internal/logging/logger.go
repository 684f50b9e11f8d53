package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// New создает структурированный JSON логгер.
// Уровень задается строкой DEBUG/INFO/WARN/ERROR, неизвестные значения дают INFO.
func New(level string, output io.Writer) *slog.Logger {
	if output == nil {
		output = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level:     ParseLevel(level),
		AddSource: true, // файл и строка источника
	}
	return slog.New(slog.NewJSONHandler(output, opts))
}

// ParseLevel переводит строковый уровень в slog.Level
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard логгер, который ничего не пишет
func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type loggerKey struct{}

// WithLogger кладет логгер запуска в контекст
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext возвращает логгер из контекста или fallback
func FromContext(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && logger != nil {
			return logger
		}
	}
	return fallback
}

// --- Специализированные функции логирования выгрузки ---

// LogPageFetched логирует успешно загруженную страницу
func LogPageFetched(logger *slog.Logger, page, records, total int) {
	logger.Info("Page fetched",
		"page", page,
		"records", records,
		"total", total,
	)
}

// LogFetchFailure логирует неудачный запрос страницы с деталями ответа
func LogFetchFailure(logger *slog.Logger, page, statusCode int, message, body string) {
	logger.Error("Page fetch failed",
		"page", page,
		"status_code", statusCode,
		"message", message,
		"body", body,
	)
}

// LogPageRetry логирует повтор запроса той же страницы
func LogPageRetry(logger *slog.Logger, page int, err error) {
	logger.Warn("Retrying page",
		"page", page,
		"error", err,
	)
}

// LogRunComplete логирует итоги выгрузки
func LogRunComplete(logger *slog.Logger, pages, fetched, kept, total int, duration time.Duration) {
	logger.Info("Run completed",
		"pages", pages,
		"fetched", fetched,
		"kept", kept,
		"total", total,
		"duration_ms", duration.Milliseconds(),
	)
}
