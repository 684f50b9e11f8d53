package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"

	"btklist/database"
	"btklist/internal/config"
	"btklist/internal/logging"
	"btklist/pipeline"
)

func main() {
	os.Exit(run())
}

// run выполняет выгрузку и возвращает код завершения.
// Отложенные вызовы срабатывают до выхода из процесса.
func run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("Не удалось загрузить конфигурацию: %v", err)
		return 1
	}
	logger := logging.New(cfg.LogLevel, os.Stderr)

	var store pipeline.SnapshotStore
	if cfg.SQLitePath != "" {
		db, err := database.NewSnapshotDB(cfg.SQLitePath)
		if err != nil {
			log.Printf("Не удалось открыть БД снимка %s: %v", cfg.SQLitePath, err)
			return 1
		}
		defer db.Close()
		store = db
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := pipeline.NewFromConfig(cfg, afero.NewOsFs(), store, logger)
	summary, err := runner.Run(ctx)
	if errors.Is(err, pipeline.ErrEmptyResult) {
		logger.Warn("Upstream returned no records, artifacts left untouched")
		return 1
	}
	if err != nil {
		logger.Error("Run failed", "error", err)
		return 1
	}

	fmt.Printf("Записано %d из %d (страниц: %d, отброшено: %d, дубликатов: %d) за %v\n",
		summary.Kept, summary.Total, summary.Pages, summary.Rejected, summary.Duplicates, summary.Duration)
	fmt.Printf("  JSON: %s\n", cfg.SnapshotPath)
	fmt.Printf("  Отчет: %s\n", cfg.ReportPath)
	if cfg.ExcelPath != "" {
		fmt.Printf("  Excel: %s\n", cfg.ExcelPath)
	}
	if cfg.SQLitePath != "" {
		fmt.Printf("  SQLite: %s\n", cfg.SQLitePath)
	}
	return 0
}
