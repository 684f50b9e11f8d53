// @title BTK Yer Sağlayıcı Listesi API
// @version 1.0
// @description Read-only API над последним снимком списка поставщиков услуг BTK.

// @host localhost:9999
// @BasePath /api
// @schemes http

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"btklist/database"
	"btklist/internal/config"
	"btklist/internal/logging"
	"btklist/server"
)

func main() {
	os.Exit(run())
}

// run запускает сервер и возвращает код завершения
func run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("Не удалось загрузить конфигурацию: %v", err)
		return 1
	}
	if cfg.SQLitePath == "" {
		log.Printf("SQLITE_PATH не задан: серверу нужна БД снимка")
		return 1
	}
	logger := logging.New(cfg.LogLevel, os.Stderr)

	// GIN_MODE из окружения имеет приоритет
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewSnapshotDB(cfg.SQLitePath)
	if err != nil {
		log.Printf("Не удалось открыть БД снимка %s: %v", cfg.SQLitePath, err)
		return 1
	}
	defer db.Close()

	srv := server.NewServer(server.Config{
		Port:      cfg.Port,
		SourceURL: cfg.SourceURL,
	}, db, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Error("Server stopped", "error", err)
			return 1
		}
		return 0
	case sig := <-sigChan:
		logger.Info("Received signal", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", "error", err)
		return 1
	}
	return 0
}
