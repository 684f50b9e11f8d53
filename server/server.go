package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"btklist/database"
	"btklist/docs"
	"btklist/internal/logging"
	"btklist/models"
)

// Store источник данных снимка
type Store interface {
	ListCompanies(filter database.CompanyFilter) ([]*models.CompanyRecord, int, error)
	GetCompanies(id int64) ([]*models.CompanyRecord, error)
	LastRun() (*database.RunInfo, error)
}

// Config параметры HTTP сервера
type Config struct {
	Port      string
	SourceURL string
}

// Server read-only HTTP API над последним снимком списка
type Server struct {
	config     Config
	store      Store
	logger     *slog.Logger
	router     *gin.Engine
	httpServer *http.Server
}

// NewServer создает сервер и регистрирует маршруты
func NewServer(config Config, store Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Server{
		config: config,
		store:  store,
		logger: logger,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *gin.Engine {
	router := gin.New()

	router.Use(requestIDMiddleware())
	router.Use(gzipMiddleware())
	router.Use(loggerMiddleware(s.logger))
	router.Use(gin.Recovery())

	router.GET("/health", s.handleHealth)
	s.registerSwagger(router)

	api := router.Group("/api")
	{
		api.GET("/companies", s.handleListCompanies)
		api.GET("/companies/:id", s.handleGetCompany)
		api.GET("/stats", s.handleStats)
		api.GET("/report", s.handleReport)
	}

	router.NoRoute(func(c *gin.Context) {
		s.sendError(c, http.StatusNotFound, "not found")
	})

	return router
}

// registerSwagger регистрирует Swagger UI и doc.json
func (s *Server) registerSwagger(router *gin.Engine) {
	docs.SwaggerInfo.BasePath = "/api"
	if s.config.Port != "" {
		docs.SwaggerInfo.Host = "localhost:" + s.config.Port
	}
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))
}

// ServeHTTP реализует http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start запускает HTTP сервер и блокируется до его остановки
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              ":" + s.config.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("Snapshot API listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("ошибка запуска сервера: %w", err)
	}
	return nil
}

// Shutdown останавливает HTTP сервер gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Initiating graceful shutdown")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка остановки сервера: %w", err)
	}
	s.logger.Info("Graceful shutdown completed")
	return nil
}
