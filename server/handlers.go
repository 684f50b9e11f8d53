package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"btklist/database"
	"btklist/models"
	"btklist/report"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 1000
)

// CompaniesResponse страница записей снимка
type CompaniesResponse struct {
	Items  []*models.CompanyRecord `json:"items"`
	Total  int                     `json:"total"`
	Limit  int                     `json:"limit"`
	Offset int                     `json:"offset"`
}

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// StatsResponse сведения о снимке
type StatsResponse struct {
	Records int               `json:"records"`
	LastRun *database.RunInfo `json:"last_run"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// handleListCompanies список поставщиков
// @Summary Список поставщиков
// @Description Возвращает записи снимка в порядке отчета
// @Tags companies
// @Produce json
// @Param q query string false "Подстрока в названии или адресе"
// @Param type query string false "Тип поставщика"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} CompaniesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /companies [get]
func (s *Server) handleListCompanies(c *gin.Context) {
	limit, err := queryInt(c, "limit", defaultPageLimit)
	if err != nil || limit < 1 {
		s.sendError(c, http.StatusBadRequest, "invalid limit")
		return
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		s.sendError(c, http.StatusBadRequest, "invalid offset")
		return
	}

	filter := database.CompanyFilter{
		Query:  strings.TrimSpace(c.Query("q")),
		Type:   strings.TrimSpace(c.Query("type")),
		Limit:  limit,
		Offset: offset,
	}
	records, total, err := s.store.ListCompanies(filter)
	if err != nil {
		s.logger.Error("Failed to list companies", "error", err, "request_id", requestID(c))
		s.sendError(c, http.StatusInternalServerError, "failed to list companies")
		return
	}

	c.JSON(http.StatusOK, CompaniesResponse{
		Items:  records,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// handleGetCompany возвращает все записи с данным id. Одному id могут
// соответствовать несколько записей с разными названиями.
// @Summary Записи поставщика по id
// @Tags companies
// @Produce json
// @Param id path int true "ID поставщика"
// @Success 200 {array} models.CompanyRecord
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /companies/{id} [get]
func (s *Server) handleGetCompany(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		s.sendError(c, http.StatusBadRequest, "invalid id")
		return
	}

	records, err := s.store.GetCompanies(id)
	if err != nil {
		s.logger.Error("Failed to get company", "error", err, "id", id, "request_id", requestID(c))
		s.sendError(c, http.StatusInternalServerError, "failed to get company")
		return
	}
	if len(records) == 0 {
		s.sendError(c, http.StatusNotFound, "company not found")
		return
	}

	c.JSON(http.StatusOK, records)
}

// @Summary Сведения о снимке и последнем запуске
// @Tags report
// @Produce json
// @Success 200 {object} StatsResponse
// @Router /stats [get]
func (s *Server) handleStats(c *gin.Context) {
	_, count, err := s.store.ListCompanies(database.CompanyFilter{Limit: 1})
	if err != nil {
		s.logger.Error("Failed to count companies", "error", err, "request_id", requestID(c))
		s.sendError(c, http.StatusInternalServerError, "failed to count companies")
		return
	}
	run, err := s.store.LastRun()
	if err != nil {
		s.logger.Error("Failed to get last run", "error", err, "request_id", requestID(c))
		s.sendError(c, http.StatusInternalServerError, "failed to get last run")
		return
	}

	c.JSON(http.StatusOK, StatsResponse{Records: count, LastRun: run})
}

// handleReport отдает табличный отчет по снимку в Markdown.
// Количество в шапке берется из последнего запуска, как и в файле отчета.
// @Summary Табличный отчет по снимку
// @Tags report
// @Produce text/markdown
// @Success 200 {string} string
// @Router /report [get]
func (s *Server) handleReport(c *gin.Context) {
	records, count, err := s.store.ListCompanies(database.CompanyFilter{})
	if err != nil {
		s.logger.Error("Failed to list companies", "error", err, "request_id", requestID(c))
		s.sendError(c, http.StatusInternalServerError, "failed to build report")
		return
	}
	run, err := s.store.LastRun()
	if err != nil {
		s.logger.Error("Failed to get last run", "error", err, "request_id", requestID(c))
		s.sendError(c, http.StatusInternalServerError, "failed to build report")
		return
	}

	total := count
	if run != nil {
		total = run.UpstreamTotal
	}

	var b strings.Builder
	b.WriteString(report.RenderHeader(total, s.config.SourceURL))
	for _, rec := range records {
		b.WriteString(report.RenderRow(rec))
	}

	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(b.String()))
}

// sendError отправляет JSON ошибку и логирует её
func (s *Server) sendError(c *gin.Context, statusCode int, message string) {
	s.logger.Warn("HTTP error",
		"error", message,
		"status_code", statusCode,
		"request_id", requestID(c),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)
	c.JSON(statusCode, ErrorResponse{Error: true, Message: message})
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
