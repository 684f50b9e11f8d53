package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"btklist/database"
	"btklist/fetcher"
	"btklist/internal/config"
	"btklist/internal/logging"
	"btklist/models"
	"btklist/normalization"
	"btklist/report"
)

// ErrEmptyResult ни одной записи не получено, артефакты не записываются
var ErrEmptyResult = fetcher.ErrEmptyResult

// Fetcher загружает все страницы списка
type Fetcher interface {
	FetchAll(ctx context.Context) (*fetcher.Result, error)
}

// Emitter записывает артефакты выгрузки
type Emitter interface {
	Emit(records []*models.CompanyRecord, total int) error
}

// SnapshotStore хранилище снимка
type SnapshotStore interface {
	ReplaceSnapshot(records []*models.CompanyRecord, run database.RunInfo) error
}

// Summary итоги запуска
type Summary struct {
	RunID      string        `json:"run_id"`
	Pages      int           `json:"pages"`
	Fetched    int           `json:"fetched"`
	Rejected   int           `json:"rejected"`
	Duplicates int           `json:"duplicates"`
	Kept       int           `json:"kept"`
	Total      int           `json:"total"` // по данным API
	Duration   time.Duration `json:"duration"`
}

// Options компоненты запуска
type Options struct {
	Fetcher    Fetcher
	Normalizer *normalization.RecordNormalizer
	Sorter     *normalization.CompanySorter
	Emitter    Emitter
	Store      SnapshotStore // необязательно
	Logger     *slog.Logger
}

// Runner выполняет выгрузку: загрузка, нормализация, дедупликация, запись
type Runner struct {
	fetcher    Fetcher
	normalizer *normalization.RecordNormalizer
	sorter     *normalization.CompanySorter
	emitter    Emitter
	store      SnapshotStore
	logger     *slog.Logger
}

// New создает Runner из готовых компонентов
func New(opts Options) *Runner {
	if opts.Normalizer == nil {
		opts.Normalizer = normalization.NewRecordNormalizer()
	}
	if opts.Sorter == nil {
		opts.Sorter = normalization.NewCompanySorter(normalization.DefaultCollationLocale)
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Runner{
		fetcher:    opts.Fetcher,
		normalizer: opts.Normalizer,
		sorter:     opts.Sorter,
		emitter:    opts.Emitter,
		store:      opts.Store,
		logger:     opts.Logger,
	}
}

// NewFromConfig собирает Runner по конфигурации. Артефакты пишутся в fs.
func NewFromConfig(cfg *config.Config, fs afero.Fs, store SnapshotStore, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.Discard()
	}

	client := fetcher.NewClient(fetcher.ClientConfig{
		BaseURL:      cfg.Endpoint,
		Language:     cfg.Language,
		Timeout:      cfg.HTTPTimeout,
		Delay:        cfg.FetchDelay,
		InsecureTLS:  cfg.InsecureTLS,
		MaxBodyBytes: cfg.MaxBodyBytes,
		Logger:       logger,
	})
	paginator := fetcher.NewPaginator(client, fetcher.PaginatorConfig{
		FinalDelay: cfg.FinalDelay,
		Logger:     logger,
	})
	emitter := report.NewEmitter(fs, report.EmitterConfig{
		SnapshotPath: cfg.SnapshotPath,
		ReportPath:   cfg.ReportPath,
		ExcelPath:    cfg.ExcelPath,
		SourceURL:    cfg.SourceURL,
	})

	return New(Options{
		Fetcher: paginator,
		Sorter:  normalization.NewCompanySorter(cfg.CollationLocale),
		Emitter: emitter,
		Store:   store,
		Logger:  logger,
	})
}

// Run выполняет один полный запуск. Шаги строго последовательны:
// все страницы загружаются до нормализации, запись начинается после сортировки.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	summary := &Summary{RunID: uuid.New().String()}
	logger := r.logger.With("run_id", summary.RunID)
	ctx = logging.WithLogger(ctx, logger)

	logger.Info("Run started")

	result, err := r.fetcher.FetchAll(ctx)
	if err != nil {
		logger.Error("Fetching failed", "error", err)
		return nil, fmt.Errorf("fetch companies: %w", err)
	}
	if result == nil || len(result.Records) == 0 {
		return nil, ErrEmptyResult
	}
	summary.Pages = result.Pages
	summary.Fetched = len(result.Records)
	summary.Total = result.Total

	normalized := r.normalizer.NormalizeAll(result.Records)
	dedup := r.sorter.DeduplicateAndSort(normalized)
	summary.Rejected = dedup.Rejected
	summary.Duplicates = dedup.Duplicates
	summary.Kept = len(dedup.Records)

	if err := r.emitter.Emit(dedup.Records, result.Total); err != nil {
		logger.Error("Writing artifacts failed", "error", err)
		return nil, fmt.Errorf("write artifacts: %w", err)
	}

	if r.store != nil {
		run := database.RunInfo{
			RunID:         summary.RunID,
			StartedAt:     start,
			FinishedAt:    time.Now(),
			UpstreamTotal: summary.Total,
			Pages:         summary.Pages,
			Fetched:       summary.Fetched,
			Rejected:      summary.Rejected,
			Duplicates:    summary.Duplicates,
			Kept:          summary.Kept,
		}
		if err := r.store.ReplaceSnapshot(dedup.Records, run); err != nil {
			logger.Error("Saving snapshot database failed", "error", err)
			return nil, fmt.Errorf("save snapshot database: %w", err)
		}
	}

	summary.Duration = time.Since(start)
	logging.LogRunComplete(logger, summary.Pages, summary.Fetched, summary.Kept, summary.Total, summary.Duration)
	return summary, nil
}
