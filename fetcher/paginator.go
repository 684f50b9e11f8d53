package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"btklist/internal/logging"
	"btklist/models"
)

// Result все записи, накопленные за проход по страницам
type Result struct {
	Records []models.RawCompany
	Total   int // последнее значение stats.total
	Pages   int // количество непустых страниц
}

// Paginator проходит страницы по порядку, пока API не вернет пустую страницу
type Paginator struct {
	fetcher    PageFetcher
	retryDelay time.Duration
	finalDelay time.Duration
	logger     *slog.Logger
}

// PaginatorConfig конфигурация обхода страниц
type PaginatorConfig struct {
	RetryDelay time.Duration // пауза перед повтором страницы
	FinalDelay time.Duration // пауза после последней страницы
	Logger     *slog.Logger
}

// NewPaginator создает обходчик страниц
func NewPaginator(fetcher PageFetcher, config PaginatorConfig) *Paginator {
	if config.RetryDelay <= 0 {
		config.RetryDelay = time.Millisecond
	}
	if config.Logger == nil {
		config.Logger = logging.Discard()
	}
	return &Paginator{
		fetcher:    fetcher,
		retryDelay: config.RetryDelay,
		finalDelay: config.FinalDelay,
		logger:     config.Logger,
	}
}

// FetchAll загружает все страницы начиная с первой.
// Страница, не полученная и после одного повтора, прерывает обход с ErrPageFailed.
// Если не получено ни одной записи, возвращается ErrEmptyResult.
func (p *Paginator) FetchAll(ctx context.Context) (*Result, error) {
	result := &Result{Records: []models.RawCompany{}}

	for number := 1; ; number++ {
		page, err := p.fetchWithRetry(ctx, number)
		if err != nil {
			return nil, err
		}

		result.Total = page.Total
		if len(page.Records) == 0 {
			break
		}
		result.Pages++
		result.Records = append(result.Records, page.Records...)
	}

	if err := sleep(ctx, p.finalDelay); err != nil {
		return nil, err
	}

	if len(result.Records) == 0 {
		return nil, ErrEmptyResult
	}
	return result, nil
}

// fetchWithRetry загружает страницу, повторяя запрос один раз при ErrNoData
func (p *Paginator) fetchWithRetry(ctx context.Context, number int) (*Page, error) {
	var (
		page    *Page
		attempt int
	)

	backoff := retry.WithMaxRetries(1, retry.NewConstant(p.retryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		var fetchErr error
		page, fetchErr = p.fetcher.FetchPage(ctx, number)
		if fetchErr != nil {
			if errors.Is(fetchErr, ErrNoData) {
				if attempt == 1 {
					logging.LogPageRetry(logging.FromContext(ctx, p.logger), number, fetchErr)
				}
				return retry.RetryableError(fetchErr)
			}
			return fetchErr
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: page %d: %w", ErrPageFailed, number, err)
	}
	if page == nil {
		return nil, fmt.Errorf("%w: page %d returned nil without error", ErrPageFailed, number)
	}
	return page, nil
}

// sleep ждет d или отмены контекста
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
