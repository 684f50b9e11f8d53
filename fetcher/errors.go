package fetcher

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData страница не получена (сеть, статус, тело). Запрос можно повторить.
	ErrNoData = errors.New("no data")
	// ErrPageFailed страница не получена и после повтора
	ErrPageFailed = errors.New("page fetch failed after retry")
	// ErrEmptyResult ни одной записи не получено
	ErrEmptyResult = errors.New("no companies fetched")
)

// FetchError подробности неудачного запроса страницы
type FetchError struct {
	Page       int    `json:"page"`
	StatusCode int    `json:"status_code"` // 0, если ответа не было
	Message    string `json:"message"`
	Body       string `json:"body"` // сокращенное тело ответа для логов
	Err        error  `json:"-"`
}

// Error реализует интерфейс error
func (e *FetchError) Error() string {
	msg := fmt.Sprintf("page %d: %s", e.Page, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap позволяет проверять errors.Is(err, ErrNoData)
func (e *FetchError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrNoData, e.Err}
	}
	return []error{ErrNoData}
}
