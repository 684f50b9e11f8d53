package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"

	"btklist/internal/logging"
	"btklist/models"
)

// Page одна страница списка
type Page struct {
	Number  int
	Records []models.RawCompany
	Total   int // общее количество записей по данным API
}

// PageFetcher загружает одну страницу списка
type PageFetcher interface {
	FetchPage(ctx context.Context, page int) (*Page, error)
}

// Client клиент API списка поставщиков услуг
type Client struct {
	baseURL      string
	language     string
	httpClient   *http.Client
	limiter      *rate.Limiter
	maxBodyBytes int64
	logger       *slog.Logger
}

// ClientConfig конфигурация клиента
type ClientConfig struct {
	BaseURL      string
	Language     string
	Timeout      time.Duration
	Delay        time.Duration // пауза между запросами, 0 - без паузы
	InsecureTLS  bool
	MaxBodyBytes int64
	HTTPClient   *http.Client // если задан, Timeout и InsecureTLS не используются
	Logger       *slog.Logger
}

// NewClient создает новый клиент
func NewClient(config ClientConfig) *Client {
	if config.Language == "" {
		config.Language = "tr"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.MaxBodyBytes == 0 {
		config.MaxBodyBytes = 32 << 20
	}
	if config.Logger == nil {
		config.Logger = logging.Discard()
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   config.Timeout,
			Transport: newTransport(config.InsecureTLS),
		}
	}

	limit := rate.Inf
	if config.Delay > 0 {
		limit = rate.Every(config.Delay)
	}

	return &Client{
		baseURL:      config.BaseURL,
		language:     config.Language,
		httpClient:   httpClient,
		limiter:      rate.NewLimiter(limit, 1),
		maxBodyBytes: config.MaxBodyBytes,
		logger:       config.Logger,
	}
}

// FetchPage загружает страницу с номером page (с 1).
// Пустой список записей означает конец данных. Любая неудача возвращается
// как *FetchError, совместимая с ErrNoData, и уже залогирована.
func (c *Client) FetchPage(ctx context.Context, page int) (*Page, error) {
	logger := logging.FromContext(ctx, c.logger)
	result, err := c.fetchPage(ctx, page)
	if err != nil {
		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			fetchErr = &FetchError{Page: page, Message: "request failed", Err: err}
		}
		logging.LogFetchFailure(logger, page, fetchErr.StatusCode, fetchErr.Error(), fetchErr.Body)
		return nil, fetchErr
	}

	logging.LogPageFetched(logger, page, len(result.Records), result.Total)
	return result, nil
}

func (c *Client) fetchPage(ctx context.Context, page int) (*Page, error) {
	// Пауза между запросами к серверу
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL(page), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range defaultHeaders {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Page: page, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	body, err := readBody(resp.Body, contentType, c.maxBodyBytes)
	if err != nil {
		return nil, &FetchError{Page: page, StatusCode: resp.StatusCode, Message: "failed to read body", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{
			Page:       page,
			StatusCode: resp.StatusCode,
			Message:    "unexpected status code",
			Body:       summarizeBody(contentType, body),
		}
	}

	records, total, err := decodeEnvelope(body)
	if err != nil {
		return nil, &FetchError{
			Page:       page,
			StatusCode: resp.StatusCode,
			Message:    "malformed envelope",
			Body:       summarizeBody(contentType, body),
			Err:        err,
		}
	}

	return &Page{Number: page, Records: records, Total: total}, nil
}

// pageURL формирует адрес страницы: <endpoint>?lang=tr&page=n
func (c *Client) pageURL(page int) string {
	params := url.Values{}
	params.Set("lang", c.language)
	params.Set("page", strconv.Itoa(page))

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Sprintf("%s?%s", c.baseURL, params.Encode())
	}
	q := u.Query()
	for key := range params {
		q.Set(key, params.Get(key))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// readBody читает тело с ограничением размера и перекодирует в UTF-8
// по charset из Content-Type
func readBody(body io.Reader, contentType string, limit int64) ([]byte, error) {
	reader, err := charset.NewReader(io.LimitReader(body, limit), contentType)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset: %w", err)
	}
	return io.ReadAll(reader)
}

// envelope конверт ответа; Data как указатель, чтобы отличить пустой список от отсутствующего
type envelope struct {
	Data  *[]models.RawCompany `json:"data"`
	Stats *models.Stats        `json:"stats"`
}

func decodeEnvelope(body []byte) ([]models.RawCompany, int, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, 0, fmt.Errorf("failed to decode response: %w", err)
	}
	if env.Data == nil {
		return nil, 0, fmt.Errorf("response has no data array")
	}

	total := 0
	if env.Stats != nil {
		total = env.Stats.Total
	}
	return *env.Data, total, nil
}
