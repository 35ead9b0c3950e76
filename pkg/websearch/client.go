// Package websearch предоставляет поиск через Google Custom Search
// со скрейпингом найденной страницы Википедии.
//
// Поисковый движок (cx) настроен на Википедию, к запросу дополнительно
// приписывается слово wikipedia. Из первого результата достаётся текст
// основного контента страницы. Обёртка для LLM function calling живёт
// в pkg/tools/std.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/ilkoid/eve-ai/pkg/config"
)

// HTTPClient интерфейс для выполнения HTTP запросов.
//
// Позволяет мокировать HTTP клиент в тестах.
// Стандартный *http.Client реализует этот интерфейс.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client — клиент Custom Search + скрейпер.
type Client struct {
	apiKey          string
	cx              string
	baseURL         string
	minParagraphLen int
	httpClient      HTTPClient
	limiter         *rate.Limiter
}

// NewFromConfig создает клиент из конфигурации.
//
// Поля с нулевыми значениями добираются через GetDefaults().
func NewFromConfig(cfg config.SearchConfig) (*Client, error) {
	cfg = cfg.GetDefaults()

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("search.api_key is required")
	}
	if cfg.CX == "" {
		return nil, fmt.Errorf("search.cx is required")
	}

	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid search.timeout format: %w", err)
	}

	// rate_limit в запросах/минуту → rate.Limit в запросах/секунду
	ratePerSec := float64(cfg.RateLimit) / 60.0

	return &Client{
		apiKey:          cfg.APIKey,
		cx:              cfg.CX,
		baseURL:         cfg.BaseURL,
		minParagraphLen: cfg.MinParagraphLen,
		httpClient:      &http.Client{Timeout: timeout},
		limiter:         rate.NewLimiter(rate.Limit(ratePerSec), cfg.BurstLimit),
	}, nil
}

// Search выполняет поиск по теме. К запросу приписывается wikipedia,
// чтобы первый результат вёл на статью Википедии.
//
// Гарантирует что в ответе есть хотя бы один результат.
func (c *Client) Search(ctx context.Context, topic string) (*SearchResponse, error) {
	// 1. Ждем разрешения от лимитера
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	// 2. Собираем URL запроса
	u, err := url.Parse(c.baseURL + "/customsearch/v1")
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("cx", c.cx)
	params.Set("q", topic+" wikipedia")
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	// 3. Выполняем запрос
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	// 4. Не-200: тело ответа целиком уходит в текст ошибки
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Error in Google search with status code : %d Message : %s",
			resp.StatusCode, string(body))
	}

	// 5. Разбираем ответ
	var result SearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}

	if len(result.Items) == 0 {
		return nil, fmt.Errorf("no search results for topic '%s'", topic)
	}

	return &result, nil
}

// FetchPage скачивает страницу по ссылке и возвращает её HTML.
func (c *Client) FetchPage(ctx context.Context, link string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("invalid page url: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("page request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read page body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page request returned status %d", resp.StatusCode)
	}

	return string(body), nil
}

// WikiSummary выполняет полный цикл: поиск → первый результат → скрейпинг
// основного текста страницы.
func (c *Client) WikiSummary(ctx context.Context, topic string) (string, error) {
	result, err := c.Search(ctx, topic)
	if err != nil {
		return "", err
	}

	// Первый результат считается лучшим, остальные игнорируются
	page, err := c.FetchPage(ctx, result.Items[0].FormattedURL)
	if err != nil {
		return "", err
	}

	return ExtractContent(page, c.minParagraphLen)
}
