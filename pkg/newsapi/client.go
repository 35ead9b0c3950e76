// Package newsapi предоставляет клиент NewsAPI.org (endpoint everything).
//
// Тонкий SDK: HTTP запрос с rate limiting, типизированный ответ и сборка
// сводки по свежим статьям. Обёртка для LLM function calling живёт в
// pkg/tools/std.
package newsapi

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

// Client — клиент NewsAPI.
type Client struct {
	apiKey        string
	baseURL       string
	defaultTopic  string
	articlesLimit int
	httpClient    HTTPClient
	limiter       *rate.Limiter

	// now подменяется в тестах для детерминированного параметра from
	now func() time.Time
}

// NewFromConfig создает клиент из конфигурации.
//
// Поля с нулевыми значениями добираются через GetDefaults().
func NewFromConfig(cfg config.NewsConfig) (*Client, error) {
	cfg = cfg.GetDefaults()

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("news.api_key is required")
	}

	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid news.timeout format: %w", err)
	}

	// rate_limit в запросах/минуту → rate.Limit в запросах/секунду
	ratePerSec := float64(cfg.RateLimit) / 60.0

	return &Client{
		apiKey:        cfg.APIKey,
		baseURL:       cfg.BaseURL,
		defaultTopic:  cfg.DefaultTopic,
		articlesLimit: cfg.ArticlesLimit,
		httpClient:    &http.Client{Timeout: timeout},
		limiter:       rate.NewLimiter(rate.Limit(ratePerSec), cfg.BurstLimit),
		now:           time.Now,
	}, nil
}

// ArticlesLimit возвращает сколько статей включать в сводку.
func (c *Client) ArticlesLimit() int {
	return c.articlesLimit
}

// Everything запрашивает свежие статьи по теме, отсортированные по дате
// публикации. Выборка начинается со вчерашнего дня.
//
// Пустой topic заменяется темой по умолчанию из конфига.
func (c *Client) Everything(ctx context.Context, topic string) (*EverythingResponse, error) {
	if topic == "" {
		topic = c.defaultTopic
	}

	// 1. Ждем разрешения от лимитера
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	// 2. Собираем URL запроса
	u, err := url.Parse(c.baseURL + "/v2/everything")
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	params := url.Values{}
	params.Set("q", topic)
	params.Set("from", c.now().AddDate(0, 0, -1).Format("2006-01-02"))
	params.Set("sortBy", "publishedAt")
	params.Set("apiKey", c.apiKey)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	// 3. Выполняем запрос
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	// 4. Не-200: достаём message из тела и собираем полный текст ошибки
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("News API Error:\nTopic: '%s'\nStatus Code: %d\nMessage: %s",
			topic, resp.StatusCode, errorMessage(body))
	}

	// 5. Разбираем ответ
	var result EverythingResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}

	return &result, nil
}

// errorMessage достаёт message из тела ошибки NewsAPI.
// Если тело не JSON — возвращает его как есть.
func errorMessage(body []byte) string {
	var e apiError
	if err := json.Unmarshal(body, &e); err != nil {
		return string(body)
	}
	if e.Message == "" {
		return "No message provided"
	}
	return e.Message
}
