// Package weatherapi предоставляет клиент WeatherAPI.com.
//
// Тонкий SDK: HTTP запрос с rate limiting, типизированный ответ и готовый
// текстовый отчёт. Обёртка для LLM function calling живёт в pkg/tools/std,
// здесь только работа с API.
package weatherapi

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

// Client — клиент WeatherAPI.
type Client struct {
	apiKey          string
	baseURL         string
	defaultLocation string
	httpClient      HTTPClient
	limiter         *rate.Limiter
}

// NewFromConfig создает клиент из конфигурации.
//
// Поля с нулевыми значениями добираются через GetDefaults().
func NewFromConfig(cfg config.WeatherConfig) (*Client, error) {
	cfg = cfg.GetDefaults()

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("weather.api_key is required")
	}

	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid weather.timeout format: %w", err)
	}

	// rate_limit в запросах/минуту → rate.Limit в запросах/секунду
	ratePerSec := float64(cfg.RateLimit) / 60.0

	return &Client{
		apiKey:          cfg.APIKey,
		baseURL:         cfg.BaseURL,
		defaultLocation: cfg.DefaultLocation,
		httpClient:      &http.Client{Timeout: timeout},
		limiter:         rate.NewLimiter(rate.Limit(ratePerSec), cfg.BurstLimit),
	}, nil
}

// Forecast запрашивает текущую погоду и прогноз на сегодня.
//
// Пустая location заменяется локацией по умолчанию из конфига.
// Гарантирует что у ответа есть хотя бы один день прогноза.
func (c *Client) Forecast(ctx context.Context, location string) (*ForecastResponse, error) {
	if location == "" {
		location = c.defaultLocation
	}

	// 1. Ждем разрешения от лимитера (блокирует горутину при превышении)
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	// 2. Собираем URL запроса
	u, err := url.Parse(c.baseURL + "/v1/forecast.json")
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("q", location)
	params.Set("aqi", "no")
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	// 3. Выполняем запрос
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	// 4. Не-200: достаём объект error из тела и отдаём его текстом
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Weather Module doesn't work with status code %d and content %v",
			resp.StatusCode, apiErrorContent(body))
	}

	// 5. Разбираем ответ
	var forecast ForecastResponse
	if err := json.Unmarshal(body, &forecast); err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}

	if len(forecast.Forecast.Forecastday) == 0 {
		return nil, fmt.Errorf("weather response has no forecast days")
	}

	return &forecast, nil
}

// apiErrorContent достаёт объект "error" из тела ответа WeatherAPI.
// Если тело не JSON или объекта нет — возвращает тело как есть.
func apiErrorContent(body []byte) any {
	var payload struct {
		Error map[string]any `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error == nil {
		return string(body)
	}
	return payload.Error
}
