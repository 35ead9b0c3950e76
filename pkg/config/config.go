package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AppConfig — корневая структура конфигурации.
// Она зеркалит структуру config.yaml.
type AppConfig struct {
	Models  ModelsConfig  `yaml:"models"`
	Prompts PromptsConfig `yaml:"prompts"`
	Tools   ToolsConfig   `yaml:"tools"`
	Eve     EveConfig     `yaml:"eve"`
	Logging LoggingConfig `yaml:"logging"`
}

// ModelsConfig — настройки AI моделей.
//
// У Eve две роли: router (решает какой инструмент вызвать) и responder
// (формулирует финальный ответ). Обе могут указывать на одну модель.
type ModelsConfig struct {
	DefaultRouter    string              `yaml:"default_router"`    // Алиас модели-роутера
	DefaultResponder string              `yaml:"default_responder"` // Алиас модели-респондера
	Definitions      map[string]ModelDef `yaml:"definitions"`       // Словарь определений моделей
}

// ModelDef — параметры конкретной модели.
type ModelDef struct {
	Provider    string  `yaml:"provider"`    // "ollama", "openai", "zai", "deepseek"
	ModelName   string  `yaml:"model_name"`  // Реальное имя в API, поддерживает ${MODEL}
	APIKey      string  `yaml:"api_key"`     // Поддерживает ${VAR}
	BaseURL     string  `yaml:"base_url"`    // Для OpenAI-совместимых endpoint'ов (Ollama и т.д.)
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// PromptsConfig — откуда и какие промпты загружать.
type PromptsConfig struct {
	Source    string `yaml:"source"`    // "file" (default) или "sqlite"
	Dir       string `yaml:"dir"`       // Директория YAML промптов (source: file)
	DBPath    string `yaml:"db_path"`   // Путь к SQLite базе (source: sqlite)
	Router    string `yaml:"router"`    // ID промпта роутера
	Responder string `yaml:"responder"` // ID промпта респондера
}

// GetDefaults возвращает дефолтные значения для незаполненных полей.
func (c *PromptsConfig) GetDefaults() PromptsConfig {
	result := *c

	if result.Source == "" {
		result.Source = "file"
	}
	if result.Dir == "" {
		result.Dir = "prompts"
	}
	if result.Router == "" {
		result.Router = "router"
	}
	if result.Responder == "" {
		result.Responder = "responder"
	}

	return result
}

// ToolsConfig — настройки внешних инструментов.
type ToolsConfig struct {
	Weather WeatherConfig `yaml:"weather"`
	News    NewsConfig    `yaml:"news"`
	Search  SearchConfig  `yaml:"search"`
}

// WeatherConfig — настройки WeatherAPI.
type WeatherConfig struct {
	APIKey          string `yaml:"api_key"`          // Поддерживает ${WEATHER_API_KEY}
	BaseURL         string `yaml:"base_url"`         // Базовый URL WeatherAPI
	RateLimit       int    `yaml:"rate_limit"`       // Запросов в минуту
	BurstLimit      int    `yaml:"burst_limit"`      // Burst для rate limiter
	Timeout         string `yaml:"timeout"`          // Timeout HTTP запросов ("30s")
	DefaultLocation string `yaml:"default_location"` // Локация при пустом вводе
}

// GetDefaults возвращает дефолтные значения для незаполненных полей.
func (c *WeatherConfig) GetDefaults() WeatherConfig {
	result := *c

	if result.BaseURL == "" {
		result.BaseURL = "http://api.weatherapi.com"
	}
	if result.RateLimit == 0 {
		result.RateLimit = 60
	}
	if result.BurstLimit == 0 {
		result.BurstLimit = 3
	}
	if result.Timeout == "" {
		result.Timeout = "30s"
	}
	if result.DefaultLocation == "" {
		result.DefaultLocation = "india"
	}

	return result
}

// NewsConfig — настройки NewsAPI.
type NewsConfig struct {
	APIKey        string `yaml:"api_key"`        // Поддерживает ${NEWS_API_KEY}
	BaseURL       string `yaml:"base_url"`       // Базовый URL NewsAPI
	RateLimit     int    `yaml:"rate_limit"`     // Запросов в минуту
	BurstLimit    int    `yaml:"burst_limit"`    // Burst для rate limiter
	Timeout       string `yaml:"timeout"`        // Timeout HTTP запросов
	DefaultTopic  string `yaml:"default_topic"`  // Тема при пустом вводе
	ArticlesLimit int    `yaml:"articles_limit"` // Сколько статей форматировать
}

// GetDefaults возвращает дефолтные значения для незаполненных полей.
func (c *NewsConfig) GetDefaults() NewsConfig {
	result := *c

	if result.BaseURL == "" {
		result.BaseURL = "https://newsapi.org"
	}
	if result.RateLimit == 0 {
		result.RateLimit = 60
	}
	if result.BurstLimit == 0 {
		result.BurstLimit = 3
	}
	if result.Timeout == "" {
		result.Timeout = "30s"
	}
	if result.DefaultTopic == "" {
		result.DefaultTopic = "india"
	}
	if result.ArticlesLimit == 0 {
		result.ArticlesLimit = 10
	}

	return result
}

// SearchConfig — настройки Google Custom Search + скрейпинга Wikipedia.
type SearchConfig struct {
	APIKey          string `yaml:"api_key"`           // Поддерживает ${SEARCH_API_KEY}
	CX              string `yaml:"cx"`                // Custom Search Engine ID, ${SEARCH_CSX_ID}
	BaseURL         string `yaml:"base_url"`          // Базовый URL Custom Search API
	RateLimit       int    `yaml:"rate_limit"`        // Запросов в минуту
	BurstLimit      int    `yaml:"burst_limit"`       // Burst для rate limiter
	Timeout         string `yaml:"timeout"`           // Timeout HTTP запросов
	MinParagraphLen int    `yaml:"min_paragraph_len"` // Минимальная длина абзаца при скрейпинге
}

// GetDefaults возвращает дефолтные значения для незаполненных полей.
func (c *SearchConfig) GetDefaults() SearchConfig {
	result := *c

	if result.BaseURL == "" {
		result.BaseURL = "https://www.googleapis.com"
	}
	if result.RateLimit == 0 {
		result.RateLimit = 60
	}
	if result.BurstLimit == 0 {
		result.BurstLimit = 3
	}
	if result.Timeout == "" {
		result.Timeout = "30s"
	}
	if result.MinParagraphLen == 0 {
		result.MinParagraphLen = 50
	}

	return result
}

// EveConfig — поведение диалогового цикла.
type EveConfig struct {
	DataPromptLimit  int `yaml:"data_prompt_limit"`  // Порог включения данных в промпт респондера
	DataDisplayLimit int `yaml:"data_display_limit"` // Сколько рун данных показывать после ответа
}

// GetDefaults возвращает дефолтные значения для незаполненных полей.
func (c *EveConfig) GetDefaults() EveConfig {
	result := *c

	if result.DataPromptLimit == 0 {
		result.DataPromptLimit = 300
	}
	if result.DataDisplayLimit == 0 {
		result.DataDisplayLimit = 1000
	}

	return result
}

// LoggingConfig — настройки файлового логгера.
type LoggingConfig struct {
	Dir string `yaml:"dir"` // Директория лог-файлов, пустая = текущая
}

// Load читает YAML файл, подставляет ENV переменные и возвращает готовую структуру.
func Load(path string) (*AppConfig, error) {
	// 1. Проверяем существование файла
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found at: %s", path)
	}

	// 2. Читаем файл целиком
	rawBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// 3. Подставляем переменные окружения.
	// os.ExpandEnv заменяет ${VAR} или $VAR на значение из системы.
	contentWithEnv := os.ExpandEnv(string(rawBytes))

	// 4. Парсим YAML в структуру
	var cfg AppConfig
	if err := yaml.Unmarshal([]byte(contentWithEnv), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	// 5. Валидируем критические настройки
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// validate проверяет обязательные поля.
func (c *AppConfig) validate() error {
	if len(c.Models.Definitions) == 0 {
		return fmt.Errorf("models.definitions is required: define at least one model")
	}
	if c.Models.DefaultRouter != "" {
		if _, ok := c.Models.Definitions[c.Models.DefaultRouter]; !ok {
			return fmt.Errorf("default_router model '%s' is not defined in definitions", c.Models.DefaultRouter)
		}
	}
	if c.Models.DefaultResponder != "" {
		if _, ok := c.Models.Definitions[c.Models.DefaultResponder]; !ok {
			return fmt.Errorf("default_responder model '%s' is not defined in definitions", c.Models.DefaultResponder)
		}
	}
	switch c.Prompts.Source {
	case "", "file", "sqlite":
	default:
		return fmt.Errorf("prompts.source must be 'file' or 'sqlite', got '%s'", c.Prompts.Source)
	}
	if c.Prompts.Source == "sqlite" && c.Prompts.DBPath == "" {
		return fmt.Errorf("prompts.db_path is required when prompts.source is 'sqlite'")
	}
	return nil
}

// Helper методы для удобства доступа (Syntactic sugar)

// GetRouterModel возвращает конфигурацию модели-роутера или модели по имени.
func (c *AppConfig) GetRouterModel(name string) (ModelDef, bool) {
	if name == "" {
		name = c.Models.DefaultRouter
	}
	m, ok := c.Models.Definitions[name]
	return m, ok
}

// GetResponderModel возвращает конфигурацию модели-респондера или модели по имени.
func (c *AppConfig) GetResponderModel(name string) (ModelDef, bool) {
	if name == "" {
		name = c.Models.DefaultResponder
	}
	m, ok := c.Models.Definitions[name]
	return m, ok
}
