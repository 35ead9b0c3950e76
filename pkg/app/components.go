// Package app предоставляет переиспользуемые компоненты для инициализации
// и выполнения Eve в разных контекстах (CLI, TUI).
//
// Пакет следует правилам из dev_manifest.md:
//   - Работает через llm.StreamingProvider интерфейс (Правило 4)
//   - Использует tools.Registry (Правило 1, 3)
//   - Все настройки из YAML конфигурации (Правило 2)
//   - Все ошибки возвращаются, никаких panic (Правило 7)
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/ilkoid/eve-ai/pkg/config"
	"github.com/ilkoid/eve-ai/pkg/models"
	"github.com/ilkoid/eve-ai/pkg/newsapi"
	"github.com/ilkoid/eve-ai/pkg/prompt"
	"github.com/ilkoid/eve-ai/pkg/router"
	"github.com/ilkoid/eve-ai/pkg/tools"
	"github.com/ilkoid/eve-ai/pkg/tools/std"
	"github.com/ilkoid/eve-ai/pkg/utils"
	"github.com/ilkoid/eve-ai/pkg/weatherapi"
	"github.com/ilkoid/eve-ai/pkg/websearch"
)

// Components содержит все компоненты приложения для переиспользования.
//
// Одна и та же инициализация обслуживает CLI и TUI версии: оба entry
// point'а собирают Components и дальше работают только с Router.
type Components struct {
	Config  *config.AppConfig
	Models  *models.Registry
	Tools   *tools.Registry
	Prompts *prompt.Store
	Router  *router.Router
}

// ConfigPathFinder определяет стратегию поиска пути к config.yaml.
//
// По умолчанию используется DefaultConfigPathFinder, но можно
// реализовать свою стратегию для тестов или специальных случаев.
type ConfigPathFinder interface {
	FindConfigPath() string
}

// DefaultConfigPathFinder реализует стандартную стратегию поиска config.yaml.
//
// Порядок поиска:
// 1. Флаг -config (если указан)
// 2. Текущая директория (./config.yaml)
// 3. Директория бинарника
// 4. Родительская директория (для запуска из cmd/eve/)
type DefaultConfigPathFinder struct {
	// ConfigFlag - значение флага -config, если указан
	ConfigFlag string
}

// FindConfigPath находит путь к config.yaml.
func (f *DefaultConfigPathFinder) FindConfigPath() string {
	var cfgPath string

	// 1. Флаг имеет приоритет
	if f.ConfigFlag != "" {
		return resolveAbsPath(f.ConfigFlag)
	}

	// 2. Текущая директория
	cfgPath = "config.yaml"
	if _, err := os.Stat(cfgPath); err == nil {
		return resolveAbsPath(cfgPath)
	}

	// 3. Директория бинарника
	if execPath, err := os.Executable(); err == nil {
		binDir := filepath.Dir(execPath)
		cfgPath = filepath.Join(binDir, "config.yaml")
		if _, err := os.Stat(cfgPath); err == nil {
			return cfgPath
		}
	}

	// 4. Родительские директории (для запуска из cmd/eve/)
	cfgPath = filepath.Join("..", "..", "config.yaml")
	if _, err := os.Stat(cfgPath); err == nil {
		return resolveAbsPath(cfgPath)
	}
	cfgPath = filepath.Join("..", "config.yaml")
	if _, err := os.Stat(cfgPath); err == nil {
		return resolveAbsPath(cfgPath)
	}

	// Возвращаем дефолтный путь (даже если не существует)
	return resolveAbsPath("config.yaml")
}

// InitializeConfig инициализирует и загружает конфигурацию.
//
// Правило 2: все настройки в YAML с поддержкой ENV-переменных.
func InitializeConfig(finder ConfigPathFinder) (*config.AppConfig, string, error) {
	cfgPath := finder.FindConfigPath()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config from %s: %w", cfgPath, err)
	}

	return cfg, cfgPath, nil
}

// Initialize создаёт и инициализирует все компоненты приложения.
//
// Эта функция является переиспользуемой - она вызывается и из CLI,
// и из TUI версии без изменений. Вся логика инициализации
// инкапсулирована здесь.
//
// Правило 3: реестры собираются один раз при старте.
// Правило 6: entry points - initialization and orchestration only.
func Initialize(cfg *config.AppConfig) (*Components, error) {
	utils.Info("Initializing Eve")

	// 1. Реестр LLM моделей из конфигурации
	modelRegistry, err := models.NewRegistryFromConfig(cfg)
	if err != nil {
		utils.Error("Model registry creation failed", "error", err)
		return nil, fmt.Errorf("failed to create model registry: %w", err)
	}
	utils.Info("Model registry initialized", "models", modelRegistry.ListNames())

	// 2. Реестр инструментов
	toolRegistry := tools.NewRegistry()
	if err := SetupTools(toolRegistry, cfg); err != nil {
		utils.Error("Tools registration failed", "error", err)
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	// 3. Хранилище промптов ролей
	promptStore, err := prompt.NewStore(cfg.Prompts)
	if err != nil {
		utils.Error("Prompt store creation failed", "error", err)
		return nil, fmt.Errorf("failed to create prompt store: %w", err)
	}
	utils.Info("Prompt store initialized", "source", cfg.Prompts.GetDefaults().Source)

	// 4. Роутер хода диалога
	turnRouter, err := router.New(router.Config{
		Models:       modelRegistry,
		Tools:        toolRegistry,
		Prompts:      promptStore,
		Eve:          cfg.Eve,
		ModelsConfig: cfg.Models,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create router: %w", err)
	}

	return &Components{
		Config:  cfg,
		Models:  modelRegistry,
		Tools:   toolRegistry,
		Prompts: promptStore,
		Router:  turnRouter,
	}, nil
}

// Execute выполняет один ход диалога через роутер.
//
// Эта функция является переиспользуемой - она может быть вызвана
// из TUI версии для выполнения запросов с тем же кодом.
//
// Правило 4: работает только через llm.StreamingProvider интерфейс.
// Правило 8: контекст с timeout распространяется на все вызовы хода.
func Execute(c *Components, query string, timeout time.Duration, cb router.RouteCallbacks) (*router.TurnResult, error) {
	startTime := time.Now()
	utils.Info("Executing query", "query", query, "timeout", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	result, err := c.Router.Route(ctx, query, cb)
	if err != nil {
		utils.Error("Route execution failed", "error", err, "query", query)
		return nil, fmt.Errorf("route error: %w", err)
	}

	utils.Info("Query executed successfully",
		"direct", result.Direct,
		"reply_length", len(result.Reply),
		"duration_ms", time.Since(startTime).Milliseconds())

	return result, nil
}

// Close освобождает ресурсы компонентов.
func (c *Components) Close() error {
	if c.Prompts != nil {
		return c.Prompts.Close()
	}
	return nil
}

// SetupTools регистрирует инструменты в реестре.
//
// Правило 3: все инструменты регистрируются через Registry.Register().
// Правило 1: инструменты реализуют Tool интерфейс.
//
// Инструмент без API ключа пропускается с предупреждением: Eve продолжает
// работать с оставшимся набором, а на пропущенный вызов роутера ответит
// конвертом "unknown function called".
func SetupTools(registry *tools.Registry, cfg *config.AppConfig) error {
	var registered []string

	// Helper для регистрации с логированием и возвратом ошибки
	register := func(name string, tool tools.Tool) error {
		if err := registry.Register(tool); err != nil {
			return fmt.Errorf("failed to register tool '%s': %w", name, err)
		}
		registered = append(registered, name)
		return nil
	}

	// Погода (WeatherAPI)
	if cfg.Tools.Weather.APIKey != "" {
		client, err := weatherapi.NewFromConfig(cfg.Tools.Weather)
		if err != nil {
			return fmt.Errorf("failed to create weather client: %w", err)
		}
		if err := register("get_weather", std.NewWeatherTool(client)); err != nil {
			return err
		}
	} else {
		log.Println("Warning: weather API key not set - get_weather disabled")
		utils.Warn("Weather API key not set, get_weather disabled")
	}

	// Новости (NewsAPI)
	if cfg.Tools.News.APIKey != "" {
		client, err := newsapi.NewFromConfig(cfg.Tools.News)
		if err != nil {
			return fmt.Errorf("failed to create news client: %w", err)
		}
		if err := register("get_news", std.NewNewsTool(client)); err != nil {
			return err
		}
	} else {
		log.Println("Warning: news API key not set - get_news disabled")
		utils.Warn("News API key not set, get_news disabled")
	}

	// Поиск (Google Custom Search + Wikipedia)
	if cfg.Tools.Search.APIKey != "" && cfg.Tools.Search.CX != "" {
		client, err := websearch.NewFromConfig(cfg.Tools.Search)
		if err != nil {
			return fmt.Errorf("failed to create search client: %w", err)
		}
		if err := register("get_search", std.NewSearchTool(client)); err != nil {
			return err
		}
	} else {
		log.Println("Warning: search API key or cx not set - get_search disabled")
		utils.Warn("Search API key or cx not set, get_search disabled")
	}

	if len(registered) == 0 {
		log.Println("Warning: no tools registered - Eve will answer without tools")
		utils.Warn("No tools registered")
	}

	log.Printf("Tools registered (%d): %s", len(registered), registered)
	utils.Info("Tools registered", "count", len(registered), "tools", registered)
	return nil
}

// resolveAbsPath преобразует путь в абсолютный (если это не уже абсолютный путь).
func resolveAbsPath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
