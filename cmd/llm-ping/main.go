// llm-ping — утилита для проверки доступности LLM провайдера.
//
// Использование:
//   go run cmd/llm-ping/main.go
//   или
//   go build -o llm-ping cmd/llm-ping/main.go && ./llm-ping
//
// Переменные окружения:
//   ZAI_API_KEY    - API ключ для Zai
//   OPENAI_API_KEY - API ключ для OpenAI
//
// Конфигурация:
//   Использует config.yaml из текущей директории
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilkoid/eve-ai/pkg/config"
	"github.com/ilkoid/eve-ai/pkg/llm"
	"github.com/ilkoid/eve-ai/pkg/models"
)

const pingTimeout = 15 * time.Second

func main() {
	// 1. Загружаем конфигурацию
	cfgPath := "config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config from %s: %v", cfgPath, err)
	}

	// 2. Создаем ModelRegistry
	modelRegistry, err := models.NewRegistryFromConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to create model registry: %v", err)
	}

	// 3. Собираем список моделей для проверки: роутер и респондер
	aliases := make([]string, 0, 2)
	if cfg.Models.DefaultRouter != "" {
		aliases = append(aliases, cfg.Models.DefaultRouter)
	}
	if cfg.Models.DefaultResponder != "" && cfg.Models.DefaultResponder != cfg.Models.DefaultRouter {
		aliases = append(aliases, cfg.Models.DefaultResponder)
	}
	if len(aliases) == 0 {
		fmt.Println("⚠️  No default_router model configured in config.yaml")
		fmt.Println("Testing first available model...")

		for _, name := range modelRegistry.ListNames() {
			aliases = append(aliases, name)
			break
		}
	}
	if len(aliases) == 0 {
		log.Fatal("No models defined in config.yaml")
	}

	// 4. Пингуем каждую модель коротким запросом
	failed := 0
	for _, alias := range aliases {
		fmt.Printf("🔍 Testing LLM Provider: %s\n\n", alias)
		if !pingModel(modelRegistry, alias) {
			failed++
		}
		fmt.Println()
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// pingModel делает минимальный Generate и выводит результат.
func pingModel(registry *models.Registry, alias string) bool {
	provider, modelDef, err := registry.Get(alias)
	if err != nil {
		fmt.Printf("❌ Status: UNAVAILABLE\n")
		fmt.Printf("   Error: %v\n", err)
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	start := time.Now()
	reply, err := provider.Generate(ctx, []llm.Message{
		{Role: llm.RoleUser, Content: "ping"},
	}, llm.WithMaxTokens(8))
	latency := time.Since(start)

	if err != nil {
		fmt.Printf("❌ Status: UNAVAILABLE\n")
		fmt.Printf("   Provider: %s\n", modelDef.Provider)
		fmt.Printf("   Model: %s\n", modelDef.ModelName)
		fmt.Printf("   Error: %v\n", err)
		fmt.Printf("   Latency: %dms\n", latency.Milliseconds())
		return false
	}

	fmt.Printf("✅ Status: AVAILABLE\n")
	fmt.Printf("   Provider: %s\n", modelDef.Provider)
	fmt.Printf("   Model: %s\n", modelDef.ModelName)
	fmt.Printf("   Latency: %dms\n", latency.Milliseconds())
	if reply.Content != "" {
		fmt.Printf("   Message: %s\n", reply.Content)
	}
	return true
}
