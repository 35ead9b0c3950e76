// Tools Test Utility - CLI утилита для проверки инструментов Eve.
//
// Последовательно вызывает поиск, погоду и новости и выводит конверты результатов.
//
// Использование:
//   cd cmd/tools-test
//   go run main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	appcomponents "github.com/ilkoid/eve-ai/pkg/app"
	"github.com/ilkoid/eve-ai/pkg/tools"
	"github.com/ilkoid/eve-ai/pkg/utils"
)

// TestResult - результат выполнения инструмента
type TestResult struct {
	ToolName string        `json:"tool_name"`
	Input    string        `json:"input"`
	Result   string        `json:"result"`
	Duration time.Duration `json:"duration"`
	Success  bool          `json:"success"`
}

// TestSummary - итоговая статистика
type TestSummary struct {
	Total     int       `json:"total"`
	Success   int       `json:"success"`
	Failed    int       `json:"failed"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// probe - один проверочный вызов: инструмент и его вход
type probe struct {
	Tool  string
	Input string
}

// Проверочные запросы для каждого инструмента
var probes = []probe{
	{Tool: "get_search", Input: "elon musk"},
	{Tool: "get_weather", Input: "chandigarh"},
	{Tool: "get_news", Input: "terrorist"},
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Загружаем конфигурацию используя pkg/app
	// ToolsTestConfigPathFinder ищет config.yaml в cmd/tools-test/
	cfg, cfgPath, err := appcomponents.InitializeConfig(&ToolsTestConfigPathFinder{})
	if err != nil {
		return err
	}

	// 2. Инициализируем логгер
	if err := utils.InitLogger(cfg.Logging.Dir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to init logger: %v\n", err)
	}
	defer utils.Close()

	utils.Info("Tools Test Utility started", "config", cfgPath)

	// 3. Собираем реестр инструментов (без моделей: LLM здесь не нужен)
	registry := tools.NewRegistry()
	if err := appcomponents.SetupTools(registry, cfg); err != nil {
		utils.Error("Tools registration failed", "error", err)
		return err
	}

	utils.Info("Found tools", "count", len(registry.Names()))

	// 4. Выполняем инструменты последовательно
	results := make([]TestResult, 0)
	summary := TestSummary{
		StartTime: time.Now(),
	}

	ctx := context.Background()

	fmt.Println("╔════════════════════════════════════════════════════════════╗")
	fmt.Println("║        Tools Test Utility - Eve Tools Self-Check           ║")
	fmt.Println("╚════════════════════════════════════════════════════════════╝")
	fmt.Println()

	for _, p := range probes {
		if !registry.Has(p.Tool) {
			fmt.Printf("❌ %s: Tool not found in registry (missing API key?)\n\n", p.Tool)
			summary.Failed++
			summary.Total++
			continue
		}

		fmt.Printf("🔧 Testing: %s\n", p.Tool)
		fmt.Printf("   Input: %q\n", p.Input)

		start := time.Now()
		res := registry.Dispatch(ctx, tools.ToolCall{Tool: p.Tool, Input: p.Input}, p.Input)
		duration := time.Since(start)

		testResult := TestResult{
			ToolName: p.Tool,
			Input:    p.Input,
			Result:   res.Data,
			Duration: duration,
			Success:  res.Success,
		}

		if res.Success {
			summary.Success++
			fmt.Printf("   ✅ Success (%v)\n", duration)
		} else {
			summary.Failed++
			fmt.Printf("   ❌ Failed (%v)\n", duration)
		}
		fmt.Printf("   Response : %s\n", utils.Truncate(res.JSON(), 500))
		fmt.Println()

		results = append(results, testResult)
		summary.Total++
	}

	summary.EndTime = time.Now()

	// 5. Выводим итоговую статистику
	fmt.Println("═════════════════════════════════════════════════════════════")
	fmt.Println("                    SUMMARY")
	fmt.Println("═════════════════════════════════════════════════════════════")
	fmt.Printf("Total:     %d\n", summary.Total)
	fmt.Printf("Success:   %d\n", summary.Success)
	fmt.Printf("Failed:    %d\n", summary.Failed)
	fmt.Printf("Duration:  %v\n", summary.EndTime.Sub(summary.StartTime))
	fmt.Println("═════════════════════════════════════════════════════════════")

	// 6. Сохраняем результаты в лог
	if err := saveResults(cfg.Logging.Dir, results, summary); err != nil {
		utils.Error("Failed to save results", "error", err)
	}

	utils.Info("Test completed", "total", summary.Total, "success", summary.Success, "failed", summary.Failed)
	return nil
}

// ToolsTestConfigPathFinder ищет config.yaml в cmd/tools-test/
type ToolsTestConfigPathFinder struct{}

// FindConfigPath находит config.yaml в cmd/tools-test/
func (f *ToolsTestConfigPathFinder) FindConfigPath() string {
	// cmd/tools-test/config.yaml (приоритет для tools-test)
	cfgPath := "cmd/tools-test/config.yaml"
	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath
	}

	// Текущая директория (для запуска из cmd/tools-test/)
	cfgPath = "config.yaml"
	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath
	}

	// Директория бинарника (для автономного развертывания)
	if execPath, err := os.Executable(); err == nil {
		binDir := filepath.Dir(execPath)
		cfgPath = filepath.Join(binDir, "config.yaml")
		if _, err := os.Stat(cfgPath); err == nil {
			return cfgPath
		}
	}

	return "cmd/tools-test/config.yaml"
}

// saveResults сохраняет результаты в лог
func saveResults(logsDir string, results []TestResult, summary TestSummary) error {
	if logsDir == "" {
		logsDir = "logs"
	}
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return err
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("test_results_%s.json", timestamp)
	logFile := filepath.Join(logsDir, filename)

	data := map[string]interface{}{
		"summary": summary,
		"results": results,
	}

	formatted, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(logFile, formatted, 0644)
}
