// Eve Chat — TUI поверх того же роутера, что и консольная Eve.
// Интерфейс построен на Bubble Tea: вьюпорт диалога, поле ввода, спиннер.
package main

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ilkoid/eve-ai/internal/ui"
	appcomponents "github.com/ilkoid/eve-ai/pkg/app"
	"github.com/ilkoid/eve-ai/pkg/config"
	"github.com/ilkoid/eve-ai/pkg/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Конфигурация
	cfg, cfgPath, err := appcomponents.InitializeConfig(&appcomponents.DefaultConfigPathFinder{})
	if err != nil {
		return err
	}

	// 2. Логгер: весь вывод в файл, терминал принадлежит TUI
	if err := utils.InitLogger(cfg.Logging.Dir); err != nil {
		log.Printf("Warning: failed to init logger: %v", err)
	}
	defer utils.Close()

	utils.Info("Eve Chat started", "config", cfgPath)
	logKeysInfo(cfg)

	// 3. Компоненты
	components, err := appcomponents.Initialize(cfg)
	if err != nil {
		utils.Error("Initialization failed", "error", err)
		return err
	}
	defer components.Close()

	// 4. TUI
	model := ui.InitialModel(components)
	defer model.Close()

	// Без AltScreen: так работает выделение текста мышью в терминале
	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		utils.Error("TUI crashed", "error", err)
		return fmt.Errorf("tui error: %w", err)
	}

	utils.Info("Eve Chat exited")
	return nil
}

// maskKey показывает первые 8 символов ключа для идентификации.
func maskKey(key string) string {
	if key == "" {
		return "NOT SET"
	}
	if len(key) <= 8 {
		return key + "..."
	}
	return key[:8] + "..."
}

// logKeysInfo логирует информацию о загруженных API ключах.
func logKeysInfo(cfg *config.AppConfig) {
	utils.Info("API keys status",
		"weather", maskKey(cfg.Tools.Weather.APIKey),
		"news", maskKey(cfg.Tools.News.APIKey),
		"search", maskKey(cfg.Tools.Search.APIKey))

	for name, modelDef := range cfg.Models.Definitions {
		utils.Info("Model key status", "model", name, "key", maskKey(modelDef.APIKey))
	}
}
