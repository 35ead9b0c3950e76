// Тесты регистрации инструментов из конфигурации.
package app

import (
	"testing"

	"github.com/ilkoid/eve-ai/pkg/config"
	"github.com/ilkoid/eve-ai/pkg/tools"
)

// TestSetupTools_AllKeys проверяет что при заполненных ключах
// регистрируются все три инструмента.
func TestSetupTools_AllKeys(t *testing.T) {
	cfg := &config.AppConfig{
		Tools: config.ToolsConfig{
			Weather: config.WeatherConfig{APIKey: "wk"},
			News:    config.NewsConfig{APIKey: "nk"},
			Search:  config.SearchConfig{APIKey: "sk", CX: "cx-id"},
		},
	}

	registry := tools.NewRegistry()
	if err := SetupTools(registry, cfg); err != nil {
		t.Fatalf("SetupTools: %v", err)
	}

	for _, name := range []string{"get_weather", "get_news", "get_search"} {
		if !registry.Has(name) {
			t.Errorf("tool %q is not registered", name)
		}
	}
}

// TestSetupTools_MissingKeys проверяет что инструменты без ключей
// пропускаются без ошибки.
func TestSetupTools_MissingKeys(t *testing.T) {
	cfg := &config.AppConfig{
		Tools: config.ToolsConfig{
			News: config.NewsConfig{APIKey: "nk"},
			// Search без cx — тоже пропускается
			Search: config.SearchConfig{APIKey: "sk"},
		},
	}

	registry := tools.NewRegistry()
	if err := SetupTools(registry, cfg); err != nil {
		t.Fatalf("SetupTools: %v", err)
	}

	if got := registry.Names(); len(got) != 1 || got[0] != "get_news" {
		t.Errorf("registered tools = %v, want [get_news]", got)
	}
}
