// Тесты определений стандартных инструментов.
package std

import (
	"testing"

	"github.com/ilkoid/eve-ai/pkg/tools"
)

// TestDefinitions проверяет имена инструментов: роутер и промпты
// завязаны на них буквально.
func TestDefinitions(t *testing.T) {
	defs := []tools.ToolDefinition{
		(&WeatherTool{}).Definition(),
		(&NewsTool{}).Definition(),
		(&SearchTool{}).Definition(),
	}

	wantNames := []string{"get_weather", "get_news", "get_search"}
	for i, def := range defs {
		if def.Name != wantNames[i] {
			t.Errorf("Expected name %q, got %q", wantNames[i], def.Name)
		}
		if def.Description == "" {
			t.Errorf("Tool %s has empty description", def.Name)
		}
	}
}

// TestDefinitions_RegistryAccepts проверяет что все инструменты проходят
// валидацию при регистрации.
func TestDefinitions_RegistryAccepts(t *testing.T) {
	registry := tools.NewRegistry()

	for _, tool := range []tools.Tool{
		&WeatherTool{},
		&NewsTool{},
		&SearchTool{},
	} {
		if err := registry.Register(tool); err != nil {
			t.Errorf("Register(%s) failed: %v", tool.Definition().Name, err)
		}
	}

	if len(registry.Names()) != 3 {
		t.Errorf("Expected 3 registered tools, got %d", len(registry.Names()))
	}
}
