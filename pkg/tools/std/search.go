// Инструмент поиска поверх Google Custom Search.
package std

import (
	"context"

	"github.com/ilkoid/eve-ai/pkg/tools"
	"github.com/ilkoid/eve-ai/pkg/websearch"
)

// SearchTool — поиск в Google со скрейпингом найденной статьи Википедии.
type SearchTool struct {
	client *websearch.Client
}

var _ tools.Tool = (*SearchTool)(nil)

// NewSearchTool создает инструмент поиска поверх клиента Custom Search.
func NewSearchTool(client *websearch.Client) *SearchTool {
	return &SearchTool{client: client}
}

// Definition возвращает определение инструмента для промпта роутера.
// Текст description намеренно сохранён как есть, промпты на него завязаны.
func (t *SearchTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "get_search",
		Description: "Performs a Google search and scrapes Wikipedia content for the search topic. use when the user explcitly asks for google search",
	}
}

// Execute выполняет поиск. input — тема поиска.
func (t *SearchTool) Execute(ctx context.Context, input string) (string, error) {
	return t.client.WikiSummary(ctx, input)
}
