// Инструмент новостей поверх NewsAPI.
package std

import (
	"context"

	"github.com/ilkoid/eve-ai/pkg/newsapi"
	"github.com/ilkoid/eve-ai/pkg/tools"
)

// NewsTool — сводка свежих новостей по теме.
type NewsTool struct {
	client *newsapi.Client
}

var _ tools.Tool = (*NewsTool)(nil)

// NewNewsTool создает инструмент новостей поверх клиента NewsAPI.
func NewNewsTool(client *newsapi.Client) *NewsTool {
	return &NewsTool{client: client}
}

// Definition возвращает определение инструмента для промпта роутера.
func (t *NewsTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "get_news",
		Description: "Fetches the latest news articles based on a specific topic using NewsAPI.",
	}
}

// Execute запрашивает новости. input — тема поиска.
func (t *NewsTool) Execute(ctx context.Context, input string) (string, error) {
	result, err := t.client.Everything(ctx, input)
	if err != nil {
		return "", err
	}
	return result.Digest(t.client.ArticlesLimit()), nil
}
