// Package std предоставляет стандартные инструменты Eve.
//
// Каждый инструмент — тонкая обёртка над SDK клиентом: принимает один
// текстовый аргумент, возвращает готовый текст. Обработку ошибок и паник
// берёт на себя обёртка Safe при регистрации (Правило 1 манифеста).
package std

import (
	"context"

	"github.com/ilkoid/eve-ai/pkg/tools"
	"github.com/ilkoid/eve-ai/pkg/weatherapi"
)

// WeatherTool — текущая погода и прогноз на сегодня для локации.
type WeatherTool struct {
	client *weatherapi.Client
}

var _ tools.Tool = (*WeatherTool)(nil)

// NewWeatherTool создает инструмент погоды поверх клиента WeatherAPI.
func NewWeatherTool(client *weatherapi.Client) *WeatherTool {
	return &WeatherTool{client: client}
}

// Definition возвращает определение инструмента для промпта роутера.
func (t *WeatherTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "get_weather",
		Description: "Fetches current weather and forecast for a given location using WeatherAPI.",
	}
}

// Execute запрашивает погоду. input — название локации.
func (t *WeatherTool) Execute(ctx context.Context, input string) (string, error) {
	forecast, err := t.client.Forecast(ctx, input)
	if err != nil {
		return "", err
	}
	return forecast.Report(), nil
}
