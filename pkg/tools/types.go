// Интерфейс Tool, конверт результата и структуры определений.

package tools

import (
	"context"
	"encoding/json"
)

// ToolDefinition описывает инструмент для модели-роутера.
//
// Description попадает в системный промпт роутера, чтобы модель знала
// когда какой инструмент вызывать. Ядро диспетчеризации его не читает.
type ToolDefinition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Tool — контракт, который должен реализовать любой инструмент.
type Tool interface {
	// Definition возвращает описание инструмента.
	Definition() ToolDefinition

	// Execute выполняет логику инструмента.
	// input — единственный текстовый аргумент (локация, тема поиска и т.д.).
	// Возвращает готовый для пользователя текст или ошибку.
	Execute(ctx context.Context, input string) (string, error)
}

// ToolCall — разобранный из текста модели запрос вызова инструмента.
//
// Живёт только между извлечением и диспетчеризацией.
type ToolCall struct {
	Tool  string `json:"tool"`
	Input string `json:"input"`
}

// Result — единый конверт результата любого вызова инструмента.
//
// Success=false означает что Data содержит описание ошибки. Других форм
// ошибок у вызова инструмента нет: и сбой самого инструмента, и запрос
// незарегистрированного имени дают этот же конверт.
type Result struct {
	Success bool   `json:"success"`
	Data    string `json:"data"`
}

// NewResult создаёт конверт результата.
func NewResult(success bool, data string) Result {
	return Result{Success: success, Data: data}
}

// JSON сериализует конверт в строку для логов и отладочного вывода.
func (r Result) JSON() string {
	b, err := json.Marshal(r)
	if err != nil {
		// Структура из bool и string не может не сериализоваться
		return `{"success":false,"data":"marshal error"}`
	}
	return string(b)
}
