// Package events предоставляет интерфейсы для реализации Port & Adapter паттерна.
//
// Это Port (интерфейс) для подписки на события хода диалога Eve.
// Позволяет подключать любые UI (TUI, CLI) без изменения библиотечной логики.
//
// # Port & Adapter Pattern
//
//	Port — это интерфейс (Emitter, Subscriber), определённый в библиотеке.
//	Adapter — это реализация интерфейса для конкретного UI.
//
// # Basic Usage
//
//	emitter := events.NewChanEmitter(64)
//	router.SetEmitter(emitter)
//
//	sub := emitter.Subscribe()
//	for event := range sub.Events() {
//	    switch event.Type {
//	    case events.EventToolCall:
//	        ui.showToolCall(event.Data)
//	    case events.EventMessage:
//	        ui.showMessage(event.Data)
//	    }
//	}
//
// # Thread Safety
//
// Все реализации интерфейсов должны быть thread-safe.
package events

import (
	"context"
	"time"
)

// EventType представляет тип события одного хода диалога.
type EventType string

const (
	// EventRouting отправляется когда начался роутинг запроса.
	EventRouting EventType = "routing"

	// EventRoutingChunk отправляется для каждой порции текста роутера.
	EventRoutingChunk EventType = "routing_chunk"

	// EventToolCall отправляется когда из текста роутера извлечён вызов инструмента.
	EventToolCall EventType = "tool_call"

	// EventToolResult отправляется когда инструмент вернул результат.
	EventToolResult EventType = "tool_result"

	// EventReplyChunk отправляется для каждой порции текста респондера.
	EventReplyChunk EventType = "reply_chunk"

	// EventMessage отправляется когда готов финальный ответ хода.
	EventMessage EventType = "message"

	// EventError отправляется при ошибке хода.
	EventError EventType = "error"
)

// EventData — sealed interface для данных события.
//
// Только типы из пакета events могут реализовать этот интерфейс,
// что обеспечивает compile-time type safety.
type EventData interface {
	eventData()
}

// RoutingData содержит данные для EventRouting.
type RoutingData struct {
	Query string
}

func (RoutingData) eventData() {}

// RoutingChunkData содержит порцию текста роутера.
type RoutingChunkData struct {
	// Delta — инкрементальная порция
	Delta string

	// Accumulated — накопленный текст на данный момент
	Accumulated string
}

func (RoutingChunkData) eventData() {}

// ToolCallData содержит извлечённый вызов инструмента.
type ToolCallData struct {
	Tool  string
	Input string
}

func (ToolCallData) eventData() {}

// ToolResultData содержит конверт результата инструмента.
type ToolResultData struct {
	Tool     string
	Success  bool
	Data     string
	Duration time.Duration
}

func (ToolResultData) eventData() {}

// ReplyChunkData содержит порцию текста респондера.
type ReplyChunkData struct {
	Delta       string
	Accumulated string
}

func (ReplyChunkData) eventData() {}

// MessageData содержит финальный ответ хода.
type MessageData struct {
	Content string

	// Direct — ответ дан без вызова инструмента
	Direct bool
}

func (MessageData) eventData() {}

// ErrorData содержит данные для EventError.
type ErrorData struct {
	Err error
}

func (ErrorData) eventData() {}

// Event представляет событие одного хода диалога.
//
// Data содержит типизированные данные события (EventData).
// Для каждого EventType существует соответствующий тип данных:
//   - EventRouting: RoutingData (запрос пользователя)
//   - EventRoutingChunk: RoutingChunkData (порция текста роутера)
//   - EventToolCall: ToolCallData (имя инструмента и аргумент)
//   - EventToolResult: ToolResultData (конверт результата)
//   - EventReplyChunk: ReplyChunkData (порция текста респондера)
//   - EventMessage: MessageData (финальный ответ)
//   - EventError: ErrorData (ошибка)
type Event struct {
	Type      EventType
	Data      EventData
	Timestamp time.Time
}

// Emitter — это Port для отправки событий.
//
// Emitter инвертирует зависимость: библиотека (pkg/router) зависит
// от этого интерфейса, а не от конкретного UI.
type Emitter interface {
	// Emit отправляет событие.
	//
	// Если context отменён, операция должна прерваться.
	Emit(ctx context.Context, event Event)
}

// Subscriber позволяет читать события из канала.
//
// Rule 5: thread-safe операции.
type Subscriber interface {
	// Events возвращает read-only канал событий.
	//
	// Канал закрывается при вызове Emitter.Close().
	Events() <-chan Event

	// Close закрывает подписчика.
	Close()
}
