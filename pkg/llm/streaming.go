// Package llm предоставляет типы и интерфейсы для работы с LLM провайдерами.
//
// Этот файл определяет абстракции для потоковой передачи (streaming) ответов от LLM.
package llm

import "context"

// StreamingProvider — интерфейс для LLM провайдеров с поддержкой стриминга.
//
// Отдельный интерфейс от Provider для обратной совместимости.
// Провайдеры могут реализовать оба интерфейса или только Provider.
//
// Eve стримит обе фазы диалога: ответ модели-роутера (чтобы пользователь
// видел решение по мере генерации) и финальный ответ респондера.
type StreamingProvider interface {
	// Provider — базовый интерфейс для синхронной генерации.
	Provider

	// GenerateStream выполняет запрос к API с потоковой передачей ответа.
	//
	// Параметры:
	//   - ctx: контекст для отмены операции
	//   - messages: история сообщений
	//   - callback: функция для обработки каждого чанка
	//   - opts: опциональные параметры генерации
	//
	// Возвращает финальное сообщение после завершения стриминга.
	//
	// Callback вызывается для каждой порции данных:
	//   - ChunkContent: очередной токен контента
	//   - ChunkError: ошибка стриминга
	//   - ChunkDone: завершение стриминга
	//
	// Callback вызывается последовательно из одной goroutine, в порядке
	// поступления токенов.
	GenerateStream(
		ctx context.Context,
		messages []Message,
		callback func(StreamChunk),
		opts ...GenerateOption,
	) (Message, error)
}

// StreamChunk представляет одну порцию данных из потокового ответа.
//
// Содержит как инкрементальные изменения (Delta), так и накопленное
// состояние (Content) — потребитель выбирает что удобнее.
type StreamChunk struct {
	// Type определяет тип чанка
	Type ChunkType

	// Content содержит накопленный текстовый контент на данный момент
	Content string

	// Delta — инкрементальные изменения (для вывода токенов в реальном времени)
	Delta string

	// Done — флаг завершения стриминга
	Done bool

	// Error — ошибка если произошла (только когда Type == ChunkError)
	Error error
}

// ChunkType определяет тип стримингового чанка.
type ChunkType string

const (
	// ChunkContent — обычный контент ответа.
	// Накапливается по мере поступления от LLM.
	ChunkContent ChunkType = "content"

	// ChunkError — ошибка стриминга.
	// Содержит ошибку в поле Error.
	ChunkError ChunkType = "error"

	// ChunkDone — завершение стриминга.
	// Отправляется когда все данные получены.
	ChunkDone ChunkType = "done"
)
