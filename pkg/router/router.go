// Package router реализует цикл одного хода Eve: роутинг запроса в
// инструмент, диспетчеризацию и генерацию финального ответа.
//
// Ход состоит из пяти шагов:
//  1. модель-роутер получает системный промпт со списком инструментов
//     и текст пользователя;
//  2. из её ответа извлекается JSON вызов инструмента (ExtractToolCall);
//  3. вызов уходит в tools.Registry.Dispatch, исход — всегда конверт Result;
//  4. модель-респондер формулирует финальный ответ по конверту;
//  5. усечённые данные инструмента возвращаются для показа пользователю.
//
// Если вызова в тексте роутера нет, его ответ отдаётся пользователю как
// есть — ход заканчивается на шаге 2.
//
// Соблюдение правил из dev_manifest.md:
//   - Работает только через llm.StreamingProvider (Правило 4)
//   - Инструменты только через tools.Registry (Правило 1, 3)
//   - Thread-safe через sync.Mutex (Правило 5)
//   - Никаких panic — все ошибки возвращаются (Правило 7)
package router

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/ilkoid/eve-ai/pkg/config"
	"github.com/ilkoid/eve-ai/pkg/events"
	"github.com/ilkoid/eve-ai/pkg/llm"
	"github.com/ilkoid/eve-ai/pkg/models"
	"github.com/ilkoid/eve-ai/pkg/prompt"
	"github.com/ilkoid/eve-ai/pkg/tools"
	"github.com/ilkoid/eve-ai/pkg/utils"
)

// tooLongNotice подставляется в промпт респондера вместо данных,
// не влезающих в лимит. Текст исторический, промпты на него завязаны.
const tooLongNotice = "Data is too long just say heres some additional info"

// Router — оркестратор одного хода диалога.
//
// Thread-safe через sync.Mutex: одновременные вызовы Route выполняются
// последовательно.
type Router struct {
	models  *models.Registry
	tools   *tools.Registry
	prompts *prompt.Store

	eveCfg    config.EveConfig
	modelsCfg config.ModelsConfig

	emitter events.Emitter

	// mu защищает одновременные вызовы Route
	mu sync.Mutex
}

// Config конфигурация для создания Router.
type Config struct {
	// Models — реестр LLM провайдеров (обязательный)
	Models *models.Registry

	// Tools — реестр инструментов (обязательный)
	Tools *tools.Registry

	// Prompts — хранилище промптов ролей (обязательный)
	Prompts *prompt.Store

	// Eve — лимиты данных хода
	Eve config.EveConfig

	// ModelsConfig — дефолтные алиасы моделей ролей
	ModelsConfig config.ModelsConfig
}

// New создаёт новый Router с заданной конфигурацией.
func New(cfg Config) (*Router, error) {
	// Валидация обязательных полей
	if cfg.Models == nil {
		return nil, fmt.Errorf("cfg.Models is required")
	}
	if cfg.Tools == nil {
		return nil, fmt.Errorf("cfg.Tools is required")
	}
	if cfg.Prompts == nil {
		return nil, fmt.Errorf("cfg.Prompts is required")
	}

	return &Router{
		models:    cfg.Models,
		tools:     cfg.Tools,
		prompts:   cfg.Prompts,
		eveCfg:    cfg.Eve.GetDefaults(),
		modelsCfg: cfg.ModelsConfig,
	}, nil
}

// SetEmitter подключает канал событий хода. nil отключает события.
func (r *Router) SetEmitter(emitter events.Emitter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emitter = emitter
}

// TurnResult — итог одного хода диалога.
type TurnResult struct {
	// RoutingText — полный текст модели-роутера
	RoutingText string

	// ToolCall — извлечённый вызов, nil если вызова не было
	ToolCall *tools.ToolCall

	// ToolResult — конверт результата, nil если вызова не было
	ToolResult *tools.Result

	// Reply — финальный ответ пользователю
	Reply string

	// Direct — ответ дан без инструмента (Reply совпадает с RoutingText)
	Direct bool

	// DisplayData — усечённые данные инструмента для показа после ответа
	DisplayData string
}

// RouteCallbacks — наблюдатели хода для потокового вывода.
// Любое поле может быть nil.
type RouteCallbacks struct {
	// OnRoutingToken вызывается для каждой порции текста роутера
	OnRoutingToken func(delta string)

	// OnToolCall вызывается после извлечения вызова инструмента
	OnToolCall func(call tools.ToolCall)

	// OnToolResult вызывается после диспетчеризации
	OnToolResult func(result tools.Result)

	// OnReplyToken вызывается для каждой порции текста респондера
	OnReplyToken func(delta string)
}

// Route выполняет один ход диалога для пользовательского запроса.
//
// Callbacks вызываются последовательно из горутины Route.
// Rule 7: все ошибки возвращаются, нет panic.
func (r *Router) Route(ctx context.Context, userText string, cb RouteCallbacks) (*TurnResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	utils.Info("=== Route turn started ===", "query", userText)
	r.emit(ctx, events.EventRouting, events.RoutingData{Query: userText})

	// 1. Роутинг: модель решает нужен ли инструмент
	routingText, err := r.generateRouting(ctx, userText, cb.OnRoutingToken)
	if err != nil {
		r.emit(ctx, events.EventError, events.ErrorData{Err: err})
		return nil, fmt.Errorf("routing call failed: %w", err)
	}

	// 2. Извлекаем вызов инструмента
	call, found := ExtractToolCall(routingText)
	if !found {
		// Вызова нет — текст роутера и есть ответ
		utils.Info("No tool call in routing text, replying directly")
		r.emit(ctx, events.EventMessage, events.MessageData{Content: routingText, Direct: true})
		return &TurnResult{
			RoutingText: routingText,
			Reply:       routingText,
			Direct:      true,
		}, nil
	}

	utils.Info("Tool call extracted", "tool", call.Tool, "input", call.Input)
	r.emit(ctx, events.EventToolCall, events.ToolCallData{Tool: call.Tool, Input: call.Input})
	if cb.OnToolCall != nil {
		cb.OnToolCall(call)
	}

	// 3. Диспетчеризация. Fallback аргумент — исходный текст пользователя.
	started := time.Now()
	result := r.tools.Dispatch(ctx, call, userText)
	duration := time.Since(started)

	utils.Info("Tool finished", "tool", call.Tool, "success", result.Success, "duration_ms", duration.Milliseconds())
	r.emit(ctx, events.EventToolResult, events.ToolResultData{
		Tool:     call.Tool,
		Success:  result.Success,
		Data:     result.Data,
		Duration: duration,
	})
	if cb.OnToolResult != nil {
		cb.OnToolResult(result)
	}

	// 4. Респондер формулирует финальный ответ по конверту
	reply, err := r.generateReply(ctx, userText, result, cb.OnReplyToken)
	if err != nil {
		r.emit(ctx, events.EventError, events.ErrorData{Err: err})
		return nil, fmt.Errorf("responder call failed: %w", err)
	}

	r.emit(ctx, events.EventMessage, events.MessageData{Content: reply})

	// 5. Данные инструмента для показа усекаются до лимита
	return &TurnResult{
		RoutingText: routingText,
		ToolCall:    &call,
		ToolResult:  &result,
		Reply:       reply,
		DisplayData: utils.Truncate(result.Data, r.eveCfg.DataDisplayLimit),
	}, nil
}

// generateRouting выполняет вызов модели-роутера.
func (r *Router) generateRouting(ctx context.Context, userText string, onToken func(string)) (string, error) {
	pf, err := r.prompts.Router()
	if err != nil {
		return "", fmt.Errorf("load router prompt: %w", err)
	}

	// Список инструментов подставляется в {{.Tools}}
	rendered, err := pf.RenderMessages(map[string]string{
		"Tools": r.tools.Describe(),
	})
	if err != nil {
		return "", fmt.Errorf("render router prompt: %w", err)
	}

	messages := append(toLLMMessages(rendered), llm.Message{
		Role:    llm.RoleUser,
		Content: userText,
	})

	var acc strings.Builder
	return r.generate(ctx, pf.Config, r.modelsCfg.DefaultRouter, messages, func(delta string) {
		acc.WriteString(delta)
		r.emit(ctx, events.EventRoutingChunk, events.RoutingChunkData{Delta: delta, Accumulated: acc.String()})
		if onToken != nil {
			onToken(delta)
		}
	})
}

// generateReply выполняет вызов модели-респондера.
//
// Данные длиннее лимита в промпт не попадают: вместо них подставляется
// tooLongNotice, полные данные пользователь видит отдельным блоком.
func (r *Router) generateReply(ctx context.Context, userText string, result tools.Result, onToken func(string)) (string, error) {
	pf, err := r.prompts.Responder()
	if err != nil {
		return "", fmt.Errorf("load responder prompt: %w", err)
	}

	rendered, err := pf.RenderMessages(nil)
	if err != nil {
		return "", fmt.Errorf("render responder prompt: %w", err)
	}

	promptData := result.Data
	if utf8.RuneCountInString(promptData) >= r.eveCfg.DataPromptLimit {
		promptData = tooLongNotice
	}

	messages := append(toLLMMessages(rendered), llm.Message{
		Role: llm.RoleUser,
		Content: fmt.Sprintf("User Input :-\n%s\nTool Response :-\n%t Data :- %s",
			userText, result.Success, promptData),
	})

	var acc strings.Builder
	return r.generate(ctx, pf.Config, r.modelsCfg.DefaultResponder, messages, func(delta string) {
		acc.WriteString(delta)
		r.emit(ctx, events.EventReplyChunk, events.ReplyChunkData{Delta: delta, Accumulated: acc.String()})
		if onToken != nil {
			onToken(delta)
		}
	})
}

// generate выбирает модель роли и стримит генерацию.
func (r *Router) generate(ctx context.Context, pc prompt.PromptConfig, defaultModel string, messages []llm.Message, onToken func(string)) (string, error) {
	provider, _, modelName, err := r.models.GetWithFallback(pc.Model, defaultModel)
	if err != nil {
		return "", err
	}

	utils.Debug("Generating", "model", modelName, "messages", len(messages))

	msg, err := provider.GenerateStream(ctx, messages, func(chunk llm.StreamChunk) {
		if chunk.Type == llm.ChunkContent && onToken != nil && chunk.Delta != "" {
			onToken(chunk.Delta)
		}
	}, generateOpts(pc)...)
	if err != nil {
		return "", err
	}

	return msg.Content, nil
}

// generateOpts собирает опции генерации из настроек промпта.
func generateOpts(pc prompt.PromptConfig) []llm.GenerateOption {
	var opts []llm.GenerateOption
	if pc.Temperature > 0 {
		opts = append(opts, llm.WithTemperature(pc.Temperature))
	}
	if pc.MaxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(pc.MaxTokens))
	}
	return opts
}

// toLLMMessages конвертирует сообщения промпта в формат провайдера.
func toLLMMessages(msgs []prompt.Message) []llm.Message {
	converted := make([]llm.Message, len(msgs))
	for i, msg := range msgs {
		converted[i] = llm.Message{
			Role:    llm.Role(msg.Role),
			Content: msg.Content,
		}
	}
	return converted
}

// emit отправляет событие если emitter подключен.
func (r *Router) emit(ctx context.Context, eventType events.EventType, data events.EventData) {
	if r.emitter == nil {
		return
	}
	r.emitter.Emit(ctx, events.Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
	})
}
