// Package openai реализует адаптер LLM провайдера для OpenAI-совместимых API.
//
// Через custom BaseURL работает с любым совместимым endpoint'ом: OpenAI,
// Zai, DeepSeek, а также локальной Ollama (http://localhost:11434/v1).
// Соблюдает правило 4 манифеста: приложение работает только через
// интерфейсы llm.Provider / llm.StreamingProvider.
package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ilkoid/eve-ai/pkg/config"
	"github.com/ilkoid/eve-ai/pkg/llm"
	"github.com/ilkoid/eve-ai/pkg/utils"
)

// Client реализует интерфейсы llm.Provider и llm.StreamingProvider.
type Client struct {
	api         *openai.Client
	model       string
	temperature float64
	maxTokens   int
}

// Проверка реализации интерфейсов на этапе компиляции
var (
	_ llm.Provider          = (*Client)(nil)
	_ llm.StreamingProvider = (*Client)(nil)
)

// NewClient создает OpenAI клиент на основе конфигурации модели.
//
// Принимает ModelDef напрямую для упрощения создания клиентов через factory.
// Использует APIKey из конфигурации для аутентификации.
//
// Правило 2: Все настройки из конфигурации, никакого хардкода.
func NewClient(modelDef config.ModelDef) *Client {
	// Поддержка custom BaseURL для non-OpenAI провайдеров (Ollama, Zai и т.д.)
	cfg := openai.DefaultConfig(modelDef.APIKey)
	if modelDef.BaseURL != "" {
		cfg.BaseURL = modelDef.BaseURL
	}

	client := openai.NewClientWithConfig(cfg)

	return &Client{
		api:         client,
		model:       modelDef.ModelName,
		temperature: modelDef.Temperature,
		maxTokens:   modelDef.MaxTokens,
	}
}

// Generate выполняет запрос к API и возвращает ответ модели.
//
// Алгоритм:
//  1. Собирает с учётом опций запрос в формате OpenAI SDK
//  2. Вызывает API
//  3. Конвертирует ответ обратно в наш формат
//
// Правило 7: Все ошибки возвращаются, никаких panic.
func (c *Client) Generate(ctx context.Context, messages []llm.Message, opts ...llm.GenerateOption) (llm.Message, error) {
	startTime := time.Now()

	utils.Debug("LLM request started",
		"model", c.model,
		"messages_count", len(messages))

	// 1. Собираем запрос
	req := c.buildRequest(messages, opts...)

	// 2. Вызываем API
	// Правило 7: возвращаем ошибку вместо panic
	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		utils.Error("LLM API request failed",
			"error", err,
			"model", c.model,
			"duration_ms", time.Since(startTime).Milliseconds())
		return llm.Message{}, fmt.Errorf("openai api error: %w", err)
	}

	// Проверяем что есть хотя бы один выбор
	if len(resp.Choices) == 0 {
		return llm.Message{}, fmt.Errorf("no choices in response")
	}

	// 3. Маппим ответ обратно в наш формат
	choice := resp.Choices[0].Message

	result := llm.Message{
		Role:    llm.Role(choice.Role),
		Content: choice.Content,
	}

	utils.Info("LLM response received",
		"model", c.model,
		"content_length", len(result.Content),
		"duration_ms", time.Since(startTime).Milliseconds())

	return result, nil
}

// GenerateStream выполняет запрос с потоковой передачей ответа.
//
// Каждый полученный токен отдаётся в callback как ChunkContent с Delta
// и накопленным Content. По завершении отправляется ChunkDone и
// возвращается финальное сообщение целиком.
//
// Ошибка стриминга отдаётся и в callback (ChunkError), и как возвращаемая
// ошибка — вызывающий выбирает удобный способ обработки.
func (c *Client) GenerateStream(
	ctx context.Context,
	messages []llm.Message,
	callback func(llm.StreamChunk),
	opts ...llm.GenerateOption,
) (llm.Message, error) {
	startTime := time.Now()

	utils.Debug("LLM stream started",
		"model", c.model,
		"messages_count", len(messages))

	req := c.buildRequest(messages, opts...)
	req.Stream = true

	stream, err := c.api.CreateChatCompletionStream(ctx, req)
	if err != nil {
		utils.Error("LLM stream creation failed", "error", err, "model", c.model)
		if callback != nil {
			callback(llm.StreamChunk{Type: llm.ChunkError, Error: err})
		}
		return llm.Message{}, fmt.Errorf("openai stream error: %w", err)
	}
	defer stream.Close()

	var content string
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			utils.Error("LLM stream receive failed",
				"error", err,
				"model", c.model,
				"received_length", len(content))
			if callback != nil {
				callback(llm.StreamChunk{Type: llm.ChunkError, Content: content, Error: err})
			}
			return llm.Message{}, fmt.Errorf("openai stream receive error: %w", err)
		}

		if len(resp.Choices) == 0 {
			continue
		}

		delta := resp.Choices[0].Delta.Content
		if delta == "" {
			continue
		}

		content += delta
		if callback != nil {
			callback(llm.StreamChunk{
				Type:    llm.ChunkContent,
				Content: content,
				Delta:   delta,
			})
		}
	}

	if callback != nil {
		callback(llm.StreamChunk{Type: llm.ChunkDone, Content: content, Done: true})
	}

	utils.Info("LLM stream finished",
		"model", c.model,
		"content_length", len(content),
		"duration_ms", time.Since(startTime).Milliseconds())

	return llm.Message{
		Role:    llm.RoleAssistant,
		Content: content,
	}, nil
}

// buildRequest собирает запрос OpenAI SDK из сообщений и опций.
//
// Дефолты температуры и max_tokens берутся из конфигурации модели,
// GenerateOption'ы поверх них.
func (c *Client) buildRequest(messages []llm.Message, opts ...llm.GenerateOption) openai.ChatCompletionRequest {
	options := llm.GenerateOptions{
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
	for _, opt := range opts {
		opt(&options)
	}

	openaiMsgs := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		openaiMsgs[i] = openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		}
	}

	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: openaiMsgs,
	}

	if options.Temperature > 0 {
		req.Temperature = float32(options.Temperature)
	}
	if options.MaxTokens > 0 {
		req.MaxTokens = options.MaxTokens
	}

	return req
}
