// Тесты цикла одного хода: роутинг, диспетчеризация, ответ.
package router

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ilkoid/eve-ai/pkg/config"
	"github.com/ilkoid/eve-ai/pkg/events"
	"github.com/ilkoid/eve-ai/pkg/llm"
	"github.com/ilkoid/eve-ai/pkg/models"
	"github.com/ilkoid/eve-ai/pkg/prompt"
	"github.com/ilkoid/eve-ai/pkg/tools"
)

// scriptedProvider — LLM провайдер с заранее заданными ответами.
// Каждый вызов забирает следующий ответ и запоминает полученные сообщения.
type scriptedProvider struct {
	responses []string
	calls     [][]llm.Message
}

func (p *scriptedProvider) Generate(ctx context.Context, messages []llm.Message, opts ...llm.GenerateOption) (llm.Message, error) {
	return p.GenerateStream(ctx, messages, nil, opts...)
}

func (p *scriptedProvider) GenerateStream(ctx context.Context, messages []llm.Message, callback func(llm.StreamChunk), opts ...llm.GenerateOption) (llm.Message, error) {
	p.calls = append(p.calls, messages)

	if len(p.responses) == 0 {
		return llm.Message{}, errors.New("no scripted response left")
	}
	text := p.responses[0]
	p.responses = p.responses[1:]

	if callback != nil {
		// Отдаём текст двумя чанками чтобы проверить накопление
		half := len(text) / 2
		for _, delta := range []string{text[:half], text[half:]} {
			if delta == "" {
				continue
			}
			callback(llm.StreamChunk{Type: llm.ChunkContent, Delta: delta})
		}
		callback(llm.StreamChunk{Type: llm.ChunkDone, Done: true})
	}

	return llm.Message{Role: llm.RoleAssistant, Content: text}, nil
}

// stubTool — инструмент для тестов, запоминает последний input.
type stubTool struct {
	name      string
	lastInput string
	calls     int
	fn        func(ctx context.Context, input string) (string, error)
}

func (s *stubTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{Name: s.name, Description: "stub tool " + s.name}
}

func (s *stubTool) Execute(ctx context.Context, input string) (string, error) {
	s.lastInput = input
	s.calls++
	if s.fn != nil {
		return s.fn(ctx, input)
	}
	return "data from " + s.name, nil
}

// newTestRouter собирает Router на моках: scripted провайдер под оба
// алиаса ролей, переданные инструменты и встроенные промпты.
func newTestRouter(t *testing.T, provider *scriptedProvider, toolList ...tools.Tool) *Router {
	t.Helper()

	modelRegistry := models.NewRegistry()
	if err := modelRegistry.Register("test-model", config.ModelDef{Provider: "openai", ModelName: "test"}, provider); err != nil {
		t.Fatalf("Register model: %v", err)
	}

	toolRegistry := tools.NewRegistry()
	for _, tool := range toolList {
		if err := toolRegistry.Register(tool); err != nil {
			t.Fatalf("Register tool: %v", err)
		}
	}

	// Пустая директория: промпты берутся из встроенных дефолтов
	store, err := prompt.NewStore(config.PromptsConfig{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	router, err := New(Config{
		Models:  modelRegistry,
		Tools:   toolRegistry,
		Prompts: store,
		ModelsConfig: config.ModelsConfig{
			DefaultRouter:    "test-model",
			DefaultResponder: "test-model",
		},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return router
}

// TestRoute_ToolCallFlow проверяет полный ход с вызовом инструмента.
func TestRoute_ToolCallFlow(t *testing.T) {
	weather := &stubTool{name: "get_weather", fn: func(ctx context.Context, input string) (string, error) {
		return "sunny in " + input + ", 30°C", nil
	}}
	provider := &scriptedProvider{responses: []string{
		`{"tool": "get_weather", "input": "delhi"}`,
		"It's sunny in delhi right now.",
	}}
	router := newTestRouter(t, provider, weather)

	var routingTokens, replyTokens strings.Builder
	var gotCall tools.ToolCall
	var gotResult tools.Result

	result, err := router.Route(context.Background(), "what's the weather in delhi", RouteCallbacks{
		OnRoutingToken: func(delta string) { routingTokens.WriteString(delta) },
		OnToolCall:     func(call tools.ToolCall) { gotCall = call },
		OnToolResult:   func(r tools.Result) { gotResult = r },
		OnReplyToken:   func(delta string) { replyTokens.WriteString(delta) },
	})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}

	if result.Direct {
		t.Error("Direct = true, want false")
	}
	if result.ToolCall == nil || result.ToolCall.Tool != "get_weather" || result.ToolCall.Input != "delhi" {
		t.Errorf("ToolCall = %+v, want get_weather/delhi", result.ToolCall)
	}
	if result.ToolResult == nil || !result.ToolResult.Success {
		t.Fatalf("ToolResult = %+v, want success", result.ToolResult)
	}
	if result.ToolResult.Data != "sunny in delhi, 30°C" {
		t.Errorf("ToolResult.Data = %q", result.ToolResult.Data)
	}
	if result.Reply != "It's sunny in delhi right now." {
		t.Errorf("Reply = %q", result.Reply)
	}
	if result.DisplayData != "sunny in delhi, 30°C" {
		t.Errorf("DisplayData = %q", result.DisplayData)
	}
	if weather.lastInput != "delhi" {
		t.Errorf("tool input = %q, want %q", weather.lastInput, "delhi")
	}

	// Callbacks получили тот же ход
	if routingTokens.String() != result.RoutingText {
		t.Errorf("routing tokens = %q, want %q", routingTokens.String(), result.RoutingText)
	}
	if replyTokens.String() != result.Reply {
		t.Errorf("reply tokens = %q, want %q", replyTokens.String(), result.Reply)
	}
	if gotCall != *result.ToolCall {
		t.Errorf("OnToolCall got %+v", gotCall)
	}
	if gotResult != *result.ToolResult {
		t.Errorf("OnToolResult got %+v", gotResult)
	}

	// Роутер получил список инструментов в системном промпте и текст пользователя
	if len(provider.calls) != 2 {
		t.Fatalf("provider calls = %d, want 2", len(provider.calls))
	}
	routingMsgs := provider.calls[0]
	if routingMsgs[0].Role != llm.RoleSystem || !strings.Contains(routingMsgs[0].Content, "get_weather") {
		t.Errorf("routing system prompt does not list tools: %q", routingMsgs[0].Content)
	}
	if last := routingMsgs[len(routingMsgs)-1]; last.Role != llm.RoleUser || last.Content != "what's the weather in delhi" {
		t.Errorf("routing user message = %+v", last)
	}

	// Респондер получил конверт в историческом формате
	wantResponderInput := fmt.Sprintf("User Input :-\n%s\nTool Response :-\n%t Data :- %s",
		"what's the weather in delhi", true, "sunny in delhi, 30°C")
	responderMsgs := provider.calls[1]
	if last := responderMsgs[len(responderMsgs)-1]; last.Content != wantResponderInput {
		t.Errorf("responder user message = %q, want %q", last.Content, wantResponderInput)
	}
}

// TestRoute_DirectReply проверяет ход без вызова инструмента.
func TestRoute_DirectReply(t *testing.T) {
	provider := &scriptedProvider{responses: []string{"Hello! How can I help you today?"}}
	router := newTestRouter(t, provider)

	result, err := router.Route(context.Background(), "hi there", RouteCallbacks{})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}

	if !result.Direct {
		t.Error("Direct = false, want true")
	}
	if result.Reply != "Hello! How can I help you today?" {
		t.Errorf("Reply = %q", result.Reply)
	}
	if result.Reply != result.RoutingText {
		t.Errorf("Reply %q != RoutingText %q", result.Reply, result.RoutingText)
	}
	if result.ToolCall != nil || result.ToolResult != nil {
		t.Errorf("ToolCall = %+v, ToolResult = %+v, want nil", result.ToolCall, result.ToolResult)
	}
	if result.DisplayData != "" {
		t.Errorf("DisplayData = %q, want empty", result.DisplayData)
	}
	if len(provider.calls) != 1 {
		t.Errorf("provider calls = %d, want 1 (responder must not run)", len(provider.calls))
	}
}

// TestRoute_UnknownTool проверяет что незнакомый инструмент даёт конверт
// с ошибкой, но ход доходит до респондера.
func TestRoute_UnknownTool(t *testing.T) {
	weather := &stubTool{name: "get_weather"}
	provider := &scriptedProvider{responses: []string{
		`{"tool": "get_stocks", "input": "AAPL"}`,
		"I don't have a stocks tool, sorry.",
	}}
	router := newTestRouter(t, provider, weather)

	result, err := router.Route(context.Background(), "stock price of AAPL", RouteCallbacks{})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}

	if result.ToolResult == nil || result.ToolResult.Success {
		t.Fatalf("ToolResult = %+v, want failure envelope", result.ToolResult)
	}
	if result.ToolResult.Data != tools.UnknownToolMessage {
		t.Errorf("Data = %q, want %q", result.ToolResult.Data, tools.UnknownToolMessage)
	}
	if weather.calls != 0 {
		t.Errorf("registered tool was invoked %d times", weather.calls)
	}
	if result.Reply != "I don't have a stocks tool, sorry." {
		t.Errorf("Reply = %q", result.Reply)
	}

	responderMsgs := provider.calls[1]
	last := responderMsgs[len(responderMsgs)-1].Content
	if !strings.Contains(last, "false Data :- "+tools.UnknownToolMessage) {
		t.Errorf("responder message = %q, want failure envelope inside", last)
	}
}

// TestRoute_FallbackInput проверяет что пустой input заменяется исходным
// текстом пользователя.
func TestRoute_FallbackInput(t *testing.T) {
	weather := &stubTool{name: "get_weather"}
	provider := &scriptedProvider{responses: []string{
		`{"tool": "get_weather", "input": ""}`,
		"done",
	}}
	router := newTestRouter(t, provider, weather)

	if _, err := router.Route(context.Background(), "weather in goa please", RouteCallbacks{}); err != nil {
		t.Fatalf("Route: %v", err)
	}

	if weather.lastInput != "weather in goa please" {
		t.Errorf("tool input = %q, want original user text", weather.lastInput)
	}
}

// TestRoute_ToolError проверяет что ошибка инструмента превращается в
// конверт и ход продолжается.
func TestRoute_ToolError(t *testing.T) {
	broken := &stubTool{name: "get_news", fn: func(ctx context.Context, input string) (string, error) {
		return "", errors.New("news api is down")
	}}
	provider := &scriptedProvider{responses: []string{
		`{"tool": "get_news", "input": "sports"}`,
		"Couldn't fetch the news right now.",
	}}
	router := newTestRouter(t, provider, broken)

	result, err := router.Route(context.Background(), "latest sports news", RouteCallbacks{})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}

	if result.ToolResult.Success {
		t.Error("Success = true, want false")
	}
	if result.ToolResult.Data != "news api is down" {
		t.Errorf("Data = %q", result.ToolResult.Data)
	}
	if result.Reply != "Couldn't fetch the news right now." {
		t.Errorf("Reply = %q", result.Reply)
	}
}

// TestRoute_LongDataPlaceholder проверяет что длинные данные не попадают
// в промпт респондера.
func TestRoute_LongDataPlaceholder(t *testing.T) {
	longData := strings.Repeat("x", 300)
	search := &stubTool{name: "get_search", fn: func(ctx context.Context, input string) (string, error) {
		return longData, nil
	}}
	provider := &scriptedProvider{responses: []string{
		`{"tool": "get_search", "input": "golang"}`,
		"Here's some additional info.",
	}}
	router := newTestRouter(t, provider, search)

	result, err := router.Route(context.Background(), "google golang", RouteCallbacks{})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}

	responderMsgs := provider.calls[1]
	last := responderMsgs[len(responderMsgs)-1].Content
	if strings.Contains(last, longData) {
		t.Error("responder prompt contains full data, want placeholder")
	}
	if !strings.Contains(last, tooLongNotice) {
		t.Errorf("responder message = %q, want placeholder inside", last)
	}

	// Полные данные при этом доступны для показа
	if result.DisplayData != longData {
		t.Errorf("DisplayData len = %d, want %d", len(result.DisplayData), len(longData))
	}
}

// TestRoute_ShortDataKept проверяет что данные короче порога попадают
// в промпт как есть.
func TestRoute_ShortDataKept(t *testing.T) {
	shortData := strings.Repeat("x", 299)
	search := &stubTool{name: "get_search", fn: func(ctx context.Context, input string) (string, error) {
		return shortData, nil
	}}
	provider := &scriptedProvider{responses: []string{
		`{"tool": "get_search", "input": "golang"}`,
		"ok",
	}}
	router := newTestRouter(t, provider, search)

	if _, err := router.Route(context.Background(), "google golang", RouteCallbacks{}); err != nil {
		t.Fatalf("Route: %v", err)
	}

	last := provider.calls[1][len(provider.calls[1])-1].Content
	if !strings.Contains(last, shortData) {
		t.Error("responder prompt must contain data below the limit")
	}
}

// TestRoute_DisplayDataTruncation проверяет усечение данных для показа.
func TestRoute_DisplayDataTruncation(t *testing.T) {
	huge := strings.Repeat("a", 1500)
	search := &stubTool{name: "get_search", fn: func(ctx context.Context, input string) (string, error) {
		return huge, nil
	}}
	provider := &scriptedProvider{responses: []string{
		`{"tool": "get_search", "input": "golang"}`,
		"ok",
	}}
	router := newTestRouter(t, provider, search)

	result, err := router.Route(context.Background(), "google golang", RouteCallbacks{})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}

	if got := utf8.RuneCountInString(result.DisplayData); got != 1000 {
		t.Errorf("DisplayData runes = %d, want 1000", got)
	}
	if !strings.HasPrefix(huge, result.DisplayData) {
		t.Error("DisplayData is not a prefix of tool data")
	}
}

// TestRoute_RoutingError проверяет что ошибка роутинга возвращается наружу.
func TestRoute_RoutingError(t *testing.T) {
	provider := &scriptedProvider{} // ни одного ответа
	router := newTestRouter(t, provider)

	_, err := router.Route(context.Background(), "hi", RouteCallbacks{})
	if err == nil {
		t.Fatal("Route returned nil error")
	}
	if !strings.Contains(err.Error(), "routing call failed") {
		t.Errorf("err = %v", err)
	}
}

// TestRoute_Events проверяет последовательность событий хода.
func TestRoute_Events(t *testing.T) {
	weather := &stubTool{name: "get_weather"}
	provider := &scriptedProvider{responses: []string{
		`{"tool": "get_weather", "input": "delhi"}`,
		"Sunny.",
	}}
	router := newTestRouter(t, provider, weather)

	emitter := events.NewChanEmitter(64)
	sub := emitter.Subscribe()
	router.SetEmitter(emitter)

	if _, err := router.Route(context.Background(), "weather in delhi", RouteCallbacks{}); err != nil {
		t.Fatalf("Route: %v", err)
	}
	emitter.Close()

	var types []events.EventType
	for event := range sub.Events() {
		types = append(types, event.Type)
	}

	// Порядок фаз хода: роутинг, чанки, вызов, результат, чанки, ответ
	wantOrder := []events.EventType{
		events.EventRouting,
		events.EventToolCall,
		events.EventToolResult,
		events.EventMessage,
	}
	idx := 0
	for _, et := range types {
		if idx < len(wantOrder) && et == wantOrder[idx] {
			idx++
		}
	}
	if idx != len(wantOrder) {
		t.Errorf("event order %v does not contain phases %v", types, wantOrder)
	}

	hasRoutingChunk := false
	hasReplyChunk := false
	for _, et := range types {
		if et == events.EventRoutingChunk {
			hasRoutingChunk = true
		}
		if et == events.EventReplyChunk {
			hasReplyChunk = true
		}
	}
	if !hasRoutingChunk || !hasReplyChunk {
		t.Errorf("chunk events missing: routing=%v reply=%v", hasRoutingChunk, hasReplyChunk)
	}
}

// TestNew_Validation проверяет обязательные зависимости конфигурации.
func TestNew_Validation(t *testing.T) {
	modelRegistry := models.NewRegistry()
	toolRegistry := tools.NewRegistry()
	store, err := prompt.NewStore(config.PromptsConfig{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	tests := []struct {
		name string
		cfg  Config
	}{
		{"nil models", Config{Tools: toolRegistry, Prompts: store}},
		{"nil tools", Config{Models: modelRegistry, Prompts: store}},
		{"nil prompts", Config{Models: modelRegistry, Tools: toolRegistry}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); err == nil {
				t.Error("New returned nil error")
			}
		})
	}
}
