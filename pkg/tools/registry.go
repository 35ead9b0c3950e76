// Реестр инструментов и диспетчеризация вызовов.

package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ilkoid/eve-ai/pkg/utils"
)

// UnknownToolMessage — канонический текст для вызова незарегистрированного
// инструмента. Уходит модели-ответчику как обычный неуспешный результат.
const UnknownToolMessage = "unknown function called"

// registration хранит определение и уже обёрнутый вызов инструмента.
type registration struct {
	def  ToolDefinition
	call SafeCall
}

// Registry - реестр инструментов (Правило 1, 3 манифеста).
// Собирается один раз при старте, диспетчеризация потокобезопасна.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]registration
}

// NewRegistry создает пустой реестр инструментов.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]registration),
	}
}

// validateDefinition проверяет корректность определения инструмента.
func validateDefinition(def ToolDefinition) error {
	if def.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}

	// Роутер сопоставляет имена буквально, пробелы ломают извлечение
	if strings.ContainsAny(def.Name, " \t\n") {
		return fmt.Errorf("tool name '%s' must not contain whitespace", def.Name)
	}

	if def.Description == "" {
		return fmt.Errorf("tool '%s' must have a description", def.Name)
	}

	return nil
}

// Register добавляет инструмент в реестр.
//
// Execute оборачивается в Safe здесь, один раз: дальше по коду живёт
// только тотальная форма, и Dispatch не обязан думать об ошибках и паниках.
func (r *Registry) Register(tool Tool) error {
	def := tool.Definition()

	// 1. Валидация определения
	if err := validateDefinition(def); err != nil {
		return fmt.Errorf("invalid tool definition: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// 2. Проверка дубликатов
	if _, exists := r.tools[def.Name]; exists {
		return fmt.Errorf("tool '%s' already registered", def.Name)
	}

	// 3. Обёртка и сохранение
	r.tools[def.Name] = registration{
		def:  def,
		call: Safe(def.Name, tool.Execute),
	}

	utils.Info("Tool registered", "name", def.Name)
	return nil
}

// Dispatch выполняет разобранный вызов инструмента.
//
// Тотальная операция: любой исход - конверт Result. Незарегистрированное
// имя даёт Result{Success: false, Data: UnknownToolMessage}, сам вызов при
// этом не происходит. Пустой Input заменяется на fallback (обычно это
// исходный текст пользователя), чтобы инструмент получил хоть какой-то
// аргумент, а не пустую строку при забывчивой модели.
func (r *Registry) Dispatch(ctx context.Context, call ToolCall, fallback string) Result {
	r.mu.RLock()
	reg, ok := r.tools[call.Tool]
	r.mu.RUnlock()

	if !ok {
		utils.Warn("Unknown tool requested", "tool", call.Tool)
		return NewResult(false, UnknownToolMessage)
	}

	input := call.Input
	if input == "" {
		input = fallback
	}

	utils.Info("Dispatching tool", "tool", call.Tool, "input", input)
	return reg.call(ctx, input)
}

// GetDefinitions возвращает определения всех инструментов.
// Порядок стабильный, чтобы системный промпт роутера не менялся между запусками.
func (r *Registry) GetDefinitions() []ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]ToolDefinition, 0, len(r.tools))
	for _, reg := range r.tools {
		defs = append(defs, reg.def)
	}

	sort.Slice(defs, func(i, j int) bool {
		return defs[i].Name < defs[j].Name
	})

	return defs
}

// Describe возвращает список инструментов для системного промпта роутера:
// по строке "- имя: описание" на инструмент.
func (r *Registry) Describe() string {
	defs := r.GetDefinitions()
	lines := make([]string, len(defs))
	for i, def := range defs {
		lines[i] = fmt.Sprintf("- %s: %s", def.Name, def.Description)
	}
	return strings.Join(lines, "\n")
}

// Names возвращает имена зарегистрированных инструментов в стабильном порядке.
func (r *Registry) Names() []string {
	defs := r.GetDefinitions()
	names := make([]string, len(defs))
	for i, def := range defs {
		names[i] = def.Name
	}
	return names
}

// Has сообщает, зарегистрирован ли инструмент с таким именем.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.tools[name]
	return ok
}
