// Package app реализует реестр локальных команд TUI.
//
// Локальные команды начинаются с "/" и выполняются без обращения к LLM:
// показывают реестр инструментов, модели ролей, системные промпты.
// Весь остальной ввод уходит роутеру Eve как обычный запрос.
package app

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	pkgapp "github.com/ilkoid/eve-ai/pkg/app"
)

// CommandHandler — тип функции-обработчика команды.
//
// Принимает Components и аргументы команды, возвращает tea.Cmd
// для асинхронного выполнения в Bubble Tea.
type CommandHandler func(c *pkgapp.Components, args []string) tea.Cmd

// CommandRegistry — реестр зарегистрированных команд TUI.
//
// Позволяет динамически регистрировать и выполнять команды.
// Thread-safe: одновременные вызовы безопасны.
type CommandRegistry struct {
	mu       sync.RWMutex
	commands map[string]CommandHandler
}

// NewCommandRegistry создает новый пустой реестр команд.
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{
		commands: make(map[string]CommandHandler),
	}
}

// Register регистрирует новую команду в реестре.
//
// Если команда с таким именем уже существует, она будет перезаписана.
func (r *CommandRegistry) Register(name string, handler CommandHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[name] = handler
}

// Execute выполняет команду и возвращает tea.Cmd для асинхронного выполнения.
//
// Ожидает ввод без ведущего "/": парсит его на имя команды и аргументы,
// находит соответствующий handler. Если команда не найдена, возвращает
// команду с ошибкой.
func (r *CommandRegistry) Execute(input string, c *pkgapp.Components) tea.Cmd {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}

	cmd := parts[0]
	args := parts[1:]

	// Получаем handler под read lock
	r.mu.RLock()
	handler, exists := r.commands[cmd]
	r.mu.RUnlock()

	if !exists {
		return func() tea.Msg {
			return CommandResultMsg{Err: fmt.Errorf("unknown command: '/%s'. Try /help", cmd)}
		}
	}

	return handler(c, args)
}

// GetCommands возвращает отсортированный список имен зарегистрированных команд.
func (r *CommandRegistry) GetCommands() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmds := make([]string, 0, len(r.commands))
	for name := range r.commands {
		cmds = append(cmds, name)
	}
	sort.Strings(cmds)
	return cmds
}

// SetupEveCommands регистрирует локальные команды Eve в реестре.
//
// Регистрирует:
//   - /tools   — список зарегистрированных инструментов
//   - /models  — модели ролей из конфигурации
//   - /prompts — системные промпты роутера и респондера
//   - /help    — справка по командам
func SetupEveCommands(registry *CommandRegistry) {
	registry.Register("tools", func(c *pkgapp.Components, args []string) tea.Cmd {
		return func() tea.Msg {
			names := c.Tools.Names()
			if len(names) == 0 {
				return CommandResultMsg{Output: "No tools registered."}
			}
			return CommandResultMsg{Output: "Available tools:\n" + c.Tools.Describe()}
		}
	})

	registry.Register("models", func(c *pkgapp.Components, args []string) tea.Cmd {
		return func() tea.Msg {
			var out strings.Builder
			out.WriteString("Configured models:\n")
			for _, name := range c.Models.ListNames() {
				out.WriteString("- " + name)
				var roles []string
				if name == c.Config.Models.DefaultRouter {
					roles = append(roles, "router")
				}
				if name == c.Config.Models.DefaultResponder {
					roles = append(roles, "responder")
				}
				if len(roles) > 0 {
					out.WriteString(" (" + strings.Join(roles, ", ") + ")")
				}
				out.WriteString("\n")
			}
			return CommandResultMsg{Output: strings.TrimRight(out.String(), "\n")}
		}
	})

	registry.Register("prompts", func(c *pkgapp.Components, args []string) tea.Cmd {
		return func() tea.Msg {
			routerPrompt, err := c.Prompts.Router()
			if err != nil {
				return CommandResultMsg{Err: fmt.Errorf("failed to load router prompt: %w", err)}
			}
			responderPrompt, err := c.Prompts.Responder()
			if err != nil {
				return CommandResultMsg{Err: fmt.Errorf("failed to load responder prompt: %w", err)}
			}

			out := fmt.Sprintf("Router system prompt:\n%s\n\nResponder system prompt:\n%s",
				routerPrompt.SystemText(), responderPrompt.SystemText())
			return CommandResultMsg{Output: out}
		}
	})

	registry.Register("help", func(c *pkgapp.Components, args []string) tea.Cmd {
		return func() tea.Msg {
			helpText := `Local commands:
  /tools   - Show registered tools
  /models  - Show configured models
  /prompts - Show role system prompts
  /help    - Show this help

Anything else is sent to Eve. Type 'break' or press Esc to exit.`
			return CommandResultMsg{Output: helpText}
		}
	})
}
