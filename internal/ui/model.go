// Package ui реализует Bubble Tea TUI чата с Eve.
//
// Содержит структуру UI и функцию инициализации.
//
// Port & Adapter: UI получает события хода через events.Subscriber и
// конвертирует их в Bubble Tea сообщения. Сам роутер про TUI не знает.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ilkoid/eve-ai/internal/app"
	pkgapp "github.com/ilkoid/eve-ai/pkg/app"
	"github.com/ilkoid/eve-ai/pkg/events"
	"github.com/ilkoid/eve-ai/pkg/router"
)

// turnEventMsg оборачивает событие хода в Bubble Tea сообщение.
type turnEventMsg events.Event

// turnDoneMsg — итог выполнения хода (или ошибка).
type turnDoneMsg struct {
	result *router.TurnResult
	err    error
}

// MainModel представляет главную модель UI (Bubble Tea Model).
//
// Содержит все компоненты TUI:
//   - viewport: область лога чата (только для чтения)
//   - textarea: поле ввода пользователя
//   - spinner: индикатор выполнения хода
//   - components: инициализированные компоненты Eve
//   - commands: реестр локальных "/" команд
//
// Лог хранится в logLines без переносов строк: при изменении ширины
// окна строки переносятся заново, поэтому resize не ломает вёрстку.
type MainModel struct {
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	components *pkgapp.Components
	commands   *app.CommandRegistry

	// Port & Adapter: подписчик на события хода
	emitter  *events.ChanEmitter
	eventSub events.Subscriber

	// Лог чата (строки без word-wrap)
	logLines []string

	// Текущая потоковая генерация ("" — нет активного стрима)
	streamPrefix string
	streaming    string

	// Данные инструмента, ожидающие финального ответа хода
	pendingData string

	processing bool
	ready      bool
}

// InitialModel создает начальное состояние UI.
//
// Подключает emitter событий к роутеру: с этого момента все ходы
// стримятся в TUI через events.Subscriber.
func InitialModel(components *pkgapp.Components) MainModel {
	// 1. Настройка поля ввода
	ta := textarea.New()
	ta.Placeholder = "Chat with Eve :-"
	ta.Focus()
	ta.Prompt = "┃ "
	ta.CharLimit = 1000
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false) // Enter отправляет, не переносит строку

	// 2. Настройка вьюпорта (лог чата)
	// Размеры (0,0) обновятся при первом событии WindowSizeMsg
	vp := viewport.New(0, 0)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	// 3. Подключаем канал событий хода
	emitter := events.NewChanEmitter(256)
	components.Router.SetEmitter(emitter)

	// 4. Локальные команды
	commands := app.NewCommandRegistry()
	app.SetupEveCommands(commands)

	m := MainModel{
		textarea:   ta,
		viewport:   vp,
		spinner:    sp,
		components: components,
		commands:   commands,
		emitter:    emitter,
		eventSub:   emitter.Subscribe(),
	}

	m.logLines = []string{
		systemMsgStyle("Eve Started Successfully :-"),
		systemMsgStyle(fmt.Sprintf("Router: %s | Responder: %s",
			components.Config.Models.DefaultRouter,
			components.Config.Models.DefaultResponder)),
		systemMsgStyle("Tools: " + strings.Join(components.Tools.Names(), ", ")),
		systemMsgStyle("Type /help for local commands, 'break' or Esc to exit."),
	}

	return m
}

// Init запускается один раз при старте Bubble Tea программы.
//
// Возвращает команду для:
//   - Запуска мигания курсора в поле ввода
//   - Чтения событий хода (Port & Adapter)
func (m MainModel) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		waitForEvent(m.eventSub),
	)
}

// Close освобождает канал событий.
func (m MainModel) Close() {
	m.emitter.Close()
}

// waitForEvent возвращает Cmd который ждёт следующего события хода.
//
// Каждое полученное событие перепланирует чтение в Update().
func waitForEvent(sub events.Subscriber) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-sub.Events()
		if !ok {
			return tea.QuitMsg{}
		}
		return turnEventMsg(event)
	}
}
