// Логика - Обрабатывает нажатия клавиш, события хода и результаты команд.

package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wrap"

	"github.com/ilkoid/eve-ai/internal/app"
	pkgapp "github.com/ilkoid/eve-ai/pkg/app"
	"github.com/ilkoid/eve-ai/pkg/events"
	"github.com/ilkoid/eve-ai/pkg/router"
	"github.com/ilkoid/eve-ai/pkg/utils"
)

// turnTimeout ограничивает длительность одного хода (два LLM вызова + инструмент).
const turnTimeout = 2 * time.Minute

// toolLogLimit — сколько рун данных инструмента показывать в строке лога.
const toolLogLimit = 200

func (m MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)

	switch msg := msg.(type) {

	// 1. Изменение размера окна терминала
	case tea.WindowSizeMsg:
		headerHeight := 1
		footerHeight := m.textarea.Height() + 2 // + граница

		// Вычисляем высоту для области контента
		vpHeight := msg.Height - headerHeight - footerHeight
		if vpHeight < 0 {
			vpHeight = 0
		}

		m.viewport.Width = msg.Width
		m.viewport.Height = vpHeight
		m.textarea.SetWidth(msg.Width)
		m.ready = true

		// Переносим лог заново под новую ширину
		m.refreshViewport()

	// 2. Клавиши
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyCtrlU:
			m.textarea.Reset()
			return m, nil

		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}

			// Слово выхода — как в консольной версии
			if input == "break" {
				return m, tea.Quit
			}

			m.textarea.Reset()

			// Локальные команды выполняются без обращения к LLM
			if strings.HasPrefix(input, "/") {
				m.appendLog(userMsgStyle("You > ") + input)
				return m, m.commands.Execute(strings.TrimPrefix(input, "/"), m.components)
			}

			// Один ход за раз: Route и так сериализован мьютексом,
			// но UI не должен копить очередь запросов
			if m.processing {
				m.appendLog(errorMsgStyle("Busy: ") + "wait for the current turn to finish")
				return m, nil
			}

			m.appendLog(userMsgStyle("You > ") + input)
			m.processing = true

			return m, tea.Batch(
				m.spinner.Tick,
				runTurn(m.components, input),
			)
		}

	// 3. Событие хода (прилетело из канала событий роутера)
	case turnEventMsg:
		m.applyTurnEvent(events.Event(msg))
		// Перепланируем чтение следующего события
		return m, tea.Batch(tiCmd, vpCmd, waitForEvent(m.eventSub))

	// 4. Итог хода
	case turnDoneMsg:
		m.processing = false

		if msg.err != nil {
			m.appendLog(errorMsgStyle("ERROR: ") + msg.err.Error())
		} else if msg.result != nil && msg.result.ToolResult != nil && msg.result.DisplayData != "" {
			if m.streaming != "" {
				// Ответ ещё стримится: блок данных добавим после него
				m.pendingData = msg.result.DisplayData
			} else {
				m.appendData(msg.result.DisplayData)
			}
		}

		m.textarea.Focus()

	// 5. Результат локальной команды
	case app.CommandResultMsg:
		if msg.Err != nil {
			m.appendLog(errorMsgStyle("ERROR: ") + msg.Err.Error())
		} else {
			m.appendLog(systemMsgStyle("SYSTEM: ") + msg.Output)
		}
		m.textarea.Focus()
	}

	// Если идет ход, анимируем спиннер
	if m.processing {
		m.spinner, spCmd = m.spinner.Update(msg)
		return m, tea.Batch(tiCmd, vpCmd, spCmd)
	}

	return m, tea.Batch(tiCmd, vpCmd)
}

// applyTurnEvent переносит событие хода в лог чата.
func (m *MainModel) applyTurnEvent(event events.Event) {
	switch data := event.Data.(type) {

	case events.RoutingData:
		// Ход начался: стрим роутинга пойдёт следом
		m.streamPrefix = dataMsgStyle("… ")
		m.streaming = ""

	case events.RoutingChunkData:
		m.streamPrefix = dataMsgStyle("… ")
		m.streaming = data.Accumulated
		m.refreshViewport()

	case events.ToolCallData:
		m.streaming = ""
		m.appendLog(toolMsgStyle("Tool :- ") + fmt.Sprintf(`{"tool": %q, "input": %q}`, data.Tool, data.Input))

	case events.ToolResultData:
		m.appendLog(toolMsgStyle("Response : ") + formatToolResult(data.Success, data.Data))

	case events.ReplyChunkData:
		m.streamPrefix = eveMsgStyle("Eve :- ")
		m.streaming = data.Accumulated
		m.refreshViewport()

	case events.MessageData:
		m.streaming = ""
		m.appendLog(eveMsgStyle("Eve :- ") + data.Content)
		if m.pendingData != "" {
			m.appendData(m.pendingData)
			m.pendingData = ""
		}

	case events.ErrorData:
		// Финальная ошибка приходит в turnDoneMsg
	}
}

// runTurn выполняет ход в фоне и возвращает итог как Bubble Tea сообщение.
//
// Стриминг идёт через канал событий, поэтому callbacks не нужны.
func runTurn(c *pkgapp.Components, query string) tea.Cmd {
	return func() tea.Msg {
		result, err := pkgapp.Execute(c, query, turnTimeout, router.RouteCallbacks{})
		return turnDoneMsg{result: result, err: err}
	}
}

// formatToolResult форматирует конверт результата для строки лога.
func formatToolResult(success bool, data string) string {
	return fmt.Sprintf(`{"success": %t, "data": %q}`, success, utils.Truncate(data, toolLogLimit))
}

// appendLog добавляет строку в лог и прокручивает вниз.
func (m *MainModel) appendLog(line string) {
	m.logLines = append(m.logLines, line)
	m.refreshViewport()
}

// appendData добавляет блок данных инструмента в лог.
func (m *MainModel) appendData(data string) {
	m.appendLog(dataMsgStyle("Data :- " + data))
}

// refreshViewport собирает контент вьюпорта из лога и активного стрима.
//
// Строки переносятся по текущей ширине: reflow сохраняет ANSI стили
// при переносе, поэтому цвета не ломаются на границах строк.
func (m *MainModel) refreshViewport() {
	var b strings.Builder
	for _, line := range m.logLines {
		b.WriteString(wrapLine(line, m.viewport.Width))
		b.WriteString("\n")
	}
	if m.streaming != "" {
		b.WriteString(wrapLine(m.streamPrefix+m.streaming, m.viewport.Width))
		b.WriteString("\n")
	}

	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

// wrapLine переносит строку по ширине. Нулевая ширина — без переноса.
func wrapLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	return wrap.String(s, width)
}
