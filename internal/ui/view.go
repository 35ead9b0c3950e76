// Рендер
package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (m MainModel) View() string {
	if !m.ready {
		return "Initializing UI..."
	}

	// Формируем строку статуса (Header)
	status := fmt.Sprintf(" EVE | ROUTER: %s | TOOLS: %d ",
		m.components.Config.Models.DefaultRouter,
		len(m.components.Tools.Names()),
	)

	// Растягиваем хедер на всю ширину
	header := headerStyle.
		Width(m.viewport.Width).
		Render(status)

	// Разделительная линия
	border := lipgloss.NewStyle().
		Foreground(grayColor).
		Width(m.viewport.Width).
		Render("──────────────────────────────────────────────────")

	// Собираем всё вместе: Header + Viewport + Border + Input
	view := fmt.Sprintf("%s\n%s\n%s\n%s",
		header,
		m.viewport.View(),
		border,
		m.textarea.View(),
	)

	if m.processing {
		view += "\n" + m.spinner.View() + " Thinking..."
	}

	return view
}
