package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filter.Blur()
		m.mode = listView
		return m, nil

	case "ctrl+c":
		return m, tea.Quit

	case "enter":
		m.filter.Blur()
		m.query = strings.TrimSpace(m.filter.Value())
		m.mode = listView
		m.status = ""
		return m, loadSessions(m.db, m.search, m.query, m.limit)
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	return m, cmd
}

func (m Model) viewFilter() string {
	var b strings.Builder
	b.WriteString(filterHeaderStyle.Render("Filter sessions"))
	b.WriteString("\n\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("type:<classical|diminished|mcp>  date:<day>  after:<day>  before:<day>  words match notes"))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Days may be 2026-01-08, yesterday or 3-days-ago"))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter apply • esc cancel"))
	return b.String()
}
