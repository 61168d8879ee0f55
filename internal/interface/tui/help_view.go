package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = m.prevMode
		return m, nil
	}

	return m, nil
}

func (m Model) viewHelp() string {
	help := `
Breathing Sessions - Help
═════════════════════════

SESSION LIST VIEW
─────────────────
  ↑/↓, j/k     Navigate sessions
  Enter        View session details
  c            Copy session to clipboard as a CSV line
  /            Filter (type:, date:, after:, before:, note words)
  r            Reload
  ?            Show this help
  q            Quit

SESSION DETAIL VIEW
───────────────────
  c            Copy session to clipboard as a CSV line
  j/k          Scroll line by line
  d/u          Scroll half page
  g/G          Jump to top/bottom
  esc, q       Back to session list

Press ? or esc to return
`

	return helpStyle.Render(help)
}
