package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/neilberkman/breatheless/internal/core/csvio"
	"github.com/neilberkman/breatheless/internal/core/models"
)

type sessionListItem struct {
	session models.Session
	now     time.Time
}

func (i sessionListItem) FilterValue() string {
	return i.session.Note
}

func (i sessionListItem) Title() string {
	s := i.session
	when := s.LocalDate + " " + s.LocalTime
	if strings.TrimSpace(when) == "" {
		when = s.Date.UTC().Format("2006-01-02 15:04 UTC")
	}
	return fmt.Sprintf("%s  %s", when, exerciseLabel(s.ExerciseType))
}

func (i sessionListItem) Description() string {
	return measurementSummary(i.session) + " | " + humanize.RelTime(i.session.Date, i.now, "ago", "from now")
}

func exerciseLabel(t models.ExerciseType) string {
	switch t {
	case models.MCP:
		return "Morning CP"
	case models.Diminished:
		return "Diminished"
	default:
		return "Classical"
	}
}

// measurementSummary is the one-line measurement readout for a session
func measurementSummary(s models.Session) string {
	parts := []string{"CP " + csvio.FormatNumber(s.ControlPause1)}
	if s.ControlPause2 > 0 {
		parts[0] += "/" + csvio.FormatNumber(s.ControlPause2)
	}
	if s.ExerciseType == models.Classical {
		parts = append(parts, fmt.Sprintf("MP %s/%s/%s",
			csvio.FormatNumber(s.MaxPause1), csvio.FormatNumber(s.MaxPause2), csvio.FormatNumber(s.MaxPause3)))
	} else if s.MaxPause1 > 0 {
		parts = append(parts, "MP "+csvio.FormatNumber(s.MaxPause1))
	}
	if s.Note != "" {
		parts = append(parts, truncate(s.Note, 40))
	}
	return strings.Join(parts, " · ")
}

func truncate(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// Custom delegate to highlight morning control pauses
type sessionDelegate struct {
	list.DefaultDelegate
}

func (d sessionDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	s, ok := item.(sessionListItem)
	if !ok {
		d.DefaultDelegate.Render(w, m, index, item)
		return
	}

	title := s.Title()
	desc := s.Description()

	switch {
	case index == m.Index():
		title = selectedItemStyle.Render(title)
		desc = selectedItemStyle.Faint(true).Render(desc)
	case s.session.ExerciseType == models.MCP:
		title = mcpItemStyle.Render(title)
		desc = itemStyle.Render(desc)
	default:
		title = itemStyle.Render(title)
		desc = itemStyle.Render(desc)
	}

	_, _ = fmt.Fprintf(w, "%s\n%s", title, desc)
}

func createSessionList(sessions []models.Session, now time.Time, width, height int) list.Model {
	items := make([]list.Item, len(sessions))
	for i, s := range sessions {
		items[i] = sessionListItem{session: s, now: now}
	}

	delegate := sessionDelegate{DefaultDelegate: list.NewDefaultDelegate()}

	l := list.New(items, delegate, width, height-1) // Reserve 1 line for help text only
	l.Title = ""
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetFilteringEnabled(false) // Filtering goes through the / prompt

	return l
}

func (m Model) selected() (models.Session, bool) {
	if !m.listReady {
		return models.Session{}, false
	}
	item, ok := m.list.SelectedItem().(sessionListItem)
	return item.session, ok
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if s, ok := m.selected(); ok {
			m.currentSession = &s
			m.viewport = createViewport(s, m.registry, m.pulse, m.width, m.height)
			m.mode = detailView
			m.status = ""
		}
		return m, nil

	case "c":
		if s, ok := m.selected(); ok {
			return m, copySession(s)
		}
		return m, nil

	case "/":
		m.mode = filterView
		m.filter.SetValue(m.query)
		m.filter.CursorEnd()
		return m, m.filter.Focus()

	case "r":
		m.status = ""
		return m, loadSessions(m.db, m.search, m.query, m.limit)
	}

	if !m.listReady {
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) viewList() string {
	helpText := "↑/k up • ↓/j down • enter view • c copy • / filter • q quit • ? more"
	if m.query != "" {
		helpText = titleStyle.Render("filter: "+m.query) + " • " + helpText
	}
	if m.status != "" {
		helpText = m.status + " • " + helpText
	}

	if len(m.sessions) == 0 {
		if m.query != "" {
			return "No sessions match the filter. Press / to change it.\n\n" + helpText
		}
		return "No sessions found. Import a CSV with 'breatheless import'.\n\n" + helpText
	}

	return m.list.View() + "\n" + helpText
}
