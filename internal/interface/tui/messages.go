package tui

import (
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/neilberkman/breatheless/internal/core/csvio"
	"github.com/neilberkman/breatheless/internal/core/db"
	"github.com/neilberkman/breatheless/internal/core/models"
	"github.com/neilberkman/breatheless/internal/core/search"
)

type errMsg struct {
	err error
}

type sessionsLoadedMsg struct {
	sessions []models.Session
}

type filterErrMsg struct {
	err error
}

type copiedMsg struct {
	err error
}

// clipboardWrite is swapped out in tests
var clipboardWrite = clipboard.WriteAll

func loadSessions(database *db.DB, p *search.Parser, query string, limit int) tea.Cmd {
	return func() tea.Msg {
		f, err := p.Parse(query)
		if err != nil {
			return filterErrMsg{err}
		}
		filter := f.DBFilter()
		filter.Limit = limit
		filter.NewestFirst = true

		sessions, err := database.ListSessions(filter)
		if err != nil {
			return errMsg{err}
		}
		return sessionsLoadedMsg{sessions: sessions}
	}
}

// copySession puts the session on the clipboard as one CSV data line
func copySession(s models.Session) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: clipboardWrite(csvio.Line(s))}
	}
}
