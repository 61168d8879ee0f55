package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/neilberkman/breatheless/internal/core/db"
	"github.com/neilberkman/breatheless/internal/core/exercises"
	"github.com/neilberkman/breatheless/internal/core/models"
	"github.com/neilberkman/breatheless/internal/core/search"
)

type viewMode int

const (
	listView viewMode = iota
	detailView
	filterView
	helpView
)

// Options configures the browser
type Options struct {
	Search       *search.Parser
	PulseTracker bool
	Limit        int
}

type Model struct {
	db       *db.DB
	search   *search.Parser
	registry *exercises.Registry
	mode     viewMode
	prevMode viewMode
	list     list.Model
	viewport viewport.Model
	filter   textinput.Model
	width    int
	height   int
	err      error
	status   string
	now      func() time.Time

	pulse bool
	limit int
	query string

	// list is unusable until the first load creates it
	listReady bool

	sessions       []models.Session
	currentSession *models.Session
}

func New(database *db.DB, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "type:mcp after:last-week tired"
	ti.CharLimit = 200

	if opts.Search == nil {
		opts.Search = search.NewParser(time.Local)
	}
	if opts.Limit <= 0 {
		opts.Limit = 500
	}

	return Model{
		db:       database,
		search:   opts.Search,
		registry: exercises.NewRegistry(),
		mode:     listView,
		filter:   ti,
		now:      time.Now,
		pulse:    opts.PulseTracker,
		limit:    opts.Limit,
	}
}

func (m Model) Init() tea.Cmd {
	return loadSessions(m.db, m.search, m.query, m.limit)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.listReady {
			m.list.SetSize(m.width, m.height-1)
		}
		if m.currentSession != nil {
			m.viewport = createViewport(*m.currentSession, m.registry, m.pulse, m.width, m.height)
		}
		return m, nil

	case tea.KeyMsg:
		// The filter prompt takes every key it can
		if m.mode == filterView {
			return m.updateFilter(msg)
		}

		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if m.mode == listView {
				return m, tea.Quit
			}
			// In other views, go back to list
			m.mode = listView
			return m, nil
		case "?":
			if m.mode == helpView {
				m.mode = m.prevMode
				return m, nil
			}
			m.prevMode = m.mode
			m.mode = helpView
			return m, nil
		}

		// Mode-specific key handling
		switch m.mode {
		case listView:
			return m.updateList(msg)
		case detailView:
			return m.updateDetail(msg)
		case helpView:
			return m.updateHelp(msg)
		}

	case sessionsLoadedMsg:
		m.err = nil
		m.sessions = msg.sessions
		m.list = createSessionList(msg.sessions, m.now(), m.width, m.height)
		m.listReady = true
		return m, nil

	case filterErrMsg:
		m.status = errorStyle.Render("Bad filter: " + msg.err.Error())
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.status = errorStyle.Render("Clipboard unavailable: " + msg.err.Error())
		} else {
			m.status = statusStyle.Render("Copied session as CSV")
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit"
	}

	switch m.mode {
	case listView:
		return m.viewList()
	case detailView:
		return m.viewDetail()
	case filterView:
		return m.viewFilter()
	case helpView:
		return m.viewHelp()
	}

	return ""
}
