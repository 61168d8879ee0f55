package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/neilberkman/breatheless/internal/core/db"
	"github.com/neilberkman/breatheless/internal/core/exercises"
	"github.com/neilberkman/breatheless/internal/core/models"
	"github.com/neilberkman/breatheless/internal/core/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

func sampleSessions() []models.Session {
	return []models.Session{
		{
			ID: "2", Date: time.Date(2026, 1, 9, 18, 5, 0, 0, time.UTC),
			LocalDate: "2026-01-10", LocalTime: "07:05", Timezone: "Pacific/Auckland",
			ExerciseType: models.MCP, ControlPause1: 22,
		},
		{
			ID: "1", Date: time.Date(2026, 1, 8, 18, 16, 19, 548e6, time.UTC),
			LocalDate: "2026-01-09", LocalTime: "07:16", Timezone: "Pacific/Auckland",
			ExerciseType: models.Classical, Pulse1: 70, Pulse2: 65,
			ControlPause1: 20, ControlPause2: 25, MaxPause1: 30, MaxPause2: 35, MaxPause3: 40,
			Note: "hello, world",
		},
	}
}

func newModel(t *testing.T) Model {
	t.Helper()
	database, err := db.New(filepath.Join(t.TempDir(), "tui.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	_, err = database.ImportSessions(sampleSessions())
	require.NoError(t, err)

	m := New(database, Options{Search: search.NewParser(time.UTC), PulseTracker: true})
	m.now = func() time.Time { return now }
	return m
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

// loaded runs Init and feeds the result back
func loaded(t *testing.T) Model {
	t.Helper()
	m := newModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = update(t, m, m.Init()())
	require.Len(t, m.sessions, 2)
	return m
}

func TestInitLoadsNewestFirst(t *testing.T) {
	m := loaded(t)
	assert.Equal(t, "2", m.sessions[0].ID)
	assert.Contains(t, m.View(), "Morning CP")
}

func TestWindowSizeBeforeLoad(t *testing.T) {
	m := newModel(t)
	assert.NotPanics(t, func() {
		m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
		m, _ = update(t, m, keyPress("j"))
	})
}

func TestEnterShowsDetail(t *testing.T) {
	m := loaded(t)
	m, _ = update(t, m, keyPress("j"))
	m, _ = update(t, m, keyPress("enter"))

	require.Equal(t, detailView, m.mode)
	require.NotNil(t, m.currentSession)
	assert.Equal(t, "1", m.currentSession.ID)

	view := m.View()
	assert.Contains(t, view, "Max Pause (full)")
	assert.Contains(t, view, "Pulse (start)")
	assert.Contains(t, view, "copy as CSV")

	m, _ = update(t, m, keyPress("esc"))
	assert.Equal(t, listView, m.mode)
}

func TestCopySession(t *testing.T) {
	var copied string
	orig := clipboardWrite
	t.Cleanup(func() { clipboardWrite = orig })
	clipboardWrite = func(s string) error {
		copied = s
		return nil
	}

	m := loaded(t)
	m, _ = update(t, m, keyPress("j"))
	_, cmd := update(t, m, keyPress("c"))
	require.NotNil(t, cmd)

	msg := cmd()
	assert.Equal(t, copiedMsg{}, msg)
	assert.Equal(t, `2026-01-08T18:16:19.548Z,2026-01-09,07:16,Pacific/Auckland,classical,70,65,20,25,30,35,40,"hello, world"`, copied)

	m, _ = update(t, m, msg)
	assert.Contains(t, m.status, "Copied")
}

func TestCopySession_Unavailable(t *testing.T) {
	orig := clipboardWrite
	t.Cleanup(func() { clipboardWrite = orig })
	clipboardWrite = func(string) error { return errors.New("no xclip") }

	m := loaded(t)
	_, cmd := update(t, m, keyPress("c"))
	m, _ = update(t, m, cmd())
	assert.Contains(t, m.status, "no xclip")
}

func TestFilter(t *testing.T) {
	m := loaded(t)

	m, _ = update(t, m, keyPress("/"))
	require.Equal(t, filterView, m.mode)

	m, _ = update(t, m, keyPress("type:mcp"))
	m, cmd := update(t, m, keyPress("enter"))
	require.Equal(t, listView, m.mode)
	assert.Equal(t, "type:mcp", m.query)

	m, _ = update(t, m, cmd())
	require.Len(t, m.sessions, 1)
	assert.Equal(t, models.MCP, m.sessions[0].ExerciseType)
	assert.Contains(t, m.View(), "filter: type:mcp")
}

func TestFilter_BadQuery(t *testing.T) {
	m := loaded(t)

	m, _ = update(t, m, keyPress("/"))
	m, _ = update(t, m, keyPress("type:box"))
	m, cmd := update(t, m, keyPress("enter"))
	m, _ = update(t, m, cmd())

	assert.Nil(t, m.err)
	assert.Contains(t, m.status, "Bad filter")
	assert.Len(t, m.sessions, 2)
}

func TestHelpToggle(t *testing.T) {
	m := loaded(t)

	m, _ = update(t, m, keyPress("?"))
	require.Equal(t, helpView, m.mode)
	assert.Contains(t, m.View(), "Copy session to clipboard")

	m, _ = update(t, m, keyPress("?"))
	assert.Equal(t, listView, m.mode)
}

func TestQuit(t *testing.T) {
	m := loaded(t)
	_, cmd := update(t, m, keyPress("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestMeasurementSummary(t *testing.T) {
	s := sampleSessions()
	assert.Equal(t, "CP 22", measurementSummary(s[0]))
	assert.Equal(t, "CP 20/25 · MP 30/35/40 · hello, world", measurementSummary(s[1]))

	item := sessionListItem{session: s[0], now: now}
	assert.True(t, strings.HasPrefix(item.Title(), "2026-01-10 07:05"))
	assert.Contains(t, item.Description(), "ago")
}

func TestRenderSessionWrapsNote(t *testing.T) {
	s := models.Session{
		ID:           "1",
		Date:         time.Date(2026, 1, 8, 18, 16, 19, 0, time.UTC),
		LocalDate:    "2026-01-09",
		LocalTime:    "07:16",
		Timezone:     "Pacific/Auckland",
		ExerciseType: models.MCP,
		Note:         "slept badly after a late dinner and woke twice",
	}

	out := renderSession(s, exercises.NewRegistry(), false, 24)
	assert.Contains(t, out, "Morning Control Pause")
	assert.NotContains(t, out, "slept badly after a late dinner")
	assert.Contains(t, out, "slept badly after a")
	assert.NotContains(t, out, "Pulse (start)")
}
