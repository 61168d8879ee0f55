package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"
	"github.com/neilberkman/breatheless/internal/core/csvio"
	"github.com/neilberkman/breatheless/internal/core/exercises"
	"github.com/neilberkman/breatheless/internal/core/models"
)

type detailKeymap struct {
	Back,
	Copy,
	Top,
	Bottom key.Binding
}

// FullHelp implements help.KeyMap.
func (k detailKeymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// ShortHelp implements help.KeyMap.
func (k detailKeymap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Back,
		k.Copy,
		key.NewBinding(
			key.WithKeys("up", "down"),
			key.WithHelp("↓↑", "scroll"),
		),
		k.Top,
		k.Bottom,
	}
}

func defaultDetailKeymap() detailKeymap {
	return detailKeymap{
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy as CSV"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
	}
}

var (
	detailKeys = defaultDetailKeymap()
	detailHelp = help.New()
)

func createViewport(s models.Session, registry *exercises.Registry, pulse bool, width, height int) viewport.Model {
	vp := viewport.New(width, max(height-2, 1))
	vp.SetContent(renderSession(s, registry, pulse, width))
	return vp
}

// renderSession lists every measurement the exercise logs, labelled by
// stage, followed by the stored times and note. Notes wrap at width.
func renderSession(s models.Session, registry *exercises.Registry, pulse bool, width int) string {
	var b strings.Builder

	name := exerciseLabel(s.ExerciseType)
	if ex, err := registry.Get(s.ExerciseType); err == nil {
		name = ex.Name
	}
	b.WriteString(titleStyle.Render(name))
	b.WriteString("\n")
	b.WriteString(timestampStyle.Render(fmt.Sprintf("%s %s %s", s.LocalDate, s.LocalTime, s.Timezone)))
	b.WriteString("\n")
	b.WriteString(timestampStyle.Render("UTC " + s.Date.UTC().Format(csvio.UTCLayout)))
	b.WriteString("\n\n")

	for _, f := range sessionFields(s, pulse) {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-18s", f.label)))
		b.WriteString(f.value)
		b.WriteString("\n")
	}

	if s.Note != "" {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Note"))
		b.WriteString("\n")
		note := s.Note
		if width > 4 {
			note = wordwrap.String(note, width-4)
		}
		b.WriteString(noteStyle.Render(note))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(timestampStyle.Render("id " + s.ID))
	b.WriteString("\n")
	return b.String()
}

type field struct {
	label string
	value string
}

func sessionFields(s models.Session, pulse bool) []field {
	secs := func(v float64) string { return csvio.FormatNumber(v) + "s" }

	var fields []field
	if pulse && s.ExerciseType != models.MCP {
		fields = append(fields, field{"Pulse (start)", csvio.FormatNumber(s.Pulse1)})
	}
	fields = append(fields, field{"Control Pause", secs(s.ControlPause1)})

	switch s.ExerciseType {
	case models.Classical:
		fields = append(fields,
			field{"Max Pause (light)", secs(s.MaxPause1)},
			field{"Max Pause (medium)", secs(s.MaxPause2)},
			field{"Max Pause (full)", secs(s.MaxPause3)},
			field{"Control Pause 2", secs(s.ControlPause2)},
		)
	case models.Diminished:
		fields = append(fields,
			field{"Middle CP", secs(s.MaxPause1)},
			field{"Control Pause 2", secs(s.ControlPause2)},
		)
	}

	if pulse && s.ExerciseType != models.MCP {
		fields = append(fields, field{"Pulse (end)", csvio.FormatNumber(s.Pulse2)})
	}
	return fields
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, detailKeys.Back):
		m.mode = listView
		return m, nil

	case key.Matches(msg, detailKeys.Copy):
		if m.currentSession != nil {
			return m, copySession(*m.currentSession)
		}
		return m, nil

	case key.Matches(msg, detailKeys.Top):
		m.viewport.GotoTop()
		return m, nil

	case key.Matches(msg, detailKeys.Bottom):
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) viewDetail() string {
	helpText := detailHelp.View(detailKeys)
	if m.status != "" {
		helpText = statusStyle.Render(m.status) + " • " + helpText
	}
	return m.viewport.View() + "\n" + helpText
}
