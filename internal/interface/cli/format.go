package cli

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/neilberkman/breatheless/internal/core/csvio"
	"github.com/neilberkman/breatheless/internal/core/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("246"))
)

// seconds renders a measurement, blank when not taken
func seconds(v float64) string {
	if v == 0 {
		return "-"
	}
	return csvio.FormatNumber(v)
}

func secondsLabel(v float64) string {
	if v == 0 {
		return "-"
	}
	return csvio.FormatNumber(v) + "s"
}

func truncate(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len([]rune(s)) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen-3]) + "..."
}

// sessionTable lays sessions out as a bordered table. Pulse columns are
// only shown when pulse tracking is on.
func sessionTable(sessions []models.Session, pulse bool, now time.Time) string {
	headers := []string{"Date", "Time", "Type", "CP1", "CP2", "MP1", "MP2", "MP3"}
	if pulse {
		headers = append(headers, "P1", "P2")
	}
	headers = append(headers, "Note", "When")
	whenCol := len(headers) - 1

	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		row := []string{
			s.LocalDate,
			s.LocalTime,
			string(s.ExerciseType),
			seconds(s.ControlPause1),
			seconds(s.ControlPause2),
			seconds(s.MaxPause1),
			seconds(s.MaxPause2),
			seconds(s.MaxPause3),
		}
		if pulse {
			row = append(row, seconds(s.Pulse1), seconds(s.Pulse2))
		}
		row = append(row, truncate(s.Note, 40), humanize.RelTime(s.Date, now, "ago", "from now"))
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == whenCol:
				return dimStyle
			default:
				return cellStyle
			}
		})
	return t.Render()
}
