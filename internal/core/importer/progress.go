package importer

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ProgressCallback defines the interface for progress reporting
type ProgressCallback interface {
	Update(file string, detail string)
	Finish()
}

// ProgressReporter draws a bar with one step per imported file
type ProgressReporter struct {
	writer    io.Writer
	total     int
	current   int
	startTime time.Time
}

// NewProgressReporter creates a new progress reporter
func NewProgressReporter(w io.Writer, total int) *ProgressReporter {
	return &ProgressReporter{
		writer:    w,
		total:     total,
		startTime: time.Now(),
	}
}

// Update advances the bar and shows the file just handled
func (p *ProgressReporter) Update(file string, detail string) {
	p.current++
	if p.total <= 0 {
		return
	}

	pct := float64(p.current) / float64(p.total) * 100

	barWidth := 40
	filled := min(barWidth, int(float64(barWidth)*float64(p.current)/float64(p.total)))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	displayText := file
	if detail != "" {
		displayText += ": " + detail
	}
	if len(displayText) > 60 {
		displayText = displayText[:57] + "..."
	}

	_, _ = fmt.Fprintf(p.writer, "\r[%s] %3.0f%% (%d/%d) | %-60s",
		bar, pct, p.current, p.total, displayText)
}

// Finish completes the progress display
func (p *ProgressReporter) Finish() {
	elapsed := time.Since(p.startTime)
	_, _ = fmt.Fprintf(p.writer, "\nCompleted: processed %d files in %s\n", p.current, elapsed.Round(time.Millisecond))
}

// describe is the one-line outcome shown next to the bar
func describe(rep *Report) string {
	switch {
	case rep.AlreadyImported:
		return "already imported"
	case !rep.Valid:
		return "rejected"
	case rep.DryRun:
		return fmt.Sprintf("%d valid, %d skipped", rep.Sessions, rep.Skipped)
	default:
		return fmt.Sprintf("%d imported, %d skipped", rep.Imported, rep.Skipped)
	}
}
