// Package daemon watches a directory for new CSV exports and imports them
// as they appear.
package daemon

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/neilberkman/breatheless/internal/core/importer"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultSettle is how long a file must stay unchanged before it is imported
const DefaultSettle = 500 * time.Millisecond

// Stats tracks watcher activity
type Stats struct {
	StartTime     time.Time
	FilesImported int
	Sessions      int
	LastImport    time.Time
	Errors        int
}

// Watcher imports CSV files written into a directory tree
type Watcher struct {
	importer  *importer.Importer
	watcher   *fsnotify.Watcher
	watchPath string
	opts      importer.Options
	settle    time.Duration
	log       logrus.FieldLogger

	// importMu serialises imports so a hash is logged before the next check
	importMu sync.Mutex

	mu      sync.Mutex
	stats   Stats
	pending map[string]*time.Timer
	stopped bool
	// inflight counts settled imports still running
	inflight sync.WaitGroup
	// OnReport is called after each import attempt
	OnReport func(*importer.Report)
}

// New creates a watcher for watchPath. The directory must exist.
func New(imp *importer.Importer, watchPath string, opts importer.Options) (*Watcher, error) {
	info, err := os.Stat(watchPath)
	if err != nil {
		return nil, errors.Wrapf(err, "watch path %s", watchPath)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("watch path %s is not a directory", watchPath)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create file watcher")
	}

	return &Watcher{
		importer:  imp,
		watcher:   fw,
		watchPath: watchPath,
		opts:      opts,
		settle:    DefaultSettle,
		log:       logrus.WithField("component", "watch"),
		pending:   make(map[string]*time.Timer),
		stats:     Stats{StartTime: time.Now()},
	}, nil
}

// SetSettle changes the quiet period before a changed file is imported
func (w *Watcher) SetSettle(d time.Duration) {
	w.settle = d
}

// Stats returns a snapshot of the counters
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// Run imports existing files, then watches until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		_ = w.watcher.Close()
		w.stopPending()
	}()

	if err := w.setupWatches(); err != nil {
		return errors.Wrap(err, "failed to setup watches")
	}
	w.log.WithField("path", w.watchPath).Info("watching for exports")

	files, err := importer.FindCSVFiles(w.watchPath)
	if err != nil {
		return err
	}
	for _, f := range files {
		w.importFile(f)
	}

	for {
		select {
		case <-ctx.Done():
			w.log.Info("watcher shutting down")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New("watcher closed unexpectedly")
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New("watcher error channel closed")
			}
			w.log.WithError(err).Warn("watcher error")
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
		}
	}
}

// setupWatches adds every directory below the watch path
func (w *Watcher) setupWatches() error {
	return filepath.Walk(w.watchPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if err := w.watcher.Add(path); err != nil {
				return errors.Wrapf(err, "failed to watch %s", path)
			}
		}
		return nil
	})
}

func isCSV(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv") && !strings.HasPrefix(filepath.Base(name), ".")
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watcher.Add(event.Name); err != nil {
				w.log.WithError(err).WithField("path", event.Name).Warn("failed to watch new directory")
			}
			return
		}
	}

	if !isCSV(event.Name) {
		return
	}
	if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Rename) {
		w.schedule(event.Name)
	}
}

// schedule imports path once it has been quiet for the settle period.
// Browsers write downloads in several chunks.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	if t, ok := w.pending[path]; ok {
		t.Reset(w.settle)
		return
	}
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		if w.stopped {
			w.mu.Unlock()
			return
		}
		delete(w.pending, path)
		w.inflight.Add(1)
		w.mu.Unlock()

		defer w.inflight.Done()
		w.importFile(path)
	})
}

// stopPending cancels timers that have not fired and waits for imports
// already under way. Nothing is imported once it returns.
func (w *Watcher) stopPending() {
	w.mu.Lock()
	w.stopped = true
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	w.inflight.Wait()
}

func (w *Watcher) importFile(path string) {
	if _, err := os.Stat(path); err != nil {
		// Renamed away or deleted before it settled
		return
	}

	log := w.log.WithField("file", path)
	w.importMu.Lock()
	rep, err := w.importer.ImportFile(path, w.opts)
	w.importMu.Unlock()

	w.mu.Lock()
	switch {
	case err != nil:
		w.stats.Errors++
	case rep.AlreadyImported:
	case rep.Valid && !rep.DryRun:
		w.stats.FilesImported++
		w.stats.Sessions += rep.Imported
		w.stats.LastImport = time.Now()
	}
	onReport := w.OnReport
	w.mu.Unlock()

	if err != nil {
		log.WithError(err).Warn("import failed")
		return
	}
	if !rep.AlreadyImported {
		log.WithFields(logrus.Fields{"imported": rep.Imported, "skipped": rep.Skipped}).Info("imported export")
	}
	if onReport != nil {
		onReport(rep)
	}
}
