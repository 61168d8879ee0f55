package importer

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/neilberkman/breatheless/internal/core/csvio"
	"github.com/neilberkman/breatheless/internal/core/db"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Options controls a single import
type Options struct {
	// Force re-imports a file whose hash is already in the import log
	Force bool
	// DryRun validates without writing sessions or the import log
	DryRun bool
	// Strict writes nothing from a file with any rejected row
	Strict bool
}

// Report summarises one imported file
type Report struct {
	File            string
	Schema          csvio.Schema
	Valid           bool
	Sessions        int
	Imported        int
	Skipped         int
	Errors          []string
	AlreadyImported bool
	DryRun          bool
}

// Importer handles importing CSV files into the database
type Importer struct {
	db     *db.DB
	parser *csvio.Parser
	log    logrus.FieldLogger
}

// New creates a new importer. A nil parser uses csvio defaults.
func New(database *db.DB, parser *csvio.Parser) *Importer {
	if parser == nil {
		parser = csvio.NewParser()
	}
	return &Importer{db: database, parser: parser, log: logrus.StandardLogger()}
}

// ImportFile validates and stores the sessions in one CSV file
func (i *Importer) ImportFile(path string, opts Options) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}
	return i.ImportText(path, string(data), opts)
}

// ImportText imports CSV text that did not come from a file on disk. name is
// recorded in the import log.
func (i *Importer) ImportText(name, text string, opts Options) (*Report, error) {
	hash := computeHash(strings.NewReader(text))
	rep := &Report{File: name, DryRun: opts.DryRun, Errors: []string{}}
	log := i.log.WithField("file", name)

	if !opts.Force && !opts.DryRun {
		done, err := i.db.WasImported(hash)
		if err != nil {
			return nil, err
		}
		if done {
			log.Debug("already imported, skipping")
			rep.AlreadyImported = true
			return rep, nil
		}
	}

	res := i.parser.ValidateAndParse(text)
	rep.Schema = res.Schema
	rep.Valid = res.IsValid
	rep.Sessions = len(res.Sessions)
	rep.Skipped = res.SkippedRows
	rep.Errors = append(rep.Errors, res.Errors...)

	log = log.WithFields(logrus.Fields{
		"rows":    len(res.Sessions) + res.SkippedRows,
		"skipped": res.SkippedRows,
		"schema":  res.Schema.Name,
	})

	rejected := !res.IsValid || (opts.Strict && res.SkippedRows > 0)
	if rejected {
		log.Warn("file rejected")
		if !opts.DryRun {
			if err := i.record(name, hash, rep, db.ImportFailed); err != nil {
				return rep, err
			}
		}
		rep.Valid = false
		return rep, nil
	}

	if opts.DryRun {
		log.Info("validated")
		return rep, nil
	}

	result, err := i.db.ImportSessions(res.Sessions)
	if err != nil {
		rep.Errors = append(rep.Errors, err.Error())
		if logErr := i.record(name, hash, rep, db.ImportFailed); logErr != nil {
			log.WithError(logErr).Error("failed to record import")
		}
		return rep, errors.Wrap(err, "store sessions")
	}
	rep.Imported = result.Imported
	rep.Errors = append(rep.Errors, result.Errors...)

	status := db.ImportSuccess
	if len(rep.Errors) > 0 {
		status = db.ImportPartial
	}
	log.WithField("imported", rep.Imported).Info("imported")
	return rep, i.record(name, hash, rep, status)
}

func (i *Importer) record(name, hash string, rep *Report, status db.ImportStatus) error {
	return i.db.RecordImport(db.ImportLogEntry{
		FilePath:         name,
		FileHash:         hash,
		SessionsImported: rep.Imported,
		RowsSkipped:      rep.Skipped,
		Status:           status,
		ErrorMessage:     strings.Join(rep.Errors, "\n"),
	})
}

// FindCSVFiles lists *.csv files below dir in lexical order
func FindCSVFiles(dirPath string) ([]string, error) {
	var files []string
	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.EqualFold(filepath.Ext(path), ".csv") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to walk directory")
	}
	sort.Strings(files)
	return files, nil
}

// ImportFiles imports each file in turn. A file that cannot be read is
// logged and skipped; the remaining files are still imported.
func (i *Importer) ImportFiles(files []string, opts Options, progress ProgressCallback) []*Report {
	reports := make([]*Report, 0, len(files))
	for _, file := range files {
		rep, err := i.ImportFile(file, opts)
		if err != nil {
			i.log.WithError(err).WithField("file", file).Warn("failed to import")
			if rep == nil {
				rep = &Report{File: file, Errors: []string{err.Error()}}
			}
		}
		reports = append(reports, rep)

		if progress != nil {
			progress.Update(filepath.Base(file), describe(rep))
		}
	}
	if progress != nil {
		progress.Finish()
	}
	return reports
}

// ImportDirectory imports all CSV files from a directory tree
func (i *Importer) ImportDirectory(dirPath string, opts Options, progress ProgressCallback) ([]*Report, error) {
	files, err := FindCSVFiles(dirPath)
	if err != nil {
		return nil, err
	}
	return i.ImportFiles(files, opts, progress), nil
}

func computeHash(r io.Reader) string {
	hash := sha256.New()
	_, _ = io.Copy(hash, r)
	return hex.EncodeToString(hash.Sum(nil))
}
