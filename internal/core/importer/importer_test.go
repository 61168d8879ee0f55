package importer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/neilberkman/breatheless/internal/core/csvio"
	"github.com/neilberkman/breatheless/internal/core/db"
	"github.com/neilberkman/breatheless/internal/core/localtime"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func setup(t *testing.T) (*db.DB, *Importer) {
	t.Helper()
	tmpfile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = tmpfile.Close()
	}()
	t.Cleanup(func() {
		_ = os.Remove(tmpfile.Name())
	})

	database, err := db.New(tmpfile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	parser := csvio.NewParser(csvio.WithZone(localtime.UTC))
	return database, New(database, parser)
}

func countSessions(t *testing.T, database *db.DB) int {
	t.Helper()
	var count int
	if err := database.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&count); err != nil {
		t.Fatal(err)
	}
	return count
}

func TestImportFile(t *testing.T) {
	database, imp := setup(t)

	rep, err := imp.ImportFile("testdata/current.csv", Options{})
	if err != nil {
		t.Fatalf("ImportFile() error = %v", err)
	}

	if !rep.Valid || rep.Imported != 3 || rep.Skipped != 0 {
		t.Errorf("report = %+v, want 3 imported", rep)
	}
	if rep.Schema.Version != csvio.SchemaCurrent.Version {
		t.Errorf("schema = %s, want current", rep.Schema.Name)
	}
	if got := countSessions(t, database); got != 3 {
		t.Errorf("Expected 3 sessions, got %d", got)
	}

	entries, err := database.RecentImports(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Status != db.ImportSuccess || entries[0].SessionsImported != 3 {
		t.Errorf("import log = %+v", entries)
	}
}

func TestImportFile_SkipsAlreadyImported(t *testing.T) {
	database, imp := setup(t)

	if _, err := imp.ImportFile("testdata/current.csv", Options{}); err != nil {
		t.Fatal(err)
	}

	rep, err := imp.ImportFile("testdata/current.csv", Options{})
	if err != nil {
		t.Fatalf("second ImportFile() error = %v", err)
	}
	if !rep.AlreadyImported {
		t.Error("Expected second import to be skipped")
	}
	if got := countSessions(t, database); got != 3 {
		t.Errorf("Expected 3 sessions after duplicate import, got %d", got)
	}

	// Force decodes again; ids are fresh so the rows are added a second time
	rep, err = imp.ImportFile("testdata/current.csv", Options{Force: true})
	if err != nil {
		t.Fatal(err)
	}
	if rep.AlreadyImported || rep.Imported != 3 {
		t.Errorf("forced report = %+v", rep)
	}
	if got := countSessions(t, database); got != 6 {
		t.Errorf("Expected 6 sessions after forced import, got %d", got)
	}
}

func TestImportFile_Mixed(t *testing.T) {
	database, imp := setup(t)

	rep, err := imp.ImportFile("testdata/mixed.csv", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !rep.Valid || rep.Imported != 2 || rep.Skipped != 2 || len(rep.Errors) != 2 {
		t.Fatalf("report = %+v", rep)
	}
	if !strings.Contains(rep.Errors[0], "Row 3") || !strings.Contains(rep.Errors[0], "Invalid UTC datetime") {
		t.Errorf("first error = %q", rep.Errors[0])
	}
	if !strings.Contains(rep.Errors[1], "Row 4") || !strings.Contains(rep.Errors[1], "Expected 13 columns") {
		t.Errorf("second error = %q", rep.Errors[1])
	}

	entries, _ := database.RecentImports(1)
	if len(entries) != 1 || entries[0].Status != db.ImportPartial || entries[0].RowsSkipped != 2 {
		t.Errorf("import log = %+v", entries)
	}
}

func TestImportFile_Strict(t *testing.T) {
	database, imp := setup(t)

	rep, err := imp.ImportFile("testdata/mixed.csv", Options{Strict: true})
	if err != nil {
		t.Fatal(err)
	}
	if rep.Valid || rep.Imported != 0 {
		t.Errorf("strict report = %+v", rep)
	}
	if got := countSessions(t, database); got != 0 {
		t.Errorf("strict import wrote %d sessions", got)
	}

	// A failed import does not block a later attempt
	rep, err = imp.ImportFile("testdata/mixed.csv", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if rep.AlreadyImported || rep.Imported != 2 {
		t.Errorf("retry report = %+v", rep)
	}
}

func TestImportFile_DryRun(t *testing.T) {
	database, imp := setup(t)

	rep, err := imp.ImportFile("testdata/current.csv", Options{DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	if !rep.Valid || rep.Sessions != 3 || rep.Imported != 0 {
		t.Errorf("dry run report = %+v", rep)
	}
	if got := countSessions(t, database); got != 0 {
		t.Errorf("dry run wrote %d sessions", got)
	}
	if entries, _ := database.RecentImports(5); len(entries) != 0 {
		t.Errorf("dry run logged %d imports", len(entries))
	}
}

func TestImportFile_BadHeader(t *testing.T) {
	database, imp := setup(t)

	rep, err := imp.ImportFile("testdata/bad_header.csv", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if rep.Valid || len(rep.Errors) != 3 {
		t.Errorf("report = %+v", rep)
	}
	if rep.Errors[0] != "CSV headers do not match expected format" {
		t.Errorf("first error = %q", rep.Errors[0])
	}

	entries, _ := database.RecentImports(1)
	if len(entries) != 1 || entries[0].Status != db.ImportFailed {
		t.Errorf("import log = %+v", entries)
	}
}

func TestImportFile_Legacy(t *testing.T) {
	database, imp := setup(t)

	rep, err := imp.ImportFile("testdata/legacy_v1.csv", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if rep.Imported != 2 || rep.Schema.Version != csvio.SchemaV1.Version {
		t.Fatalf("report = %+v", rep)
	}

	all, err := database.GetAllSessions()
	if err != nil {
		t.Fatal(err)
	}
	if all[0].LocalDate != "2024-01-15" || all[0].LocalTime != "20:30" || all[0].Note != "first export" {
		t.Errorf("first session = %+v", all[0])
	}
}

func TestImportFile_Missing(t *testing.T) {
	_, imp := setup(t)

	if _, err := imp.ImportFile("testdata/does-not-exist.csv", Options{}); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestImportDirectory(t *testing.T) {
	database, imp := setup(t)

	dir := t.TempDir()
	for _, name := range []string{"current.csv", "legacy_v1.csv"} {
		data, err := os.ReadFile(filepath.Join("testdata", name))
		if err != nil {
			t.Fatal(err)
		}
		if err := os.MkdirAll(filepath.Join(dir, "nested"), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "nested", name), data, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	files, err := FindCSVFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("FindCSVFiles() = %v", files)
	}

	reports := imp.ImportFiles(files, Options{}, NewProgressReporter(&out, len(files)))
	if len(reports) != 2 {
		t.Fatalf("reports = %d, want 2", len(reports))
	}
	if got := countSessions(t, database); got != 5 {
		t.Errorf("Expected 5 sessions, got %d", got)
	}
	if !strings.Contains(out.String(), "(2/2)") || !strings.Contains(out.String(), "Completed") {
		t.Errorf("progress output = %q", out.String())
	}

	// Second pass finds everything already imported
	reports, err = imp.ImportDirectory(dir, Options{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, rep := range reports {
		if !rep.AlreadyImported {
			t.Errorf("%s imported twice", rep.File)
		}
	}
}

func TestImportText(t *testing.T) {
	database, imp := setup(t)

	text := csvio.HeaderLine() + "\n2026-01-08T07:00:00.000Z,,,,mcp,,,19,,,,,"
	rep, err := imp.ImportText("mcp", text, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if rep.Imported != 1 {
		t.Errorf("report = %+v", rep)
	}
	if got := countSessions(t, database); got != 1 {
		t.Errorf("Expected 1 session, got %d", got)
	}
}

func TestImportFile_StoreFailureLogsRecordError(t *testing.T) {
	database, imp := setup(t)
	logger, hook := test.NewNullLogger()
	imp.log = logger

	if err := database.Close(); err != nil {
		t.Fatal(err)
	}

	rep, err := imp.ImportFile("testdata/current.csv", Options{Force: true})
	if err == nil {
		t.Fatal("Expected error storing into a closed database")
	}
	if rep == nil || len(rep.Errors) == 0 {
		t.Errorf("report = %+v", rep)
	}

	var logged bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel && e.Message == "failed to record import" && e.Data[logrus.ErrorKey] != nil {
			logged = true
		}
	}
	if !logged {
		t.Errorf("import log failure was not logged; entries = %d", len(hook.AllEntries()))
	}
}
