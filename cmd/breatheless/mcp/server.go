package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/neilberkman/breatheless/internal/core/csvio"
	"github.com/neilberkman/breatheless/internal/core/db"
	"github.com/neilberkman/breatheless/internal/core/importer"
	"github.com/neilberkman/breatheless/internal/core/localtime"
	"github.com/neilberkman/breatheless/internal/core/models"
	"github.com/neilberkman/breatheless/internal/core/search"
	"github.com/sirupsen/logrus"
)

// Options configures the server
type Options struct {
	DBPath      string
	Zone        localtime.Zone
	AllowLegacy bool
}

// ListRecentSessionsArgs defines arguments for the list_recent_sessions tool
type ListRecentSessionsArgs struct {
	Limit int    `json:"limit,omitempty" jsonschema:"description=Max sessions to return (default: 20)"`
	Type  string `json:"type,omitempty" jsonschema:"description=Exercise type: classical, diminished or mcp"`
	Query string `json:"query,omitempty" jsonschema:"description=Filter query, e.g. 'after:last-week tired'"`
}

// SessionsOnDateArgs defines arguments for the sessions_on_date tool
type SessionsOnDateArgs struct {
	Date string `json:"date" jsonschema:"description=Day to list, e.g. 2026-01-08 or yesterday,required"`
}

// ExportCSVArgs defines arguments for the export_csv tool
type ExportCSVArgs struct {
	Type   string `json:"type,omitempty"`
	After  string `json:"after,omitempty"`
	Before string `json:"before,omitempty"`
}

// CSVArgs carries CSV text for validate_csv and import_csv
type CSVArgs struct {
	CSV  string `json:"csv" jsonschema:"required"`
	Name string `json:"name,omitempty"`
}

// ValidationResult is the validate_csv response
type ValidationResult struct {
	IsValid     bool             `json:"isValid"`
	Schema      string           `json:"schema,omitempty"`
	Errors      []string         `json:"errors"`
	SkippedRows int              `json:"skippedRows"`
	Sessions    []models.Session `json:"sessions"`
}

// ImportResult is the import_csv response
type ImportResult struct {
	Valid           bool     `json:"valid"`
	Imported        int      `json:"imported"`
	Skipped         int      `json:"skipped"`
	Errors          []string `json:"errors"`
	AlreadyImported bool     `json:"alreadyImported"`
}

type handlers struct {
	db       *db.DB
	parser   *csvio.Parser
	search   *search.Parser
	importer *importer.Importer
	log      logrus.FieldLogger
}

func newHandlers(database *db.DB, opts Options) *handlers {
	parser := csvio.NewParser(csvio.WithZone(opts.Zone), csvio.WithLegacy(opts.AllowLegacy))
	return &handlers{
		db:       database,
		parser:   parser,
		search:   search.NewParser(opts.Zone.Location),
		importer: importer.New(database, parser),
		log:      logrus.WithField("component", "mcp"),
	}
}

// StartServer starts the MCP server on stdio
func StartServer(opts Options) error {
	database, err := db.New(opts.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := database.Close(); closeErr != nil {
			logrus.WithError(closeErr).Warn("error closing database")
		}
	}()

	return server.ServeStdio(NewServer(database, opts))
}

// NewServer registers the session tools against database
func NewServer(database *db.DB, opts Options) *server.MCPServer {
	h := newHandlers(database, opts)
	s := server.NewMCPServer("Breatheless", "1.0.0")

	s.AddTool(mcp.NewTool("list_recent_sessions",
		mcp.WithDescription("List recent breathing sessions, newest first"),
		mcp.WithNumber("limit",
			mcp.Description("Max sessions to return (default: 20)")),
		mcp.WithString("type",
			mcp.Description("Only this exercise type: classical, diminished or mcp")),
		mcp.WithString("query",
			mcp.Description("Filter query with type:, date:, after:, before: and words matched against notes")),
	), h.listRecentSessions)

	s.AddTool(mcp.NewTool("sessions_on_date",
		mcp.WithDescription("List the sessions recorded on one local day"),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("The day, e.g. '2026-01-08', 'yesterday' or '3 days ago'")),
	), h.sessionsOnDate)

	s.AddTool(mcp.NewTool("export_csv",
		mcp.WithDescription("Export sessions as CSV text in the current format"),
		mcp.WithString("type", mcp.Description("Only this exercise type")),
		mcp.WithString("after", mcp.Description("Only sessions on or after this date")),
		mcp.WithString("before", mcp.Description("Only sessions before this date")),
	), h.exportCSV)

	s.AddTool(mcp.NewTool("validate_csv",
		mcp.WithDescription("Check CSV text and return the sessions it contains, without importing"),
		mcp.WithString("csv", mcp.Required(), mcp.Description("CSV text including the header row")),
	), h.validateCSV)

	s.AddTool(mcp.NewTool("import_csv",
		mcp.WithDescription("Validate CSV text and store its sessions; rows that cannot be read are skipped and reported"),
		mcp.WithString("csv", mcp.Required(), mcp.Description("CSV text including the header row")),
		mcp.WithString("name", mcp.Description("Name recorded in the import log (default: mcp)")),
	), h.importCSV)

	return s
}

func bindArgs(request mcp.CallToolRequest, dst any) error {
	argsBytes, _ := json.Marshal(request.Params.Arguments)
	return json.Unmarshal(argsBytes, dst)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	resultJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
	}
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func (h *handlers) listRecentSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args ListRecentSessionsArgs
	if err := bindArgs(request, &args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	limit := args.Limit
	if limit <= 0 {
		limit = 20
	}

	f, err := h.search.Parse(args.Query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid query: %v", err)), nil
	}
	if args.Type != "" {
		t, ok := models.LookupExerciseType(args.Type)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown exercise type %q", args.Type)), nil
		}
		f.Type = t
	}

	filter := f.DBFilter()
	filter.Limit = limit
	filter.NewestFirst = true
	sessions, err := h.db.ListSessions(filter)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

func (h *handlers) sessionsOnDate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args SessionsOnDateArgs
	if err := bindArgs(request, &args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	day, err := h.search.ParseDate(args.Date)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid date: %v", err)), nil
	}

	sessions, err := h.db.GetSessionsByDate(day, day.Location())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"date":     day.Format(time.DateOnly),
		"sessions": sessions,
		"count":    len(sessions),
	})
}

func (h *handlers) exportCSV(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args ExportCSVArgs
	if err := bindArgs(request, &args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	var filter db.Filter
	if args.Type != "" {
		t, ok := models.LookupExerciseType(args.Type)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown exercise type %q", args.Type)), nil
		}
		filter.Type = t
	}
	for _, bound := range []struct {
		value string
		dst   *time.Time
	}{{args.After, &filter.After}, {args.Before, &filter.Before}} {
		if bound.value == "" {
			continue
		}
		d, err := h.search.ParseDate(bound.value)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid date: %v", err)), nil
		}
		*bound.dst = h.search.StartOfDay(d)
	}

	sessions, err := h.db.ListSessions(filter)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}
	return mcp.NewToolResultText(csvio.Serialize(sessions)), nil
}

func (h *handlers) validateCSV(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args CSVArgs
	if err := bindArgs(request, &args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	res := h.parser.ValidateAndParse(args.CSV)
	return jsonResult(ValidationResult{
		IsValid:     res.IsValid,
		Schema:      res.Schema.Name,
		Errors:      res.Errors,
		SkippedRows: res.SkippedRows,
		Sessions:    res.Sessions,
	})
}

func (h *handlers) importCSV(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args CSVArgs
	if err := bindArgs(request, &args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	name := args.Name
	if name == "" {
		name = "mcp"
	}

	rep, err := h.importer.ImportText(name, args.CSV, importer.Options{})
	if err != nil {
		h.log.WithError(err).Warn("import failed")
		return mcp.NewToolResultError(fmt.Sprintf("import failed: %v", err)), nil
	}

	return jsonResult(ImportResult{
		Valid:           rep.Valid || rep.AlreadyImported,
		Imported:        rep.Imported,
		Skipped:         rep.Skipped,
		Errors:          rep.Errors,
		AlreadyImported: rep.AlreadyImported,
	})
}
