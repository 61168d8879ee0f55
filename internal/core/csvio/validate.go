package csvio

import (
	"strings"

	"github.com/neilberkman/breatheless/internal/core/models"
)

// Result is the outcome of validating and decoding a whole file
type Result struct {
	IsValid     bool
	Errors      []string
	Sessions    []models.Session
	SkippedRows int
	Schema      Schema
}

// Parse validates text with a default Parser
func Parse(text string) Result {
	return NewParser().ValidateAndParse(text)
}

// ValidateAndParse checks the header then decodes every data row, collecting
// row failures instead of stopping at the first. A header-only file is valid
// with no sessions.
func (p *Parser) ValidateAndParse(text string) Result {
	res := Result{
		Errors:   []string{},
		Sessions: []models.Session{},
	}

	rows := Tokenize(text)
	if len(rows) == 0 {
		res.Errors = append(res.Errors, "CSV file is empty")
		return res
	}

	schema, ok := p.headerSchema(rows[0])
	if !ok {
		res.Errors = append(res.Errors,
			"CSV headers do not match expected format",
			"Expected: "+strings.Join(SchemaCurrent.Columns, ", "),
			"Found: "+strings.Join(rows[0], ", "),
		)
		return res
	}
	res.Schema = schema

	for i := 1; i < len(rows); i++ {
		s, err := p.DecodeRowAs(rows[i], i, schema)
		if err != nil {
			res.Errors = append(res.Errors, err.Error())
			res.SkippedRows++
			continue
		}
		res.Sessions = append(res.Sessions, s)
	}

	res.IsValid = len(res.Sessions) > 0 || len(rows) == 1
	return res
}

func (p *Parser) headerSchema(headers []string) (Schema, bool) {
	if !p.legacy {
		return SchemaCurrent, ValidateHeaders(headers)
	}
	return DetectSchema(headers)
}
