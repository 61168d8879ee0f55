// Package csvio reads and writes breathing sessions as CSV.
//
// The reader is line oriented: a quoted field may contain commas and doubled
// quotes but not a newline. A field with an embedded newline is split into two
// rows. Files written by Serialize only contain such a field when a note has a
// line break in it.
package csvio

import "strings"

const byteOrderMark = "\ufeff"

// Tokenize splits text into rows of fields. A leading byte-order mark is
// dropped, blank lines are skipped and each line is trimmed before scanning,
// so empty input yields no rows.
func Tokenize(text string) [][]string {
	text = strings.TrimPrefix(text, byteOrderMark)
	rows := [][]string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rows = append(rows, tokenizeLine(line))
	}
	return rows
}

func tokenizeLine(line string) []string {
	var (
		row    []string
		field  strings.Builder
		quoted bool
	)

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if quoted && i+1 < len(line) && line[i+1] == '"' {
				// escaped quote
				field.WriteByte('"')
				i++
			} else {
				quoted = !quoted
			}
		case c == ',' && !quoted:
			row = append(row, field.String())
			field.Reset()
		default:
			field.WriteByte(c)
		}
	}

	return append(row, field.String())
}
