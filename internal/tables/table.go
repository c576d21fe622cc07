/**
 * Table model, header cleaning and validation
 *
 * A Table carries both the raw grid (headers + rows) and the keyed
 * record view used by exports and statistics. Validation never blocks
 * a table from being returned; it flags problems and produces a
 * cleaned copy with unique headers.
 */

package tables

import (
	"fmt"
	"strings"
)

// Record is one table row keyed by header.
type Record map[string]string

// Table is a parsed tabular structure.
type Table struct {
	ID        string     `json:"id"`
	Headers   []string   `json:"headers"`
	Rows      [][]string `json:"rows"`
	Columns   int        `json:"columns"`
	Data      []Record   `json:"data"`
	SheetName string     `json:"sheet_name,omitempty"`
	Delimiter string     `json:"delimiter,omitempty"`
}

// Validation issue reasons.
const (
	IssueNoData                  = "no_data"
	IssueInconsistentColumnCount = "inconsistent_column_count"
	IssueMissingOrEmptyHeaders   = "missing_or_empty_headers"
	IssueDuplicateHeaders        = "duplicate_headers"
)

// Validation is the outcome of checking one table.
type Validation struct {
	IsValid bool     `json:"is_valid"`
	Issues  []string `json:"issues,omitempty"`
	Cleaned *Table   `json:"-"`
}

// buildRecords maps each row onto the headers, tolerating ragged
// rows: short rows omit trailing keys, overflow cells get synthesized
// Column_N keys.
func buildRecords(headers []string, rows [][]string) []Record {
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec := make(Record, len(row))
		for i, cell := range row {
			if i < len(headers) {
				rec[headers[i]] = cell
			} else {
				rec[fmt.Sprintf("Column_%d", i+1)] = cell
			}
		}
		records = append(records, rec)
	}
	return records
}

// DedupHeaders makes header names unique by suffixing repeats with
// _2, _3 and so on, counting per base name.
func DedupHeaders(headers []string) []string {
	seen := make(map[string]int, len(headers))
	out := make([]string, len(headers))
	for i, h := range headers {
		seen[h]++
		if seen[h] == 1 {
			out[i] = h
		} else {
			out[i] = fmt.Sprintf("%s_%d", h, seen[h])
		}
	}
	return out
}

// Validate flags structural problems and always returns a cleaned
// copy with de-duplicated headers and rebuilt records. Issues never
// prevent the cleaned table from being usable.
func Validate(t *Table) Validation {
	var issues []string

	if len(t.Rows) == 0 {
		issues = append(issues, IssueNoData)
	}

	for _, row := range t.Rows {
		if len(row) != len(t.Headers) {
			issues = append(issues, IssueInconsistentColumnCount)
			break
		}
	}

	if len(t.Headers) == 0 {
		issues = append(issues, IssueMissingOrEmptyHeaders)
	} else {
		for _, h := range t.Headers {
			if strings.TrimSpace(h) == "" {
				issues = append(issues, IssueMissingOrEmptyHeaders)
				break
			}
		}
	}

	seen := make(map[string]bool, len(t.Headers))
	for _, h := range t.Headers {
		if seen[h] {
			issues = append(issues, IssueDuplicateHeaders)
			break
		}
		seen[h] = true
	}

	cleaned := *t
	cleaned.Headers = DedupHeaders(t.Headers)
	cleaned.Columns = len(cleaned.Headers)
	cleaned.Data = buildRecords(cleaned.Headers, cleaned.Rows)

	return Validation{
		IsValid: len(issues) == 0,
		Issues:  issues,
		Cleaned: &cleaned,
	}
}
