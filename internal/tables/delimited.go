/**
 * Delimited-text table extraction
 *
 * Standard record parsing where the first record is the header.
 * Variable-length records are accepted and handled by the shared
 * ragged-row policy.
 */

package tables

import (
	"encoding/csv"
	"io"
)

// ParseDelimited reads delimiter-separated records into one Table.
// comma is the field separator; pass 0 for the default.
func ParseDelimited(r io.Reader, comma rune) (*Table, error) {
	reader := csv.NewReader(r)
	if comma != 0 {
		reader.Comma = comma
	}
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	t := &Table{
		ID:        "table_1",
		Headers:   records[0],
		Rows:      records[1:],
		Delimiter: string(reader.Comma),
	}
	t.Columns = len(t.Headers)
	t.Data = buildRecords(t.Headers, t.Rows)
	return t, nil
}
