/**
 * Spreadsheet table extraction
 *
 * Reads workbook files with excelize and emits one Table per sheet.
 * Header labels are trimmed, fully-empty rows are dropped. Optional
 * header-row and skip-rows offsets shift where parsing starts.
 */

package tables

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetOptions adjusts where parsing starts inside each sheet.
type SheetOptions struct {
	// HeaderRow is the zero-based index of the header row.
	HeaderRow int
	// SkipRows drops this many rows before the header row.
	SkipRows int
}

// ParseWorkbook extracts one Table per non-empty sheet.
func ParseWorkbook(r io.Reader, opts SheetOptions) ([]*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []*Table
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheet, err)
		}
		if t := parseSheet(sheet, rows, opts); t != nil {
			out = append(out, t)
		}
	}
	return out, nil
}

func parseSheet(sheet string, rows [][]string, opts SheetOptions) *Table {
	start := opts.SkipRows
	headerIdx := start + opts.HeaderRow
	if headerIdx >= len(rows) {
		return nil
	}

	headers := make([]string, 0, len(rows[headerIdx]))
	for _, h := range rows[headerIdx] {
		headers = append(headers, strings.TrimSpace(h))
	}
	if allBlank(headers) {
		return nil
	}

	var data [][]string
	for _, row := range rows[headerIdx+1:] {
		if allBlank(row) {
			continue
		}
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.TrimSpace(c)
		}
		data = append(data, cells)
	}

	t := &Table{
		ID:        "sheet_" + sheet,
		Headers:   headers,
		Rows:      data,
		SheetName: sheet,
	}
	t.Columns = len(t.Headers)
	t.Data = buildRecords(t.Headers, t.Rows)
	return t
}
