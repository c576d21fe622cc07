/**
 * Table exporters
 *
 * Serializes extracted tables to delimited text, JSON records, a
 * spreadsheet workbook or markdown. Multi-table CSV export writes one
 * file per table with a numeric suffix.
 */

package tables

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Supported export formats.
const (
	FormatCSV      = "csv"
	FormatJSON     = "json"
	FormatXLSX     = "xlsx"
	FormatMarkdown = "markdown"
)

// Export writes tables to path in the requested format.
func Export(ts []*Table, format, path string) error {
	switch format {
	case FormatCSV:
		return ExportCSV(ts, path)
	case FormatJSON:
		return ExportJSON(ts, path)
	case FormatXLSX:
		return ExportXLSX(ts, path)
	case FormatMarkdown:
		return ExportMarkdown(ts, path)
	default:
		return fmt.Errorf("unknown export format: %s", format)
	}
}

// ExportCSV writes one CSV file per table. A single table goes to
// path directly; multiple tables get _1, _2 suffixes before the
// extension.
func ExportCSV(ts []*Table, path string) error {
	for i, t := range ts {
		target := path
		if len(ts) > 1 {
			ext := filepath.Ext(path)
			target = fmt.Sprintf("%s_%d%s", strings.TrimSuffix(path, ext), i+1, ext)
		}
		if err := writeCSV(t, target); err != nil {
			return err
		}
	}
	return nil
}

func writeCSV(t *Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Headers); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ExportJSON writes all tables as one JSON document of keyed records.
func ExportJSON(ts []*Table, path string) error {
	type jsonTable struct {
		ID      string   `json:"id"`
		Headers []string `json:"headers"`
		Data    []Record `json:"data"`
	}

	out := make([]jsonTable, 0, len(ts))
	for _, t := range ts {
		out = append(out, jsonTable{ID: t.ID, Headers: t.Headers, Data: t.Data})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportXLSX writes all tables into one workbook, one sheet per table.
func ExportXLSX(ts []*Table, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, t := range ts {
		sheet := t.SheetName
		if sheet == "" {
			sheet = fmt.Sprintf("Table%d", i+1)
		}
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return err
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return err
			}
		}

		for col, h := range t.Headers {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, h); err != nil {
				return err
			}
		}
		for rowIdx, row := range t.Rows {
			for col, v := range row {
				cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return err
				}
			}
		}
	}

	return f.SaveAs(path)
}

// ExportMarkdown writes all tables as pipe-delimited markdown.
func ExportMarkdown(ts []*Table, path string) error {
	var sb strings.Builder
	for i, t := range ts {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(RenderMarkdown(t))
	}
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

// RenderMarkdown renders one table as a markdown string.
func RenderMarkdown(t *Table) string {
	var sb strings.Builder
	sb.WriteString("| " + strings.Join(t.Headers, " | ") + " |\n")

	sep := make([]string, len(t.Headers))
	for i := range sep {
		sep[i] = "---"
	}
	sb.WriteString("| " + strings.Join(sep, " | ") + " |\n")

	for _, row := range t.Rows {
		cells := make([]string, len(t.Headers))
		for i := range cells {
			if i < len(row) {
				cells[i] = row[i]
			}
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return sb.String()
}
