/**
 * Exporter and workbook round-trip tests
 */

package tables

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleTable(id string) *Table {
	t := &Table{
		ID:      id,
		Headers: []string{"Name", "Age"},
		Rows:    [][]string{{"John", "30"}, {"Jane", "28"}},
	}
	t.Columns = 2
	t.Data = buildRecords(t.Headers, t.Rows)
	return t
}

func TestExportCSVSingle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, ExportCSV([]*Table{sampleTable("t1")}, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Name,Age\nJohn,30\nJane,28\n", string(data))
}

func TestExportCSVMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	require.NoError(t, ExportCSV([]*Table{sampleTable("t1"), sampleTable("t2")}, path))

	assert.FileExists(t, filepath.Join(dir, "out_1.csv"))
	assert.FileExists(t, filepath.Join(dir, "out_2.csv"))
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, ExportJSON([]*Table{sampleTable("t1")}, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []struct {
		ID      string   `json:"id"`
		Headers []string `json:"headers"`
		Data    []Record `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "t1", decoded[0].ID)
	assert.Equal(t, Record{"Name": "John", "Age": "30"}, decoded[0].Data[0])
}

func TestExportXLSXRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, ExportXLSX([]*Table{sampleTable("t1")}, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	parsed, err := ParseWorkbook(bytes.NewReader(data), SheetOptions{})
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.Equal(t, []string{"Name", "Age"}, parsed[0].Headers)
	assert.Equal(t, [][]string{{"John", "30"}, {"Jane", "28"}}, parsed[0].Rows)
}

func TestExportMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.md")
	require.NoError(t, ExportMarkdown([]*Table{sampleTable("t1")}, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"| Name | Age |\n| --- | --- |\n| John | 30 |\n| Jane | 28 |\n",
		string(data))
}

func TestExportUnknownFormat(t *testing.T) {
	err := Export([]*Table{sampleTable("t1")}, "parquet", "out")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown export format")
}

func TestParseWorkbookSheets(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "People"))
	require.NoError(t, f.SetCellValue("People", "A1", " Name "))
	require.NoError(t, f.SetCellValue("People", "B1", "Age"))
	require.NoError(t, f.SetCellValue("People", "A2", "John"))
	require.NoError(t, f.SetCellValue("People", "B2", "30"))
	// fully empty row 3, then another data row
	require.NoError(t, f.SetCellValue("People", "A4", "Jane"))
	require.NoError(t, f.SetCellValue("People", "B4", "28"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	ts, err := ParseWorkbook(bytes.NewReader(buf.Bytes()), SheetOptions{})
	require.NoError(t, err)
	require.Len(t, ts, 1)
	tbl := ts[0]
	assert.Equal(t, "sheet_People", tbl.ID)
	assert.Equal(t, "People", tbl.SheetName)
	assert.Equal(t, []string{"Name", "Age"}, tbl.Headers, "header labels are trimmed")
	assert.Len(t, tbl.Rows, 2, "empty rows are dropped")
}

func TestParseWorkbookHeaderRowOffset(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Quarterly Report"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "Name"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", "Total"))
	require.NoError(t, f.SetCellValue("Sheet1", "A3", "John"))
	require.NoError(t, f.SetCellValue("Sheet1", "B3", "100"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	ts, err := ParseWorkbook(bytes.NewReader(buf.Bytes()), SheetOptions{SkipRows: 1})
	require.NoError(t, err)
	require.Len(t, ts, 1)
	assert.Equal(t, []string{"Name", "Total"}, ts[0].Headers)
	assert.Equal(t, [][]string{{"John", "100"}}, ts[0].Rows)
}
