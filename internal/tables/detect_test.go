/**
 * Text-table detector tests
 */

package tables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectPipeTable(t *testing.T) {
	text := "Name | Age | Dept\nJohn | 30  | Eng\nJane | 28  | HR\n"

	ts := DetectTables(text)
	require.Len(t, ts, 1)
	tbl := ts[0]
	assert.Equal(t, []string{"Name", "Age", "Dept"}, tbl.Headers)
	assert.Len(t, tbl.Rows, 2)
	assert.Equal(t, Record{"Name": "John", "Age": "30", "Dept": "Eng"}, tbl.Data[0])
	assert.Equal(t, "|", tbl.Delimiter)
}

func TestDetectMarkdownStyleSeparator(t *testing.T) {
	text := "| Name | Age |\n|------|-----|\n| John | 30  |\n| Jane | 28  |\n"

	ts := DetectTables(text)
	require.Len(t, ts, 1)
	assert.Equal(t, []string{"Name", "Age"}, ts[0].Headers)
	assert.Len(t, ts[0].Rows, 2)
}

func TestDetectTabTable(t *testing.T) {
	text := "City\tCountry\tPop\nParis\tFrance\t2.1M\nRome\tItaly\t2.8M\n"

	ts := DetectTables(text)
	require.Len(t, ts, 1)
	assert.Equal(t, "\t", ts[0].Delimiter)
	assert.Equal(t, []string{"City", "Country", "Pop"}, ts[0].Headers)
}

func TestDetectMultiSpaceTable(t *testing.T) {
	text := "Item    Qty    Price    Total\nPens    10     1.50     15.00\nPads    5      3.00     15.00\n"

	ts := DetectTables(text)
	require.Len(t, ts, 1)
	assert.Equal(t, "  ", ts[0].Delimiter)
	assert.Equal(t, []string{"Item", "Qty", "Price", "Total"}, ts[0].Headers)
	assert.Len(t, ts[0].Rows, 2)
}

func TestDetectSingleLineBlockDiscarded(t *testing.T) {
	text := "prose here\na | lonely | row\nmore prose\n"
	assert.Empty(t, DetectTables(text))
}

func TestDetectZeroDataRowsDiscarded(t *testing.T) {
	// header plus decorative separator only, no data
	text := "| Name | Age |\n|------|-----|\n"
	assert.Empty(t, DetectTables(text))
}

func TestDetectMultipleBlocks(t *testing.T) {
	text := "| A | B |\n| 1 | 2 |\n\nplain paragraph\n\n| X | Y |\n| 3 | 4 |\n| 5 | 6 |\n"

	ts := DetectTables(text)
	require.Len(t, ts, 2)
	assert.Equal(t, "table_1", ts[0].ID)
	assert.Equal(t, "table_2", ts[1].ID)
	assert.Len(t, ts[1].Rows, 2)
}

func TestDetectRaggedRows(t *testing.T) {
	text := "A | B | C\n| 1 | 2 |\n1 | 2 | 3 | 4\n"

	ts := DetectTables(text)
	require.Len(t, ts, 1)
	tbl := ts[0]

	// short row: trailing key absent
	assert.Equal(t, Record{"A": "1", "B": "2"}, tbl.Data[0])
	// long row: overflow cell gets a synthesized key
	assert.Equal(t, Record{"A": "1", "B": "2", "C": "3", "Column_4": "4"}, tbl.Data[1])
}

func TestDetectDuplicateHeadersDeduped(t *testing.T) {
	text := "Name | Name | Age\nJohn | Johnny | 30\n"

	ts := DetectTables(text)
	require.Len(t, ts, 1)
	assert.Equal(t, []string{"Name", "Name_2", "Age"}, ts[0].Headers)
}

func TestIsTabularLine(t *testing.T) {
	assert.True(t, isTabularLine("a | b | c"))
	assert.True(t, isTabularLine("a\tb\tc"))
	assert.True(t, isTabularLine("a  b  c  d"))
	assert.False(t, isTabularLine("just one | pipe"))
	assert.False(t, isTabularLine("regular prose line"))
	assert.False(t, isTabularLine("two  runs  only"))
}
