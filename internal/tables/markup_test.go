/**
 * Markup and delimited extraction tests
 */

package tables

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMarkupHeaderCells(t *testing.T) {
	src := `<html><body><table>
		<tr><th>Name</th><th>Age</th></tr>
		<tr><td>John</td><td>30</td></tr>
		<tr><td>Jane</td><td>28</td></tr>
	</table></body></html>`

	ts, err := ParseMarkup(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, ts, 1)
	tbl := ts[0]
	assert.Equal(t, []string{"Name", "Age"}, tbl.Headers)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, Record{"Name": "John", "Age": "30"}, tbl.Data[0])
}

func TestParseMarkupFirstRowFallback(t *testing.T) {
	src := `<table>
		<tr><td>City</td><td>Pop</td></tr>
		<tr><td>Paris</td><td>2.1M</td></tr>
	</table>`

	ts, err := ParseMarkup(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, ts, 1)
	assert.Equal(t, []string{"City", "Pop"}, ts[0].Headers)
	assert.Len(t, ts[0].Rows, 1)
}

func TestParseMarkupTheadTbody(t *testing.T) {
	src := `<table>
		<thead><tr><th>A</th><th>B</th></tr></thead>
		<tbody><tr><td>1</td><td>2</td></tr></tbody>
	</table>`

	ts, err := ParseMarkup(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, ts, 1)
	assert.Equal(t, []string{"A", "B"}, ts[0].Headers)
	assert.Equal(t, [][]string{{"1", "2"}}, ts[0].Rows)
}

func TestParseMarkupMultipleTables(t *testing.T) {
	src := `<table><tr><th>A</th></tr><tr><td>1</td></tr></table>
		<table><tr><th>B</th></tr><tr><td>2</td></tr></table>`

	ts, err := ParseMarkup(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, ts, 2)
	assert.Equal(t, "table_1", ts[0].ID)
	assert.Equal(t, "table_2", ts[1].ID)
}

func TestParseMarkupRaggedRow(t *testing.T) {
	src := `<table>
		<tr><th>A</th><th>B</th></tr>
		<tr><td>1</td><td>2</td><td>3</td></tr>
	</table>`

	ts, err := ParseMarkup(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, ts, 1)
	assert.Equal(t, Record{"A": "1", "B": "2", "Column_3": "3"}, ts[0].Data[0])
}

func TestParseMarkupNoTables(t *testing.T) {
	ts, err := ParseMarkup(strings.NewReader("<p>no tables here</p>"))
	require.NoError(t, err)
	assert.Empty(t, ts)
}

func TestParseMarkupNormalizesWhitespace(t *testing.T) {
	src := `<table><tr><th> Name </th></tr><tr><td>
		John   Smith
	</td></tr></table>`

	ts, err := ParseMarkup(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, ts, 1)
	assert.Equal(t, "John Smith", ts[0].Rows[0][0])
}

func TestParseDelimited(t *testing.T) {
	src := "Name,Age,Dept\nJohn,30,Eng\nJane,28,HR\n"

	tbl, err := ParseDelimited(strings.NewReader(src), 0)
	require.NoError(t, err)
	require.NotNil(t, tbl)
	assert.Equal(t, []string{"Name", "Age", "Dept"}, tbl.Headers)
	assert.Len(t, tbl.Rows, 2)
	assert.Equal(t, Record{"Name": "Jane", "Age": "28", "Dept": "HR"}, tbl.Data[1])
}

func TestParseDelimitedRaggedRecords(t *testing.T) {
	src := "A,B\n1\n1,2,3\n"

	tbl, err := ParseDelimited(strings.NewReader(src), 0)
	require.NoError(t, err)
	assert.Equal(t, Record{"A": "1"}, tbl.Data[0])
	assert.Equal(t, Record{"A": "1", "B": "2", "Column_3": "3"}, tbl.Data[1])
}

func TestParseDelimitedCustomSeparator(t *testing.T) {
	src := "A;B\n1;2\n"

	tbl, err := ParseDelimited(strings.NewReader(src), ';')
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, tbl.Headers)
	assert.Equal(t, ";", tbl.Delimiter)
}

func TestParseDelimitedEmptyInput(t *testing.T) {
	tbl, err := ParseDelimited(strings.NewReader(""), 0)
	require.NoError(t, err)
	assert.Nil(t, tbl)
}
