/**
 * Markup table extraction
 *
 * Parses HTML/XML markup and extracts every <table> element. Headers
 * come from the first row of <th> cells when present, otherwise from
 * the first row, otherwise synthesized Column_N names. Nested tables
 * are flattened in document order.
 */

package tables

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseMarkup extracts all tables from an HTML or XML document.
func ParseMarkup(r io.Reader) ([]*Table, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var nodes []*html.Node
	collectTableNodes(doc, &nodes)

	out := make([]*Table, 0, len(nodes))
	for i, n := range nodes {
		if t := parseTableNode(n, i); t != nil {
			out = append(out, t)
		}
	}
	return out, nil
}

func collectTableNodes(n *html.Node, out *[]*html.Node) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Table {
		*out = append(*out, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectTableNodes(c, out)
	}
}

// parseTableNode flattens one <table> into headers and rows.
func parseTableNode(table *html.Node, index int) *Table {
	var headerRow []string
	var rows [][]string

	var walkRows func(n *html.Node)
	walkRows = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Tr {
			cells, isHeader := parseRowNode(n)
			if len(cells) == 0 {
				return
			}
			if isHeader && headerRow == nil && len(rows) == 0 {
				headerRow = cells
			} else {
				rows = append(rows, cells)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walkRows(c)
		}
	}
	walkRows(table)

	if headerRow == nil && len(rows) > 0 {
		headerRow = rows[0]
		rows = rows[1:]
	}
	if headerRow == nil {
		return nil
	}

	if allBlank(headerRow) {
		for i := range headerRow {
			headerRow[i] = fmt.Sprintf("Column_%d", i+1)
		}
	}

	t := &Table{
		ID:      fmt.Sprintf("table_%d", index+1),
		Headers: headerRow,
		Rows:    rows,
	}
	t.Columns = len(t.Headers)
	t.Data = buildRecords(t.Headers, t.Rows)
	return t
}

// parseRowNode collects the cell texts of one <tr>. The row is a
// header row when every cell is a <th>.
func parseRowNode(tr *html.Node) ([]string, bool) {
	var cells []string
	allHeader := true
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.Th:
			cells = append(cells, nodeText(c))
		case atom.Td:
			cells = append(cells, nodeText(c))
			allHeader = false
		}
	}
	return cells, allHeader && len(cells) > 0
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

func allBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
