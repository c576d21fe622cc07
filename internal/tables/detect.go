/**
 * Text-table detector
 *
 * Finds table-like blocks in plain text, including OCR output. A line
 * is tabular when it carries more than one pipe, more than one tab,
 * or more than two multi-space runs. Consecutive tabular lines form a
 * candidate block; blocks of a single line are noise and dropped.
 */

package tables

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	multiSpaceRe = regexp.MustCompile(`  +`)
	separatorRe  = regexp.MustCompile(`^[\|\-\+\s]+$`)
)

// isTabularLine reports whether a line looks like a table row.
func isTabularLine(line string) bool {
	if strings.Count(line, "|") > 1 {
		return true
	}
	if strings.Count(line, "\t") > 1 {
		return true
	}
	return len(multiSpaceRe.FindAllString(line, -1)) > 2
}

// detectDelimiter picks the dominant delimiter of a block from its
// first line, in priority order pipe, tab, multi-space, comma.
func detectDelimiter(firstLine string) string {
	switch {
	case strings.Contains(firstLine, "|"):
		return "|"
	case strings.Contains(firstLine, "\t"):
		return "\t"
	case multiSpaceRe.MatchString(firstLine):
		return "  "
	default:
		return ","
	}
}

// splitLine splits a row on the block delimiter and trims cells.
// Pipe-split empty cells come from leading/trailing pipes and are
// discarded.
func splitLine(line, delimiter string) []string {
	var raw []string
	if delimiter == "  " {
		raw = multiSpaceRe.Split(line, -1)
	} else {
		raw = strings.Split(line, delimiter)
	}

	cells := make([]string, 0, len(raw))
	for _, c := range raw {
		c = strings.TrimSpace(c)
		if delimiter == "|" && c == "" {
			continue
		}
		cells = append(cells, c)
	}
	return cells
}

// DetectTables scans text for table blocks and parses each into a
// cleaned Table. Blocks that produce no data rows are discarded.
func DetectTables(text string) []*Table {
	lines := strings.Split(text, "\n")

	var tableOut []*Table
	var block []string
	tableIndex := 0

	flush := func() {
		if len(block) > 1 {
			if t := parseBlock(block, tableIndex); t != nil {
				tableOut = append(tableOut, t)
				tableIndex++
			}
		}
		block = nil
	}

	for _, line := range lines {
		if isTabularLine(line) {
			block = append(block, line)
		} else {
			flush()
		}
	}
	flush()

	return tableOut
}

// parseBlock parses one candidate block: first parsed line is the
// header, the rest are rows. Decorative separator lines are skipped.
func parseBlock(block []string, index int) *Table {
	delimiter := detectDelimiter(block[0])

	var headers []string
	var rows [][]string
	for _, line := range block {
		if separatorRe.MatchString(line) {
			continue
		}
		cells := splitLine(line, delimiter)
		if len(cells) == 0 {
			continue
		}
		if headers == nil {
			headers = cells
		} else {
			rows = append(rows, cells)
		}
	}

	if len(rows) == 0 {
		return nil
	}

	t := &Table{
		ID:        fmt.Sprintf("table_%d", index+1),
		Headers:   DedupHeaders(headers),
		Rows:      rows,
		Delimiter: delimiter,
	}
	t.Columns = len(t.Headers)
	t.Data = buildRecords(t.Headers, t.Rows)
	return t
}
