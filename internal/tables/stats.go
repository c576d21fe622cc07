/**
 * Table statistics
 *
 * Aggregates a set of tables into totals, averages and a histogram of
 * inferred cell value types, plus per-table column profiles. Type
 * inference runs over a bounded sample of rows per table.
 */

package tables

// Rows sampled per table when profiling cell types.
const statsSampleRows = 10

// ColumnStats profiles one column over the sampled rows.
type ColumnStats struct {
	Header   string         `json:"header"`
	Types    map[string]int `json:"types"`
	Dominant string         `json:"dominant"`
	Empty    int            `json:"empty"`
}

// TableStats summarizes one table.
type TableStats struct {
	TableID     string        `json:"table_id"`
	RowCount    int           `json:"row_count"`
	ColumnCount int           `json:"column_count"`
	SampledRows int           `json:"sampled_rows"`
	Columns     []ColumnStats `json:"columns"`
}

// Statistics aggregates over a set of tables.
type Statistics struct {
	TotalTables    int            `json:"total_tables"`
	TotalRows      int            `json:"total_rows"`
	TotalColumns   int            `json:"total_columns"`
	AverageRows    float64        `json:"average_rows"`
	AverageColumns float64        `json:"average_columns"`
	DataTypes      map[string]int `json:"data_types"`
	Tables         []TableStats   `json:"tables,omitempty"`
}

// ComputeStatistics aggregates the given tables, profiling the first
// 10 rows of each for cell types.
func ComputeStatistics(ts []*Table) *Statistics {
	stats := &Statistics{
		TotalTables: len(ts),
		DataTypes:   make(map[string]int),
	}

	for _, t := range ts {
		tstats := computeTableStats(t)
		stats.Tables = append(stats.Tables, tstats)
		stats.TotalRows += tstats.RowCount
		stats.TotalColumns += tstats.ColumnCount
		for _, col := range tstats.Columns {
			for typ, count := range col.Types {
				stats.DataTypes[typ] += count
			}
		}
	}

	if stats.TotalTables > 0 {
		stats.AverageRows = float64(stats.TotalRows) / float64(stats.TotalTables)
		stats.AverageColumns = float64(stats.TotalColumns) / float64(stats.TotalTables)
	}
	return stats
}

func computeTableStats(t *Table) TableStats {
	sample := t.Rows
	if len(sample) > statsSampleRows {
		sample = sample[:statsSampleRows]
	}

	cols := make([]ColumnStats, len(t.Headers))
	for i, h := range t.Headers {
		cols[i] = ColumnStats{Header: h, Types: make(map[string]int)}
	}

	for _, row := range sample {
		for i := range cols {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			typ := InferType(cell)
			cols[i].Types[typ]++
			if typ == TypeEmpty {
				cols[i].Empty++
			}
		}
	}

	for i := range cols {
		best, bestCount := "", -1
		for typ, count := range cols[i].Types {
			if count > bestCount || (count == bestCount && typ < best) {
				best, bestCount = typ, count
			}
		}
		cols[i].Dominant = best
	}

	return TableStats{
		TableID:     t.ID,
		RowCount:    len(t.Rows),
		ColumnCount: len(t.Headers),
		SampledRows: len(sample),
		Columns:     cols,
	}
}
