/**
 * Output transforms and result export
 *
 * The two optional transforms flatten a result into plain text or a
 * structured summary. Both read the result without mutating its
 * content or metadata fields.
 */

package processor

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/docforge/extract/internal/tables"
)

// applyFormats populates result.Formatted for each requested
// transform. Unknown transform names are recorded as errors.
func (p *Processor) applyFormats(result *DocumentResult, opts Options) {
	for _, format := range opts.Formats {
		switch format {
		case "text":
			if result.Formatted == nil {
				result.Formatted = make(map[string]any)
			}
			result.Formatted["text"] = FormatText(result)
		case "structured":
			if result.Formatted == nil {
				result.Formatted = make(map[string]any)
			}
			result.Formatted["structured"] = FormatStructured(result)
		default:
			result.Errors = append(result.Errors,
				fmt.Sprintf("unknown output format: %s", format))
		}
	}
}

// FormatText flattens text and table content into one string.
func FormatText(result *DocumentResult) string {
	var sb strings.Builder
	if result.Text != "" {
		sb.WriteString(result.Text)
	}
	for _, t := range result.Tables {
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(tables.RenderMarkdown(t))
	}
	return sb.String()
}

// Summary is the structured transform output.
type Summary struct {
	Source          string             `json:"source"`
	FileType        string             `json:"file_type"`
	Engine          string             `json:"engine,omitempty"`
	TextLength      int                `json:"text_length"`
	BlockCount      int                `json:"block_count"`
	TableCount      int                `json:"table_count"`
	TotalRows       int                `json:"total_rows"`
	Confidence      float64            `json:"confidence"`
	Columns         int                `json:"columns,omitempty"`
	Orientation     string             `json:"orientation,omitempty"`
	TableStatistics *tables.Statistics `json:"table_statistics,omitempty"`
	TextStatistics  *TextStats         `json:"text_statistics,omitempty"`
	ErrorCount      int                `json:"error_count"`
	Errors          []string           `json:"errors,omitempty"`
}

// FormatStructured produces a summary block with counts and the table
// and text statistics already computed on the result.
func FormatStructured(result *DocumentResult) Summary {
	s := Summary{
		Source:          result.Source,
		FileType:        result.Metadata.FileType,
		Engine:          result.Metadata.Engine,
		TextLength:      len(result.Text),
		BlockCount:      len(result.Blocks),
		TableCount:      len(result.Tables),
		Confidence:      result.Confidence,
		TableStatistics: result.Statistics,
		TextStatistics:  result.TextStatistics,
		ErrorCount:      len(result.Errors),
		Errors:          result.Errors,
	}
	if result.Statistics != nil {
		s.TotalRows = result.Statistics.TotalRows
	}
	if result.Layout != nil {
		s.Columns = result.Layout.Columns
		s.Orientation = result.Layout.Orientation
	}
	return s
}

// ExportResult writes a result to path as JSON or flattened text.
func ExportResult(result *DocumentResult, format, path string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0o644)
	case "text":
		return os.WriteFile(path, []byte(FormatText(result)), 0o644)
	default:
		return fmt.Errorf("unknown export format: %s", format)
	}
}
