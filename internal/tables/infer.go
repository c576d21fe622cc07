/**
 * Cell type inference
 *
 * Classifies a cell string into one of the value types used by table
 * statistics. Tests run in priority order; the first match wins.
 */

package tables

import (
	"regexp"
	"strconv"
	"strings"
)

// Inferred cell value types.
const (
	TypeEmpty      = "empty"
	TypeNumeric    = "numeric"
	TypeDate       = "date"
	TypeBoolean    = "boolean"
	TypeCurrency   = "currency"
	TypePercentage = "percentage"
	TypeText       = "text"
)

var (
	dateRes = []*regexp.Regexp{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
		regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`),
		regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`),
	}
	currencyRe   = regexp.MustCompile(`^[\$€£¥]\s*[\d,]+\.?\d*$`)
	percentageRe = regexp.MustCompile(`^[\d,]+\.?\d*\s*%$`)
)

// InferType classifies a cell value.
func InferType(cell string) string {
	v := strings.TrimSpace(cell)
	if v == "" {
		return TypeEmpty
	}

	if _, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64); err == nil {
		return TypeNumeric
	}

	for _, re := range dateRes {
		if re.MatchString(v) {
			return TypeDate
		}
	}

	switch strings.ToLower(v) {
	case "true", "false", "yes", "no":
		return TypeBoolean
	}

	if currencyRe.MatchString(v) {
		return TypeCurrency
	}
	if percentageRe.MatchString(v) {
		return TypePercentage
	}

	return TypeText
}
