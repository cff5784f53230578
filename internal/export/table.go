package export

import (
	"fmt"
	"strconv"
	"time"
)

// TimestampLayout is used for every exported instant.
const TimestampLayout = time.RFC3339

// Columns returns the union of keys across rows in first-seen order.
func Columns(rows []Row) []string {
	seen := make(map[string]struct{})
	var cols []string
	for _, row := range rows {
		for _, f := range row {
			if _, ok := seen[f.Key]; ok {
				continue
			}
			seen[f.Key] = struct{}{}
			cols = append(cols, f.Key)
		}
	}
	return cols
}

// Records aligns rows onto cols; keys a row lacks become empty cells.
func Records(cols []string, rows []Row) [][]string {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		rec := make([]string, len(cols))
		for i, col := range cols {
			rec[i] = row.String(col)
		}
		records = append(records, rec)
	}
	return records
}

// FormatValue renders a cell value as text.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.UTC().Format(TimestampLayout)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
