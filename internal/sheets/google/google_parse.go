package google

import (
	"fmt"
	"strings"

	"autospese/internal/core"
)

// rowsToRecords converts a values matrix (as returned by the Sheets API)
// into raw records keyed by the header row. Header cells are trimmed but
// otherwise untouched; blank headers and the cells under them are
// skipped. Rows that carry no values at all still produce an empty
// record so the engine's empty-row accounting stays with the engine.
func rowsToRecords(values [][]interface{}) []core.RawRecord {
	if len(values) < 2 {
		return nil
	}
	headers := toStrings(values[0])

	records := make([]core.RawRecord, 0, len(values)-1)
	for _, row := range values[1:] {
		cols := toStrings(row)
		rec := core.RawRecord{}
		for i, h := range headers {
			if h == "" {
				continue
			}
			if v := safeGet(cols, i); v != "" {
				rec[h] = v
			}
		}
		records = append(records, rec)
	}
	return records
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
