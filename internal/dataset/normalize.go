package dataset

import "strings"

// NormalizeHeaders cleans a raw table's column names in place: leading and
// trailing whitespace is trimmed (case preserved), and columns whose name
// is empty or an "Unnamed" spreadsheet-export placeholder are removed
// together with their cells. Already-clean input is a no-op.
func NormalizeHeaders(t *RawTable) {
	keep := make([]int, 0, len(t.Headers))
	headers := make([]string, 0, len(t.Headers))

	for i, h := range t.Headers {
		name := strings.TrimSpace(h)
		if name == "" || strings.HasPrefix(name, "Unnamed") {
			continue
		}
		keep = append(keep, i)
		headers = append(headers, name)
	}

	if len(keep) == len(t.Headers) {
		t.Headers = headers
		return
	}

	t.Headers = headers
	for r, row := range t.Rows {
		cells := make([]string, len(keep))
		for j, i := range keep {
			if i < len(row) {
				cells[j] = row[i]
			}
		}
		t.Rows[r] = cells
	}
}
