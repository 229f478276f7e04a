package tabular

import (
	"strings"
)

// RowsToGrid renders rows into a two-dimensional value grid with the
// field keys as the first row. Cells are discrete grid values, so no
// delimiter escaping applies.
func RowsToGrid(rows []*Row, fields []string) [][]string {
	grid := make([][]string, 0, len(rows)+1)
	header := make([]string, len(fields))
	copy(header, fields)
	grid = append(grid, header)

	for _, row := range rows {
		record := make([]string, len(fields))
		for i, f := range fields {
			record[i] = row.Get(f)
		}
		grid = append(grid, record)
	}
	return grid
}

// GridToRows parses a header-then-rows grid into keyed rows. The first
// grid row defines the keys; short data rows leave trailing keys absent,
// mirroring the delimited-text reader.
func GridToRows(grid [][]string) ([]*Row, error) {
	if len(grid) == 0 {
		return nil, ErrEmptyFile
	}
	headers := make([]string, len(grid[0]))
	for i, h := range grid[0] {
		headers[i] = strings.TrimSpace(h)
	}
	if len(headers) == 0 {
		return nil, ErrMissingHeader
	}

	var rows []*Row
	for i, record := range grid[1:] {
		row := NewRow(i + 2)
		for j, h := range headers {
			if j < len(record) {
				row.Set(h, strings.TrimSpace(record[j]))
			}
		}
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
