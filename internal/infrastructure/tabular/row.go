// Package tabular converts between keyed rows and flat tabular
// representations: delimited text and two-dimensional value grids.
package tabular

// Row is a keyed row with its source line number. Key presence is
// significant: a short source row yields a mapping where the trailing
// keys are absent, which consumers must treat differently from "".
type Row struct {
	LineNumber int
	Data       map[string]string
}

// NewRow creates an empty row for the given source line
func NewRow(line int) *Row {
	return &Row{LineNumber: line, Data: make(map[string]string)}
}

// Get returns the value for a field key, or "" when absent
func (r *Row) Get(key string) string {
	return r.Data[key]
}

// Has reports whether the field key is present in the row
func (r *Row) Has(key string) bool {
	_, ok := r.Data[key]
	return ok
}

// Set stores a value under a field key
func (r *Row) Set(key, value string) {
	r.Data[key] = value
}

// IsEmpty returns true if the row has no non-empty values
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}
