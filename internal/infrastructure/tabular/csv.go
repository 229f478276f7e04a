package tabular

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Delimiter is the CSV field separator. Semicolon keeps the field
// delimiter disjoint from the comma used inside list-valued cells.
const Delimiter = ';'

// Writer streams keyed rows as delimited text with a leading header
// row of field keys.
type Writer struct {
	w      *csv.Writer
	fields []string
}

// NewWriter creates a writer for the given field order and emits the
// header row immediately.
func NewWriter(out io.Writer, fields []string) (*Writer, error) {
	w := csv.NewWriter(out)
	w.Comma = Delimiter
	if err := w.Write(fields); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	return &Writer{w: w, fields: fields}, nil
}

// WriteRow writes one row in the writer's field order, filling ""
// for keys the row does not carry.
func (w *Writer) WriteRow(row *Row) error {
	record := make([]string, len(w.fields))
	for i, f := range w.fields {
		record[i] = row.Get(f)
	}
	return w.w.Write(record)
}

// Flush flushes buffered output and reports any write error
func (w *Writer) Flush() error {
	w.w.Flush()
	return w.w.Error()
}

// Reader parses delimited text into keyed rows. The header row is
// authoritative for decoding: values are zipped against it positionally,
// and a short data row yields a mapping with the trailing keys absent.
type Reader struct {
	r       *csv.Reader
	headers []string
	line    int
}

// NewReader creates a reader, stripping a UTF-8 BOM if present and
// rejecting non-UTF-8 input.
func NewReader(in io.Reader) (*Reader, error) {
	buf := bufio.NewReader(in)

	head, err := buf.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	if len(head) == 0 {
		return nil, ErrEmptyFile
	}
	if len(head) >= 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF {
		_, _ = buf.Discard(3)
	}
	if err := validateUTF8(buf); err != nil {
		return nil, err
	}

	r := csv.NewReader(buf)
	r.Comma = Delimiter
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	return &Reader{r: r}, nil
}

// validateUTF8 checks that the leading content is valid UTF-8
func validateUTF8(buf *bufio.Reader) error {
	const checkSize = 4096
	content, err := buf.Peek(checkSize)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read input: %w", err)
	}
	if len(content) == 0 {
		return ErrEmptyFile
	}
	// A rune split at the peek boundary must not fail the check.
	for len(content) > 0 && !utf8.Valid(content) {
		r, _ := utf8.DecodeLastRune(content)
		if r != utf8.RuneError {
			break
		}
		content = content[:len(content)-1]
	}
	if !utf8.Valid(content) {
		return ErrInvalidEncoding
	}
	return nil
}

// ReadHeader reads and stores the header row
func (r *Reader) ReadHeader() error {
	record, err := r.r.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	r.headers = make([]string, len(record))
	for i, h := range record {
		r.headers[i] = strings.TrimSpace(h)
	}
	if len(r.headers) == 0 {
		return ErrMissingHeader
	}
	r.line = 1
	return nil
}

// Headers returns the parsed header keys
func (r *Reader) Headers() []string {
	return r.headers
}

// ReadRow reads the next data row, zipping values against the header.
// A row shorter than the header leaves the trailing keys absent.
func (r *Reader) ReadRow() (*Row, error) {
	record, err := r.r.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	r.line++
	if err != nil {
		return nil, fmt.Errorf("error reading row %d: %w", r.line, err)
	}

	row := NewRow(r.line)
	for i, h := range r.headers {
		if i < len(record) {
			row.Set(h, strings.TrimSpace(record[i]))
		}
	}
	return row, nil
}

// ReadAllRows reads all remaining non-empty data rows
func (r *Reader) ReadAllRows() ([]*Row, error) {
	var rows []*Row
	for {
		row, err := r.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, err
		}
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
