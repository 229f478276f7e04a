package tabular

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReader(t *testing.T) {
	t.Run("Valid UTF-8 input", func(t *testing.T) {
		data := "id;name;origin_price\n1;Widget;10.00"
		r, err := NewReader(strings.NewReader(data))

		require.NoError(t, err)
		require.NotNil(t, r)
	})

	t.Run("UTF-8 BOM is stripped", func(t *testing.T) {
		data := "\xEF\xBB\xBFid;name\n1;Widget"
		r, err := NewReader(strings.NewReader(data))

		require.NoError(t, err)
		require.NoError(t, r.ReadHeader())
		assert.Equal(t, "id", r.Headers()[0])
	})

	t.Run("Empty input returns error", func(t *testing.T) {
		r, err := NewReader(strings.NewReader(""))

		assert.Nil(t, r)
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("Non-UTF-8 input returns error", func(t *testing.T) {
		// Latin-1 encoded "café"
		data := []byte{'i', 'd', ';', 'n', 'a', 'm', 'e', '\n', '1', ';', 'c', 'a', 'f', 0xE9}
		r, err := NewReader(bytes.NewReader(data))

		assert.Nil(t, r)
		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})

	t.Run("Multi-byte rune at peek boundary", func(t *testing.T) {
		// Fill past the validation window so a rune straddles it.
		var sb strings.Builder
		sb.WriteString("id;name\n")
		for sb.Len() < 4095 {
			sb.WriteByte('a')
		}
		sb.WriteString("é;more")
		r, err := NewReader(strings.NewReader(sb.String()))

		require.NoError(t, err)
		require.NotNil(t, r)
	})
}

func TestReadHeader(t *testing.T) {
	t.Run("Valid header", func(t *testing.T) {
		data := "id;name;origin_price\n1;Widget;10.00"
		r, _ := NewReader(strings.NewReader(data))

		require.NoError(t, r.ReadHeader())
		assert.Equal(t, []string{"id", "name", "origin_price"}, r.Headers())
	})

	t.Run("Header with spaces trimmed", func(t *testing.T) {
		data := "  id  ;  name  \n1;Widget"
		r, _ := NewReader(strings.NewReader(data))

		require.NoError(t, r.ReadHeader())
		assert.Equal(t, []string{"id", "name"}, r.Headers())
	})

	t.Run("Header only is valid", func(t *testing.T) {
		r, _ := NewReader(strings.NewReader("id;name"))

		require.NoError(t, r.ReadHeader())

		_, err := r.ReadRow()
		assert.Equal(t, io.EOF, err)
	})
}

func TestReadRow(t *testing.T) {
	t.Run("Read single row", func(t *testing.T) {
		data := "id;name;origin_price\n1;Widget;10.00"
		r, _ := NewReader(strings.NewReader(data))
		r.ReadHeader()

		row, err := r.ReadRow()

		require.NoError(t, err)
		assert.Equal(t, 2, row.LineNumber)
		assert.Equal(t, "1", row.Get("id"))
		assert.Equal(t, "Widget", row.Get("name"))
		assert.Equal(t, "10.00", row.Get("origin_price"))
	})

	t.Run("Short row leaves trailing keys absent", func(t *testing.T) {
		data := "id;name;origin_price;status\n1;Widget"
		r, _ := NewReader(strings.NewReader(data))
		r.ReadHeader()

		row, err := r.ReadRow()

		require.NoError(t, err)
		assert.True(t, row.Has("id"))
		assert.True(t, row.Has("name"))
		assert.False(t, row.Has("origin_price"))
		assert.False(t, row.Has("status"))
		assert.Equal(t, "", row.Get("origin_price"))
	})

	t.Run("Empty cell is present", func(t *testing.T) {
		data := "id;name;sku\n1;;W-1"
		r, _ := NewReader(strings.NewReader(data))
		r.ReadHeader()

		row, _ := r.ReadRow()

		assert.True(t, row.Has("name"))
		assert.Equal(t, "", row.Get("name"))
	})

	t.Run("List values pass through", func(t *testing.T) {
		data := "id;categories;images\n1;\"Tools, Hardware\";a.jpg,b.jpg"
		r, _ := NewReader(strings.NewReader(data))
		r.ReadHeader()

		row, _ := r.ReadRow()

		assert.Equal(t, "Tools, Hardware", row.Get("categories"))
		assert.Equal(t, "a.jpg,b.jpg", row.Get("images"))
	})

	t.Run("EOF after last row", func(t *testing.T) {
		data := "id;name\n1;Widget"
		r, _ := NewReader(strings.NewReader(data))
		r.ReadHeader()

		_, err := r.ReadRow()
		require.NoError(t, err)

		_, err = r.ReadRow()
		assert.Equal(t, io.EOF, err)
	})
}

func TestReadAllRows(t *testing.T) {
	t.Run("Read all rows", func(t *testing.T) {
		data := "id;name\n1;Widget\n2;Gadget\n3;Gizmo"
		r, _ := NewReader(strings.NewReader(data))
		r.ReadHeader()

		rows, err := r.ReadAllRows()

		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "1", rows[0].Get("id"))
		assert.Equal(t, "3", rows[2].Get("id"))
	})

	t.Run("Skip empty rows", func(t *testing.T) {
		data := "id;name\n1;Widget\n;\n;\n2;Gadget"
		r, _ := NewReader(strings.NewReader(data))
		r.ReadHeader()

		rows, err := r.ReadAllRows()

		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("Line numbers count skipped rows", func(t *testing.T) {
		data := "id;name\n1;Widget\n;\n2;Gadget"
		r, _ := NewReader(strings.NewReader(data))
		r.ReadHeader()

		rows, _ := r.ReadAllRows()

		require.Len(t, rows, 2)
		assert.Equal(t, 2, rows[0].LineNumber)
		assert.Equal(t, 4, rows[1].LineNumber)
	})
}

func TestWriter(t *testing.T) {
	t.Run("Header written immediately", func(t *testing.T) {
		var buf bytes.Buffer
		w, err := NewWriter(&buf, []string{"id", "name", "origin_price"})

		require.NoError(t, err)
		require.NoError(t, w.Flush())
		assert.Equal(t, "id;name;origin_price\n", buf.String())
	})

	t.Run("Rows follow field order", func(t *testing.T) {
		var buf bytes.Buffer
		w, _ := NewWriter(&buf, []string{"id", "name", "origin_price"})

		row := NewRow(2)
		row.Set("origin_price", "10.00")
		row.Set("id", "1")
		row.Set("name", "Widget")
		require.NoError(t, w.WriteRow(row))
		require.NoError(t, w.Flush())

		assert.Equal(t, "id;name;origin_price\n1;Widget;10.00\n", buf.String())
	})

	t.Run("Missing keys written as empty", func(t *testing.T) {
		var buf bytes.Buffer
		w, _ := NewWriter(&buf, []string{"id", "name", "sku"})

		row := NewRow(2)
		row.Set("id", "1")
		require.NoError(t, w.WriteRow(row))
		require.NoError(t, w.Flush())

		assert.Equal(t, "id;name;sku\n1;;\n", buf.String())
	})

	t.Run("Cell containing delimiter is quoted", func(t *testing.T) {
		var buf bytes.Buffer
		w, _ := NewWriter(&buf, []string{"name"})

		row := NewRow(2)
		row.Set("name", "Widget; deluxe")
		require.NoError(t, w.WriteRow(row))
		require.NoError(t, w.Flush())

		assert.Equal(t, "name\n\"Widget; deluxe\"\n", buf.String())
	})

	t.Run("Round trip", func(t *testing.T) {
		fields := []string{"id", "name", "categories"}
		var buf bytes.Buffer
		w, _ := NewWriter(&buf, fields)

		in := NewRow(2)
		in.Set("id", "1")
		in.Set("name", "Widget")
		in.Set("categories", "Tools, Hardware")
		require.NoError(t, w.WriteRow(in))
		require.NoError(t, w.Flush())

		r, err := NewReader(&buf)
		require.NoError(t, err)
		require.NoError(t, r.ReadHeader())
		assert.Equal(t, fields, r.Headers())

		out, err := r.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, in.Data, out.Data)
	})
}
