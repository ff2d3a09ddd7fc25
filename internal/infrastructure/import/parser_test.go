package csvimport

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParser(t *testing.T) {
	t.Run("normalizes headers", func(t *testing.T) {
		p, err := NewParser(strings.NewReader("Name, Item Code ,SALE PRICE\nValve,V-1,10"))
		require.NoError(t, err)
		assert.Equal(t, []string{"name", "item_code", "sale_price"}, p.Headers())
	})

	t.Run("strips BOM", func(t *testing.T) {
		p, err := NewParser(strings.NewReader("\xEF\xBB\xBFname\nValve"))
		require.NoError(t, err)
		assert.Equal(t, []string{"name"}, p.Headers())
	})

	t.Run("custom delimiter", func(t *testing.T) {
		p, err := NewParser(strings.NewReader("name;unit\nValve;pcs"), WithDelimiter(';'))
		require.NoError(t, err)
		row, err := p.Next()
		require.NoError(t, err)
		assert.Equal(t, "pcs", row.Get("unit"))
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := NewParser(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("whitespace only", func(t *testing.T) {
		_, err := NewParser(strings.NewReader(" \n\n"))
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("invalid utf-8", func(t *testing.T) {
		_, err := NewParser(strings.NewReader("name\n\xff\xfe"))
		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})

	t.Run("duplicate header", func(t *testing.T) {
		_, err := NewParser(strings.NewReader("name,Name\na,b"))
		assert.ErrorIs(t, err, ErrInvalidHeader)
	})
}

func TestParser_Rows(t *testing.T) {
	p, err := NewParser(strings.NewReader("name,unit,city\n Valve , pcs\n,,\nPump,box,Pune\n"))
	require.NoError(t, err)

	rows, err := p.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2, "blank rows are skipped")

	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "Valve", rows[0].Get("name"))
	assert.Equal(t, "", rows[0].Get("city"), "short rows pad with blanks")
	assert.Equal(t, 4, rows[1].Line)
	assert.Equal(t, "Pune", rows[1].Get("city"))

	_, err = p.Next()
	assert.Equal(t, io.EOF, err)
}

func TestParser_Missing(t *testing.T) {
	p, err := NewParser(strings.NewReader("name,unit\nValve,pcs"))
	require.NoError(t, err)
	assert.Empty(t, p.Missing([]string{"name"}))
	assert.Equal(t, []string{"type"}, p.Missing([]string{"name", "type"}))
}

func TestErrorCollection(t *testing.T) {
	ec := NewErrorCollection(2)
	assert.False(t, ec.HasErrors())
	assert.Equal(t, "no errors", ec.String())

	ec.Add(RowError{Line: 5, Column: "name", Code: ErrCodeRequired, Message: "value is required"})
	ec.Add(RowError{Line: 3, Code: ErrCodeCreateFailed, Message: "boom"})
	ec.Add(RowError{Line: 9, Message: "dropped"})

	assert.True(t, ec.HasErrors())
	assert.True(t, ec.Truncated())
	assert.Equal(t, 3, ec.Total())
	errs := ec.Errors()
	require.Len(t, errs, 2)
	assert.Equal(t, 3, errs[0].Line)
	assert.Equal(t, "line 5, column 'name': value is required", errs[1].Error())
	assert.Contains(t, ec.String(), "and 1 more")
}
