package ooxml

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticebook/xlsx/addr"
	"github.com/latticebook/xlsx/cellvalue"
	"github.com/latticebook/xlsx/sheet"
	"github.com/latticebook/xlsx/style"
	"github.com/latticebook/xlsx/workbook"
)

func buildTestWorkbook(t *testing.T) workbook.Workbook {
	t.Helper()
	name, err := addr.NewSheetName("Sheet1")
	require.NoError(t, err)
	sh := sheet.New(name, style.NewRegistry())

	put := func(s sheet.Sheet, a1 string, v cellvalue.CellValue) sheet.Sheet {
		ref, err := addr.ParseARef(a1)
		require.NoError(t, err)
		return s.PutValue(ref, v)
	}
	sh = put(sh, "A1", cellvalue.NewText("Title"))
	sh = put(sh, "A2", cellvalue.NewNumberFromFloat(42))
	sh = put(sh, "A3", cellvalue.NewBool(true))
	sh = put(sh, "A4", cellvalue.NewText("Title")) // repeats, exercises shared-string adoption

	wb := workbook.New(false)
	wb, err = wb.AddSheet(sh)
	require.NoError(t, err)
	return wb
}

func TestWriteThenReadStream(t *testing.T) {
	wb := buildTestWorkbook(t)

	var buf bytes.Buffer
	require.NoError(t, Write(wb, &buf, DefaultWriterConfig))

	r, err := Open(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	assert.Equal(t, []string{"Sheet1"}, r.SheetNames())

	seq, err := r.ReadSheetStream("Sheet1")
	require.NoError(t, err)

	rows := make(map[int]RowData)
	for row, err := range seq {
		require.NoError(t, err)
		rows[row.RowIndex] = row
	}

	a1, err := addr.ParseARef("A1")
	require.NoError(t, err)
	a2, err := addr.ParseARef("A2")
	require.NoError(t, err)
	a3, err := addr.ParseARef("A3")
	require.NoError(t, err)

	require.Contains(t, rows, a1.Row().Number())
	assert.Equal(t, "Title", rows[a1.Row().Number()].Cells[a1.Col().Number()].PlainText())
	assert.True(t, rows[a2.Row().Number()].Cells[a2.Col().Number()].Number.Equal(cellvalue.NewNumberFromFloat(42).Number))
	assert.True(t, rows[a3.Row().Number()].Cells[a3.Col().Number()].Bool)
}

func TestWriteThenReadWorkbook(t *testing.T) {
	wb := buildTestWorkbook(t)

	var buf bytes.Buffer
	require.NoError(t, Write(wb, &buf, DefaultWriterConfig))

	r, err := Open(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	got, err := ReadWorkbook(r)
	require.NoError(t, err)

	sh, ok := got.SheetByName("Sheet1")
	require.True(t, ok)

	ref, err := addr.ParseARef("A2")
	require.NoError(t, err)
	cell, ok := sh.Get(ref)
	require.True(t, ok)
	assert.True(t, cell.Value.Number.Equal(cellvalue.NewNumberFromFloat(42).Number))
}

func TestWrittenWorkbookPassesDoctypeGuard(t *testing.T) {
	wb := buildTestWorkbook(t)

	var buf bytes.Buffer
	require.NoError(t, Write(wb, &buf, DefaultWriterConfig))

	_, err := Open(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err, "a normally-written workbook must never trip the DOCTYPE guard")
}
