package ooxml

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticebook/xlsx/addr"
	"github.com/latticebook/xlsx/cellvalue"
	"github.com/latticebook/xlsx/style"
)

// rowsOf turns a literal slice of rows into a RowSource, the shape a real
// caller would instead produce from a database cursor or a CSV scanner.
func rowsOf(rows ...StreamRow) RowSource {
	return func(yield func(StreamRow, error) bool) {
		for _, r := range rows {
			if !yield(r, nil) {
				return
			}
		}
	}
}

func testStreamRows() []StreamRow {
	return []StreamRow{
		{RowIndex: 1, Cells: []StreamCell{
			{Col: 1, Value: cellvalue.NewText("Title")},
			{Col: 2, Value: cellvalue.NewText("Count")},
		}},
		{RowIndex: 2, Cells: []StreamCell{
			{Col: 1, Value: cellvalue.NewText("Widgets")},
			{Col: 2, Value: cellvalue.NewNumberFromFloat(7)},
		}},
	}
}

func TestWriteSheetStreamDimensionHinted(t *testing.T) {
	dim := addr.NewCellRange(mustARef(t, "A1"), mustARef(t, "B2"))

	var buf bytes.Buffer
	err := WriteSheetStream(&buf, "Sheet1", dim, rowsOf(testStreamRows()...), style.NewRegistry(), false, WriterConfig{SharedStrings: SharedStringsAlways})
	require.NoError(t, err)

	archive := buf.Bytes()
	part := partBytes(t, archive, "xl/worksheets/sheet1.xml")
	assert.Contains(t, string(part), `<dimension ref="A1:B2"/>`)

	r, err := Open(bytes.NewReader(archive), int64(len(archive)))
	require.NoError(t, err)
	assert.Equal(t, []string{"Sheet1"}, r.SheetNames())

	seq, err := r.ReadSheetStream("Sheet1")
	require.NoError(t, err)
	got := make(map[int]RowData)
	for row, err := range seq {
		require.NoError(t, err)
		got[row.RowIndex] = row
	}
	b2, err := addr.ParseARef("B2")
	require.NoError(t, err)
	assert.True(t, got[2].Cells[b2.Col().Number()].Number.Equal(cellvalue.NewNumberFromFloat(7).Number))
}

func TestWriteSheetStreamAutoDetectComputesDimension(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSheetStreamAutoDetect(&buf, "Sheet1", rowsOf(testStreamRows()...), style.NewRegistry(), false, WriterConfig{SharedStrings: SharedStringsAlways})
	require.NoError(t, err)

	archive := buf.Bytes()
	part := partBytes(t, archive, "xl/worksheets/sheet1.xml")
	assert.Contains(t, string(part), `<dimension ref="A1:B2"/>`)

	r, err := Open(bytes.NewReader(archive), int64(len(archive)))
	require.NoError(t, err)
	seq, err := r.ReadSheetStream("Sheet1")
	require.NoError(t, err)
	got := make(map[int]RowData)
	for row, err := range seq {
		require.NoError(t, err)
		got[row.RowIndex] = row
	}
	a1, err := addr.ParseARef("A1")
	require.NoError(t, err)
	assert.Equal(t, "Title", got[1].Cells[a1.Col().Number()].PlainText())
	b2, err := addr.ParseARef("B2")
	require.NoError(t, err)
	assert.True(t, got[2].Cells[b2.Col().Number()].Number.Equal(cellvalue.NewNumberFromFloat(7).Number))
}

func TestWriteSheetStreamAutoDetectEmptySheet(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSheetStreamAutoDetect(&buf, "Sheet1", rowsOf(), style.NewRegistry(), false, WriterConfig{SharedStrings: SharedStringsAlways})
	require.NoError(t, err)

	part := partBytes(t, buf.Bytes(), "xl/worksheets/sheet1.xml")
	assert.Contains(t, string(part), `<dimension ref="A1"/>`)
}

func TestWriteSheetStreamPropagatesSourceError(t *testing.T) {
	boom := assert.AnError
	failing := func(yield func(StreamRow, error) bool) {
		yield(StreamRow{}, boom)
	}

	var buf bytes.Buffer
	err := WriteSheetStreamAutoDetect(&buf, "Sheet1", failing, style.NewRegistry(), false, WriterConfig{SharedStrings: SharedStringsAlways})
	assert.ErrorIs(t, err, boom)
}

func TestWriteWorkbookStreamRejectsDuplicateNames(t *testing.T) {
	var buf bytes.Buffer
	sheets := []SheetStream{
		{Name: "Sheet1", Rows: rowsOf(testStreamRows()...)},
		{Name: "Sheet1", Rows: rowsOf(testStreamRows()...)},
	}
	err := WriteWorkbookStream(&buf, sheets, style.NewRegistry(), false, WriterConfig{SharedStrings: SharedStringsAlways})
	assert.Error(t, err)
	assert.Zero(t, buf.Len(), "output must stay unopened when validation fails")
}

func TestWriteWorkbookStreamRejectsEmptySequence(t *testing.T) {
	var buf bytes.Buffer
	err := WriteWorkbookStream(&buf, nil, style.NewRegistry(), false, WriterConfig{SharedStrings: SharedStringsAlways})
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestWriteWorkbookStreamMultiSheet(t *testing.T) {
	var buf bytes.Buffer
	sheets := []SheetStream{
		{Name: "Sheet1", Rows: rowsOf(testStreamRows()...)},
		{Name: "Sheet2", Rows: rowsOf(testStreamRows()...)},
	}
	require.NoError(t, WriteWorkbookStream(&buf, sheets, style.NewRegistry(), false, WriterConfig{SharedStrings: SharedStringsAlways}))

	archive := buf.Bytes()
	r, err := Open(bytes.NewReader(archive), int64(len(archive)))
	require.NoError(t, err)
	assert.Equal(t, []string{"Sheet1", "Sheet2"}, r.SheetNames())
}

func TestWriteStreamRejectsSharedStringsAuto(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSheetStreamAutoDetect(&buf, "Sheet1", rowsOf(testStreamRows()...), style.NewRegistry(), false, WriterConfig{SharedStrings: SharedStringsAuto})
	assert.Error(t, err)
}

func mustARef(t *testing.T, s string) addr.ARef {
	t.Helper()
	ref, err := addr.ParseARef(s)
	require.NoError(t, err)
	return ref
}
