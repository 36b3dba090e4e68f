package sheet

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticebook/xlsx/addr"
	"github.com/latticebook/xlsx/cellvalue"
	"github.com/latticebook/xlsx/style"
)

func mustRef(t *testing.T, s string) addr.ARef {
	t.Helper()
	ref, err := addr.ParseARef(s)
	require.NoError(t, err)
	return ref
}

func TestPutAndGet(t *testing.T) {
	name, _ := addr.NewSheetName("Sheet1")
	sh := New(name, style.NewRegistry())

	a1 := mustRef(t, "A1")
	sh2 := sh.PutValue(a1, cellvalue.NewText("Title"))

	cell, ok := sh2.Get(a1)
	require.True(t, ok)
	assert.Equal(t, "Title", cell.Value.Text)

	_, stillThere := sh.Get(a1)
	assert.False(t, stillThere, "original sheet must be unaffected by Put")
}

func TestUsedRangeAndCells(t *testing.T) {
	name, _ := addr.NewSheetName("Sheet1")
	sh := New(name, style.NewRegistry())
	sh = sh.PutValue(mustRef(t, "B2"), cellvalue.NewNumberFromFloat(1))
	sh = sh.PutValue(mustRef(t, "D5"), cellvalue.NewNumberFromFloat(2))

	used, ok := sh.UsedRange()
	require.True(t, ok)
	assert.Equal(t, "B2:D5", used.A1())

	var count int
	for range sh.Cells() {
		count++
	}
	assert.Equal(t, 2, count)
}

func TestFold(t *testing.T) {
	name, _ := addr.NewSheetName("Sheet1")
	sh := New(name, style.NewRegistry())
	sh = sh.PutValue(mustRef(t, "A1"), cellvalue.NewNumber(decimal.NewFromInt(3)))
	sh = sh.PutValue(mustRef(t, "A2"), cellvalue.NewNumber(decimal.NewFromInt(4)))

	total := Fold(sh, decimal.Zero, func(acc decimal.Decimal, ref addr.ARef, c Cell) decimal.Decimal {
		if c.Value.Kind == cellvalue.KindNumber {
			return acc.Add(c.Value.Number)
		}
		return acc
	})
	assert.True(t, total.Equal(decimal.NewFromInt(7)))
}

func TestPutWithCodecMergeRule(t *testing.T) {
	name, _ := addr.NewSheetName("Sheet1")
	sh := New(name, style.NewRegistry())
	ref := mustRef(t, "A1")

	dateCodec := cellvalue.CodecFunc[int](func(v int) (cellvalue.CellValue, cellvalue.ProposedFormat) {
		return cellvalue.NewNumberFromFloat(float64(v)), cellvalue.FormatDate
	})

	sh2, err := PutWithCodec(sh, ref, 45000, dateCodec)
	require.NoError(t, err)

	cell, _ := sh2.Get(ref)
	resolved, ok := sh2.Registry().Get(cell.Style)
	require.True(t, ok)
	assert.Equal(t, style.NumFmtDate, resolved.NumFmt.Kind)

	// Re-applying with an explicit currency style must not be overridden.
	currencyStyle := style.Default.WithNumFmt(style.NumFmt{Kind: style.NumFmtCurrency})
	reg, id := sh2.Registry().Register(currencyStyle)
	sh3 := sh2.WithRegistry(reg).Put(ref, cell.Value, id)

	sh4, err := PutWithCodec(sh3, ref, 1, dateCodec)
	require.NoError(t, err)
	cell4, _ := sh4.Get(ref)
	resolved4, _ := sh4.Registry().Get(cell4.Style)
	assert.Equal(t, style.NumFmtCurrency, resolved4.NumFmt.Kind, "explicit currency must win over codec's proposed date format")
}

func TestClearInRange(t *testing.T) {
	name, _ := addr.NewSheetName("Sheet1")
	sh := New(name, style.NewRegistry())
	sh = sh.PutValue(mustRef(t, "A1"), cellvalue.NewText("x"))
	sh = sh.PutValue(mustRef(t, "Z99"), cellvalue.NewText("y"))

	r, err := addr.ParseCellRange("A1:B2")
	require.NoError(t, err)

	sh2 := sh.ClearInRange(r)
	_, ok := sh2.Get(mustRef(t, "A1"))
	assert.False(t, ok)
	_, ok2 := sh2.Get(mustRef(t, "Z99"))
	assert.True(t, ok2)
}

func TestMergeUnmerge(t *testing.T) {
	name, _ := addr.NewSheetName("Sheet1")
	sh := New(name, style.NewRegistry())
	r, _ := addr.ParseCellRange("A1:C1")

	sh2 := sh.MergeRange(r)
	assert.Len(t, sh2.MergedRanges(), 1)

	sh3 := sh2.UnmergeRange(r)
	assert.Len(t, sh3.MergedRanges(), 0)
}
