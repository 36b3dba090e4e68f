package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticebook/xlsx/addr"
	"github.com/latticebook/xlsx/cellvalue"
	"github.com/latticebook/xlsx/sheet"
	"github.com/latticebook/xlsx/style"
)

func ref(t *testing.T, s string) addr.ARef {
	t.Helper()
	r, err := addr.ParseARef(s)
	require.NoError(t, err)
	return r
}

func TestMonoidIdentity(t *testing.T) {
	p := Put(ref(t, "A1"), cellvalue.NewText("x"))
	assert.Equal(t, Combine(Empty, p), Combine(p, Empty))
}

func TestMonoidAssociativity(t *testing.T) {
	a := Put(ref(t, "A1"), cellvalue.NewText("a"))
	b := Put(ref(t, "A2"), cellvalue.NewText("b"))
	c := Put(ref(t, "A3"), cellvalue.NewText("c"))

	left := Combine(Combine(a, b), c)
	right := Combine(a, Combine(b, c))
	assert.Equal(t, left.Batch, right.Batch)
}

func TestBatchFlattensNested(t *testing.T) {
	inner := NewBatch(Put(ref(t, "A1"), cellvalue.NewText("a")))
	outer := NewBatch(inner, Put(ref(t, "A2"), cellvalue.NewText("b")))
	assert.Len(t, outer.Batch, 2)
	for _, p := range outer.Batch {
		assert.NotEqual(t, KindBatch, p.Kind)
	}
}

func TestApplyPatchComposition(t *testing.T) {
	name, _ := addr.NewSheetName("Sheet1")
	s := sheet.New(name, style.NewRegistry())

	bold14 := style.Default.WithFont(style.Font{Name: "Calibri", Size: 14, Bold: true})
	mergeRange, err := addr.ParseCellRange("A1:C1")
	require.NoError(t, err)

	p := NewBatch(
		Put(ref(t, "A1"), cellvalue.NewText("Title")),
		SetCellStyle(ref(t, "A1"), bold14),
		Merge(mergeRange),
	)

	s2 := Apply(s, p)

	cell, ok := s2.Get(ref(t, "A1"))
	require.True(t, ok)
	assert.Equal(t, "Title", cell.Value.Text)

	resolved, ok := s2.Registry().Get(cell.Style)
	require.True(t, ok)
	assert.True(t, resolved.Font.Bold)
	assert.Equal(t, float64(14), resolved.Font.Size)

	assert.Equal(t, []addr.CellRange{mergeRange}, s2.MergedRanges())
}

func TestApplyRemoveRangeFiltersCells(t *testing.T) {
	name, _ := addr.NewSheetName("Sheet1")
	s := sheet.New(name, style.NewRegistry())
	s = s.PutValue(ref(t, "A1"), cellvalue.NewText("x"))
	s = s.PutValue(ref(t, "B2"), cellvalue.NewText("y"))

	r, err := addr.ParseCellRange("A1:A1")
	require.NoError(t, err)

	s2 := Apply(s, RemoveRange(r))
	_, ok := s2.Get(ref(t, "A1"))
	assert.False(t, ok)
	_, ok2 := s2.Get(ref(t, "B2"))
	assert.True(t, ok2)
}
