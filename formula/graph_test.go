package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticebook/xlsx/addr"
)

func mustARef(t *testing.T, s string) addr.ARef {
	t.Helper()
	r, err := addr.ParseARef(s)
	require.NoError(t, err)
	return r
}

func noUsedRange(addr.SheetName) (addr.CellRange, bool) { return addr.CellRange{}, false }

func TestGraphDirectDependents(t *testing.T) {
	g := NewGraph()
	a1 := CellKey{Sheet: "Sheet1", Ref: mustARef(t, "A1")}
	b1 := CellKey{Sheet: "Sheet1", Ref: mustARef(t, "B1")}

	e, err := Parse("A1*2")
	require.NoError(t, err)
	g.Set(b1, e, noUsedRange)

	deps := g.Dependents(a1)
	require.Len(t, deps, 1)
	assert.Equal(t, b1, deps[0])

	precs := g.Precedents(b1)
	require.Len(t, precs, 1)
	assert.Equal(t, a1, precs[0])
}

func TestGraphTransitiveDependents(t *testing.T) {
	g := NewGraph()
	a1 := CellKey{Sheet: "Sheet1", Ref: mustARef(t, "A1")}
	b1 := CellKey{Sheet: "Sheet1", Ref: mustARef(t, "B1")}
	c1 := CellKey{Sheet: "Sheet1", Ref: mustARef(t, "C1")}

	eB, _ := Parse("A1+1")
	eC, _ := Parse("B1+1")
	g.Set(b1, eB, noUsedRange)
	g.Set(c1, eC, noUsedRange)

	trans := g.TransitiveDependents(a1)
	assert.ElementsMatch(t, []CellKey{b1, c1}, trans)
}

func TestGraphRecomputeOrder(t *testing.T) {
	g := NewGraph()
	a1 := CellKey{Sheet: "Sheet1", Ref: mustARef(t, "A1")}
	b1 := CellKey{Sheet: "Sheet1", Ref: mustARef(t, "B1")}
	c1 := CellKey{Sheet: "Sheet1", Ref: mustARef(t, "C1")}

	eB, _ := Parse("A1+1")
	eC, _ := Parse("B1+1")
	g.Set(b1, eB, noUsedRange)
	g.Set(c1, eC, noUsedRange)

	order, err := g.RecomputeOrder([]CellKey{a1})
	require.NoError(t, err)

	pos := make(map[CellKey]int, len(order))
	for i, c := range order {
		pos[c] = i
	}
	assert.Less(t, pos[b1], pos[c1], "B1 must recompute before C1")
}

func TestGraphCycleDetection(t *testing.T) {
	g := NewGraph()
	a1 := CellKey{Sheet: "Sheet1", Ref: mustARef(t, "A1")}
	b1 := CellKey{Sheet: "Sheet1", Ref: mustARef(t, "B1")}

	eA, _ := Parse("B1+1")
	eB, _ := Parse("A1+1")
	g.Set(a1, eA, noUsedRange)
	g.Set(b1, eB, noUsedRange)

	_, err := g.RecomputeOrder([]CellKey{a1})
	assert.Error(t, err)
}

func TestGraphRemove(t *testing.T) {
	g := NewGraph()
	a1 := CellKey{Sheet: "Sheet1", Ref: mustARef(t, "A1")}
	b1 := CellKey{Sheet: "Sheet1", Ref: mustARef(t, "B1")}

	e, _ := Parse("A1*2")
	g.Set(b1, e, noUsedRange)
	g.Remove(b1)

	assert.Empty(t, g.Dependents(a1))
	assert.Empty(t, g.Precedents(b1))
}
