package formula

import (
	"fmt"

	"github.com/latticebook/xlsx/addr"
)

// CellKey identifies a single cell across the whole workbook, the node
// identity used by Graph.
type CellKey struct {
	Sheet addr.SheetName
	Ref   addr.ARef
}

func (k CellKey) String() string { return string(k.Sheet) + "!" + k.Ref.A1() }

// Graph is a dependency graph over formula cells: an edge runs from a
// precedent (a cell a formula reads) to its dependent (the cell holding
// the formula), the direction recomputation needs to walk.
type Graph struct {
	// dependents maps a precedent to the set of cells whose formula reads it.
	dependents map[CellKey]map[CellKey]struct{}
	// precedents maps a dependent to the set of cells its formula reads.
	precedents map[CellKey]map[CellKey]struct{}
}

// NewGraph builds an empty dependency graph.
func NewGraph() *Graph {
	return &Graph{
		dependents: make(map[CellKey]map[CellKey]struct{}),
		precedents: make(map[CellKey]map[CellKey]struct{}),
	}
}

// Set records that cell's formula expression is e, replacing any edges
// previously recorded for cell. usedRange resolves poly-refs (full
// column/row) to concrete cells the same way evaluation does (spec.md
// open question, resolved in DESIGN.md): a formula's dependency on "A:A"
// only touches the cells currently within the sheet's used range.
func (g *Graph) Set(cell CellKey, e Expr, usedRangeOf func(addr.SheetName) (addr.CellRange, bool)) {
	g.Remove(cell)
	refs := collectRefs(cell.Sheet, e, usedRangeOf)
	if len(refs) == 0 {
		return
	}
	g.precedents[cell] = make(map[CellKey]struct{}, len(refs))
	for _, r := range refs {
		g.precedents[cell][r] = struct{}{}
		if g.dependents[r] == nil {
			g.dependents[r] = make(map[CellKey]struct{})
		}
		g.dependents[r][cell] = struct{}{}
	}
}

// Remove drops every edge touching cell, as when a formula cell is cleared
// or overwritten with a non-formula value.
func (g *Graph) Remove(cell CellKey) {
	for r := range g.precedents[cell] {
		delete(g.dependents[r], cell)
		if len(g.dependents[r]) == 0 {
			delete(g.dependents, r)
		}
	}
	delete(g.precedents, cell)
}

// Dependents returns the cells that directly read cell.
func (g *Graph) Dependents(cell CellKey) []CellKey {
	return keysOf(g.dependents[cell])
}

// Precedents returns the cells cell's formula directly reads.
func (g *Graph) Precedents(cell CellKey) []CellKey {
	return keysOf(g.precedents[cell])
}

// TransitiveDependents returns every cell, directly or indirectly,
// affected by a change to cell, in no particular order.
func (g *Graph) TransitiveDependents(cell CellKey) []CellKey {
	seen := make(map[CellKey]struct{})
	var walk func(CellKey)
	walk = func(c CellKey) {
		for d := range g.dependents[c] {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			walk(d)
		}
	}
	walk(cell)
	return keysOf(seen)
}

// RecomputeOrder returns the cells in cells and their transitive
// dependents, topologically sorted so that every cell appears after all
// of its precedents. It returns an error if the affected subgraph
// contains a cycle.
func (g *Graph) RecomputeOrder(cells []CellKey) ([]CellKey, error) {
	affected := make(map[CellKey]struct{})
	for _, c := range cells {
		affected[c] = struct{}{}
		for _, d := range g.TransitiveDependents(c) {
			affected[d] = struct{}{}
		}
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[CellKey]int, len(affected))
	var order []CellKey
	var visit func(c CellKey) error
	visit = func(c CellKey) error {
		switch color[c] {
		case black:
			return nil
		case gray:
			return fmt.Errorf("formula: circular reference involving %s", c)
		}
		color[c] = gray
		for p := range g.precedents[c] {
			if _, ok := affected[p]; !ok {
				continue
			}
			if err := visit(p); err != nil {
				return err
			}
		}
		color[c] = black
		order = append(order, c)
		return nil
	}
	for c := range affected {
		if err := visit(c); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func keysOf(m map[CellKey]struct{}) []CellKey {
	out := make([]CellKey, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// collectRefs walks e's tree, collecting every cell it reads. A range
// reference expands to its member cells; a poly-ref expands to the
// intersection with the referenced sheet's used range.
func collectRefs(home addr.SheetName, e Expr, usedRangeOf func(addr.SheetName) (addr.CellRange, bool)) []CellKey {
	var out []CellKey
	var walk func(Expr, addr.SheetName)
	walk = func(e Expr, sheet addr.SheetName) {
		switch e.Kind {
		case KindRef:
			out = append(out, CellKey{Sheet: sheet, Ref: e.Ref})
		case KindSheetRef:
			out = append(out, CellKey{Sheet: e.Sheet, Ref: e.Ref})
		case KindRangeRef:
			for ref := range e.Range.Cells() {
				out = append(out, CellKey{Sheet: sheet, Ref: ref})
			}
		case KindSheetRangeRef:
			for ref := range e.Range.Cells() {
				out = append(out, CellKey{Sheet: e.Sheet, Ref: ref})
			}
		case KindPolyRef:
			expandPoly(&out, sheet, e.Poly, usedRangeOf)
		case KindSheetPolyRef:
			expandPoly(&out, e.Sheet, e.Poly, usedRangeOf)
		case KindUnary:
			walk(*e.Left, sheet)
		case KindBinary:
			walk(*e.Left, sheet)
			walk(*e.Right, sheet)
		case KindCall, KindAggregate:
			for _, a := range e.Args {
				walk(a, sheet)
			}
		}
	}
	walk(e, home)
	return out
}

func expandPoly(out *[]CellKey, sheet addr.SheetName, p PolyRef, usedRangeOf func(addr.SheetName) (addr.CellRange, bool)) {
	used, ok := usedRangeOf(sheet)
	if !ok {
		return
	}
	rng := polyRefIntersect(p, used)
	for ref := range rng.Cells() {
		*out = append(*out, CellKey{Sheet: sheet, Ref: ref})
	}
}
