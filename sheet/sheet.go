// Package sheet implements the immutable worksheet record: a persistent
// cell map plus merged ranges, column/row properties, comments, tables, and
// page setup. Sheet values are never mutated in place; every operation
// returns a new Sheet, following the same value-semantics the teacher's
// Worksheet applies to its parsed, read-only view (worksheet/worksheet.go
// in the example pack) generalized here to a writable, patchable record.
package sheet

import (
	"fmt"

	"github.com/latticebook/xlsx/addr"
	"github.com/latticebook/xlsx/cellvalue"
	"github.com/latticebook/xlsx/style"
)

// Cell is one occupied worksheet cell: a value plus its resolved style.
type Cell struct {
	Value cellvalue.CellValue
	Style style.StyleId
}

// ColumnProps holds the per-column formatting/geometry overrides.
type ColumnProps struct {
	Width  float64
	Hidden bool
	Style  style.StyleId
}

// RowProps holds the per-row formatting/geometry overrides.
type RowProps struct {
	Height float64
	Hidden bool
	Style  style.StyleId
}

// Comment is a cell annotation, not rendered into any cell value.
type Comment struct {
	Author string
	Text   string
}

// Table describes a named table region (structured reference target).
type Table struct {
	Name    string
	Range   addr.CellRange
	Columns []string
	Totals  bool
}

// PageSetup holds print/page layout settings.
type PageSetup struct {
	Orientation string // "portrait" or "landscape"
	PaperSize   int
	FitToWidth  int
	FitToHeight int
}

// Sheet is an immutable worksheet: a persistent cell map addressed by
// addr.ARef, merged ranges, per-column/per-row overrides, a style registry
// shared with the owning workbook, comments, tables, and optional page
// setup.
type Sheet struct {
	name    addr.SheetName
	cells   map[addr.ARef]Cell
	merged  []addr.CellRange
	colProp map[addr.Column]ColumnProps
	rowProp map[addr.Row]RowProps

	defaultColWidth  float64
	defaultRowHeight float64

	registry style.StyleRegistry

	comments map[addr.ARef]Comment
	tables   []Table
	page     *PageSetup
}

// New creates an empty sheet named name, sharing the given style registry.
func New(name addr.SheetName, registry style.StyleRegistry) Sheet {
	return Sheet{
		name:             name,
		cells:            map[addr.ARef]Cell{},
		colProp:          map[addr.Column]ColumnProps{},
		rowProp:          map[addr.Row]RowProps{},
		defaultColWidth:  8.43,
		defaultRowHeight: 15,
		registry:         registry,
		comments:         map[addr.ARef]Comment{},
	}
}

// Name returns the sheet's display name.
func (s Sheet) Name() addr.SheetName { return s.name }

// Registry returns the sheet's current style registry.
func (s Sheet) Registry() style.StyleRegistry { return s.registry }

// WithRegistry returns a copy of s using a different style registry. Used
// when a workbook-level registry gains entries after the sheet was built.
func (s Sheet) WithRegistry(r style.StyleRegistry) Sheet {
	s.registry = r
	return s
}

func (s Sheet) clone() Sheet {
	cells := make(map[addr.ARef]Cell, len(s.cells)+1)
	for k, v := range s.cells {
		cells[k] = v
	}
	merged := make([]addr.CellRange, len(s.merged))
	copy(merged, s.merged)
	colProp := make(map[addr.Column]ColumnProps, len(s.colProp))
	for k, v := range s.colProp {
		colProp[k] = v
	}
	rowProp := make(map[addr.Row]RowProps, len(s.rowProp))
	for k, v := range s.rowProp {
		rowProp[k] = v
	}
	comments := make(map[addr.ARef]Comment, len(s.comments))
	for k, v := range s.comments {
		comments[k] = v
	}
	tables := make([]Table, len(s.tables))
	copy(tables, s.tables)

	s.cells = cells
	s.merged = merged
	s.colProp = colProp
	s.rowProp = rowProp
	s.comments = comments
	s.tables = tables
	return s
}

// Get returns the cell at ref, or the zero Cell (empty value, default
// style) if ref is unoccupied.
func (s Sheet) Get(ref addr.ARef) (Cell, bool) {
	c, ok := s.cells[ref]
	return c, ok
}

// Put writes v at ref with explicit style st, returning the updated sheet.
func (s Sheet) Put(ref addr.ARef, v cellvalue.CellValue, st style.StyleId) Sheet {
	s = s.clone()
	s.cells[ref] = Cell{Value: v, Style: st}
	return s
}

// PutValue writes v at ref, preserving any style already present (or the
// default style for a previously-empty cell).
func (s Sheet) PutValue(ref addr.ARef, v cellvalue.CellValue) Sheet {
	st := style.DefaultStyleId
	if existing, ok := s.cells[ref]; ok {
		st = existing.Style
	}
	return s.Put(ref, v, st)
}

// PutWithCodec encodes src with codec and writes the result at ref,
// applying the Put-with-codec style-merge rule: an explicitly-set
// NumFmt on the cell's current style always wins; only a still-General
// style adopts the codec's proposed format.
func PutWithCodec[A any](s Sheet, ref addr.ARef, src A, codec cellvalue.Codec[A]) (Sheet, error) {
	v, proposed := codec.Encode(src)

	cur := style.Default
	if existing, ok := s.cells[ref]; ok {
		if resolved, ok := s.registry.Get(existing.Style); ok {
			cur = resolved
		}
	}
	merged := cur.MergeNumFmt(proposedToNumFmt(proposed))

	registry, id := s.registry.Register(merged)
	s = s.WithRegistry(registry)
	return s.Put(ref, v, id), nil
}

func proposedToNumFmt(p cellvalue.ProposedFormat) style.NumFmt {
	switch p {
	case cellvalue.FormatInteger:
		return style.NumFmt{Kind: style.NumFmtInteger}
	case cellvalue.FormatDecimal:
		return style.NumFmt{Kind: style.NumFmtDecimal}
	case cellvalue.FormatCurrency:
		return style.NumFmt{Kind: style.NumFmtCurrency}
	case cellvalue.FormatPercent:
		return style.NumFmt{Kind: style.NumFmtPercent}
	case cellvalue.FormatDate:
		return style.NumFmt{Kind: style.NumFmtDate}
	case cellvalue.FormatDateTime:
		return style.NumFmt{Kind: style.NumFmtDateTime}
	default:
		return style.General
	}
}

// CellEntry is one row of a bulk Put operation.
type CellEntry struct {
	Ref   addr.ARef
	Value cellvalue.CellValue
	Style style.StyleId
}

// PutAll writes every entry in one pass using a single transient local
// buffer, avoiding the per-cell clone a naive loop over Put would incur.
func (s Sheet) PutAll(entries []CellEntry) Sheet {
	s = s.clone()
	for _, e := range entries {
		s.cells[e.Ref] = Cell{Value: e.Value, Style: e.Style}
	}
	return s
}

// UsedRange is a single-pass fold over every occupied cell computing
// (minCol, minRow, maxCol, maxRow), per spec.md §5. It returns false if the
// sheet has no occupied cells.
func (s Sheet) UsedRange() (addr.CellRange, bool) {
	found := false
	var minRow, maxRow addr.Row
	var minCol, maxCol addr.Column

	for ref := range s.cells {
		if !found {
			minRow, maxRow = ref.Row(), ref.Row()
			minCol, maxCol = ref.Col(), ref.Col()
			found = true
			continue
		}
		if ref.Row() < minRow {
			minRow = ref.Row()
		}
		if ref.Row() > maxRow {
			maxRow = ref.Row()
		}
		if ref.Col() < minCol {
			minCol = ref.Col()
		}
		if ref.Col() > maxCol {
			maxCol = ref.Col()
		}
	}
	if !found {
		return addr.CellRange{}, false
	}
	return addr.NewCellRange(addr.NewARef(minRow, minCol), addr.NewARef(maxRow, maxCol)), true
}

// Cells returns a lazy, row-major iterator over every occupied cell in the
// used range, matching the teacher's Rows(sparse bool) streaming contract
// in spirit: callers control how much of the iteration they consume.
func (s Sheet) Cells() func(yield func(addr.ARef, Cell) bool) {
	return func(yield func(addr.ARef, Cell) bool) {
		used, ok := s.UsedRange()
		if !ok {
			return
		}
		for ref := range used.Cells() {
			cell, present := s.cells[ref]
			if !present {
				continue
			}
			if !yield(ref, cell) {
				return
			}
		}
	}
}

// Len reports how many cells are occupied.
func (s Sheet) Len() int { return len(s.cells) }

// Fold reduces over every occupied cell in row-major order, matching the
// fold-over-used-range operation from spec.md §5.
func Fold[T any](s Sheet, acc T, f func(acc T, ref addr.ARef, cell Cell) T) T {
	for ref, cell := range s.Cells() {
		acc = f(acc, ref, cell)
	}
	return acc
}

// String implements fmt.Stringer for debugging.
func (s Sheet) String() string {
	return fmt.Sprintf("Sheet(%s, %d cells)", s.name, len(s.cells))
}
