package sheet

import (
	"github.com/latticebook/xlsx/addr"
	"github.com/latticebook/xlsx/cellvalue"
	"github.com/latticebook/xlsx/style"
)

// BulkEntry is one row of a bulk PutAllWithCodec call.
type BulkEntry[A any] struct {
	Ref   addr.ARef
	Value A
}

// PutAllWithCodec applies codec to every entry in a single pass: it
// accumulates a mutable local cell buffer and a mutable local style
// registry that are never observable outside the call, then commits one
// merged update — the bulk-put contract from spec.md §5, targeting at
// least 30% less work than the equivalent sequence of single Put-with-codec
// calls.
func PutAllWithCodec[A any](s Sheet, entries []BulkEntry[A], codec cellvalue.Codec[A]) Sheet {
	cells := make(map[addr.ARef]Cell, len(s.cells)+len(entries))
	for k, v := range s.cells {
		cells[k] = v
	}
	registry := s.registry

	for _, e := range entries {
		v, proposed := codec.Encode(e.Value)

		cur := style.Default
		if existing, ok := cells[e.Ref]; ok {
			if resolved, ok := registry.Get(existing.Style); ok {
				cur = resolved
			}
		}
		merged := cur.MergeNumFmt(proposedToNumFmt(proposed))
		r2, id := registry.Register(merged)
		registry = r2

		cells[e.Ref] = Cell{Value: v, Style: id}
	}

	out := s.clone()
	out.cells = cells
	out.registry = registry
	return out
}

// ClearInRange removes every occupied cell whose ref lies in r, without
// rebuilding entries outside the range.
func (s Sheet) ClearInRange(r addr.CellRange) Sheet {
	s = s.clone()
	for ref := range s.cells {
		if r.Contains(ref) {
			delete(s.cells, ref)
		}
	}
	return s
}

// ClearStylesInRange resets every occupied cell in r to the default style,
// keeping its value, without rebuilding entries outside the range.
func (s Sheet) ClearStylesInRange(r addr.CellRange) Sheet {
	s = s.clone()
	for ref, cell := range s.cells {
		if r.Contains(ref) {
			cell.Style = 0
			s.cells[ref] = cell
		}
	}
	return s
}

// ClearCommentsInRange removes every comment whose ref lies in r.
func (s Sheet) ClearCommentsInRange(r addr.CellRange) Sheet {
	s = s.clone()
	for ref := range s.comments {
		if r.Contains(ref) {
			delete(s.comments, ref)
		}
	}
	return s
}

// MergeRange adds r to the set of merged ranges. Overlap with an existing
// merged range is not checked here (spec.md §5: "unchecked at
// construction — surfaced only at write time if violated").
func (s Sheet) MergeRange(r addr.CellRange) Sheet {
	s = s.clone()
	s.merged = append(s.merged, r)
	return s
}

// UnmergeRange removes the exact-match merged range r, if present.
func (s Sheet) UnmergeRange(r addr.CellRange) Sheet {
	s = s.clone()
	out := s.merged[:0]
	for _, m := range s.merged {
		if m != r {
			out = append(out, m)
		}
	}
	s.merged = out
	return s
}

// MergedRanges returns every merged range, in insertion order.
func (s Sheet) MergedRanges() []addr.CellRange { return s.merged }

// SetColumnProps sets the per-column overrides for c.
func (s Sheet) SetColumnProps(c addr.Column, p ColumnProps) Sheet {
	s = s.clone()
	s.colProp[c] = p
	return s
}

// ColumnProps returns the overrides for c, or false if c has no override.
func (s Sheet) ColumnProps(c addr.Column) (ColumnProps, bool) {
	p, ok := s.colProp[c]
	return p, ok
}

// SetRowProps sets the per-row overrides for r.
func (s Sheet) SetRowProps(r addr.Row, p RowProps) Sheet {
	s = s.clone()
	s.rowProp[r] = p
	return s
}

// RowProps returns the overrides for r, or false if r has no override.
func (s Sheet) RowProps(r addr.Row) (RowProps, bool) {
	p, ok := s.rowProp[r]
	return p, ok
}

// SetDefaultColumnWidth overrides the workbook default column width for
// this sheet.
func (s Sheet) SetDefaultColumnWidth(w float64) Sheet {
	s.defaultColWidth = w
	return s
}

// DefaultColumnWidth returns the sheet's default column width.
func (s Sheet) DefaultColumnWidth() float64 { return s.defaultColWidth }

// SetDefaultRowHeight overrides the workbook default row height for this
// sheet.
func (s Sheet) SetDefaultRowHeight(h float64) Sheet {
	s.defaultRowHeight = h
	return s
}

// DefaultRowHeight returns the sheet's default row height.
func (s Sheet) DefaultRowHeight() float64 { return s.defaultRowHeight }

// SetComment attaches or replaces a comment at ref.
func (s Sheet) SetComment(ref addr.ARef, c Comment) Sheet {
	s = s.clone()
	s.comments[ref] = c
	return s
}

// Comment returns the comment at ref, if any.
func (s Sheet) Comment(ref addr.ARef) (Comment, bool) {
	c, ok := s.comments[ref]
	return c, ok
}

// AddTable appends a table definition.
func (s Sheet) AddTable(t Table) Sheet {
	s = s.clone()
	s.tables = append(s.tables, t)
	return s
}

// Tables returns every table defined on the sheet.
func (s Sheet) Tables() []Table { return s.tables }

// WithPageSetup sets the sheet's page setup.
func (s Sheet) WithPageSetup(p PageSetup) Sheet {
	s.page = &p
	return s
}

// PageSetup returns the sheet's page setup, if set.
func (s Sheet) PageSetup() (PageSetup, bool) {
	if s.page == nil {
		return PageSetup{}, false
	}
	return *s.page, true
}
