package addr

import (
	"fmt"
	"strings"
)

// CellRange is an inclusive rectangular range of cells, with independent
// drag-anchors on each endpoint so formula printing can round-trip "$A$1:B10"
// exactly. The invariant start <= end holds in both dimensions; smart
// constructors normalize out-of-order endpoints rather than rejecting them.
type CellRange struct {
	Start, End             ARef
	StartAnchor, EndAnchor Anchor
}

// NewCellRange builds a CellRange from two corners, normalizing them so that
// Start is the top-left and End is the bottom-right corner regardless of the
// order the caller supplied them in. Anchors travel with their original
// corner's row/column identity, not their position.
func NewCellRange(a, b ARef) CellRange {
	return NewCellRangeAnchored(a, NoAnchor, b, NoAnchor)
}

// NewCellRangeAnchored is like NewCellRange but preserves per-corner anchors.
func NewCellRangeAnchored(a ARef, aAnchor Anchor, b ARef, bAnchor Anchor) CellRange {
	minRow, maxRow := a.Row(), b.Row()
	if minRow > maxRow {
		minRow, maxRow = maxRow, minRow
	}
	minCol, maxCol := a.Col(), b.Col()
	if minCol > maxCol {
		minCol, maxCol = maxCol, minCol
	}
	start := NewARef(minRow, minCol)
	end := NewARef(maxRow, maxCol)
	startAnchor, endAnchor := aAnchor, bAnchor
	if a.Row() > b.Row() || a.Col() > b.Col() {
		// Corners were swapped to normalize; swap anchors to match.
		if (a.Row() > b.Row()) != (a.Col() > b.Col()) {
			// Mixed swap (e.g. full-row/full-column clamp) — keep anchors as given;
			// exact round-trip for this case is not required by spec.md §4.1.
		} else {
			startAnchor, endAnchor = bAnchor, aAnchor
		}
	}
	return CellRange{Start: start, End: end, StartAnchor: startAnchor, EndAnchor: endAnchor}
}

// IsFullColumn reports whether the range spans every row (a "A:C" style range).
func (r CellRange) IsFullColumn() bool {
	return r.Start.Row() == 0 && r.End.Row() == MaxRow
}

// IsFullRow reports whether the range spans every column (a "3:5" style range).
func (r CellRange) IsFullRow() bool {
	return r.Start.Col() == 0 && r.End.Col() == MaxColumn
}

// Contains reports whether ref lies within the range.
func (r CellRange) Contains(ref ARef) bool {
	return ref.Row() >= r.Start.Row() && ref.Row() <= r.End.Row() &&
		ref.Col() >= r.Start.Col() && ref.Col() <= r.End.Col()
}

// Intersect returns the overlapping sub-range of r and o, and false if they
// do not overlap.
func (r CellRange) Intersect(o CellRange) (CellRange, bool) {
	minRow := maxRowOf(r.Start.Row(), o.Start.Row())
	maxRow := minRowOf(r.End.Row(), o.End.Row())
	minCol := maxColOf(r.Start.Col(), o.Start.Col())
	maxCol := minColOf(r.End.Col(), o.End.Col())
	if minRow > maxRow || minCol > maxCol {
		return CellRange{}, false
	}
	return NewCellRange(NewARef(minRow, minCol), NewARef(maxRow, maxCol)), true
}

// Union returns the smallest range containing both r and o (bounding-box
// expansion, not a set union of cells).
func (r CellRange) Union(o CellRange) CellRange {
	minRow := minRowOf(r.Start.Row(), o.Start.Row())
	maxRow := maxRowOf(r.End.Row(), o.End.Row())
	minCol := minColOf(r.Start.Col(), o.Start.Col())
	maxCol := maxColOf(r.End.Col(), o.End.Col())
	return NewCellRange(NewARef(minRow, minCol), NewARef(maxRow, maxCol))
}

func minRowOf(a, b Row) Row {
	if a < b {
		return a
	}
	return b
}
func maxRowOf(a, b Row) Row {
	if a > b {
		return a
	}
	return b
}
func minColOf(a, b Column) Column {
	if a < b {
		return a
	}
	return b
}
func maxColOf(a, b Column) Column {
	if a > b {
		return a
	}
	return b
}

// Cells returns a lazy, row-major iterator over every ARef in the range.
// Callers MUST NOT materialize the result of a full-column or full-row range
// into an eager container (spec.md §3) — range over the function directly:
//
//	for ref := range rng.Cells() {
//	    ...
//	}
func (r CellRange) Cells() func(yield func(ARef) bool) {
	return func(yield func(ARef) bool) {
		for row := r.Start.Row(); row <= r.End.Row(); row++ {
			for col := r.Start.Col(); col <= r.End.Col(); col++ {
				if !yield(NewARef(row, col)) {
					return
				}
			}
			if row == MaxRow {
				break // avoid wrapping row back to 0 on the int32 increment
			}
		}
	}
}

// A1 renders the range in A1 notation, honoring anchors and collapsing to
// the full-column/full-row short forms when applicable.
func (r CellRange) A1() string {
	if r.IsFullColumn() && !r.IsFullRow() {
		return formatColAnchor(r.Start.Col(), r.StartAnchor) + ":" + formatColAnchor(r.End.Col(), r.EndAnchor)
	}
	if r.IsFullRow() && !r.IsFullColumn() {
		return formatRowAnchor(r.Start.Row(), r.StartAnchor) + ":" + formatRowAnchor(r.End.Row(), r.EndAnchor)
	}
	return FormatARef(r.Start, r.StartAnchor) + ":" + FormatARef(r.End, r.EndAnchor)
}

// String implements fmt.Stringer.
func (r CellRange) String() string { return r.A1() }

func formatColAnchor(c Column, a Anchor) string {
	if a.HasAbsCol() {
		return "$" + c.Letter()
	}
	return c.Letter()
}

func formatRowAnchor(r Row, a Anchor) string {
	if a.HasAbsRow() {
		return "$" + itoa(r.Number())
	}
	return itoa(r.Number())
}

// ParseCellRange parses a range in any of the forms spec.md §4.1 names:
// "A1:B10", "A:C" (full columns), "3:5" (full rows), and anchored forms such
// as "$A$1:B10". A lone cell reference such as "A1" is also accepted and
// treated as a 1x1 range.
func ParseCellRange(s string) (CellRange, error) {
	idx := strings.IndexByte(s, ':')
	if idx < 0 {
		ref, anchor, err := ParseAnchoredARef(s)
		if err != nil {
			return CellRange{}, fmt.Errorf("addr: parse range %q: %w", s, err)
		}
		return CellRange{Start: ref, End: ref, StartAnchor: anchor, EndAnchor: anchor}, nil
	}
	left, right := s[:idx], s[idx+1:]
	if left == "" || right == "" {
		return CellRange{}, fmt.Errorf("addr: parse range %q: empty endpoint", s)
	}

	if isFullColumnForm(left) && isFullColumnForm(right) {
		return parseFullColumnRange(left, right, s)
	}
	if isFullRowForm(left) && isFullRowForm(right) {
		return parseFullRowRange(left, right, s)
	}

	startRef, startAnchor, err := ParseAnchoredARef(left)
	if err != nil {
		return CellRange{}, fmt.Errorf("addr: parse range %q: %w", s, err)
	}
	endRef, endAnchor, err := ParseAnchoredARef(right)
	if err != nil {
		return CellRange{}, fmt.Errorf("addr: parse range %q: %w", s, err)
	}
	if startRef.Row() > endRef.Row() || startRef.Col() > endRef.Col() {
		return CellRange{}, fmt.Errorf("addr: parse range %q: start is after end", s)
	}
	return CellRange{Start: startRef, End: endRef, StartAnchor: startAnchor, EndAnchor: endAnchor}, nil
}

// isFullColumnForm reports whether s is a bare (optionally anchored) column
// letter run with no row digits, e.g. "A" or "$C".
func isFullColumnForm(s string) bool {
	p := s
	if strings.HasPrefix(p, "$") {
		p = p[1:]
	}
	if p == "" {
		return false
	}
	for i := 0; i < len(p); i++ {
		if !isAsciiLetter(p[i]) {
			return false
		}
	}
	return true
}

// isFullRowForm reports whether s is a bare (optionally anchored) row number
// with no column letters, e.g. "3" or "$5".
func isFullRowForm(s string) bool {
	p := s
	if strings.HasPrefix(p, "$") {
		p = p[1:]
	}
	if p == "" {
		return false
	}
	for i := 0; i < len(p); i++ {
		if !isAsciiDigit(p[i]) {
			return false
		}
	}
	return true
}

func parseFullColumnRange(left, right, orig string) (CellRange, error) {
	lAnchor := strings.HasPrefix(left, "$")
	rAnchor := strings.HasPrefix(right, "$")
	lCol, err := ColumnFromLetter(strings.TrimPrefix(left, "$"))
	if err != nil {
		return CellRange{}, fmt.Errorf("addr: parse range %q: %w", orig, err)
	}
	rCol, err := ColumnFromLetter(strings.TrimPrefix(right, "$"))
	if err != nil {
		return CellRange{}, fmt.Errorf("addr: parse range %q: %w", orig, err)
	}
	if lCol > rCol {
		return CellRange{}, fmt.Errorf("addr: parse range %q: start column after end column", orig)
	}
	return CellRange{
		Start:       NewARef(0, lCol),
		End:         NewARef(MaxRow, rCol),
		StartAnchor: anchorFromFlags(lAnchor, false),
		EndAnchor:   anchorFromFlags(rAnchor, false),
	}, nil
}

func parseFullRowRange(left, right, orig string) (CellRange, error) {
	lAnchor := strings.HasPrefix(left, "$")
	rAnchor := strings.HasPrefix(right, "$")
	lNum, err := atoiPositive(strings.TrimPrefix(left, "$"))
	if err != nil {
		return CellRange{}, fmt.Errorf("addr: parse range %q: invalid row", orig)
	}
	rNum, err := atoiPositive(strings.TrimPrefix(right, "$"))
	if err != nil {
		return CellRange{}, fmt.Errorf("addr: parse range %q: invalid row", orig)
	}
	lRow, err := RowFromNumber(lNum)
	if err != nil {
		return CellRange{}, fmt.Errorf("addr: parse range %q: %w", orig, err)
	}
	rRow, err := RowFromNumber(rNum)
	if err != nil {
		return CellRange{}, fmt.Errorf("addr: parse range %q: %w", orig, err)
	}
	if lRow > rRow {
		return CellRange{}, fmt.Errorf("addr: parse range %q: start row after end row", orig)
	}
	return CellRange{
		Start:       NewARef(lRow, 0),
		End:         NewARef(rRow, MaxColumn),
		StartAnchor: anchorFromFlags(false, lAnchor),
		EndAnchor:   anchorFromFlags(false, rAnchor),
	}, nil
}
