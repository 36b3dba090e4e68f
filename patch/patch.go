// Package patch implements the patch algebra that drives every sheet
// mutation: a sum type of atomic operations, a monoid combining them, and
// a total apply function. It follows the teacher's preference for small,
// explicit, exhaustively-switched variant types (biff12.records.go enumerates
// record kinds the same way) generalized from "one binary record kind" to
// "one sheet operation kind".
package patch

import (
	"github.com/latticebook/xlsx/addr"
	"github.com/latticebook/xlsx/cellvalue"
	"github.com/latticebook/xlsx/style"
)

// Kind discriminates the variants of Patch.
type Kind int

const (
	KindPut Kind = iota
	KindSetStyle
	KindSetCellStyle
	KindClearStyle
	KindMerge
	KindUnmerge
	KindRemoveRange
	KindBatch
)

// Patch is the sum type of every atomic sheet operation (spec.md §5):
//
//	Put(ref, value) | SetStyle(ref, styleId) | SetCellStyle(ref, CellStyle) |
//	ClearStyle(ref) | Merge(range) | Unmerge(range) | RemoveRange(range) |
//	Batch([]Patch)
//
// Only the fields relevant to Kind are populated.
type Patch struct {
	Kind Kind

	Ref   addr.ARef
	Value cellvalue.CellValue

	StyleId   style.StyleId
	CellStyle style.CellStyle

	Range addr.CellRange

	Batch []Patch
}

// Put returns a Patch writing value at ref.
func Put(ref addr.ARef, value cellvalue.CellValue) Patch {
	return Patch{Kind: KindPut, Ref: ref, Value: value}
}

// SetStyle returns a Patch assigning an already-registered style id to ref.
func SetStyle(ref addr.ARef, id style.StyleId) Patch {
	return Patch{Kind: KindSetStyle, Ref: ref, StyleId: id}
}

// SetCellStyle returns a Patch assigning a literal CellStyle to ref; the
// style is registered (interned) at apply time.
func SetCellStyle(ref addr.ARef, cs style.CellStyle) Patch {
	return Patch{Kind: KindSetCellStyle, Ref: ref, CellStyle: cs}
}

// ClearStyle returns a Patch resetting ref to the default style.
func ClearStyle(ref addr.ARef) Patch {
	return Patch{Kind: KindClearStyle, Ref: ref}
}

// Merge returns a Patch adding r to the sheet's merged ranges.
func Merge(r addr.CellRange) Patch {
	return Patch{Kind: KindMerge, Range: r}
}

// Unmerge returns a Patch removing the exact-match merged range r.
func Unmerge(r addr.CellRange) Patch {
	return Patch{Kind: KindUnmerge, Range: r}
}

// RemoveRange returns a Patch clearing every cell in r.
func RemoveRange(r addr.CellRange) Patch {
	return Patch{Kind: KindRemoveRange, Range: r}
}

// Empty is the monoid identity: an empty Batch.
var Empty = Patch{Kind: KindBatch}

// NewBatch returns a Patch sequencing ps left-to-right, flattening any
// nested Batch so Combine's associativity law holds structurally (spec.md
// §5: "Monoid: empty = Batch(empty), combine flattens nested Batches").
func NewBatch(ps ...Patch) Patch {
	return Patch{Kind: KindBatch, Batch: flatten(ps)}
}

// Combine appends b's operations after a's, flattening nested batches. This
// is the monoid operation: Combine(Empty, p) == NewBatch(p) == Combine(p, Empty), and
// Combine(Combine(a, b), c) == Combine(a, Combine(b, c)).
func Combine(a, b Patch) Patch {
	return Patch{Kind: KindBatch, Batch: flatten([]Patch{a, b})}
}

func flatten(ps []Patch) []Patch {
	out := make([]Patch, 0, len(ps))
	for _, p := range ps {
		if p.Kind == KindBatch {
			out = append(out, flatten(p.Batch)...)
			continue
		}
		out = append(out, p)
	}
	return out
}

// IsEmpty reports whether p is the identity patch (an empty, or
// all-empty-recursively, Batch).
func (p Patch) IsEmpty() bool {
	if p.Kind != KindBatch {
		return false
	}
	for _, c := range p.Batch {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}
