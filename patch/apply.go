package patch

import "github.com/latticebook/xlsx/sheet"

// Apply is total for every non-range-violating patch (spec.md §5):
// Batch is applied left-to-right, Merge appends to mergedRanges, Unmerge
// removes an exact-match range, and RemoveRange filters cells.
func Apply(s sheet.Sheet, p Patch) sheet.Sheet {
	switch p.Kind {
	case KindPut:
		return s.PutValue(p.Ref, p.Value)

	case KindSetStyle:
		cell, _ := s.Get(p.Ref)
		return s.Put(p.Ref, cell.Value, p.StyleId)

	case KindSetCellStyle:
		reg, id := s.Registry().Register(p.CellStyle)
		s = s.WithRegistry(reg)
		cell, _ := s.Get(p.Ref)
		return s.Put(p.Ref, cell.Value, id)

	case KindClearStyle:
		cell, _ := s.Get(p.Ref)
		return s.Put(p.Ref, cell.Value, 0)

	case KindMerge:
		return s.MergeRange(p.Range)

	case KindUnmerge:
		return s.UnmergeRange(p.Range)

	case KindRemoveRange:
		return s.ClearInRange(p.Range)

	case KindBatch:
		for _, c := range p.Batch {
			s = Apply(s, c)
		}
		return s

	default:
		return s
	}
}
