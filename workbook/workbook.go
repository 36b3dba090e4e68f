// Package workbook holds the ordered collection of sheets that make up a
// spreadsheet: unique case-insensitive names, stable ordering, and the
// workbook-wide date system flag. It mirrors the teacher's Workbook type
// (workbook/workbook.go in the example pack) — an ordered Sheets() list plus
// a Date1904 flag — reworked from a parsed read-only view into an
// immutable, buildable record.
package workbook

import (
	"fmt"
	"strings"

	"github.com/latticebook/xlsx/addr"
	"github.com/latticebook/xlsx/sheet"
)

// Workbook is an immutable, ordered collection of sheets sharing a single
// date system. Sheet names are unique case-insensitively, matching Excel's
// own sheet-name collation (spec.md §5).
type Workbook struct {
	sheets   []sheet.Sheet
	byName   map[string]int // lower-cased name -> index into sheets
	date1904 bool
}

// New returns an empty workbook using the given date system. An empty
// workbook violates the "at least one sheet" invariant until AddSheet is
// called at least once; call Validate before writing.
func New(date1904 bool) Workbook {
	return Workbook{byName: map[string]int{}, date1904: date1904}
}

// Date1904 reports whether the workbook uses the 1904 date system (base
// date 1904-01-01) rather than the default 1900 system.
func (w Workbook) Date1904() bool { return w.date1904 }

// Len returns the number of sheets.
func (w Workbook) Len() int { return len(w.sheets) }

// Sheets returns every sheet in display order. The returned slice must not
// be mutated.
func (w Workbook) Sheets() []sheet.Sheet { return w.sheets }

// SheetNames returns the display names of every sheet, in order.
func (w Workbook) SheetNames() []string {
	names := make([]string, len(w.sheets))
	for i, s := range w.sheets {
		names[i] = string(s.Name())
	}
	return names
}

// SheetByName looks up a sheet by name, case-insensitively.
func (w Workbook) SheetByName(name string) (sheet.Sheet, bool) {
	idx, ok := w.byName[strings.ToLower(name)]
	if !ok {
		return sheet.Sheet{}, false
	}
	return w.sheets[idx], true
}

// SheetAt returns the sheet at the given 0-based position.
func (w Workbook) SheetAt(idx int) (sheet.Sheet, error) {
	if idx < 0 || idx >= len(w.sheets) {
		return sheet.Sheet{}, fmt.Errorf("workbook: sheet index %d out of range [0,%d)", idx, len(w.sheets))
	}
	return w.sheets[idx], nil
}

func (w Workbook) clone() Workbook {
	sheets := make([]sheet.Sheet, len(w.sheets))
	copy(sheets, w.sheets)
	byName := make(map[string]int, len(w.byName))
	for k, v := range w.byName {
		byName[k] = v
	}
	w.sheets = sheets
	w.byName = byName
	return w
}

// AddSheet appends s, rejecting a name collision with any existing sheet
// (case-insensitively), per the workbook's uniqueness invariant.
func (w Workbook) AddSheet(s sheet.Sheet) (Workbook, error) {
	key := strings.ToLower(string(s.Name()))
	if _, exists := w.byName[key]; exists {
		return w, fmt.Errorf("workbook: duplicate sheet name %q", s.Name())
	}
	w = w.clone()
	w.byName[key] = len(w.sheets)
	w.sheets = append(w.sheets, s)
	return w, nil
}

// ReplaceSheet substitutes the sheet named s.Name() with s, preserving its
// position. Returns an error if no sheet with that name exists.
func (w Workbook) ReplaceSheet(s sheet.Sheet) (Workbook, error) {
	key := strings.ToLower(string(s.Name()))
	idx, ok := w.byName[key]
	if !ok {
		return w, fmt.Errorf("workbook: no sheet named %q", s.Name())
	}
	w = w.clone()
	w.sheets[idx] = s
	return w, nil
}

// RemoveSheet removes the sheet named name, case-insensitively.
func (w Workbook) RemoveSheet(name string) (Workbook, error) {
	key := strings.ToLower(name)
	idx, ok := w.byName[key]
	if !ok {
		return w, fmt.Errorf("workbook: no sheet named %q", name)
	}
	w = w.clone()
	w.sheets = append(w.sheets[:idx], w.sheets[idx+1:]...)
	delete(w.byName, key)
	for i := idx; i < len(w.sheets); i++ {
		w.byName[strings.ToLower(string(w.sheets[i].Name()))] = i
	}
	return w, nil
}

// RenameSheet renames the sheet currently called oldName to newName,
// rejecting the rename if newName collides with a different existing
// sheet.
func (w Workbook) RenameSheet(oldName string, newName addr.SheetName) (Workbook, error) {
	oldKey := strings.ToLower(oldName)
	idx, ok := w.byName[oldKey]
	if !ok {
		return w, fmt.Errorf("workbook: no sheet named %q", oldName)
	}
	newKey := strings.ToLower(string(newName))
	if existing, exists := w.byName[newKey]; exists && existing != idx {
		return w, fmt.Errorf("workbook: duplicate sheet name %q", newName)
	}
	renamed := sheet.New(newName, w.sheets[idx].Registry())
	renamed = copySheetContents(w.sheets[idx], renamed)

	w = w.clone()
	delete(w.byName, oldKey)
	w.byName[newKey] = idx
	w.sheets[idx] = renamed
	return w, nil
}

// copySheetContents rebuilds dst under a new name carrying src's cells,
// since Sheet has no public field-copy constructor by design (immutability
// boundary). This walks the public iteration surface only.
func copySheetContents(src, dst sheet.Sheet) sheet.Sheet {
	for ref, cell := range src.Cells() {
		dst = dst.Put(ref, cell.Value, cell.Style)
	}
	for _, m := range src.MergedRanges() {
		dst = dst.MergeRange(m)
	}
	return dst
}

// Validate checks workbook-level invariants the write path depends on: at
// least one sheet must be present.
func (w Workbook) Validate() error {
	if len(w.sheets) == 0 {
		return fmt.Errorf("workbook: must contain at least one sheet")
	}
	return nil
}
