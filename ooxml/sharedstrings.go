package ooxml

import "github.com/latticebook/xlsx/cellvalue"

// SharedStringPolicy controls when text cell values are interned into
// xl/sharedStrings.xml rather than written as inline strings.
type SharedStringPolicy int

const (
	// SharedStringsAuto adopts shared strings once a text value repeats,
	// the heuristic default.
	SharedStringsAuto SharedStringPolicy = iota
	// SharedStringsAlways interns every text value, even singletons.
	SharedStringsAlways
	// SharedStringsNever always writes inline strings (t="inlineStr").
	SharedStringsNever
)

// stringTable accumulates the distinct text values seen while scanning a
// workbook for writing, preserving first-seen order (the order sharedStrings.xml
// entries are conventionally emitted in).
type stringTable struct {
	index  map[string]int
	values []string
	counts map[string]int
}

func newStringTable() *stringTable {
	return &stringTable{index: map[string]int{}, counts: map[string]int{}}
}

// Intern records s as seen once more and returns its 0-based shared-string
// index.
func (t *stringTable) Intern(s string) int {
	t.counts[s]++
	if id, ok := t.index[s]; ok {
		return id
	}
	id := len(t.values)
	t.index[s] = id
	t.values = append(t.values, s)
	return id
}

// ShouldAdopt reports whether, under SharedStringsAuto, string s has
// repeated enough to be worth interning rather than writing inline.
func (t *stringTable) ShouldAdopt(s string) bool {
	return t.counts[s] > 1
}

// plainTextOf extracts the text to intern for a cell value, or false for
// values that are never shared-string candidates (numbers, bools, etc).
func plainTextOf(v cellvalue.CellValue) (string, bool) {
	switch v.Kind {
	case cellvalue.KindText:
		return v.Text, true
	case cellvalue.KindRichText:
		return v.PlainText(), true
	default:
		return "", false
	}
}
