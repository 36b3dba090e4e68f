// Package cellvalue defines the typed cell-value domain model: the tagged
// CellValue union, rich-text runs, and the Excel error-code enum.
package cellvalue

import "fmt"

// CellError enumerates Excel's built-in error codes.
type CellError int

const (
	ErrDivZero CellError = iota
	ErrNA
	ErrName
	ErrNull
	ErrNum
	ErrRef
	ErrValue
)

var cellErrorStrings = map[CellError]string{
	ErrDivZero: "#DIV/0!",
	ErrNA:      "#N/A",
	ErrName:    "#NAME?",
	ErrNull:    "#NULL!",
	ErrNum:     "#NUM!",
	ErrRef:     "#REF!",
	ErrValue:   "#VALUE!",
}

var stringToCellError = func() map[string]CellError {
	m := make(map[string]CellError, len(cellErrorStrings))
	for k, v := range cellErrorStrings {
		m[v] = k
	}
	return m
}()

// String renders the error in its Excel round-trip form, e.g. "#DIV/0!".
func (e CellError) String() string {
	if s, ok := cellErrorStrings[e]; ok {
		return s
	}
	return "#N/A"
}

// ParseCellError parses an Excel error token (e.g. "#REF!") back into a
// CellError.
func ParseCellError(s string) (CellError, error) {
	if e, ok := stringToCellError[s]; ok {
		return e, nil
	}
	return 0, fmt.Errorf("cellvalue: unrecognized error token %q", s)
}
