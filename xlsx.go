// Package xlsx provides a pure-Go library for reading and writing Microsoft
// Excel (.xlsx) files. No cgo is required.
//
// # Quick start
//
//	f, err := os.Open("Book1.xlsx")
//	if err != nil { ... }
//	defer f.Close()
//	info, _ := f.Stat()
//
//	r, err := xlsx.Open(f, info.Size())
//	if err != nil { ... }
//
//	fmt.Println(r.SheetNames()) // [Sheet1 Sheet2]
//
//	rows, err := r.ReadSheetStream("Sheet1")
//	if err != nil { ... }
//	for row, err := range rows {
//	    if err != nil { ... }
//	    for col, cell := range row.Cells {
//	        fmt.Printf("(%d,%d) = %v\n", row.RowIndex, col, cell)
//	    }
//	}
//
// # Building and writing a workbook
//
//	wb := workbook.New(false)
//	sh := sheet.New("Sheet1", style.NewRegistry())
//	a1, _ := addr.ParseARef("A1")
//	sh = sh.PutValue(a1, cellvalue.NewText("hello"))
//	wb, _ = wb.AddSheet(sh)
//
//	out, err := os.Create("Book1.xlsx")
//	if err != nil { ... }
//	defer out.Close()
//	err = xlsx.Write(wb, out, xlsx.DefaultWriterConfig)
//
// # Addressing and patches
//
// The addr package implements A1/R1C1 addressing and range algebra; the
// patch package implements a monoid of sheet mutations (Put, SetStyle,
// Merge, ...) that compose associatively and apply as a single pass via
// patch.Apply, matching the "patch algebra" half of this library (spec.md
// §2, §4.3).
//
// # Formulas
//
// The formula package parses, prints, and evaluates a typed formula AST,
// including a dependency graph for recomputation ordering (formula.Graph).
package xlsx

import (
	"io"

	"github.com/latticebook/xlsx/addr"
	"github.com/latticebook/xlsx/ooxml"
	"github.com/latticebook/xlsx/style"
	"github.com/latticebook/xlsx/workbook"
)

// Version is the current version of this library.
const Version = "0.1.0"

// WriterConfig controls output shape and security posture for Write.
type WriterConfig = ooxml.WriterConfig

// DefaultWriterConfig is Auto shared strings, Deflate compression, and
// formula-injection escaping disabled.
var DefaultWriterConfig = ooxml.DefaultWriterConfig

// CompressDeflate and CompressStored select a WriterConfig's ZIP method.
const (
	CompressDeflate = ooxml.CompressDeflate
	CompressStored  = ooxml.CompressStored
)

// SharedStringsAuto, SharedStringsAlways, and SharedStringsNever select a
// WriterConfig's shared-string adoption policy.
const (
	SharedStringsAuto   = ooxml.SharedStringsAuto
	SharedStringsAlways = ooxml.SharedStringsAlways
	SharedStringsNever  = ooxml.SharedStringsNever
)

// Open indexes an .xlsx container for streaming reads. The caller retains
// ownership of r; Open does not close it.
func Open(r io.ReaderAt, size int64) (*ooxml.Reader, error) {
	return ooxml.Open(r, size)
}

// ReadWorkbook opens and fully materializes an .xlsx container into an
// in-memory workbook.Workbook, for callers that want a Sheet they can
// mutate through the patch package rather than a one-pass row stream.
func ReadWorkbook(r io.ReaderAt, size int64) (workbook.Workbook, error) {
	rd, err := ooxml.Open(r, size)
	if err != nil {
		return workbook.Workbook{}, err
	}
	return ooxml.ReadWorkbook(rd)
}

// Write serializes wb to w as a complete .xlsx package.
func Write(wb workbook.Workbook, w io.Writer, cfg WriterConfig) error {
	return ooxml.Write(wb, w, cfg)
}

// StreamCell and StreamRow describe a row-source-driven write: the shape a
// caller's RowSource yields to WriteSheetStream, WriteSheetStreamAutoDetect,
// and WriteWorkbookStream, for producing a workbook whose rows are never
// all resident in memory at once.
type (
	StreamCell  = ooxml.StreamCell
	StreamRow   = ooxml.StreamRow
	RowSource   = ooxml.RowSource
	SheetStream = ooxml.SheetStream
)

// WriteSheetStream writes a single sheet using the dimension-hinted
// single-pass pipeline: the caller already knows dim, the used range of the
// data rows will produce, so it is written before the first row and cells
// stream straight through with O(one row) memory.
func WriteSheetStream(w io.Writer, name string, dim addr.CellRange, rows RowSource, registry style.StyleRegistry, date1904 bool, cfg WriterConfig) error {
	return ooxml.WriteSheetStream(w, name, dim, rows, registry, date1904, cfg)
}

// WriteSheetStreamAutoDetect writes a single sheet using the auto-detect
// two-pass pipeline: rows are spooled to a temp file while their bounds are
// tracked, then the worksheet part is rewritten with the computed
// dimension. Use this when the used range isn't known ahead of time.
func WriteSheetStreamAutoDetect(w io.Writer, name string, rows RowSource, registry style.StyleRegistry, date1904 bool, cfg WriterConfig) error {
	return ooxml.WriteSheetStreamAutoDetect(w, name, rows, registry, date1904, cfg)
}

// WriteWorkbookStream writes an ordered sequence of (name, row-stream)
// sheets as one .xlsx package, auto-detecting each sheet's dimension.
// Duplicate names and an empty sequence are rejected before the output is
// opened.
func WriteWorkbookStream(w io.Writer, sheets []SheetStream, registry style.StyleRegistry, date1904 bool, cfg WriterConfig) error {
	return ooxml.WriteWorkbookStream(w, sheets, registry, date1904, cfg)
}
