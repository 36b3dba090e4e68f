package ooxml

import (
	"fmt"
	"io"
	"iter"
	"os"
	"sort"
	"strconv"

	sax "github.com/midbel/codecs/xml"

	"github.com/latticebook/xlsx/addr"
	"github.com/latticebook/xlsx/cellvalue"
	"github.com/latticebook/xlsx/sheet"
	"github.com/latticebook/xlsx/style"
)

// StreamCell is one populated cell handed to a row-source-driven write: a
// 1-based column index, its value, and the style it was registered under in
// the caller's style.StyleRegistry.
type StreamCell struct {
	Col   int
	Value cellvalue.CellValue
	Style style.StyleId
}

// StreamRow is one row of a row-source-driven write: a 1-based row index
// and its non-empty cells, the write-side mirror of Reader's RowData.
// Cells need not already be column-sorted; the writer sorts them so output
// still satisfies spec.md §5's left-to-right-by-column ordering guarantee.
type StreamRow struct {
	RowIndex int
	Cells    []StreamCell
}

// RowSource is a pull-driven, single-producer/single-consumer row stream —
// the write-side counterpart of Reader.ReadStream's iter.Seq2 (spec.md
// §4.5: "Row streams are single-producer, single-consumer, pull-driven").
type RowSource = iter.Seq2[StreamRow, error]

// checkStreamConfig rejects SharedStringsAuto for every row-source-driven
// write path: Auto adoption decides inline-vs-shared per string by first
// counting every occurrence across the whole sheet (prescanStrings), which
// requires materializing everything Write's single pass over a
// workbook.Workbook already holds in memory. A row source is read exactly
// once and is not assumed to be replayable, so that prescan is not
// available here; callers that want shared-string deduplication under
// streaming must opt into SharedStringsAlways explicitly.
func checkStreamConfig(cfg WriterConfig) error {
	if cfg.SharedStrings == SharedStringsAuto {
		return fmt.Errorf("ooxml: streaming writes do not support SharedStringsAuto (requires a two-pass string count over the whole sheet); use SharedStringsAlways or SharedStringsNever")
	}
	return nil
}

// WriteSheetStream writes a single-sheet .xlsx package using the
// dimension-hinted single-pass pipeline (spec.md §4.4.1 item 1): the caller
// already knows dim, so <dimension> is emitted before the first row and
// every row streams straight through to its ZIP entry. Memory is O(one
// row's cells), regardless of how many rows rows yields.
func WriteSheetStream(w io.Writer, name string, dim addr.CellRange, rows RowSource, registry style.StyleRegistry, date1904 bool, cfg WriterConfig) (err error) {
	if err := checkStreamConfig(cfg); err != nil {
		return err
	}
	return writeWorkbookStreamParts(w, []SheetStream{{Name: name, Rows: rows}}, registry, date1904, cfg, func(zw *zipWriter, table *stringTable, s SheetStream) error {
		return writeSheetStreamPart(zw, 1, s.Name, table, cfg, date1904, &dim, s.Rows)
	})
}

// WriteSheetStreamAutoDetect writes a single-sheet .xlsx package using the
// auto-detect two-pass pipeline (spec.md §4.4.1 item 2): rows are spooled
// to a temp file on disk while the min/max row and column are tracked, then
// the worksheet entry is written with the computed <dimension> followed by
// the spooled <sheetData>. The spool is deleted on every exit path —
// success, error, or panic during unwind — because its cleanup is
// registered with defer immediately after the file is created.
func WriteSheetStreamAutoDetect(w io.Writer, name string, rows RowSource, registry style.StyleRegistry, date1904 bool, cfg WriterConfig) (err error) {
	if err := checkStreamConfig(cfg); err != nil {
		return err
	}
	return writeWorkbookStreamParts(w, []SheetStream{{Name: name, Rows: rows}}, registry, date1904, cfg, func(zw *zipWriter, table *stringTable, s SheetStream) error {
		return writeSheetStreamPart(zw, 1, s.Name, table, cfg, date1904, nil, s.Rows)
	})
}

// SheetStream is one sheet of a multi-sheet streaming write: a name and its
// row source (spec.md §4.4.1 item 3).
type SheetStream struct {
	Name string
	Rows RowSource
}

// WriteWorkbookStream writes an ordered sequence of sheet streams as one
// .xlsx package, auto-detecting each sheet's dimension. Duplicate sheet
// names and an empty sequence are rejected before the output is opened, so
// an invalid request never leaves behind a partially-written file.
func WriteWorkbookStream(w io.Writer, sheets []SheetStream, registry style.StyleRegistry, date1904 bool, cfg WriterConfig) (err error) {
	if err := checkStreamConfig(cfg); err != nil {
		return err
	}
	if len(sheets) == 0 {
		return fmt.Errorf("ooxml: WriteWorkbookStream requires at least one sheet")
	}
	seen := make(map[string]bool, len(sheets))
	for _, s := range sheets {
		if seen[s.Name] {
			return fmt.Errorf("ooxml: WriteWorkbookStream: duplicate sheet name %q", s.Name)
		}
		seen[s.Name] = true
	}
	return writeWorkbookStreamParts(w, sheets, registry, date1904, cfg, func(zw *zipWriter, table *stringTable, s SheetStream) error {
		idx := indexOfSheetName(sheets, s.Name) + 1
		return writeSheetStreamPart(zw, idx, s.Name, table, cfg, date1904, nil, s.Rows)
	})
}

func indexOfSheetName(sheets []SheetStream, name string) int {
	for i, s := range sheets {
		if s.Name == name {
			return i
		}
	}
	return -1
}

// writeWorkbookStreamParts assembles the package around the per-sheet write
// callback: it opens the ZIP, writes each sheet via writeSheet, then the
// shared parts every .xlsx package needs (workbook.xml, styles.xml,
// sharedStrings.xml when used, docProps, relationships, content types) —
// the same orchestration Write uses, minus the full workbook.Workbook.
func writeWorkbookStreamParts(w io.Writer, sheets []SheetStream, registry style.StyleRegistry, date1904 bool, cfg WriterConfig, writeSheet func(zw *zipWriter, table *stringTable, s SheetStream) error) (err error) {
	zw := newZipWriter(w, cfg.Compression)
	defer func() {
		if cerr := zw.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	table := newStringTable()

	names := make([]string, len(sheets))
	for i, s := range sheets {
		names[i] = s.Name
	}

	for _, s := range sheets {
		if err = writeSheet(zw, table, s); err != nil {
			return fmt.Errorf("ooxml: write sheet %q: %w", s.Name, err)
		}
	}
	if err = writeStylesPart(zw, registry); err != nil {
		return fmt.Errorf("ooxml: write styles.xml: %w", err)
	}
	if len(table.values) > 0 {
		if err = writeSharedStringsPart(zw, table); err != nil {
			return fmt.Errorf("ooxml: write sharedStrings.xml: %w", err)
		}
	}
	if err = writeWorkbookPart(zw, names, date1904); err != nil {
		return fmt.Errorf("ooxml: write workbook.xml: %w", err)
	}
	if err = writeCorePropsPart(zw); err != nil {
		return fmt.Errorf("ooxml: write docProps/core.xml: %w", err)
	}
	if err = writeAppPropsPart(zw); err != nil {
		return fmt.Errorf("ooxml: write docProps/app.xml: %w", err)
	}
	if err = writeRelsParts(zw, len(sheets), len(table.values) > 0); err != nil {
		return fmt.Errorf("ooxml: write relationships: %w", err)
	}
	if err = writeContentTypesPart(zw, names, len(table.values) > 0); err != nil {
		return fmt.Errorf("ooxml: write [Content_Types].xml: %w", err)
	}
	return nil
}

// writeSheetStreamPart writes one worksheet entry from a row source. When
// dim is non-nil, it takes the dimension-hinted single-pass path: dim is
// emitted up front and rows stream straight to the ZIP entry. When dim is
// nil, it takes the auto-detect two-pass path: rows are spooled to a temp
// file while bounds are tracked, then the entry is written with the
// computed dimension followed by the spooled sheetData.
func writeSheetStreamPart(zw *zipWriter, index int, name string, table *stringTable, cfg WriterConfig, date1904 bool, dim *addr.CellRange, rows RowSource) error {
	if dim != nil {
		out, err := zw.createSheet(fmt.Sprintf("xl/worksheets/sheet%d.xml", index))
		if err != nil {
			return err
		}
		sw, err := newSheetWriter(out, table, cfg, nil, date1904)
		if err != nil {
			return err
		}
		return sw.writeSheetFromSource(*dim, rows)
	}
	return writeSheetStreamAutoDetectPart(zw, index, table, cfg, date1904, rows)
}

// writeSheetStreamAutoDetectPart is the scoped-acquisition half of the
// auto-detect pipeline (spec.md §4.5: "the spool handle is registered at
// stream start and deleted on completion, cancellation, or failure"): the
// spool file is created, its removal deferred immediately, and only then is
// it ever written to or read from, so every return path below — including
// a panic unwinding through this frame — still deletes it.
func writeSheetStreamAutoDetectPart(zw *zipWriter, index int, table *stringTable, cfg WriterConfig, date1904 bool, rows RowSource) error {
	spool, err := os.CreateTemp("", "xlsx-spool-*.xml")
	if err != nil {
		return fmt.Errorf("ooxml: create spool file: %w", err)
	}
	spoolPath := spool.Name()
	defer os.Remove(spoolPath)
	defer spool.Close()

	sw, err := newSheetWriter(spool, table, cfg, nil, date1904)
	if err != nil {
		return err
	}
	lo, hi, sawAny, err := sw.writeRowSource(rows)
	if err != nil {
		return err
	}
	if err := sw.w.Flush(); err != nil {
		return fmt.Errorf("ooxml: flush spool writer: %w", err)
	}
	if err := spool.Sync(); err != nil {
		return fmt.Errorf("ooxml: flush spool file: %w", err)
	}

	out, err := zw.createSheet(fmt.Sprintf("xl/worksheets/sheet%d.xml", index))
	if err != nil {
		return err
	}
	return writeWorksheetWrapper(out, lo, hi, sawAny, spoolPath)
}

// writeWorksheetWrapper copies the spooled <sheetData> into the final ZIP
// entry, wrapped with the now-known <dimension> — the "rewrite the
// worksheet entry with the computed dimension followed by the spool
// contents" step of spec.md §4.4.1's auto-detect pipeline. It writes the
// wrapper tags directly rather than through a second sax.StreamWriter:
// sax's writer keeps its own open-element stack, and a fresh instance here
// would know nothing about the <worksheet> a separate instance opened, so
// plain io.WriteString keeps the two halves correct independent of that
// writer's internals.
func writeWorksheetWrapper(out io.Writer, lo, hi addr.ARef, sawAny bool, spoolPath string) error {
	dim := "A1"
	if sawAny {
		dim = addr.NewCellRange(lo, hi).A1()
	}
	open := fmt.Sprintf(`<worksheet xmlns="%s" xmlns:r="%s"><dimension ref="%s"/>`, nsSpreadsheetML, nsOfficeDocRel, dim)
	if _, err := io.WriteString(out, open); err != nil {
		return err
	}

	spool, err := os.Open(spoolPath)
	if err != nil {
		return fmt.Errorf("ooxml: reopen spool file: %w", err)
	}
	defer spool.Close()
	if _, err := io.Copy(out, spool); err != nil {
		return fmt.Errorf("ooxml: copy spool contents: %w", err)
	}

	_, err = io.WriteString(out, "</worksheet>")
	return err
}

// writeSheetFromSource streams the <worksheet> part from rows instead of an
// in-memory sheet.Sheet, for the dimension-hinted single-pass pipeline: dim
// is already known, so it is emitted before sheetData and no row is ever
// buffered.
func (w *sheetWriter) writeSheetFromSource(dim addr.CellRange, rows RowSource) error {
	root := sax.LocalName("worksheet")
	if err := w.w.Open(root, []sax.A{
		nsDecl("", nsSpreadsheetML),
		nsDecl("r", nsOfficeDocRel),
	}); err != nil {
		return err
	}
	if err := w.w.Empty(sax.LocalName("dimension"), []sax.A{attr("ref", dim.A1())}); err != nil {
		return err
	}
	if _, _, _, err := w.writeRowSource(rows); err != nil {
		return err
	}
	if err := w.w.Close(root); err != nil {
		return err
	}
	return w.w.Flush()
}

// writeRowSource emits <sheetData> and its rows from rows, tracking the
// encountered row/column bounds so a caller that did not already know the
// dimension can compute one afterward.
func (w *sheetWriter) writeRowSource(rows RowSource) (lo, hi addr.ARef, sawAny bool, err error) {
	sheetData := sax.LocalName("sheetData")
	if err := w.w.Open(sheetData, nil); err != nil {
		return 0, 0, false, err
	}

	var minRow, maxRow, minCol, maxCol int
	for row, rerr := range rows {
		if rerr != nil {
			return 0, 0, false, rerr
		}

		cells := append([]StreamCell(nil), row.Cells...)
		sort.Slice(cells, func(i, j int) bool { return cells[i].Col < cells[j].Col })

		rowName := sax.LocalName("row")
		if err := w.w.Open(rowName, []sax.A{attr("r", strconv.Itoa(row.RowIndex))}); err != nil {
			return 0, 0, false, err
		}
		for _, c := range cells {
			ref := addr.NewARef(addr.Row(row.RowIndex-1), addr.Column(c.Col-1))
			if err := w.writeCell(ref, sheet.Cell{Value: c.Value, Style: c.Style}); err != nil {
				return 0, 0, false, err
			}
			if !sawAny || c.Col < minCol {
				minCol = c.Col
			}
			if !sawAny || c.Col > maxCol {
				maxCol = c.Col
			}
			sawAny = true
		}
		if err := w.w.Close(rowName); err != nil {
			return 0, 0, false, err
		}
		if row.RowIndex < minRow || minRow == 0 {
			minRow = row.RowIndex
		}
		if row.RowIndex > maxRow {
			maxRow = row.RowIndex
		}
	}
	if err := w.w.Close(sheetData); err != nil {
		return 0, 0, false, err
	}
	if !sawAny {
		return 0, 0, false, nil
	}
	return addr.NewARef(addr.Row(minRow-1), addr.Column(minCol-1)),
		addr.NewARef(addr.Row(maxRow-1), addr.Column(maxCol-1)),
		true, nil
}
