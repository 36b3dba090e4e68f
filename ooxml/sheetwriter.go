package ooxml

import (
	"io"
	"strconv"

	sax "github.com/midbel/codecs/xml"

	"github.com/latticebook/xlsx/addr"
	"github.com/latticebook/xlsx/cellvalue"
	"github.com/latticebook/xlsx/numfmt"
	"github.com/latticebook/xlsx/sheet"
	"github.com/latticebook/xlsx/style"
)

// sheetWriter streams one worksheet's XML part row by row, grounded on the
// push-writer contract in the retrieved oxml-writer reference (Open/Empty/
// Text/Close/Flush over a sax.StreamWriter): memory is O(one row's cells),
// matching the dimension-hinted single-pass pipeline from spec.md §6.1.
type sheetWriter struct {
	w        *sax.StreamWriter
	table    *stringTable
	opts     WriterConfig
	remap    map[style.StyleId]style.StyleId
	date1904 bool
}

func newSheetWriter(out io.Writer, table *stringTable, opts WriterConfig, remap map[style.StyleId]style.StyleId, date1904 bool) (*sheetWriter, error) {
	w, err := sax.Compact(out)
	if err != nil {
		return nil, err
	}
	return &sheetWriter{w: w, table: table, opts: opts, remap: remap, date1904: date1904}, nil
}

func nsDecl(prefix, uri string) sax.A {
	name := "xmlns"
	if prefix != "" {
		name = "xmlns:" + prefix
	}
	return sax.A{QName: sax.LocalName(name), Value: uri}
}

func attr(name, value string) sax.A {
	return sax.A{QName: sax.LocalName(name), Value: value}
}

// WriteSheet streams s's used-range cells as the <worksheet> part.
func (w *sheetWriter) WriteSheet(s sheet.Sheet) error {
	root := sax.LocalName("worksheet")
	if err := w.w.Open(root, []sax.A{
		nsDecl("", nsSpreadsheetML),
		nsDecl("r", nsOfficeDocRel),
	}); err != nil {
		return err
	}

	used, ok := s.UsedRange()
	dim := "A1"
	if ok {
		dim = used.A1()
	}
	if err := w.w.Empty(sax.LocalName("dimension"), []sax.A{attr("ref", dim)}); err != nil {
		return err
	}

	if err := w.writeCols(s); err != nil {
		return err
	}
	if err := w.writeRows(s, used, ok); err != nil {
		return err
	}
	if err := w.writeMerges(s); err != nil {
		return err
	}

	if err := w.w.Close(root); err != nil {
		return err
	}
	return w.w.Flush()
}

func (w *sheetWriter) writeCols(s sheet.Sheet) error {
	// <cols> is never emitted: per-column overrides set with
	// sheet.SetColumnProps (width, hidden, style) are not written.
	return nil
}

func (w *sheetWriter) writeRows(s sheet.Sheet, used addr.CellRange, hasUsed bool) error {
	sheetData := sax.LocalName("sheetData")
	if err := w.w.Open(sheetData, nil); err != nil {
		return err
	}
	if !hasUsed {
		return w.w.Close(sheetData)
	}

	rowName := sax.LocalName("row")
	curRow := used.Start.Row()
	rowOpen := false

	closeRowIfOpen := func() error {
		if rowOpen {
			rowOpen = false
			return w.w.Close(rowName)
		}
		return nil
	}

	for ref, cell := range s.Cells() {
		if ref.Row() != curRow || !rowOpen {
			if err := closeRowIfOpen(); err != nil {
				return err
			}
			curRow = ref.Row()
			if err := w.w.Open(rowName, []sax.A{attr("r", strconv.Itoa(curRow.Number()))}); err != nil {
				return err
			}
			rowOpen = true
		}
		if err := w.writeCell(ref, cell); err != nil {
			return err
		}
	}
	if err := closeRowIfOpen(); err != nil {
		return err
	}
	return w.w.Close(sheetData)
}

func (w *sheetWriter) writeCell(ref addr.ARef, c sheet.Cell) error {
	cellName := sax.LocalName("c")
	attrs := []sax.A{attr("r", ref.A1())}
	if c.Style != 0 {
		id := c.Style
		if global, ok := w.remap[id]; ok {
			id = global
		}
		attrs = append(attrs, attr("s", strconv.Itoa(int(id))))
	}

	typ, raw, formula := w.encodeValue(c.Value)
	if typ != "" {
		attrs = append(attrs, attr("t", typ))
	}

	if err := w.w.Open(cellName, attrs); err != nil {
		return err
	}
	if formula != "" {
		fName := sax.LocalName("f")
		if err := w.w.Open(fName, nil); err != nil {
			return err
		}
		if err := w.w.Text(formula); err != nil {
			return err
		}
		if err := w.w.Close(fName); err != nil {
			return err
		}
	}
	if raw != "" || typ != "" {
		vName := sax.LocalName("v")
		if err := w.w.Open(vName, nil); err != nil {
			return err
		}
		if err := w.w.Text(raw); err != nil {
			return err
		}
		if err := w.w.Close(vName); err != nil {
			return err
		}
	}
	return w.w.Close(cellName)
}

// encodeValue returns the "t" attribute (empty for the default numeric
// type), the <v> payload, and a formula expression string when present.
func (w *sheetWriter) encodeValue(v cellvalue.CellValue) (t string, raw string, formula string) {
	switch v.Kind {
	case cellvalue.KindEmpty:
		return "", "", ""
	case cellvalue.KindNumber:
		return "", v.Number.String(), ""
	case cellvalue.KindBool:
		if v.Bool {
			return "b", "1", ""
		}
		return "b", "0", ""
	case cellvalue.KindError:
		return "e", v.Error.String(), ""
	case cellvalue.KindDateTime:
		serial := numfmt.ToSerial(v.DateTime, w.date1904)
		return "", strconv.FormatFloat(serial, 'f', -1, 64), ""
	case cellvalue.KindText:
		return w.encodeText(v.Text)
	case cellvalue.KindRichText:
		return w.encodeText(v.PlainText())
	case cellvalue.KindFormula:
		if v.FormulaCached != nil {
			t, raw, _ = w.encodeValue(*v.FormulaCached)
		}
		return t, raw, v.FormulaExpr
	default:
		return "", "", ""
	}
}

func (w *sheetWriter) encodeText(s string) (string, string, string) {
	if w.opts.Secure {
		s = escapeFormulaInjection(s)
	}
	switch w.opts.SharedStrings {
	case SharedStringsNever:
		return "inlineStr", s, ""
	case SharedStringsAlways:
		return "s", strconv.Itoa(w.table.Intern(s)), ""
	default: // SharedStringsAuto
		if w.table.ShouldAdopt(s) {
			return "s", strconv.Itoa(w.table.Intern(s)), ""
		}
		return "inlineStr", s, ""
	}
}

func (w *sheetWriter) writeMerges(s sheet.Sheet) error {
	ranges := s.MergedRanges()
	if len(ranges) == 0 {
		return nil
	}
	name := sax.LocalName("mergeCells")
	if err := w.w.Open(name, []sax.A{attr("count", strconv.Itoa(len(ranges)))}); err != nil {
		return err
	}
	for _, r := range ranges {
		if err := w.w.Empty(sax.LocalName("mergeCell"), []sax.A{attr("ref", r.A1())}); err != nil {
			return err
		}
	}
	return w.w.Close(name)
}
