package ooxml

import (
	"archive/zip"
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/latticebook/xlsx/addr"
	"github.com/latticebook/xlsx/cellvalue"
	"github.com/latticebook/xlsx/internal/rels"
	"github.com/latticebook/xlsx/style"
)

// RowData is one row of a streamed worksheet read: a 1-based row index and
// the non-empty cells it carries, keyed by 1-based column index (spec.md
// §4.4.2: "Empty cells are not present in the map").
type RowData struct {
	RowIndex int
	Cells    map[int]cellvalue.CellValue
}

// Reader is a pull parser over an already-opened .xlsx ZIP container. It
// indexes the small parts (workbook.xml, styles.xml, sharedStrings.xml,
// relationships) eagerly — they are bounded in size — and leaves worksheet
// parts to be streamed lazily on demand, mirroring the writer's split
// between one-shot parts and the row-by-row sheetWriter.
type Reader struct {
	zr       *zip.Reader
	date1904 bool
	sheets   []readerSheet
	sst      []cellvalue.CellValue
	cellXfs  []style.CellStyle
}

type readerSheet struct {
	name   string
	rID    string
	target string // path within the ZIP, e.g. "xl/worksheets/sheet1.xml"
}

// Open indexes an .xlsx container for streaming reads.
func Open(ra io.ReaderAt, size int64) (*Reader, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("ooxml: open zip: %w", err)
	}
	r := &Reader{zr: zr}

	workbookRels, err := r.readRels("xl/_rels/workbook.xml.rels")
	if err != nil {
		return nil, err
	}

	wbBytes, err := r.readPart("xl/workbook.xml")
	if err != nil {
		return nil, err
	}
	var wb xmlWorkbook
	if err := decodeXMLGuarded(wbBytes, &wb); err != nil {
		return nil, fmt.Errorf("ooxml: parse workbook.xml: %w", err)
	}
	r.date1904 = wb.Properties.Date1904
	for _, s := range wb.Sheets {
		target, ok := workbookRels[s.RId]
		if !ok {
			return nil, fmt.Errorf("ooxml: sheet %q: no relationship for %s", s.Name, s.RId)
		}
		r.sheets = append(r.sheets, readerSheet{name: s.Name, rID: s.RId, target: resolvePartPath("xl", target)})
	}

	if data, ok, err := r.tryReadPart("xl/sharedStrings.xml"); err != nil {
		return nil, err
	} else if ok {
		sst, err := parseSharedStrings(data)
		if err != nil {
			return nil, fmt.Errorf("ooxml: parse sharedStrings.xml: %w", err)
		}
		r.sst = sst
	}

	stylesData, err := r.readPart("xl/styles.xml")
	if err != nil {
		return nil, err
	}
	cellXfs, err := parseStyles(stylesData)
	if err != nil {
		return nil, fmt.Errorf("ooxml: parse styles.xml: %w", err)
	}
	r.cellXfs = cellXfs

	return r, nil
}

// Date1904 reports the workbook's date system.
func (r *Reader) Date1904() bool { return r.date1904 }

// SheetNames returns sheet names in workbook order.
func (r *Reader) SheetNames() []string {
	names := make([]string, len(r.sheets))
	for i, s := range r.sheets {
		names[i] = s.name
	}
	return names
}

// Dimension reads a sheet's declared <dimension ref="..."> without
// streaming the rest of the part, an O(1) operation since the element sits
// in the first few hundred bytes of the XML (spec.md §4.4.2).
func (r *Reader) Dimension(name string) (addr.CellRange, error) {
	idx, err := r.indexOf(name)
	if err != nil {
		return addr.CellRange{}, err
	}
	f, err := r.zr.Open(r.sheets[idx].target)
	if err != nil {
		return addr.CellRange{}, err
	}
	defer f.Close()

	buf := make([]byte, 4096)
	n, _ := io.ReadFull(f, buf)
	buf = buf[:n]
	const marker = `dimension ref="`
	i := strings.Index(string(buf), marker)
	if i < 0 {
		return addr.CellRange{}, fmt.Errorf("ooxml: dimension not found in first %d bytes of %q", n, name)
	}
	rest := string(buf[i+len(marker):])
	j := strings.IndexByte(rest, '"')
	if j < 0 {
		return addr.CellRange{}, fmt.Errorf("ooxml: malformed dimension ref in %q", name)
	}
	return addr.ParseCellRange(rest[:j])
}

// ReadStream streams the workbook's first sheet.
func (r *Reader) ReadStream() (iter.Seq2[RowData, error], error) {
	return r.ReadStreamByIndex(0)
}

// ReadStreamByIndex streams the n-th sheet (0-based) in workbook order.
func (r *Reader) ReadStreamByIndex(n int) (iter.Seq2[RowData, error], error) {
	if n < 0 || n >= len(r.sheets) {
		return nil, fmt.Errorf("ooxml: sheet index %d out of range", n)
	}
	return r.streamSheet(r.sheets[n], nil)
}

// ReadSheetStream streams the sheet named name.
func (r *Reader) ReadSheetStream(name string) (iter.Seq2[RowData, error], error) {
	idx, err := r.indexOf(name)
	if err != nil {
		return nil, err
	}
	return r.streamSheet(r.sheets[idx], nil)
}

// ReadStreamRange streams only rows intersecting rng.rows, and within each
// row only cells whose column lies in rng.cols (spec.md §4.4.2).
func (r *Reader) ReadStreamRange(name string, rng addr.CellRange) (iter.Seq2[RowData, error], error) {
	idx, err := r.indexOf(name)
	if err != nil {
		return nil, err
	}
	return r.streamSheet(r.sheets[idx], &rng)
}

func (r *Reader) indexOf(name string) (int, error) {
	for i, s := range r.sheets {
		if s.name == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("ooxml: no sheet named %q", name)
}

func (r *Reader) streamSheet(rs readerSheet, bound *addr.CellRange) (iter.Seq2[RowData, error], error) {
	f, err := r.zr.Open(rs.target)
	if err != nil {
		return nil, err
	}
	guarded, err := newDoctypeGuardedReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	seq := func(yield func(RowData, error) bool) {
		defer f.Close()
		dec := xml.NewDecoder(guarded)

		var (
			cur     *RowData
			inCell  bool
			cellRef addr.ARef
			cellTyp string
			styleID int
			inValue bool
			inF     bool
			valBuf  strings.Builder
			fBuf    strings.Builder
		)

		emitCurrent := func() bool {
			if cur == nil {
				return true
			}
			if len(cur.Cells) > 0 || bound == nil {
				if !yield(*cur, nil) {
					return false
				}
			}
			cur = nil
			return true
		}

		for {
			tok, err := dec.Token()
			if err == io.EOF {
				break
			}
			if err != nil {
				yield(RowData{}, fmt.Errorf("ooxml: decode %s: %w", rs.target, err))
				return
			}
			switch t := tok.(type) {
			case xml.StartElement:
				switch t.Name.Local {
				case "row":
					ri := attrInt(t.Attr, "r", 0)
					if bound != nil && (ri < bound.Start.Row().Number() || ri > bound.End.Row().Number()) {
						if err := dec.Skip(); err != nil && err != io.EOF {
							yield(RowData{}, err)
							return
						}
						continue
					}
					cur = &RowData{RowIndex: ri, Cells: map[int]cellvalue.CellValue{}}
				case "c":
					inCell = true
					ref, _ := addr.ParseARef(attrStr(t.Attr, "r"))
					cellRef = ref
					cellTyp = attrStr(t.Attr, "t")
					styleID = attrInt(t.Attr, "s", 0)
				case "v":
					if inCell {
						inValue = true
						valBuf.Reset()
					}
				case "f":
					if inCell {
						inF = true
						fBuf.Reset()
					}
				}
			case xml.CharData:
				if inValue {
					valBuf.Write(t)
				} else if inF {
					fBuf.Write(t)
				}
			case xml.EndElement:
				switch t.Name.Local {
				case "v":
					inValue = false
				case "f":
					inF = false
				case "c":
					if inCell && cur != nil {
						col := cellRef.Col().Number()
						if bound == nil || (col >= bound.Start.Col().Number() && col <= bound.End.Col().Number()) {
							v := r.decodeCell(cellTyp, valBuf.String(), fBuf.String())
							if !v.IsEmpty() {
								_ = styleID // style id is resolved by the caller via StyleFor, not embedded in RowData
								cur.Cells[col] = v
							}
						}
					}
					inCell = false
				case "row":
					if !emitCurrent() {
						return
					}
				}
			}
		}
		emitCurrent()
	}
	return seq, nil
}

// decodeCell applies the "t" attribute dispatch from spec.md §4.4.2.
func (r *Reader) decodeCell(typ, raw, formula string) cellvalue.CellValue {
	if formula != "" {
		var cached *cellvalue.CellValue
		if raw != "" {
			v := r.decodeCell(strOr(typ, "n"), raw, "")
			cached = &v
		}
		return cellvalue.NewFormula(formula, cached)
	}
	switch typ {
	case "s":
		idx, err := strconv.Atoi(raw)
		if err != nil || idx < 0 || idx >= len(r.sst) {
			return cellvalue.NewText("")
		}
		return r.sst[idx]
	case "inlineStr":
		return cellvalue.NewText(raw)
	case "str":
		return cellvalue.NewText(raw)
	case "b":
		return cellvalue.NewBool(raw == "1")
	case "e":
		if ce, err := cellvalue.ParseCellError(raw); err == nil {
			return cellvalue.NewError(ce)
		}
		return cellvalue.NewError(cellvalue.ErrValue)
	default:
		if raw == "" {
			return cellvalue.Empty
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return cellvalue.NewText(raw)
		}
		return cellvalue.NewNumber(d)
	}
}

func strOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// StyleFor resolves a cell's numFmtId-derived date-ness and full CellStyle
// for the given "s" attribute value, used by callers reconstructing a
// sheet.Sheet from a read stream (the cellXfs table is read once at Open).
func (r *Reader) StyleFor(xfIndex int) (style.CellStyle, bool) {
	if xfIndex < 0 || xfIndex >= len(r.cellXfs) {
		return style.Default, false
	}
	return r.cellXfs[xfIndex], true
}

func attrStr(attrs []xml.Attr, local string) string {
	for _, a := range attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func attrInt(attrs []xml.Attr, local string, fallback int) int {
	s := attrStr(attrs, local)
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func (r *Reader) readPart(name string) ([]byte, error) {
	data, ok, err := r.tryReadPart(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("ooxml: missing required part %q", name)
	}
	return data, nil
}

func (r *Reader) tryReadPart(name string) ([]byte, bool, error) {
	f, err := r.zr.Open(name)
	if err != nil {
		return nil, false, nil
	}
	defer f.Close()
	guarded, err := newDoctypeGuardedReader(f)
	if err != nil {
		return nil, true, err
	}
	data, err := io.ReadAll(guarded)
	if err != nil {
		return nil, true, err
	}
	return data, true, nil
}

func (r *Reader) readRels(name string) (map[string]string, error) {
	data, ok, err := r.tryReadPart(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return map[string]string{}, nil
	}
	return rels.Resolve(data)
}

// resolvePartPath resolves a relationship Target (relative to base, e.g.
// "worksheets/sheet1.xml" relative to "xl") into a full in-ZIP path.
func resolvePartPath(base, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return base + "/" + target
}

// decodeXMLGuarded rejects a DOCTYPE prolog before handing data to
// encoding/xml, the hard XXE defense spec.md §7 requires.
func decodeXMLGuarded(data []byte, v any) error {
	prefix := data
	if len(prefix) > 4096 {
		prefix = prefix[:4096]
	}
	if containsDoctype(prefix) {
		return errDoctypeDisallowed
	}
	return xml.Unmarshal(data, v)
}

// newDoctypeGuardedReader sniffs the first chunk of an XML stream for a
// DOCTYPE prolog before any byte reaches the XML decoder.
func newDoctypeGuardedReader(src io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(src, 8192)
	peek, _ := br.Peek(8192)
	if containsDoctype(peek) {
		return nil, errDoctypeDisallowed
	}
	return br, nil
}

func parseSharedStrings(data []byte) ([]cellvalue.CellValue, error) {
	prefix := data
	if len(prefix) > 4096 {
		prefix = prefix[:4096]
	}
	if containsDoctype(prefix) {
		return nil, errDoctypeDisallowed
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	var (
		items      []cellvalue.CellValue
		runs       []cellvalue.RichRun
		plain      strings.Builder
		inSI       bool
		inT        bool
		inRun      bool
		runText    strings.Builder
	)
	flushSI := func() {
		if len(runs) > 0 {
			items = append(items, cellvalue.NewRichText(runs))
		} else {
			items = append(items, cellvalue.NewText(plain.String()))
		}
		runs = nil
		plain.Reset()
	}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "si":
				inSI = true
			case "r":
				if inSI {
					inRun = true
					runText.Reset()
				}
			case "t":
				inT = true
			}
		case xml.CharData:
			if inT {
				if inRun {
					runText.Write(t)
				} else {
					plain.Write(t)
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inT = false
			case "r":
				if inRun {
					runs = append(runs, cellvalue.RichRun{Text: runText.String()})
					inRun = false
				}
			case "si":
				if inSI {
					flushSI()
					inSI = false
				}
			}
		}
	}
	return items, nil
}

func parseStyles(data []byte) ([]style.CellStyle, error) {
	prefix := data
	if len(prefix) > 4096 {
		prefix = prefix[:4096]
	}
	if containsDoctype(prefix) {
		return nil, errDoctypeDisallowed
	}

	var raw xmlStyleSheet
	if err := xml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	numFmts := map[int]style.NumFmt{}
	for _, nf := range raw.NumFmts.NumFmts {
		numFmts[nf.NumFmtId] = style.Custom(nf.FormatCode)
	}
	resolveNumFmt := func(id int) style.NumFmt {
		if nf, ok := numFmts[id]; ok {
			return nf
		}
		return style.NumFmtForBuiltIn(id)
	}

	toFont := func(i int) style.Font {
		if i < 0 || i >= len(raw.Fonts.Fonts) {
			return style.DefaultFont
		}
		xf := raw.Fonts.Fonts[i]
		f := style.Font{Name: xf.Name.Val, Size: xf.Sz.Val, Bold: xf.B != nil, Italic: xf.I != nil, Underline: xf.U != nil}
		if xf.Color != nil {
			f.Color = xf.Color.Rgb
		}
		return f
	}
	toFill := func(i int) style.Fill {
		if i < 0 || i >= len(raw.Fills.Fills) {
			return style.Fill{}
		}
		xf := raw.Fills.Fills[i]
		fl := style.Fill{Pattern: xf.PatternFill.PatternType}
		if xf.PatternFill.FgColor != nil {
			fl.FgColor = xf.PatternFill.FgColor.Rgb
		}
		if xf.PatternFill.BgColor != nil {
			fl.BgColor = xf.PatternFill.BgColor.Rgb
		}
		return fl
	}
	toBorderLine := func(e xmlBorderEdge) style.BorderLine {
		bl := style.BorderLine{Style: e.Style}
		if e.Color != nil {
			bl.Color = e.Color.Rgb
		}
		return bl
	}
	toBorder := func(i int) style.Border {
		if i < 0 || i >= len(raw.Borders.Borders) {
			return style.Border{}
		}
		xb := raw.Borders.Borders[i]
		return style.Border{
			Top:    toBorderLine(xb.Top),
			Bottom: toBorderLine(xb.Bottom),
			Left:   toBorderLine(xb.Left),
			Right:  toBorderLine(xb.Right),
		}
	}
	toAlignment := func(a *xmlAlignment) style.Alignment {
		if a == nil {
			return style.Alignment{}
		}
		return style.Alignment{
			Horizontal:   parseHAlign(a.Horizontal),
			Vertical:     parseVAlign(a.Vertical),
			WrapText:     a.WrapText,
			TextRotation: a.TextRotation,
		}
	}

	out := make([]style.CellStyle, 0, len(raw.CellXfs.Xfs))
	for _, xf := range raw.CellXfs.Xfs {
		out = append(out, style.CellStyle{
			Font:      toFont(xf.FontId),
			Fill:      toFill(xf.FillId),
			Border:    toBorder(xf.BorderId),
			Alignment: toAlignment(xf.Alignment),
			NumFmt:    resolveNumFmt(xf.NumFmtId),
		})
	}
	return out, nil
}

func parseHAlign(s string) style.HAlign {
	switch s {
	case "left":
		return style.HAlignLeft
	case "center":
		return style.HAlignCenter
	case "right":
		return style.HAlignRight
	case "fill":
		return style.HAlignFill
	case "justify":
		return style.HAlignJustify
	default:
		return style.HAlignGeneral
	}
}

func parseVAlign(s string) style.VAlign {
	switch s {
	case "top":
		return style.VAlignTop
	case "center":
		return style.VAlignCenter
	case "justify":
		return style.VAlignJustify
	default:
		return style.VAlignBottom
	}
}

