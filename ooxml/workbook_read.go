package ooxml

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/latticebook/xlsx/addr"
	"github.com/latticebook/xlsx/sheet"
	"github.com/latticebook/xlsx/style"
	"github.com/latticebook/xlsx/workbook"
)

// ReadWorkbook materializes an entire .xlsx container into an in-memory
// workbook.Workbook, resolving each cell's style index against the
// styles.xml table parsed at Open. Unlike ReadStream and friends (which
// carry only values, per spec.md §4.4.2's RowData contract), this is the
// convenience path a caller reaches for when it wants a fully-addressable
// Sheet to mutate through patch/Apply rather than a one-pass stream.
func ReadWorkbook(r *Reader) (workbook.Workbook, error) {
	wb := workbook.New(r.date1904)
	for _, rs := range r.sheets {
		sh, err := r.readSheetWithStyles(rs)
		if err != nil {
			return workbook.Workbook{}, fmt.Errorf("ooxml: read sheet %q: %w", rs.name, err)
		}
		wb, err = wb.AddSheet(sh)
		if err != nil {
			return workbook.Workbook{}, err
		}
	}
	return wb, nil
}

func (r *Reader) readSheetWithStyles(rs readerSheet) (sheet.Sheet, error) {
	f, err := r.zr.Open(rs.target)
	if err != nil {
		return sheet.Sheet{}, err
	}
	defer f.Close()
	guarded, err := newDoctypeGuardedReader(f)
	if err != nil {
		return sheet.Sheet{}, err
	}

	registry := style.NewRegistry()
	localToGlobal := map[int]style.StyleId{}
	resolveStyle := func(xfIndex int) style.StyleId {
		if id, ok := localToGlobal[xfIndex]; ok {
			return id
		}
		cs, ok := r.StyleFor(xfIndex)
		if !ok {
			cs = style.Default
		}
		var id style.StyleId
		registry, id = registry.Register(cs)
		localToGlobal[xfIndex] = id
		return id
	}

	sh := sheet.New(addr.SheetName(rs.name), registry)

	dec := xml.NewDecoder(guarded)
	var (
		inCell  bool
		cellRef addr.ARef
		cellTyp string
		xfIndex int
		inValue bool
		inF     bool
		valBuf  []byte
		fBuf    []byte
		merges  []addr.CellRange
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return sheet.Sheet{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "c":
				inCell = true
				cellRef, _ = addr.ParseARef(attrStr(t.Attr, "r"))
				cellTyp = attrStr(t.Attr, "t")
				xfIndex = attrInt(t.Attr, "s", 0)
			case "v":
				if inCell {
					inValue = true
					valBuf = valBuf[:0]
				}
			case "f":
				if inCell {
					inF = true
					fBuf = fBuf[:0]
				}
			case "mergeCell":
				if ref := attrStr(t.Attr, "ref"); ref != "" {
					if mr, err := addr.ParseCellRange(ref); err == nil {
						merges = append(merges, mr)
					}
				}
			}
		case xml.CharData:
			if inValue {
				valBuf = append(valBuf, t...)
			} else if inF {
				fBuf = append(fBuf, t...)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "v":
				inValue = false
			case "f":
				inF = false
			case "c":
				if inCell {
					v := r.decodeCell(cellTyp, string(valBuf), string(fBuf))
					if !v.IsEmpty() || xfIndex != 0 {
						sh = sh.Put(cellRef, v, resolveStyle(xfIndex))
					}
				}
				inCell = false
			}
		}
	}
	for _, mr := range merges {
		sh = sh.MergeRange(mr)
	}
	sh = sh.WithRegistry(registry)
	return sh, nil
}
