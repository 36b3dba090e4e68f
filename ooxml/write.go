package ooxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/latticebook/xlsx/sheet"
	"github.com/latticebook/xlsx/style"
	"github.com/latticebook/xlsx/workbook"
)

// WriterConfig controls output shape and security posture.
type WriterConfig struct {
	// Compression selects the ZIP storage method for every part except
	// worksheets, which are always Deflated.
	Compression CompressionMode
	// SharedStrings selects the shared-string adoption policy.
	SharedStrings SharedStringPolicy
	// Secure enables formula-injection escaping on text cell values.
	Secure bool
}

// DefaultWriterConfig is Auto shared strings, Deflate compression, and
// Secure escaping disabled (matching a reader that already round-trips
// whatever was written).
var DefaultWriterConfig = WriterConfig{
	Compression:   CompressDeflate,
	SharedStrings: SharedStringsAuto,
	Secure:        false,
}

// Write serializes wb to w as a complete .xlsx package, using the
// dimension-hinted single-pass pipeline from spec.md §6.1: each sheet's
// used range is already known (Sheet.UsedRange), so cells stream straight
// through to their ZIP entry with O(one row) memory.
func Write(wb workbook.Workbook, w io.Writer, cfg WriterConfig) (err error) {
	if verr := wb.Validate(); verr != nil {
		return verr
	}

	zw := newZipWriter(w, cfg.Compression)
	defer func() {
		if cerr := zw.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	table := newStringTable()
	prescanStrings(wb, table, cfg.SharedStrings)

	registry := style.NewRegistry()
	remaps := make([]map[style.StyleId]style.StyleId, wb.Len())
	for i, sh := range wb.Sheets() {
		registry, remaps[i] = mergeRegistries(registry, sh.Registry())
	}

	for i, sh := range wb.Sheets() {
		if err = writeSheetPart(zw, i+1, sh, table, cfg, remaps[i], wb.Date1904()); err != nil {
			return fmt.Errorf("ooxml: write sheet %q: %w", sh.Name(), err)
		}
	}
	if err = writeWorkbookPart(zw, wb.SheetNames(), wb.Date1904()); err != nil {
		return fmt.Errorf("ooxml: write workbook.xml: %w", err)
	}
	if err = writeStylesPart(zw, registry); err != nil {
		return fmt.Errorf("ooxml: write styles.xml: %w", err)
	}
	if len(table.values) > 0 {
		if err = writeSharedStringsPart(zw, table); err != nil {
			return fmt.Errorf("ooxml: write sharedStrings.xml: %w", err)
		}
	}
	if err = writeCorePropsPart(zw); err != nil {
		return fmt.Errorf("ooxml: write docProps/core.xml: %w", err)
	}
	if err = writeAppPropsPart(zw); err != nil {
		return fmt.Errorf("ooxml: write docProps/app.xml: %w", err)
	}
	if err = writeRelsParts(zw, wb.Len(), len(table.values) > 0); err != nil {
		return fmt.Errorf("ooxml: write relationships: %w", err)
	}
	if err = writeContentTypesPart(zw, wb.SheetNames(), len(table.values) > 0); err != nil {
		return fmt.Errorf("ooxml: write [Content_Types].xml: %w", err)
	}
	return nil
}

// mergeRegistries folds src's distinct styles into dst, used to build one
// workbook-wide style table out of each sheet's independently-grown
// registry at write time (spec.md §6: "style remapping, per-sheet to
// global registry at write time"), and returns the local-to-global StyleId
// translation a sheet's cells must go through before being written.
func mergeRegistries(dst style.StyleRegistry, src style.StyleRegistry) (style.StyleRegistry, map[style.StyleId]style.StyleId) {
	remap := make(map[style.StyleId]style.StyleId, src.Len())
	for i, cs := range src.All() {
		var id style.StyleId
		dst, id = dst.Register(cs)
		remap[style.StyleId(i)] = id
	}
	return dst, remap
}

func prescanStrings(wb workbook.Workbook, table *stringTable, policy SharedStringPolicy) {
	if policy == SharedStringsNever {
		return
	}
	for _, sh := range wb.Sheets() {
		for _, cell := range sh.Cells() {
			if text, ok := plainTextOf(cell.Value); ok {
				table.counts[text]++
			}
		}
	}
	// Reset interning state: Intern() is called again during the real
	// write pass once adoption decisions are final, so only counts from
	// this prescan are kept.
	table.index = map[string]int{}
	table.values = nil
}

func writeSheetPart(zw *zipWriter, index int, sh sheet.Sheet, table *stringTable, cfg WriterConfig, remap map[style.StyleId]style.StyleId, date1904 bool) error {
	out, err := zw.createSheet(fmt.Sprintf("xl/worksheets/sheet%d.xml", index))
	if err != nil {
		return err
	}
	sw, err := newSheetWriter(out, table, cfg, remap, date1904)
	if err != nil {
		return err
	}
	return sw.WriteSheet(sh)
}

func writeWorkbookPart(zw *zipWriter, sheetNames []string, date1904 bool) error {
	out, err := zw.create("xl/workbook.xml")
	if err != nil {
		return err
	}
	root := xmlWorkbook{
		Xmlns:  nsSpreadsheetML,
		XmlnsR: nsOfficeDocRel,
		Properties: xmlWorkbookProperties{
			Date1904: date1904,
		},
	}
	for i, name := range sheetNames {
		root.Sheets = append(root.Sheets, xmlWorkbookSheet{
			Name:    name,
			SheetId: i + 1,
			RId:     fmt.Sprintf("rId%d", i+1),
		})
	}
	return encodeXML(out, root)
}

func writeStylesPart(zw *zipWriter, registry style.StyleRegistry) error {
	out, err := zw.create("xl/styles.xml")
	if err != nil {
		return err
	}
	sheetXML := buildStyleSheet(registry)
	if err := validateStyleSheet(sheetXML); err != nil {
		return err
	}
	return encodeXML(out, sheetXML)
}

func writeSharedStringsPart(zw *zipWriter, table *stringTable) error {
	out, err := zw.create("xl/sharedStrings.xml")
	if err != nil {
		return err
	}
	root := xmlSharedStrings{
		Xmlns:     nsSpreadsheetML,
		Count:     len(table.values),
		UniqCount: len(table.values),
	}
	for _, v := range table.values {
		root.Items = append(root.Items, xmlSharedStringItem{T: v})
	}
	return encodeXML(out, root)
}

func writeCorePropsPart(zw *zipWriter) error {
	out, err := zw.create("docProps/core.xml")
	if err != nil {
		return err
	}
	root := xmlCoreProperties{
		XmlnsCP:  nsCoreProps,
		XmlnsDC:  nsDC,
		XmlnsDCT: nsDCTerms,
		XmlnsXSI: nsXSI,
		Created: xmlW3CDTF{
			Type:  "dcterms:W3CDTF",
			Value: time.Now().UTC().Format(time.RFC3339),
		},
		Identifier: uuid.New().String(),
	}
	return encodeXML(out, root)
}

func writeAppPropsPart(zw *zipWriter) error {
	out, err := zw.create("docProps/app.xml")
	if err != nil {
		return err
	}
	root := xmlAppProperties{
		Xmlns:       nsAppProps,
		Application: "github.com/latticebook/xlsx",
	}
	return encodeXML(out, root)
}

func writeRelsParts(zw *zipWriter, sheetCount int, hasSharedStrings bool) error {
	rootRels, err := zw.create("_rels/.rels")
	if err != nil {
		return err
	}
	if err := encodeXML(rootRels, xmlRelations{
		Xmlns: nsRelationships,
		Relations: []xmlRelation{
			{Id: "rId1", Type: relTypeWorkbook, Target: "xl/workbook.xml"},
			{Id: "rId2", Type: relTypeCoreProps, Target: "docProps/core.xml"},
			{Id: "rId3", Type: relTypeAppProps, Target: "docProps/app.xml"},
		},
	}); err != nil {
		return err
	}

	wbRels, err := zw.create("xl/_rels/workbook.xml.rels")
	if err != nil {
		return err
	}
	root := xmlRelations{Xmlns: nsRelationships}
	n := sheetCount
	for i := 0; i < n; i++ {
		root.Relations = append(root.Relations, xmlRelation{
			Id:     fmt.Sprintf("rId%d", i+1),
			Type:   relTypeWorksheet,
			Target: fmt.Sprintf("worksheets/sheet%d.xml", i+1),
		})
	}
	nextID := n + 1
	root.Relations = append(root.Relations, xmlRelation{
		Id:     fmt.Sprintf("rId%d", nextID),
		Type:   relTypeStyles,
		Target: "styles.xml",
	})
	nextID++
	if hasSharedStrings {
		root.Relations = append(root.Relations, xmlRelation{
			Id:     fmt.Sprintf("rId%d", nextID),
			Type:   relTypeSharedStrings,
			Target: "sharedStrings.xml",
		})
	}
	return encodeXML(wbRels, root)
}

func writeContentTypesPart(zw *zipWriter, sheetNames []string, hasSharedStrings bool) error {
	out, err := zw.create("[Content_Types].xml")
	if err != nil {
		return err
	}
	root := xmlContentTypes{
		Xmlns: nsContentTypes,
		Defaults: []xmlDefault{
			{Extension: "rels", ContentType: mimeRels},
			{Extension: "xml", ContentType: mimeXML},
		},
		Overrides: []xmlOverride{
			{PartName: "/xl/workbook.xml", ContentType: mimeWorkbook},
			{PartName: "/xl/styles.xml", ContentType: mimeStyles},
			{PartName: "/docProps/core.xml", ContentType: mimeCoreProps},
			{PartName: "/docProps/app.xml", ContentType: mimeAppProps},
		},
	}
	if hasSharedStrings {
		root.Overrides = append(root.Overrides, xmlOverride{
			PartName:    "/xl/sharedStrings.xml",
			ContentType: mimeSharedStrings,
		})
	}
	for i := range sheetNames {
		root.Overrides = append(root.Overrides, xmlOverride{
			PartName:    fmt.Sprintf("/xl/worksheets/sheet%d.xml", i+1),
			ContentType: mimeWorksheet,
		})
	}
	return encodeXML(out, root)
}

func encodeXML(w io.Writer, v any) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return xml.NewEncoder(w).Encode(v)
}
