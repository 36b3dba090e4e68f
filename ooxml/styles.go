package ooxml

import (
	"encoding/xml"
	"fmt"

	"github.com/latticebook/xlsx/style"
)

type xmlNumFmt struct {
	XMLName    xml.Name `xml:"numFmt"`
	FormatCode string   `xml:"formatCode,attr"`
	NumFmtId   int      `xml:"numFmtId,attr"`
}

type xmlFont struct {
	XMLName   xml.Name `xml:"font"`
	Sz        struct {
		Val float64 `xml:"val,attr"`
	} `xml:"sz"`
	Name struct {
		Val string `xml:"val,attr"`
	} `xml:"name"`
	B *struct{} `xml:"b,omitempty"`
	I *struct{} `xml:"i,omitempty"`
	U *struct{} `xml:"u,omitempty"`
	Color *xmlColor `xml:"color,omitempty"`
}

type xmlColor struct {
	Rgb string `xml:"rgb,attr"`
}

type xmlFill struct {
	XMLName     xml.Name `xml:"fill"`
	PatternFill struct {
		PatternType string    `xml:"patternType,attr"`
		FgColor     *xmlColor `xml:"fgColor,omitempty"`
		BgColor     *xmlColor `xml:"bgColor,omitempty"`
	} `xml:"patternFill"`
}

type xmlBorderEdge struct {
	XMLName xml.Name
	Style   string    `xml:"style,attr,omitempty"`
	Color   *xmlColor `xml:"color,omitempty"`
}

type xmlBorder struct {
	XMLName xml.Name `xml:"border"`
	Left    xmlBorderEdge
	Right   xmlBorderEdge
	Top     xmlBorderEdge
	Bottom  xmlBorderEdge
}

type xmlAlignment struct {
	Horizontal   string `xml:"horizontal,attr,omitempty"`
	TextRotation int    `xml:"textRotation,attr,omitempty"`
	Vertical     string `xml:"vertical,attr,omitempty"`
	WrapText     bool   `xml:"wrapText,attr,omitempty"`
}

type xmlCellXf struct {
	XMLName     xml.Name      `xml:"xf"`
	ApplyNumFmt bool          `xml:"applyNumberFormat,attr,omitempty"`
	BorderId    int           `xml:"borderId,attr"`
	FillId      int           `xml:"fillId,attr"`
	FontId      int           `xml:"fontId,attr"`
	NumFmtId    int           `xml:"numFmtId,attr"`
	Alignment   *xmlAlignment `xml:"alignment,omitempty"`
}

type xmlStyleSheet struct {
	XMLName xml.Name `xml:"styleSheet"`
	Xmlns   string   `xml:"xmlns,attr"`

	NumFmts struct {
		Count   int         `xml:"count,attr"`
		NumFmts []xmlNumFmt `xml:"numFmt"`
	} `xml:"numFmts"`

	Fonts struct {
		Count int       `xml:"count,attr"`
		Fonts []xmlFont `xml:"font"`
	} `xml:"fonts"`

	Fills struct {
		Count int       `xml:"count,attr"`
		Fills []xmlFill `xml:"fill"`
	} `xml:"fills"`

	Borders struct {
		Count   int         `xml:"count,attr"`
		Borders []xmlBorder `xml:"border"`
	} `xml:"borders"`

	CellXfs struct {
		Count int         `xml:"count,attr"`
		Xfs   []xmlCellXf `xml:"xf"`
	} `xml:"cellXfs"`
}

// buildStyleSheet lowers a style.StyleRegistry into xl/styles.xml content,
// content-addressing fonts/fills/borders/custom-number-formats so equal
// sub-components share a single table entry (spec.md §5: "numFmts / fonts /
// fills / borders / cellXfs dedup").
func buildStyleSheet(reg style.StyleRegistry) xmlStyleSheet {
	var sheet xmlStyleSheet
	sheet.Xmlns = nsSpreadsheetML

	fontIndex := map[style.Font]int{}
	fillIndex := map[style.Fill]int{}
	borderIndex := map[style.Border]int{}
	customFmtIndex := map[string]int{}
	nextCustomID := 164

	internFont := func(f style.Font) int {
		if id, ok := fontIndex[f]; ok {
			return id
		}
		id := len(sheet.Fonts.Fonts)
		xf := xmlFont{}
		xf.Sz.Val = f.Size
		xf.Name.Val = f.Name
		if f.Bold {
			xf.B = &struct{}{}
		}
		if f.Italic {
			xf.I = &struct{}{}
		}
		if f.Underline {
			xf.U = &struct{}{}
		}
		if f.Color != "" {
			xf.Color = &xmlColor{Rgb: f.Color}
		}
		sheet.Fonts.Fonts = append(sheet.Fonts.Fonts, xf)
		fontIndex[f] = id
		return id
	}

	internFill := func(f style.Fill) int {
		if id, ok := fillIndex[f]; ok {
			return id
		}
		id := len(sheet.Fills.Fills)
		xf := xmlFill{}
		pattern := f.Pattern
		if pattern == "" {
			pattern = "none"
		}
		xf.PatternFill.PatternType = pattern
		if f.FgColor != "" {
			xf.PatternFill.FgColor = &xmlColor{Rgb: f.FgColor}
		}
		if f.BgColor != "" {
			xf.PatternFill.BgColor = &xmlColor{Rgb: f.BgColor}
		}
		sheet.Fills.Fills = append(sheet.Fills.Fills, xf)
		fillIndex[f] = id
		return id
	}

	internBorder := func(b style.Border) int {
		if id, ok := borderIndex[b]; ok {
			return id
		}
		id := len(sheet.Borders.Borders)
		xb := xmlBorder{
			Left:   edge("left", b.Left),
			Right:  edge("right", b.Right),
			Top:    edge("top", b.Top),
			Bottom: edge("bottom", b.Bottom),
		}
		sheet.Borders.Borders = append(sheet.Borders.Borders, xb)
		borderIndex[b] = id
		return id
	}

	internNumFmt := func(nf style.NumFmt) (int, bool) {
		if id, ok := style.NumFmtIDForCode(nf.FormatCode()); ok {
			return id, false
		}
		code := nf.FormatCode()
		if id, ok := customFmtIndex[code]; ok {
			return id, true
		}
		id := nextCustomID
		nextCustomID++
		customFmtIndex[code] = id
		sheet.NumFmts.NumFmts = append(sheet.NumFmts.NumFmts, xmlNumFmt{NumFmtId: id, FormatCode: code})
		return id, true
	}

	// Ensure at least a default font/fill/border/xf at index 0, matching
	// Excel's convention that cellXfs[0] is always the workbook default.
	internFont(style.DefaultFont)
	internFill(style.Fill{})
	internBorder(style.Border{})

	for _, cs := range reg.All() {
		numFmtID, custom := internNumFmt(cs.NumFmt)
		_ = custom
		fontID := internFont(cs.Font)
		fillID := internFill(cs.Fill)
		borderID := internBorder(cs.Border)

		var align *xmlAlignment
		if cs.Alignment != (style.Alignment{}) {
			align = &xmlAlignment{
				Horizontal:   alignHorizontal(cs.Alignment.Horizontal),
				Vertical:     alignVertical(cs.Alignment.Vertical),
				WrapText:     cs.Alignment.WrapText,
				TextRotation: cs.Alignment.TextRotation,
			}
		}

		sheet.CellXfs.Xfs = append(sheet.CellXfs.Xfs, xmlCellXf{
			NumFmtId:    numFmtID,
			FontId:      fontID,
			FillId:      fillID,
			BorderId:    borderID,
			ApplyNumFmt: numFmtID != 0,
			Alignment:   align,
		})
	}

	sheet.NumFmts.Count = len(sheet.NumFmts.NumFmts)
	sheet.Fonts.Count = len(sheet.Fonts.Fonts)
	sheet.Fills.Count = len(sheet.Fills.Fills)
	sheet.Borders.Count = len(sheet.Borders.Borders)
	sheet.CellXfs.Count = len(sheet.CellXfs.Xfs)
	return sheet
}

func edge(name string, b style.BorderLine) xmlBorderEdge {
	e := xmlBorderEdge{XMLName: xml.Name{Local: name}, Style: b.Style}
	if b.Color != "" {
		e.Color = &xmlColor{Rgb: b.Color}
	}
	return e
}

func alignHorizontal(h style.HAlign) string {
	switch h {
	case style.HAlignLeft:
		return "left"
	case style.HAlignCenter:
		return "center"
	case style.HAlignRight:
		return "right"
	case style.HAlignFill:
		return "fill"
	case style.HAlignJustify:
		return "justify"
	default:
		return ""
	}
}

func alignVertical(v style.VAlign) string {
	switch v {
	case style.VAlignTop:
		return "top"
	case style.VAlignCenter:
		return "center"
	case style.VAlignJustify:
		return "justify"
	default:
		return "bottom"
	}
}

func validateStyleSheet(s xmlStyleSheet) error {
	if s.CellXfs.Count == 0 {
		return fmt.Errorf("ooxml: styles.xml must define at least one cellXf")
	}
	return nil
}
