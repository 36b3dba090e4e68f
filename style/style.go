// Package style defines the immutable cell-formatting model and a
// content-addressed registry for interning it, mirroring how the teacher's
// styles.StyleTable resolves a compact XF index to shared formatting data
// (styles/styles.go in the example pack), generalized here from BIFF12's
// numFmtId-only XF record to the full OOXML cellXfs/fonts/fills/borders set.
package style

// BorderLine describes one edge of a cell border.
type BorderLine struct {
	Style string // "thin", "medium", "thick", "dashed", "dotted", "double", "" (none)
	Color string // ARGB hex, e.g. "FF000000"; empty means automatic
}

// Border collects the four edges of a cell border.
type Border struct {
	Top, Bottom, Left, Right BorderLine
}

// IsZero reports whether the border has no edges set.
func (b Border) IsZero() bool { return b == Border{} }

// Font describes a run or cell's font.
type Font struct {
	Name      string
	Size      float64
	Bold      bool
	Italic    bool
	Underline bool
	Strike    bool
	Color     string // ARGB hex; empty means automatic
}

// DefaultFont is the workbook default font used for style index 0.
var DefaultFont = Font{Name: "Calibri", Size: 11}

// Fill describes a cell's background fill.
type Fill struct {
	Pattern string // "none", "solid", "gray125", ...
	FgColor string // ARGB hex
	BgColor string // ARGB hex
}

// HAlign and VAlign enumerate cell alignment settings.
type HAlign int
type VAlign int

const (
	HAlignGeneral HAlign = iota
	HAlignLeft
	HAlignCenter
	HAlignRight
	HAlignFill
	HAlignJustify
)

const (
	VAlignBottom VAlign = iota
	VAlignTop
	VAlignCenter
	VAlignJustify
)

// Alignment describes a cell's text alignment and wrap behavior.
type Alignment struct {
	Horizontal HAlign
	Vertical   VAlign
	WrapText   bool
	TextRotation int
}

// CellStyle is the full resolved formatting of a cell: font, fill, border,
// alignment, and number format. It is immutable; construct variants with
// the With* methods rather than mutating in place.
type CellStyle struct {
	Font      Font
	Fill      Fill
	Border    Border
	Alignment Alignment
	NumFmt    NumFmt
}

// Default is the workbook's implicit style for cells that were never
// explicitly styled: General format, default font, no fill/border, general
// alignment.
var Default = CellStyle{Font: DefaultFont, NumFmt: General}

// WithNumFmt returns a copy of s with its number format replaced.
func (s CellStyle) WithNumFmt(n NumFmt) CellStyle {
	s.NumFmt = n
	return s
}

// WithFont returns a copy of s with its font replaced.
func (s CellStyle) WithFont(f Font) CellStyle {
	s.Font = f
	return s
}

// WithFill returns a copy of s with its fill replaced.
func (s CellStyle) WithFill(f Fill) CellStyle {
	s.Fill = f
	return s
}

// WithBorder returns a copy of s with its border replaced.
func (s CellStyle) WithBorder(b Border) CellStyle {
	s.Border = b
	return s
}

// WithAlignment returns a copy of s with its alignment replaced.
func (s CellStyle) WithAlignment(a Alignment) CellStyle {
	s.Alignment = a
	return s
}

// MergeNumFmt implements the Put-with-codec style-merge rule from
// spec.md §4.2: an explicitly-set style's NumFmt always wins; only when the
// existing style still carries the General format does a codec's proposed
// format get adopted.
func (s CellStyle) MergeNumFmt(proposed NumFmt) CellStyle {
	if s.NumFmt.Kind != NumFmtGeneral {
		return s
	}
	return s.WithNumFmt(proposed)
}
