package style

import "github.com/latticebook/xlsx/internal/dateformat"

// NumFmtKind enumerates the named number-format families from spec.md §3.
// Custom formats carry their own format code string in NumFmt.Code.
type NumFmtKind int

const (
	NumFmtGeneral NumFmtKind = iota
	NumFmtInteger
	NumFmtDecimal
	NumFmtCurrency
	NumFmtPercent
	NumFmtDate
	NumFmtDateTime
	NumFmtCustom
)

// NumFmt is a cell's number format: either one of the named families or a
// Custom format carrying an explicit Excel format code.
type NumFmt struct {
	Kind NumFmtKind
	Code string // populated for NumFmtCustom; ignored otherwise
}

// General is the default "General" number format.
var General = NumFmt{Kind: NumFmtGeneral}

// Custom builds a NumFmt wrapping an explicit Excel format code.
func Custom(code string) NumFmt { return NumFmt{Kind: NumFmtCustom, Code: code} }

// FormatCode resolves the NumFmt to the Excel format-code string the
// numfmt renderer and the OOXML styles.xml writer both need.
func (n NumFmt) FormatCode() string {
	switch n.Kind {
	case NumFmtGeneral:
		return "General"
	case NumFmtInteger:
		return "0"
	case NumFmtDecimal:
		return "0.00"
	case NumFmtCurrency:
		return `"$"#,##0.00`
	case NumFmtPercent:
		return "0.00%"
	case NumFmtDate:
		return "m/d/yyyy"
	case NumFmtDateTime:
		return "m/d/yyyy h:mm"
	case NumFmtCustom:
		return n.Code
	default:
		return "General"
	}
}

// IsDate reports whether the format renders as a date or datetime, per the
// same token-scan rule used throughout the pack (spec.md §4.6.6, §4.4.2).
func (n NumFmt) IsDate() bool {
	switch n.Kind {
	case NumFmtDate, NumFmtDateTime:
		return true
	case NumFmtCustom:
		return dateformat.HasDateToken(n.Code)
	default:
		return false
	}
}
