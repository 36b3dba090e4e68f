package cellvalue

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Kind discriminates the variants of CellValue.
type Kind int

const (
	KindEmpty Kind = iota
	KindText
	KindNumber
	KindBool
	KindDateTime
	KindError
	KindRichText
	KindFormula
)

// RichRun is one run of a rich-text value: a span of text sharing a single
// set of inline formatting properties (bold/italic/color/font), addressed
// opaquely by a caller-supplied property key so this package stays
// independent of the style package.
type RichRun struct {
	Text     string
	PropsKey string // content-addressed key into a style.Registry-managed run-property table
}

// CellValue is the tagged union of everything a cell can hold (spec.md §3).
// Only the fields relevant to Kind are populated; zero value is KindEmpty.
type CellValue struct {
	Kind Kind

	Text     string
	Number   decimal.Decimal
	Bool     bool
	DateTime time.Time
	Error    CellError
	Rich     []RichRun

	FormulaExpr   string
	FormulaCached *CellValue // nil when no cached result is known
}

// Empty is the canonical empty-cell value.
var Empty = CellValue{Kind: KindEmpty}

// NewText constructs a Text value.
func NewText(s string) CellValue { return CellValue{Kind: KindText, Text: s} }

// NewNumber constructs a Number value from a decimal.Decimal.
func NewNumber(d decimal.Decimal) CellValue { return CellValue{Kind: KindNumber, Number: d} }

// NewNumberFromFloat constructs a Number value from a float64.
func NewNumberFromFloat(f float64) CellValue {
	return CellValue{Kind: KindNumber, Number: decimal.NewFromFloat(f)}
}

// NewBool constructs a Bool value.
func NewBool(b bool) CellValue { return CellValue{Kind: KindBool, Bool: b} }

// NewDateTime constructs a DateTime value from a naive (timezone-less) date-time.
func NewDateTime(t time.Time) CellValue { return CellValue{Kind: KindDateTime, DateTime: t} }

// NewError constructs an Error value.
func NewError(e CellError) CellValue { return CellValue{Kind: KindError, Error: e} }

// NewRichText constructs a RichText value from a sequence of runs.
func NewRichText(runs []RichRun) CellValue { return CellValue{Kind: KindRichText, Rich: runs} }

// NewFormula constructs a Formula value with an optional cached result.
// Pass a nil cached to represent "never evaluated".
func NewFormula(expr string, cached *CellValue) CellValue {
	return CellValue{Kind: KindFormula, FormulaExpr: expr, FormulaCached: cached}
}

// IsEmpty reports whether the value is the empty cell.
func (v CellValue) IsEmpty() bool { return v.Kind == KindEmpty }

// PlainText returns the value rendered as a bare string for contexts (CSV
// export, SUMPRODUCT text coercion) that want the raw textual content rather
// than the display-formatted string. It does not apply a number format.
func (v CellValue) PlainText() string {
	switch v.Kind {
	case KindEmpty:
		return ""
	case KindText:
		return v.Text
	case KindNumber:
		return v.Number.String()
	case KindBool:
		if v.Bool {
			return "TRUE"
		}
		return "FALSE"
	case KindDateTime:
		return v.DateTime.Format(time.RFC3339)
	case KindError:
		return v.Error.String()
	case KindRichText:
		var s string
		for _, r := range v.Rich {
			s += r.Text
		}
		return s
	case KindFormula:
		if v.FormulaCached != nil {
			return v.FormulaCached.PlainText()
		}
		return ""
	default:
		return fmt.Sprintf("%v", v.Kind)
	}
}

// Equal reports deep equality between two CellValues, including cached
// formula results.
func (v CellValue) Equal(o CellValue) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindEmpty:
		return true
	case KindText:
		return v.Text == o.Text
	case KindNumber:
		return v.Number.Equal(o.Number)
	case KindBool:
		return v.Bool == o.Bool
	case KindDateTime:
		return v.DateTime.Equal(o.DateTime)
	case KindError:
		return v.Error == o.Error
	case KindRichText:
		if len(v.Rich) != len(o.Rich) {
			return false
		}
		for i := range v.Rich {
			if v.Rich[i] != o.Rich[i] {
				return false
			}
		}
		return true
	case KindFormula:
		if v.FormulaExpr != o.FormulaExpr {
			return false
		}
		switch {
		case v.FormulaCached == nil && o.FormulaCached == nil:
			return true
		case v.FormulaCached == nil || o.FormulaCached == nil:
			return false
		default:
			return v.FormulaCached.Equal(*o.FormulaCached)
		}
	default:
		return false
	}
}
