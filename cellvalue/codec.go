package cellvalue

// Codec converts a Go value of some type A into a CellValue, plus the
// NumFmt hint (as a string key resolved by the style package) the codec
// proposes for the destination cell. sheet.Put uses the hint under the
// "explicit wins, General yields to a proposed format" rule from
// spec.md §4.2.
type Codec[A any] interface {
	Encode(v A) (CellValue, ProposedFormat)
}

// ProposedFormat is the NumFmt a Codec suggests for a freshly-written cell.
// The zero value FormatGeneral means "no opinion".
type ProposedFormat int

const (
	FormatGeneral ProposedFormat = iota
	FormatInteger
	FormatDecimal
	FormatCurrency
	FormatPercent
	FormatDate
	FormatDateTime
)

// CodecFunc adapts a plain function to the Codec interface.
type CodecFunc[A any] func(v A) (CellValue, ProposedFormat)

// Encode implements Codec.
func (f CodecFunc[A]) Encode(v A) (CellValue, ProposedFormat) { return f(v) }
