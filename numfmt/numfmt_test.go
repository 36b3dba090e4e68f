package numfmt

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/latticebook/xlsx/cellvalue"
	"github.com/latticebook/xlsx/style"
)

func TestFormatGeneral(t *testing.T) {
	v := cellvalue.NewNumberFromFloat(1234)
	assert.Equal(t, "1234", Format(v, style.General, false))
}

func TestFormatDecimalPlaces(t *testing.T) {
	v := cellvalue.NewNumber(decimal.NewFromFloat(3.14159))
	nf := style.Custom("0.00")
	assert.Equal(t, "3.14", Format(v, nf, false))
}

func TestFormatThousandsSeparator(t *testing.T) {
	v := cellvalue.NewNumberFromFloat(1234567)
	nf := style.Custom("#,##0")
	assert.Equal(t, "1,234,567", Format(v, nf, false))
}

func TestFormatPercent(t *testing.T) {
	v := cellvalue.NewNumberFromFloat(0.256)
	nf := style.NumFmt{Kind: style.NumFmtPercent}
	got := Format(v, nf, false)
	assert.Equal(t, "25.60%", got)
}

func TestFormatCurrency(t *testing.T) {
	v := cellvalue.NewNumberFromFloat(1234.5)
	nf := style.NumFmt{Kind: style.NumFmtCurrency}
	got := Format(v, nf, false)
	assert.Contains(t, got, "1,234.50")
}

func TestFormatDateSerial(t *testing.T) {
	// Serial 1 == 1900-01-01 in the 1900 date system.
	v := cellvalue.NewNumberFromFloat(1)
	nf := style.Custom("yyyy-mm-dd")
	assert.Equal(t, "1900-01-01", Format(v, nf, false))
}

func TestFormatDateTimeValue(t *testing.T) {
	ts := time.Date(2024, 3, 15, 13, 30, 0, 0, time.UTC)
	v := cellvalue.NewDateTime(ts)
	nf := style.Custom("yyyy-mm-dd hh:mm")
	assert.Equal(t, "2024-03-15 13:30", Format(v, nf, false))
}

func TestFormatTextAndBoolAndError(t *testing.T) {
	assert.Equal(t, "hello", Format(cellvalue.NewText("hello"), style.General, false))
	assert.Equal(t, "TRUE", Format(cellvalue.NewBool(true), style.General, false))
	assert.Equal(t, "#DIV/0!", Format(cellvalue.NewError(cellvalue.ErrDivZero), style.General, false))
}

func TestFormatNegativeSingleSection(t *testing.T) {
	v := cellvalue.NewNumberFromFloat(-42)
	nf := style.Custom("0.00")
	assert.Equal(t, "-42.00", Format(v, nf, false))
}
