package cellvalue

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCellErrorRoundTrip(t *testing.T) {
	for _, e := range []CellError{ErrDivZero, ErrNA, ErrName, ErrNull, ErrNum, ErrRef, ErrValue} {
		s := e.String()
		got, err := ParseCellError(s)
		assert.NoError(t, err)
		assert.Equal(t, e, got)
	}
}

func TestCellValueEqual(t *testing.T) {
	a := NewNumber(decimal.NewFromInt(10))
	b := NewNumber(decimal.NewFromInt(10))
	assert.True(t, a.Equal(b))

	cached := NewNumber(decimal.NewFromInt(20))
	f1 := NewFormula("A1*2", &cached)
	f2 := NewFormula("A1*2", &cached)
	assert.True(t, f1.Equal(f2))

	f3 := NewFormula("A1*2", nil)
	assert.False(t, f1.Equal(f3))
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "TRUE", NewBool(true).PlainText())
	assert.Equal(t, "FALSE", NewBool(false).PlainText())
	assert.Equal(t, "#DIV/0!", NewError(ErrDivZero).PlainText())
	assert.Equal(t, "", Empty.PlainText())
}
