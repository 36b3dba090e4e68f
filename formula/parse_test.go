package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticebook/xlsx/addr"
	"github.com/latticebook/xlsx/cellvalue"
)

func TestParseLiterals(t *testing.T) {
	e, err := Parse("42")
	require.NoError(t, err)
	assert.Equal(t, KindLiteral, e.Kind)
	assert.True(t, e.Literal.Number.Equal(cellvalue.NewNumberFromFloat(42).Number))

	e, err = Parse(`"hello"`)
	require.NoError(t, err)
	assert.Equal(t, "hello", e.Literal.Text)

	e, err = Parse("TRUE")
	require.NoError(t, err)
	assert.True(t, e.Literal.Bool)
}

func TestParseReference(t *testing.T) {
	e, err := Parse("A1")
	require.NoError(t, err)
	require.Equal(t, KindRef, e.Kind)
	assert.Equal(t, "A1", e.Ref.A1())

	e, err = Parse("Sheet2!A1")
	require.NoError(t, err)
	require.Equal(t, KindSheetRef, e.Kind)
	assert.Equal(t, addr.SheetName("Sheet2"), e.Sheet)

	e, err = Parse("A1:B10")
	require.NoError(t, err)
	require.Equal(t, KindRangeRef, e.Kind)
}

func TestParsePolyRef(t *testing.T) {
	e, err := Parse("A:A")
	require.NoError(t, err)
	require.Equal(t, KindPolyRef, e.Kind)
	assert.False(t, e.Poly.IsRow)
	assert.Equal(t, 0, e.Poly.FirstIndex)
	assert.Equal(t, 0, e.Poly.LastIndex)

	e, err = Parse("2:4")
	require.NoError(t, err)
	require.Equal(t, KindPolyRef, e.Kind)
	assert.True(t, e.Poly.IsRow)
	assert.Equal(t, 1, e.Poly.FirstIndex)
	assert.Equal(t, 3, e.Poly.LastIndex)
}

func TestParsePrecedence(t *testing.T) {
	e, err := Parse("1+2*3")
	require.NoError(t, err)
	assert.Equal(t, "1+2*3", Print(e))

	e, err = Parse("(1+2)*3")
	require.NoError(t, err)
	assert.Equal(t, "(1+2)*3", Print(e))

	e, err = Parse("2^3^2")
	require.NoError(t, err)
	// ^ is right-associative: 2^(3^2), so printing must keep it unparenthesized.
	assert.Equal(t, "2^3^2", Print(e))

	e, err = Parse("-2^2")
	require.NoError(t, err)
	assert.Equal(t, KindUnary, e.Kind)
}

func TestParseFunctionAndAggregate(t *testing.T) {
	e, err := Parse("SUM(A1:A10,5)")
	require.NoError(t, err)
	require.Equal(t, KindAggregate, e.Kind)
	assert.Equal(t, AggSum, e.Agg)
	assert.Len(t, e.Args, 2)

	e, err = Parse("IF(A1>0,1,-1)")
	require.NoError(t, err)
	require.Equal(t, KindCall, e.Kind)
	assert.Equal(t, "IF", e.Func)
	assert.Len(t, e.Args, 3)
}

func TestParseNestedSubexpression(t *testing.T) {
	e, err := Parse("(A1+B1)*(C1-D1)")
	require.NoError(t, err)
	assert.Equal(t, "(A1+B1)*(C1-D1)", Print(e))
}

func TestParseErrorLiteral(t *testing.T) {
	e, err := Parse("A1+#REF!")
	require.NoError(t, err)
	right := *e.Right
	assert.Equal(t, cellvalue.ErrRef, right.Literal.Error)
}

func TestParseConcatenation(t *testing.T) {
	e, err := Parse(`"a"&"b"&"c"`)
	require.NoError(t, err)
	assert.Equal(t, `"a"&"b"&"c"`, Print(e))
}

func TestParseQuotedSheetName(t *testing.T) {
	e, err := Parse("'My Sheet'!A1")
	require.NoError(t, err)
	require.Equal(t, KindSheetRef, e.Kind)
	assert.Equal(t, addr.SheetName("My Sheet"), e.Sheet)
	assert.Equal(t, "'My Sheet'!A1", Print(e))
}

func TestParseTrailingGarbageRejected(t *testing.T) {
	_, err := Parse("1+1)")
	assert.Error(t, err)
}
