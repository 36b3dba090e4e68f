package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latticebook/xlsx/addr"
	"github.com/latticebook/xlsx/cellvalue"
	"github.com/latticebook/xlsx/sheet"
	"github.com/latticebook/xlsx/style"
	"github.com/latticebook/xlsx/workbook"
)

func buildEnv(t *testing.T, values map[string]cellvalue.CellValue) *Env {
	t.Helper()
	name, err := addr.NewSheetName("Sheet1")
	require.NoError(t, err)
	sh := sheet.New(name, style.NewRegistry())
	for a1, v := range values {
		ref, err := addr.ParseARef(a1)
		require.NoError(t, err)
		sh = sh.PutValue(ref, v)
	}
	wb := workbook.New(false)
	wb, err = wb.AddSheet(sh)
	require.NoError(t, err)
	return &Env{Workbook: wb, Current: "Sheet1"}
}

func evalStr(t *testing.T, formula string, env *Env) cellvalue.CellValue {
	t.Helper()
	e, err := Parse(formula)
	require.NoError(t, err)
	v, err := Eval(e, env)
	require.NoError(t, err)
	return v
}

func TestEvalArithmetic(t *testing.T) {
	env := buildEnv(t, nil)
	v := evalStr(t, "1+2*3", env)
	assert.True(t, v.Number.Equal(cellvalue.NewNumberFromFloat(7).Number))

	v = evalStr(t, "2^3^2", env)
	assert.True(t, v.Number.Equal(cellvalue.NewNumberFromFloat(512).Number))
}

func TestEvalDivByZero(t *testing.T) {
	env := buildEnv(t, nil)
	v := evalStr(t, "1/0", env)
	assert.Equal(t, cellvalue.KindError, v.Kind)
	assert.Equal(t, cellvalue.ErrDivZero, v.Error)
}

func TestEvalReference(t *testing.T) {
	env := buildEnv(t, map[string]cellvalue.CellValue{
		"A1": cellvalue.NewNumberFromFloat(10),
		"A2": cellvalue.NewNumberFromFloat(20),
	})
	v := evalStr(t, "A1+A2", env)
	assert.True(t, v.Number.Equal(cellvalue.NewNumberFromFloat(30).Number))
}

func TestEvalDanglingRefError(t *testing.T) {
	env := buildEnv(t, nil)
	v := evalStr(t, "Missing!A1", env)
	assert.Equal(t, cellvalue.KindError, v.Kind)
	assert.Equal(t, cellvalue.ErrRef, v.Error)
}

func TestEvalComparisonAndConcat(t *testing.T) {
	env := buildEnv(t, map[string]cellvalue.CellValue{
		"A1": cellvalue.NewNumberFromFloat(5),
	})
	v := evalStr(t, "A1>3", env)
	assert.True(t, v.Bool)

	v = evalStr(t, `"foo"&"bar"`, env)
	assert.Equal(t, "foobar", v.Text)
}

func TestEvalIfShortCircuits(t *testing.T) {
	env := buildEnv(t, map[string]cellvalue.CellValue{
		"A1": cellvalue.NewNumberFromFloat(1),
	})
	v := evalStr(t, "IF(A1=1,10,1/0)", env)
	assert.True(t, v.Number.Equal(cellvalue.NewNumberFromFloat(10).Number))

	v = evalStr(t, "IF(A1=2,1/0,20)", env)
	assert.True(t, v.Number.Equal(cellvalue.NewNumberFromFloat(20).Number))
}

func TestEvalAndOrShortCircuit(t *testing.T) {
	env := buildEnv(t, map[string]cellvalue.CellValue{
		"A1": cellvalue.NewNumberFromFloat(0),
	})
	v := evalStr(t, "AND(A1>0,1/0>1)", env)
	assert.False(t, v.Bool)

	v = evalStr(t, "OR(A1=0,1/0>1)", env)
	assert.True(t, v.Bool)
}

func TestEvalAggregates(t *testing.T) {
	env := buildEnv(t, map[string]cellvalue.CellValue{
		"A1": cellvalue.NewNumberFromFloat(1),
		"A2": cellvalue.NewNumberFromFloat(2),
		"A4": cellvalue.NewNumberFromFloat(4),
	})
	v := evalStr(t, "SUM(A1:A4)", env)
	assert.True(t, v.Number.Equal(cellvalue.NewNumberFromFloat(7).Number))

	v = evalStr(t, "COUNT(A1:A4)", env)
	assert.True(t, v.Number.Equal(cellvalue.NewNumberFromFloat(3).Number))

	v = evalStr(t, "COUNTBLANK(A1:A4)", env)
	assert.True(t, v.Number.Equal(cellvalue.NewNumberFromFloat(1).Number))

	v = evalStr(t, "AVERAGE(A1:A4)", env)
	f, _ := v.Number.Float64()
	assert.InDelta(t, 7.0/3.0, f, 1e-9)

	v = evalStr(t, "MAX(A1:A4)", env)
	assert.True(t, v.Number.Equal(cellvalue.NewNumberFromFloat(4).Number))
}

func TestEvalFunctions(t *testing.T) {
	env := buildEnv(t, nil)
	v := evalStr(t, `LEN("hello")`, env)
	assert.True(t, v.Number.Equal(cellvalue.NewNumberFromFloat(5).Number))

	v = evalStr(t, "ROUND(3.456,2)", env)
	assert.True(t, v.Number.Equal(cellvalue.NewNumberFromFloat(3.46).Number))

	v = evalStr(t, "ABS(-5)", env)
	assert.True(t, v.Number.Equal(cellvalue.NewNumberFromFloat(5).Number))
}

func TestEvalRecursionDepthExceeded(t *testing.T) {
	env := buildEnv(t, nil)
	env.depth = maxRecursionDepth + 1
	e, err := Parse("1+1")
	require.NoError(t, err)
	_, err = Eval(e, env)
	require.Error(t, err)
	var evalErr *EvalError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, FailEvalFailed, evalErr.Kind)
}
