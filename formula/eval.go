package formula

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/latticebook/xlsx/addr"
	"github.com/latticebook/xlsx/cellvalue"
	"github.com/latticebook/xlsx/sheet"
	"github.com/latticebook/xlsx/workbook"
)

// Env supplies the sheet context an Expr evaluates against: the workbook
// being evaluated and which sheet a same-sheet reference resolves relative
// to.
type Env struct {
	Workbook workbook.Workbook
	Current  addr.SheetName

	depth int
}

// Eval evaluates e against env, returning the resulting CellValue. Faults
// that Excel represents as an in-cell error token (division by zero, a
// dangling reference, a type mismatch) are returned as a KindError
// CellValue with a nil error; only conditions outside that taxonomy
// (recursion depth exceeded, a truly malformed AST) return a non-nil error.
func Eval(e Expr, env *Env) (cellvalue.CellValue, error) {
	if env.depth > maxRecursionDepth {
		return errVal(cellvalue.ErrValue), newEvalError(FailEvalFailed, "recursion depth exceeded %d", maxRecursionDepth)
	}

	switch e.Kind {
	case KindLiteral:
		return e.Literal, nil

	case KindRef:
		return lookupRef(env, env.Current, e.Ref)

	case KindSheetRef:
		return lookupRef(env, e.Sheet, e.Ref)

	case KindRangeRef, KindSheetRangeRef, KindPolyRef, KindSheetPolyRef:
		// A bare range used where a scalar is expected: Excel takes the
		// top-left cell (implicit intersection). Aggregates never reach
		// this branch; they special-case range args directly.
		sh, rng, ok := resolveRange(env, e)
		if !ok {
			return errVal(cellvalue.ErrRef), nil
		}
		cell, _ := sh.Get(rng.Start)
		return cell.Value, nil

	case KindUnary:
		return evalUnary(e, env)

	case KindBinary:
		return evalBinary(e, env)

	case KindCall:
		return evalCall(e, env)

	case KindAggregate:
		return evalAggregate(e, env)

	default:
		return errVal(cellvalue.ErrValue), newEvalError(FailEvalFailed, "unhandled expr kind %d", e.Kind)
	}
}

func errVal(ce cellvalue.CellError) cellvalue.CellValue { return cellvalue.NewError(ce) }

func lookupRef(env *Env, sheetName addr.SheetName, ref addr.ARef) (cellvalue.CellValue, error) {
	sh, ok := env.Workbook.SheetByName(string(sheetName))
	if !ok {
		return errVal(cellvalue.ErrRef), nil
	}
	cell, ok := sh.Get(ref)
	if !ok {
		return cellvalue.Empty, nil
	}
	v := cell.Value
	if v.Kind != cellvalue.KindFormula {
		return v, nil
	}
	if v.FormulaCached != nil {
		return *v.FormulaCached, nil
	}
	expr, err := Parse(v.FormulaExpr)
	if err != nil {
		return errVal(cellvalue.ErrName), nil
	}
	return Eval(expr, &Env{Workbook: env.Workbook, Current: sheetName, depth: env.depth + 1})
}

func resolveRange(env *Env, e Expr) (sheet.Sheet, addr.CellRange, bool) {
	sheetName := env.Current
	var rng addr.CellRange
	switch e.Kind {
	case KindRangeRef:
		rng = e.Range
	case KindSheetRangeRef:
		sheetName, rng = e.Sheet, e.Range
	case KindPolyRef, KindSheetPolyRef:
		if e.Kind == KindSheetPolyRef {
			sheetName = e.Sheet
		}
		sh, ok := env.Workbook.SheetByName(string(sheetName))
		if !ok {
			return sheet.Sheet{}, addr.CellRange{}, false
		}
		used, hasUsed := sh.UsedRange()
		if !hasUsed {
			return sh, addr.CellRange{}, true
		}
		rng = polyRefIntersect(e.Poly, used)
		return sh, rng, true
	default:
		return sheet.Sheet{}, addr.CellRange{}, false
	}
	sh, ok := env.Workbook.SheetByName(string(sheetName))
	return sh, rng, ok
}

// polyRefIntersect bounds a full-column/full-row reference to the sheet's
// used range, the Open Question resolution recorded in DESIGN.md: without
// this, SUM(A:A) would need to scan 1,048,576 rows.
func polyRefIntersect(p PolyRef, used addr.CellRange) addr.CellRange {
	if p.IsRow {
		startRow, endRow := p.FirstIndex, p.LastIndex
		if startRow < used.Start.Row().Index() {
			startRow = used.Start.Row().Index()
		}
		if endRow > used.End.Row().Index() {
			endRow = used.End.Row().Index()
		}
		return addr.NewCellRange(
			addr.NewARef(addr.Row(startRow), used.Start.Col()),
			addr.NewARef(addr.Row(endRow), used.End.Col()),
		)
	}
	startCol, endCol := p.FirstIndex, p.LastIndex
	if startCol < used.Start.Col().Index() {
		startCol = used.Start.Col().Index()
	}
	if endCol > used.End.Col().Index() {
		endCol = used.End.Col().Index()
	}
	return addr.NewCellRange(
		addr.NewARef(used.Start.Row(), addr.Column(startCol)),
		addr.NewARef(used.End.Row(), addr.Column(endCol)),
	)
}

func evalUnary(e Expr, env *Env) (cellvalue.CellValue, error) {
	v, err := Eval(*e.Left, env)
	if err != nil {
		return v, err
	}
	if v.Kind == cellvalue.KindError {
		return v, nil
	}
	n, ok := coerceNumber(v)
	if !ok {
		return errVal(cellvalue.ErrValue), nil
	}
	switch e.Op {
	case "-":
		return cellvalue.NewNumber(n.Neg()), nil
	case "+":
		return cellvalue.NewNumber(n), nil
	case "%":
		return cellvalue.NewNumber(n.Div(decimal.NewFromInt(100))), nil
	default:
		return errVal(cellvalue.ErrValue), newEvalError(FailEvalFailed, "unknown unary operator %q", e.Op)
	}
}

func evalBinary(e Expr, env *Env) (cellvalue.CellValue, error) {
	left, err := Eval(*e.Left, env)
	if err != nil {
		return left, err
	}
	if left.Kind == cellvalue.KindError {
		return left, nil
	}
	right, err := Eval(*e.Right, env)
	if err != nil {
		return right, err
	}
	if right.Kind == cellvalue.KindError {
		return right, nil
	}

	switch e.Op {
	case "&":
		return cellvalue.NewText(left.PlainText() + right.PlainText()), nil
	case "=", "<>", "<", "<=", ">", ">=":
		return compareValues(e.Op, left, right), nil
	case "+", "-", "*", "/", "^":
		return arithmetic(e.Op, left, right)
	default:
		return errVal(cellvalue.ErrValue), newEvalError(FailEvalFailed, "unknown binary operator %q", e.Op)
	}
}

func arithmetic(op string, left, right cellvalue.CellValue) (cellvalue.CellValue, error) {
	a, ok := coerceNumber(left)
	if !ok {
		return errVal(cellvalue.ErrValue), nil
	}
	b, ok := coerceNumber(right)
	if !ok {
		return errVal(cellvalue.ErrValue), nil
	}
	switch op {
	case "+":
		return cellvalue.NewNumber(a.Add(b)), nil
	case "-":
		return cellvalue.NewNumber(a.Sub(b)), nil
	case "*":
		return cellvalue.NewNumber(a.Mul(b)), nil
	case "/":
		if b.IsZero() {
			return errVal(cellvalue.ErrDivZero), nil
		}
		return cellvalue.NewNumber(a.Div(b)), nil
	case "^":
		f, _ := a.Float64()
		g, _ := b.Float64()
		return cellvalue.NewNumberFromFloat(math.Pow(f, g)), nil
	default:
		return errVal(cellvalue.ErrValue), newEvalError(FailEvalFailed, "unknown arithmetic operator %q", op)
	}
}

func compareValues(op string, left, right cellvalue.CellValue) cellvalue.CellValue {
	var cmp int
	switch {
	case left.Kind == cellvalue.KindNumber && right.Kind == cellvalue.KindNumber:
		cmp = left.Number.Cmp(right.Number)
	case left.Kind == cellvalue.KindBool || right.Kind == cellvalue.KindBool:
		lb, rb := truthy(left), truthy(right)
		cmp = boolCmp(lb, rb)
	default:
		cmp = strings.Compare(left.PlainText(), right.PlainText())
	}
	var result bool
	switch op {
	case "=":
		result = cmp == 0
	case "<>":
		result = cmp != 0
	case "<":
		result = cmp < 0
	case "<=":
		result = cmp <= 0
	case ">":
		result = cmp > 0
	case ">=":
		result = cmp >= 0
	}
	return cellvalue.NewBool(result)
}

func boolCmp(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}

func truthy(v cellvalue.CellValue) bool {
	switch v.Kind {
	case cellvalue.KindBool:
		return v.Bool
	case cellvalue.KindNumber:
		return !v.Number.IsZero()
	case cellvalue.KindText:
		return strings.EqualFold(v.Text, "TRUE")
	default:
		return false
	}
}

// coerceNumber applies Excel's implicit-conversion rules for arithmetic
// contexts: numbers pass through, booleans become 1/0, blank cells become
// 0, and numeric-looking text parses; anything else fails (#VALUE!).
func coerceNumber(v cellvalue.CellValue) (decimal.Decimal, bool) {
	switch v.Kind {
	case cellvalue.KindNumber:
		return v.Number, true
	case cellvalue.KindBool:
		if v.Bool {
			return decimal.NewFromInt(1), true
		}
		return decimal.Zero, true
	case cellvalue.KindEmpty:
		return decimal.Zero, true
	case cellvalue.KindText:
		d, err := decimal.NewFromString(strings.TrimSpace(v.Text))
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	default:
		return decimal.Decimal{}, false
	}
}
