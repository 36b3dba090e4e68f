package formula

import (
	"math"
	"strings"

	"github.com/latticebook/xlsx/cellvalue"
)

// evalCall evaluates an ordinary function call. Only IF/AND/OR short-circuit
// their arguments; every other function evaluates all its arguments eagerly
// before dispatching, matching Excel's own evaluation order.
func evalCall(e Expr, env *Env) (cellvalue.CellValue, error) {
	switch e.Func {
	case "IF":
		return evalIf(e, env)
	case "AND":
		return evalAndOr(e, env, true)
	case "OR":
		return evalAndOr(e, env, false)
	}

	args := make([]cellvalue.CellValue, len(e.Args))
	for i, a := range e.Args {
		v, err := Eval(a, env)
		if err != nil {
			return v, err
		}
		args[i] = v
	}
	for _, a := range args {
		if a.Kind == cellvalue.KindError && e.Func != "ISERROR" {
			return a, nil
		}
	}

	switch e.Func {
	case "NOT":
		if len(args) != 1 {
			return errVal(cellvalue.ErrValue), nil
		}
		return cellvalue.NewBool(!truthy(args[0])), nil

	case "ROUND":
		if len(args) != 2 {
			return errVal(cellvalue.ErrValue), nil
		}
		n, ok1 := coerceNumber(args[0])
		places, ok2 := coerceNumber(args[1])
		if !ok1 || !ok2 {
			return errVal(cellvalue.ErrValue), nil
		}
		return cellvalue.NewNumber(n.Round(int32(places.IntPart()))), nil

	case "ABS":
		if len(args) != 1 {
			return errVal(cellvalue.ErrValue), nil
		}
		n, ok := coerceNumber(args[0])
		if !ok {
			return errVal(cellvalue.ErrValue), nil
		}
		return cellvalue.NewNumber(n.Abs()), nil

	case "SQRT":
		if len(args) != 1 {
			return errVal(cellvalue.ErrValue), nil
		}
		n, ok := coerceNumber(args[0])
		if !ok {
			return errVal(cellvalue.ErrValue), nil
		}
		if n.IsNegative() {
			return errVal(cellvalue.ErrNum), nil
		}
		f, _ := n.Float64()
		return cellvalue.NewNumberFromFloat(math.Sqrt(f)), nil

	case "INT":
		if len(args) != 1 {
			return errVal(cellvalue.ErrValue), nil
		}
		n, ok := coerceNumber(args[0])
		if !ok {
			return errVal(cellvalue.ErrValue), nil
		}
		return cellvalue.NewNumber(n.Floor()), nil

	case "MOD":
		if len(args) != 2 {
			return errVal(cellvalue.ErrValue), nil
		}
		a, ok1 := coerceNumber(args[0])
		b, ok2 := coerceNumber(args[1])
		if !ok1 || !ok2 {
			return errVal(cellvalue.ErrValue), nil
		}
		if b.IsZero() {
			return errVal(cellvalue.ErrDivZero), nil
		}
		return cellvalue.NewNumber(a.Mod(b)), nil

	case "LEN":
		if len(args) != 1 {
			return errVal(cellvalue.ErrValue), nil
		}
		return cellvalue.NewNumberFromFloat(float64(len([]rune(args[0].PlainText())))), nil

	case "CONCATENATE":
		var b strings.Builder
		for _, a := range args {
			b.WriteString(a.PlainText())
		}
		return cellvalue.NewText(b.String()), nil

	case "UPPER":
		if len(args) != 1 {
			return errVal(cellvalue.ErrValue), nil
		}
		return cellvalue.NewText(strings.ToUpper(args[0].PlainText())), nil

	case "LOWER":
		if len(args) != 1 {
			return errVal(cellvalue.ErrValue), nil
		}
		return cellvalue.NewText(strings.ToLower(args[0].PlainText())), nil

	case "TRIM":
		if len(args) != 1 {
			return errVal(cellvalue.ErrValue), nil
		}
		return cellvalue.NewText(strings.TrimSpace(args[0].PlainText())), nil

	case "ISBLANK":
		if len(args) != 1 {
			return errVal(cellvalue.ErrValue), nil
		}
		return cellvalue.NewBool(args[0].IsEmpty()), nil

	case "ISNUMBER":
		if len(args) != 1 {
			return errVal(cellvalue.ErrValue), nil
		}
		return cellvalue.NewBool(args[0].Kind == cellvalue.KindNumber), nil

	case "ISTEXT":
		if len(args) != 1 {
			return errVal(cellvalue.ErrValue), nil
		}
		return cellvalue.NewBool(args[0].Kind == cellvalue.KindText || args[0].Kind == cellvalue.KindRichText), nil

	case "ISERROR":
		if len(args) != 1 {
			return errVal(cellvalue.ErrValue), nil
		}
		return cellvalue.NewBool(args[0].Kind == cellvalue.KindError), nil

	case "TRUE":
		return cellvalue.NewBool(true), nil

	case "FALSE":
		return cellvalue.NewBool(false), nil

	default:
		return errVal(cellvalue.ErrName), nil
	}
}

func evalIf(e Expr, env *Env) (cellvalue.CellValue, error) {
	if len(e.Args) < 2 || len(e.Args) > 3 {
		return errVal(cellvalue.ErrValue), nil
	}
	cond, err := Eval(e.Args[0], env)
	if err != nil {
		return cond, err
	}
	if cond.Kind == cellvalue.KindError {
		return cond, nil
	}
	if truthy(cond) {
		return Eval(e.Args[1], env)
	}
	if len(e.Args) == 3 {
		return Eval(e.Args[2], env)
	}
	return cellvalue.NewBool(false), nil
}

func evalAndOr(e Expr, env *Env, isAnd bool) (cellvalue.CellValue, error) {
	if len(e.Args) == 0 {
		return errVal(cellvalue.ErrValue), nil
	}
	for _, a := range e.Args {
		v, err := Eval(a, env)
		if err != nil {
			return v, err
		}
		if v.Kind == cellvalue.KindError {
			return v, nil
		}
		t := truthy(v)
		if isAnd && !t {
			return cellvalue.NewBool(false), nil
		}
		if !isAnd && t {
			return cellvalue.NewBool(true), nil
		}
	}
	return cellvalue.NewBool(isAnd), nil
}
