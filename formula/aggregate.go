package formula

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/latticebook/xlsx/cellvalue"
)

// evalAggregate evaluates one of the dedicated aggregator functions
// (spec.md §4.5.3), which treat blank cells differently from ordinary
// scalar functions: SUM/AVERAGE/MIN/MAX/COUNT skip blanks, COUNTA counts
// every non-blank cell, and COUNTBLANK counts only the blanks.
func evalAggregate(e Expr, env *Env) (cellvalue.CellValue, error) {
	var cells []cellvalue.CellValue
	for _, arg := range e.Args {
		vals, err := collectArg(arg, env)
		if err != nil {
			return errVal(cellvalue.ErrValue), err
		}
		cells = append(cells, vals...)
	}

	switch e.Agg {
	case AggCountA:
		n := lo.CountBy(cells, func(v cellvalue.CellValue) bool { return !v.IsEmpty() })
		return cellvalue.NewNumberFromFloat(float64(n)), nil

	case AggCountBlank:
		n := lo.CountBy(cells, func(v cellvalue.CellValue) bool { return v.IsEmpty() })
		return cellvalue.NewNumberFromFloat(float64(n)), nil

	case AggCount:
		n := lo.CountBy(cells, isNumeric)
		return cellvalue.NewNumberFromFloat(float64(n)), nil

	case AggSum:
		nums := numericValues(cells)
		total := lo.Reduce(nums, func(acc decimal.Decimal, n decimal.Decimal, _ int) decimal.Decimal {
			return acc.Add(n)
		}, decimal.Zero)
		return cellvalue.NewNumber(total), nil

	case AggAverage:
		nums := numericValues(cells)
		if len(nums) == 0 {
			return errVal(cellvalue.ErrDivZero), nil
		}
		total := lo.Reduce(nums, func(acc decimal.Decimal, n decimal.Decimal, _ int) decimal.Decimal {
			return acc.Add(n)
		}, decimal.Zero)
		return cellvalue.NewNumber(total.Div(decimal.NewFromInt(int64(len(nums))))), nil

	case AggMin:
		nums := numericValues(cells)
		if len(nums) == 0 {
			return cellvalue.NewNumberFromFloat(0), nil
		}
		return cellvalue.NewNumber(lo.MinBy(nums, func(a, b decimal.Decimal) bool { return a.LessThan(b) })), nil

	case AggMax:
		nums := numericValues(cells)
		if len(nums) == 0 {
			return cellvalue.NewNumberFromFloat(0), nil
		}
		return cellvalue.NewNumber(lo.MaxBy(nums, func(a, b decimal.Decimal) bool { return a.GreaterThan(b) })), nil

	default:
		return errVal(cellvalue.ErrValue), newEvalError(FailEvalFailed, "unknown aggregate function")
	}
}

func isNumeric(v cellvalue.CellValue) bool { return v.Kind == cellvalue.KindNumber }

func numericValues(cells []cellvalue.CellValue) []decimal.Decimal {
	numeric := lo.Filter(cells, func(v cellvalue.CellValue, _ int) bool { return isNumeric(v) })
	return lo.Map(numeric, func(v cellvalue.CellValue, _ int) decimal.Decimal { return v.Number })
}

// collectArg flattens one aggregate argument into its constituent cell
// values: a range/poly-ref iterates its member cells (including genuinely
// blank ones, needed by COUNTBLANK), while any other expression is
// evaluated as a single scalar.
func collectArg(arg Expr, env *Env) ([]cellvalue.CellValue, error) {
	switch arg.Kind {
	case KindRangeRef, KindSheetRangeRef, KindPolyRef, KindSheetPolyRef:
		sh, rng, ok := resolveRange(env, arg)
		if !ok {
			return []cellvalue.CellValue{errVal(cellvalue.ErrRef)}, nil
		}
		var out []cellvalue.CellValue
		for ref := range rng.Cells() {
			cell, ok := sh.Get(ref)
			if !ok {
				out = append(out, cellvalue.Empty)
				continue
			}
			out = append(out, cell.Value)
		}
		return out, nil
	default:
		v, err := Eval(arg, env)
		if err != nil {
			return nil, err
		}
		return []cellvalue.CellValue{v}, nil
	}
}
