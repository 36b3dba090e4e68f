package formula

import (
	"strconv"
	"strings"

	"github.com/latticebook/xlsx/addr"
	"github.com/latticebook/xlsx/cellvalue"
)

var aggFuncNames = map[AggFunc]string{
	AggSum:        "SUM",
	AggCount:      "COUNT",
	AggCountA:     "COUNTA",
	AggCountBlank: "COUNTBLANK",
	AggAverage:    "AVERAGE",
	AggMin:        "MIN",
	AggMax:        "MAX",
}

// Print renders e back to an Excel formula expression (no leading "="),
// parenthesizing only where operator precedence requires it so round-tripping
// through Parse produces an equivalent, though not necessarily
// byte-identical, tree (spec.md §4.5's printer contract).
func Print(e Expr) string {
	var b strings.Builder
	printExpr(&b, e, 0)
	return b.String()
}

func printExpr(b *strings.Builder, e Expr, parentPrec int) {
	switch e.Kind {
	case KindLiteral:
		printLiteral(b, e)
	case KindRef:
		b.WriteString(e.Ref.A1())
	case KindRangeRef:
		b.WriteString(e.Range.A1())
	case KindSheetRef:
		writeSheetQualifier(b, e.Sheet)
		b.WriteString(e.Ref.A1())
	case KindSheetRangeRef:
		writeSheetQualifier(b, e.Sheet)
		b.WriteString(e.Range.A1())
	case KindPolyRef:
		b.WriteString(printPolyRef(e.Poly))
	case KindSheetPolyRef:
		writeSheetQualifier(b, e.Sheet)
		b.WriteString(printPolyRef(e.Poly))
	case KindUnary:
		printUnary(b, e)
	case KindBinary:
		printBinary(b, e, parentPrec)
	case KindCall:
		printArgs(b, e.Func, e.Args)
	case KindAggregate:
		printArgs(b, aggFuncNames[e.Agg], e.Args)
	}
}

func printLiteral(b *strings.Builder, e Expr) {
	v := e.Literal
	switch v.Kind {
	case cellvalue.KindEmpty:
	case cellvalue.KindText, cellvalue.KindRichText:
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(v.PlainText(), `"`, `""`))
		b.WriteByte('"')
	case cellvalue.KindBool:
		if v.Bool {
			b.WriteString("TRUE")
		} else {
			b.WriteString("FALSE")
		}
	case cellvalue.KindError:
		b.WriteString(v.Error.String())
	default:
		b.WriteString(v.PlainText())
	}
}

func writeSheetQualifier(b *strings.Builder, sheet addr.SheetName) {
	needsQuote := strings.ContainsAny(string(sheet), " !'")
	if needsQuote {
		b.WriteByte('\'')
		b.WriteString(strings.ReplaceAll(string(sheet), "'", "''"))
		b.WriteByte('\'')
	} else {
		b.WriteString(string(sheet))
	}
	b.WriteByte('!')
}

func printPolyRef(p PolyRef) string {
	if p.IsRow {
		return strconv.Itoa(p.FirstIndex+1) + ":" + strconv.Itoa(p.LastIndex+1)
	}
	first, _ := addr.ColumnFromNumber(p.FirstIndex + 1)
	last, _ := addr.ColumnFromNumber(p.LastIndex + 1)
	return first.Letter() + ":" + last.Letter()
}

func printUnary(b *strings.Builder, e Expr) {
	if e.Op == "%" {
		printExpr(b, *e.Left, 100)
		b.WriteString("%")
		return
	}
	b.WriteString(e.Op)
	printExpr(b, *e.Left, 6) // parenthesizes any binary operand, "^" included
}

func printBinary(b *strings.Builder, e Expr, parentPrec int) {
	prec := binaryPrecedence(e.Op)
	open := prec < parentPrec
	if open {
		b.WriteByte('(')
	}
	printExpr(b, *e.Left, prec)
	b.WriteString(e.Op)
	rightMin := prec + 1
	if rightAssociative(e.Op) {
		rightMin = prec
	}
	printExpr(b, *e.Right, rightMin)
	if open {
		b.WriteByte(')')
	}
}

func binaryPrecedence(op string) int {
	switch op {
	case "=", "<>", "<", "<=", ">", ">=":
		return 1
	case "&":
		return 2
	case "+", "-":
		return 3
	case "*", "/":
		return 4
	case "^":
		return 5
	default:
		return 0
	}
}

func printArgs(b *strings.Builder, name string, args []Expr) {
	b.WriteString(name)
	b.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			b.WriteByte(',')
		}
		printExpr(b, a, 0)
	}
	b.WriteByte(')')
}
