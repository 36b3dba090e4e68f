// Package formula implements a typed formula AST, a recursive-descent
// parser fronted by github.com/xuri/efp's Excel tokenizer, a total printer,
// an evaluator with Excel's error taxonomy, and a dependency graph for
// recomputation ordering (spec.md §2 "a typed formula engine").
package formula

import (
	"github.com/latticebook/xlsx/addr"
	"github.com/latticebook/xlsx/cellvalue"
)

// Kind discriminates the variants of Expr, exhaustively enumerated in the
// style of cellvalue.Kind and patch.Kind.
type Kind int

const (
	KindLiteral Kind = iota
	KindRef
	KindRangeRef
	KindSheetRef
	KindSheetRangeRef
	KindPolyRef       // a full-column or full-row reference, e.g. A:A or 3:3
	KindSheetPolyRef
	KindUnary
	KindBinary
	KindCall
	KindAggregate
)

// AggFunc enumerates the aggregator functions with dedicated evaluation
// semantics (empty-cell handling differs per spec.md §4.5.3 from ordinary
// scalar functions).
type AggFunc int

const (
	AggSum AggFunc = iota
	AggCount
	AggCountA
	AggCountBlank
	AggAverage
	AggMin
	AggMax
)

var aggNames = map[string]AggFunc{
	"SUM":         AggSum,
	"COUNT":       AggCount,
	"COUNTA":      AggCountA,
	"COUNTBLANK":  AggCountBlank,
	"AVERAGE":     AggAverage,
	"MIN":         AggMin,
	"MAX":         AggMax,
}

// Expr is a node in the formula AST. Only the fields relevant to Kind are
// populated, mirroring cellvalue.CellValue's tagged-union shape.
type Expr struct {
	Kind Kind

	Literal cellvalue.CellValue // KindLiteral

	Ref   addr.ARef      // KindRef, KindSheetRef
	Range addr.CellRange // KindRangeRef, KindSheetRangeRef
	Poly  PolyRef        // KindPolyRef, KindSheetPolyRef
	Sheet addr.SheetName // KindSheetRef, KindSheetRangeRef, KindSheetPolyRef

	Op    string // KindUnary, KindBinary: "-", "+", "&", "=", "<>", "<", "<=", ">", ">=", "^", "*", "/", "%"
	Left  *Expr  // KindUnary (operand), KindBinary
	Right *Expr  // KindBinary

	Func string  // KindCall: function name, upper-cased
	Agg  AggFunc // KindAggregate
	Args []Expr  // KindCall, KindAggregate
}

// PolyRef is a full-column ("A:A") or full-row ("3:3") reference.
type PolyRef struct {
	IsRow      bool
	FirstIndex int // 0-based column or row index
	LastIndex  int
}

// Lit builds a literal expression.
func Lit(v cellvalue.CellValue) Expr { return Expr{Kind: KindLiteral, Literal: v} }

// Ref builds a same-sheet cell reference.
func Ref(r addr.ARef) Expr { return Expr{Kind: KindRef, Ref: r} }

// RangeRef builds a same-sheet range reference.
func RangeRef(r addr.CellRange) Expr { return Expr{Kind: KindRangeRef, Range: r} }

// SheetRef builds a cross-sheet cell reference.
func SheetRef(sheet addr.SheetName, r addr.ARef) Expr {
	return Expr{Kind: KindSheetRef, Sheet: sheet, Ref: r}
}

// SheetRangeRef builds a cross-sheet range reference.
func SheetRangeRef(sheet addr.SheetName, r addr.CellRange) Expr {
	return Expr{Kind: KindSheetRangeRef, Sheet: sheet, Range: r}
}

// Binary builds a binary operator expression.
func Binary(op string, left, right Expr) Expr {
	return Expr{Kind: KindBinary, Op: op, Left: &left, Right: &right}
}

// Unary builds a unary operator expression (negation, percent).
func Unary(op string, operand Expr) Expr {
	return Expr{Kind: KindUnary, Op: op, Left: &operand}
}

// Call builds a plain function-call expression.
func Call(name string, args ...Expr) Expr {
	return Expr{Kind: KindCall, Func: name, Args: args}
}

// Aggregate builds an aggregator-function expression for one of the
// dedicated AggFunc variants.
func Aggregate(fn AggFunc, args ...Expr) Expr {
	return Expr{Kind: KindAggregate, Agg: fn, Args: args}
}
