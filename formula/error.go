package formula

import "fmt"

// FailureKind enumerates the Go-level faults Eval can raise. spec.md §4.5
// also names DivByZero, RefError, CodecFailed, and TypeMismatch, but those
// are Excel-visible outcomes: a division by zero, a dangling reference, and
// a type mismatch are all fully representable as a KindError CellValue
// (#DIV/0!, #REF!, #VALUE!) and evaluation continues, exactly as Excel
// itself keeps recalculating the rest of the sheet around an error cell. No
// call path in this package ever needs to abort with one of those as a Go
// error, so only EvalFailed — used for faults with no in-cell token at all,
// such as recursion depth or a malformed AST — is a FailureKind here.
// Circular references are reported separately by Graph.RecomputeOrder as a
// plain error.
type FailureKind int

const (
	FailEvalFailed FailureKind = iota
)

func (k FailureKind) String() string {
	return "EvalFailed"
}

// EvalError is returned by Eval for faults that matter to the caller beyond
// the in-cell #ERROR! token already embedded in the returned CellValue.
type EvalError struct {
	Kind FailureKind
	Msg  string
}

func (e *EvalError) Error() string { return fmt.Sprintf("formula: %s: %s", e.Kind, e.Msg) }

func newEvalError(kind FailureKind, format string, args ...any) *EvalError {
	return &EvalError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// maxRecursionDepth bounds cross-sheet recursive evaluation (spec.md §4.5:
// "cross-sheet recursion bound (depth > 100 → EvalFailed)").
const maxRecursionDepth = 100
