package ooxml

import (
	"fmt"
	"strings"
)

// escapeFormulaInjection prepends a single quote to a text value that
// starts with a character a spreadsheet application would interpret as a
// formula trigger, neutralizing formula-injection payloads smuggled through
// user-supplied text cells (spec.md §7, WriterConfig.Secure opt-in).
func escapeFormulaInjection(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@':
		return "'" + s
	default:
		return s
	}
}

// errDoctypeDisallowed is returned when a reader encounters a DOCTYPE
// declaration in an OOXML XML part. OOXML parts never legitimately carry
// one; rejecting it outright is the hard XXE defense spec.md §7 calls for,
// on top of encoding/xml's decoder never resolving external entities or
// fetching a DTD over the network by itself.
var errDoctypeDisallowed = fmt.Errorf("ooxml: DOCTYPE declarations are not permitted in OOXML parts")

// containsDoctype reports whether raw XML content declares a DOCTYPE,
// scanning only far enough to find (or rule out) the prolog.
func containsDoctype(prefix []byte) bool {
	return strings.Contains(strings.ToUpper(string(prefix)), "<!DOCTYPE")
}
