// Package addr implements Excel's addressing primitives: columns, rows,
// absolute cell references, drag anchors, ranges, sheet names, and
// sheet-qualified reference parsing/formatting (A1 notation).
//
// All types are opaque and immutable once constructed. Parsing is total:
// it never panics and always returns an error value instead of throwing.
package addr

import (
	"fmt"
)

// Column is a 0-based column index. Valid values are 0 (A) through
// MaxColumn (XFD), inclusive.
type Column int32

// MaxColumn is the highest valid 0-based column index (spreadsheet column XFD).
const MaxColumn Column = 16383

// ColumnFromLetter parses an Excel column letter (case-insensitive, e.g.
// "A", "z", "AA", "XFD") into a 0-based Column. Empty input, non-letter
// input, and letters beyond XFD are rejected.
func ColumnFromLetter(s string) (Column, error) {
	if s == "" {
		return 0, fmt.Errorf("addr: empty column letter")
	}
	var n int64
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
			n = n*26 + int64(c-'A'+1)
		case c >= 'a' && c <= 'z':
			n = n*26 + int64(c-'a'+1)
		default:
			return 0, fmt.Errorf("addr: invalid column letter %q", s)
		}
		if n > int64(MaxColumn)+1 {
			return 0, fmt.Errorf("addr: column letter %q exceeds maximum column XFD", s)
		}
	}
	return Column(n - 1), nil
}

// ColumnFromNumber builds a Column from a 1-based column number.
func ColumnFromNumber(n int) (Column, error) {
	if n < 1 || n > int(MaxColumn)+1 {
		return 0, fmt.Errorf("addr: column number %d out of range [1, %d]", n, MaxColumn+1)
	}
	return Column(n - 1), nil
}

// Index returns the 0-based column index.
func (c Column) Index() int { return int(c) }

// Number returns the 1-based column number.
func (c Column) Number() int { return int(c) + 1 }

// Valid reports whether c lies within Excel's column range.
func (c Column) Valid() bool { return c >= 0 && c <= MaxColumn }

// Letter renders the column as its Excel letter form ("A", "Z", "AA", "XFD").
func (c Column) Letter() string {
	n := int64(c) + 1
	if n <= 0 {
		return ""
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		n--
		i--
		buf[i] = byte('A' + n%26)
		n /= 26
	}
	return string(buf[i:])
}

// String implements fmt.Stringer, returning the Excel letter form.
func (c Column) String() string { return c.Letter() }

// splitColDigits splits a reference body such as "XFD1048576" into its
// leading column-letter run and trailing digit run.
func splitColDigits(s string) (letters, digits string) {
	i := 0
	for i < len(s) && isAsciiLetter(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

func isAsciiLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isAsciiDigit(b byte) bool { return b >= '0' && b <= '9' }
