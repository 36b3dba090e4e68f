package addr

import (
	"fmt"
	"strings"
)

// RefKind discriminates the variants of RefType.
type RefKind int

const (
	// KindCell is a plain, unqualified single-cell reference.
	KindCell RefKind = iota
	// KindRange is a plain, unqualified range reference.
	KindRange
	// KindQualifiedCell is a single-cell reference qualified by sheet name.
	KindQualifiedCell
	// KindQualifiedRange is a range reference qualified by sheet name.
	KindQualifiedRange
)

// RefType is the tagged union Cell | Range | QualifiedCell | QualifiedRange
// from spec.md §3. Only the fields relevant to Kind are populated.
type RefType struct {
	Kind  RefKind
	Sheet SheetName // set for KindQualifiedCell / KindQualifiedRange
	Ref   ARef      // set for KindCell / KindQualifiedCell
	Range CellRange // set for KindRange / KindQualifiedRange
}

// A1 renders the reference, quoting and sheet-qualifying as needed.
func (rt RefType) A1() string {
	switch rt.Kind {
	case KindCell:
		return rt.Ref.A1()
	case KindRange:
		return rt.Range.A1()
	case KindQualifiedCell:
		return rt.Sheet.QuotedA1() + "!" + rt.Ref.A1()
	case KindQualifiedRange:
		return rt.Sheet.QuotedA1() + "!" + rt.Range.A1()
	default:
		return ""
	}
}

// String implements fmt.Stringer.
func (rt RefType) String() string { return rt.A1() }

// ParseRefType parses any of the four RefType forms, including sheet
// qualification with quoting.
//
// The sheet-qualified scan algorithm (spec.md §4.1) walks the string once,
// tracking whether it is inside a quoted sheet-name segment, and splits on
// the first unquoted "!". Everything before the split (after unescaping
// "''" to "'" and stripping the surrounding quotes) is validated as a
// SheetName; everything after is parsed as a cell or range.
func ParseRefType(s string) (RefType, error) {
	sheetPart, refPart, qualified, err := splitSheetQualifier(s)
	if err != nil {
		return RefType{}, fmt.Errorf("addr: parse ref %q: %w", s, err)
	}
	if !qualified {
		if strings.IndexByte(refPart, ':') >= 0 {
			rng, err := ParseCellRange(refPart)
			if err != nil {
				return RefType{}, fmt.Errorf("addr: parse ref %q: %w", s, err)
			}
			return RefType{Kind: KindRange, Range: rng}, nil
		}
		ref, err := ParseARef(refPart)
		if err != nil {
			return RefType{}, fmt.Errorf("addr: parse ref %q: %w", s, err)
		}
		return RefType{Kind: KindCell, Ref: ref}, nil
	}

	sheetName, err := NewSheetName(sheetPart)
	if err != nil {
		return RefType{}, fmt.Errorf("addr: parse ref %q: %w", s, err)
	}
	if refPart == "" {
		return RefType{}, fmt.Errorf("addr: parse ref %q: empty reference after sheet qualifier", s)
	}
	if strings.IndexByte(refPart, ':') >= 0 {
		rng, err := ParseCellRange(refPart)
		if err != nil {
			return RefType{}, fmt.Errorf("addr: parse ref %q: %w", s, err)
		}
		return RefType{Kind: KindQualifiedRange, Sheet: sheetName, Range: rng}, nil
	}
	ref, err := ParseARef(refPart)
	if err != nil {
		return RefType{}, fmt.Errorf("addr: parse ref %q: %w", s, err)
	}
	return RefType{Kind: KindQualifiedCell, Sheet: sheetName, Ref: ref}, nil
}

// splitSheetQualifier performs the linear "in-quoted-segment" scan described
// in spec.md §4.1: it tracks a boolean flag while walking the string and
// splits on the first unquoted "!". The sheet name segment has its
// surrounding quotes stripped and any "''" escape sequence unescaped to "'".
func splitSheetQualifier(s string) (sheet, rest string, qualified bool, err error) {
	inQuote := false
	bangIdx := -1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			inQuote = !inQuote
		case '!':
			if !inQuote {
				bangIdx = i
			}
		}
		if bangIdx >= 0 {
			break
		}
	}
	if bangIdx < 0 {
		if strings.Count(s, "'")%2 != 0 {
			return "", "", false, fmt.Errorf("unbalanced quotes")
		}
		return "", s, false, nil
	}
	sheetRaw := s[:bangIdx]
	rest = s[bangIdx+1:]
	if strings.Count(sheetRaw, "'")%2 != 0 {
		return "", "", false, fmt.Errorf("unbalanced quotes in sheet name %q", sheetRaw)
	}
	if len(sheetRaw) == 0 {
		return "", "", false, fmt.Errorf("empty sheet name")
	}
	if sheetRaw[0] == '\'' {
		if len(sheetRaw) < 2 || sheetRaw[len(sheetRaw)-1] != '\'' {
			return "", "", false, fmt.Errorf("unbalanced quotes in sheet name %q", sheetRaw)
		}
		inner := sheetRaw[1 : len(sheetRaw)-1]
		sheet = strings.ReplaceAll(inner, "''", "'")
	} else {
		sheet = sheetRaw
	}
	return sheet, rest, true, nil
}
