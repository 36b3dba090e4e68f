package style

import "github.com/latticebook/xlsx/internal/dateformat"

// BuiltInNumFmt maps built-in numFmtId values (0-49) to their canonical
// format strings per ECMA-376 §18.8.30. Adapted directly from the teacher's
// styles.BuiltInNumFmt table; IDs absent here are locale-dependent built-ins
// with no static representation.
var BuiltInNumFmt = map[int]string{
	0:  "General",
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	5:  `($#,##0_);($#,##0)`,
	6:  `($#,##0_);[Red]($#,##0)`,
	7:  `($#,##0.00_);($#,##0.00)`,
	8:  `($#,##0.00_);[Red]($#,##0.00)`,
	9:  "0%",
	10: "0.00%",
	11: "0.00E+00",
	12: "# ?/?",
	13: "# ??/??",
	14: "MM-DD-YY",
	15: "d-mmm-yy",
	16: "d-mmm",
	17: "mmm-yy",
	18: "h:mm AM/PM",
	19: "h:mm:ss AM/PM",
	20: "h:mm",
	21: "h:mm:ss",
	22: "m/d/yy h:mm",
	37: `(#,##0_);(#,##0)`,
	38: `(#,##0_);[Red](#,##0)`,
	39: `(#,##0.00_);(#,##0.00)`,
	40: `(#,##0.00_);[Red](#,##0.00)`,
	41: `_(* #,##0_);_(* (#,##0);_(* "-"_);_(@_)`,
	42: `_($* #,##0_);_($* (#,##0);_($* "-"_);_(@_)`,
	43: `_(* #,##0.00_);_(* (#,##0.00);_(* "-"??_);_(@_)`,
	44: `_($* #,##0.00_);_($* (#,##0.00);_($* "-"??_);_(@_)`,
	45: "mm:ss",
	46: "[h]:mm:ss",
	47: "mm:ss.0",
	48: "##0.0E+0",
	49: "@",
}

var builtInCodeToID = func() map[string]int {
	m := make(map[string]int, len(BuiltInNumFmt))
	for id, code := range BuiltInNumFmt {
		m[code] = id
	}
	return m
}()

// IsBuiltInNumFmtID reports whether id names one of the reserved built-in
// numFmtId slots (0-163), irrespective of whether this package has a static
// format string for it.
func IsBuiltInNumFmtID(id int) bool { return id >= 0 && id < 164 }

// ResolveBuiltInNumFmtID reports whether id is a built-in with a statically
// known format code, returning that code.
func ResolveBuiltInNumFmtID(id int) (string, bool) {
	code, ok := BuiltInNumFmt[id]
	return code, ok
}

// NumFmtForBuiltIn constructs the NumFmt for a known built-in numFmtId,
// classifying date/time IDs into NumFmtDate/NumFmtDateTime and everything
// else into NumFmtCustom so FormatCode() round-trips the exact code.
func NumFmtForBuiltIn(id int) NumFmt {
	code, ok := BuiltInNumFmt[id]
	if !ok {
		return Custom("")
	}
	switch id {
	case 0:
		return General
	case 1:
		return NumFmt{Kind: NumFmtInteger}
	case 2:
		return NumFmt{Kind: NumFmtDecimal}
	case 9, 10:
		return NumFmt{Kind: NumFmtPercent}
	}
	if dateformat.BuiltinIsDate(id) {
		if id >= 18 && id <= 22 || id == 45 || id == 46 || id == 47 {
			return NumFmt{Kind: NumFmtDateTime, Code: code}
		}
		return NumFmt{Kind: NumFmtDate, Code: code}
	}
	return Custom(code)
}

// NumFmtIDForCode returns the built-in numFmtId for an exact format-code
// match, or false if code is not one of the static built-ins.
func NumFmtIDForCode(code string) (int, bool) {
	id, ok := builtInCodeToID[code]
	return id, ok
}
