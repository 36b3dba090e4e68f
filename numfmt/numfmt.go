// Package numfmt renders typed cell values to their Excel display string
// using a number format. It is the display-layer rendering engine called
// out in spec.md §4.6.6.
//
// The public entry point is [Format]. All format-string tokenizing is
// delegated to [github.com/xuri/nfp]; this package implements the
// rendering logic on top of the resulting token stream, adapted from the
// teacher's numfmt.FormatValue (numfmt/numfmt.go in the example pack) to
// operate on cellvalue.CellValue / style.NumFmt instead of a raw
// (numFmtID int, fmtStr string) pair, and on decimal.Decimal instead of a
// bare float64.
package numfmt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/nfp"

	"github.com/latticebook/xlsx/cellvalue"
	"github.com/latticebook/xlsx/style"
)

// Format renders v using number format nf. date1904 selects the workbook's
// date system for serial-to-calendar conversion.
func Format(v cellvalue.CellValue, nf style.NumFmt, date1904 bool) string {
	switch v.Kind {
	case cellvalue.KindEmpty:
		return ""
	case cellvalue.KindText:
		return v.Text
	case cellvalue.KindBool:
		if v.Bool {
			return "TRUE"
		}
		return "FALSE"
	case cellvalue.KindError:
		return v.Error.String()
	case cellvalue.KindRichText:
		return v.PlainText()
	case cellvalue.KindDateTime:
		return formatDateTime(v.DateTime, nf, date1904)
	case cellvalue.KindNumber:
		return formatNumber(v.Number, nf, date1904)
	case cellvalue.KindFormula:
		if v.FormulaCached != nil {
			return Format(*v.FormulaCached, nf, date1904)
		}
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func formatNumber(d decimal.Decimal, nf style.NumFmt, date1904 bool) string {
	code := nf.FormatCode()
	val, _ := d.Float64()

	if code == "General" {
		return renderGeneral(val)
	}

	ps := nfp.NumberFormatParser()
	sections := ps.Parse(code)
	if len(sections) == 0 {
		return renderGeneral(val)
	}
	sec := selectSection(sections, val)

	if nf.IsDate() {
		return renderDateSerial(val, sec, date1904)
	}
	return renderNumber(val, sec, sections)
}

func formatDateTime(t time.Time, nf style.NumFmt, date1904 bool) string {
	code := nf.FormatCode()
	if code == "General" {
		code = "m/d/yyyy h:mm"
	}
	ps := nfp.NumberFormatParser()
	sections := ps.Parse(code)
	serial := toSerial(t, date1904)
	if len(sections) == 0 {
		return renderGeneral(serial)
	}
	sec := selectSection(sections, serial)
	return renderDateSerial(serial, sec, date1904)
}

// selectSection picks the correct section based on the value's sign.
//
//	1 section  -> applies to all values
//	2 sections -> [0]=positive+zero  [1]=negative
//	3 sections -> [0]=positive  [1]=negative  [2]=zero
//	4 sections -> [0]=positive  [1]=negative  [2]=zero  [3]=text
func selectSection(sections []nfp.Section, val float64) nfp.Section {
	switch {
	case len(sections) == 1:
		return sections[0]
	case len(sections) == 2:
		if val < 0 {
			return sections[1]
		}
		return sections[0]
	default:
		switch {
		case val > 0:
			return sections[0]
		case val < 0:
			return sections[1]
		default:
			return sections[2]
		}
	}
}

// renderGeneral formats a float64 in Excel's "General" style: integer
// values without a decimal point, fractional values using Go's shortest
// representation.
func renderGeneral(val float64) string {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return strconv.FormatFloat(val, 'G', -1, 64)
	}
	if val == math.Trunc(val) && math.Abs(val) < 1e15 {
		return strconv.FormatInt(int64(val), 10)
	}
	return strconv.FormatFloat(val, 'G', -1, 64)
}

// ToSerial converts a calendar time.Time to its Excel serial number under
// the given date system, for callers outside this package that need to
// store a date/time cell as the raw numeric <v> OOXML requires.
func ToSerial(t time.Time, date1904 bool) float64 { return toSerial(t, date1904) }

// FromSerial converts an Excel serial number back to a calendar time.Time,
// for callers outside this package decoding a numeric <v> known to carry a
// date/time format.
func FromSerial(serial float64, date1904 bool) (time.Time, error) {
	return convertSerial(serial, date1904)
}

// toSerial converts a calendar time.Time back to its Excel serial number,
// the inverse of the conversion spec.md §4.4.2 requires for date/time
// display (and elapsed-time tokens, which operate on the raw serial).
func toSerial(t time.Time, date1904 bool) float64 {
	var base time.Time
	if date1904 {
		base = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)
	} else {
		base = time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC)
	}
	days := t.Sub(base).Hours() / 24
	if !date1904 && days >= 61 {
		days++ // Lotus 1-2-3 leap-year bug: serial 60 is the fictitious Feb 29 1900
	}
	return days
}

// convertSerial converts an Excel serial to time.Time, handling both date
// systems, including the Lotus 1-2-3 leap-year bug in the 1900 system.
func convertSerial(serial float64, date1904 bool) (time.Time, error) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial < 0 {
		return time.Time{}, fmt.Errorf("numfmt: invalid serial %v", serial)
	}
	fracSec := int64(math.Round((serial - math.Trunc(serial)) * 86400))
	if fracSec < 0 {
		fracSec = 0
	} else if fracSec > 86399 {
		fracSec = 86399
	}
	if date1904 {
		base := time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)
		intPart := int(serial)
		return base.Add(time.Duration(intPart)*24*time.Hour + time.Duration(fracSec)*time.Second), nil
	}
	base := time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC)
	intPart := int(serial)
	var t time.Time
	switch {
	case intPart == 0:
		t = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(fracSec) * time.Second)
	case intPart >= 61:
		t = base.Add(time.Duration(intPart-1)*24*time.Hour + time.Duration(fracSec)*time.Second)
	default:
		t = base.Add(time.Duration(intPart)*24*time.Hour + time.Duration(fracSec)*time.Second)
	}
	return t, nil
}

// renderDateSerial renders a date/time serial number using the tokens in
// sec.
func renderDateSerial(serial float64, sec nfp.Section, date1904 bool) string {
	t, err := convertSerial(serial, date1904)
	if err != nil {
		return renderGeneral(serial)
	}

	hasAmPm := false
	for _, tok := range sec.Items {
		if tok.TType == nfp.TokenTypeDateTimes {
			upper := strings.ToUpper(tok.TValue)
			if upper == "AM/PM" || upper == "A/P" {
				hasAmPm = true
				break
			}
		}
	}

	var sb strings.Builder
	lastWasHour := false

	for _, tok := range sec.Items {
		switch tok.TType {
		case nfp.TokenTypeDateTimes:
			upper := strings.ToUpper(tok.TValue)
			sb.WriteString(renderDateToken(upper, t, hasAmPm, lastWasHour))
			lastWasHour = upper == "H" || upper == "HH"

		case nfp.TokenTypeElapsedDateTimes:
			upper := strings.ToUpper(tok.TValue)
			sb.WriteString(renderElapsed(upper, serial))
			lastWasHour = upper == "H" || upper == "HH"

		case nfp.TokenTypeLiteral:
			sb.WriteString(tok.TValue)

		default:
			lastWasHour = false
		}
	}

	if sb.Len() == 0 {
		return renderGeneral(serial)
	}
	return sb.String()
}

func renderDateToken(upper string, t time.Time, hasAmPm bool, lastWasHour bool) string {
	switch upper {
	case "YYYY":
		return fmt.Sprintf("%04d", t.Year())
	case "YY":
		return fmt.Sprintf("%02d", t.Year()%100)

	case "MMMM":
		return t.Month().String()
	case "MMM":
		return t.Month().String()[:3]
	case "MM":
		if lastWasHour {
			return fmt.Sprintf("%02d", t.Minute())
		}
		return fmt.Sprintf("%02d", int(t.Month()))
	case "M":
		if lastWasHour {
			return strconv.Itoa(t.Minute())
		}
		return strconv.Itoa(int(t.Month()))

	case "DDDD":
		return t.Weekday().String()
	case "DDD":
		return t.Weekday().String()[:3]
	case "DD":
		return fmt.Sprintf("%02d", t.Day())
	case "D":
		return strconv.Itoa(t.Day())

	case "HH":
		h := t.Hour()
		if hasAmPm {
			h = hour12(h)
		}
		return fmt.Sprintf("%02d", h)
	case "H":
		h := t.Hour()
		if hasAmPm {
			h = hour12(h)
		}
		return strconv.Itoa(h)

	case "SS":
		return fmt.Sprintf("%02d", t.Second())
	case "S":
		return strconv.Itoa(t.Second())

	case "AM/PM":
		if t.Hour() < 12 {
			return "AM"
		}
		return "PM"
	case "A/P":
		if t.Hour() < 12 {
			return "A"
		}
		return "P"
	}
	return ""
}

func hour12(h int) int {
	h = h % 12
	if h == 0 {
		h = 12
	}
	return h
}

// renderElapsed renders an elapsed-time token (h, hh, mm, ss, as emitted by
// the nfp parser with brackets stripped) using the raw serial (fractional
// days).
func renderElapsed(upper string, serial float64) string {
	switch upper {
	case "H", "HH":
		return strconv.Itoa(int(serial * 24))
	case "MM":
		return fmt.Sprintf("%02d", int(serial*24*60)%60)
	case "M":
		return strconv.Itoa(int(serial*24*60) % 60)
	case "SS":
		return fmt.Sprintf("%02d", int(serial*24*3600)%60)
	case "S":
		return strconv.Itoa(int(serial*24*3600) % 60)
	}
	return ""
}

// renderNumber renders a numeric (non-date) value using the token section
// sec. sections is the full parsed set (needed to check whether the
// negative section has its own sign tokens).
func renderNumber(val float64, sec nfp.Section, sections []nfp.Section) string {
	type meta struct {
		hasPercent      bool
		hasThousands    bool
		decZeros        int
		decHashes       int
		intZeros        int
		hasDecimal      bool
		hasExplicitSign bool
	}
	var m meta
	afterDecimal := false
	for _, tok := range sec.Items {
		switch tok.TType {
		case nfp.TokenTypePercent:
			m.hasPercent = true
		case nfp.TokenTypeThousandsSeparator:
			m.hasThousands = true
		case nfp.TokenTypeDecimalPoint:
			m.hasDecimal = true
			afterDecimal = true
		case nfp.TokenTypeZeroPlaceHolder:
			if afterDecimal {
				m.decZeros += len(tok.TValue)
			} else {
				m.intZeros += len(tok.TValue)
			}
		case nfp.TokenTypeHashPlaceHolder:
			if afterDecimal {
				m.decHashes += len(tok.TValue)
			}
		case nfp.TokenTypeLiteral:
			if tok.TValue == "+" || tok.TValue == "-" {
				m.hasExplicitSign = true
			}
		}
	}
	totalDecPlaces := m.decZeros + m.decHashes

	absVal := math.Abs(val)
	if m.hasPercent {
		absVal *= 100
	}

	var intStr, fracStr string
	if m.hasDecimal {
		formatted := strconv.FormatFloat(absVal, 'f', totalDecPlaces, 64)
		dotIdx := strings.IndexByte(formatted, '.')
		if dotIdx >= 0 {
			intStr = formatted[:dotIdx]
			fracStr = formatted[dotIdx+1:]
		} else {
			intStr = formatted
			fracStr = strings.Repeat("0", totalDecPlaces)
		}
		if m.decHashes > 0 && len(fracStr) > m.decZeros {
			trimTo := len(fracStr)
			for trimTo > m.decZeros && trimTo > 0 && fracStr[trimTo-1] == '0' {
				trimTo--
			}
			fracStr = fracStr[:trimTo]
		}
	} else {
		intStr = strconv.FormatFloat(absVal, 'f', 0, 64)
	}

	for len(intStr) < m.intZeros {
		intStr = "0" + intStr
	}

	if m.hasThousands && len(intStr) > 3 {
		intStr = insertThousandsSep(intStr)
	}

	needsMinus := false
	if val < 0 && !m.hasExplicitSign && len(sections) < 2 {
		needsMinus = true
	}

	var sb strings.Builder
	if needsMinus {
		sb.WriteByte('-')
	}

	intConsumed := false
	fracConsumed := false
	afterDecimal = false

	for _, tok := range sec.Items {
		switch tok.TType {
		case nfp.TokenTypeLiteral:
			sb.WriteString(tok.TValue)

		case nfp.TokenTypeDecimalPoint:
			if len(fracStr) > 0 {
				sb.WriteByte('.')
			}
			afterDecimal = true

		case nfp.TokenTypeZeroPlaceHolder, nfp.TokenTypeHashPlaceHolder:
			if afterDecimal {
				if !fracConsumed {
					sb.WriteString(fracStr)
					fracConsumed = true
				}
			} else {
				if !intConsumed {
					sb.WriteString(intStr)
					intConsumed = true
				}
			}

		case nfp.TokenTypePercent:
			sb.WriteByte('%')

		case nfp.TokenTypeThousandsSeparator:
			// already applied to intStr

		case nfp.TokenTypeColor, nfp.TokenTypeCondition,
			nfp.TokenTypeCurrencyLanguage, nfp.TokenTypeAlignment:
			// formatting-only tokens
		}
	}

	if !intConsumed && !afterDecimal {
		sb.WriteString(intStr)
	}

	if sb.Len() == 0 {
		return renderGeneral(val)
	}
	return sb.String()
}

// insertThousandsSep inserts commas every three digits from the right in
// an integer string (digits only, no sign).
func insertThousandsSep(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var b strings.Builder
	b.Grow(n + n/3)
	rem := n % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(s[:rem])
	for i := rem; i < n; i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
