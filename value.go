package spreadsheet

import (
	"fmt"
	"math"
	"strconv"
)

// ValueKind discriminates the CellValue variants.
type ValueKind uint8

const (
	ValueText   ValueKind = 0
	ValueNumber ValueKind = 1
	ValueError  ValueKind = 2
)

// CellValue is the tagged union a cell read produces: a text string, a
// number, or a FormulaError. The zero value is the empty text value,
// which is what empty cells return.
type CellValue struct {
	kind   ValueKind
	text   string
	number float64
	ferr   FormulaError
}

// TextValue returns a text-valued CellValue.
func TextValue(s string) CellValue {
	return CellValue{kind: ValueText, text: s}
}

// NumberValue returns a numeric CellValue.
func NumberValue(n float64) CellValue {
	return CellValue{kind: ValueNumber, number: n}
}

// ErrorValue returns a CellValue holding a FormulaError.
func ErrorValue(e FormulaError) CellValue {
	return CellValue{kind: ValueError, ferr: e}
}

// Kind returns the variant tag.
func (v CellValue) Kind() ValueKind {
	return v.kind
}

// Text returns the text content. Zero for non-text values.
func (v CellValue) Text() string {
	return v.text
}

// Number returns the numeric content. Zero for non-number values.
func (v CellValue) Number() float64 {
	return v.number
}

// Err returns the held FormulaError and whether the value is an error.
func (v CellValue) Err() (FormulaError, bool) {
	return v.ferr, v.kind == ValueError
}

// String renders the value the way PrintValues emits it: numbers in
// their default decimal form, errors as their display string, text
// verbatim.
func (v CellValue) String() string {
	switch v.kind {
	case ValueNumber:
		return formatNumber(v.number)
	case ValueError:
		return v.ferr.Error()
	default:
		return v.text
	}
}

// formatNumber renders integral values below 1e15 in magnitude without
// a decimal point and everything else in compact %g form.
func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return fmt.Sprintf("%g", f)
}
