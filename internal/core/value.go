package core

import (
	"encoding/json"
	"math"
	"strconv"
)

// cellKind identifies which variant a Value holds.
type cellKind uint8

const (
	kindMissing cellKind = iota
	kindString
	kindNumber
)

// Value is a tagged table cell: missing, string, or number.
// The zero Value is missing.
type Value struct {
	kind cellKind
	str  string
	num  float64
}

// Missing returns an empty cell.
func Missing() Value {
	return Value{}
}

// Str returns a string cell. An empty string is treated as missing,
// matching how blank CSV cells are read.
func Str(s string) Value {
	if s == "" {
		return Value{}
	}
	return Value{kind: kindString, str: s}
}

// Num returns a numeric cell.
func Num(f float64) Value {
	return Value{kind: kindNumber, num: f}
}

// IsMissing reports whether v is an empty cell.
func (v Value) IsMissing() bool {
	return v.kind == kindMissing
}

// String renders the plain text form of the cell. Missing renders as "".
// Numbers render in plain decimal notation, never with an exponent.
func (v Value) String() string {
	switch v.kind {
	case kindString:
		return v.str
	case kindNumber:
		return formatNumber(v.num)
	default:
		return ""
	}
}

// Equal compares two values by kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case kindString:
		return v.str == o.str
	case kindNumber:
		return v.num == o.num || (math.IsNaN(v.num) && math.IsNaN(o.num))
	default:
		return true
	}
}

// MarshalJSON encodes missing cells as null and everything else as its
// plain string form, so long tracking numbers survive JavaScript clients.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == kindMissing {
		return []byte("null"), nil
	}
	return json.Marshal(v.String())
}

func formatNumber(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
