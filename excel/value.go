package excel

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindAbsent Kind = iota
	KindNumber
	KindText
	KindBoolean
	KindDate
)

// String returns a human-readable name for the Kind.
func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "Absent"
	case KindNumber:
		return "Number"
	case KindText:
		return "Text"
	case KindBoolean:
		return "Boolean"
	case KindDate:
		return "Date"
	default:
		return "Unknown"
	}
}

// Value is the uniform value model a coerced cell is expressed in.
// The zero Value is Absent.
type Value struct {
	kind Kind
	num  float64
	text string
	b    bool
	t    time.Time
}

// Absent returns the value of a blank, error or missing cell.
func Absent() Value { return Value{} }

// Number wraps a float64.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Text wraps a string.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Bool wraps a bool.
func Bool(b bool) Value { return Value{kind: KindBoolean, b: b} }

// Date wraps a timestamp.
func Date(t time.Time) Value { return Value{kind: KindDate, t: t} }

func (v Value) Kind() Kind      { return v.kind }
func (v Value) IsAbsent() bool  { return v.kind == KindAbsent }
func (v Value) Float() float64  { return v.num }
func (v Value) Str() string     { return v.text }
func (v Value) Boolean() bool   { return v.b }
func (v Value) Time() time.Time { return v.t }

// Interface returns the Go value held by v: nil, float64, string, bool or time.Time.
func (v Value) Interface() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindText:
		return v.text
	case KindBoolean:
		return v.b
	case KindDate:
		return v.t
	default:
		return nil
	}
}

// Equal reports whether v and o hold the same variant and value.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindText:
		return v.text == o.text
	case KindBoolean:
		return v.b == o.b
	case KindDate:
		return v.t.Equal(o.t)
	default:
		return true
	}
}

// valueKey is the comparable form of a Value.
type valueKey struct {
	kind  Kind
	num   float64
	text  string
	b     bool
	nanos int64
}

// Key returns a comparable representation of v, usable as a map key.
// Two values have the same key exactly when Equal reports true.
func (v Value) Key() any {
	k := valueKey{kind: v.kind}
	switch v.kind {
	case KindNumber:
		k.num = v.num
	case KindText:
		k.text = v.text
	case KindBoolean:
		k.b = v.b
	case KindDate:
		k.nanos = v.t.UnixNano()
	}
	return k
}

// String renders v the way mapped fields see it: numbers always carry a
// fraction or exponent ("36.0", "1.0E7"), dates are RFC 3339 and Absent is "".
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return formatNumber(v.num)
	case KindText:
		return v.text
	case KindBoolean:
		return strconv.FormatBool(v.b)
	case KindDate:
		return v.t.Format(time.RFC3339)
	default:
		return ""
	}
}

// formatNumber uses plain notation for magnitudes in [1e-3, 1e7) and
// scientific notation otherwise.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}

	abs := math.Abs(f)
	if abs >= 1e-3 && abs < 1e7 {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}

	s := strconv.FormatFloat(f, 'E', -1, 64)
	mant, exp, _ := strings.Cut(s, "E")
	if !strings.Contains(mant, ".") {
		mant += ".0"
	}
	e, err := strconv.Atoi(exp)
	if err != nil {
		return s
	}
	return mant + "E" + strconv.Itoa(e)
}
