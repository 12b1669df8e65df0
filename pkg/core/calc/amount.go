// Package calc provides the deterministic unit-economics calculations.
package calc

import (
	"encoding/json"
	"math"
	"strconv"
)

// Amount is a numeric value that may be undefined. Arithmetic on an undefined
// operand yields undefined, and so does division by zero.
type Amount struct {
	value float64
	known bool
}

// Known wraps v. NaN and ±Inf are treated as undefined.
func Known(v float64) Amount {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Amount{}
	}
	return Amount{value: v, known: true}
}

// Undefined is the missing-data marker.
func Undefined() Amount { return Amount{} }

func (a Amount) IsDefined() bool { return a.known }

// Value returns the number and whether it is defined.
func (a Amount) Value() (float64, bool) { return a.value, a.known }

// Or returns the number, or def when undefined.
func (a Amount) Or(def float64) float64 {
	if !a.known {
		return def
	}
	return a.value
}

// IsZero reports a defined zero.
func (a Amount) IsZero() bool { return a.known && a.value == 0 }

func (a Amount) Add(b Amount) Amount {
	if !a.known || !b.known {
		return Undefined()
	}
	return Known(a.value + b.value)
}

func (a Amount) Sub(b Amount) Amount {
	if !a.known || !b.known {
		return Undefined()
	}
	return Known(a.value - b.value)
}

func (a Amount) Mul(b Amount) Amount {
	if !a.known || !b.known {
		return Undefined()
	}
	return Known(a.value * b.value)
}

// Div is undefined when either side is undefined or the divisor is zero.
func (a Amount) Div(b Amount) Amount {
	if !a.known || !b.known || b.value == 0 {
		return Undefined()
	}
	return Known(a.value / b.value)
}

// MarshalJSON encodes undefined as null.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.known {
		return []byte("null"), nil
	}
	return json.Marshal(a.value)
}

// UnmarshalJSON accepts a number or null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = Undefined()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = Known(v)
	return nil
}

func (a Amount) String() string {
	if !a.known {
		return "n/a"
	}
	return strconv.FormatFloat(a.value, 'f', -1, 64)
}
