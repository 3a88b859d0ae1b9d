package domain

import (
	"bytes"
	"math"
	"strconv"
)

// NullFloat represents a derived financial value that may be undefined.
// A value becomes undefined when its formula has a zero denominator
// (e.g. an EBITDA margin for a row with zero sales). Undefined values
// are carried through the pipeline explicitly instead of faulting or
// silently collapsing to zero.
//
// JSON serialization: undefined renders as null.
// CSV serialization: undefined renders as an empty cell.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Float returns a defined NullFloat holding v.
func Float(v float64) NullFloat {
	return NullFloat{Float64: v, Valid: true}
}

// Undefined returns an undefined NullFloat.
func Undefined() NullFloat {
	return NullFloat{}
}

// Sub returns n - other, undefined when either operand is undefined.
func (n NullFloat) Sub(other NullFloat) NullFloat {
	if !n.Valid || !other.Valid {
		return Undefined()
	}
	return Float(n.Float64 - other.Float64)
}

// Scale returns n * factor, undefined when n is undefined.
func (n NullFloat) Scale(factor float64) NullFloat {
	if !n.Valid {
		return Undefined()
	}
	return Float(n.Float64 * factor)
}

var nullJSON = []byte("null")

// MarshalJSON implements json.Marshaler. Undefined values render as null
// so consumers never see a bare NaN in a JSON payload.
func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid || math.IsNaN(n.Float64) || math.IsInf(n.Float64, 0) {
		return nullJSON, nil
	}
	return strconv.AppendFloat(nil, n.Float64, 'f', -1, 64), nil
}

// UnmarshalJSON implements json.Unmarshaler. null unmarshals to undefined.
func (n *NullFloat) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, nullJSON) {
		*n = Undefined()
		return nil
	}
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*n = Float(v)
	return nil
}

// CSVCell formats the value for CSV export with the given precision.
// Undefined values render as an empty cell.
func (n NullFloat) CSVCell(precision int) string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Float64, 'f', precision, 64)
}
