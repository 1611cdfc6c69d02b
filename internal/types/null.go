// Package types holds small value types shared by the forecast series and
// the chart description.
package types

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// NullFloat64 is a float64 that may be absent. An absent value, NaN and the
// infinities all encode as JSON null.
type NullFloat64 struct {
	Value    float64
	HasValue bool
}

// Float returns a present value.
func Float(v float64) NullFloat64 {
	return NullFloat64{Value: v, HasValue: true}
}

// Null returns the missing marker.
func Null() NullFloat64 {
	return NullFloat64{}
}

// FromPtr maps nil to the missing marker.
func FromPtr(p *float64) NullFloat64 {
	if p == nil {
		return Null()
	}
	return Float(*p)
}

// Valid reports whether f holds a finite value.
func (f NullFloat64) Valid() bool {
	return f.HasValue && !math.IsNaN(f.Value) && !math.IsInf(f.Value, 0)
}

// Or returns the value if valid, else def.
func (f NullFloat64) Or(def float64) float64 {
	if f.Valid() {
		return f.Value
	}
	return def
}

func (f NullFloat64) String() string {
	if !f.Valid() {
		return "null"
	}
	return strconv.FormatFloat(f.Value, 'f', -1, 64)
}

func (f NullFloat64) MarshalJSON() ([]byte, error) {
	if !f.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

func (f *NullFloat64) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = NullFloat64{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// MinMax returns the smallest and largest valid values in vs. ok is false
// when vs holds no valid value.
func MinMax(vs []NullFloat64) (min, max float64, ok bool) {
	for _, v := range vs {
		if !v.Valid() {
			continue
		}
		if !ok {
			min, max, ok = v.Value, v.Value, true
			continue
		}
		if v.Value < min {
			min = v.Value
		}
		if v.Value > max {
			max = v.Value
		}
	}
	return min, max, ok
}
