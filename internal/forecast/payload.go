// Package forecast models the raw one-call forecast payload and the
// per-timestamp samples derived from it.
package forecast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Kind selects which array of a payload a chart is built from.
type Kind string

const (
	Hourly Kind = "hourly"
	Daily  Kind = "daily"
)

// ParseKind accepts "hourly" or "daily" in any case.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case Hourly:
		return Hourly, nil
	case Daily:
		return Daily, nil
	default:
		return "", fmt.Errorf("unknown forecast kind %q", s)
	}
}

// Payload is a one-call style forecast document.
type Payload struct {
	Lat            float64     `json:"lat"`
	Lon            float64     `json:"lon"`
	Timezone       string      `json:"timezone,omitempty"`
	TimezoneOffset int         `json:"timezone_offset,omitempty"`
	Current        *RawSample  `json:"current,omitempty"`
	Hourly         []RawSample `json:"hourly,omitempty"`
	Daily          []RawSample `json:"daily,omitempty"`
}

// RawSample is one entry of the hourly or daily array, as sent by the
// provider.
type RawSample struct {
	Dt        int64       `json:"dt"`
	Temp      Temperature `json:"temp"`
	Pressure  *float64    `json:"pressure,omitempty"`
	Pop       *float64    `json:"pop,omitempty"`
	WindSpeed *float64    `json:"wind_speed,omitempty"`
	WindDeg   *float64    `json:"wind_deg,omitempty"`
	UVI       *float64    `json:"uvi,omitempty"`
	Rain      *Volume     `json:"rain,omitempty"`
	Snow      *Volume     `json:"snow,omitempty"`
	Weather   []Condition `json:"weather,omitempty"`
}

// Condition is an entry of the weather array. Only the icon is used.
type Condition struct {
	ID          int    `json:"id,omitempty"`
	Main        string `json:"main,omitempty"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon"`
}

// Volume is a precipitation amount. The provider sends either a bare
// number (daily) or an object keyed by period (hourly, {"1h": 0.3}).
type Volume float64

func (v *Volume) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = 0
		return nil
	}
	if data[0] == '{' {
		var byPeriod map[string]float64
		if err := json.Unmarshal(data, &byPeriod); err != nil {
			return fmt.Errorf("decode volume: %w", err)
		}
		for _, period := range []string{"1h", "3h"} {
			if amount, ok := byPeriod[period]; ok {
				*v = Volume(amount)
				return nil
			}
		}
		*v = 0
		return nil
	}
	var amount float64
	if err := json.Unmarshal(data, &amount); err != nil {
		return fmt.Errorf("decode volume: %w", err)
	}
	*v = Volume(amount)
	return nil
}

// Temperature is either a scalar (hourly) or a per-day breakdown (daily).
type Temperature struct {
	Value  float64
	Min    float64
	Max    float64
	Scalar bool
}

type dailyTemperature struct {
	Day   float64 `json:"day"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Night float64 `json:"night,omitempty"`
	Eve   float64 `json:"eve,omitempty"`
	Morn  float64 `json:"morn,omitempty"`
}

func (t *Temperature) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = Temperature{}
		return nil
	}
	if data[0] == '{' {
		var d dailyTemperature
		if err := json.Unmarshal(data, &d); err != nil {
			return fmt.Errorf("decode temperature: %w", err)
		}
		*t = Temperature{Value: d.Day, Min: d.Min, Max: d.Max}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode temperature: %w", err)
	}
	*t = Temperature{Value: v, Min: v, Max: v, Scalar: true}
	return nil
}

func (t Temperature) MarshalJSON() ([]byte, error) {
	if t.Scalar {
		return json.Marshal(t.Value)
	}
	return json.Marshal(dailyTemperature{Day: t.Value, Min: t.Min, Max: t.Max})
}

// Decode parses a payload document.
func Decode(data []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return &p, nil
}

// Samples converts the array selected by kind, in payload order.
func (p *Payload) Samples(kind Kind) []Sample {
	if p == nil {
		return nil
	}
	raw := p.Hourly
	if kind == Daily {
		raw = p.Daily
	}
	out := make([]Sample, 0, len(raw))
	for _, r := range raw {
		out = append(out, r.Sample())
	}
	return out
}

// IssuedAt is the timestamp used to order payloads from the same source:
// the current observation if present, else the earliest forecast entry.
func (p *Payload) IssuedAt() int64 {
	if p == nil {
		return 0
	}
	if p.Current != nil {
		return p.Current.Dt
	}
	var first int64
	for i, r := range append(append([]RawSample(nil), p.Hourly...), p.Daily...) {
		if i == 0 || r.Dt < first {
			first = r.Dt
		}
	}
	return first
}
