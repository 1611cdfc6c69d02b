package forecast

import (
	"strings"

	"github.com/i474232898/weather-forecast-chart/internal/types"
)

// Sample is one forecast record for a single timestamp. Optional fields use
// the missing marker rather than zero.
type Sample struct {
	Timestamp      int64
	Temperature    float64
	TemperatureMin float64
	TemperatureMax float64
	IconCode       string

	Rain     types.NullFloat64
	Snow     types.NullFloat64
	Pressure types.NullFloat64

	PrecipitationProbability types.NullFloat64
	WindSpeed                types.NullFloat64
	WindDirection            types.NullFloat64
	UVIndex                  types.NullFloat64
}

// Period is the day/night half an icon code belongs to.
type Period int

const (
	PeriodUnknown Period = iota
	PeriodDay
	PeriodNight
)

// Period reads the day/night suffix of the icon code ("01d", "10n").
func (s Sample) Period() Period {
	switch {
	case strings.HasSuffix(s.IconCode, "d"):
		return PeriodDay
	case strings.HasSuffix(s.IconCode, "n"):
		return PeriodNight
	default:
		return PeriodUnknown
	}
}

// Sample converts a raw entry.
func (r RawSample) Sample() Sample {
	s := Sample{
		Timestamp:                r.Dt,
		Temperature:              r.Temp.Value,
		TemperatureMin:           r.Temp.Min,
		TemperatureMax:           r.Temp.Max,
		Pressure:                 types.FromPtr(r.Pressure),
		PrecipitationProbability: types.FromPtr(r.Pop),
		WindSpeed:                types.FromPtr(r.WindSpeed),
		WindDirection:            types.FromPtr(r.WindDeg),
		UVIndex:                  types.FromPtr(r.UVI),
	}
	if len(r.Weather) > 0 {
		s.IconCode = r.Weather[0].Icon
	}
	if r.Rain != nil {
		s.Rain = types.Float(float64(*r.Rain))
	}
	if r.Snow != nil {
		s.Snow = types.Float(float64(*r.Snow))
	}
	return s
}
