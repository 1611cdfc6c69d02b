// Package series turns forecast samples into index-aligned chart series.
package series

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/i474232898/weather-forecast-chart/internal/forecast"
	"github.com/i474232898/weather-forecast-chart/internal/types"
	"github.com/i474232898/weather-forecast-chart/internal/units"
)

// Hour label formats.
const (
	Hour24 = "24h"
	Hour12 = "12h"
)

// Daily label formats.
const (
	LabelDate          = "date"
	LabelDaysOfWeek    = "days_of_week"
	LabelDateDayOfWeek = "date+days_of_week"
)

// Options controls normalization.
type Options struct {
	Kind            forecast.Kind
	Count           int
	TimeOffsetHours float64
	HourFormat      string
	DailyLabel      string

	Units       units.System
	RainUnit    units.PrecipitationUnit
	WindUnit    units.WindUnit
	IncludeSnow bool
}

// Series is the normalized bundle. Every slice has one entry per retained
// sample. Hourly bundles fill Day/NightTemperature, daily bundles fill
// Min/MaxTemperature.
type Series struct {
	Kind    forecast.Kind
	Samples []forecast.Sample
	Labels  []string
	Icons   []string

	DayTemperature   []types.NullFloat64
	NightTemperature []types.NullFloat64
	Transitions      []bool

	MinTemperature []types.NullFloat64
	MaxTemperature []types.NullFloat64

	Precipitation []types.NullFloat64
	Snow          []types.NullFloat64
	Pressure      []types.NullFloat64

	PrecipitationProbability []types.NullFloat64
	WindSpeed                []types.NullFloat64
	WindDirection            []types.NullFloat64
	UVIndex                  []types.NullFloat64
}

var gap = types.Float(math.NaN())

// Normalize sorts, truncates and derives every series from samples. The
// input slice is not modified.
func Normalize(samples []forecast.Sample, opts Options) *Series {
	sorted := make([]forecast.Sample, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})
	if opts.Count > 0 && len(sorted) > opts.Count {
		sorted = sorted[:opts.Count]
	}

	n := len(sorted)
	s := &Series{
		Kind:                     opts.Kind,
		Samples:                  sorted,
		Labels:                   make([]string, n),
		Icons:                    make([]string, n),
		Precipitation:            make([]types.NullFloat64, n),
		Snow:                     make([]types.NullFloat64, n),
		Pressure:                 make([]types.NullFloat64, n),
		PrecipitationProbability: make([]types.NullFloat64, n),
		WindSpeed:                make([]types.NullFloat64, n),
		WindDirection:            make([]types.NullFloat64, n),
		UVIndex:                  make([]types.NullFloat64, n),
	}

	offset := time.Duration(opts.TimeOffsetHours * float64(time.Hour))
	for i, smp := range sorted {
		at := time.Unix(smp.Timestamp, 0).UTC().Add(offset)
		if opts.Kind == forecast.Daily {
			s.Labels[i] = dailyLabel(at, opts.DailyLabel)
		} else {
			s.Labels[i] = hourLabel(at, opts.HourFormat)
		}
		s.Icons[i] = smp.IconCode

		s.Precipitation[i] = precipitation(smp, opts)
		s.Snow[i] = types.Float(units.ConvertPrecipitation(smp.Snow.Or(0), opts.RainUnit))
		if smp.Pressure.Valid() {
			s.Pressure[i] = types.Float(units.ConvertPressure(smp.Pressure.Value, opts.Units))
		} else {
			s.Pressure[i] = types.Null()
		}

		s.PrecipitationProbability[i] = smp.PrecipitationProbability
		s.WindDirection[i] = smp.WindDirection
		s.UVIndex[i] = smp.UVIndex
		if smp.WindSpeed.Valid() {
			s.WindSpeed[i] = types.Float(units.ConvertWindSpeed(smp.WindSpeed.Value, opts.Units, opts.WindUnit))
		} else {
			s.WindSpeed[i] = types.Null()
		}
	}

	if opts.Kind == forecast.Daily {
		s.splitMinMax()
	} else {
		s.splitDayNight()
	}
	return s
}

// precipitation merges rain and, when enabled, snow into one amount.
func precipitation(smp forecast.Sample, opts Options) types.NullFloat64 {
	var amount float64
	switch {
	case smp.Rain.Valid():
		amount = smp.Rain.Value
		if opts.IncludeSnow {
			amount += smp.Snow.Or(0)
		}
	case opts.IncludeSnow && smp.Snow.Valid():
		amount = smp.Snow.Value
	}
	return types.Float(units.ConvertPrecipitation(amount, opts.RainUnit))
}

// splitDayNight places each temperature on the curve of its period. The
// sample at which the period flips is written to both curves so the two
// strokes meet.
func (s *Series) splitDayNight() {
	n := len(s.Samples)
	s.DayTemperature = make([]types.NullFloat64, n)
	s.NightTemperature = make([]types.NullFloat64, n)
	s.Transitions = make([]bool, n)
	if n == 0 {
		return
	}

	isDay := s.Samples[0].Period() == forecast.PeriodDay
	for i, smp := range s.Samples {
		v := types.Float(smp.Temperature)
		period := smp.Period()
		if period == forecast.PeriodUnknown {
			period = forecast.PeriodNight
			if isDay {
				period = forecast.PeriodDay
			}
		}

		if period == forecast.PeriodDay {
			s.DayTemperature[i] = v
			s.NightTemperature[i] = gap
			if !isDay {
				s.NightTemperature[i] = v
				s.Transitions[i] = true
			}
			isDay = true
			continue
		}
		s.NightTemperature[i] = v
		s.DayTemperature[i] = gap
		if isDay {
			s.DayTemperature[i] = v
			s.Transitions[i] = true
		}
		isDay = false
	}
}

func (s *Series) splitMinMax() {
	n := len(s.Samples)
	s.MinTemperature = make([]types.NullFloat64, n)
	s.MaxTemperature = make([]types.NullFloat64, n)
	for i, smp := range s.Samples {
		s.MinTemperature[i] = types.Float(smp.TemperatureMin)
		s.MaxTemperature[i] = types.Float(smp.TemperatureMax)
	}
}

// Len is the number of retained samples.
func (s *Series) Len() int {
	return len(s.Samples)
}

// TemperatureRange returns the observed temperature span. ok is false when
// no sample carries a temperature.
func (s *Series) TemperatureRange() (min, max float64, ok bool) {
	if s.Kind == forecast.Daily {
		min, _, okMin := types.MinMax(s.MinTemperature)
		_, max, okMax := types.MinMax(s.MaxTemperature)
		return min, max, okMin && okMax
	}
	min, max, ok = types.MinMax(append(append([]types.NullFloat64(nil), s.DayTemperature...), s.NightTemperature...))
	return min, max, ok
}

// PrecipitationMax returns the largest merged precipitation and snow
// amounts, 0 when there are none.
func (s *Series) PrecipitationMax() (rain, snow float64) {
	_, rain, _ = types.MinMax(s.Precipitation)
	_, snow, _ = types.MinMax(s.Snow)
	return rain, snow
}

// PressureRange returns the observed pressure span.
func (s *Series) PressureRange() (min, max float64, ok bool) {
	return types.MinMax(s.Pressure)
}

func hourLabel(at time.Time, format string) string {
	h := at.Hour()
	if format != Hour12 {
		return strconv.Itoa(h)
	}
	suffix := "am"
	if h >= 12 {
		suffix = "pm"
	}
	if h%12 == 0 {
		return "12" + suffix
	}
	return strconv.Itoa(h%12) + suffix
}

func dailyLabel(at time.Time, format string) string {
	day := strconv.Itoa(at.Day())
	weekday := at.Weekday().String()[:2]
	switch format {
	case LabelDaysOfWeek:
		return weekday
	case LabelDateDayOfWeek:
		return weekday + " " + day
	default:
		return day
	}
}
