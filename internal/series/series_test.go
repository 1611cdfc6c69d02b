package series

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/i474232898/weather-forecast-chart/internal/forecast"
	"github.com/i474232898/weather-forecast-chart/internal/types"
	"github.com/i474232898/weather-forecast-chart/internal/units"
)

func hourly(dt int64, temp float64, icon string) forecast.Sample {
	return forecast.Sample{
		Timestamp:   dt,
		Temperature: temp,
		IconCode:    icon,
		Pressure:    types.Float(1000),
	}
}

func defaultOptions() Options {
	return Options{
		Kind:       forecast.Hourly,
		Count:      24,
		HourFormat: Hour24,
		Units:      units.Metric,
		RainUnit:   units.Millimetre,
		WindUnit:   units.WindMs,
	}
}

func TestNormalizeDayNightTransition(t *testing.T) {
	samples := []forecast.Sample{
		{Timestamp: 0, Temperature: 10, IconCode: "01d", Pressure: types.Float(1000)},
		{Timestamp: 3600, Temperature: 8, IconCode: "01n", Pressure: types.Float(1005)},
	}
	opts := defaultOptions()
	opts.Count = 2

	s := Normalize(samples, opts)

	nan := math.NaN()
	if diff := cmp.Diff([]string{"0", "1"}, s.Labels); diff != "" {
		t.Errorf("Labels mismatch (-want +got):\n%s", diff)
	}
	wantDay := []types.NullFloat64{types.Float(10), types.Float(8)}
	wantNight := []types.NullFloat64{types.Float(nan), types.Float(8)}
	if diff := cmp.Diff(wantDay, s.DayTemperature, cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("DayTemperature mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantNight, s.NightTemperature, cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("NightTemperature mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]bool{false, true}, s.Transitions); diff != "" {
		t.Errorf("Transitions mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeDayNightExclusive(t *testing.T) {
	icons := []string{"01n", "02n", "01d", "03d", "04d", "10n", "10n", "01d", "01x", "01n"}
	var samples []forecast.Sample
	for i, icon := range icons {
		samples = append(samples, hourly(int64(i)*3600, float64(i), icon))
	}

	s := Normalize(samples, defaultOptions())

	for i := range samples {
		day, night := s.DayTemperature[i].Valid(), s.NightTemperature[i].Valid()
		if s.Transitions[i] {
			if !day || !night || s.DayTemperature[i].Value != float64(i) || s.NightTemperature[i].Value != float64(i) {
				t.Errorf("index %d: transition should carry %d on both curves, got day=%v night=%v", i, i, s.DayTemperature[i], s.NightTemperature[i])
			}
			continue
		}
		if day == night {
			t.Errorf("index %d: exactly one curve should hold a value, got day=%v night=%v", i, s.DayTemperature[i], s.NightTemperature[i])
		}
	}

	wantTransitions := []bool{false, false, true, false, false, true, false, true, false, true}
	if diff := cmp.Diff(wantTransitions, s.Transitions); diff != "" {
		t.Errorf("Transitions mismatch (-want +got):\n%s", diff)
	}
	// Unknown suffix continues the day period.
	if !s.DayTemperature[8].Valid() || s.NightTemperature[8].Valid() {
		t.Errorf("index 8 should stay on the day curve, got day=%v night=%v", s.DayTemperature[8], s.NightTemperature[8])
	}
}

func TestNormalizeSortsAndTruncates(t *testing.T) {
	samples := []forecast.Sample{
		hourly(7200, 3, "01d"),
		hourly(0, 1, "01d"),
		hourly(3600, 2, "01d"),
		hourly(3600, 22, "01d"),
		hourly(10800, 4, "01d"),
	}

	tests := []struct {
		count    int
		wantTemp []float64
	}{
		{0, []float64{1, 2, 22, 3, 4}},
		{3, []float64{1, 2, 22}},
		{10, []float64{1, 2, 22, 3, 4}},
	}
	for _, tt := range tests {
		opts := defaultOptions()
		opts.Count = tt.count
		s := Normalize(samples, opts)

		var got []float64
		for _, v := range s.DayTemperature {
			got = append(got, v.Value)
		}
		if diff := cmp.Diff(tt.wantTemp, got); diff != "" {
			t.Errorf("count=%d temperatures mismatch (-want +got):\n%s", tt.count, diff)
		}
		for name, n := range map[string]int{
			"Labels": len(s.Labels), "Icons": len(s.Icons), "Night": len(s.NightTemperature),
			"Precipitation": len(s.Precipitation), "Snow": len(s.Snow), "Pressure": len(s.Pressure),
			"Pop": len(s.PrecipitationProbability), "Wind": len(s.WindSpeed), "UV": len(s.UVIndex),
		} {
			if n != len(tt.wantTemp) {
				t.Errorf("count=%d len(%s) = %d, want %d", tt.count, name, n, len(tt.wantTemp))
			}
		}
	}
	if samples[0].Timestamp != 7200 {
		t.Error("Normalize must not reorder the caller's slice")
	}
}

func TestNormalizePrecipitation(t *testing.T) {
	samples := []forecast.Sample{
		{Timestamp: 0, IconCode: "01d", Rain: types.Float(1), Snow: types.Float(2)},
		{Timestamp: 1, IconCode: "01d", Snow: types.Float(2)},
		{Timestamp: 2, IconCode: "01d", Rain: types.Float(0.5)},
		{Timestamp: 3, IconCode: "01d"},
	}

	tests := []struct {
		name        string
		includeSnow bool
		unit        units.PrecipitationUnit
		want        []float64
		wantSnow    []float64
	}{
		{"rain only", false, units.Millimetre, []float64{1, 0, 0.5, 0}, []float64{2, 2, 0, 0}},
		{"rain plus snow", true, units.Millimetre, []float64{3, 2, 0.5, 0}, []float64{2, 2, 0, 0}},
		{"inch", true, units.Inch, []float64{3 / 25.4, 2 / 25.4, 0.5 / 25.4, 0}, []float64{2 / 25.4, 2 / 25.4, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := defaultOptions()
			opts.IncludeSnow = tt.includeSnow
			opts.RainUnit = tt.unit
			s := Normalize(samples, opts)

			var got, gotSnow []float64
			for i := range s.Precipitation {
				got = append(got, s.Precipitation[i].Value)
				gotSnow = append(gotSnow, s.Snow[i].Value)
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
				t.Errorf("Precipitation mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantSnow, gotSnow, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
				t.Errorf("Snow mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeMissingIsNotZero(t *testing.T) {
	samples := []forecast.Sample{
		{Timestamp: 0, IconCode: "01d", PrecipitationProbability: types.Float(0), UVIndex: types.Float(0), WindSpeed: types.Float(0)},
		{Timestamp: 1, IconCode: "01d"},
	}

	s := Normalize(samples, defaultOptions())

	for name, vs := range map[string][]types.NullFloat64{
		"pop": s.PrecipitationProbability, "uvi": s.UVIndex, "wind": s.WindSpeed, "windDeg": s.WindDirection,
	} {
		if vs[1].HasValue {
			t.Errorf("%s[1] = %v, want missing", name, vs[1])
		}
	}
	for name, v := range map[string]types.NullFloat64{
		"pop": s.PrecipitationProbability[0], "uvi": s.UVIndex[0], "wind": s.WindSpeed[0],
	} {
		if !v.Valid() || v.Value != 0 {
			t.Errorf("%s[0] = %v, want 0", name, v)
		}
	}
}

func TestNormalizeConvertsUnits(t *testing.T) {
	samples := []forecast.Sample{
		{Timestamp: 0, IconCode: "01d", Pressure: types.Float(1000), WindSpeed: types.Float(10)},
	}
	opts := defaultOptions()
	opts.Units = units.Imperial
	opts.WindUnit = units.WindKmh

	s := Normalize(samples, opts)

	if got := s.Pressure[0].Value; math.Abs(got-29.529983071445) > 1e-9 {
		t.Errorf("Pressure = %v, want 29.529983071445", got)
	}
	if got := s.WindSpeed[0].Value; math.Abs(got-16.09) > 1e-9 {
		t.Errorf("WindSpeed = %v, want 16.09", got)
	}
}

func TestNormalizeHourLabels(t *testing.T) {
	var samples []forecast.Sample
	for _, h := range []int64{0, 1, 11, 12, 13, 23} {
		samples = append(samples, hourly(h*3600, 0, "01d"))
	}

	tests := []struct {
		format string
		offset float64
		want   []string
	}{
		{Hour24, 0, []string{"0", "1", "11", "12", "13", "23"}},
		{Hour12, 0, []string{"12am", "1am", "11am", "12pm", "1pm", "11pm"}},
		{Hour24, 2, []string{"2", "3", "13", "14", "15", "1"}},
		{Hour24, -1, []string{"23", "0", "10", "11", "12", "22"}},
	}
	for _, tt := range tests {
		opts := defaultOptions()
		opts.HourFormat = tt.format
		opts.TimeOffsetHours = tt.offset
		s := Normalize(samples, opts)
		if diff := cmp.Diff(tt.want, s.Labels); diff != "" {
			t.Errorf("format=%s offset=%v labels mismatch (-want +got):\n%s", tt.format, tt.offset, diff)
		}
	}
}

func TestNormalizeDaily(t *testing.T) {
	// 2024-01-01 was a Monday.
	const monday = 1704067200
	samples := []forecast.Sample{
		{Timestamp: monday + 86400, TemperatureMin: 2, TemperatureMax: 9, IconCode: "10d"},
		{Timestamp: monday, TemperatureMin: -3, TemperatureMax: 4, IconCode: "01d"},
	}

	tests := []struct {
		format string
		want   []string
	}{
		{LabelDate, []string{"1", "2"}},
		{LabelDaysOfWeek, []string{"Mo", "Tu"}},
		{LabelDateDayOfWeek, []string{"Mo 1", "Tu 2"}},
	}
	for _, tt := range tests {
		opts := defaultOptions()
		opts.Kind = forecast.Daily
		opts.DailyLabel = tt.format
		s := Normalize(samples, opts)

		if diff := cmp.Diff(tt.want, s.Labels); diff != "" {
			t.Errorf("format=%s labels mismatch (-want +got):\n%s", tt.format, diff)
		}
		if s.DayTemperature != nil || s.NightTemperature != nil {
			t.Error("daily series should not fill day/night curves")
		}
		min, max, ok := s.TemperatureRange()
		if !ok || min != -3 || max != 9 {
			t.Errorf("TemperatureRange() = (%v, %v, %v), want (-3, 9, true)", min, max, ok)
		}
	}
}

func TestAggregatesOnEmptySeries(t *testing.T) {
	s := Normalize(nil, defaultOptions())

	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	if _, _, ok := s.TemperatureRange(); ok {
		t.Error("TemperatureRange() ok = true on empty series")
	}
	if _, _, ok := s.PressureRange(); ok {
		t.Error("PressureRange() ok = true on empty series")
	}
	if rain, snow := s.PrecipitationMax(); rain != 0 || snow != 0 {
		t.Errorf("PrecipitationMax() = (%v, %v), want (0, 0)", rain, snow)
	}
}
