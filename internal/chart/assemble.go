package chart

import (
	"github.com/i474232898/weather-forecast-chart/internal/forecast"
	"github.com/i474232898/weather-forecast-chart/internal/layout"
	"github.com/i474232898/weather-forecast-chart/internal/series"
	"github.com/i474232898/weather-forecast-chart/internal/types"
	"github.com/i474232898/weather-forecast-chart/internal/units"
)

const (
	curveBorderWidth         = 3
	precipitationBorderWidth = 1
	snowRadiusZero           = 3
	snowRadius               = 6
)

// Assemble lays out the series definitions in renderer order: temperature
// curves, pressure, icon, pop, wind and UV rows, rain, snow.
func Assemble(s *series.Series, plan *layout.Plan, opts Options) ([]string, []Series, Axes) {
	out := make([]Series, 0, 11)

	if s.Kind == forecast.Daily {
		out = append(out,
			temperatureCurve(SeriesMaxTemperature, s.MaxTemperature, s.Samples, opts, opts.ColorMax, "top", nil),
			temperatureCurve(SeriesMinTemperature, s.MinTemperature, s.Samples, opts, opts.ColorMin, "bottom", opts.NightBorderDash),
		)
	} else {
		out = append(out,
			temperatureCurve(SeriesDayTemperature, s.DayTemperature, s.Samples, opts, opts.Color, "top", nil),
			temperatureCurve(SeriesNightTemperature, s.NightTemperature, s.Samples, opts, opts.Color, "top", opts.NightBorderDash),
		)
	}

	if opts.ShowPressure {
		// Hourly pressure labels share the temperature label colour.
		labelColor := opts.Color
		if s.Kind == forecast.Daily {
			labelColor = opts.ColorPressure
		}
		out = append(out, build(Series{
			Name: SeriesPressure,
			Kind: KindLine,
			Axis: AxisPressure,
			Data: s.Pressure,
			Style: Style{
				BorderColor: opts.ColorPressure,
				BorderDash:  opts.PressureBorderDash,
				BorderWidth: curveBorderWidth,
				Tension:     opts.CurveTension,
				Label:       curveLabel(opts, labelColor, "top"),
			},
			Format: roundedLabel(opts.DatalabelsRoundDecimalPlace),
		}, s.Pressure, s.Samples))
	}

	if y, ok := plan.Y(layout.RowIcon); ok && opts.ShowIcon {
		icons := make([]string, len(s.Icons))
		for i, code := range s.Icons {
			icons[i] = iconURL(opts.IconURLBase, code, opts.LargeOpenWeatherIcon)
		}
		row := overlay(SeriesIcon, y, len(icons), "")
		row.Icons = icons
		row.Style.Label.Show = false
		out = append(out, row)
	}
	if y, ok := plan.Y(layout.RowPop); ok && opts.ShowPop {
		row := overlay(SeriesPop, y, s.Len(), opts.ColorPop)
		row.Format = popLabel
		out = append(out, build(row, s.PrecipitationProbability, s.Samples))
	}
	if y, ok := plan.Y(layout.RowWind); ok && opts.ShowWind {
		row := overlay(SeriesWind, y, s.Len(), opts.ColorWind)
		row.Format = windLabel(opts.DatalabelsRoundDecimalPlace)
		out = append(out, build(row, s.WindSpeed, s.Samples))
	}
	if y, ok := plan.Y(layout.RowUVI); ok && opts.ShowUvi {
		row := overlay(SeriesUVI, y, s.Len(), opts.ColorUvi)
		row.Format = roundedLabel(opts.DatalabelsRoundDecimalPlace)
		out = append(out, build(row, s.UVIndex, s.Samples))
	}

	rainMax, snowMax := s.PrecipitationMax()
	if opts.ShowRain && (opts.ShowZeroRain || rainMax > 0) {
		out = append(out, build(Series{
			Name: SeriesRain,
			Kind: KindLine,
			Axis: AxisPrecipitation,
			Data: s.Precipitation,
			Style: Style{
				BorderColor:     opts.ColorRain,
				BackgroundColor: opts.FillColor,
				BorderWidth:     precipitationBorderWidth,
				Fill:            true,
				Tension:         opts.CurveTension,
				Label:           curveLabel(opts, opts.ColorRain, "top"),
			},
			Format: precipitationLabel(opts.PrecipitationRoundDecimalPlace, opts.ShowZeroRain),
		}, s.Precipitation, s.Samples))
	}
	if opts.ShowSnow && (opts.ShowZeroSnow || snowMax > 0) {
		radius := make([]float64, s.Len())
		for i, v := range s.Snow {
			radius[i] = snowRadius
			if v.Or(0) == 0 {
				radius[i] = snowRadiusZero
			}
		}
		out = append(out, build(Series{
			Name: SeriesSnow,
			Kind: KindLine,
			Axis: AxisPrecipitation,
			Data: s.Snow,
			Style: Style{
				BorderColor:     opts.ColorSnow,
				BackgroundColor: opts.FillColor,
				BorderWidth:     precipitationBorderWidth,
				Fill:            true,
				Tension:         opts.CurveTension,
				PointStyle:      "star",
				PointRadius:     radius,
				Label:           curveLabel(opts, opts.ColorSnow, "top"),
			},
			Format: precipitationLabel(opts.PrecipitationRoundDecimalPlace, opts.ShowZeroSnow),
		}, s.Snow, s.Samples))
	}

	labels := make([]string, len(s.Labels))
	copy(labels, s.Labels)
	axes := Axes{
		Temperature:   plan.Temperature,
		Precipitation: plan.Precipitation,
		Pressure:      plan.Pressure,
	}
	return labels, out, axes
}

func temperatureCurve(name string, data []types.NullFloat64, samples []forecast.Sample, opts Options, color, align string, dash []int) Series {
	return build(Series{
		Name: name,
		Kind: KindLine,
		Axis: AxisTemperature,
		Data: data,
		Style: Style{
			BorderColor: color,
			BorderDash:  dash,
			BorderWidth: curveBorderWidth,
			Tension:     opts.CurveTension,
			Label:       curveLabel(opts, color, align),
		},
		Format: roundedLabel(opts.DatalabelsRoundDecimalPlace),
	}, data, samples)
}

func curveLabel(opts Options, color, align string) LabelStyle {
	return LabelStyle{
		Show:   opts.DatalabelsDisplay,
		Color:  color,
		Align:  align,
		Offset: opts.DatalabelsOffset,
	}
}

// overlay returns an invisible flat row at height y.
func overlay(name string, y float64, n int, color string) Series {
	data := make([]types.NullFloat64, n)
	for i := range data {
		data[i] = types.Float(y)
	}
	return Series{
		Name: name,
		Kind: KindOverlay,
		Axis: AxisTemperature,
		Data: data,
		Style: Style{
			Label: LabelStyle{Show: true, Color: color, Align: "center"},
		},
	}
}

// build attaches values and renders per-point labels through s.Format.
func build(s Series, values []types.NullFloat64, samples []forecast.Sample) Series {
	if s.Kind == KindOverlay {
		s.Values = values
	}
	if s.Format == nil {
		return s
	}
	s.Labels = make([]string, len(values))
	for i, v := range values {
		if text, ok := s.Format(Point{Index: i, Value: v, Sample: samples[i]}); ok {
			s.Labels[i] = text
		}
	}
	return s
}

func iconURL(base, code string, large bool) string {
	if code == "" {
		return ""
	}
	if large {
		return base + code + "@2x.png"
	}
	return base + code + ".png"
}

func roundedLabel(places int) LabelFunc {
	return func(p Point) (string, bool) {
		if !p.Value.Valid() {
			return "", false
		}
		return units.Format(p.Value.Value, places), true
	}
}

func popLabel(p Point) (string, bool) {
	if !p.Value.Valid() {
		return "", false
	}
	return units.Format(p.Value.Value*100, 0) + "%", true
}

func windLabel(places int) LabelFunc {
	return func(p Point) (string, bool) {
		if !p.Value.Valid() {
			return "", false
		}
		var dir *float64
		if p.Sample.WindDirection.Valid() {
			d := p.Sample.WindDirection.Value
			dir = &d
		}
		return units.FormatWind(p.Value.Value, dir, places), true
	}
}

func precipitationLabel(places int, showZero bool) LabelFunc {
	return func(p Point) (string, bool) {
		if !p.Value.Valid() {
			return "", false
		}
		if p.Value.Value <= 0 && !showZero {
			return "", false
		}
		return units.Format(p.Value.Value, places), true
	}
}
