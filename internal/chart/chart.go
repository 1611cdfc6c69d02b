// Package chart assembles normalized series and the axis layout into a
// renderer-neutral multi-axis chart description.
package chart

import (
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-forecast-chart/internal/forecast"
	"github.com/i474232898/weather-forecast-chart/internal/layout"
	"github.com/i474232898/weather-forecast-chart/internal/types"
)

// AxisID names one of the three logical axes.
type AxisID string

const (
	AxisTemperature   AxisID = "temperature"
	AxisPrecipitation AxisID = "precipitation"
	AxisPressure      AxisID = "pressure"
)

// SeriesKind separates real curves from annotation rows.
type SeriesKind string

const (
	KindLine    SeriesKind = "line"
	KindOverlay SeriesKind = "overlay"
)

// Series names, in emission order.
const (
	SeriesDayTemperature   = "temperature-day"
	SeriesNightTemperature = "temperature-night"
	SeriesMaxTemperature   = "temperature-max"
	SeriesMinTemperature   = "temperature-min"
	SeriesPressure         = "pressure"
	SeriesIcon             = "icon"
	SeriesPop              = "pop"
	SeriesWind             = "wind"
	SeriesUVI              = "uvi"
	SeriesRain             = "rain"
	SeriesSnow             = "snow"
)

// Point is what a label formatter sees: the series' own value at Index
// (for overlays, the original value rather than the row height) and the
// sample it came from.
type Point struct {
	Index  int
	Value  types.NullFloat64
	Sample forecast.Sample
}

// LabelFunc formats the label of one point. ok is false when the point
// carries no label.
type LabelFunc func(p Point) (text string, ok bool)

// LabelStyle positions per-point labels.
type LabelStyle struct {
	Show   bool    `json:"show"`
	Color  string  `json:"color,omitempty"`
	Align  string  `json:"align,omitempty"`
	Offset float64 `json:"offset"`
}

// Style carries renderer hints for one series.
type Style struct {
	BorderColor     string     `json:"borderColor,omitempty"`
	BackgroundColor string     `json:"backgroundColor,omitempty"`
	BorderDash      []int      `json:"borderDash,omitempty"`
	BorderWidth     float64    `json:"borderWidth"`
	Fill            bool       `json:"fill"`
	Tension         float64    `json:"tension"`
	PointStyle      string     `json:"pointStyle,omitempty"`
	PointRadius     []float64  `json:"pointRadius,omitempty"`
	Label           LabelStyle `json:"label"`
}

// Series is one curve or annotation row. Data holds the plotted values;
// for overlays Data is flat at the row height and Values keeps the
// original measurements.
type Series struct {
	Name   string              `json:"name"`
	Kind   SeriesKind          `json:"kind"`
	Axis   AxisID              `json:"axis"`
	Data   []types.NullFloat64 `json:"data"`
	Values []types.NullFloat64 `json:"values,omitempty"`
	Labels []string            `json:"labels,omitempty"`
	Icons  []string            `json:"icons,omitempty"`
	Style  Style               `json:"style"`
	Format LabelFunc           `json:"-"`
}

// Axes are the three named axis ranges.
type Axes struct {
	Temperature   layout.Range `json:"temperature"`
	Precipitation layout.Range `json:"precipitation"`
	Pressure      layout.Range `json:"pressure"`
}

// Description is one immutable chart build.
type Description struct {
	ID              uuid.UUID     `json:"id"`
	GeneratedAt     time.Time     `json:"generatedAt"`
	Kind            forecast.Kind `json:"kind"`
	Title           string        `json:"title,omitempty"`
	BackgroundColor string        `json:"backgroundColor,omitempty"`
	Labels          []string      `json:"labels"`
	Series          []Series      `json:"series"`
	Axes            Axes          `json:"axes"`
	Layout          *layout.Plan  `json:"layout"`
}

// Find returns the series with the given name.
func (d *Description) Find(name string) (Series, bool) {
	for _, s := range d.Series {
		if s.Name == name {
			return s, true
		}
	}
	return Series{}, false
}
