// Package layout computes axis ranges that leave room for the annotation
// rows drawn above the temperature curve and the precipitation band below
// it, all on one shared temperature-scaled coordinate space.
//
// Row heights are assumed, not measured: if the renderer's text is taller
// than RowHeight the rows drift into the curve.
package layout

import (
	"errors"
	"fmt"
	"math"
)

const (
	labelAllowanceRows = 2
	rowSpacingRows     = 0.5
	precipBufferRows   = 4

	// DailyIconSpacingRows is the gap below the icon row on daily charts,
	// whose icons carry no hour label.
	DailyIconSpacingRows = 0.7

	// PrecipitationBandFraction is the share of the plot area given to
	// the precipitation band when it is shown.
	PrecipitationBandFraction = 0.4

	pressurePadBelow = 0.1
	pressurePadAbove = 1.0

	DefaultMinTemperatureSpan = 1.0
	DefaultPrecipitationFloor = 0.01
	minPressureSpan           = 1.0
)

var (
	ErrPlotAreaTooSmall          = errors.New("chart height leaves no plot area")
	ErrPrecipitationBandTooLarge = errors.New("precipitation band does not fit the plot area")
	ErrInvalidGeometry           = errors.New("row height and icon size must be positive")
	ErrTemperatureOutOfRange     = errors.New("temperature range cannot be represented on a finite axis")
)

// Row identifies an annotation row.
type Row string

const (
	RowIcon Row = "icon"
	RowPop  Row = "pop"
	RowWind Row = "wind"
	RowUVI  Row = "uvi"
)

// Rows lists the enabled annotation rows.
type Rows struct {
	Icon bool
	Pop  bool
	Wind bool
	UVI  bool
}

// Precipitation describes the precipitation overlays.
type Precipitation struct {
	ShowRain     bool
	ShowSnow     bool
	ShowZeroRain bool
	ShowZeroSnow bool
	RainMax      float64
	SnowMax      float64
	Floor        float64
}

// Shown reports whether the precipitation band takes plot space.
func (p Precipitation) Shown() bool {
	if !p.ShowRain && !p.ShowSnow {
		return false
	}
	return p.ShowZeroRain || p.RainMax > 0 || p.ShowZeroSnow || p.SnowMax > 0
}

// Input is everything the planner needs. Temperature and pressure spans
// are only used when the matching Has flag is set.
type Input struct {
	TemperatureMin float64
	TemperatureMax float64
	HasTemperature bool

	PressureMin float64
	PressureMax float64
	HasPressure bool

	Precipitation Precipitation
	Rows          Rows

	ChartHeight        float64
	RowHeight          float64
	IconSize           float64
	MinTemperatureSpan float64

	// IconSpacingRows is the gap below the icon row in rows; 0 means the
	// regular half-row spacing.
	IconSpacingRows float64
}

// Range is a closed axis interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Span is Max - Min.
func (r Range) Span() float64 {
	return r.Max - r.Min
}

// Plan is the planner's output. RowY holds the centre of each enabled row
// in temperature-axis units.
type Plan struct {
	TopPixels          float64         `json:"topPixels"`
	BottomPixels       float64         `json:"bottomPixels"`
	PlotPixels         float64         `json:"plotPixels"`
	PixelsToAxisUnits  float64         `json:"pixelsToAxisUnits"`
	PrecipitationShown bool            `json:"precipitationShown"`
	RowY               map[Row]float64 `json:"rowY"`

	Temperature   Range `json:"temperature"`
	Precipitation Range `json:"precipitation"`
	Pressure      Range `json:"pressure"`
}

// Y returns the centre of row, if enabled.
func (p *Plan) Y(row Row) (float64, bool) {
	y, ok := p.RowY[row]
	return y, ok
}

type rowSlot struct {
	row    Row
	height float64
	gap    float64
}

func (in Input) stack() []rowSlot {
	spacing := rowSpacingRows * in.RowHeight
	iconSpacing := spacing
	if in.IconSpacingRows > 0 {
		iconSpacing = in.IconSpacingRows * in.RowHeight
	}

	var rows []rowSlot
	if in.Rows.Icon {
		rows = append(rows, rowSlot{RowIcon, in.IconSize, iconSpacing})
	}
	if in.Rows.Pop {
		rows = append(rows, rowSlot{RowPop, in.RowHeight, spacing})
	}
	if in.Rows.Wind {
		rows = append(rows, rowSlot{RowWind, in.RowHeight, spacing})
	}
	if in.Rows.UVI {
		rows = append(rows, rowSlot{RowUVI, in.RowHeight, spacing})
	}
	return rows
}

// Compute back-solves the axis ranges for in.
func Compute(in Input) (*Plan, error) {
	if in.RowHeight <= 0 || in.IconSize <= 0 {
		return nil, ErrInvalidGeometry
	}

	tMin, tMax := temperatureSpan(in)
	if !(tMax > tMin) || math.IsInf(tMax-tMin, 0) {
		return nil, fmt.Errorf("%w: [%g, %g]", ErrTemperatureOutOfRange, in.TemperatureMin, in.TemperatureMax)
	}
	rows := in.stack()

	top := labelAllowanceRows * in.RowHeight
	for _, r := range rows {
		top += r.height + r.gap
	}
	bottom := labelAllowanceRows * in.RowHeight
	plot := in.ChartHeight - top - bottom
	if plot <= 0 {
		return nil, fmt.Errorf("%w: height %gpx, reserved %gpx", ErrPlotAreaTooSmall, in.ChartHeight, top+bottom)
	}

	shown := in.Precipitation.Shown()
	var buffer, fraction float64
	if shown {
		buffer = precipBufferRows * in.RowHeight
		fraction = PrecipitationBandFraction
	}
	denom := plot - buffer - plot*fraction
	if denom <= 0 {
		return nil, fmt.Errorf("%w: plot area %gpx", ErrPrecipitationBandTooLarge, plot)
	}

	span := (tMax - tMin) * plot / denom
	axisMin := tMax - span
	axisMax := axisMin + span*(1+top/plot)
	perPixel := span / plot

	plan := &Plan{
		TopPixels:          top,
		BottomPixels:       bottom,
		PlotPixels:         plot,
		PixelsToAxisUnits:  perPixel,
		PrecipitationShown: shown,
		RowY:               make(map[Row]float64, len(rows)),
		Temperature:        Range{Min: axisMin, Max: axisMax},
	}

	cursor := axisMax
	for _, r := range rows {
		y := cursor - r.height/2*perPixel
		plan.RowY[r.row] = y
		cursor = y - (r.height/2+r.gap)*perPixel
	}

	plan.Precipitation = precipitationAxis(in.Precipitation, span, axisMax-axisMin)
	plan.Pressure = pressureAxis(in)
	if !plan.finite() {
		return nil, fmt.Errorf("%w: [%g, %g]", ErrTemperatureOutOfRange, in.TemperatureMin, in.TemperatureMax)
	}
	return plan, nil
}

func (p *Plan) finite() bool {
	vs := []float64{
		p.PixelsToAxisUnits,
		p.Temperature.Min, p.Temperature.Max,
		p.Precipitation.Min, p.Precipitation.Max,
		p.Pressure.Min, p.Pressure.Max,
	}
	for _, y := range p.RowY {
		vs = append(vs, y)
	}
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return p.Temperature.Max > p.Temperature.Min && p.Precipitation.Max > p.Precipitation.Min
}

// temperatureSpan returns the observed span, widened around its centre when
// it has no width.
func temperatureSpan(in Input) (float64, float64) {
	tMin, tMax := 0.0, 0.0
	if in.HasTemperature {
		tMin, tMax = in.TemperatureMin, in.TemperatureMax
	}
	if tMax > tMin {
		return tMin, tMax
	}
	minSpan := in.MinTemperatureSpan
	if minSpan <= 0 {
		minSpan = DefaultMinTemperatureSpan
	}
	mid := (tMin + tMax) / 2
	return mid - minSpan/2, mid + minSpan/2
}

// precipitationAxis scales the precipitation axis so its largest value
// reaches the top of the band. The band share is fixed so the axis stays
// finite when the band is hidden.
func precipitationAxis(p Precipitation, span, axisSpan float64) Range {
	floor := p.Floor
	if floor <= 0 {
		floor = DefaultPrecipitationFloor
	}
	share := PrecipitationBandFraction * span / axisSpan
	return Range{Min: 0, Max: math.Max(math.Max(p.RainMax, p.SnowMax), floor) / share}
}

func pressureAxis(in Input) Range {
	pMin, pMax := 0.0, 0.0
	if in.HasPressure {
		pMin, pMax = in.PressureMin, in.PressureMax
	}
	spread := pMax - pMin
	if spread <= 0 {
		spread = minPressureSpan
	}
	return Range{
		Min: pMin - spread*pressurePadBelow,
		Max: pMax + spread*pressurePadAbove,
	}
}
