package chart

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/weather-forecast-chart/internal/forecast"
	"github.com/i474232898/weather-forecast-chart/internal/layout"
	"github.com/i474232898/weather-forecast-chart/internal/series"
	"github.com/i474232898/weather-forecast-chart/internal/units"
)

var ErrInvalidOptions = errors.New("invalid chart options")

var validate = validator.New()

// Options is the flat chart configuration. Keys match the YAML file.
type Options struct {
	Title string `yaml:"title"`

	Units           units.System  `yaml:"units" validate:"oneof=standard metric imperial"`
	Lang            string        `yaml:"lang" validate:"required"`
	DataType        forecast.Kind `yaml:"dataType" validate:"oneof=hourly daily"`
	DataNum         int           `yaml:"dataNum" validate:"gt=0"`
	TimeOffsetHours float64       `yaml:"timeOffsetHours" validate:"gte=-24,lte=24"`
	HourFormat      string        `yaml:"hourFormat" validate:"oneof=24h 12h"`
	DailyLabel      string        `yaml:"dailyLabel" validate:"oneof=date days_of_week date+days_of_week"`

	Height             float64 `yaml:"height" validate:"gt=0"`
	FontSize           float64 `yaml:"fontSize" validate:"gt=0"`
	IconSize           float64 `yaml:"iconSize" validate:"gt=0"`
	MinTemperatureSpan float64 `yaml:"minTemperatureSpan" validate:"gt=0"`

	ShowIcon     bool `yaml:"showIcon"`
	ShowPop      bool `yaml:"showPop"`
	ShowWind     bool `yaml:"showWind"`
	ShowUvi      bool `yaml:"showUvi"`
	ShowPressure bool `yaml:"showPressure"`
	ShowRain     bool `yaml:"showRain"`
	ShowSnow     bool `yaml:"showSnow"`
	IncludeSnow  bool `yaml:"includeSnow"`
	ShowZeroRain bool `yaml:"showZeroRain"`
	ShowZeroSnow bool `yaml:"showZeroSnow"`

	RainUnit      units.PrecipitationUnit `yaml:"rainUnit" validate:"oneof=mm inch"`
	WindUnit      units.WindUnit          `yaml:"windUnit" validate:"oneof=auto mph km/h knots m/s"`
	RainMinHeight float64                 `yaml:"rainMinHeight" validate:"gt=0"`

	DatalabelsDisplay              bool    `yaml:"datalabelsDisplay"`
	DatalabelsOffset               float64 `yaml:"datalabelsOffset"`
	DatalabelsRoundDecimalPlace    int     `yaml:"datalabelsRoundDecimalPlace" validate:"gte=0,lte=10"`
	PrecipitationRoundDecimalPlace int     `yaml:"precipitationRoundDecimalPlace" validate:"gte=0,lte=10"`
	CurveTension                   float64 `yaml:"curveTension" validate:"gte=0,lte=1"`

	NightBorderDash    []int `yaml:"nightBorderDash" validate:"dive,gte=0"`
	PressureBorderDash []int `yaml:"pressureBorderDash" validate:"dive,gte=0"`

	Color           string `yaml:"color" validate:"required"`
	ColorMin        string `yaml:"colorMin" validate:"required"`
	ColorMax        string `yaml:"colorMax" validate:"required"`
	ColorRain       string `yaml:"colorRain" validate:"required"`
	ColorSnow       string `yaml:"colorSnow" validate:"required"`
	ColorPressure   string `yaml:"colorPressure" validate:"required"`
	ColorPop        string `yaml:"colorPop" validate:"required"`
	ColorWind       string `yaml:"colorWind" validate:"required"`
	ColorUvi        string `yaml:"colorUvi" validate:"required"`
	BackgroundColor string `yaml:"backgroundColor"`
	FillColor       string `yaml:"fillColor"`

	IconURLBase          string `yaml:"iconURLBase" validate:"required"`
	LargeOpenWeatherIcon bool   `yaml:"largeOpenWeatherIcon"`
}

const white = "rgba(255, 255, 255, 1)"

// DefaultOptions mirrors the stock widget configuration.
func DefaultOptions() Options {
	return Options{
		Units:           units.Standard,
		Lang:            "en",
		DataType:        forecast.Hourly,
		DataNum:         24,
		HourFormat:      series.Hour24,
		DailyLabel:      series.LabelDate,
		Height:          400,
		FontSize:        16,
		IconSize:        25,

		MinTemperatureSpan: layout.DefaultMinTemperatureSpan,
		ShowZeroRain:       true,
		ShowZeroSnow:       true,
		RainUnit:           units.Millimetre,
		WindUnit:           units.WindAuto,
		RainMinHeight:      layout.DefaultPrecipitationFloor,

		DatalabelsDisplay:              true,
		DatalabelsOffset:               4,
		DatalabelsRoundDecimalPlace:    1,
		PrecipitationRoundDecimalPlace: 2,
		CurveTension:                   0.4,

		NightBorderDash:    []int{5, 1},
		PressureBorderDash: []int{5, 1},

		Color:           white,
		ColorMin:        white,
		ColorMax:        white,
		ColorRain:       white,
		ColorSnow:       white,
		ColorPressure:   white,
		ColorPop:        white,
		ColorWind:       white,
		ColorUvi:        white,
		BackgroundColor: "rgba(0, 0, 0, 0)",
		FillColor:       "rgba(255, 255, 255, 0.1)",
		IconURLBase:     "https://openweathermap.org/img/wn/",
	}
}

// Validate checks field values and enumerations.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	return nil
}

func (o Options) seriesOptions(kind forecast.Kind, extraOffsetHours float64) series.Options {
	return series.Options{
		Kind:            kind,
		Count:           o.DataNum,
		TimeOffsetHours: o.TimeOffsetHours + extraOffsetHours,
		HourFormat:      o.HourFormat,
		DailyLabel:      o.DailyLabel,
		Units:           o.Units,
		RainUnit:        o.RainUnit,
		WindUnit:        o.WindUnit,
		IncludeSnow:     o.IncludeSnow,
	}
}

func (o Options) layoutInput(s *series.Series) layout.Input {
	in := layout.Input{
		ChartHeight:        o.Height,
		RowHeight:          o.FontSize,
		IconSize:           o.IconSize,
		MinTemperatureSpan: o.MinTemperatureSpan,
		Rows: layout.Rows{
			Icon: o.ShowIcon,
			Pop:  o.ShowPop,
			Wind: o.ShowWind,
			UVI:  o.ShowUvi,
		},
	}
	if s.Kind == forecast.Daily {
		in.IconSpacingRows = layout.DailyIconSpacingRows
	}
	in.TemperatureMin, in.TemperatureMax, in.HasTemperature = s.TemperatureRange()
	in.PressureMin, in.PressureMax, in.HasPressure = s.PressureRange()

	rainMax, snowMax := s.PrecipitationMax()
	in.Precipitation = layout.Precipitation{
		ShowRain:     o.ShowRain,
		ShowSnow:     o.ShowSnow,
		ShowZeroRain: o.ShowZeroRain,
		ShowZeroSnow: o.ShowZeroSnow,
		RainMax:      rainMax,
		SnowMax:      snowMax,
		Floor:        o.RainMinHeight,
	}
	return in
}
