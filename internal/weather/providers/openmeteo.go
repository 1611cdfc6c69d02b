package providers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-forecast-chart/internal/forecast"
	"github.com/i474232898/weather-forecast-chart/internal/units"
	"github.com/i474232898/weather-forecast-chart/internal/weather"
)

const kelvinOffset = 273.15

var (
	openMeteoHourly = []string{
		"temperature_2m", "weather_code", "is_day", "rain", "snowfall",
		"precipitation_probability", "pressure_msl", "wind_speed_10m",
		"wind_direction_10m", "uv_index",
	}
	openMeteoDaily = []string{
		"weather_code", "temperature_2m_max", "temperature_2m_min", "rain_sum",
		"snowfall_sum", "precipitation_probability_max", "wind_speed_10m_max",
		"wind_direction_10m_dominant", "uv_index_max",
	}
)

// OpenMeteoProvider implements weather.Provider for Open-Meteo. It needs no
// key and reshapes the response into a one-call payload.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	system  units.System
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(httpCfg HTTPClientConfig, baseURL string, system units.System) *OpenMeteoProvider {
	if httpCfg.Backoff == (BackoffConfig{}) {
		httpCfg.Backoff = DefaultBackoff
	}
	if baseURL == "" {
		baseURL = "https://api.open-meteo.com/v1/forecast"
	}
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: baseURL,
		system:  system,
		httpCfg: httpCfg,
		circuit: newCircuitBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

type openMeteoResponse struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	Timezone         string  `json:"timezone"`
	UTCOffsetSeconds int     `json:"utc_offset_seconds"`
	Hourly           struct {
		Time        []int64    `json:"time"`
		Temperature []*float64 `json:"temperature_2m"`
		WeatherCode []*int     `json:"weather_code"`
		IsDay       []*int     `json:"is_day"`
		Rain        []*float64 `json:"rain"`
		Snowfall    []*float64 `json:"snowfall"`
		Pop         []*float64 `json:"precipitation_probability"`
		Pressure    []*float64 `json:"pressure_msl"`
		WindSpeed   []*float64 `json:"wind_speed_10m"`
		WindDir     []*float64 `json:"wind_direction_10m"`
		UVI         []*float64 `json:"uv_index"`
	} `json:"hourly"`
	Daily struct {
		Time        []int64    `json:"time"`
		WeatherCode []*int     `json:"weather_code"`
		TempMax     []*float64 `json:"temperature_2m_max"`
		TempMin     []*float64 `json:"temperature_2m_min"`
		Rain        []*float64 `json:"rain_sum"`
		Snowfall    []*float64 `json:"snowfall_sum"`
		Pop         []*float64 `json:"precipitation_probability_max"`
		WindSpeed   []*float64 `json:"wind_speed_10m_max"`
		WindDir     []*float64 `json:"wind_direction_10m_dominant"`
		UVI         []*float64 `json:"uv_index_max"`
	} `json:"daily"`
}

func (p *OpenMeteoProvider) FetchForecast(ctx context.Context, loc weather.Location) (*forecast.Payload, error) {
	if !loc.HasCoordinates() {
		return nil, fmt.Errorf("openmeteo requires latitude and longitude")
	}

	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(*loc.Lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(*loc.Lon, 'f', -1, 64))
	values.Set("hourly", strings.Join(openMeteoHourly, ","))
	values.Set("daily", strings.Join(openMeteoDaily, ","))
	values.Set("timeformat", "unixtime")
	values.Set("timezone", "auto")
	if p.system == units.Imperial {
		values.Set("temperature_unit", "fahrenheit")
		values.Set("wind_speed_unit", "mph")
	} else {
		values.Set("wind_speed_unit", "ms")
	}

	var resp openMeteoResponse
	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
	if err := getJSON(ctx, p.name, p.httpCfg, p.circuit, u, &resp); err != nil {
		return nil, err
	}
	return resp.payload(p.system), nil
}

// payload reshapes the columnar response into one-call rows.
func (r *openMeteoResponse) payload(system units.System) *forecast.Payload {
	temp := func(v *float64) float64 {
		if system == units.Standard {
			return *v + kelvinOffset
		}
		return *v
	}

	out := &forecast.Payload{
		Lat:            r.Latitude,
		Lon:            r.Longitude,
		Timezone:       r.Timezone,
		TimezoneOffset: r.UTCOffsetSeconds,
	}

	h := r.Hourly
	for i, dt := range h.Time {
		// Rows past the model horizon carry null temperatures.
		raw := at(h.Temperature, i)
		if raw == nil {
			continue
		}
		t := temp(raw)
		isDay := true
		if d := atInt(h.IsDay, i); d != nil {
			isDay = *d == 1
		}
		out.Hourly = append(out.Hourly, forecast.RawSample{
			Dt:        dt,
			Temp:      forecast.Temperature{Value: t, Min: t, Max: t, Scalar: true},
			Pressure:  at(h.Pressure, i),
			Pop:       percent(at(h.Pop, i)),
			WindSpeed: at(h.WindSpeed, i),
			WindDeg:   at(h.WindDir, i),
			UVI:       at(h.UVI, i),
			Rain:      volume(at(h.Rain, i), 1),
			Snow:      volume(at(h.Snowfall, i), 10),
			Weather:   condition(atInt(h.WeatherCode, i), isDay),
		})
	}

	d := r.Daily
	for i, dt := range d.Time {
		lo, hi := at(d.TempMin, i), at(d.TempMax, i)
		if lo == nil || hi == nil {
			continue
		}
		min, max := temp(lo), temp(hi)
		out.Daily = append(out.Daily, forecast.RawSample{
			Dt:        dt,
			Temp:      forecast.Temperature{Value: (min + max) / 2, Min: min, Max: max},
			Pop:       percent(at(d.Pop, i)),
			WindSpeed: at(d.WindSpeed, i),
			WindDeg:   at(d.WindDir, i),
			UVI:       at(d.UVI, i),
			Rain:      volume(at(d.Rain, i), 1),
			Snow:      volume(at(d.Snowfall, i), 10),
			Weather:   condition(atInt(d.WeatherCode, i), true),
		})
	}
	return out
}

func at(vs []*float64, i int) *float64 {
	if i < len(vs) {
		return vs[i]
	}
	return nil
}

func atInt(vs []*int, i int) *int {
	if i < len(vs) {
		return vs[i]
	}
	return nil
}

func percent(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v / 100
	return &f
}

// volume converts to millimetres; snowfall is reported in centimetres.
func volume(v *float64, toMM float64) *forecast.Volume {
	if v == nil {
		return nil
	}
	vol := forecast.Volume(*v * toMM)
	return &vol
}

func condition(code *int, isDay bool) []forecast.Condition {
	if code == nil {
		return nil
	}
	suffix := "n"
	if isDay {
		suffix = "d"
	}
	return []forecast.Condition{{ID: *code, Icon: wmoIcon(*code) + suffix}}
}

// wmoIcon maps a WMO weather interpretation code to an OpenWeather icon
// number.
func wmoIcon(code int) string {
	switch {
	case code == 0:
		return "01"
	case code == 1:
		return "02"
	case code == 2:
		return "03"
	case code == 3:
		return "04"
	case code == 45 || code == 48:
		return "50"
	case code >= 51 && code <= 57:
		return "09"
	case code >= 61 && code <= 65:
		return "10"
	case code == 66 || code == 67:
		return "13"
	case code >= 71 && code <= 77:
		return "13"
	case code >= 80 && code <= 82:
		return "09"
	case code == 85 || code == 86:
		return "13"
	case code >= 95:
		return "11"
	default:
		return "03"
	}
}
