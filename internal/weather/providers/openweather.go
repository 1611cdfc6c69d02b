package providers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-forecast-chart/internal/forecast"
	"github.com/i474232898/weather-forecast-chart/internal/weather"
)

// OpenWeatherConfig configures the One Call endpoint.
type OpenWeatherConfig struct {
	APIKey     string
	APIBase    string // e.g. https://api.openweathermap.org/data/
	APIVersion string // e.g. 3.0
	Endpoint   string // e.g. onecall
	Units      string
	Lang       string
}

// OpenWeatherProvider implements weather.Provider for the OpenWeatherMap
// One Call API, whose response is the payload format itself.
type OpenWeatherProvider struct {
	name    string
	cfg     OpenWeatherConfig
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(httpCfg HTTPClientConfig, cfg OpenWeatherConfig) *OpenWeatherProvider {
	if httpCfg.Backoff == (BackoffConfig{}) {
		httpCfg.Backoff = DefaultBackoff
	}
	return &OpenWeatherProvider{
		name:    "openweathermap",
		cfg:     cfg,
		httpCfg: httpCfg,
		circuit: newCircuitBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// URL builds the One Call request URL for loc.
func (p *OpenWeatherProvider) URL(loc weather.Location) (string, error) {
	if !loc.HasCoordinates() {
		return "", fmt.Errorf("openweather one call requires latitude and longitude")
	}
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(*loc.Lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(*loc.Lon, 'f', -1, 64))
	values.Set("units", p.cfg.Units)
	values.Set("lang", p.cfg.Lang)
	values.Set("appid", p.cfg.APIKey)

	base := p.cfg.APIBase
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return fmt.Sprintf("%s%s/%s?%s", base, p.cfg.APIVersion, p.cfg.Endpoint, values.Encode()), nil
}

func (p *OpenWeatherProvider) FetchForecast(ctx context.Context, loc weather.Location) (*forecast.Payload, error) {
	if p.cfg.APIKey == "" {
		return nil, fmt.Errorf("openweather api key is not configured")
	}
	u, err := p.URL(loc)
	if err != nil {
		return nil, err
	}

	var payload forecast.Payload
	if err := getJSON(ctx, p.name, p.httpCfg, p.circuit, u, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

