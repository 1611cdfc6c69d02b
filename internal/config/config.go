package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/i474232898/weather-forecast-chart/internal/chart"
	"github.com/i474232898/weather-forecast-chart/internal/weather"
)

const (
	ProviderOpenWeather = "openweather"
	ProviderOpenMeteo   = "openmeteo"
)

type AppConfig struct {
	// Provider selects the forecast source.
	Provider string

	OpenWeatherAPIKey     string
	OpenWeatherAPIBase    string
	OpenWeatherAPIVersion string
	OpenWeatherEndpoint   string

	// GeocoderAPIKey resolves a city/country location without coordinates.
	GeocoderAPIKey string

	Location weather.Location

	// FetchInterval controls how often the payload is refreshed once loaded.
	FetchInterval time.Duration
	// RetryDelay is the refresh period until the first payload arrives.
	RetryDelay  time.Duration
	HTTPTimeout time.Duration

	ProviderRatePerMinute int

	Port string

	ChartConfigPath string
	Chart           chart.Options
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		logrus.WithError(err).Debug("no .env file loaded")
	}
	cfg := &AppConfig{}

	cfg.Provider = strings.ToLower(getenvDefault("WEATHER_PROVIDER", ProviderOpenWeather))
	if cfg.Provider != ProviderOpenWeather && cfg.Provider != ProviderOpenMeteo {
		return nil, fmt.Errorf("invalid WEATHER_PROVIDER %q", cfg.Provider)
	}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.OpenWeatherAPIBase = getenvDefault("OPENWEATHER_API_BASE", "https://api.openweathermap.org/data/")
	cfg.OpenWeatherAPIVersion = getenvDefault("OPENWEATHER_API_VERSION", "3.0")
	cfg.OpenWeatherEndpoint = getenvDefault("OPENWEATHER_ENDPOINT", "onecall")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	var err error
	if cfg.FetchInterval, err = getenvDuration("FETCH_INTERVAL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RetryDelay, err = getenvDuration("RETRY_DELAY", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	if cfg.ProviderRatePerMinute, err = getenvInt("PROVIDER_RATE_PER_MINUTE", 60); err != nil {
		return nil, err
	}
	cfg.Port = getenvDefault("PORT", "8080")

	loc, err := loadLocation()
	if err != nil {
		return nil, err
	}
	cfg.Location = loc

	cfg.ChartConfigPath = os.Getenv("CHART_CONFIG")
	opts, err := LoadChartOptions(cfg.ChartConfigPath)
	if err != nil {
		return nil, err
	}
	cfg.Chart = opts

	return cfg, nil
}

// LoadChartOptions overlays the YAML file at path on the default options
// and validates the result. An empty path yields the defaults.
func LoadChartOptions(path string) (chart.Options, error) {
	opts := chart.DefaultOptions()
	if path == "" {
		return opts, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return opts, fmt.Errorf("open chart config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return opts, fmt.Errorf("decode chart config %s: %w", path, err)
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

func loadLocation() (weather.Location, error) {
	loc := weather.Location{
		City:    strings.TrimSpace(os.Getenv("WEATHER_LOCATION_CITY")),
		Country: strings.TrimSpace(os.Getenv("WEATHER_LOCATION_COUNTRY")),
	}

	latStr, lonStr := os.Getenv("WEATHER_LAT"), os.Getenv("WEATHER_LON")
	if (latStr == "") != (lonStr == "") {
		return loc, fmt.Errorf("WEATHER_LAT and WEATHER_LON must be set together")
	}
	if latStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil || lat < -90 || lat > 90 {
			return loc, fmt.Errorf("invalid WEATHER_LAT %q", latStr)
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil || lon < -180 || lon > 180 {
			return loc, fmt.Errorf("invalid WEATHER_LON %q", lonStr)
		}
		loc.Lat, loc.Lon = &lat, &lon
	}

	if !loc.HasCoordinates() && loc.City == "" {
		return loc, fmt.Errorf("set WEATHER_LAT/WEATHER_LON or WEATHER_LOCATION_CITY")
	}
	return loc, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return n, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}
