package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/i474232898/weather-forecast-chart/internal/forecast"
	"github.com/i474232898/weather-forecast-chart/internal/units"
	"github.com/i474232898/weather-forecast-chart/internal/weather"
)

var fastBackoff = BackoffConfig{
	MaxRetries:      2,
	InitialInterval: time.Millisecond,
	MaxInterval:     5 * time.Millisecond,
}

func oslo() weather.Location {
	lat, lon := 59.91, 10.75
	return weather.Location{City: "Oslo", Country: "NO", Lat: &lat, Lon: &lon}
}

func testConfig(srv *httptest.Server) HTTPClientConfig {
	return HTTPClientConfig{Client: srv.Client(), Backoff: fastBackoff}
}

const oneCallBody = `{
  "lat": 59.91, "lon": 10.75, "timezone_offset": 7200,
  "current": {"dt": 1700000000, "temp": 4.2},
  "hourly": [
    {"dt": 1700000000, "temp": 4.2, "pop": 0.3, "rain": {"1h": 0.4},
     "weather": [{"id": 500, "icon": "10d"}]}
  ]
}`

func TestOpenWeatherURL(t *testing.T) {
	p := NewOpenWeatherProvider(HTTPClientConfig{}, OpenWeatherConfig{
		APIKey:     "secret",
		APIBase:    "https://api.openweathermap.org/data",
		APIVersion: "3.0",
		Endpoint:   "onecall",
		Units:      "metric",
		Lang:       "en",
	})

	raw, err := p.URL(oslo())
	if err != nil {
		t.Fatalf("URL() error = %v", err)
	}
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("url.Parse(%q) error = %v", raw, err)
	}
	if got, want := u.Path, "/data/3.0/onecall"; got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
	q := u.Query()
	for key, want := range map[string]string{
		"lat": "59.91", "lon": "10.75", "units": "metric", "lang": "en", "appid": "secret",
	} {
		if got := q.Get(key); got != want {
			t.Errorf("query %s = %q, want %q", key, got, want)
		}
	}

	if _, err := p.URL(weather.Location{City: "Oslo"}); err == nil {
		t.Error("URL() without coordinates: expected error")
	}
}

func TestOpenWeatherFetchForecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("appid") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(oneCallBody))
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(testConfig(srv), OpenWeatherConfig{
		APIKey:     "secret",
		APIBase:    srv.URL,
		APIVersion: "3.0",
		Endpoint:   "onecall",
		Units:      "metric",
	})

	payload, err := p.FetchForecast(context.Background(), oslo())
	if err != nil {
		t.Fatalf("FetchForecast() error = %v", err)
	}
	if got := payload.IssuedAt(); got != 1700000000 {
		t.Errorf("IssuedAt() = %d, want 1700000000", got)
	}
	samples := payload.Samples(forecast.Hourly)
	if len(samples) != 1 {
		t.Fatalf("hourly samples = %d, want 1", len(samples))
	}
	if got := samples[0].Rain.Value; got != 0.4 {
		t.Errorf("rain = %v, want 0.4", got)
	}
}

func TestOpenWeatherMissingKey(t *testing.T) {
	p := NewOpenWeatherProvider(HTTPClientConfig{Client: http.DefaultClient}, OpenWeatherConfig{})
	if _, err := p.FetchForecast(context.Background(), oslo()); err == nil {
		t.Fatal("expected error without an api key")
	}
}

func TestUnauthorizedIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(testConfig(srv), OpenWeatherConfig{
		APIKey: "bad", APIBase: srv.URL, APIVersion: "3.0", Endpoint: "onecall",
	})

	_, err := p.FetchForecast(context.Background(), oslo())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("FetchForecast() error = %v, want %v", err, ErrUnauthorized)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("requests = %d, want 1", got)
	}
}

func TestServerErrorIsRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(oneCallBody))
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(testConfig(srv), OpenWeatherConfig{
		APIKey: "k", APIBase: srv.URL, APIVersion: "3.0", Endpoint: "onecall",
	})

	if _, err := p.FetchForecast(context.Background(), oslo()); err != nil {
		t.Fatalf("FetchForecast() error = %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("requests = %d, want 2", got)
	}
}

func TestServerErrorExhaustsRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(testConfig(srv), OpenWeatherConfig{
		APIKey: "k", APIBase: srv.URL, APIVersion: "3.0", Endpoint: "onecall",
	})

	_, err := p.FetchForecast(context.Background(), oslo())
	if !errors.Is(err, errServerError) {
		t.Fatalf("FetchForecast() error = %v, want %v", err, errServerError)
	}
	if got, want := atomic.LoadInt32(&calls), int32(fastBackoff.MaxRetries+1); got != want {
		t.Errorf("requests = %d, want %d", got, want)
	}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		code int
		want error
	}{
		{http.StatusOK, nil},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusTooManyRequests, errRateLimited},
		{http.StatusServiceUnavailable, errServerError},
		{http.StatusNotFound, errClientError},
		{http.StatusMovedPermanently, errUnexpected},
	}
	for _, tt := range tests {
		err := checkStatus(tt.code)
		if tt.want == nil {
			if err != nil {
				t.Errorf("checkStatus(%d) = %v, want nil", tt.code, err)
			}
			continue
		}
		if !errors.Is(err, tt.want) {
			t.Errorf("checkStatus(%d) = %v, want %v", tt.code, err, tt.want)
		}
	}
}

const openMeteoBody = `{
  "latitude": 59.9, "longitude": 10.75, "timezone": "Europe/Oslo",
  "utc_offset_seconds": 3600,
  "hourly": {
    "time": [1700000000, 1700003600, 1700007200],
    "temperature_2m": [4.0, 3.5, null],
    "weather_code": [61, 0, 0],
    "is_day": [1, 0, 0],
    "rain": [0.5, 0, 0],
    "snowfall": [0.2, null, 0],
    "precipitation_probability": [40, 0, 0],
    "pressure_msl": [1012.5, 1013, 1013],
    "wind_speed_10m": [3.2, 2.1, 2],
    "wind_direction_10m": [180, 200, 210],
    "uv_index": [1.5, 0, 0]
  },
  "daily": {
    "time": [1699999200, 1700085600],
    "weather_code": [3, 3],
    "temperature_2m_max": [6.0, null],
    "temperature_2m_min": [2.0, 1.0],
    "rain_sum": [1.2],
    "snowfall_sum": [0],
    "precipitation_probability_max": [80],
    "wind_speed_10m_max": [5.5],
    "wind_direction_10m_dominant": [190],
    "uv_index_max": [2]
  }
}`

func TestOpenMeteoFetchForecast(t *testing.T) {
	var query url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte(openMeteoBody))
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(testConfig(srv), srv.URL, units.Metric)
	payload, err := p.FetchForecast(context.Background(), oslo())
	if err != nil {
		t.Fatalf("FetchForecast() error = %v", err)
	}

	if got := query.Get("timeformat"); got != "unixtime" {
		t.Errorf("timeformat = %q, want unixtime", got)
	}
	if got := query.Get("wind_speed_unit"); got != "ms" {
		t.Errorf("wind_speed_unit = %q, want ms", got)
	}
	if !strings.Contains(query.Get("hourly"), "weather_code") {
		t.Errorf("hourly fields %q missing weather_code", query.Get("hourly"))
	}

	if payload.TimezoneOffset != 3600 {
		t.Errorf("TimezoneOffset = %d, want 3600", payload.TimezoneOffset)
	}

	hourly := payload.Samples(forecast.Hourly)
	// The third row has no temperature and is dropped.
	if len(hourly) != 2 {
		t.Fatalf("hourly samples = %d, want 2", len(hourly))
	}
	first := hourly[0]
	if first.IconCode != "10d" {
		t.Errorf("icon = %q, want 10d", first.IconCode)
	}
	if got := first.PrecipitationProbability.Value; got != 0.4 {
		t.Errorf("pop = %v, want 0.4", got)
	}
	if got := first.Snow.Value; got != 2 {
		t.Errorf("snow = %v mm, want 2", got)
	}
	if got := hourly[1].Temperature; got != 3.5 {
		t.Errorf("second temperature = %v, want 3.5", got)
	}
	if got := hourly[1].IconCode; got != "01n" {
		t.Errorf("second icon = %q, want 01n", got)
	}
	if hourly[1].Snow.Valid() {
		t.Errorf("missing snowfall should stay absent, got %v", hourly[1].Snow)
	}

	daily := payload.Samples(forecast.Daily)
	if len(daily) != 1 {
		t.Fatalf("daily samples = %d, want 1 (row without a maximum dropped)", len(daily))
	}
	d := daily[0]
	if d.TemperatureMin != 2 || d.TemperatureMax != 6 {
		t.Errorf("daily min/max = %v/%v, want 2/6", d.TemperatureMin, d.TemperatureMax)
	}
	if d.IconCode != "04d" {
		t.Errorf("daily icon = %q, want 04d", d.IconCode)
	}
}

func TestOpenMeteoImperialAndStandard(t *testing.T) {
	var query url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = w.Write([]byte(openMeteoBody))
	}))
	defer srv.Close()

	imperial := NewOpenMeteoProvider(testConfig(srv), srv.URL, units.Imperial)
	if _, err := imperial.FetchForecast(context.Background(), oslo()); err != nil {
		t.Fatalf("FetchForecast() error = %v", err)
	}
	if query.Get("temperature_unit") != "fahrenheit" || query.Get("wind_speed_unit") != "mph" {
		t.Errorf("imperial query = %v", query)
	}

	standard := NewOpenMeteoProvider(testConfig(srv), srv.URL, units.Standard)
	payload, err := standard.FetchForecast(context.Background(), oslo())
	if err != nil {
		t.Fatalf("FetchForecast() error = %v", err)
	}
	celsius := 4.0
	if got, want := payload.Hourly[0].Temp.Value, celsius+kelvinOffset; got != want {
		t.Errorf("kelvin temperature = %v, want %v", got, want)
	}
}

func TestWMOIcon(t *testing.T) {
	got := map[int]string{}
	for _, code := range []int{0, 1, 2, 3, 45, 53, 63, 66, 75, 81, 86, 95, 99} {
		got[code] = wmoIcon(code)
	}
	want := map[int]string{
		0: "01", 1: "02", 2: "03", 3: "04", 45: "50", 53: "09", 63: "10",
		66: "13", 75: "13", 81: "09", 86: "13", 95: "11", 99: "11",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("wmoIcon mismatch (-want +got):\n%s", diff)
	}
}
