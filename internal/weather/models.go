package weather

import (
	"fmt"
	"time"

	"github.com/i474232898/weather-forecast-chart/internal/forecast"
)

// Location represents a place we chart. Either coordinates or City/Country
// must be provided; providers need coordinates, see ResolveLocation.
type Location struct {
	City    string   `json:"city,omitempty"`
	Country string   `json:"country,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
}

// HasCoordinates reports whether both latitude and longitude are set.
func (l Location) HasCoordinates() bool {
	return l.Lat != nil && l.Lon != nil
}

// Key returns a canonical string key for indexing this location in stores.
func (l Location) Key() string {
	if l.HasCoordinates() {
		return fmt.Sprintf("%.4f,%.4f", *l.Lat, *l.Lon)
	}
	return l.City + ":" + l.Country
}

// Snapshot is a fetched payload and where it came from.
type Snapshot struct {
	Location  Location          `json:"location"`
	Provider  string            `json:"provider"`
	FetchedAt time.Time         `json:"fetchedAt"` // always UTC
	Payload   *forecast.Payload `json:"payload"`
}
