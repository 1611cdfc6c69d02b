package weather

import (
	"context"

	"github.com/i474232898/weather-forecast-chart/internal/forecast"
)

// Provider abstracts a forecast source (OpenWeather One Call, Open-Meteo).
type Provider interface {
	Name() string
	FetchForecast(ctx context.Context, loc Location) (*forecast.Payload, error)
}

// Store is the contract for the latest-payload store.
type Store interface {
	// SavePayload keeps snapshot unless a newer payload is already stored.
	SavePayload(loc Location, snapshot Snapshot) bool
	GetLatest(loc Location) (Snapshot, error)
}
