package weather

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/i474232898/weather-forecast-chart/internal/chart"
	"github.com/i474232898/weather-forecast-chart/internal/forecast"
	"github.com/i474232898/weather-forecast-chart/internal/metrics"
)

// ErrNoProviders is returned by Refresh when nothing is configured.
var ErrNoProviders = errors.New("no forecast providers configured")

// Service hands the latest fetched payload to the chart builder. Fetching
// and building never wait on each other: builds read whatever payload is
// stored when they start.
type Service struct {
	store     Store
	providers []Provider
	builder   *chart.Builder
	now       func() time.Time
}

// NewService creates a new Service. Providers are listed in priority order.
func NewService(store Store, providers []Provider, builder *chart.Builder) *Service {
	return &Service{
		store:     store,
		providers: providers,
		builder:   builder,
		now:       time.Now,
	}
}

// Refresh queries all providers concurrently and stores the payload of the
// highest-priority provider that succeeded. When every provider fails the
// last good payload is kept and the joined errors are returned.
func (s *Service) Refresh(ctx context.Context, loc Location) error {
	if len(s.providers) == 0 {
		return ErrNoProviders
	}
	log := logrus.WithField("location", loc.Key())

	type result struct {
		payload *forecast.Payload
		err     error
	}
	var (
		wg      sync.WaitGroup
		results = make([]result, len(s.providers))
	)
	for i, p := range s.providers {
		wg.Add(1)
		go func(i int, p Provider) {
			defer wg.Done()
			payload, err := p.FetchForecast(ctx, loc)
			if err == nil && payload == nil {
				err = fmt.Errorf("provider %s returned no payload", p.Name())
			}
			results[i] = result{payload: payload, err: err}
		}(i, p)
	}
	wg.Wait()

	var errs []error
	for i, r := range results {
		name := s.providers[i].Name()
		if r.err != nil {
			log.WithField("provider", name).WithError(r.err).Warn("forecast fetch failed")
			errs = append(errs, fmt.Errorf("%s: %w", name, r.err))
			continue
		}

		snapshot := Snapshot{
			Location:  loc,
			Provider:  name,
			FetchedAt: s.now().UTC(),
			Payload:   r.payload,
		}
		if !s.store.SavePayload(loc, snapshot) {
			log.WithField("provider", name).Debug("stale payload ignored; a newer one is stored")
			return nil
		}
		metrics.RecordPayload(loc.Key(), r.payload.IssuedAt())
		log.WithFields(logrus.Fields{
			"provider": name,
			"hourly":   len(r.payload.Hourly),
			"daily":    len(r.payload.Daily),
		}).Info("forecast payload stored")
		return nil
	}
	return errors.Join(errs...)
}

// GetLatest delegates to the underlying store.
func (s *Service) GetLatest(loc Location) (Snapshot, error) {
	return s.store.GetLatest(loc)
}

// Chart builds a chart from the latest stored payload for loc. An empty
// kind uses the configured data type.
func (s *Service) Chart(loc Location, kind forecast.Kind) (*chart.Description, error) {
	snapshot, err := s.store.GetLatest(loc)
	if err != nil {
		return nil, err
	}
	return s.Render(snapshot.Payload, kind)
}

// Render builds a chart from a caller-supplied payload without touching
// the store.
func (s *Service) Render(p *forecast.Payload, kind forecast.Kind) (*chart.Description, error) {
	if kind == "" {
		kind = s.builder.Options().DataType
	}
	start := time.Now()
	d, err := s.builder.Build(p, kind)
	metrics.RecordChartBuild(string(kind), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Options exposes the chart options in use.
func (s *Service) Options() chart.Options {
	return s.builder.Options()
}
