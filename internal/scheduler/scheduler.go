package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/i474232898/weather-forecast-chart/internal/weather"
	"github.com/i474232898/weather-forecast-chart/internal/weather/providers"
)

// Refresher is the part of weather.Service the scheduler drives.
type Refresher interface {
	Refresh(ctx context.Context, loc weather.Location) error
}

// Scheduler periodically refreshes the forecast payload for a location.
// Until the first payload is stored it retries every retryDelay; after that
// it runs every interval. A rejected API key stops all further fetches.
type Scheduler struct {
	scheduler  *gocron.Scheduler
	service    Refresher
	location   weather.Location
	interval   time.Duration
	retryDelay time.Duration
	timeout    time.Duration

	mu       sync.Mutex
	job      *gocron.Job
	loaded   bool
	disabled atomic.Bool
}

// New creates a new Scheduler.
func New(loc weather.Location, interval, retryDelay time.Duration, service Refresher) *Scheduler {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if retryDelay <= 0 {
		retryDelay = 5 * time.Second
	}
	sched := gocron.NewScheduler(time.UTC)
	sched.SingletonModeAll()
	return &Scheduler{
		scheduler:  sched,
		service:    service,
		location:   loc,
		interval:   interval,
		retryDelay: retryDelay,
		timeout:    30 * time.Second,
	}
}

// Start schedules the fetch job and starts the underlying scheduler. The
// first run happens immediately.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, err := s.scheduler.Every(s.retryDelay).Do(s.run)
	if err != nil {
		return err
	}
	s.job = job
	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// Disabled reports whether fetching was stopped after an auth failure.
func (s *Scheduler) Disabled() bool {
	return s.disabled.Load()
}

func (s *Scheduler) run() {
	if s.disabled.Load() {
		return
	}
	log := logrus.WithField("location", s.location.Key())

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	err := s.service.Refresh(ctx, s.location)
	switch {
	case errors.Is(err, providers.ErrUnauthorized):
		log.WithError(err).Error("api key rejected; forecast refresh disabled")
		s.disable()
	case err != nil:
		log.WithError(err).Warn("forecast refresh failed")
	default:
		log.Debug("forecast refresh completed")
		s.promote()
	}
}

func (s *Scheduler) disable() {
	s.disabled.Store(true)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.job != nil {
		s.scheduler.RemoveByReference(s.job)
		s.job = nil
	}
}

// promote swaps the fast retry job for the regular interval once the first
// payload has been stored.
func (s *Scheduler) promote() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded || s.disabled.Load() {
		return
	}
	s.loaded = true

	if s.job != nil {
		s.scheduler.RemoveByReference(s.job)
	}
	job, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.run)
	if err != nil {
		logrus.WithError(err).Error("failed to schedule regular forecast refresh")
		return
	}
	s.job = job
}
