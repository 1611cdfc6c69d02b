package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	httpapi "github.com/i474232898/weather-forecast-chart/internal/api/http"
	"github.com/i474232898/weather-forecast-chart/internal/chart"
	"github.com/i474232898/weather-forecast-chart/internal/config"
	"github.com/i474232898/weather-forecast-chart/internal/scheduler"
	"github.com/i474232898/weather-forecast-chart/internal/store"
	"github.com/i474232898/weather-forecast-chart/internal/weather"
	"github.com/i474232898/weather-forecast-chart/internal/weather/providers"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Fetch forecasts periodically and serve charts over HTTP",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	loc, err := weather.ResolveLocation(cfg.Location, cfg.GeocoderAPIKey)
	if err != nil {
		return fmt.Errorf("failed to resolve location: %w", err)
	}
	log := logrus.WithFields(logrus.Fields{
		"location": loc.Key(),
		"provider": cfg.Provider,
	})

	builder, err := chart.NewBuilder(cfg.Chart)
	if err != nil {
		return err
	}

	// Shared HTTP client for outbound provider calls.
	httpCfg := providers.HTTPClientConfig{
		Client:  &http.Client{Timeout: cfg.HTTPTimeout},
		Backoff: providers.DefaultBackoff,
	}
	if cfg.ProviderRatePerMinute > 0 {
		perRequest := time.Minute / time.Duration(cfg.ProviderRatePerMinute)
		httpCfg.Limiter = rate.NewLimiter(rate.Every(perRequest), 1)
	}

	var provider weather.Provider
	switch cfg.Provider {
	case config.ProviderOpenMeteo:
		provider = providers.NewOpenMeteoProvider(httpCfg, "", cfg.Chart.Units)
	default:
		provider = providers.NewOpenWeatherProvider(httpCfg, providers.OpenWeatherConfig{
			APIKey:     cfg.OpenWeatherAPIKey,
			APIBase:    cfg.OpenWeatherAPIBase,
			APIVersion: cfg.OpenWeatherAPIVersion,
			Endpoint:   cfg.OpenWeatherEndpoint,
			Units:      string(cfg.Chart.Units),
			Lang:       cfg.Chart.Lang,
		})
	}

	service := weather.NewService(store.NewMemoryStore(), []weather.Provider{provider}, builder)

	sched := scheduler.New(loc, cfg.FetchInterval, cfg.RetryDelay, service)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-forecast-chart",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		status := "ok"
		if sched.Disabled() {
			status = "unauthorized"
		}
		return c.JSON(fiber.Map{
			"status":  status,
			"service": "weather-forecast-chart",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpapi.RegisterRoutes(app, service, loc)

	go func() {
		log.WithField("port", cfg.Port).Info("http server listening")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Error("fiber server stopped")
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.WithError(err).Error("error during shutdown")
	}
	return nil
}
