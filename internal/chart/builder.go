package chart

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-forecast-chart/internal/forecast"
	"github.com/i474232898/weather-forecast-chart/internal/layout"
	"github.com/i474232898/weather-forecast-chart/internal/series"
)

// Builder turns payloads into chart descriptions for a fixed set of
// options. It holds no state between builds and is safe for concurrent use.
type Builder struct {
	opts Options
	now  func() time.Time
}

// NewBuilder validates opts.
func NewBuilder(opts Options) (*Builder, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Builder{opts: opts, now: time.Now}, nil
}

// Options returns the options the builder was created with.
func (b *Builder) Options() Options {
	return b.opts
}

// Build normalizes the kind array of p, plans the axes and assembles the
// description. An empty kind uses the configured data type. A nil or empty
// payload yields an empty chart with fallback axes; only configuration
// problems return an error.
func (b *Builder) Build(p *forecast.Payload, kind forecast.Kind) (*Description, error) {
	if kind == "" {
		kind = b.opts.DataType
	}

	var tzHours float64
	if p != nil {
		tzHours = float64(p.TimezoneOffset) / 3600
	}
	s := series.Normalize(p.Samples(kind), b.opts.seriesOptions(kind, tzHours))

	plan, err := layout.Compute(b.opts.layoutInput(s))
	if err != nil {
		return nil, fmt.Errorf("plan %s chart: %w", kind, err)
	}

	labels, defs, axes := Assemble(s, plan, b.opts)
	return &Description{
		ID:              uuid.New(),
		GeneratedAt:     b.now().UTC(),
		Kind:            kind,
		Title:           b.opts.Title,
		BackgroundColor: b.opts.BackgroundColor,
		Labels:          labels,
		Series:          defs,
		Axes:            axes,
		Layout:          plan,
	}, nil
}
