package timeout

import (
	"go.opentelemetry.io/otel/metric"

	"github.com/kbukum/iterkit/logger"
)

// DefaultCapacity is the relay channel capacity used when none is configured.
// Zero means a rendezvous channel: the relay paces the producer to the
// consumer one item at a time.
const DefaultCapacity = 0

type options struct {
	name     string
	capacity int
	log      *logger.Logger
	spawn    Spawner
	meter    metric.Meter
}

func defaultOptions() options {
	return options{
		name:     "timeout-iterator",
		capacity: DefaultCapacity,
		log:      logger.NewNop(),
		spawn:    goSpawner,
	}
}

// Option configures an Iterator at construction time.
type Option func(*options)

// WithName tags the adapter's logs and metrics with a name.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithCapacity sets the relay channel capacity. Zero (the default) makes
// the relay hand items over one at a time; a positive capacity lets the
// producer run ahead of the consumer by that many items.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.capacity = n
		}
	}
}

// WithLogger injects the diagnostic sink used by the relay. The default
// discards everything.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithSpawner replaces the execution-unit spawner used to start the relay.
func WithSpawner(s Spawner) Option {
	return func(o *options) {
		if s != nil {
			o.spawn = s
		}
	}
}

// WithMeter enables OpenTelemetry instrumentation (relayed items, timeouts,
// peeks) on the given meter. Without it the adapter records nothing.
func WithMeter(m metric.Meter) Option {
	return func(o *options) {
		o.meter = m
	}
}

// WithConfig applies a Config as a block of options. Explicit options given
// after it still win.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		cfg.ApplyDefaults()
		if cfg.Name != "" {
			o.name = cfg.Name
		}
		if cfg.Capacity >= 0 {
			o.capacity = cfg.Capacity
		}
		o.log = logger.New(&cfg.Logging, cfg.Name)
	}
}
