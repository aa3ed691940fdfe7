package timeout

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// instruments holds the adapter's OpenTelemetry counters. A nil receiver
// records nothing, so the hot path never branches on configuration.
type instruments struct {
	items    metric.Int64Counter
	timeouts metric.Int64Counter
	peeks    metric.Int64Counter
	attrs    metric.MeasurementOption
}

func newInstruments(meter metric.Meter, name, id string) (*instruments, error) {
	items, err := meter.Int64Counter("iterkit.relay.items",
		metric.WithDescription("Items relayed from the producer to the consumer channel"))
	if err != nil {
		return nil, err
	}
	timeouts, err := meter.Int64Counter("iterkit.timeouts",
		metric.WithDescription("Bounded calls that elapsed before an item arrived"))
	if err != nil {
		return nil, err
	}
	peeks, err := meter.Int64Counter("iterkit.peeks",
		metric.WithDescription("Lookahead reads served without consuming the source"))
	if err != nil {
		return nil, err
	}
	return &instruments{
		items:    items,
		timeouts: timeouts,
		peeks:    peeks,
		attrs: metric.WithAttributes(
			attribute.String("iterator", name),
			attribute.String("iterator_id", id),
		),
	}, nil
}

func (m *instruments) addItem() {
	if m == nil {
		return
	}
	m.items.Add(context.Background(), 1, m.attrs)
}

func (m *instruments) addTimeout() {
	if m == nil {
		return
	}
	m.timeouts.Add(context.Background(), 1, m.attrs)
}

func (m *instruments) addPeek() {
	if m == nil {
		return
	}
	m.peeks.Add(context.Background(), 1, m.attrs)
}
