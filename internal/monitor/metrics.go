package monitor

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	resultSent   = metric.WithAttributes(attribute.String("result", "sent"))
	resultFailed = metric.WithAttributes(attribute.String("result", "failed"))
)

type metrics struct {
	cycles        metric.Int64Counter
	fetchFailures metric.Int64Counter
	notifications metric.Int64Counter
	notifiedKeys  metric.Int64Gauge
}

// instruments bind to whichever meter provider is global when the monitor
// is created, errors fall back to no-op instruments
func newMetrics() metrics {
	meter := otel.Meter("coursemon.monitor")
	cycles, _ := meter.Int64Counter(
		"coursemon.cycles",
		metric.WithDescription("Number of completed poll cycles."),
	)
	fetchFailures, _ := meter.Int64Counter(
		"coursemon.fetch_failures",
		metric.WithDescription("Number of course pages that could not be fetched."),
	)
	notifications, _ := meter.Int64Counter(
		"coursemon.notifications",
		metric.WithDescription("Number of notifications attempted, by result."),
	)
	notifiedKeys, _ := meter.Int64Gauge(
		"coursemon.notified_keys",
		metric.WithDescription("Size of the notified set after a cycle."),
	)
	return metrics{
		cycles:        cycles,
		fetchFailures: fetchFailures,
		notifications: notifications,
		notifiedKeys:  notifiedKeys,
	}
}
