package supervisor

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/kbukum/lifekit/supervisor"

// metrics holds the otel instruments recorded by the health loop.
// They go through the global meter provider; without an SDK installed
// every instrument is a no-op.
type metrics struct {
	cycles   metric.Int64Counter
	restarts metric.Int64Counter
}

func newMetrics() *metrics {
	meter := otel.Meter(meterName)

	cycles, _ := meter.Int64Counter("lifekit.health.cycles",
		metric.WithDescription("Completed health-check cycles."))
	restarts, _ := meter.Int64Counter("lifekit.component.restarts",
		metric.WithDescription("Component restarts triggered by failed health checks."))

	return &metrics{cycles: cycles, restarts: restarts}
}
