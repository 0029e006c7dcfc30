package supervisor

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/kbukum/lifekit/component"
	"github.com/kbukum/lifekit/errors"
	"github.com/kbukum/lifekit/logger"
)

// healthLoop is the single background task spawned by Start. Each cycle
// it waits one interval, probes every component in registration order,
// recovers the unhealthy ones, and emits healthChecked. The exit
// condition is evaluated once per cycle, after the full check pass, so
// one more cycle may run after the status leaves running; Close waits
// on healthDone before touching any component, which keeps restarts and
// closes from ever interleaving.
func (s *Supervisor) healthLoop() {
	ctx := context.Background()

	s.mu.Lock()
	comps := s.components
	s.mu.Unlock()

	for {
		time.Sleep(s.interval)

		for _, c := range comps {
			s.checkComponent(ctx, c)
		}

		s.events.emit(Event{Kind: EventHealthChecked})
		s.metrics.cycles.Add(ctx, 1)

		if s.Status() != StatusRunning {
			close(s.healthDone)
			return
		}
	}
}

// checkComponent probes one component and attempts recovery on failure.
// Checks are strictly sequential: a slow probe or restart delays every
// component after it in the same cycle.
func (s *Supervisor) checkComponent(ctx context.Context, c component.Component) {
	hc, ok := c.(component.HealthChecker)
	if !ok {
		// No probe means always healthy.
		return
	}

	healthy, err := hc.CheckHealth(ctx)
	if err != nil {
		// A failing probe counts as unhealthy; recovery is attempted.
		s.log.Warn("Health check error", map[string]interface{}{
			logger.FieldComponent: c.Name(),
			logger.FieldError:     err.Error(),
		})
		healthy = false
	}
	if healthy {
		return
	}

	s.events.emit(Event{Kind: EventComponentRestarting, Component: c.Name()})
	s.log.Warn("Component unhealthy, restarting", map[string]interface{}{
		logger.FieldComponent: c.Name(),
	})
	s.metrics.restarts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("component", c.Name()),
	))

	var rerr error
	if r, ok := c.(component.Restarter); ok {
		rerr = r.Restart(ctx)
	} else {
		rerr = c.Start(ctx)
	}
	if rerr != nil {
		// No retry within the cycle; the next cycle probes again.
		rerr = errors.RestartFailed(c.Name(), rerr)
		s.log.Error("Component restart failed", map[string]interface{}{
			logger.FieldComponent: c.Name(),
			logger.FieldError:     rerr.Error(),
		})
		return
	}

	s.events.emit(Event{Kind: EventComponentRestarted, Component: c.Name()})
	s.log.Info("Component restarted", map[string]interface{}{
		logger.FieldComponent: c.Name(),
	})
}
