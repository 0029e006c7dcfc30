package supervisor

import "github.com/kbukum/lifekit/logger"

// LogEvents subscribes a handler that logs every event the supervisor
// emits. Convenience wrapper for callers that want the full event stream
// in their logs without writing their own subscriber.
func LogEvents(s *Supervisor, log *logger.Logger) {
	s.All(func(ev Event) {
		fields := map[string]interface{}{
			logger.FieldEvent: string(ev.Kind),
		}
		if ev.Component != "" {
			fields[logger.FieldComponent] = ev.Component
		}
		log.Info("Lifecycle event", fields)
	})
}
