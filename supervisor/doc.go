// Package supervisor coordinates the lifecycle of a fixed set of
// components within one process.
//
// Register components while pending, call Start to bring them up in
// registration order, and Close (or CloseAndExit) to tear them down in
// the exact reverse order. While running, a background loop probes each
// component's health every interval and restarts the ones that report
// failure, preferring a component's Restart capability over a fresh
// Start.
//
//	sup := supervisor.New(supervisor.WithHealthCheckInterval(time.Second))
//	sup.Register(redisComponent)
//	sup.Register(serverComponent)
//	if err := sup.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	// SIGINT/SIGTERM trigger shutdown; or call sup.Close(ctx) directly.
//
// Subscribers observe the lifecycle through On and All; every phase
// transition and per-component step emits an Event.
package supervisor
