package main

import "time"

// Operational limits for the acceptor pool and metrics loop.
const (
	// acceptRetryDelay is how long an acceptor slot waits after a
	// non-fatal Accept error (e.g. a transient resource exhaustion)
	// before trying again, so a flapping listener does not spin a slot
	// at 100% CPU.
	acceptRetryDelay = 100 * time.Millisecond

	// metricsInterval is how often the background stats line is logged.
	metricsInterval = 30 * time.Second
)
