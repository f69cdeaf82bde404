// Package timeouts defines shared timeout constants used by the server.
// Centralizing these values prevents drift between boundaries and makes
// the durations discoverable.
package timeouts

import "time"

// ReadHeader limits how long the HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long the HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// OTelShutdown limits how long telemetry flushing may take on exit.
const OTelShutdown = 5 * time.Second
