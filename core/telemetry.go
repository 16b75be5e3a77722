package core

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// TelemetryHook receives notifications about request lifecycle events.
// Implementations can use this for logging, metrics, or tracing.
//
// Events carry operational metadata only: endpoint path, attempt counts,
// status, and timing. API keys and request/response bodies are never
// included, so telemetry output is safe to log or export.
type TelemetryHook interface {
	// OnRequestStart is called before the first attempt of a request.
	OnRequestStart(e RequestStartEvent)

	// OnRequestEnd is called after the final attempt of a request.
	OnRequestEnd(e RequestEndEvent)
}

// RequestStartEvent contains metadata about a starting request.
type RequestStartEvent struct {
	Endpoint string    // endpoint path, e.g. "/api/ai/content/v4"
	Start    time.Time // when the request started
}

// RequestEndEvent contains metadata about a completed request.
type RequestEndEvent struct {
	Endpoint string
	Start    time.Time
	End      time.Time
	Status   int   // HTTP status of the final attempt, 0 on network failure
	Attempts int   // total HTTP attempts performed
	Err      error // nil on success
}

// Duration returns the elapsed time for the request including retries.
func (e RequestEndEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// NoopTelemetryHook is the default no-op TelemetryHook.
type NoopTelemetryHook struct{}

// OnRequestStart does nothing.
func (NoopTelemetryHook) OnRequestStart(RequestStartEvent) {}

// OnRequestEnd does nothing.
func (NoopTelemetryHook) OnRequestEnd(RequestEndEvent) {}

var _ TelemetryHook = NoopTelemetryHook{}

// LogTelemetryHook writes one line per request to an io.Writer. It backs the
// WithDebug client option.
type LogTelemetryHook struct {
	mu sync.Mutex
	w  io.Writer
}

// NewLogTelemetryHook creates a LogTelemetryHook writing to w.
func NewLogTelemetryHook(w io.Writer) *LogTelemetryHook {
	return &LogTelemetryHook{w: w}
}

// OnRequestStart logs the start of a request.
func (h *LogTelemetryHook) OnRequestStart(e RequestStartEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	fmt.Fprintf(h.w, "lumen: POST %s\n", e.Endpoint)
}

// OnRequestEnd logs the outcome of a request.
func (h *LogTelemetryHook) OnRequestEnd(e RequestEndEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if e.Err != nil {
		fmt.Fprintf(h.w, "lumen: POST %s failed after %d attempt(s) in %v: %v\n",
			e.Endpoint, e.Attempts, e.Duration(), e.Err)
		return
	}
	fmt.Fprintf(h.w, "lumen: POST %s %d (%d attempt(s), %v)\n",
		e.Endpoint, e.Status, e.Attempts, e.Duration())
}

var _ TelemetryHook = (*LogTelemetryHook)(nil)
