package core

import (
	"runtime"
	"time"

	"github.com/google/uuid"
)

// Version is the SDK version reported in diagnostic headers.
const Version = "0.4.0"

// Diagnostic header names attached to every request.
const (
	headerLanguage  = "X-Client-Language"
	headerVersion   = "X-Client-Version"
	headerOS        = "X-Client-OS"
	headerArch      = "X-Client-Arch"
	headerRequestID = "X-Client-Request-ID"
	headerTimestamp = "X-Client-Timestamp"
)

// newDiagnostics produces the per-attempt diagnostic metadata. The request ID
// is fresh for every attempt so retries are distinguishable server-side.
func newDiagnostics() Diagnostics {
	return Diagnostics{
		Language:  "go",
		Version:   Version,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		RequestID: uuid.NewString(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
