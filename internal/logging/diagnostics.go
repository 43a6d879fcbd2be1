package logging

import (
	"log/slog"
	"sync"
)

var (
	diagOnce   sync.Once
	diagLogger *slog.Logger
)

// InitDiagnostics installs the process-wide diagnostics sink.
// Only the first call (or the first Diagnostics lookup) takes effect; the
// sink is never torn down. Reports whether logger was installed.
func InitDiagnostics(logger *slog.Logger) bool {
	installed := false
	diagOnce.Do(func() {
		if logger == nil {
			logger = slog.New(slog.DiscardHandler)
		}
		diagLogger = logger
		installed = true
	})
	return installed
}

// Diagnostics returns the diagnostics sink, creating an inert one on first use
func Diagnostics() *slog.Logger {
	InitDiagnostics(nil)
	return diagLogger
}
