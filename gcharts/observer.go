package gcharts

import (
	"context"
	"log/slog"
	"time"
)

// EventType represents the phases of one serialization call
type EventType string

const (
	EventResolveStart EventType = "resolve_start"
	EventResolveEnd   EventType = "resolve_end"
	EventBuildStart   EventType = "build_start"
	EventBuildEnd     EventType = "build_end"
	EventEncodeStart  EventType = "encode_start"
	EventEncodeEnd    EventType = "encode_end"
)

// Event is a lifecycle event of a serialization call
type Event struct {
	Type      EventType
	CallID    string // correlates all events of one call
	Format    string // output format, empty before encoding
	Timestamp time.Time
	Data      any   // phase-specific data (columns, row count, output size)
	Err       error // set on end events of failed phases
}

// Observer receives lifecycle events. Observers run synchronously on the
// calling goroutine.
type Observer interface {
	OnEvent(event Event)
}

// LoggingObserver logs each event with structured fields
type LoggingObserver struct {
	logger *slog.Logger
}

// NewLoggingObserver creates a logging observer; nil uses slog.Default()
func NewLoggingObserver(logger *slog.Logger) *LoggingObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{logger: logger}
}

// OnEvent implements Observer
func (lo *LoggingObserver) OnEvent(event Event) {
	level := slog.LevelDebug
	attrs := []any{
		"event", event.Type,
		"call_id", event.CallID,
		"timestamp", event.Timestamp,
	}
	if event.Format != "" {
		attrs = append(attrs, "format", event.Format)
	}
	if event.Data != nil {
		attrs = append(attrs, "data", event.Data)
	}
	if event.Err != nil {
		level = slog.LevelError
		attrs = append(attrs, "error", event.Err)
	}
	lo.logger.Log(context.Background(), level, "chart_lifecycle", attrs...)
}
