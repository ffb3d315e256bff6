package frontauth

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// AuditEvent is the diagnostic record emitted on authentication outcomes.
// It carries the internal failure distinction that the Engine boundary
// deliberately withholds from callers.
type AuditEvent struct {
	EventID   string            `json:"event_id"`
	Timestamp time.Time         `json:"timestamp"`
	EventType string            `json:"event_type"`
	UserID    int64             `json:"user_id,omitempty"`
	Username  string            `json:"username,omitempty"`
	Success   bool              `json:"success"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// AuditSink receives audit events from the dispatcher goroutine. Emit must be
// safe for concurrent use.
type AuditSink interface {
	Emit(ctx context.Context, event AuditEvent)
}

// NoOpSink discards all events.
type NoOpSink struct{}

// Emit implements AuditSink.
func (NoOpSink) Emit(context.Context, AuditEvent) {}

// ChannelSink forwards events to a buffered channel for host-side consumption.
type ChannelSink struct {
	events chan AuditEvent
}

// NewChannelSink builds a ChannelSink with the given buffer size.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan AuditEvent, buffer),
	}
}

// Emit implements AuditSink.
func (s *ChannelSink) Emit(ctx context.Context, event AuditEvent) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

// Events exposes the receiving side of the sink.
func (s *ChannelSink) Events() <-chan AuditEvent {
	return s.events
}

// JSONWriterSink writes one JSON object per event to an io.Writer.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONWriterSink builds a JSONWriterSink over w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{writer: w}
}

// Emit implements AuditSink.
func (s *JSONWriterSink) Emit(_ context.Context, event AuditEvent) {
	if s == nil || s.writer == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	enc := json.NewEncoder(s.writer)
	_ = enc.Encode(event)
}

// Audit event names emitted by the Engine.
const (
	// EventLogin is an exported constant or variable used by the authentication engine.
	EventLogin = "login"
	// EventRefresh is an exported constant or variable used by the authentication engine.
	EventRefresh = "refresh"
	// EventAuthorize is an exported constant or variable used by the authentication engine.
	EventAuthorize = "authorize"
	// EventLastLoginUpdateFailed is an exported constant or variable used by the authentication engine.
	EventLastLoginUpdateFailed = "last_login_update_failed"
)
