package testdoubles

import (
	"context"
	"sync"

	"github.com/booklore/catalog-go/catalog"
)

// ContextualLoggerSpy is a ContextualLogger implementation that captures
// contextual logging calls for testing. It implements the same interface
// as the OpenTelemetry slog bridge, making it suitable for testing
// handler observability instrumentation.
type ContextualLoggerSpy struct {
	records map[string][]SpyLogRecord
	mu      sync.Mutex
}

// SpyLogRecord represents a recorded log call.
type SpyLogRecord struct {
	Level   string
	Message string
	Args    []any
}

// NewContextualLoggerSpy creates a new ContextualLoggerSpy instance.
func NewContextualLoggerSpy() *ContextualLoggerSpy {
	return &ContextualLoggerSpy{
		records: make(map[string][]SpyLogRecord),
	}
}

// DebugContext implements the ContextualLogger interface for testing.
func (s *ContextualLoggerSpy) DebugContext(_ context.Context, msg string, args ...any) {
	s.record("debug", msg, args)
}

// InfoContext implements the ContextualLogger interface for testing.
func (s *ContextualLoggerSpy) InfoContext(_ context.Context, msg string, args ...any) {
	s.record("info", msg, args)
}

// WarnContext implements the ContextualLogger interface for testing.
func (s *ContextualLoggerSpy) WarnContext(_ context.Context, msg string, args ...any) {
	s.record("warn", msg, args)
}

// ErrorContext implements the ContextualLogger interface for testing.
func (s *ContextualLoggerSpy) ErrorContext(_ context.Context, msg string, args ...any) {
	s.record("error", msg, args)
}

// Reset clears all recorded log calls.
func (s *ContextualLoggerSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string][]SpyLogRecord)
}

// Records returns a copy of the records captured at the given level.
func (s *ContextualLoggerSpy) Records(level string) []SpyLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpyLogRecord(nil), s.records[level]...)
}

// HasLog checks if a log with the given level and message was recorded.
func (s *ContextualLoggerSpy) HasLog(level, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.records[level] {
		if record.Message == message {
			return true
		}
	}

	return false
}

// TotalRecordCount returns the number of log records across all levels.
func (s *ContextualLoggerSpy) TotalRecordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, records := range s.records {
		total += len(records)
	}

	return total
}

func (s *ContextualLoggerSpy) record(level, msg string, args []any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[level] = append(s.records[level], SpyLogRecord{
		Level:   level,
		Message: msg,
		Args:    args,
	})
}

var _ catalog.ContextualLogger = (*ContextualLoggerSpy)(nil)
