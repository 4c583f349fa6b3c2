package testdoubles

import (
	"context"
	"sync"

	"github.com/booklore/catalog-go/catalog"
)

// TracingCollectorSpy is a TracingCollector implementation that captures
// started and finished spans for testing.
type TracingCollectorSpy struct {
	started  []*SpanContextSpy
	finished []SpyFinishedSpan
	mu       sync.Mutex
}

// SpanContextSpy is the SpanContext handed out by the spy collector.
type SpanContextSpy struct {
	Name       string
	Attributes map[string]string
	Status     string
	mu         sync.Mutex
}

// SpyFinishedSpan represents a finished span with its final outcome.
type SpyFinishedSpan struct {
	Span   *SpanContextSpy
	Status string
	Attrs  map[string]string
}

// NewTracingCollectorSpy creates a new TracingCollectorSpy instance.
func NewTracingCollectorSpy() *TracingCollectorSpy {
	return &TracingCollectorSpy{}
}

// StartSpan implements the TracingCollector interface for testing.
func (s *TracingCollectorSpy) StartSpan(
	ctx context.Context,
	name string,
	attrs map[string]string,
) (context.Context, catalog.SpanContext) {
	span := &SpanContextSpy{Name: name, Attributes: copyLabels(attrs)}
	if span.Attributes == nil {
		span.Attributes = make(map[string]string)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = append(s.started, span)

	return ctx, span
}

// FinishSpan implements the TracingCollector interface for testing.
func (s *TracingCollectorSpy) FinishSpan(spanCtx catalog.SpanContext, status string, attrs map[string]string) {
	span, _ := spanCtx.(*SpanContextSpy)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.finished = append(s.finished, SpyFinishedSpan{Span: span, Status: status, Attrs: copyLabels(attrs)})
}

// StartedSpans returns a copy of all started spans.
func (s *TracingCollectorSpy) StartedSpans() []*SpanContextSpy {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]*SpanContextSpy(nil), s.started...)
}

// FinishedSpans returns a copy of all finished spans.
func (s *TracingCollectorSpy) FinishedSpans() []SpyFinishedSpan {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpyFinishedSpan(nil), s.finished...)
}

// SetStatus implements the SpanContext interface for testing.
func (s *SpanContextSpy) SetStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = status
}

// AddAttribute implements the SpanContext interface for testing.
func (s *SpanContextSpy) AddAttribute(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Attributes[key] = value
}

var (
	_ catalog.TracingCollector = (*TracingCollectorSpy)(nil)
	_ catalog.SpanContext      = (*SpanContextSpy)(nil)
)
