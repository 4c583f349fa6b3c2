package testdoubles

import (
	"sync"
	"time"

	"github.com/booklore/catalog-go/catalog"
)

// MetricsCollectorSpy is a MetricsCollector implementation that captures
// metric calls for testing.
type MetricsCollectorSpy struct {
	durations []SpyDurationRecord
	counters  []SpyCounterRecord
	values    []SpyValueRecord
	mu        sync.Mutex
}

// SpyDurationRecord represents a recorded duration metric.
type SpyDurationRecord struct {
	Metric   string
	Duration time.Duration
	Labels   map[string]string
}

// SpyCounterRecord represents a recorded counter increment.
type SpyCounterRecord struct {
	Metric string
	Labels map[string]string
}

// SpyValueRecord represents a recorded value metric.
type SpyValueRecord struct {
	Metric string
	Value  float64
	Labels map[string]string
}

// NewMetricsCollectorSpy creates a new MetricsCollectorSpy instance.
func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{}
}

// RecordDuration implements the MetricsCollector interface for testing.
func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.durations = append(s.durations, SpyDurationRecord{Metric: metric, Duration: duration, Labels: copyLabels(labels)})
}

// IncrementCounter implements the MetricsCollector interface for testing.
func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters = append(s.counters, SpyCounterRecord{Metric: metric, Labels: copyLabels(labels)})
}

// RecordValue implements the MetricsCollector interface for testing.
func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = append(s.values, SpyValueRecord{Metric: metric, Value: value, Labels: copyLabels(labels)})
}

// Reset clears all recorded metrics.
func (s *MetricsCollectorSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.durations = nil
	s.counters = nil
	s.values = nil
}

// DurationCount returns how often the given duration metric was recorded.
func (s *MetricsCollectorSpy) DurationCount(metric string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, record := range s.durations {
		if record.Metric == metric {
			count++
		}
	}

	return count
}

// CounterCount returns how often the given counter was incremented.
func (s *MetricsCollectorSpy) CounterCount(metric string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, record := range s.counters {
		if record.Metric == metric {
			count++
		}
	}

	return count
}

// CounterLabels returns the labels of the first increment of the given
// counter, or nil if it was never incremented.
func (s *MetricsCollectorSpy) CounterLabels(metric string) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.counters {
		if record.Metric == metric {
			return copyLabels(record.Labels)
		}
	}

	return nil
}

// DurationLabels returns the labels of the first record of the given
// duration metric, or nil if it was never recorded.
func (s *MetricsCollectorSpy) DurationLabels(metric string) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.durations {
		if record.Metric == metric {
			return copyLabels(record.Labels)
		}
	}

	return nil
}

func copyLabels(labels map[string]string) map[string]string {
	if labels == nil {
		return nil
	}

	copied := make(map[string]string, len(labels))
	for key, value := range labels {
		copied[key] = value
	}

	return copied
}

var _ catalog.MetricsCollector = (*MetricsCollectorSpy)(nil)
