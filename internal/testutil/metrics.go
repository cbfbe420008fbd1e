package testutil

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// Metrics records counter increments keyed by name and sorted labels, e.g.
// "route{scheme=https}".
type Metrics struct {
	mu       sync.Mutex
	Counters map[string]int
}

func NewMetrics() *Metrics {
	return &Metrics{Counters: map[string]int{}}
}

func (m *Metrics) IncCounter(name string, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Counters[MetricKey(name, labels)]++
}

func (m *Metrics) ObserveLatency(string, time.Duration, map[string]string) {}

// Count returns the recorded value for name and labels.
func (m *Metrics) Count(name string, labels map[string]string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Counters[MetricKey(name, labels)]
}

func MetricKey(name string, labels map[string]string) string {
	parts := make([]string, 0, len(labels))
	for k, v := range labels {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)
	return name + "{" + strings.Join(parts, ",") + "}"
}
