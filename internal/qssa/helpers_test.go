package qssa

import (
	"context"
	"sync"
	"time"
)

// referenceConfig mirrors the reference parameter dictionary.
func referenceConfig(nc, shape int) ParametersConfig {
	return ParametersConfig{
		K1: floatPtr(1e-4), K2: floatPtr(8e-6), K3: floatPtr(1e-11),
		K4: floatPtr(6e-5), K5: floatPtr(3e-4), K6: floatPtr(4e-4),
		E1: floatPtr(353), E2: floatPtr(353), E3: floatPtr(353),
		E4: floatPtr(353), E5: floatPtr(353), E6: floatPtr(353),
		A0: floatPtr(500), B0: floatPtr(500), C0: floatPtr(99000),
		Cj0: floatPtr(0), P0: floatPtr(0), T0: floatPtr(50),
		Beta: floatPtr(10), Q: floatPtr(1.5),
		Nc: intPtr(nc), Shape: intPtr(shape),
	}
}

// toyConfig is a tiny network with unit rates and no activation barrier,
// so F_k = 1 at any temperature.
func toyConfig(q float64, a0, b0, c0, p0 float64, nc, shape int) ParametersConfig {
	one, zero := floatPtr(1), floatPtr(0)
	return ParametersConfig{
		K1: one, K2: one, K3: one, K4: one, K5: one, K6: one,
		E1: zero, E2: zero, E3: zero, E4: zero, E5: zero, E6: zero,
		A0: floatPtr(a0), B0: floatPtr(b0), C0: floatPtr(c0),
		Cj0: zero, P0: floatPtr(p0), T0: floatPtr(300),
		Beta: floatPtr(1), Q: floatPtr(q),
		Nc: intPtr(nc), Shape: intPtr(shape),
	}
}

// seqSource replays a fixed sequence of draws, cycling when exhausted.
type seqSource struct {
	vals []float64
	pos  int
}

func (s *seqSource) Float64() float64 {
	v := s.vals[s.pos%len(s.vals)]
	s.pos++
	return v
}

// recordingMetrics counts Observe calls per operation and outcome.
type recordingMetrics struct {
	mu    sync.Mutex
	calls map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{calls: make(map[string]int)}
}

func (m *recordingMetrics) Observe(_ context.Context, op string, success bool, _ time.Duration) {
	status := "error"
	if success {
		status = "success"
	}
	m.mu.Lock()
	m.calls[op+"/"+status]++
	m.mu.Unlock()
}

func (m *recordingMetrics) count(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[key]
}
