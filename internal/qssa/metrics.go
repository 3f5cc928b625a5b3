package qssa

import (
	"context"
	"time"
)

// Operation names reported to a MetricsRecorder.
const (
	OperationTrajectory = "trajectory"
	OperationEnsemble   = "ensemble"
)

// MetricsRecorder receives the outcome and duration of engine operations.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) Observe(context.Context, string, bool, time.Duration) {}
