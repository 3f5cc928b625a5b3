package qssa

import (
	"fmt"
	"strings"
)

// DegeneratePolicy decides what a trajectory does when the total propensity
// drops to zero and no transition is defined.
type DegeneratePolicy int

const (
	// HoldState halts the trajectory and repeats the last state in every
	// remaining position.
	HoldState DegeneratePolicy = iota
	// Abort fails the trajectory with ErrNoReaction.
	Abort
)

func (p DegeneratePolicy) String() string {
	switch p {
	case HoldState:
		return "hold"
	case Abort:
		return "abort"
	default:
		return "unknown"
	}
}

// ParseDegeneratePolicy maps "hold" or "abort" (case-insensitive) to a policy.
func ParseDegeneratePolicy(s string) (DegeneratePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "hold":
		return HoldState, nil
	case "abort":
		return Abort, nil
	default:
		return HoldState, fmt.Errorf("unknown degenerate policy %q (want hold or abort)", s)
	}
}

type options struct {
	policy   DegeneratePolicy
	logger   Logger
	metrics  MetricsRecorder
	notifier *NotificationManager
	seed     uint64
	seeded   bool
	workers  int
	runID    string
}

// Option configures an Engine or an Ensemble.
type Option func(*options)

func defaultOptions() options {
	return options{
		policy:  HoldState,
		logger:  NewNoOpLogger(),
		metrics: noopMetrics{},
		workers: 1,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithDegeneratePolicy selects the zero-propensity policy.
func WithDegeneratePolicy(p DegeneratePolicy) Option {
	return func(o *options) { o.policy = p }
}

// WithLogger injects a logger. A nil logger keeps the no-op default.
func WithLogger(l Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics injects a metrics recorder. A nil recorder keeps the no-op default.
func WithMetrics(m MetricsRecorder) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithNotifications routes per-trajectory progress events to nm.
func WithNotifications(nm *NotificationManager) Option {
	return func(o *options) { o.notifier = nm }
}

// WithSeed fixes the ensemble's base seed. Without it a fresh seed is drawn.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
		o.seeded = true
	}
}

// WithWorkers bounds how many trajectories run at once. Values below 1 mean 1.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.workers = n
	}
}

// WithRunID labels the ensemble's dataset and events. Without it a new ID is generated.
func WithRunID(id string) Option {
	return func(o *options) { o.runID = id }
}
