// Package qssa is the public entry point to the q-deformed stochastic
// simulator. It offers a fluent builder for parameter sets, loading of
// YAML/JSON parameter files and a one-call Simulate helper.
package qssa

import (
	"context"

	"github.com/daniacca/qssa/internal/qssa"
)

type (
	// ParametersConfig is the flat parameter dictionary (k1..k6, E1..E6,
	// A0, B0, C0, Cj0, P0, T0, beta, q, Nc, shape).
	ParametersConfig = qssa.ParametersConfig
	// Dataset is the output of an ensemble run.
	Dataset = qssa.Dataset
	// Trajectory is one simulated time series.
	Trajectory = qssa.Trajectory
	// Option tunes a simulation run.
	Option = qssa.Option
	// ValidationError lists every problem found in a parameter set.
	ValidationError = qssa.ValidationError
)

// Run options, re-exported from the engine.
var (
	WithSeed             = qssa.WithSeed
	WithWorkers          = qssa.WithWorkers
	WithRunID            = qssa.WithRunID
	WithLogger           = qssa.WithLogger
	WithMetrics          = qssa.WithMetrics
	WithNotifications    = qssa.WithNotifications
	WithDegeneratePolicy = qssa.WithDegeneratePolicy
)

// Zero-propensity policies.
const (
	HoldState = qssa.HoldState
	Abort     = qssa.Abort
)

// Columns lists the series names of a trajectory in export order.
var Columns = qssa.Columns

// Validate checks cfg and returns a *ValidationError describing every
// problem, or nil.
func Validate(cfg ParametersConfig) error {
	return qssa.ValidateParametersConfig(cfg)
}

// Warnings lists settings that are valid but will make steps fail at run
// time, such as q < 1.
func Warnings(cfg ParametersConfig) []string {
	return qssa.ParameterWarnings(cfg)
}

// Simulate validates cfg and runs its Nc trajectories. Failed trajectories
// do not make Simulate fail; inspect Dataset.Failed. The error is non-nil
// only for invalid parameters or a canceled context, in which case the
// partial dataset is still returned for the latter.
func Simulate(ctx context.Context, cfg ParametersConfig, opts ...Option) (*Dataset, error) {
	params, err := qssa.NewParameters(cfg)
	if err != nil {
		return nil, err
	}
	return qssa.NewEnsemble(params, opts...).Run(ctx)
}
