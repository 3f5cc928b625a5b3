package qssa

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Ensemble runs Nc independent trajectories from the same parameters. Every
// trajectory gets its own engine and a random stream derived from the base
// seed and its index, so results do not depend on the worker count or
// scheduling order.
type Ensemble struct {
	params Parameters
	opts   options
}

// NewEnsemble prepares an ensemble run. Parameters are re-validated by Run.
func NewEnsemble(params Parameters, opts ...Option) *Ensemble {
	o := buildOptions(opts)
	if !o.seeded {
		o.seed = NewSeed()
		o.seeded = true
	}
	if o.runID == "" {
		o.runID = NewRunID()
	}
	return &Ensemble{params: params, opts: o}
}

// Seed returns the base seed the ensemble derives its streams from.
func (e *Ensemble) Seed() uint64 {
	return e.opts.seed
}

// RunID returns the identifier stamped on the dataset and progress events.
func (e *Ensemble) RunID() string {
	return e.opts.runID
}

// Run simulates every trajectory and assembles the dataset. A failing
// trajectory never stops the others; its row carries the error. If ctx is
// canceled, unfinished rows are marked failed and the context error is
// returned along with the dataset. Invalid parameters return a
// *ValidationError and no dataset.
func (e *Ensemble) Run(ctx context.Context) (*Dataset, error) {
	if err := e.params.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	n := e.params.Trajectories
	ds := &Dataset{
		RunID:      e.opts.runID,
		Seed:       e.opts.seed,
		Parameters: e.params.Config(),
		CreatedAt:  start.UTC(),
		Rows:       make([]Row, n),
	}

	e.opts.logger.Infof("ensemble started: run_id=%s trajectories=%d shape=%d workers=%d seed=%d",
		ds.RunID, n, e.params.Shape, e.opts.workers, ds.Seed)

	var done atomic.Int64
	var g errgroup.Group
	g.SetLimit(e.opts.workers)
	for i := range n {
		g.Go(func() error {
			ds.Rows[i] = e.runMember(ctx, ds.RunID, i, &done)
			return nil
		})
	}
	_ = g.Wait()

	failed := len(ds.Failed())
	e.opts.metrics.Observe(ctx, OperationEnsemble, failed == 0 && ctx.Err() == nil, time.Since(start))
	e.opts.logger.Infof("ensemble finished: run_id=%s trajectories=%d failed=%d elapsed=%s",
		ds.RunID, n, failed, time.Since(start))

	if err := ctx.Err(); err != nil {
		return ds, err
	}
	return ds, nil
}

func (e *Ensemble) runMember(ctx context.Context, runID string, i int, done *atomic.Int64) Row {
	start := time.Now()
	stream := uint64(i)
	log := withTrajectory(e.opts.logger, runID, i)
	eng := NewEngine(e.params, NewRandomSource(e.opts.seed, stream),
		WithDegeneratePolicy(e.opts.policy), WithLogger(log))

	traj, err := eng.Run(ctx)
	row := Row{Index: i, Stream: stream, Trajectory: traj}
	if err != nil {
		row.Error = err.Error()
		log.Warnf("trajectory failed: error=%v", err)
	} else {
		log.Debugf("trajectory %s: steps=%d", traj.Status, traj.Steps)
	}
	e.opts.metrics.Observe(ctx, OperationTrajectory, err == nil, time.Since(start))

	finished := int(done.Add(1))
	if e.opts.notifier != nil {
		e.opts.notifier.Enqueue(newProgressEvent(runID, i, traj, err, finished, e.params.Trajectories))
	}
	return row
}
