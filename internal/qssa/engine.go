package qssa

import (
	"context"
	"errors"
)

// Engine drives one trajectory through its shape+1 positions. An Engine is
// constructed per run and owns its trajectory and random source; it is not
// safe for concurrent use.
type Engine struct {
	params Parameters
	rng    RandomSource
	traj   *Trajectory
	opts   options

	pos  int
	done bool
	err  error
}

// NewEngine creates an engine positioned at the initial condition. Parameters
// that fail validation leave the engine done from the start: Step and Run
// return a *StepError wrapping the *ValidationError.
func NewEngine(params Parameters, rng RandomSource, opts ...Option) *Engine {
	t := newTrajectory(params.Shape)
	t.setCounts(0, params.Initial.Counts())
	t.Time[0] = 0
	t.Temperature[0] = params.T0

	e := &Engine{
		params: params,
		rng:    rng,
		traj:   t,
		opts:   buildOptions(opts),
	}
	if err := params.Validate(); err != nil {
		e.fail(err)
	}
	return e
}

// Position returns the index of the latest filled position.
func (e *Engine) Position() int {
	return e.pos
}

// Done reports whether the trajectory reached a terminal state.
func (e *Engine) Done() bool {
	return e.done
}

// Trajectory returns the series filled so far.
func (e *Engine) Trajectory() *Trajectory {
	return e.traj
}

// Step performs the transition pos -> pos+1. Once the engine is done, Step
// returns the terminal error (nil for completed or halted runs) and changes
// nothing.
func (e *Engine) Step() error {
	if e.done {
		return e.err
	}

	i := e.pos
	t := e.traj
	r1 := openUnit(e.rng)
	r2 := e.rng.Float64()

	F, err := ArrheniusRates(t.Temperature[i], e.params)
	if err != nil {
		return e.fail(err)
	}
	cur := t.CountsAt(i)
	props, err := ComputePropensities(cur, F, e.params.Q, e.params.Reference)
	if err != nil {
		return e.fail(err)
	}
	ev, err := SelectReaction(r1, r2, props, e.params.Q)
	if errors.Is(err, ErrNoReaction) && e.opts.policy == HoldState {
		e.halt()
		return nil
	}
	if err != nil {
		return e.fail(err)
	}

	t.setCounts(i+1, ApplyReaction(cur, ev.Reaction))
	t.Time[i+1] = t.Time[i] + ev.Tau
	t.Temperature[i+1] = e.params.TemperatureAt(t.Time[i+1])
	t.Dif[i+1] = 1 / ev.Tau
	t.SumPropensity[i+1] = props.Sum
	for k, v := range props.Values {
		t.Propensity[k][i+1] = v
	}

	e.pos++
	t.Steps = e.pos
	if e.pos == e.params.Shape {
		e.done = true
		t.Status = StatusCompleted
	}
	return nil
}

// Run steps until the trajectory is done or ctx is canceled. Cancellation is
// checked before every step and fails the trajectory with the context error.
func (e *Engine) Run(ctx context.Context) (*Trajectory, error) {
	for !e.done {
		select {
		case <-ctx.Done():
			return e.traj, e.fail(ctx.Err())
		default:
		}
		if err := e.Step(); err != nil {
			return e.traj, err
		}
	}
	return e.traj, e.err
}

func (e *Engine) halt() {
	e.traj.hold(e.pos)
	e.traj.Status = StatusHalted
	e.done = true
	e.opts.logger.Debugf("trajectory halted: step=%d time=%g reason=%v", e.pos, e.traj.Time[e.pos], ErrNoReaction)
}

func (e *Engine) fail(err error) error {
	i := e.pos
	e.err = &StepError{
		Step:        i,
		Time:        e.traj.Time[i],
		Temperature: e.traj.Temperature[i],
		Err:         err,
	}
	e.traj.hold(i)
	e.traj.Status = StatusFailed
	e.done = true
	return e.err
}
