package export

import (
	"context"
	"testing"

	"github.com/daniacca/qssa/internal/qssa"
	sim "github.com/daniacca/qssa/pkg/qssa"
)

// simulate runs a small seeded reference ensemble.
func simulate(t *testing.T, nc, shape int) *qssa.Dataset {
	t.Helper()
	cfg := sim.ReferenceParameters().Trajectories(nc).Shape(shape).Build()
	ds, err := sim.Simulate(context.Background(), cfg, sim.WithSeed(21), sim.WithRunID("export-test"))
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	return ds
}

// handDataset builds a two-step dataset with known values: row i has
// A = i+1 at every position and time = step.
func handDataset(rows int, failed ...int) *qssa.Dataset {
	cfg := sim.ReferenceParameters().Trajectories(rows).Shape(2).Build()
	ds := &qssa.Dataset{RunID: "hand", Seed: 1, Parameters: cfg}
	for i := range rows {
		traj := qssa.NewTrajectory(2)
		traj.Status = qssa.StatusCompleted
		traj.Steps = 2
		for s := range traj.Len() {
			traj.A[s] = float64(i + 1)
			traj.Time[s] = float64(s)
			traj.Temperature[s] = 50 + 10*float64(s)
		}
		ds.Rows = append(ds.Rows, qssa.Row{Index: i, Stream: uint64(i), Trajectory: traj})
	}
	for _, i := range failed {
		ds.Rows[i].Trajectory.Status = qssa.StatusFailed
		ds.Rows[i].Error = "boom"
	}
	return ds
}
