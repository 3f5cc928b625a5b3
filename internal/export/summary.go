package export

import (
	"fmt"
	"math"

	"github.com/daniacca/qssa/internal/qssa"
)

// Summary holds per-step statistics across the trajectories of a dataset.
type Summary struct {
	RunID   string
	Samples int // trajectories that entered the statistics
	Skipped int // failed trajectories left out

	Mean map[string][]float64
	Std  map[string][]float64
}

// Summarize computes, for every column and every step, the mean and the
// sample standard deviation over non-failed trajectories.
func Summarize(ds *qssa.Dataset) (*Summary, error) {
	rows := ds.Succeeded()
	if len(rows) == 0 {
		return nil, fmt.Errorf("run %s: no successful trajectories to summarize", ds.RunID)
	}
	n := rows[0].Trajectory.Len()

	s := &Summary{
		RunID:   ds.RunID,
		Samples: len(rows),
		Skipped: len(ds.Rows) - len(rows),
		Mean:    make(map[string][]float64, len(qssa.Columns)),
		Std:     make(map[string][]float64, len(qssa.Columns)),
	}
	for _, name := range qssa.Columns {
		mean := make([]float64, n)
		m2 := make([]float64, n)
		// Welford's running update per step.
		for k, row := range rows {
			col := row.Trajectory.Column(name)
			if len(col) != n {
				return nil, fmt.Errorf("row %d column %s has length %d, want %d", row.Index, name, len(col), n)
			}
			count := float64(k + 1)
			for i, v := range col {
				d := v - mean[i]
				mean[i] += d / count
				m2[i] += d * (v - mean[i])
			}
		}
		std := make([]float64, n)
		if len(rows) > 1 {
			for i := range std {
				std[i] = math.Sqrt(m2[i] / float64(len(rows)-1))
			}
		}
		s.Mean[name] = mean
		s.Std[name] = std
	}
	return s, nil
}

// Len returns the number of steps covered, shape+1.
func (s *Summary) Len() int {
	return len(s.Mean["time"])
}
