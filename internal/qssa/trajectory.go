package qssa

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// TrajectoryStatus tells how a trajectory ended.
type TrajectoryStatus string

const (
	// StatusCompleted means every one of the shape transitions was taken.
	StatusCompleted TrajectoryStatus = "completed"
	// StatusHalted means the total propensity reached zero and the remaining
	// positions hold the last state.
	StatusHalted TrajectoryStatus = "halted"
	// StatusFailed means a step error ended the trajectory; the remaining
	// positions hold the last valid state.
	StatusFailed TrajectoryStatus = "failed"
)

// Trajectory is the struct-of-arrays time series of one run. Every series
// has length shape+1; index 0 is the initial condition. Its JSON form is a
// flat object keyed by Columns plus "status" and "steps".
type Trajectory struct {
	A  []float64
	B  []float64
	C  []float64
	P  []float64
	Aj []float64
	Bj []float64
	Cj []float64
	D  []float64

	Dif           []float64
	Time          []float64
	Temperature   []float64
	SumPropensity []float64
	Propensity    [NumReactions][]float64

	Status TrajectoryStatus
	// Steps is the number of transitions actually taken.
	Steps int
}

// Columns lists the exported series names in tabulation order.
var Columns = []string{
	"AParticles", "BParticles", "CParticles", "PParticles",
	"AjParticles", "BjParticles", "CjParticles", "DParticles",
	"Dif", "time", "Temperature", "sum_propen",
	"propen_1", "propen_2", "propen_3", "propen_4", "propen_5", "propen_6",
}

// NewTrajectory allocates zeroed series for shape transitions. Decoders use
// it to rebuild stored trajectories. A negative shape is treated as 0.
func NewTrajectory(shape int) *Trajectory {
	return newTrajectory(shape)
}

func newTrajectory(shape int) *Trajectory {
	n := max(shape, 0) + 1
	t := &Trajectory{
		A: make([]float64, n), B: make([]float64, n), C: make([]float64, n), P: make([]float64, n),
		Aj: make([]float64, n), Bj: make([]float64, n), Cj: make([]float64, n), D: make([]float64, n),
		Dif:           make([]float64, n),
		Time:          make([]float64, n),
		Temperature:   make([]float64, n),
		SumPropensity: make([]float64, n),
	}
	for k := range t.Propensity {
		t.Propensity[k] = make([]float64, n)
	}
	return t
}

// Len returns the number of positions (shape+1).
func (t *Trajectory) Len() int {
	return len(t.Time)
}

// CountsAt gathers the species vector at position i.
func (t *Trajectory) CountsAt(i int) Counts {
	var c Counts
	c[IdxA] = t.A[i]
	c[IdxB] = t.B[i]
	c[IdxAj] = t.Aj[i]
	c[IdxBj] = t.Bj[i]
	c[IdxC] = t.C[i]
	c[IdxCj] = t.Cj[i]
	c[IdxP] = t.P[i]
	c[IdxD] = t.D[i]
	return c
}

func (t *Trajectory) setCounts(i int, c Counts) {
	t.A[i] = c[IdxA]
	t.B[i] = c[IdxB]
	t.Aj[i] = c[IdxAj]
	t.Bj[i] = c[IdxBj]
	t.C[i] = c[IdxC]
	t.Cj[i] = c[IdxCj]
	t.P[i] = c[IdxP]
	t.D[i] = c[IdxD]
}

// Column returns the series stored under one of the Columns names, or nil.
func (t *Trajectory) Column(name string) []float64 {
	if ref := t.columnRef(name); ref != nil {
		return *ref
	}
	return nil
}

func (t *Trajectory) columnRef(name string) *[]float64 {
	switch name {
	case "AParticles":
		return &t.A
	case "BParticles":
		return &t.B
	case "CParticles":
		return &t.C
	case "PParticles":
		return &t.P
	case "AjParticles":
		return &t.Aj
	case "BjParticles":
		return &t.Bj
	case "CjParticles":
		return &t.Cj
	case "DParticles":
		return &t.D
	case "Dif":
		return &t.Dif
	case "time":
		return &t.Time
	case "Temperature":
		return &t.Temperature
	case "sum_propen":
		return &t.SumPropensity
	case "propen_1", "propen_2", "propen_3", "propen_4", "propen_5", "propen_6":
		return &t.Propensity[name[len(name)-1]-'1']
	}
	return nil
}

// MarshalJSON writes every series under its column name.
func (t *Trajectory) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(Columns)+2)
	for _, name := range Columns {
		obj[name] = t.Column(name)
	}
	obj["status"] = t.Status
	obj["steps"] = t.Steps
	return json.Marshal(obj)
}

// UnmarshalJSON reads the form written by MarshalJSON. Every column must be
// present; unknown keys are rejected.
func (t *Trajectory) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var out Trajectory
	for _, name := range Columns {
		msg, ok := raw[name]
		if !ok {
			return fmt.Errorf("trajectory: missing column %q", name)
		}
		if err := json.Unmarshal(msg, out.columnRef(name)); err != nil {
			return fmt.Errorf("trajectory: column %s: %w", name, err)
		}
		delete(raw, name)
	}
	if msg, ok := raw["status"]; ok {
		if err := json.Unmarshal(msg, &out.Status); err != nil {
			return fmt.Errorf("trajectory: status: %w", err)
		}
		delete(raw, "status")
	}
	if msg, ok := raw["steps"]; ok {
		if err := json.Unmarshal(msg, &out.Steps); err != nil {
			return fmt.Errorf("trajectory: steps: %w", err)
		}
		delete(raw, "steps")
	}
	if len(raw) > 0 {
		return fmt.Errorf("trajectory: unknown keys %v", slices.Sorted(maps.Keys(raw)))
	}

	*t = out
	return nil
}

// hold copies the state at position from into every later position. Dif,
// propensities and their sum stay zero there: nothing fired.
func (t *Trajectory) hold(from int) {
	c := t.CountsAt(from)
	for j := from + 1; j < t.Len(); j++ {
		t.setCounts(j, c)
		t.Time[j] = t.Time[from]
		t.Temperature[j] = t.Temperature[from]
	}
}
