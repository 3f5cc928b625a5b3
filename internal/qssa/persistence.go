package qssa

import (
	"encoding/json"
	"fmt"
	"time"
)

// Row is one trajectory of a dataset.
type Row struct {
	Index      int         `json:"index"`
	Stream     uint64      `json:"stream"`
	Trajectory *Trajectory `json:"trajectory"`
	Error      string      `json:"error,omitempty"`
}

// Failed reports whether the trajectory ended with an error.
func (r Row) Failed() bool {
	return r.Error != "" || r.Trajectory == nil || r.Trajectory.Status == StatusFailed
}

// Dataset is the ensemble output: exactly Nc rows in run order.
type Dataset struct {
	RunID      string           `json:"run_id"`
	Seed       uint64           `json:"seed"`
	Parameters ParametersConfig `json:"parameters"`
	CreatedAt  time.Time        `json:"created_at"`
	Rows       []Row            `json:"rows"`
}

// Failed returns the rows whose trajectory ended with an error.
func (d *Dataset) Failed() []Row {
	var out []Row
	for _, r := range d.Rows {
		if r.Failed() {
			out = append(out, r)
		}
	}
	return out
}

// Succeeded returns completed and halted rows.
func (d *Dataset) Succeeded() []Row {
	var out []Row
	for _, r := range d.Rows {
		if !r.Failed() {
			out = append(out, r)
		}
	}
	return out
}

// Shape returns the number of steps per trajectory recorded in the parameters.
func (d *Dataset) Shape() int {
	if d.Parameters.Shape == nil {
		return 0
	}
	return *d.Parameters.Shape
}

// ValidateDataset performs validation checks on a dataset.
// It verifies that:
//   - the embedded parameters are valid
//   - there are exactly Nc rows, indexed 0..Nc-1 in order
//   - every series of every row has length shape+1
func ValidateDataset(ds *Dataset) error {
	if ds == nil {
		return fmt.Errorf("dataset is nil")
	}
	params, err := NewParameters(ds.Parameters)
	if err != nil {
		return fmt.Errorf("dataset parameters: %w", err)
	}
	if len(ds.Rows) != params.Trajectories {
		return fmt.Errorf("dataset has %d rows, want Nc=%d", len(ds.Rows), params.Trajectories)
	}

	want := params.Shape + 1
	for i, row := range ds.Rows {
		if row.Index != i {
			return fmt.Errorf("row at position %d has index %d", i, row.Index)
		}
		if row.Trajectory == nil {
			return fmt.Errorf("row %d has no trajectory", i)
		}
		for _, col := range Columns {
			if got := len(row.Trajectory.Column(col)); got != want {
				return fmt.Errorf("row %d column %s has length %d, want %d", i, col, got, want)
			}
		}
	}
	return nil
}

// EncodeDatasetJSON encodes a dataset to JSON format.
func EncodeDatasetJSON(ds *Dataset) ([]byte, error) {
	data, err := json.Marshal(ds)
	if err != nil {
		return nil, fmt.Errorf("failed to encode dataset: %w", err)
	}
	return data, nil
}

// DecodeDatasetJSON decodes a dataset from JSON format and validates it.
func DecodeDatasetJSON(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}
	if err := ValidateDataset(&ds); err != nil {
		return nil, fmt.Errorf("invalid dataset: %w", err)
	}
	return &ds, nil
}
