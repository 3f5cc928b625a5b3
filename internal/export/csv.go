// Package export turns simulated datasets into artifacts: long-format CSV,
// SQL tables, S3 objects, summary statistics and charts.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/daniacca/qssa/internal/qssa"
)

// Header returns the long-format CSV header: trajectory, step and every
// trajectory column.
func Header() []string {
	return append([]string{"trajectory", "step"}, qssa.Columns...)
}

// WriteCSV writes one line per (trajectory, step). Failed rows are written
// too; their held positions keep the table rectangular.
func WriteCSV(w io.Writer, ds *qssa.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, 2+len(qssa.Columns))
	for _, row := range ds.Rows {
		if row.Trajectory == nil {
			return fmt.Errorf("row %d has no trajectory", row.Index)
		}
		cols := make([][]float64, len(qssa.Columns))
		for c, name := range qssa.Columns {
			cols[c] = row.Trajectory.Column(name)
		}
		record[0] = strconv.Itoa(row.Index)
		for i := 0; i < row.Trajectory.Len(); i++ {
			record[1] = strconv.Itoa(i)
			for c := range cols {
				record[2+c] = strconv.FormatFloat(cols[c][i], 'g', -1, 64)
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("write row %d step %d: %w", row.Index, i, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the dataset to path, replacing any existing file.
func WriteCSVFile(path string, ds *qssa.Dataset) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteCSV(f, ds)
}

// WriteJSONFile writes the dataset in its JSON encoding.
func WriteJSONFile(path string, ds *qssa.Dataset) error {
	data, err := qssa.EncodeDatasetJSON(ds)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
