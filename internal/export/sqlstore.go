package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/daniacca/qssa/internal/qssa"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver
)

// Dialect names a supported SQL backend.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ErrRunNotFound is returned by LoadDataset for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// SQLStore keeps datasets in three tables: runs, trajectories and samples
// (one row per trajectory step).
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

// RunInfo is the summary row of a stored run.
type RunInfo struct {
	RunID        string
	Seed         uint64
	Trajectories int
	Shape        int
	CreatedAt    time.Time
}

// OpenSQLite opens (creating if needed) a SQLite database file and applies
// the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLStore, error) {
	if path == "" {
		path = "qssa.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer at a time; SQLite serializes them anyway.
	db.SetMaxOpenConns(1)
	return newSQLStore(ctx, db, DialectSQLite)
}

// OpenPostgres connects through pgx and applies the schema.
func OpenPostgres(ctx context.Context, dsn string) (*SQLStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return newSQLStore(ctx, db, DialectPostgres)
}

func newSQLStore(ctx context.Context, db *sql.DB, dialect Dialect) (*SQLStore, error) {
	s := &SQLStore{db: db, dialect: dialect}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// sampleColumns maps the trajectory columns to SQL-safe column names.
var sampleColumns = []string{
	"a", "b", "c", "p", "aj", "bj", "cj", "d",
	"dif", "sim_time", "temperature", "sum_propen",
	"propen_1", "propen_2", "propen_3", "propen_4", "propen_5", "propen_6",
}

func (s *SQLStore) migrate(ctx context.Context) error {
	floatType := "REAL"
	if s.dialect == DialectPostgres {
		floatType = "DOUBLE PRECISION"
	}
	cols := make([]string, len(sampleColumns))
	for i, c := range sampleColumns {
		cols[i] = c + " " + floatType + " NOT NULL"
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			seed TEXT NOT NULL,
			trajectories INTEGER NOT NULL,
			shape INTEGER NOT NULL,
			parameters TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS trajectories (
			run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
			idx INTEGER NOT NULL,
			stream TEXT NOT NULL,
			status TEXT NOT NULL,
			steps INTEGER NOT NULL,
			error TEXT NOT NULL,
			PRIMARY KEY (run_id, idx)
		)`,
		`CREATE TABLE IF NOT EXISTS samples (
			run_id TEXT NOT NULL,
			idx INTEGER NOT NULL,
			step INTEGER NOT NULL,
			` + strings.Join(cols, ",\n\t\t\t") + `,
			PRIMARY KEY (run_id, idx, step)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// placeholders returns n bind markers for the store's dialect.
func (s *SQLStore) placeholders(n int) string {
	marks := make([]string, n)
	for i := range marks {
		if s.dialect == DialectPostgres {
			marks[i] = "$" + strconv.Itoa(i+1)
		} else {
			marks[i] = "?"
		}
	}
	return strings.Join(marks, ", ")
}

// SaveDataset stores ds in one transaction. Saving a run ID twice is an
// error.
func (s *SQLStore) SaveDataset(ctx context.Context, ds *qssa.Dataset) (retErr error) {
	params, err := json.Marshal(ds.Parameters)
	if err != nil {
		return fmt.Errorf("encode parameters: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, seed, trajectories, shape, parameters, created_at) VALUES (`+s.placeholders(6)+`)`,
		ds.RunID, strconv.FormatUint(ds.Seed, 10), len(ds.Rows), ds.Shape(), string(params),
		ds.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert run %s: %w", ds.RunID, err)
	}

	trajStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO trajectories (run_id, idx, stream, status, steps, error) VALUES (`+s.placeholders(6)+`)`)
	if err != nil {
		return fmt.Errorf("prepare trajectories: %w", err)
	}
	defer trajStmt.Close()

	sampleStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO samples (run_id, idx, step, `+strings.Join(sampleColumns, ", ")+`) VALUES (`+
			s.placeholders(3+len(sampleColumns))+`)`)
	if err != nil {
		return fmt.Errorf("prepare samples: %w", err)
	}
	defer sampleStmt.Close()

	args := make([]any, 3+len(qssa.Columns))
	for _, row := range ds.Rows {
		traj := row.Trajectory
		if traj == nil {
			return fmt.Errorf("row %d has no trajectory", row.Index)
		}
		if _, err := trajStmt.ExecContext(ctx, ds.RunID, row.Index,
			strconv.FormatUint(row.Stream, 10), string(traj.Status), traj.Steps, row.Error); err != nil {
			return fmt.Errorf("insert trajectory %d: %w", row.Index, err)
		}

		cols := make([][]float64, len(qssa.Columns))
		for c, name := range qssa.Columns {
			cols[c] = traj.Column(name)
		}
		args[0], args[1] = ds.RunID, row.Index
		for i := 0; i < traj.Len(); i++ {
			args[2] = i
			for c := range cols {
				args[3+c] = cols[c][i]
			}
			if _, err := sampleStmt.ExecContext(ctx, args...); err != nil {
				return fmt.Errorf("insert sample %d/%d: %w", row.Index, i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LoadDataset rebuilds a stored run and validates it.
func (s *SQLStore) LoadDataset(ctx context.Context, runID string) (*qssa.Dataset, error) {
	var (
		seed, params, created string
		nc, shape             int
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT seed, trajectories, shape, parameters, created_at FROM runs WHERE run_id = `+s.placeholders(1),
		runID).Scan(&seed, &nc, &shape, &params, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("select run: %w", err)
	}

	ds := &qssa.Dataset{RunID: runID, Rows: make([]qssa.Row, nc)}
	if ds.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	if err := json.Unmarshal([]byte(params), &ds.Parameters); err != nil {
		return nil, fmt.Errorf("decode parameters: %w", err)
	}
	if ds.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("decode created_at: %w", err)
	}

	if err := s.loadTrajectories(ctx, ds, shape); err != nil {
		return nil, err
	}
	if err := s.loadSamples(ctx, ds); err != nil {
		return nil, err
	}
	if err := qssa.ValidateDataset(ds); err != nil {
		return nil, fmt.Errorf("stored run %s: %w", runID, err)
	}
	return ds, nil
}

func (s *SQLStore) loadTrajectories(ctx context.Context, ds *qssa.Dataset, shape int) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, stream, status, steps, error FROM trajectories WHERE run_id = `+s.placeholders(1)+` ORDER BY idx`,
		ds.RunID)
	if err != nil {
		return fmt.Errorf("select trajectories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			idx, steps             int
			stream, status, errMsg string
		)
		if err := rows.Scan(&idx, &stream, &status, &steps, &errMsg); err != nil {
			return fmt.Errorf("scan trajectory: %w", err)
		}
		if idx < 0 || idx >= len(ds.Rows) {
			return fmt.Errorf("trajectory index %d out of range", idx)
		}
		st, err := strconv.ParseUint(stream, 10, 64)
		if err != nil {
			return fmt.Errorf("decode stream: %w", err)
		}
		traj := qssa.NewTrajectory(shape)
		traj.Status = qssa.TrajectoryStatus(status)
		traj.Steps = steps
		ds.Rows[idx] = qssa.Row{Index: idx, Stream: st, Trajectory: traj, Error: errMsg}
	}
	return rows.Err()
}

func (s *SQLStore) loadSamples(ctx context.Context, ds *qssa.Dataset) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, step, `+strings.Join(sampleColumns, ", ")+` FROM samples WHERE run_id = `+
			s.placeholders(1)+` ORDER BY idx, step`, ds.RunID)
	if err != nil {
		return fmt.Errorf("select samples: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var idx, step int
	vals := make([]float64, len(sampleColumns))
	dest := make([]any, 2+len(vals))
	dest[0], dest[1] = &idx, &step
	for i := range vals {
		dest[2+i] = &vals[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return fmt.Errorf("scan sample: %w", err)
		}
		if idx < 0 || idx >= len(ds.Rows) || ds.Rows[idx].Trajectory == nil {
			return fmt.Errorf("sample for unknown trajectory %d", idx)
		}
		traj := ds.Rows[idx].Trajectory
		if step < 0 || step >= traj.Len() {
			return fmt.Errorf("trajectory %d: step %d out of range", idx, step)
		}
		for c, name := range qssa.Columns {
			traj.Column(name)[step] = vals[c]
		}
	}
	return rows.Err()
}

// ListRuns returns stored runs, newest first.
func (s *SQLStore) ListRuns(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, seed, trajectories, shape, created_at FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []RunInfo
	for rows.Next() {
		var (
			info          RunInfo
			seed, created string
		)
		if err := rows.Scan(&info.RunID, &seed, &info.Trajectories, &info.Shape, &created); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if info.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
			return nil, fmt.Errorf("decode seed: %w", err)
		}
		if info.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("decode created_at: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}
