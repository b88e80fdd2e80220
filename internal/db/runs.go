package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/vfi/internal/model"
	"github.com/banshee-data/vfi/internal/timeutil"
	"github.com/banshee-data/vfi/internal/vfi"
)

// timeLayout keeps a fixed width so started_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// ErrRunNotFound is returned when a run ID has no row.
var ErrRunNotFound = errors.New("db: run not found")

// RunRecord is a persisted solver run.
type RunRecord struct {
	RunID         string          `json:"run_id"`
	Label         string          `json:"label,omitempty"`
	Params        json.RawMessage `json:"params"`
	Status        string          `json:"status"`
	Iterations    int             `json:"iterations"`
	FinalDistance *float64        `json:"final_distance,omitempty"`
	Elapsed       time.Duration   `json:"elapsed"`
	StartedAt     time.Time       `json:"started_at"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
}

// SolutionPoint is one grid point of a stored solution.
type SolutionPoint struct {
	Capital float64 `json:"capital"`
	Value   float64 `json:"value"`
	Policy  float64 `json:"policy"`
}

// RunStore provides persistence for solver runs.
type RunStore struct {
	db    *sql.DB
	clock timeutil.Clock
}

// NewRunStore creates a new RunStore. A nil clock means timeutil.RealClock.
func NewRunStore(db *sql.DB, clock timeutil.Clock) *RunStore {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &RunStore{db: db, clock: clock}
}

// InsertRun records a run that is about to start and returns its ID.
func (s *RunStore) InsertRun(label string, p model.Params) (string, error) {
	params, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encoding params: %w", err)
	}
	runID := uuid.New().String()
	_, err = s.db.Exec(`
		INSERT INTO vfi_runs (run_id, label, params_json, status, started_at)
		VALUES (?, ?, ?, ?, ?)`,
		runID, nullStr(label), string(params), "running",
		s.clock.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}
	return runID, nil
}

// CompleteRun stores the terminal status of a run.
func (s *RunStore) CompleteRun(runID, status string, iterations int, distance float64, elapsed time.Duration) error {
	res, err := s.db.Exec(`
		UPDATE vfi_runs
		SET status = ?, iterations = ?, final_distance = ?, elapsed_ns = ?, completed_at = ?
		WHERE run_id = ?`,
		status, iterations, distance, elapsed.Nanoseconds(),
		s.clock.Now().UTC().Format(timeLayout), runID,
	)
	if err != nil {
		return fmt.Errorf("completing run %s: %w", runID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("completing run %s: %w", runID, ErrRunNotFound)
	}
	return nil
}

// FailRun marks a run that ended without a result, keeping the elapsed time
// and leaving iterations and final_distance untouched.
func (s *RunStore) FailRun(runID, status string, elapsed time.Duration) error {
	res, err := s.db.Exec(`
		UPDATE vfi_runs
		SET status = ?, elapsed_ns = ?, completed_at = ?
		WHERE run_id = ?`,
		status, elapsed.Nanoseconds(),
		s.clock.Now().UTC().Format(timeLayout), runID,
	)
	if err != nil {
		return fmt.Errorf("failing run %s: %w", runID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("failing run %s: %w", runID, ErrRunNotFound)
	}
	return nil
}

// RecordTrace stores the per-iteration sup-norm distances. trace[i] belongs to
// iteration i+1.
func (s *RunStore) RecordTrace(runID string, trace []float64) error {
	return s.inTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO vfi_iterations (run_id, iteration, distance) VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, d := range trace {
			if _, err := stmt.Exec(runID, i+1, d); err != nil {
				return fmt.Errorf("iteration %d: %w", i+1, err)
			}
		}
		return nil
	})
}

// RecordSolution stores capital, value and policy per grid point.
func (s *RunStore) RecordSolution(runID string, capital, value, policy []float64) error {
	if len(capital) != len(value) || len(capital) != len(policy) {
		return fmt.Errorf("solution length mismatch: %d capital, %d value, %d policy",
			len(capital), len(value), len(policy))
	}
	return s.inTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO vfi_solution (run_id, idx, capital, value, policy) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i := range capital {
			if _, err := stmt.Exec(runID, i, capital[i], value[i], policy[i]); err != nil {
				return fmt.Errorf("point %d: %w", i, err)
			}
		}
		return nil
	})
}

// SaveResult completes runID with res and stores its trace and solution.
func (s *RunStore) SaveResult(runID string, res *vfi.Result) error {
	if err := s.RecordTrace(runID, res.Trace); err != nil {
		return fmt.Errorf("recording trace: %w", err)
	}
	if err := s.RecordSolution(runID, res.Capital, res.Value, res.Policy); err != nil {
		return fmt.Errorf("recording solution: %w", err)
	}
	return s.CompleteRun(runID, string(res.Status), res.Iterations, res.Distance, res.Elapsed)
}

// GetRun returns a single run by ID.
func (s *RunStore) GetRun(runID string) (*RunRecord, error) {
	row := s.db.QueryRow(`
		SELECT run_id, label, params_json, status, iterations, final_distance,
		       elapsed_ns, started_at, completed_at
		FROM vfi_runs
		WHERE run_id = ?`, runID)
	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", runID, ErrRunNotFound)
	}
	return rec, err
}

// ListRuns returns up to limit runs, newest first. limit <= 0 returns all.
func (s *RunStore) ListRuns(limit int) ([]*RunRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(`
		SELECT run_id, label, params_json, status, iterations, final_distance,
		       elapsed_ns, started_at, completed_at
		FROM vfi_runs
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []*RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetTrace returns the stored distances ordered by iteration.
func (s *RunStore) GetTrace(runID string) ([]float64, error) {
	rows, err := s.db.Query(`SELECT distance FROM vfi_iterations WHERE run_id = ? ORDER BY iteration`, runID)
	if err != nil {
		return nil, fmt.Errorf("query trace: %w", err)
	}
	defer rows.Close()

	var out []float64
	for rows.Next() {
		var d float64
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan trace: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetSolution returns the stored solution ordered by grid index.
func (s *RunStore) GetSolution(runID string) ([]SolutionPoint, error) {
	rows, err := s.db.Query(`SELECT capital, value, policy FROM vfi_solution WHERE run_id = ? ORDER BY idx`, runID)
	if err != nil {
		return nil, fmt.Errorf("query solution: %w", err)
	}
	defer rows.Close()

	var out []SolutionPoint
	for rows.Next() {
		var p SolutionPoint
		if err := rows.Scan(&p.Capital, &p.Value, &p.Policy); err != nil {
			return nil, fmt.Errorf("scan solution: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeleteRun removes a run together with its trace and solution.
func (s *RunStore) DeleteRun(runID string) error {
	res, err := s.db.Exec(`DELETE FROM vfi_runs WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("deleting run %s: %w", runID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("deleting run %s: %w", runID, ErrRunNotFound)
	}
	return nil
}

func (s *RunStore) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*RunRecord, error) {
	var rec RunRecord
	var label, completedAt sql.NullString
	var distance sql.NullFloat64
	var elapsed sql.NullInt64
	var params, startedAt string

	err := row.Scan(&rec.RunID, &label, &params, &rec.Status, &rec.Iterations,
		&distance, &elapsed, &startedAt, &completedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	rec.Label = label.String
	rec.Params = json.RawMessage(params)
	if distance.Valid {
		d := distance.Float64
		rec.FinalDistance = &d
	}
	rec.Elapsed = time.Duration(elapsed.Int64)
	if rec.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	if completedAt.Valid {
		t, err := time.Parse(timeLayout, completedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse completed_at: %w", err)
		}
		rec.CompletedAt = &t
	}
	return &rec, nil
}

// DecodeParams unmarshals the stored parameters.
func (r *RunRecord) DecodeParams() (model.Params, error) {
	var p model.Params
	if err := json.Unmarshal(r.Params, &p); err != nil {
		return model.Params{}, fmt.Errorf("decoding params for run %s: %w", r.RunID, err)
	}
	return p, nil
}

func nullStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
