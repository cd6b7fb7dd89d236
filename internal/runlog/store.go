package runlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/banshee-data/pointmesh/internal/service"
	"github.com/banshee-data/pointmesh/internal/surface/hull"
	"github.com/google/uuid"
)

// Run is one persisted request.
type Run struct {
	RunID           string  `json:"run_id"`
	StartedAt       int64   `json:"started_at"` // Unix nanoseconds
	DurationMS      float64 `json:"duration_ms"`
	State           string  `json:"state"`
	Success         bool    `json:"success"`
	Error           string  `json:"error,omitempty"`
	InputPoints     int     `json:"input_points"`
	SmoothedPoints  int     `json:"smoothed_points"`
	DroppedPoints   int     `json:"dropped_points"`
	DuplicatePoints int     `json:"duplicate_points"`
	HullKind        string  `json:"hull_kind,omitempty"`
	Vertices        int     `json:"vertices"`
	Triangles       int     `json:"triangles"`
	SkippedPolygons int     `json:"skipped_polygons"`
}

// ErrRunNotFound is returned by Get for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// Store reads and writes runs. It implements service.RunRecorder.
type Store struct {
	db *sql.DB
}

var _ service.RunRecorder = (*Store)(nil)

// NewStore returns a Store over db.
func NewStore(db *DB) *Store {
	return &Store{db: db.DB}
}

// Insert persists run. If RunID is empty, a UUID is generated; if StartedAt
// is zero, the current time is used.
func (s *Store) Insert(ctx context.Context, run *Run) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.StartedAt == 0 {
		run.StartedAt = time.Now().UnixNano()
	}

	var errStr, kind any
	if run.Error != "" {
		errStr = run.Error
	}
	if run.HullKind != "" {
		kind = run.HullKind
	}

	return retryOnBusy(func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO runs (
				run_id, started_at, duration_ms, state, success, error,
				input_points, smoothed_points, dropped_points, duplicate_points,
				hull_kind, vertices, triangles, skipped_polygons
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.RunID, run.StartedAt, run.DurationMS, run.State, run.Success, errStr,
			run.InputPoints, run.SmoothedPoints, run.DroppedPoints, run.DuplicatePoints,
			kind, run.Vertices, run.Triangles, run.SkippedPolygons,
		)
		return err
	})
}

// RecordRun implements service.RunRecorder.
func (s *Store) RecordRun(ctx context.Context, rec service.RunRecord) error {
	run := &Run{
		RunID:           rec.ID,
		StartedAt:       rec.StartedAt.UnixNano(),
		DurationMS:      float64(rec.Duration) / float64(time.Millisecond),
		State:           rec.Report.State.String(),
		Success:         rec.Success,
		Error:           rec.Error,
		InputPoints:     rec.Report.InputPoints,
		SmoothedPoints:  rec.Report.SmoothedPoints,
		DroppedPoints:   rec.Report.DroppedPoints,
		DuplicatePoints: rec.Report.DuplicatePoints,
		Vertices:        rec.Vertices,
		Triangles:       rec.Report.Triangles,
		SkippedPolygons: rec.Report.SkippedPolygons,
	}
	if rec.Report.HullKind != hull.KindNone {
		run.HullKind = rec.Report.HullKind.String()
	}
	if err := s.Insert(ctx, run); err != nil {
		return fmt.Errorf("insert run %s: %w", rec.ID, err)
	}
	return nil
}

const runColumns = `run_id, started_at, duration_ms, state, success, error,
	input_points, smoothed_points, dropped_points, duplicate_points,
	hull_kind, vertices, triangles, skipped_polygons`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var r Run
	var errStr, kind sql.NullString
	if err := row.Scan(
		&r.RunID, &r.StartedAt, &r.DurationMS, &r.State, &r.Success, &errStr,
		&r.InputPoints, &r.SmoothedPoints, &r.DroppedPoints, &r.DuplicatePoints,
		&kind, &r.Vertices, &r.Triangles, &r.SkippedPolygons,
	); err != nil {
		return nil, err
	}
	r.Error = errStr.String
	r.HullKind = kind.String
	return &r, nil
}

// Get returns a single run by ID.
func (s *Store) Get(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}
	return r, nil
}

// ListRecent returns up to limit runs, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
