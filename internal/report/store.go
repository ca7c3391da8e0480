// Package report persists per-photo metrics and rating assignments so
// a run can be re-scored later without re-running detection or quality
// scoring. One row per photo per run; columns are stable field names,
// never positions.
package report

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"superpicky/internal/models"
	apperrors "superpicky/pkg/errors"
)

// Store wraps the SQLite report database.
type Store struct {
	db *sql.DB
}

// Run describes one analysis run over a directory.
type Run struct {
	ID         string    `json:"id"`
	Directory  string    `json:"directory"`
	CreatedAt  time.Time `json:"created_at"`
	Mode       string    `json:"normalization_mode"`
	PhotoCount int       `json:"photo_count"`
}

// Row is one persisted photo record. Metric columns are pointers so a
// partially written row round-trips as NULLs instead of fake zeros;
// the recompute engine decides which rows are resolvable.
type Row struct {
	RunID               string
	PhotoID             string
	FoundSubject        *bool
	Confidence          *float64
	AreaRatio           *float64
	CenterX             *float64
	CenterY             *float64
	RawSharpness        *float64
	EffectivePixels     *int64
	NormalizedSharpness *float64
	AestheticScore      *float64
	TechnicalScore      *float64
	Rating              *int64
	Reason              string
	Picked              bool
}

// Record is a fully resolved photo entry ready for persistence.
type Record struct {
	PhotoID string
	Metrics models.PhotoMetrics
	Result  models.RatingResult
	Picked  bool
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	directory TEXT NOT NULL,
	created_at TEXT NOT NULL,
	normalization_mode TEXT NOT NULL,
	photo_count INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS photo_reports (
	run_id TEXT NOT NULL,
	photo_id TEXT NOT NULL,
	found_subject INTEGER,
	confidence REAL,
	area_ratio REAL,
	center_x REAL,
	center_y REAL,
	raw_sharpness REAL,
	effective_pixels INTEGER,
	normalized_sharpness REAL,
	aesthetic_score REAL,
	technical_score REAL,
	rating INTEGER,
	reason TEXT,
	picked INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (run_id, photo_id)
);
CREATE INDEX IF NOT EXISTS idx_photo_reports_run ON photo_reports(run_id);`

// Open opens (creating if needed) the report database at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, apperrors.NewDB("report.Open", "cannot initialize schema", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying handle for collaborators that share the
// report database, such as the audit event store.
func (s *Store) DB() *sql.DB { return s.db }

// SaveRun persists a run header and all of its photo records in one
// transaction.
func (s *Store) SaveRun(run Run, records []Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO runs (id, directory, created_at, normalization_mode, photo_count)
		 VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Directory, run.CreatedAt.Format(time.RFC3339), run.Mode, len(records),
	); err != nil {
		return apperrors.NewDB("report.SaveRun", fmt.Sprintf("cannot save run %s", run.ID), err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO photo_reports (
			run_id, photo_id, found_subject, confidence, area_ratio,
			center_x, center_y, raw_sharpness, effective_pixels,
			normalized_sharpness, aesthetic_score, technical_score,
			rating, reason, picked
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		m := r.Metrics
		if _, err := stmt.Exec(
			run.ID, r.PhotoID, boolToInt(m.FoundSubject), m.Confidence, m.AreaRatio,
			m.CenterX, m.CenterY, m.RawSharpness, m.EffectivePixels,
			m.NormalizedSharpness, m.AestheticScore, m.TechnicalScore,
			r.Result.Rating, string(r.Result.Reason), boolToInt(r.Picked),
		); err != nil {
			return apperrors.NewDB("report.SaveRun", fmt.Sprintf("cannot save photo %s", r.PhotoID), err)
		}
	}

	return tx.Commit()
}

// LoadRun returns every photo row of a run, ordered by photo id.
func (s *Store) LoadRun(runID string) ([]Row, error) {
	rows, err := s.db.Query(`
		SELECT run_id, photo_id, found_subject, confidence, area_ratio,
		       center_x, center_y, raw_sharpness, effective_pixels,
		       normalized_sharpness, aesthetic_score, technical_score,
		       rating, reason, picked
		FROM photo_reports WHERE run_id = ? ORDER BY photo_id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		var found, picked sql.NullInt64
		var reason sql.NullString
		if err := rows.Scan(
			&r.RunID, &r.PhotoID, &found, &r.Confidence, &r.AreaRatio,
			&r.CenterX, &r.CenterY, &r.RawSharpness, &r.EffectivePixels,
			&r.NormalizedSharpness, &r.AestheticScore, &r.TechnicalScore,
			&r.Rating, &reason, &picked,
		); err != nil {
			return nil, err
		}
		if found.Valid {
			b := found.Int64 != 0
			r.FoundSubject = &b
		}
		r.Reason = reason.String
		r.Picked = picked.Valid && picked.Int64 != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRun returns a single run header.
func (s *Store) GetRun(runID string) (*Run, error) {
	var run Run
	var created string
	err := s.db.QueryRow(
		`SELECT id, directory, created_at, normalization_mode, photo_count FROM runs WHERE id = ?`,
		runID,
	).Scan(&run.ID, &run.Directory, &created, &run.Mode, &run.PhotoCount)
	if err != nil {
		return nil, err
	}
	if t, perr := time.Parse(time.RFC3339, created); perr == nil {
		run.CreatedAt = t
	}
	return &run, nil
}

// ListRuns returns run headers, newest first.
func (s *Store) ListRuns() ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, directory, created_at, normalization_mode, photo_count
		 FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var run Run
		var created string
		if err := rows.Scan(&run.ID, &run.Directory, &created, &run.Mode, &run.PhotoCount); err != nil {
			return nil, err
		}
		if t, perr := time.Parse(time.RFC3339, created); perr == nil {
			run.CreatedAt = t
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// Assignment is a rating/pick decision to apply to a stored row.
type Assignment struct {
	PhotoID string        `json:"photo_id"`
	Rating  int           `json:"rating"`
	Reason  models.Reason `json:"reason"`
	Picked  bool          `json:"picked"`
}

// ApplyAssignments overwrites the rating, reason and picked columns of
// a run with a recomputed assignment. Metrics columns are never
// touched.
func (s *Store) ApplyAssignments(runID string, assignments []Assignment) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`UPDATE photo_reports SET rating = ?, reason = ?, picked = ? WHERE run_id = ? AND photo_id = ?`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range assignments {
		if _, err := stmt.Exec(a.Rating, string(a.Reason), boolToInt(a.Picked), runID, a.PhotoID); err != nil {
			return apperrors.NewDB("report.ApplyAssignments", fmt.Sprintf("cannot update photo %s", a.PhotoID), err)
		}
	}

	return tx.Commit()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
