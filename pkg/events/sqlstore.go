package events

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SQLEventStore stores events in a SQL table with ordered IDs. It
// shares the report database, so one file carries both the metrics
// and their decision history.
type SQLEventStore struct {
	db *sql.DB
}

func NewSQLEventStore(db *sql.DB) (*SQLEventStore, error) {
	s := &SQLEventStore{db: db}
	if err := s.ensureTable(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLEventStore) ensureTable() error {
	qry := `CREATE TABLE IF NOT EXISTS run_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		type TEXT NOT NULL,
		at TEXT NOT NULL,
		data TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_run_events_run ON run_events(run_id, id);`
	_, err := s.db.Exec(qry)
	return err
}

func (s *SQLEventStore) Append(ctx context.Context, ev ...Event) error {
	if len(ev) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_events (run_id, type, at, data) VALUES (?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range ev {
		b, err := e.MarshalData()
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		at := e.Timestamp()
		if at.IsZero() {
			at = time.Now()
		}
		if _, err := stmt.ExecContext(ctx, e.RunID(), e.Type(), at.Format(time.RFC3339Nano), string(b)); err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *SQLEventStore) ListByRun(ctx context.Context, runID string) ([]StoredEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, type, at, data FROM run_events WHERE run_id = ? ORDER BY id ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []StoredEvent
	for rows.Next() {
		var se StoredEvent
		var at, data string
		if err := rows.Scan(&se.Seq, &se.RunID, &se.Type, &at, &data); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if t, perr := time.Parse(time.RFC3339Nano, at); perr == nil {
			se.Ts = t
		}
		se.Payload = []byte(data)
		out = append(out, se)
	}
	return out, rows.Err()
}
