package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Run statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ErrRunNotFound is returned by GetRun for an unknown ID.
var ErrRunNotFound = errors.New("run not found")

// Run is one recorded merge.
type Run struct {
	ID      string      `json:"id"`
	Seq     int64       `json:"seq"`
	Name    string      `json:"name,omitempty"`
	Pattern string      `json:"pattern"`
	Split   string      `json:"split"`
	Status  string      `json:"status"`
	Items   int         `json:"items"`
	Error   string      `json:"error,omitempty"`
	Streams []RunStream `json:"streams"`
}

// RunStream records how far one input was consumed.
type RunStream struct {
	Index    int    `json:"index"`
	Path     string `json:"path"`
	Consumed int    `json:"consumed"`
}

// RecordRun inserts run and its streams in one transaction.
//
// If run.ID is empty an ID is generated with gen (UUIDv7 when gen is nil).
// run.Seq is always assigned by the store. The stored ID and seq are written
// back into run.
func (s *Store) RecordRun(ctx context.Context, run *Run, gen IDGenerator) error {
	if run.Status != StatusOK && run.Status != StatusError {
		return fmt.Errorf("record run: invalid status %q", run.Status)
	}
	if run.ID == "" {
		if gen == nil {
			gen = UUIDv7Generator{}
		}
		run.ID = gen.Generate()
	}
	split := run.Split
	if split == "" {
		split = "lines"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return fmt.Errorf("record run: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, seq, name, pattern, split, status, items, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, seq, run.Name, run.Pattern, split, run.Status, run.Items, run.Error)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	for _, rs := range run.Streams {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO run_streams (run_id, idx, path, consumed)
			VALUES (?, ?, ?, ?)
		`, run.ID, rs.Index, rs.Path, rs.Consumed)
		if err != nil {
			return fmt.Errorf("record run stream %d: %w", rs.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record run: commit: %w", err)
	}

	run.Seq = seq
	run.Split = split
	return nil
}

// GetRun returns the run with the given ID, or ErrRunNotFound.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, name, pattern, split, status, items, error
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}

	run.Streams, err = s.readRunStreams(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns returns up to limit runs, newest first. limit <= 0 means all.
//
// Returns an empty slice (not nil) if no runs are recorded.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT id, seq, name, pattern, split, status, items, error
		FROM runs
		ORDER BY seq DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	// Release the single connection before the per-run stream queries.
	rows.Close()

	for i := range runs {
		runs[i].Streams, err = s.readRunStreams(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func (s *Store) readRunStreams(ctx context.Context, runID string) ([]RunStream, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, path, consumed
		FROM run_streams
		WHERE run_id = ?
		ORDER BY idx ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run streams: %w", err)
	}
	defer rows.Close()

	streams := []RunStream{}
	for rows.Next() {
		var rs RunStream
		if err := rows.Scan(&rs.Index, &rs.Path, &rs.Consumed); err != nil {
			return nil, fmt.Errorf("scan run stream: %w", err)
		}
		streams = append(streams, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run streams: %w", err)
	}
	return streams, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var r Run
	err := row.Scan(&r.ID, &r.Seq, &r.Name, &r.Pattern, &r.Split, &r.Status, &r.Items, &r.Error)
	return r, err
}
