package database

import (
	"database/sql"
	"fmt"
)

const runHistoryCap = 100

// RunRepo persists the pipeline run log.
type RunRepo struct {
	db *DB
}

func NewRunRepository(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

func (r *RunRepo) RecordRun(run Run) error {
	_, err := r.db.Exec(`
		INSERT INTO runs (run_type, started_at, completed_at, status, new_posts, skipped, since_date, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.RunType, run.StartedAt, run.CompletedAt, run.Status, run.NewPosts, run.Skipped, run.SinceDate, run.Error)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	// Cap the history like the original run log file did.
	_, err = r.db.Exec(`
		DELETE FROM runs WHERE id NOT IN (
			SELECT id FROM runs ORDER BY id DESC LIMIT ?
		)
	`, runHistoryCap)
	if err != nil {
		return fmt.Errorf("failed to prune run log: %w", err)
	}

	return nil
}

func (r *RunRepo) GetRecentRuns(limit int) ([]Run, error) {
	rows, err := r.db.Query(`
		SELECT id, run_type, started_at, completed_at, status, new_posts, skipped, since_date, error
		FROM runs ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.RunType, &run.StartedAt, &run.CompletedAt,
			&run.Status, &run.NewPosts, &run.Skipped, &run.SinceDate, &run.Error); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (r *RunRepo) GetLastCompletedRun() (*Run, error) {
	var run Run
	err := r.db.QueryRow(`
		SELECT id, run_type, started_at, completed_at, status, new_posts, skipped, since_date, error
		FROM runs WHERE status = ? ORDER BY id DESC LIMIT 1
	`, RunStatusCompleted).Scan(&run.ID, &run.RunType, &run.StartedAt, &run.CompletedAt,
		&run.Status, &run.NewPosts, &run.Skipped, &run.SinceDate, &run.Error)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query last completed run: %w", err)
	}
	return &run, nil
}
