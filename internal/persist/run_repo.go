package persist

import (
	"context"
	"fmt"
	"time"
)

// RunRecord is one finished encounter.
type RunRecord struct {
	ID         int
	Outcome    string // "won" or "lost"
	Turns      int
	Overkill   int
	Money      int
	LivesLeft  int
	FinishedAt time.Time
}

type RunRepo struct {
	db *DB
}

func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

// Record appends rec and sets its ID.
func (r *RunRepo) Record(ctx context.Context, rec *RunRecord) error {
	tx, err := r.db.SQL.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("run begin: %w", err)
	}
	defer tx.Rollback()

	var id int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM runs`).Scan(&id); err != nil {
		return fmt.Errorf("run next id: %w", err)
	}
	if rec.FinishedAt.IsZero() {
		rec.FinishedAt = time.Now()
	}
	if _, err := tx.ExecContext(ctx, r.db.rebind(
		`INSERT INTO runs (id, outcome, turns, overkill, money, lives_left, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`),
		id, rec.Outcome, rec.Turns, rec.Overkill, rec.Money, rec.LivesLeft, rec.FinishedAt.Unix(),
	); err != nil {
		return fmt.Errorf("run insert: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	rec.ID = id
	return nil
}

// Recent returns up to limit runs, newest first.
func (r *RunRepo) Recent(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := r.db.SQL.QueryContext(ctx, r.db.rebind(
		`SELECT id, outcome, turns, overkill, money, lives_left, finished_at
		 FROM runs ORDER BY id DESC LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		var finished int64
		if err := rows.Scan(&rec.ID, &rec.Outcome, &rec.Turns, &rec.Overkill, &rec.Money, &rec.LivesLeft, &finished); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.FinishedAt = time.Unix(finished, 0)
		out = append(out, rec)
	}
	return out, rows.Err()
}
