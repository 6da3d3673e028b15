package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SheetRepo handles sheets.
type SheetRepo struct {
	db *sql.DB
}

func NewSheetRepo(db *sql.DB) *SheetRepo {
	return &SheetRepo{db: db}
}

func (r *SheetRepo) Insert(ctx context.Context, s Sheet) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO sheets(id, name, content, created_at, last_opened_at)
	VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.Content, s.CreatedAt.UTC(), s.LastOpenedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert sheet %s: %w", s.ID, err)
	}
	return nil
}

func (r *SheetRepo) Get(ctx context.Context, id string) (Sheet, error) {
	var s Sheet
	err := r.db.QueryRowContext(ctx, `
	SELECT id, name, content, created_at, last_opened_at FROM sheets WHERE id = ?`, id).
		Scan(&s.ID, &s.Name, &s.Content, &s.CreatedAt, &s.LastOpenedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Sheet{}, fmt.Errorf("sheet %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Sheet{}, fmt.Errorf("get sheet %s: %w", id, err)
	}
	return s, nil
}

// List returns sheets most recently opened first.
func (r *SheetRepo) List(ctx context.Context) ([]SheetSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, name, length(content), created_at, last_opened_at
	FROM sheets
	ORDER BY last_opened_at DESC, created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list sheets: %w", err)
	}
	defer rows.Close()
	var out []SheetSummary
	for rows.Next() {
		var s SheetSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Size, &s.CreatedAt, &s.LastOpenedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SheetRepo) TouchOpened(ctx context.Context, id string, at time.Time) error {
	return r.execOne(ctx, "touch", id, `UPDATE sheets SET last_opened_at = ? WHERE id = ?`, at.UTC(), id)
}

func (r *SheetRepo) Rename(ctx context.Context, id, name string) error {
	return r.execOne(ctx, "rename", id, `UPDATE sheets SET name = ? WHERE id = ?`, name, id)
}

func (r *SheetRepo) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, "delete", id, `DELETE FROM sheets WHERE id = ?`, id)
}

// DeleteOpenedBefore removes sheets last opened before the cut-off and
// returns how many went.
func (r *SheetRepo) DeleteOpenedBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sheets WHERE last_opened_at < ?`, before.UTC().Truncate(time.Second))
	if err != nil {
		return 0, fmt.Errorf("prune sheets: %w", err)
	}
	return res.RowsAffected()
}

func (r *SheetRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sheets`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sheets: %w", err)
	}
	return n, nil
}

func (r *SheetRepo) execOne(ctx context.Context, op, id, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s sheet %s: %w", op, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("sheet %s: %w", id, ErrNotFound)
	}
	return nil
}
