package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLiteRepository is the SQLite-backed notes repository. All operations go
// through the shared Handle; once the engine rejects a transaction the
// handle goes unavailable and every further call fails fast.
type SQLiteRepository struct {
	handle *Handle
}

// NewSQLiteRepository builds a repository on an already-constructed handle.
// The handle does not need to be open yet; operations before a successful
// Open are rejected with ErrStorageUnavailable.
func NewSQLiteRepository(h *Handle) *SQLiteRepository {
	return &SQLiteRepository{handle: h}
}

// Close closes the underlying handle.
func (r *SQLiteRepository) Close() error {
	return r.handle.Close()
}

func (r *SQLiteRepository) Add(ctx context.Context, text string) (int64, error) {
	norm := Normalize(text)
	if norm == "" {
		return 0, errEmptyText()
	}

	db, err := r.handle.conn()
	if err != nil {
		return 0, err
	}

	created := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := db.ExecContext(ctx,
		`INSERT INTO notes (text, completed, created) VALUES (?, 0, ?)`,
		norm, created)
	if err != nil {
		return 0, r.engineErr("add note", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, r.engineErr("add note", err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]Note, error) {
	db, err := r.handle.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, text, completed, created FROM notes ORDER BY id`)
	if err != nil {
		return nil, r.engineErr("list notes", err)
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		var (
			n         Note
			completed int
			created   string
		)
		if err := rows.Scan(&n.ID, &n.Text, &completed, &created); err != nil {
			return nil, r.engineErr("list notes", err)
		}
		n.Completed = completed != 0
		n.Created, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("list notes: bad created timestamp for note %d: %w", n.ID, err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, r.engineErr("list notes", err)
	}
	return notes, nil
}

func (r *SQLiteRepository) UpdateText(ctx context.Context, id int64, text string) error {
	norm := Normalize(text)
	if norm == "" {
		return errEmptyText()
	}
	return r.patch(ctx, id, `UPDATE notes SET text = ? WHERE id = ?`, norm)
}

func (r *SQLiteRepository) SetCompleted(ctx context.Context, id int64, completed bool) error {
	flag := 0
	if completed {
		flag = 1
	}
	return r.patch(ctx, id, `UPDATE notes SET completed = ? WHERE id = ?`, flag)
}

// patch is the shared read-modify-write path for single-column edits. The
// existence read and the column update run in one transaction, so the
// untouched columns are preserved exactly as stored and the write cannot
// interleave with another mutation of the same row.
func (r *SQLiteRepository) patch(ctx context.Context, id int64, query string, value any) error {
	db, err := r.handle.conn()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return r.engineErr("update note", err)
	}
	defer tx.Rollback()

	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM notes WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return &NotFoundError{ID: id}
	}
	if err != nil {
		return r.engineErr("update note", err)
	}

	if _, err := tx.ExecContext(ctx, query, value, id); err != nil {
		return r.engineErr("update note", err)
	}
	if err := tx.Commit(); err != nil {
		return r.engineErr("update note", err)
	}
	return nil
}

func (r *SQLiteRepository) Remove(ctx context.Context, id int64) error {
	db, err := r.handle.conn()
	if err != nil {
		return err
	}

	// Deleting an absent id is not an error; the store simply has no such
	// row either way.
	if _, err := db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id); err != nil {
		return r.engineErr("remove note", err)
	}
	return nil
}

// engineErr records an engine-level failure on the handle and returns the
// storage-unavailable error the caller surfaces. Context cancellation is
// passed through untouched: an abandoned operation does not poison the
// session.
func (r *SQLiteRepository) engineErr(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	r.handle.markFailed(err)
	return fmt.Errorf("%s: %w: %v", op, ErrStorageUnavailable, err)
}
