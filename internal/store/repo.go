package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/starford/scribe/internal/apperr"
	"github.com/starford/scribe/internal/models"
)

// Session is a single checked-out connection.
type Session struct {
	conn *sql.Conn
}

// Close returns the connection to the pool.
func (s *Session) Close() error {
	return s.conn.Close()
}

// Insert stores a new note and returns it with its assigned id.
func (s *Session) Insert(ctx context.Context, in models.NoteInput) (models.Note, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return models.Note{}, apperr.Storage("begin tx", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.ExecContext(ctx,
		`INSERT INTO notes (title, note_body) VALUES (?, ?)`,
		in.Title, in.NoteBody)
	if err != nil {
		return models.Note{}, apperr.Storage("insert note", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Note{}, apperr.Storage("insert note id", err)
	}
	if err := tx.Commit(); err != nil {
		return models.Note{}, apperr.Storage("commit insert", err)
	}
	return models.Note{ID: id, Title: in.Title, NoteBody: in.NoteBody}, nil
}

// SelectAll returns every note in ascending id order.
func (s *Session) SelectAll(ctx context.Context) ([]models.Note, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT id, title, note_body FROM notes ORDER BY id ASC`)
	if err != nil {
		return nil, apperr.Storage("select notes", err)
	}
	defer rows.Close()

	out := []models.Note{}
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.NoteBody); err != nil {
			return nil, apperr.Storage("scan note", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("iterate notes", err)
	}
	return out, nil
}

// SelectByID returns the note with id, or nil if there is none.
func (s *Session) SelectByID(ctx context.Context, id int64) (*models.Note, error) {
	var n models.Note
	err := s.conn.QueryRowContext(ctx,
		`SELECT id, title, note_body FROM notes WHERE id = ?`, id,
	).Scan(&n.ID, &n.Title, &n.NoteBody)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Storage("select note", err)
	}
	return &n, nil
}

// Update replaces title and note_body of an existing note.
// Returns apperr.ErrNotFound if the row is gone.
func (s *Session) Update(ctx context.Context, n models.Note) error {
	return s.execOne(ctx, "update note",
		`UPDATE notes SET title = ?, note_body = ? WHERE id = ?`,
		n.Title, n.NoteBody, n.ID)
}

// Delete removes a note. Returns apperr.ErrNotFound if the row is gone.
func (s *Session) Delete(ctx context.Context, id int64) error {
	return s.execOne(ctx, "delete note", `DELETE FROM notes WHERE id = ?`, id)
}

// execOne runs a single-row write in its own transaction.
func (s *Session) execOne(ctx context.Context, op, query string, args ...any) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Storage("begin tx", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return apperr.Storage(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Storage(op, err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return apperr.Storage("commit "+op, err)
	}
	return nil
}
