// Package noteservice implements the note operations shared by the HTTP API
// and the MCP tool surface.
package noteservice

import (
	"context"
	"errors"
	"log/slog"

	"github.com/starford/scribe/internal/apperr"
	"github.com/starford/scribe/internal/models"
	"github.com/starford/scribe/internal/store"
)

// Client-facing messages.
const (
	MsgCreateEmpty = "Both 'title' and 'note_body' are empty. These are optional attributes but at least one must be provided."
	MsgUpdateEmpty = "The note's `title` and `note_body` can't be both empty"
	MsgDeleted     = "Note deleted successfully"
)

// Event kinds passed to Publisher.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// Publisher receives a notification after every committed change.
type Publisher interface {
	PublishNoteEvent(kind string, id int64)
}

// Service validates input and runs each operation in its own store session.
type Service struct {
	db     store.Opener
	events Publisher
}

// NewService creates a new note service. events may be nil.
func NewService(db store.Opener, events Publisher) *Service {
	return &Service{db: db, events: events}
}

// ListNotes returns every note in ascending id order.
func (s *Service) ListNotes(ctx context.Context) ([]models.Note, error) {
	ctx = context.WithoutCancel(ctx)
	sess, err := s.db.Session(ctx)
	if err != nil {
		return nil, err
	}
	defer release(sess)

	return sess.SelectAll(ctx)
}

// CreateNote validates in and stores it as a new note.
func (s *Service) CreateNote(ctx context.Context, in models.NoteInput) (models.Note, error) {
	if err := in.Validate(); err != nil {
		return models.Note{}, apperr.Validation(MsgCreateEmpty)
	}

	ctx = context.WithoutCancel(ctx)
	sess, err := s.db.Session(ctx)
	if err != nil {
		return models.Note{}, err
	}
	defer release(sess)

	n, err := sess.Insert(ctx, in)
	if err != nil {
		return models.Note{}, err
	}
	s.publish(EventCreated, n.ID)
	return n, nil
}

// UpdateNote replaces both fields of note id. Validation happens before the
// note is looked up.
func (s *Service) UpdateNote(ctx context.Context, id int64, in models.NoteInput) (models.Note, error) {
	if err := in.Validate(); err != nil {
		return models.Note{}, apperr.Validation(MsgUpdateEmpty)
	}

	ctx = context.WithoutCancel(ctx)
	sess, err := s.db.Session(ctx)
	if err != nil {
		return models.Note{}, err
	}
	defer release(sess)

	existing, err := sess.SelectByID(ctx, id)
	if err != nil {
		return models.Note{}, err
	}
	if existing == nil {
		return models.Note{}, notFound(id)
	}

	updated := existing.Apply(in)
	if err := sess.Update(ctx, updated); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return models.Note{}, notFound(id)
		}
		return models.Note{}, err
	}
	s.publish(EventUpdated, id)
	return updated, nil
}

// DeleteNote removes note id.
func (s *Service) DeleteNote(ctx context.Context, id int64) error {
	ctx = context.WithoutCancel(ctx)
	sess, err := s.db.Session(ctx)
	if err != nil {
		return err
	}
	defer release(sess)

	existing, err := sess.SelectByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return notFound(id)
	}
	if err := sess.Delete(ctx, id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return notFound(id)
		}
		return err
	}
	s.publish(EventDeleted, id)
	return nil
}

func (s *Service) publish(kind string, id int64) {
	if s.events != nil {
		s.events.PublishNoteEvent(kind, id)
	}
}

func notFound(id int64) error {
	return apperr.NotFound("Note with `id`: `%d` doesn't exist.", id)
}

func release(sess store.Repository) {
	if err := sess.Close(); err != nil {
		slog.Warn("release session failed", slog.String("error", err.Error()))
	}
}
