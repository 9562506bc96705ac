package store

import (
	"context"

	"github.com/starford/scribe/internal/models"
)

// Repository is the set of note operations available within one session.
// Each write commits on its own; nothing spans calls.
type Repository interface {
	Insert(ctx context.Context, in models.NoteInput) (models.Note, error)
	SelectAll(ctx context.Context) ([]models.Note, error)
	// SelectByID returns nil, nil when no note has the id.
	SelectByID(ctx context.Context, id int64) (*models.Note, error)
	Update(ctx context.Context, n models.Note) error
	Delete(ctx context.Context, id int64) error
	Close() error
}

// Opener hands out sessions. Consumers should depend on this rather than *DB.
type Opener interface {
	Session(ctx context.Context) (Repository, error)
}

var (
	_ Opener     = (*DB)(nil)
	_ Repository = (*Session)(nil)
)
