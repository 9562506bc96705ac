package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/scribe/internal/models"
)

// NoteInputRequest is the request body for creating or updating a note.
// Both keys must be present; either value may be the empty string.
type NoteInputRequest struct {
	Title    *string `json:"title" example:"Groceries" validate:"required"`
	NoteBody *string `json:"note_body" example:"milk, eggs" validate:"required"`
}

// Validate checks the request shape. The at-least-one-field rule is applied
// by the service.
func (r NoteInputRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NotNil),
		validation.Field(&r.NoteBody, validation.NotNil),
	)
}

// Input converts a validated request into the domain input.
func (r NoteInputRequest) Input() models.NoteInput {
	var in models.NoteInput
	if r.Title != nil {
		in.Title = *r.Title
	}
	if r.NoteBody != nil {
		in.NoteBody = *r.NoteBody
	}
	return in
}

// Note is the note response type (aliased from the domain layer).
type Note = models.Note
