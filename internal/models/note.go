// Package models defines the domain types for scribe.
package models

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Note is a persisted note. ID is assigned by the store.
type Note struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	NoteBody string `json:"note_body"`
}

// NoteInput carries the client-supplied fields for create and full update.
// Either field may be empty, but not both.
type NoteInput struct {
	Title    string `json:"title"`
	NoteBody string `json:"note_body"`
}

// errBothEmpty is reported by atLeastOne; callers attach their own message.
var errBothEmpty = errors.New("title and note_body are both empty")

// noteFields has NoteInput's layout without its Validate method, so the rule
// below does not recurse back into NoteInput.Validate.
type noteFields NoteInput

// Validate reports whether the input satisfies the at-least-one-field rule.
func (in NoteInput) Validate() error {
	return validation.Validate(noteFields(in), validation.By(atLeastOne))
}

// IsEmpty reports whether both fields are empty strings.
func (in NoteInput) IsEmpty() bool {
	return in.Title == "" && in.NoteBody == ""
}

func atLeastOne(value any) error {
	in, _ := value.(noteFields)
	if NoteInput(in).IsEmpty() {
		return errBothEmpty
	}
	return nil
}

// Apply replaces both fields of n with in, leaving the id untouched.
func (n Note) Apply(in NoteInput) Note {
	n.Title = in.Title
	n.NoteBody = in.NoteBody
	return n
}
