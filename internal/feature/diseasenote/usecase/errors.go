// Package usecase implements the disease notebook.
package usecase

import "errors"

// ErrEmptyNote is returned when the note is blank after trimming.
var ErrEmptyNote = errors.New("note must not be empty")
