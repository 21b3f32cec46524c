package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("already exists")
	ErrUnauthorized = errors.New("unauthorized")

	ErrEmptyImageURL = errors.New("image_url is empty")
)

// ValidationError lists required fields that were missing or out of range.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid or missing fields: " + strings.Join(e.Fields, ", ")
}

// PartialWriteError is returned when a multi-step product write fails after
// earlier steps were already stored. Nothing is rolled back.
type PartialWriteError struct {
	Step      string
	ProductID uuid.UUID
	Err       error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("product %s written partially, step %q failed: %v", e.ProductID, e.Step, e.Err)
}

func (e *PartialWriteError) Unwrap() error { return e.Err }
