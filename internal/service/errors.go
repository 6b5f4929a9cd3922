package service

import (
	"errors"
	"fmt"
)

// Sentinels the HTTP layer maps to status codes. Domain errors are wrapped so
// both the category and the concrete cause match errors.Is.
var (
	ErrInvalid      = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNoQuestions  = errors.New("no questions found")
)

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalid, err)
}

func forbidden(err error) error {
	return fmt.Errorf("%w: %w", ErrForbidden, err)
}
