// Package services holds the business operations behind the HTTP handlers.
// Every operation takes a context and returns typed errors that handlers map
// to status codes.
package services

import (
	"errors"
	"strings"

	"github.com/diewo77/go-safety/validation"
	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrSelfDelete         = errors.New("cannot delete own account while signed in")
	ErrInvalidDate        = errors.New("invalid occurrence date/time")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports rejected input fields.
type ValidationError struct {
	Message    string
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	return e.Message + ": " + strings.Join(e.Violations.Fields(), ", ")
}

// invalid wraps v with a message chosen from its contents: pure omissions
// read "Missing required fields".
func invalid(msg string, v validation.Violations) error {
	if msg == "" {
		msg = "Missing required fields"
		for _, reason := range v {
			if reason != "required" {
				msg = "Invalid fields"
				break
			}
		}
	}
	return &ValidationError{Message: msg, Violations: v}
}

// notFound maps gorm's missing-row error to ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// trimmedOrNil returns nil for blank strings.
func trimmedOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
