package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrContactNotFound signals a missing contact.
	ErrContactNotFound = errors.New("contact not found")
	// ErrEmptyContact signals a record without name, phone and email.
	ErrEmptyContact = errors.New("contact needs a name, phone or email")
	// ErrDuplicateContact signals that a stored contact matches the submission.
	ErrDuplicateContact = errors.New("duplicate contact")
	// ErrInvalidInput signals a malformed request.
	ErrInvalidInput = errors.New("invalid input")
	// ErrLockTimeout signals that a per-user lock could not be taken in time.
	ErrLockTimeout = errors.New("lock timeout")
)

// DuplicateError wraps ErrDuplicateContact with the key of the matched contact.
type DuplicateError struct {
	ExistingID string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s: matches contact %s", ErrDuplicateContact.Error(), e.ExistingID)
}

func (e *DuplicateError) Unwrap() error { return ErrDuplicateContact }

// NewDuplicate creates a duplicate contact error.
func NewDuplicate(existingID string) error {
	return &DuplicateError{ExistingID: existingID}
}
