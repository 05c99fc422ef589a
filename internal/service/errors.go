package service

import (
	"errors"
	"fmt"
)

var (
	// ErrProfileNotFound means an authenticated identity has no profile row
	ErrProfileNotFound  = errors.New("profile not found")
	ErrPropertyNotFound = errors.New("property not found")
	ErrFavoriteNotFound = errors.New("favorite not found")
)

// PersistenceError wraps a failed store operation
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func persistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}
