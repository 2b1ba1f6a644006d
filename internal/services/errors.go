package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ValidationError marks a missing or blank required field (400 at the boundary).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError marks an absent referenced id (404 at the boundary).
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// ConflictError marks a unique-constraint violation (409 at the boundary).
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// StoreError wraps any other persistence failure with the operation that hit it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return "failed to " + e.Op + ": " + e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }

// isUniqueViolation detects a unique-constraint failure from the SQLite driver.
// The driver does not always translate to gorm.ErrDuplicatedKey, so the
// constraint message is checked as well.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
