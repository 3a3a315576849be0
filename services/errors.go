// services/errors.go - Engine Error Taxonomy
package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ValidationError reports malformed input (bad shape or value).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// StateConflictError reports a violated precondition: insufficient funds or
// stock, an already-latched completion, a missing membership. State is left
// unchanged.
type StateConflictError struct {
	Msg string
}

func (e *StateConflictError) Error() string { return e.Msg }

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

// notFound converts gorm's record-not-found into a NotFoundError, passing
// other errors through.
func notFound(what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Msg: what + " not found"}
	}
	return err
}

// HTTPStatus maps an engine error onto an HTTP status code for handlers.
func HTTPStatus(err error) int {
	var ve *ValidationError
	var ce *StateConflictError
	var nf *NotFoundError
	switch {
	case errors.As(err, &ve):
		return 400
	case errors.As(err, &nf):
		return 404
	case errors.As(err, &ce):
		return 409
	default:
		return 500
	}
}

// forUpdate adds row-level locking on dialects that support it. SQLite used
// in tests serializes writers on its own.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
