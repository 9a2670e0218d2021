package types

import (
	"errors"
	"fmt"
)

// CommitErrorKind tags why a commit failed.
type CommitErrorKind int

const (
	// CommitOther covers faults outside declared data-integrity rules:
	// connectivity loss, closed handles, programming errors.
	CommitOther CommitErrorKind = iota

	// CommitConstraintViolation means the write broke a declared rule:
	// a UNIQUE, CHECK, NOT NULL or FOREIGN KEY constraint, or an entity
	// validation tag.
	CommitConstraintViolation

	// CommitConcurrency means an update or delete matched no row.
	CommitConcurrency
)

func (k CommitErrorKind) String() string {
	switch k {
	case CommitConstraintViolation:
		return "constraint violation"
	case CommitConcurrency:
		return "concurrency"
	default:
		return "other"
	}
}

// CommitError is returned by a session commit that did not persist.
type CommitError struct {
	Kind  CommitErrorKind
	Op    string // insert, update, delete, validate, begin, commit
	Table string
	Err   error
}

func (e *CommitError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("commit %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("commit %s %s: %s: %v", e.Op, e.Table, e.Kind, e.Err)
}

func (e *CommitError) Unwrap() error { return e.Err }

// Expected reports whether the failure is a rejected write rather than a
// fault. Expected failures are absorbed by repositories.
func (e *CommitError) Expected() bool {
	return e.Kind == CommitConstraintViolation || e.Kind == CommitConcurrency
}

// IsConstraintViolation reports whether err is a CommitError of kind
// CommitConstraintViolation.
func IsConstraintViolation(err error) bool {
	var ce *CommitError
	return errors.As(err, &ce) && ce.Kind == CommitConstraintViolation
}

// IsExpectedCommitFailure reports whether err is a CommitError whose
// failure is expected.
func IsExpectedCommitFailure(err error) bool {
	var ce *CommitError
	return errors.As(err, &ce) && ce.Expected()
}
