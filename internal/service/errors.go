package service

import (
	"errors"
	"fmt"
)

// Domain error taxonomy. These are local decisions surfaced synchronously
// to the caller; nothing here is retriable.
var (
	// ErrForbidden: the actor's role or office scope disallows the action.
	ErrForbidden = errors.New("forbidden")

	// ErrNotEligible: the actor may attempt this class of action but fails
	// a data-specific predicate (not a target of the distribution).
	ErrNotEligible = errors.New("not eligible")

	// ErrWrongOffice: the actor's office does not match the resource's.
	ErrWrongOffice = errors.New("wrong office")

	// ErrInvalidState: the actor or target is missing configuration
	// (no office assigned, office without a location) needed to evaluate
	// the rule at all.
	ErrInvalidState = errors.New("invalid state")

	// ErrAlreadyMarked: attendance for this user and day already exists.
	// Translated from the storage unique-key rejection; it means the
	// action already happened, never "retry me".
	ErrAlreadyMarked = errors.New("attendance already marked for today")

	// ErrAlreadyClaimed: this recipient already claimed this distribution.
	ErrAlreadyClaimed = errors.New("goodies already claimed")

	// ErrCapacityExhausted: the advisory pre-count found no remaining
	// quantity. A same-user race past this check still ends in
	// ErrAlreadyClaimed at insert time.
	ErrCapacityExhausted = errors.New("distribution capacity exhausted")

	ErrNotFound              = errors.New("not found")
	ErrDuplicateDistribution = errors.New("distribution already exists for this office, date and goodies type")
	ErrHasDependents         = errors.New("resource has dependent records")
	ErrInvalidInput          = errors.New("invalid input")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountNotActive   = errors.New("account is not active")
	ErrEmailTaken         = errors.New("email already registered")
)

// OutOfRangeError reports a geofence failure together with the measured
// distance so the caller can show how far off the employee is.
type OutOfRangeError struct {
	DistanceMeters float64
	AllowedMeters  float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("location is %.0fm from the office, outside the allowed %.0fm radius",
		e.DistanceMeters, e.AllowedMeters)
}
