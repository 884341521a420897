// Package persistence provides standardized error types for storage
// operations.
package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrApplicationNotFound indicates no application exists for the id.
	ErrApplicationNotFound = errors.New("application not found")

	// ErrLoanNotFound indicates no loan exists for the given key.
	ErrLoanNotFound = errors.New("loan not found")

	// ErrDisbursementNotFound indicates no disbursement row exists for the loan.
	ErrDisbursementNotFound = errors.New("disbursement not found")

	// ErrOfferNotFound indicates no accepted offer exists for the application.
	ErrOfferNotFound = errors.New("offer not found")

	// ErrCreditScoreNotFound indicates no score is attached to the application.
	ErrCreditScoreNotFound = errors.New("credit score not found")

	// ErrLenderSignatureNotFound indicates no signature record exists for the loan.
	ErrLenderSignatureNotFound = errors.New("lender signature not found")

	// ErrAutodialerQueueNotFound indicates no dialer queue entry exists.
	ErrAutodialerQueueNotFound = errors.New("autodialer queue entry not found")

	// ErrFailureActionNotFound indicates no failure record exists for the id.
	ErrFailureActionNotFound = errors.New("failure action not found")
)

// StoreError wraps storage errors with the operation and entity that failed.
type StoreError struct {
	Op     string // operation being performed, e.g. "ByID", "Save"
	Entity string // entity kind, e.g. "application", "disbursement"
	Key    string // identifying key, formatted by the caller
	Err    error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s %s: %v", e.Op, e.Entity, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError builds a StoreError for one failed repository operation.
func NewStoreError(op, entity, key string, err error) *StoreError {
	return &StoreError{Op: op, Entity: entity, Key: key, Err: err}
}

// IsNotFound reports whether err is any of the not-found sentinels.
func IsNotFound(err error) bool {
	for _, sentinel := range []error{
		ErrApplicationNotFound,
		ErrLoanNotFound,
		ErrDisbursementNotFound,
		ErrOfferNotFound,
		ErrCreditScoreNotFound,
		ErrLenderSignatureNotFound,
		ErrAutodialerQueueNotFound,
		ErrFailureActionNotFound,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}

	return false
}
