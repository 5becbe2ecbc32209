package ledger

import (
	"errors"
	"fmt"
)

// IntegrityError reports a broken ledger invariant. These are fatal: the
// operation must not be retried and the database needs inspection.
type IntegrityError struct {
	// Code identifies the invariant that failed.
	Code IntegrityCode

	// Message is a human-readable description.
	Message string

	// TransactionID identifies the affected transaction, when known.
	TransactionID int64

	// Err is the underlying store error, if any.
	Err error
}

// IntegrityCode categorizes integrity errors.
type IntegrityCode string

const (
	// ErrCodeMissingParent indicates a transaction referenced a person or
	// asset that did not exist at insert time.
	ErrCodeMissingParent IntegrityCode = "MISSING_PARENT"

	// ErrCodeStateCorrupt indicates a stored transaction whose status and
	// timestamps disagree.
	ErrCodeStateCorrupt IntegrityCode = "STATE_CORRUPT"
)

// Error implements the error interface.
func (e *IntegrityError) Error() string {
	if e.TransactionID != 0 {
		return fmt.Sprintf("%s: %s (transaction=%d)", e.Code, e.Message, e.TransactionID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying store error.
func (e *IntegrityError) Unwrap() error {
	return e.Err
}

// IsIntegrity returns true if err is, or wraps, an IntegrityError.
func IsIntegrity(err error) bool {
	var ie *IntegrityError
	return errors.As(err, &ie)
}

// IsMissingParent returns true if err is a MISSING_PARENT integrity error.
func IsMissingParent(err error) bool {
	var ie *IntegrityError
	if errors.As(err, &ie) {
		return ie.Code == ErrCodeMissingParent
	}
	return false
}
