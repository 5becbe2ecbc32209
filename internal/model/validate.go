package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ValidationError reports malformed caller input.
// Raised before any store mutation; nothing is partially applied.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation returns true if err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ParsePersonID parses a person identifier from caller input.
// Surrounding whitespace is ignored; the value must be a positive decimal integer.
func ParsePersonID(raw string) (PersonID, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, &ValidationError{Field: "person_id", Reason: "must not be empty"}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, &ValidationError{Field: "person_id", Value: raw, Reason: "must be an integer"}
	}
	if n <= 0 {
		return 0, &ValidationError{Field: "person_id", Value: raw, Reason: "must be positive"}
	}
	return PersonID(n), nil
}

// CheckPersonID validates an already-numeric identifier.
func CheckPersonID(id PersonID) error {
	if id <= 0 {
		return &ValidationError{Field: "person_id", Value: id.String(), Reason: "must be positive"}
	}
	return nil
}

// ParseAssetTag normalizes an asset tag from caller input.
// Tags carry no case or format rules; only emptiness is rejected.
func ParseAssetTag(raw string) (string, error) {
	tag := NormalizeText(raw)
	if tag == "" {
		return "", &ValidationError{Field: "asset_tag", Reason: "must not be empty"}
	}
	return tag, nil
}

// ParseTransactionID parses a ledger identifier from caller input.
func ParseTransactionID(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, &ValidationError{Field: "transaction_id", Reason: "must not be empty"}
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil {
		return 0, &ValidationError{Field: "transaction_id", Value: raw, Reason: "must be an integer"}
	}
	return n, nil
}
