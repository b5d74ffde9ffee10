package meta

import (
	"errors"
	"fmt"
)

// AccessID identifies a symbolic storage location (field, temporary, global
// variable, local variable or literal) within one compilation unit. IDs are
// allocated by the metadata subsystem and never reused within a unit.
// Literal IDs are negative; all named IDs are positive. Zero is never a
// valid ID.
type AccessID int64

// InvariantViolation reports that a structurally valid object violates a
// domain invariant. Violations are value types so that validators can
// collect every finding instead of failing fast.
type InvariantViolation struct {
	// Code identifies the violated invariant.
	Code string

	// Subject names the offending entity (an ID, a name, an interval).
	Subject string

	// Message is a human-readable description.
	Message string
}

// Violation codes owned by this package.
const (
	// ErrVersionReparented: a version ID was registered under a second
	// original.
	ErrVersionReparented = "VERSION_REPARENTED"

	// ErrVersionSelf: an ID was registered as its own version.
	ErrVersionSelf = "VERSION_SELF"

	// ErrVersionChain: a version was registered under an original that is
	// itself a version, or an original was registered as a version.
	ErrVersionChain = "VERSION_CHAIN"
)

// Error implements the error interface.
func (v InvariantViolation) Error() string {
	return fmt.Sprintf("[%s] %s: %s", v.Code, v.Subject, v.Message)
}

// IsInvariantViolation reports whether err is (or wraps) an
// InvariantViolation.
func IsInvariantViolation(err error) bool {
	var v InvariantViolation
	return errors.As(err, &v)
}

// LookupError reports a query for a name or access ID that is not present in
// the active metadata tables. It is recoverable: callers typically treat it
// as "not yet assigned" and create a fresh entry.
type LookupError struct {
	// Table names the table queried ("name", "literal", "dimensions",
	// "global").
	Table string

	// Name is the queried symbol name, when the query was by name.
	Name string

	// ID is the queried access ID, when the query was by ID.
	ID AccessID
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("metadata lookup: no %s entry for %q", e.Table, e.Name)
	}
	return fmt.Sprintf("metadata lookup: no %s entry for access id %d", e.Table, e.ID)
}

// IsLookupError reports whether err is (or wraps) a LookupError.
func IsLookupError(err error) bool {
	var le *LookupError
	return errors.As(err, &le)
}
