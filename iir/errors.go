package iir

import "github.com/seistools/stratum/meta"

// InvariantViolation is the violation value collected by Validate. It is the
// same type the metadata tables report, so version-table findings surface
// uniformly.
type InvariantViolation = meta.InvariantViolation

// Violation codes reported by Validate.
const (
	// ErrIntervalOrder: an interval's lower bound exceeds its upper bound.
	ErrIntervalOrder = "INTERVAL_ORDER"

	// ErrLoopOrder: a multistage carries a loop order outside the known
	// set (including the reserved wire code).
	ErrLoopOrder = "LOOP_ORDER"

	// ErrIDReuse: two tree nodes of the same kind share an ID.
	ErrIDReuse = "ID_REUSE"

	// ErrNodeShared: one statement node is owned by more than one place.
	ErrNodeShared = "NODE_SHARED"

	// ErrNameTable: the name tables are not mutually inverse, or an ID
	// has the wrong sign for its table.
	ErrNameTable = "NAME_TABLE"

	// ErrClassification: the classification sets overlap or name unknown
	// IDs.
	ErrClassification = "CLASSIFICATION"

	// ErrVersionTable: the versioning table is inconsistent with itself
	// or with the name table.
	ErrVersionTable = "VERSION_TABLE"

	// ErrAllocator: an allocation counter lags behind an already-issued
	// ID.
	ErrAllocator = "ALLOCATOR"

	// ErrGlobals: a global-variable entry is missing or its value kind
	// contradicts its declared kind.
	ErrGlobals = "GLOBALS"

	// ErrIncomplete: a required section of the instantiation is absent
	// (no metadata, no IR root, a pair without a statement).
	ErrIncomplete = "INCOMPLETE"
)
