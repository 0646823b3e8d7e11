package engine

import "errors"

// Error kinds the engine returns, wrapped with context via fmt.Errorf's
// %w verb so callers can match them with errors.Is.
var (
	// ErrNotFound signals an id lookup failed for a named catalog entity
	// (object, class, collection, category, property, scenario,
	// membership, attribute).
	ErrNotFound = errors.New("engine: not found")

	// ErrNameInvalid signals a user-supplied name is invalid for the
	// referenced catalog (property not admitted by a collection, a
	// duplicate object name under the same class, ...).
	ErrNameInvalid = errors.New("engine: invalid name")

	// ErrNoProperties signals the object exists but has no Data rows
	// matching the requested filters.
	ErrNoProperties = errors.New("engine: object has no matching properties")

	// ErrMissingKey signals a bulk-operation record is missing a required
	// field, or references an object that does not exist.
	ErrMissingKey = errors.New("engine: missing required key")

	// ErrMultipleElements signals a lookup expected to return at most one
	// row returned more than one — a catalog inconsistency.
	ErrMultipleElements = errors.New("engine: multiple matching elements")

	// ErrIO signals a backup/export filesystem failure.
	ErrIO = errors.New("engine: io error")

	// ErrUsage signals API misuse, e.g. a non-SELECT statement passed to
	// the read path.
	ErrUsage = errors.New("engine: usage error")
)
