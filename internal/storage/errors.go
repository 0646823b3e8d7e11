package storage

import "errors"

// Sentinel errors the Driver returns. Callers match them with errors.Is.
var (
	// ErrUsage signals API misuse: a non-SELECT statement passed to Query,
	// or a malformed insert_records batch (empty, or heterogeneous key
	// sets).
	ErrUsage = errors.New("storage: usage error")

	// ErrIO signals a filesystem failure during backup or export.
	ErrIO = errors.New("storage: io error")

	// ErrAlreadyInTransaction signals Transaction was called while one is
	// already open on this Driver; transactions do not nest.
	ErrAlreadyInTransaction = errors.New("storage: transaction already open")
)
