package clip

import "errors"

var (
	// ErrStorageUnavailable indicates the database could not be opened.
	// Callers must treat this as fatal for the requested operation.
	ErrStorageUnavailable = errors.New("clip store unavailable")

	// ErrTransaction indicates a read or write failed mid-flight.
	ErrTransaction = errors.New("clip store transaction failed")

	// ErrSchemaMismatch indicates the database schema version doesn't match
	// the expected version.
	ErrSchemaMismatch = errors.New("schema version mismatch")
)
