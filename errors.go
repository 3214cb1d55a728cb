package lumen

import "errors"

// Failure categories shared by the light store, the name system and the
// scene codec. Callers match with errors.Is; every returned error wraps
// exactly one of these.
var (
	// ErrNotFound is returned by lookups and removals when no record
	// exists for the given entity id or name.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEntity is returned when inserting a light for an entity
	// that already has one.
	ErrDuplicateEntity = errors.New("duplicate entity")

	// ErrInvalidArgument is returned for malformed batches: length
	// mismatches and duplicate ids or names within or against the store.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrCorruptData is returned when a serialized section ends before its
	// declared record count is satisfied, or its contents are inconsistent.
	ErrCorruptData = errors.New("corrupt data")
)
