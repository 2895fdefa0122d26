// Package storeerr defines the sentinel error taxonomy shared by every
// storage-layer package (valuecodec, graphenv, intern, store, batch). Callers compare with errors.Is; layers wrap with fmt.Errorf's
// %w so the sentinel survives through store -> batch -> adapter.
package storeerr

import "errors"

var (
	// NotFound is returned when a requested node, edge, or interned name
	// does not exist.
	NotFound = errors.New("not found")

	// DimMismatch is returned when a vector's byte length is not a
	// multiple of 4, or its decoded dimension conflicts with the dim
	// already pinned for that vector tag.
	DimMismatch = errors.New("vector dimension mismatch")

	// CorruptEncoding is returned by a codec on truncation, an unknown
	// tag byte, or trailing bytes after a complete decode.
	CorruptEncoding = errors.New("corrupt encoding")

	// TxnClosed is returned when an operation is attempted on a
	// transaction that has already committed or aborted.
	TxnClosed = errors.New("transaction closed")

	// Backend wraps any error surfaced by the underlying key-value store
	// (map full, I/O failure, directory lock held by another process).
	Backend = errors.New("backend error")

	// AlreadyExists names an identifier that is already in use. No
	// operation in this repository returns it: create operations always
	// allocate a fresh id.
	AlreadyExists = errors.New("already exists")
)
