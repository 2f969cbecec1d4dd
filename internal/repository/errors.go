package repository

import "errors"

// Sentinel errors returned by every store implementation. Services map
// them onto apperr kinds.
var (
	ErrNotFound          = errors.New("record not found")
	ErrUpdateFailed      = errors.New("no records were updated")
	ErrAlreadyExists     = errors.New("record already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrInvalidID marks an identifier the store cannot parse, such as a
	// malformed ObjectID.
	ErrInvalidID = errors.New("invalid identifier")
	// ErrCorruptEntry marks a cached value that could not be decoded. The
	// entry is dropped before the error is returned.
	ErrCorruptEntry = errors.New("corrupt cache entry")
)
