package repository

import "errors"

var (
	// ErrNotFound indicates no snapshot is stored under the key.
	ErrNotFound = errors.New("not found")

	// ErrCorrupt indicates a stored snapshot could not be decoded or has an
	// unknown schema version.
	ErrCorrupt = errors.New("corrupt snapshot")
)
