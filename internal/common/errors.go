// Package common defines sentinel errors and small helpers shared by the
// store, the shell and the bootstrap code. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Lookup errors.
	ErrNotFound = errors.New("not found")

	// Store lifecycle errors.
	ErrNotInitialized = errors.New("store is not initialized")
	ErrAlreadyExists  = errors.New("store already initialized")

	// Credential errors (wrong master password).
	ErrUnauthorized = errors.New("unauthorized")

	// Prompt errors.
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrEmptyPassword    = errors.New("password must not be empty")
)
