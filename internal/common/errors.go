// Package common defines shared constants and sentinel errors used across
// SchedVault components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Store-level errors.
	ErrorDuplicateID = errors.New("duplicate record id")
	ErrorNotFound    = errors.New("not found")

	// Oracle / protocol errors.
	ErrorInvalidCiphertext = errors.New("invalid ciphertext")
	ErrorAlreadyVerified   = errors.New("already verified")
	ErrorProofRejected     = errors.New("proof rejected")

	// Capability errors reported by oracle backends.
	ErrorNotAuthorized = errors.New("handle not authorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
