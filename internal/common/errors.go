// Package common defines shared constants and sentinel errors used across
// the cloud storage server. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Upload validation errors.
	ErrEmptyFile     = errors.New("empty file")
	ErrDuplicateName = errors.New("duplicate file name")

	// Codec errors (wrong key, corrupt or truncated blob).
	ErrCipher = errors.New("cipher error")

	// Auth errors (invalid or malformed token, expired session).
	ErrInvalidToken   = errors.New("invalid token")
	ErrSessionExpired = errors.New("session expired")
)
