// Package common defines shared constants and sentinel errors used across
// the admissions client layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Validation / entity-specific errors.
	ErrValidation        = errors.New("validation error")
	ErrInvalidTransition = errors.New("invalid status transition")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")

	// Sync-queue errors.
	ErrRecordNotFailed = errors.New("record has not failed")
)
