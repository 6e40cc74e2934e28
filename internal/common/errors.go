// Package common defines shared constants and sentinel errors used across
// the panel and store-service layers of Vigia. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository/remote-row errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Remote write surfaced as a failure result, never a panic.
	ErrorRemoteWrite = errors.New("remote write failed")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
