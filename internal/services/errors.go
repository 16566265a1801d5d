// Package services defines the business logic for the contact-submission
// pipeline: validation, persistence, and owner notification. This file
// centralizes service-level error values so that they can be consistently
// returned by service methods and checked by callers.
//
// Translation into user-facing messages and HTTP status codes is performed at
// the handler layer; nothing here is shown to clients verbatim except
// ValidationError messages, which are written to be safe for display.
package services

import "errors"

var (
	// ErrStoreUnavailable indicates the record store cannot be reached.
	// The write path degrades (submission accepted without persistence);
	// the read and transition paths fail closed with 503.
	ErrStoreUnavailable = errors.New("contact store unavailable")

	// ErrNotification indicates the owner notification could not be
	// dispatched. Never surfaced to clients; logged and swallowed by the
	// pipeline.
	ErrNotification = errors.New("notification dispatch failed")
)

// ValidationError rejects a submission before any side effect runs. The
// message is safe to return to the client.
type ValidationError struct {
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string { return e.Message }
