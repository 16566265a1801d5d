// Package repo implements the data persistence layer for contact submissions,
// backed by GORM. This file centralizes repo-level error values and types so
// the service layer can translate them into stable, client-safe results.
package repo

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a contact lookup matches no row.
var ErrNotFound = errors.New("record not found")

// StoreValidationError reports a field that violates the schema constraints
// at the store boundary (length limits, email shape, status enum). The store
// is the authority on these limits; handlers may reject earlier but must not
// redefine them.
type StoreValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *StoreValidationError) Error() string {
	return fmt.Sprintf("contact store: invalid %s: %s", e.Field, e.Reason)
}
