// Package services – submission validation.
//
// ValidateSubmission is the first stage of the pipeline: a pure function that
// either normalizes the candidate record or rejects it. Length limits are
// deliberately NOT checked here; the store boundary is the authority on those
// (defense in depth, single source of truth).
package services

import (
	"strings"

	"github.com/bpatel/go-portfolio-backend/internal/domain"
)

// SubmissionInput is the candidate record received at the boundary.
// IPAddress is captured by the HTTP layer and is never validated.
type SubmissionInput struct {
	Name      string
	Email     string
	Phone     string
	Message   string
	IPAddress string
}

// ValidateSubmission checks required fields and email shape, then returns the
// normalized record: all text fields trimmed, email lowercased, phone
// defaulted to "". It has no side effects.
//
// Rejections:
//   - name, email, or message missing/blank
//   - email not matching local@domain.tld shape
func ValidateSubmission(in SubmissionInput) (*domain.Contact, *ValidationError) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	phone := strings.TrimSpace(in.Phone)
	message := strings.TrimSpace(in.Message)

	if name == "" || email == "" || message == "" {
		return nil, &ValidationError{Message: "Name, email, and message are required fields."}
	}
	if !domain.ValidEmail(email) {
		return nil, &ValidationError{Message: "Please provide a valid email address."}
	}

	return &domain.Contact{
		Name:      name,
		Email:     email,
		Phone:     phone,
		Message:   message,
		IPAddress: strings.TrimSpace(in.IPAddress),
	}, nil
}
