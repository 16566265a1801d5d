// Package services – ContactService
//
// This file implements the submission pipeline and the administrative
// operations over the contact store. Per request the pipeline is:
//
//	validate → store insert → owner notification
//
// The two side effects are independent: a store failure does not stop the
// notification attempt, and a notification failure does not undo the insert.
// Policy (documented in DESIGN.md): the write path degrades to "accepted
// without persistence" when the store is down, the read and transition paths
// fail closed with ErrStoreUnavailable.
package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/bpatel/go-portfolio-backend/internal/domain"
	"github.com/bpatel/go-portfolio-backend/internal/repo"
)

// AdminListLimit caps the administrative listing endpoint.
const AdminListLimit = 100

// ContactService implements the contact-submission use cases. DB may be nil
// when the process booted without a reachable store (degraded mode); every
// method must tolerate that. Notifier may be nil when no mail transport is
// configured.
type ContactService struct {
	DB       *gorm.DB
	Notifier *Notifier
}

// NewContactService constructs a ContactService bound to the given handles.
func NewContactService(db *gorm.DB, notifier *Notifier) *ContactService {
	return &ContactService{DB: db, Notifier: notifier}
}

// Submit runs the pipeline for one candidate submission.
//
// Outcomes:
//   - *ValidationError / *repo.StoreValidationError: rejected, nothing
//     persisted, no notification sent.
//   - nil error: accepted. The returned record is the persisted row, or nil
//     when the store was unavailable and the submission was accepted in
//     degraded mode (logged). The notification outcome never affects the
//     result; dispatch failures are logged and swallowed.
func (s *ContactService) Submit(ctx context.Context, in SubmissionInput) (*domain.Contact, error) {
	rec, verr := ValidateSubmission(in)
	if verr != nil {
		return nil, verr
	}

	var persisted *domain.Contact
	if s.DB == nil {
		log.Warn().Str("email", rec.Email).Msg("store unavailable, accepting submission without persistence")
	} else {
		saved, err := repo.CreateContact(ctx, s.DB, rec)
		switch {
		case err == nil:
			persisted = saved
		default:
			var sve *repo.StoreValidationError
			if errors.As(err, &sve) {
				// Schema violation at the last line of defense: reject
				// before any notification goes out.
				return nil, sve
			}
			log.Error().Err(err).Msg("contact insert failed, accepting submission without persistence")
		}
	}

	// Best effort, independent of the store outcome. rec is already
	// normalized even when nothing was persisted.
	if err := s.Notifier.Notify(ctx, rec); err != nil {
		log.Error().Err(err).Str("email", rec.Email).Msg("owner notification failed")
	}

	return persisted, nil
}

// ListRecent returns up to limit submissions, newest first, capped at
// AdminListLimit. Fails with ErrStoreUnavailable when the store is down.
func (s *ContactService) ListRecent(ctx context.Context, limit int) ([]domain.Contact, error) {
	if s.DB == nil {
		return nil, ErrStoreUnavailable
	}
	if limit <= 0 || limit > AdminListLimit {
		limit = AdminListLimit
	}
	out, err := repo.ListRecent(ctx, s.DB, limit)
	if err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}

// ListByStatus returns submissions in the given lifecycle state, newest
// first. An unknown status is reported as a *ValidationError.
func (s *ContactService) ListByStatus(ctx context.Context, status string, limit int) ([]domain.Contact, error) {
	if s.DB == nil {
		return nil, ErrStoreUnavailable
	}
	if limit <= 0 || limit > AdminListLimit {
		limit = AdminListLimit
	}
	out, err := repo.ListByStatus(ctx, s.DB, status, limit)
	if err != nil {
		var sve *repo.StoreValidationError
		if errors.As(err, &sve) {
			return nil, &ValidationError{Message: "Unknown status filter."}
		}
		return nil, storeErr(err)
	}
	return out, nil
}

// MarkRead transitions a submission to "read" (idempotent).
func (s *ContactService) MarkRead(ctx context.Context, id string) error {
	if s.DB == nil {
		return ErrStoreUnavailable
	}
	if err := repo.MarkRead(ctx, s.DB, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return err
		}
		return storeErr(err)
	}
	return nil
}

// MarkReplied transitions a submission to "replied" (idempotent, stable
// RepliedAt).
func (s *ContactService) MarkReplied(ctx context.Context, id string) error {
	if s.DB == nil {
		return ErrStoreUnavailable
	}
	if err := repo.MarkReplied(ctx, s.DB, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return err
		}
		return storeErr(err)
	}
	return nil
}

// storeErr folds unexpected persistence failures into ErrStoreUnavailable
// while logging the underlying cause. Client-facing layers only need to know
// the store could not serve the request.
func storeErr(err error) error {
	log.Error().Err(err).Msg("contact store error")
	return ErrStoreUnavailable
}
