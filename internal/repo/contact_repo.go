// Package repo implements the data persistence layer for contact submissions,
// backed by GORM. This file provides repository functions for the Contact
// model.
//
// The repository follows a "thin" approach: it performs persistence, enforces
// the schema constraints from the domain package (it is the last line of
// defense for field limits), and composes simple queries. Policy decisions
// (degraded mode, notification behavior) live in the services package.
//
// Error semantics:
//   - Constraint violations are reported as *StoreValidationError before any
//     row is written.
//   - Missing rows are reported as ErrNotFound.
//   - Everything else (connectivity, missing table, driver faults) is the raw
//     gorm error; the service layer decides whether that means the store is
//     unavailable.
package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bpatel/go-portfolio-backend/internal/domain"
)

// DefaultRecentLimit bounds ListRecent when the caller passes limit <= 0.
const DefaultRecentLimit = 10

// validateContact checks the normalized record against the schema limits.
// Returns nil when the record is storable.
func validateContact(c *domain.Contact) *StoreValidationError {
	if strings.TrimSpace(c.Name) == "" {
		return &StoreValidationError{Field: "name", Reason: "required"}
	}
	if len(c.Name) > domain.MaxNameLen {
		return &StoreValidationError{Field: "name", Reason: "exceeds 100 characters"}
	}
	if strings.TrimSpace(c.Email) == "" {
		return &StoreValidationError{Field: "email", Reason: "required"}
	}
	if !domain.ValidEmail(c.Email) {
		return &StoreValidationError{Field: "email", Reason: "not a valid address"}
	}
	if len(c.Phone) > domain.MaxPhoneLen {
		return &StoreValidationError{Field: "phone", Reason: "exceeds 20 characters"}
	}
	if strings.TrimSpace(c.Message) == "" {
		return &StoreValidationError{Field: "message", Reason: "required"}
	}
	if len(c.Message) > domain.MaxMessageLen {
		return &StoreValidationError{Field: "message", Reason: "exceeds 1000 characters"}
	}
	if c.Status != "" && !domain.ValidStatus(c.Status) {
		return &StoreValidationError{Field: "status", Reason: "unknown status"}
	}
	return nil
}

// CreateContact inserts a submission row, assigning defaults for any field
// the caller left unset: a UUID primary key, SubmittedAt (now, UTC), status
// "new", and replied=false. The record is validated against the schema limits
// before the write; on violation no row is persisted and a
// *StoreValidationError is returned.
//
// On success the persisted record, including its generated identifier, is
// returned.
func CreateContact(ctx context.Context, db *gorm.DB, c *domain.Contact) (*domain.Contact, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.SubmittedAt.IsZero() {
		c.SubmittedAt = time.Now().UTC()
	}
	if c.Status == "" {
		c.Status = domain.StatusNew
	}
	if c.Status != domain.StatusReplied {
		c.Replied = false
		c.RepliedAt = nil
	}
	if err := validateContact(c); err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// ListRecent returns up to limit submissions ordered newest first
// (SubmittedAt DESC, ID DESC as a deterministic tiebreaker). A limit <= 0
// falls back to DefaultRecentLimit.
func ListRecent(ctx context.Context, db *gorm.DB, limit int) ([]domain.Contact, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	var out []domain.Contact
	err := db.WithContext(ctx).
		Order("submitted_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ListByStatus returns submissions in the given lifecycle state, newest
// first. An unknown status yields a *StoreValidationError without touching
// the database.
func ListByStatus(ctx context.Context, db *gorm.DB, status string, limit int) ([]domain.Contact, error) {
	if !domain.ValidStatus(status) {
		return nil, &StoreValidationError{Field: "status", Reason: "unknown status"}
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	var out []domain.Contact
	err := db.WithContext(ctx).
		Where("status = ?", status).
		Order("submitted_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// GetContact fetches a submission by ID, mapping a missing row to
// ErrNotFound.
func GetContact(ctx context.Context, db *gorm.DB, id string) (*domain.Contact, error) {
	var c domain.Contact
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// MarkRead transitions a submission from "new" to "read". The transition is
// idempotent: records already past "new" are left untouched and the call
// still succeeds. A missing record yields ErrNotFound.
func MarkRead(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := GetContact(ctx, tx, id)
		if err != nil {
			return err
		}
		if c.Status != domain.StatusNew {
			return nil
		}
		return tx.Model(c).Update("status", domain.StatusRead).Error
	})
}

// MarkReplied transitions a submission to "replied", setting replied=true and
// stamping RepliedAt. The transition is idempotent and RepliedAt is stable:
// a second call is a no-op and does not refresh the timestamp. A missing
// record yields ErrNotFound.
func MarkReplied(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := GetContact(ctx, tx, id)
		if err != nil {
			return err
		}
		if c.Replied && c.Status == domain.StatusReplied {
			return nil
		}
		now := time.Now().UTC()
		updates := map[string]any{
			"status":  domain.StatusReplied,
			"replied": true,
		}
		if c.RepliedAt == nil {
			updates["replied_at"] = now
		}
		return tx.Model(c).Updates(updates).Error
	})
}
