// Package domain defines the persistence model for contact-form submissions.
// The Contact type is mapped with GORM and is the single source of truth for
// the record schema: field limits and the status lifecycle live here and in
// the repo layer, never in HTTP handlers.
package domain

import (
	"regexp"
	"time"
)

// emailRE is the address shape accepted by the contact form: something
// without spaces or extra "@", then "@", then a domain with at least one dot.
// Deliberately loose; deliverability is the mail transport's problem.
var emailRE = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like a plausible email address.
func ValidEmail(s string) bool { return emailRE.MatchString(s) }

// Contact status lifecycle. Records are created as StatusNew and move only
// forward via explicit transitions (markRead, markReplied); archiving is an
// administrative transition. There is no delete operation.
const (
	StatusNew      = "new"
	StatusRead     = "read"
	StatusReplied  = "replied"
	StatusArchived = "archived"
)

// Field limits enforced at the store boundary. The HTTP validator may reject
// earlier, but the store is the last line of defense.
const (
	MaxNameLen    = 100
	MaxPhoneLen   = 20
	MaxMessageLen = 1000
)

// ValidStatus reports whether s is a known contact status.
func ValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusRead, StatusReplied, StatusArchived:
		return true
	}
	return false
}

// Contact represents a single contact-form submission.
//
// Invariants:
//   - Email is stored trimmed and lowercased.
//   - Status == "replied" implies Replied == true and RepliedAt set.
//   - Rows are immutable except for status transitions.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Name / Email / Phone / Message: normalized submission payload; Phone
//     defaults to "".
//   - SubmittedAt: set at creation; indexed for newest-first listing.
//   - IPAddress: captured by the HTTP boundary, never validated.
//   - Status: lifecycle state, indexed for per-status listing.
//   - Replied / RepliedAt: reply bookkeeping, set by MarkReplied.
type Contact struct {
	ID          string     `json:"id"           gorm:"type:char(36);primaryKey"`
	Name        string     `json:"name"         gorm:"type:varchar(100);not null"`
	Email       string     `json:"email"        gorm:"type:varchar(255);not null;index:idx_contacts_email"`
	Phone       string     `json:"phone"        gorm:"type:varchar(20);not null;default:''"`
	Message     string     `json:"message"      gorm:"type:text;not null"`
	SubmittedAt time.Time  `json:"submittedAt"  gorm:"not null;index:idx_contacts_submitted_at,sort:desc"`
	IPAddress   string     `json:"ipAddress,omitempty" gorm:"type:varchar(64);not null;default:''"`
	Status      string     `json:"status"       gorm:"type:varchar(16);not null;default:'new';index:idx_contacts_status;check:status IN ('new','read','replied','archived')"`
	Replied     bool       `json:"replied"      gorm:"not null;default:false"`
	RepliedAt   *time.Time `json:"repliedAt,omitempty"`
	CreatedAt   time.Time  `json:"-"`
	UpdatedAt   time.Time  `json:"-"`
}

// TableName returns the database table name for Contact.
func (Contact) TableName() string { return "contacts" }
