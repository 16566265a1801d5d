// Contact HTTP handlers.
//
// This file exposes the REST endpoints for contact submissions:
//   - POST /api/contact               (public form submission)
//   - GET  /api/contacts              (admin listing, ETag support)
//   - PUT  /api/contacts/{id}/read    (status transition)
//   - PUT  /api/contacts/{id}/replied (status transition)
//
// Handlers are transport-thin: they decode input, capture boundary-only data
// (client IP), delegate to the submission pipeline, and translate service
// errors into HTTP results. Validation rules live in the services and repo
// layers; the handlers never redefine them.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bpatel/go-portfolio-backend/internal/domain"
	"github.com/bpatel/go-portfolio-backend/internal/repo"
	"github.com/bpatel/go-portfolio-backend/internal/services"
	"github.com/bpatel/go-portfolio-backend/internal/utils"
)

// Client-facing messages, kept in one place so tests and the frontend agree.
const (
	msgSubmitted    = "Thank you for your message! I will get back to you soon."
	msgSubmitError  = "Sorry, there was an error sending your message. Please try again later."
	msgStoreDown    = "Database not connected"
	msgListError    = "Error fetching contacts"
	msgNotFound     = "Contact not found"
	msgInvalidJSON  = "Invalid request body."
	msgRouteMissing = "Route not found"
)

// ContactService defines the pipeline operations consumed by HTTP handlers.
//
// Implementations must be safe for concurrent use and honor the provided
// context for cancellation.
type ContactService interface {
	// Submit runs validate → persist → notify for one candidate submission.
	Submit(ctx context.Context, in services.SubmissionInput) (*domain.Contact, error)
	// ListRecent returns up to limit submissions, newest first.
	ListRecent(ctx context.Context, limit int) ([]domain.Contact, error)
	// ListByStatus returns submissions in a lifecycle state, newest first.
	ListByStatus(ctx context.Context, status string, limit int) ([]domain.Contact, error)
	// MarkRead transitions a submission to "read" (idempotent).
	MarkRead(ctx context.Context, id string) error
	// MarkReplied transitions a submission to "replied" (idempotent).
	MarkReplied(ctx context.Context, id string) error
}

// Handlers groups the HTTP endpoints for contact submissions.
type Handlers struct {
	contactSvc ContactService
}

// New constructs a Handlers instance bound to the given service.
func New(contactSvc ContactService) *Handlers {
	return &Handlers{contactSvc: contactSvc}
}

// RouteNotFound is the fallback for unmatched routes.
func RouteNotFound(c *gin.Context) {
	Fail(c, http.StatusNotFound, msgRouteMissing)
}

//
// DTOs
//

// SubmitContactRequest is the JSON payload for a contact-form submission.
// No binding constraints here: required-field and shape checks belong to the
// pipeline so the rules exist exactly once.
type SubmitContactRequest struct {
	Name    string `json:"name" example:"Ana"`
	Email   string `json:"email" example:"ana@example.com"`
	Phone   string `json:"phone,omitempty" example:"+44 20 7946 0958"`
	Message string `json:"message" example:"Hi, I'd like to talk about a project."`
}

// ListContactsResponse wraps the admin listing.
type ListContactsResponse struct {
	Success  bool             `json:"success"`
	Contacts []domain.Contact `json:"contacts"`
}

//
// Handlers
//

// SubmitContact godoc
// @ID          submitContact
// @Summary     Submit the contact form
// @Description Validates the submission, persists it, and emails the site owner. Accepted submissions return 200 even when a side effect failed (degraded mode, logged server-side).
// @Tags        Contact
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.SubmitContactRequest  true  "Submission payload"
//
// @Success     200  {object} handlers.Envelope
// @Failure     400  {object} handlers.Envelope "Validation failure"
// @Failure     500  {object} handlers.Envelope "Unexpected error"
// @Router      /api/contact [post]
func (h *Handlers) SubmitContact(c *gin.Context) {
	var req SubmitContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	in := services.SubmissionInput{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
		IPAddress: c.ClientIP(),
	}

	if _, err := h.contactSvc.Submit(c.Request.Context(), in); err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			fail(c, http.StatusBadRequest, verr.Message)
			return
		}
		var sve *repo.StoreValidationError
		if errors.As(err, &sve) {
			fail(c, http.StatusBadRequest, storeValidationMessage(sve))
			return
		}
		fail(c, http.StatusInternalServerError, msgSubmitError)
		return
	}

	okMessage(c, msgSubmitted)
}

// ListContacts godoc
// @ID          listContacts
// @Summary     List recent submissions (admin)
// @Description Returns up to 100 submissions, newest first. Supports an optional status filter and weak ETag via If-None-Match.
// @Tags        Contact
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       status         query   string  false "Filter by status"  Enums(new, read, replied, archived)
// @Param       limit          query   int     false "Max rows"          minimum(1) maximum(100) default(100)
//
// @Success     200  {object} handlers.ListContactsResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.Envelope "Unknown status filter"
// @Failure     503  {object} handlers.Envelope "Store unavailable"
// @Router      /api/contacts [get]
func (h *Handlers) ListContacts(c *gin.Context) {
	ctx := c.Request.Context()
	status := c.Query("status")
	limit := clampLimit(c)

	// ETag pre-check (best effort, unfiltered listing only).
	if status == "" {
		if db := h.serviceDB(); db != nil {
			count, latest, err := repo.ContactStats(ctx, db)
			if err == nil {
				var ts int64
				if latest != nil {
					ts = latest.Unix()
				}
				etag := fmt.Sprintf(`W/"contacts:%d:%d"`, count, ts)
				c.Header("ETag", etag)
				if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
					c.Status(http.StatusNotModified)
					return
				}
			}
		}
	}

	var (
		items []domain.Contact
		err   error
	)
	if status != "" {
		items, err = h.contactSvc.ListByStatus(ctx, status, limit)
	} else {
		items, err = h.contactSvc.ListRecent(ctx, limit)
	}
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			fail(c, http.StatusBadRequest, verr.Message)
		case errors.Is(err, services.ErrStoreUnavailable):
			fail(c, http.StatusServiceUnavailable, msgStoreDown)
		default:
			fail(c, http.StatusInternalServerError, msgListError)
		}
		return
	}

	// Return [] not null for empty listings.
	if items == nil {
		items = []domain.Contact{}
	}
	c.JSON(http.StatusOK, ListContactsResponse{Success: true, Contacts: items})
}

// MarkRead godoc
// @ID          markContactRead
// @Summary     Mark a submission as read
// @Tags        Contact
// @Produce     json
//
// @Param       id  path  string  true  "Contact ID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     404  {object} handlers.Envelope "Contact not found"
// @Failure     503  {object} handlers.Envelope "Store unavailable"
// @Router      /api/contacts/{id}/read [put]
func (h *Handlers) MarkRead(c *gin.Context) {
	h.transition(c, h.contactSvc.MarkRead)
}

// MarkReplied godoc
// @ID          markContactReplied
// @Summary     Mark a submission as replied
// @Description Sets status=replied, replied=true, and stamps repliedAt on the first call; repeat calls are no-ops.
// @Tags        Contact
// @Produce     json
//
// @Param       id  path  string  true  "Contact ID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     404  {object} handlers.Envelope "Contact not found"
// @Failure     503  {object} handlers.Envelope "Store unavailable"
// @Router      /api/contacts/{id}/replied [put]
func (h *Handlers) MarkReplied(c *gin.Context) {
	h.transition(c, h.contactSvc.MarkReplied)
}

// transition shares the status-transition plumbing between MarkRead and
// MarkReplied.
func (h *Handlers) transition(c *gin.Context, op func(context.Context, string) error) {
	id := c.Param("id")
	if err := op(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			fail(c, http.StatusNotFound, msgNotFound)
		case errors.Is(err, services.ErrStoreUnavailable):
			fail(c, http.StatusServiceUnavailable, msgStoreDown)
		default:
			fail(c, http.StatusInternalServerError, msgListError)
		}
		return
	}
	noContent(c)
}

//
// Helpers
//

// serviceDB exposes the underlying DB handle for the ETag fast path when the
// service is the concrete implementation; stubs in tests simply skip ETags.
func (h *Handlers) serviceDB() *gorm.DB {
	if svc, ok := h.contactSvc.(*services.ContactService); ok {
		return svc.DB
	}
	return nil
}

// clampLimit parses and bounds the limit query param to [1, AdminListLimit],
// defaulting to the admin cap.
func clampLimit(c *gin.Context) int {
	limit := utils.AtoiDefault(c.Query("limit"), services.AdminListLimit)
	if limit < 1 {
		limit = 1
	}
	if limit > services.AdminListLimit {
		limit = services.AdminListLimit
	}
	return limit
}

// storeValidationMessage renders a store-boundary rejection for the client
// in the same tone as the validator's messages.
func storeValidationMessage(e *repo.StoreValidationError) string {
	switch e.Field {
	case "name":
		if e.Reason == "required" {
			return "Name, email, and message are required fields."
		}
		return "Name cannot exceed 100 characters."
	case "phone":
		return "Phone number cannot exceed 20 characters."
	case "message":
		if e.Reason == "required" {
			return "Name, email, and message are required fields."
		}
		return "Message cannot exceed 1000 characters."
	case "email":
		return "Please provide a valid email address."
	default:
		return "Invalid submission."
	}
}
