package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bpatel/go-portfolio-backend/internal/domain"
	"github.com/bpatel/go-portfolio-backend/internal/repo"
	"github.com/bpatel/go-portfolio-backend/internal/services"
)

// stubContactService scripts the pipeline per test case.
type stubContactService struct {
	submitErr     error
	submitGotIP   string
	listItems     []domain.Contact
	listErr       error
	listGotStatus string
	listGotLimit  int
	transitionErr error
	transitionID  string
}

func (s *stubContactService) Submit(_ context.Context, in services.SubmissionInput) (*domain.Contact, error) {
	s.submitGotIP = in.IPAddress
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	return &domain.Contact{ID: "c1"}, nil
}

func (s *stubContactService) ListRecent(_ context.Context, limit int) ([]domain.Contact, error) {
	s.listGotLimit = limit
	return s.listItems, s.listErr
}

func (s *stubContactService) ListByStatus(_ context.Context, status string, limit int) ([]domain.Contact, error) {
	s.listGotStatus = status
	s.listGotLimit = limit
	return s.listItems, s.listErr
}

func (s *stubContactService) MarkRead(_ context.Context, id string) error {
	s.transitionID = id
	return s.transitionErr
}

func (s *stubContactService) MarkReplied(_ context.Context, id string) error {
	s.transitionID = id
	return s.transitionErr
}

func newTestRouter(svc ContactService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(svc)
	r := gin.New()
	api := r.Group("/api")
	api.POST("/contact", h.SubmitContact)
	api.GET("/contacts", h.ListContacts)
	api.PUT("/contacts/:id/read", h.MarkRead)
	api.PUT("/contacts/:id/replied", h.MarkReplied)
	r.NoRoute(RouteNotFound)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var e Envelope
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("invalid envelope: %v (%s)", err, w.Body.String())
	}
	return e
}

func TestSubmitContact_Success(t *testing.T) {
	svc := &stubContactService{}
	r := newTestRouter(svc)

	w := postJSON(r, "/api/contact", `{"name":"Ana","email":"ana@example.com","message":"hi"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", w.Code)
	}
	e := decodeEnvelope(t, w)
	if !e.Success || e.Message != msgSubmitted {
		t.Fatalf("unexpected envelope: %+v", e)
	}
	if svc.submitGotIP == "" {
		t.Fatalf("expected client IP to be captured")
	}
}

func TestSubmitContact_MalformedJSON(t *testing.T) {
	r := newTestRouter(&stubContactService{})

	w := postJSON(r, "/api/contact", `{"name": `)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400", w.Code)
	}
	if e := decodeEnvelope(t, w); e.Success || e.Message != msgInvalidJSON {
		t.Fatalf("unexpected envelope: %+v", e)
	}
}

func TestSubmitContact_ValidationFailure(t *testing.T) {
	svc := &stubContactService{submitErr: &services.ValidationError{Message: "Please provide a valid email address."}}
	r := newTestRouter(svc)

	w := postJSON(r, "/api/contact", `{"name":"Ana","email":"nope","message":"hi"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400", w.Code)
	}
	if e := decodeEnvelope(t, w); e.Success || e.Message != "Please provide a valid email address." {
		t.Fatalf("unexpected envelope: %+v", e)
	}
}

func TestSubmitContact_StoreValidationFailure(t *testing.T) {
	svc := &stubContactService{submitErr: &repo.StoreValidationError{Field: "name", Reason: "exceeds 100 characters"}}
	r := newTestRouter(svc)

	w := postJSON(r, "/api/contact", `{"name":"...","email":"a@b.co","message":"hi"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400", w.Code)
	}
	if e := decodeEnvelope(t, w); e.Message != "Name cannot exceed 100 characters." {
		t.Fatalf("unexpected envelope: %+v", e)
	}
}

func TestSubmitContact_UnexpectedError(t *testing.T) {
	svc := &stubContactService{submitErr: errors.New("boom")}
	r := newTestRouter(svc)

	w := postJSON(r, "/api/contact", `{"name":"Ana","email":"a@b.co","message":"hi"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d; want 500", w.Code)
	}
	if e := decodeEnvelope(t, w); e.Success || e.Message != msgSubmitError {
		t.Fatalf("unexpected envelope: %+v", e)
	}
}

func TestListContacts_Success(t *testing.T) {
	now := time.Now().UTC()
	svc := &stubContactService{listItems: []domain.Contact{
		{ID: "c2", Name: "B", Email: "b@b.co", Message: "m2", SubmittedAt: now, Status: domain.StatusNew},
		{ID: "c1", Name: "A", Email: "a@a.co", Message: "m1", SubmittedAt: now.Add(-time.Hour), Status: domain.StatusRead},
	}}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", w.Code)
	}
	var resp ListContactsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !resp.Success || len(resp.Contacts) != 2 || resp.Contacts[0].ID != "c2" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if svc.listGotLimit != services.AdminListLimit {
		t.Fatalf("default limit = %d; want %d", svc.listGotLimit, services.AdminListLimit)
	}
}

func TestListContacts_EmptyIsArrayNotNull(t *testing.T) {
	r := newTestRouter(&stubContactService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"contacts":[]`) {
		t.Fatalf("expected empty array, got %s", w.Body.String())
	}
}

func TestListContacts_LimitClamping(t *testing.T) {
	svc := &stubContactService{}
	r := newTestRouter(svc)

	for _, tc := range []struct {
		query string
		want  int
	}{
		{"limit=5", 5},
		{"limit=500", services.AdminListLimit},
		{"limit=0", services.AdminListLimit},
		{"limit=-3", services.AdminListLimit},
		{"limit=abc", services.AdminListLimit},
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/contacts?"+tc.query, nil)
		r.ServeHTTP(w, req)
		if svc.listGotLimit != tc.want {
			t.Errorf("%s: limit = %d; want %d", tc.query, svc.listGotLimit, tc.want)
		}
	}
}

func TestListContacts_StatusFilter(t *testing.T) {
	svc := &stubContactService{}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/contacts?status=read", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", w.Code)
	}
	if svc.listGotStatus != "read" {
		t.Fatalf("status filter = %q; want read", svc.listGotStatus)
	}
}

func TestListContacts_UnknownStatusFilter(t *testing.T) {
	svc := &stubContactService{listErr: &services.ValidationError{Message: "Unknown status filter."}}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/contacts?status=bogus", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400", w.Code)
	}
	if e := decodeEnvelope(t, w); e.Message != "Unknown status filter." {
		t.Fatalf("unexpected envelope: %+v", e)
	}
}

func TestListContacts_StoreUnavailable(t *testing.T) {
	svc := &stubContactService{listErr: services.ErrStoreUnavailable}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d; want 503", w.Code)
	}
	if e := decodeEnvelope(t, w); e.Success || e.Message != msgStoreDown {
		t.Fatalf("unexpected envelope: %+v", e)
	}
}

func TestListContacts_UnexpectedError(t *testing.T) {
	svc := &stubContactService{listErr: errors.New("boom")}
	r := newTestRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d; want 500", w.Code)
	}
	if e := decodeEnvelope(t, w); e.Message != msgListError {
		t.Fatalf("unexpected envelope: %+v", e)
	}
}

func TestTransitions_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, http.StatusNoContent},
		{"not found", repo.ErrNotFound, http.StatusNotFound},
		{"store down", services.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, path := range []string{"/api/contacts/c1/read", "/api/contacts/c1/replied"} {
		for _, tc := range cases {
			t.Run(path+"/"+tc.name, func(t *testing.T) {
				svc := &stubContactService{transitionErr: tc.err}
				r := newTestRouter(svc)

				w := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodPut, path, nil)
				r.ServeHTTP(w, req)

				if w.Code != tc.want {
					t.Fatalf("status = %d; want %d", w.Code, tc.want)
				}
				if svc.transitionID != "c1" {
					t.Fatalf("transition id = %q; want c1", svc.transitionID)
				}
			})
		}
	}
}

func TestRouteNotFound_Envelope(t *testing.T) {
	r := newTestRouter(&stubContactService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d; want 404", w.Code)
	}
	if e := decodeEnvelope(t, w); e.Success || e.Message != msgRouteMissing {
		t.Fatalf("unexpected envelope: %+v", e)
	}
}

func Test_storeValidationMessage(t *testing.T) {
	cases := []struct {
		in   *repo.StoreValidationError
		want string
	}{
		{&repo.StoreValidationError{Field: "name", Reason: "required"}, "Name, email, and message are required fields."},
		{&repo.StoreValidationError{Field: "name", Reason: "exceeds 100 characters"}, "Name cannot exceed 100 characters."},
		{&repo.StoreValidationError{Field: "phone", Reason: "exceeds 20 characters"}, "Phone number cannot exceed 20 characters."},
		{&repo.StoreValidationError{Field: "message", Reason: "required"}, "Name, email, and message are required fields."},
		{&repo.StoreValidationError{Field: "message", Reason: "exceeds 1000 characters"}, "Message cannot exceed 1000 characters."},
		{&repo.StoreValidationError{Field: "email", Reason: "not a valid address"}, "Please provide a valid email address."},
		{&repo.StoreValidationError{Field: "status", Reason: "unknown status"}, "Invalid submission."},
	}
	for _, tc := range cases {
		if got := storeValidationMessage(tc.in); got != tc.want {
			t.Errorf("%s/%s: got %q; want %q", tc.in.Field, tc.in.Reason, got, tc.want)
		}
	}
}
