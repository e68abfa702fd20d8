package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medcore/medcore/internal/platform/auth"
)

type mockRecorder struct {
	mu      sync.Mutex
	entries []AuditEntry
	err     error
}

func (m *mockRecorder) RecordAccess(entry AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return m.err
}

func auditRequest(t *testing.T, method, path string, rec AuditRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	req = req.WithContext(auth.WithClaims(req.Context(), &auth.Claims{Role: auth.RoleDoctor}))
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("42")
	c.Set("request_id", "req-abc")

	err := Audit(zerolog.Nop(), rec)(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAudit_RecordsMutation(t *testing.T) {
	rec := &mockRecorder{}
	auditRequest(t, http.MethodPut, "/api/appointments/42", rec)

	if len(rec.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(rec.entries))
	}
	got := rec.entries[0]
	if got.Action != "update" || got.Resource != "appointments" || got.EntityID != "42" {
		t.Errorf("unexpected entry %+v", got)
	}
	if got.Role != auth.RoleDoctor || got.RequestID != "req-abc" || got.Status != http.StatusNoContent {
		t.Errorf("unexpected entry %+v", got)
	}
}

func TestAudit_SkipsReads(t *testing.T) {
	rec := &mockRecorder{}
	auditRequest(t, http.MethodGet, "/api/appointments/42", rec)
	if len(rec.entries) != 0 {
		t.Errorf("expected reads to be skipped, got %d entries", len(rec.entries))
	}
}

func TestAudit_LoginAction(t *testing.T) {
	rec := &mockRecorder{}
	auditRequest(t, http.MethodPost, "/api/users/login", rec)
	if rec.entries[0].Action != "login" {
		t.Errorf("expected login action, got %s", rec.entries[0].Action)
	}
}

func TestAudit_RecorderErrorDoesNotFailRequest(t *testing.T) {
	rec := &mockRecorder{err: errors.New("disk full")}
	auditRequest(t, http.MethodDelete, "/api/doctors/42", rec)
	if rec.entries[0].Action != "delete" {
		t.Errorf("expected delete action, got %s", rec.entries[0].Action)
	}
}

func TestResourceFromPath(t *testing.T) {
	tests := map[string]string{
		"/api/medical-records/3": "medical-records",
		"/api/users":             "users",
		"/api/":                  "unknown",
	}
	for in, want := range tests {
		if got := resourceFromPath(in); got != want {
			t.Errorf("resourceFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}
