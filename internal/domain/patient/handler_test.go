package patient

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/medcore/medcore/internal/platform/apperr"
	"github.com/medcore/medcore/internal/platform/auth"
)

func newTestHandler() (*Handler, *echo.Echo) {
	svc, _ := newTestService()
	return NewHandler(svc), echo.New()
}

func withCaller(req *http.Request, id, role string) *http.Request {
	claims := &auth.Claims{Role: role}
	claims.Subject = id
	return req.WithContext(auth.WithClaims(req.Context(), claims))
}

func TestHandler_Create(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/patients", strings.NewReader(`{"user_id":"pat-1","problem":"Cough"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Create(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
}

func TestHandler_Get_OwnerAllowed(t *testing.T) {
	h, e := newTestHandler()
	p := createRecord(t, h.svc, "pat-1", "Cough")

	rec := httptest.NewRecorder()
	c := e.NewContext(withCaller(httptest.NewRequest(http.MethodGet, "/", nil), "pat-1", auth.RolePatient), rec)
	c.SetParamNames("id")
	c.SetParamValues(p.ID)

	if err := h.Get(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_GetDetails_OtherPatientForbidden(t *testing.T) {
	h, e := newTestHandler()
	p := createRecord(t, h.svc, "pat-1", "Cough")

	c := e.NewContext(withCaller(httptest.NewRequest(http.MethodGet, "/", nil), "pat-2", auth.RolePatient), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(p.ID)

	if err := h.GetDetails(c); apperr.KindOf(err) != apperr.KindForbidden {
		t.Errorf("expected forbidden, got %v", err)
	}
}

func TestHandler_ByUser_Staff(t *testing.T) {
	h, e := newTestHandler()
	createRecord(t, h.svc, "pat-1", "Cough")

	rec := httptest.NewRecorder()
	c := e.NewContext(withCaller(httptest.NewRequest(http.MethodGet, "/", nil), "doc-1", auth.RoleDoctor), rec)
	c.SetParamNames("userId")
	c.SetParamValues("pat-1")

	if err := h.ByUser(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"count":1`) {
		t.Errorf("expected one record, got %s", rec.Body.String())
	}
}

func TestHandler_Delete(t *testing.T) {
	h, e := newTestHandler()
	p := createRecord(t, h.svc, "pat-1", "Cough")

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues(p.ID)

	if err := h.Delete(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "Patient details deleted successfully") {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}
