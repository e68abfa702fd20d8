package medicalrecord

import (
	"net/http"
	"net/http/httptest"
	"strconv"
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

	req := httptest.NewRequest(http.MethodPost, "/api/medical-records",
		strings.NewReader(`{"patient_id":"pat-1","problem":"Asthma","report_name":"Spirometry"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Create(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"Pending"`) {
		t.Errorf("expected default status, got %s", rec.Body.String())
	}
}

func TestHandler_ByPatient_OtherPatientForbidden(t *testing.T) {
	h, e := newTestHandler()
	record(t, h.svc, "pat-1", "Asthma")

	c := e.NewContext(withCaller(httptest.NewRequest(http.MethodGet, "/", nil), "pat-2", auth.RolePatient), httptest.NewRecorder())
	c.SetParamNames("patientId")
	c.SetParamValues("pat-1")

	if err := h.ByPatient(c); apperr.KindOf(err) != apperr.KindForbidden {
		t.Errorf("expected forbidden, got %v", err)
	}
}

func TestHandler_CountByPatient(t *testing.T) {
	h, e := newTestHandler()
	record(t, h.svc, "pat-1", "Asthma")

	rec := httptest.NewRecorder()
	c := e.NewContext(withCaller(httptest.NewRequest(http.MethodGet, "/", nil), "pat-1", auth.RolePatient), rec)
	c.SetParamNames("patientId")
	c.SetParamValues("pat-1")

	if err := h.CountByPatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"total":1`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestHandler_GetDetails_NotFound(t *testing.T) {
	h, e := newTestHandler()

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("77")

	err := h.GetDetails(c)
	if apperr.KindOf(err) != apperr.KindNotFound || err.Error() != "Medical record not found" {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestHandler_UpdateDescription(t *testing.T) {
	h, e := newTestHandler()
	r := record(t, h.svc, "pat-1", "Asthma")

	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"description":"Use inhaler"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(r.RecordID))

	if err := h.UpdateDescription(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "Description updated successfully") {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestHandler_Get_OutOfRangeID(t *testing.T) {
	h, e := newTestHandler()

	c := e.NewContext(withCaller(httptest.NewRequest(http.MethodGet, "/", nil), "admin-1", auth.RoleAdmin), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("9999999999")

	if err := h.Get(c); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}
