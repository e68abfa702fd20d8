package notification

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

	body := `{"patient_id":"pat-1","message":"Reminder","notification_type":"appointment_reminder","appointment_id":3}`
	req := httptest.NewRequest(http.MethodPost, "/api/notifications", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Create(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"appointment_id":3`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestHandler_CountUnread(t *testing.T) {
	h, e := newTestHandler()
	notify(t, h.svc, "pat-1", TypeGeneral)
	notify(t, h.svc, "pat-1", TypeGeneral)

	rec := httptest.NewRecorder()
	c := e.NewContext(withCaller(httptest.NewRequest(http.MethodGet, "/", nil), "pat-1", auth.RolePatient), rec)
	c.SetParamNames("patientId")
	c.SetParamValues("pat-1")

	if err := h.CountUnread(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"unread":2`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestHandler_MarkAllSeen(t *testing.T) {
	h, e := newTestHandler()
	notify(t, h.svc, "pat-1", TypeGeneral)
	notify(t, h.svc, "pat-1", TypeGeneral)

	rec := httptest.NewRecorder()
	c := e.NewContext(withCaller(httptest.NewRequest(http.MethodPatch, "/", nil), "pat-1", auth.RolePatient), rec)
	c.SetParamNames("patientId")
	c.SetParamValues("pat-1")

	if err := h.MarkAllSeen(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "2 notification(s) marked as seen") {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestHandler_MarkSeen_OtherPatientForbidden(t *testing.T) {
	h, e := newTestHandler()
	n := notify(t, h.svc, "pat-1", TypeGeneral)

	c := e.NewContext(withCaller(httptest.NewRequest(http.MethodPatch, "/", nil), "pat-2", auth.RolePatient), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(n.NotificationID))

	if err := h.MarkSeen(c); apperr.KindOf(err) != apperr.KindForbidden {
		t.Errorf("expected forbidden, got %v", err)
	}
}

func TestHandler_PurgeOld(t *testing.T) {
	h, e := newTestHandler()

	rec := httptest.NewRecorder()
	if err := h.PurgeOld(e.NewContext(httptest.NewRequest(http.MethodDelete, "/api/notifications/old", nil), rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "0 old notification(s) deleted") {
		t.Errorf("unexpected body %s", rec.Body.String())
	}

	err := h.PurgeOld(e.NewContext(httptest.NewRequest(http.MethodDelete, "/api/notifications/old?days=abc", nil), httptest.NewRecorder()))
	if he, ok := err.(*echo.HTTPError); !ok || he.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
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
