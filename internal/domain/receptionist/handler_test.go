package receptionist

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
	return NewHandler(svc, &auth.Sessions{Issuer: svc.issuer, Revocations: auth.NewRevocationStore(0)}), echo.New()
}

func TestHandler_Login(t *testing.T) {
	h, e := newTestHandler()
	createDesk(t, h.svc, "Jo Park", "jo@clinic.io")

	req := httptest.NewRequest(http.MethodPost, "/api/receptionist/login",
		strings.NewReader(`{"username":"jo.park","password":"frontdesk"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Login(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"token":"`) {
		t.Errorf("expected token in body, got %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Errorf("password leaked: %s", rec.Body.String())
	}
	if len(rec.Result().Cookies()) != 1 {
		t.Error("expected session cookie")
	}
}

func TestHandler_Create(t *testing.T) {
	h, e := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/receptionist",
		strings.NewReader(`{"name":"Front Desk","number":"555","email":"fd@clinic.io","password":"pw"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.Create(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
}

func TestHandler_Get_OtherReceptionistForbidden(t *testing.T) {
	h, e := newTestHandler()
	rc := createDesk(t, h.svc, "Jo Park", "jo@clinic.io")

	claims := &auth.Claims{Role: auth.RoleReceptionist}
	claims.Subject = "another-desk"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(auth.WithClaims(req.Context(), claims))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(rc.ID)

	if err := h.Get(c); apperr.KindOf(err) != apperr.KindForbidden {
		t.Errorf("expected forbidden, got %v", err)
	}
}

func TestHandler_DeleteAll(t *testing.T) {
	h, e := newTestHandler()
	createDesk(t, h.svc, "Jo Park", "jo@clinic.io")

	rec := httptest.NewRecorder()
	if err := h.DeleteAll(e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "All receptionists deleted successfully") {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}
