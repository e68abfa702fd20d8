package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestSessions_StartSetsCookie(t *testing.T) {
	s := &Sessions{Issuer: NewIssuer(testSecret, time.Hour), Revocations: NewRevocationStore(0)}
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	s.Start(c, "abc")

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != "abc" || cookies[0].MaxAge != 3600 {
		t.Fatalf("unexpected cookies %+v", cookies)
	}
}

func TestSessions_EndRevokesToken(t *testing.T) {
	s := &Sessions{Issuer: NewIssuer(testSecret, time.Hour), Revocations: NewRevocationStore(0)}
	token, claims, err := s.Issuer.Issue(Principal{ID: "u1", Role: RolePatient})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	s.End(e.NewContext(req, rec))

	if !s.Revocations.IsRevoked(claims.ID) {
		t.Error("expected token to be revoked")
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("expected cleared cookie, got %+v", cookies)
	}
}

func TestSessions_EndWithoutToken(t *testing.T) {
	s := &Sessions{Issuer: NewIssuer(testSecret, time.Hour), Revocations: NewRevocationStore(0)}
	e := echo.New()
	rec := httptest.NewRecorder()
	s.End(e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec))

	if s.Revocations.Count() != 0 {
		t.Errorf("expected nothing revoked, got %d", s.Revocations.Count())
	}
}
