package envelope

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medcore/medcore/internal/platform/apperr"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestList_EmptySliceIsArray(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var items []string
	if err := List(c, items); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"data":[]`) {
		t.Errorf("expected empty array, got %s", rec.Body.String())
	}
	body := decode(t, rec)
	if body["count"].(float64) != 0 {
		t.Errorf("expected count 0, got %v", body["count"])
	}
}

func TestCreated(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := Created(c, "User created successfully", map[string]string{"user_id": "u1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	body := decode(t, rec)
	if body["success"] != true || body["message"] != "User created successfully" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestErrorHandler_MapsKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", apperr.Validation("email is required"), http.StatusBadRequest},
		{"not found", fmt.Errorf("lookup: %w", apperr.NotFound("User not found")), http.StatusNotFound},
		{"conflict", apperr.Conflict("User with this email already exists"), http.StatusConflict},
		{"unauthenticated", apperr.Unauthenticated(apperr.CodeTokenMissing, "Access denied. No token provided."), http.StatusUnauthorized},
		{"forbidden", apperr.Forbidden("Access denied"), http.StatusForbidden},
		{"echo error", echo.NewHTTPError(http.StatusMethodNotAllowed, "method not allowed"), http.StatusMethodNotAllowed},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			ErrorHandler(zerolog.Nop(), false)(tt.err, c)

			if rec.Code != tt.code {
				t.Errorf("expected %d, got %d", tt.code, rec.Code)
			}
			body := decode(t, rec)
			if body["success"] != false {
				t.Errorf("expected success=false, got %v", body["success"])
			}
		})
	}
}

func TestErrorHandler_HidesInternalDetailInProduction(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := apperr.Internal(errors.New("pq: relation users does not exist"), "database error")
	ErrorHandler(zerolog.Nop(), true)(err, c)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "relation") {
		t.Errorf("internal detail leaked: %s", rec.Body.String())
	}
}

func TestErrorHandler_ShowsInternalDetailInDevelopment(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ErrorHandler(zerolog.Nop(), false)(apperr.Internal(errors.New("conn reset"), "database error"), c)

	body := decode(t, rec)
	if body["message"] != "database error: conn reset" {
		t.Errorf("unexpected message %v", body["message"])
	}
}

func TestErrorHandler_CarriesAuthCode(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ErrorHandler(zerolog.Nop(), true)(apperr.Unauthenticated(apperr.CodeTokenExpired, "Token expired. Please login again."), c)

	body := decode(t, rec)
	if body["code"] != apperr.CodeTokenExpired {
		t.Errorf("expected code %s, got %v", apperr.CodeTokenExpired, body["code"])
	}
}
