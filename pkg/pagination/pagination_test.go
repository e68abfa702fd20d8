package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func ctxWithQuery(q string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/"+q, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestFromContext_DefaultsToUnbounded(t *testing.T) {
	p := FromContext(ctxWithQuery(""))
	if p.Limit != 0 || p.Offset != 0 {
		t.Errorf("expected zero params, got %+v", p)
	}
}

func TestFromContext_CustomValues(t *testing.T) {
	p := FromContext(ctxWithQuery("?limit=50&offset=10"))
	if p.Limit != 50 || p.Offset != 10 {
		t.Errorf("expected 50/10, got %+v", p)
	}
}

func TestFromContext_ClampsAndIgnoresGarbage(t *testing.T) {
	if p := FromContext(ctxWithQuery("?limit=99999")); p.Limit != MaxLimit {
		t.Errorf("expected limit clamped to %d, got %d", MaxLimit, p.Limit)
	}
	if p := FromContext(ctxWithQuery("?limit=-3&offset=-1")); p.Limit != 0 || p.Offset != 0 {
		t.Errorf("expected negatives ignored, got %+v", p)
	}
	if p := FromContext(ctxWithQuery("?limit=abc")); p.Limit != 0 {
		t.Errorf("expected malformed limit ignored, got %d", p.Limit)
	}
}

func TestLimit(t *testing.T) {
	tests := map[string]int{
		"":            DefaultRecent,
		"?limit=5":    5,
		"?limit=0":    DefaultRecent,
		"?limit=abc":  DefaultRecent,
		"?limit=5000": MaxLimit,
	}
	for q, want := range tests {
		if got := Limit(ctxWithQuery(q), DefaultRecent); got != want {
			t.Errorf("Limit(%q) = %d, want %d", q, got, want)
		}
	}
}
