package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindUnauthenticated, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindTooManyRequests, http.StatusTooManyRequests},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := tt.kind.Status(); got != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.kind, tt.want, got)
		}
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("get user: %w", NotFound("User not found"))
	if KindOf(err) != KindNotFound {
		t.Errorf("expected not_found, got %s", KindOf(err))
	}
	if !IsNotFound(err) {
		t.Error("expected IsNotFound to be true")
	}
}

func TestKindOf_PlainError(t *testing.T) {
	if KindOf(errors.New("boom")) != KindInternal {
		t.Error("expected plain errors to be internal")
	}
	if IsConflict(nil) {
		t.Error("nil must not be a conflict")
	}
}

func TestCodeOf(t *testing.T) {
	err := Unauthenticated(CodeTokenExpired, "Token expired. Please login again.")
	if CodeOf(err) != CodeTokenExpired {
		t.Errorf("expected %s, got %s", CodeTokenExpired, CodeOf(err))
	}
	if CodeOf(errors.New("x")) != "" {
		t.Error("expected empty code for plain errors")
	}
}

func TestInternal_UnwrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal(cause, "database error")
	if !errors.Is(err, cause) {
		t.Error("expected Internal to wrap its cause")
	}
	if err.Error() != "database error: connection refused" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestWithCode_Copies(t *testing.T) {
	base := Conflict("duplicate")
	coded := base.WithCode(CodeDatabaseConstraint)
	if base.Code != "" {
		t.Error("WithCode must not mutate the receiver")
	}
	if coded.Code != CodeDatabaseConstraint || coded.Kind != KindConflict {
		t.Errorf("unexpected copy: %+v", coded)
	}
}
