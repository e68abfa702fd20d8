package auth

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/medcore/medcore/internal/platform/apperr"
)

// RequireRole returns middleware that admits callers holding one of roles.
// Admins are always admitted.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := ClaimsFromContext(c.Request().Context())
			if claims == nil {
				return apperr.Unauthenticated(apperr.CodeTokenMissing, "Access denied. No token provided.")
			}
			if HasRole(claims.Role, roles...) {
				return next(c)
			}
			return apperr.Forbidden("Access denied. Required roles: %s", strings.Join(roles, ", "))
		}
	}
}

// HasRole reports whether role satisfies one of allowed.
func HasRole(role string, allowed ...string) bool {
	if role == RoleAdmin {
		return true
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// AuthorizeSelf admits the caller when it is the subject id or holds one of
// roles. Admins are always admitted.
func AuthorizeSelf(ctx context.Context, id string, roles ...string) error {
	claims := ClaimsFromContext(ctx)
	if claims == nil {
		return apperr.Unauthenticated(apperr.CodeTokenMissing, "Access denied. No token provided.")
	}
	if claims.Subject == id || HasRole(claims.Role, roles...) {
		return nil
	}
	return apperr.Forbidden("Access denied")
}
