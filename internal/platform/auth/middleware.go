package auth

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medcore/medcore/internal/platform/apperr"
)

type contextKey string

const claimsKey contextKey = "auth_claims"

// Roles.
const (
	RoleAdmin        = "admin"
	RoleDoctor       = "doctor"
	RolePatient      = "patient"
	RoleReceptionist = "receptionist"
)

type Config struct {
	Issuer      *Issuer
	Revocations *RevocationStore
	// Skipper marks public routes. A valid token on a public route is still
	// attached to the context; a missing or bad one is ignored.
	Skipper func(echo.Context) bool
	Logger  zerolog.Logger
}

// Authenticate verifies the session token from the cookie or bearer header
// and stores its claims on the request context.
func Authenticate(cfg Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			public := cfg.Skipper != nil && cfg.Skipper(c)

			raw := TokenFromRequest(c)
			if raw == "" {
				if public {
					return next(c)
				}
				return apperr.Unauthenticated(apperr.CodeTokenMissing, "Access denied. No token provided.")
			}

			claims, err := cfg.Issuer.Parse(raw)
			if err == nil && cfg.Revocations != nil && cfg.Revocations.IsRevoked(claims.ID) {
				err = apperr.Unauthenticated(apperr.CodeTokenInvalid, "Invalid token.")
			}
			if err != nil {
				if public {
					return next(c)
				}
				cfg.Logger.Warn().
					Str("code", apperr.CodeOf(err)).
					Str("path", c.Request().URL.Path).
					Str("remote_ip", c.RealIP()).
					Msg("rejected session token")
				return err
			}

			c.SetRequest(c.Request().WithContext(WithClaims(c.Request().Context(), claims)))
			return next(c)
		}
	}
}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the verified claims, or nil for anonymous requests.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsKey).(*Claims)
	return claims
}

func UserIDFromContext(ctx context.Context) string {
	if claims := ClaimsFromContext(ctx); claims != nil {
		return claims.Subject
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if claims := ClaimsFromContext(ctx); claims != nil {
		return claims.Role
	}
	return ""
}
