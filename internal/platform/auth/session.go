package auth

import "github.com/labstack/echo/v4"

// Sessions starts and ends cookie sessions for the login handlers.
type Sessions struct {
	Issuer      *Issuer
	Revocations *RevocationStore
	// Secure marks the cookie HTTPS-only.
	Secure bool
}

// Start sets the session cookie for a freshly issued token.
func (s *Sessions) Start(c echo.Context, token string) {
	SetCookie(c, token, s.Issuer.TTL(), s.Secure)
}

// End clears the cookie and revokes the presented token when it verifies.
// Logging out without a valid token still succeeds.
func (s *Sessions) End(c echo.Context) {
	if raw := TokenFromRequest(c); raw != "" && s.Revocations != nil {
		if claims, err := s.Issuer.Parse(raw); err == nil && claims.ExpiresAt != nil {
			s.Revocations.Revoke(claims.ID, claims.ExpiresAt.Time)
		}
	}
	ClearCookie(c, s.Secure)
}
