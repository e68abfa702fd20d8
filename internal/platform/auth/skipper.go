package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// publicRoutes lists method+route pairs reachable without a session.
var publicRoutes = map[string]bool{
	"GET /health":                   true,
	"GET /health/db":                true,
	"POST /api/users":               true,
	"POST /api/users/login":         true,
	"POST /api/users/logout":        true,
	"POST /api/receptionist/login":  true,
	"POST /api/receptionist/logout": true,
}

// AuthSkipper reports whether the matched route is public.
func AuthSkipper(c echo.Context) bool {
	return IsPublicRoute(c.Request().Method, c.Path())
}

// IsPublicRoute reports whether method and route template are public. HEAD
// is treated like GET.
func IsPublicRoute(method, path string) bool {
	if method == http.MethodHead {
		method = http.MethodGet
	}
	return publicRoutes[method+" "+path]
}
