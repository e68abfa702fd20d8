package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medcore/medcore/internal/platform/auth"
)

// AuditEntry describes one data-changing API call.
type AuditEntry struct {
	RequestID string
	UserID    string
	Role      string
	Action    string // create, update, delete, login, logout
	Resource  string // first path segment under /api, e.g. "appointments"
	EntityID  string
	Method    string
	Path      string
	Status    int
	RemoteIP  string
}

// AuditRecorder persists audit entries. The middleware always logs them.
type AuditRecorder interface {
	RecordAccess(entry AuditEntry) error
}

type AuditRecorderFunc func(entry AuditEntry) error

func (f AuditRecorderFunc) RecordAccess(entry AuditEntry) error { return f(entry) }

// Audit logs who changed which record. Reads are not audited.
func Audit(logger zerolog.Logger, recorders ...AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			action := methodToAction(req.Method, req.URL.Path)
			if action == "" || !strings.HasPrefix(req.URL.Path, "/api/") {
				return next(c)
			}

			err := next(c)

			ctx := c.Request().Context()
			entry := AuditEntry{
				UserID:   auth.UserIDFromContext(ctx),
				Role:     auth.RoleFromContext(ctx),
				Action:   action,
				Resource: resourceFromPath(req.URL.Path),
				EntityID: c.Param("id"),
				Method:   req.Method,
				Path:     req.URL.Path,
				Status:   c.Response().Status,
				RemoteIP: c.RealIP(),
			}
			entry.RequestID, _ = c.Get("request_id").(string)

			for _, r := range recorders {
				if r == nil {
					continue
				}
				if recErr := r.RecordAccess(entry); recErr != nil {
					logger.Error().Err(recErr).Str("request_id", entry.RequestID).Msg("failed to record audit entry")
				}
			}

			logger.Info().
				Str("type", "audit").
				Str("request_id", entry.RequestID).
				Str("user_id", entry.UserID).
				Str("role", entry.Role).
				Str("action", entry.Action).
				Str("resource", entry.Resource).
				Str("entity_id", entry.EntityID).
				Str("path", entry.Path).
				Int("status", entry.Status).
				Str("remote_ip", entry.RemoteIP).
				Msg("data_change")

			return err
		}
	}
}

func methodToAction(method, path string) string {
	if method == http.MethodPost {
		switch {
		case strings.HasSuffix(path, "/login"):
			return "login"
		case strings.HasSuffix(path, "/logout"):
			return "logout"
		}
	}
	switch method {
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	}
	return ""
}

func resourceFromPath(path string) string {
	rest := strings.TrimPrefix(path, "/api/")
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	if rest == "" {
		return "unknown"
	}
	return rest
}
