package user

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medcore/medcore/internal/platform/auth"
	"github.com/medcore/medcore/internal/platform/envelope"
	"github.com/medcore/medcore/pkg/pagination"
)

type Handler struct {
	svc      *Service
	sessions *auth.Sessions
}

func NewHandler(svc *Service, sessions *auth.Sessions) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/users")

	// Public
	g.POST("", h.Create)
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)

	g.GET("/me", h.Me)

	staff := auth.RequireRole(auth.RoleDoctor, auth.RoleReceptionist)
	g.GET("", h.List, staff)
	g.GET("/count-by-role", h.CountByRole, auth.RequireRole(auth.RoleReceptionist))
	g.GET("/email/:email", h.GetByEmail, staff)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.PATCH("/:id/password", h.UpdatePassword)
	g.DELETE("/:id", h.Delete, auth.RequireRole(auth.RoleAdmin))
}

func (h *Handler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	ctx := c.Request().Context()
	u, err := h.svc.Create(ctx, &req, auth.RoleFromContext(ctx))
	if err != nil {
		return err
	}
	return envelope.Created(c, "User created successfully", u)
}

func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	session, err := h.svc.Login(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	h.sessions.Start(c, session.Token)
	return envelope.Token(c, "Login successful", session.Token, session.User)
}

func (h *Handler) Logout(c echo.Context) error {
	h.sessions.End(c)
	return envelope.Message(c, "Logout successful")
}

// Me returns the caller's profile. Receptionists are not users rows, so
// their token identity is returned as is.
func (h *Handler) Me(c echo.Context) error {
	claims := auth.ClaimsFromContext(c.Request().Context())
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	if claims.Role == auth.RoleReceptionist {
		return envelope.OK(c, map[string]string{
			"id":    claims.Subject,
			"role":  claims.Role,
			"email": claims.Email,
			"name":  claims.Name,
		})
	}
	u, err := h.svc.Get(c.Request().Context(), claims.Subject)
	if err != nil {
		return err
	}
	return envelope.OK(c, u)
}

func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c)
	users, err := h.svc.List(c.Request().Context(), ListFilter{
		Role:   c.QueryParam("role"),
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		return err
	}
	return envelope.List(c, users)
}

func (h *Handler) CountByRole(c echo.Context) error {
	counts, err := h.svc.CountByRole(c.Request().Context())
	if err != nil {
		return err
	}
	return envelope.OK(c, counts)
}

func (h *Handler) GetByEmail(c echo.Context) error {
	u, err := h.svc.GetByEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		return err
	}
	return envelope.OK(c, u)
}

func (h *Handler) Get(c echo.Context) error {
	id := c.Param("id")
	ctx := c.Request().Context()
	if err := auth.AuthorizeSelf(ctx, id, auth.RoleDoctor, auth.RoleReceptionist); err != nil {
		return err
	}
	u, err := h.svc.Get(ctx, id)
	if err != nil {
		return err
	}
	return envelope.OK(c, u)
}

func (h *Handler) Update(c echo.Context) error {
	id := c.Param("id")
	ctx := c.Request().Context()
	if err := auth.AuthorizeSelf(ctx, id); err != nil {
		return err
	}
	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	u, err := h.svc.Update(ctx, id, &req)
	if err != nil {
		return err
	}
	return envelope.Updated(c, "User updated successfully", u)
}

func (h *Handler) UpdatePassword(c echo.Context) error {
	id := c.Param("id")
	ctx := c.Request().Context()
	if err := auth.AuthorizeSelf(ctx, id); err != nil {
		return err
	}
	var req PasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.UpdatePassword(ctx, id, req.Password); err != nil {
		return err
	}
	return envelope.Message(c, "Password updated successfully")
}

func (h *Handler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return envelope.Message(c, "User deleted successfully")
}
