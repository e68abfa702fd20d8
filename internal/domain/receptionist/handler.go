package receptionist

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medcore/medcore/internal/platform/auth"
	"github.com/medcore/medcore/internal/platform/envelope"
)

type Handler struct {
	svc      *Service
	sessions *auth.Sessions
}

func NewHandler(svc *Service, sessions *auth.Sessions) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/receptionist")

	// Public
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)

	admin := auth.RequireRole(auth.RoleAdmin)
	g.POST("", h.Create, admin)
	g.GET("", h.List, auth.RequireRole(auth.RoleReceptionist))
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete, admin)
	g.DELETE("", h.DeleteAll, admin)
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
	return envelope.Token(c, "Login successful", session.Token, session.Receptionist)
}

func (h *Handler) Logout(c echo.Context) error {
	h.sessions.End(c)
	return envelope.Message(c, "Logout successful")
}

func (h *Handler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	rc, err := h.svc.Create(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return envelope.Created(c, "Receptionist created successfully", rc)
}

func (h *Handler) List(c echo.Context) error {
	items, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return envelope.List(c, items)
}

func (h *Handler) Get(c echo.Context) error {
	id := c.Param("id")
	ctx := c.Request().Context()
	if err := auth.AuthorizeSelf(ctx, id); err != nil {
		return err
	}
	rc, err := h.svc.Get(ctx, id)
	if err != nil {
		return err
	}
	return envelope.OK(c, rc)
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
	rc, err := h.svc.Update(ctx, id, &req)
	if err != nil {
		return err
	}
	return envelope.Updated(c, "Receptionist updated successfully", rc)
}

func (h *Handler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return envelope.Message(c, "Receptionist deleted successfully")
}

func (h *Handler) DeleteAll(c echo.Context) error {
	if _, err := h.svc.DeleteAll(c.Request().Context()); err != nil {
		return err
	}
	return envelope.Message(c, "All receptionists deleted successfully")
}
