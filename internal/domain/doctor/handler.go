package doctor

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/medcore/medcore/internal/platform/auth"
	"github.com/medcore/medcore/internal/platform/envelope"
	"github.com/medcore/medcore/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// Read endpoints: any signed-in caller.
	g := api.Group("/doctors")
	g.GET("", h.List)
	g.GET("/search", h.Search)
	g.GET("/specializations", h.Specializations)
	g.GET("/specialization/:specialization", h.BySpecialization)
	g.GET("/:id/full", h.GetDetails)
	g.GET("/:id/details", h.GetDetails)
	g.GET("/:id", h.Get)

	// Write endpoints: admin only, except doctors editing their own entry
	admin := auth.RequireRole(auth.RoleAdmin)
	g.POST("", h.Create, admin)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete, admin)
}

func (h *Handler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	d, err := h.svc.Create(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return envelope.Created(c, "Doctor details created successfully", d)
}

func (h *Handler) Get(c echo.Context) error {
	d, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return envelope.OK(c, d)
}

func (h *Handler) GetDetails(c echo.Context) error {
	d, err := h.svc.GetDetails(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return envelope.OK(c, d)
}

func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c)
	f := ListFilter{
		Specialization: c.QueryParam("specialization"),
		City:           c.QueryParam("city"),
		Limit:          p.Limit,
		Offset:         p.Offset,
	}
	if v := c.QueryParam("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "active must be true or false")
		}
		f.Active = &active
	}
	doctors, err := h.svc.List(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return envelope.List(c, doctors)
}

func (h *Handler) BySpecialization(c echo.Context) error {
	doctors, err := h.svc.BySpecialization(c.Request().Context(), c.Param("specialization"))
	if err != nil {
		return err
	}
	return envelope.List(c, doctors)
}

func (h *Handler) Specializations(c echo.Context) error {
	specs, err := h.svc.Specializations(c.Request().Context())
	if err != nil {
		return err
	}
	return envelope.List(c, specs)
}

func (h *Handler) Search(c echo.Context) error {
	doctors, err := h.svc.Search(c.Request().Context(), c.QueryParam("query"))
	if err != nil {
		return err
	}
	return envelope.List(c, doctors)
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
	d, err := h.svc.Update(ctx, id, &req)
	if err != nil {
		return err
	}
	return envelope.Updated(c, "Doctor details updated successfully", d)
}

func (h *Handler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return envelope.Message(c, "Doctor details deleted successfully")
}
