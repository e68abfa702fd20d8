package patient

import (
	"net/http"

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

// careTeam may read and edit any patient record.
var careTeam = []string{auth.RoleDoctor, auth.RoleReceptionist}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/patients")

	staff := auth.RequireRole(careTeam...)
	g.POST("", h.Create, staff)
	g.GET("", h.List, staff)
	g.GET("/search", h.Search, staff)
	g.PUT("/:id", h.Update, staff)
	g.DELETE("/:id", h.Delete, auth.RequireRole(auth.RoleAdmin))

	// Patients may read their own records.
	g.GET("/user/:userId", h.ByUser)
	g.GET("/:id/full", h.GetDetails)
	g.GET("/:id/details", h.GetDetails)
	g.GET("/:id", h.Get)
}

func (h *Handler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	p, err := h.svc.Create(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return envelope.Created(c, "Patient details created successfully", p)
}

func (h *Handler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	p, err := h.svc.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	if err := auth.AuthorizeSelf(ctx, p.UserID, careTeam...); err != nil {
		return err
	}
	return envelope.OK(c, p)
}

func (h *Handler) GetDetails(c echo.Context) error {
	ctx := c.Request().Context()
	d, err := h.svc.GetDetails(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	if err := auth.AuthorizeSelf(ctx, d.UserID, careTeam...); err != nil {
		return err
	}
	return envelope.OK(c, d)
}

func (h *Handler) ByUser(c echo.Context) error {
	userID := c.Param("userId")
	ctx := c.Request().Context()
	if err := auth.AuthorizeSelf(ctx, userID, careTeam...); err != nil {
		return err
	}
	items, err := h.svc.ByUser(ctx, userID)
	if err != nil {
		return err
	}
	return envelope.List(c, items)
}

func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c)
	items, err := h.svc.List(c.Request().Context(), ListFilter{
		UserID:   c.QueryParam("user_id"),
		DoctorID: c.QueryParam("doctor_id"),
		Limit:    p.Limit,
		Offset:   p.Offset,
	})
	if err != nil {
		return err
	}
	return envelope.List(c, items)
}

func (h *Handler) Search(c echo.Context) error {
	items, err := h.svc.Search(c.Request().Context(), c.QueryParam("query"))
	if err != nil {
		return err
	}
	return envelope.List(c, items)
}

func (h *Handler) Update(c echo.Context) error {
	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	p, err := h.svc.Update(c.Request().Context(), c.Param("id"), &req)
	if err != nil {
		return err
	}
	return envelope.Updated(c, "Patient details updated successfully", p)
}

func (h *Handler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return envelope.Message(c, "Patient details deleted successfully")
}
