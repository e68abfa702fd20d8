package medicalrecord

import (
	"errors"
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

var careTeam = []string{auth.RoleDoctor, auth.RoleReceptionist}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/medical-records")

	staff := auth.RequireRole(careTeam...)
	g.POST("", h.Create, staff)
	g.GET("", h.List, staff)
	g.GET("/search", h.Search, staff)
	g.GET("/recent", h.Recent, staff)
	g.PUT("/:id", h.Update, staff)
	g.PATCH("/:id/description", h.UpdateDescription, staff)
	g.DELETE("/:id", h.Delete, auth.RequireRole(auth.RoleAdmin))

	// Patients may read their own records.
	g.GET("/patient/:patientId", h.ByPatient)
	g.GET("/patient/:patientId/count", h.CountByPatient)
	g.GET("/:id/details", h.GetDetails)
	g.GET("/:id", h.Get)
}

func parseID(c echo.Context) (int, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if errors.Is(err, strconv.ErrRange) {
		// Keys are int4; nothing is stored beyond that range.
		return 0, errNotFound()
	}
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid record id")
	}
	return int(id), nil
}

func (h *Handler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	rec, err := h.svc.Create(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return envelope.Created(c, "Medical record created successfully", rec)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	rec, err := h.svc.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.AuthorizeSelf(ctx, rec.PatientID, careTeam...); err != nil {
		return err
	}
	return envelope.OK(c, rec)
}

func (h *Handler) GetDetails(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	d, err := h.svc.GetDetails(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.AuthorizeSelf(ctx, d.PatientID, careTeam...); err != nil {
		return err
	}
	return envelope.OK(c, d)
}

func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c)
	items, err := h.svc.List(c.Request().Context(), ListFilter{
		Status: c.QueryParam("status"),
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		return err
	}
	return envelope.List(c, items)
}

func (h *Handler) ByPatient(c echo.Context) error {
	patientID := c.Param("patientId")
	ctx := c.Request().Context()
	if err := auth.AuthorizeSelf(ctx, patientID, careTeam...); err != nil {
		return err
	}
	items, err := h.svc.List(ctx, ListFilter{PatientID: patientID})
	if err != nil {
		return err
	}
	return envelope.List(c, items)
}

func (h *Handler) CountByPatient(c echo.Context) error {
	patientID := c.Param("patientId")
	ctx := c.Request().Context()
	if err := auth.AuthorizeSelf(ctx, patientID, careTeam...); err != nil {
		return err
	}
	n, err := h.svc.CountByPatient(ctx, patientID)
	if err != nil {
		return err
	}
	return envelope.OK(c, map[string]int64{"total": n})
}

func (h *Handler) Search(c echo.Context) error {
	items, err := h.svc.Search(c.Request().Context(), c.QueryParam("query"))
	if err != nil {
		return err
	}
	return envelope.List(c, items)
}

func (h *Handler) Recent(c echo.Context) error {
	items, err := h.svc.Recent(c.Request().Context(), pagination.Limit(c, pagination.DefaultRecent))
	if err != nil {
		return err
	}
	return envelope.List(c, items)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	rec, err := h.svc.Update(c.Request().Context(), id, &req)
	if err != nil {
		return err
	}
	return envelope.Updated(c, "Medical record updated successfully", rec)
}

func (h *Handler) UpdateDescription(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req DescriptionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	rec, err := h.svc.UpdateDescription(c.Request().Context(), id, req.Description)
	if err != nil {
		return err
	}
	return envelope.Updated(c, "Description updated successfully", rec)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return envelope.Message(c, "Medical record deleted successfully")
}
