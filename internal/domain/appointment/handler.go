package appointment

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
	g := api.Group("/appointments")

	// Patients book and read their own appointments.
	g.POST("", h.Create)
	g.GET("/patient/:patientId", h.ByPatient)
	g.GET("/doctor/:doctorId", h.ByDoctor)
	g.GET("/:id/details", h.GetDetails)
	g.GET("/:id", h.Get)

	// Schedule-wide views and edits: care team only
	staff := auth.RequireRole(careTeam...)
	g.GET("", h.List, staff)
	g.GET("/upcoming", h.Upcoming, staff)
	g.GET("/count-by-status", h.CountByStatus, staff)
	g.GET("/status/:status", h.ByStatus, staff)
	g.GET("/date/:date", h.ByDate, staff)
	g.PUT("/:id", h.Update, staff)
	g.PATCH("/:id/status", h.UpdateStatus, staff)
	g.DELETE("/:id", h.Delete, auth.RequireRole(auth.RoleAdmin))
}

func parseID(c echo.Context) (int, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if errors.Is(err, strconv.ErrRange) {
		// Keys are int4; nothing is stored beyond that range.
		return 0, errNotFound()
	}
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	return int(id), nil
}

func (h *Handler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	ctx := c.Request().Context()
	if err := auth.AuthorizeSelf(ctx, req.PatientID, careTeam...); err != nil {
		return err
	}
	a, err := h.svc.Create(ctx, &req)
	if err != nil {
		return err
	}
	return envelope.Created(c, "Appointment created successfully", a)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	a, err := h.svc.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.AuthorizeSelf(ctx, a.PatientID, careTeam...); err != nil {
		return err
	}
	return envelope.OK(c, a)
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
	return h.list(c, ListFilter{
		Status: c.QueryParam("status"),
		Date:   c.QueryParam("date"),
		Limit:  p.Limit,
		Offset: p.Offset,
	})
}

func (h *Handler) ByPatient(c echo.Context) error {
	patientID := c.Param("patientId")
	if err := auth.AuthorizeSelf(c.Request().Context(), patientID, careTeam...); err != nil {
		return err
	}
	return h.list(c, ListFilter{PatientID: patientID})
}

func (h *Handler) ByDoctor(c echo.Context) error {
	doctorID := c.Param("doctorId")
	if err := auth.AuthorizeSelf(c.Request().Context(), doctorID, auth.RoleReceptionist); err != nil {
		return err
	}
	return h.list(c, ListFilter{DoctorID: doctorID})
}

func (h *Handler) ByStatus(c echo.Context) error {
	return h.list(c, ListFilter{Status: c.Param("status")})
}

func (h *Handler) ByDate(c echo.Context) error {
	return h.list(c, ListFilter{Date: c.Param("date")})
}

func (h *Handler) list(c echo.Context, f ListFilter) error {
	items, err := h.svc.List(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return envelope.List(c, items)
}

func (h *Handler) Upcoming(c echo.Context) error {
	items, err := h.svc.Upcoming(c.Request().Context(), pagination.Limit(c, pagination.DefaultRecent))
	if err != nil {
		return err
	}
	return envelope.List(c, items)
}

func (h *Handler) CountByStatus(c echo.Context) error {
	counts, err := h.svc.CountByStatus(c.Request().Context())
	if err != nil {
		return err
	}
	return envelope.OK(c, counts)
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
	a, err := h.svc.Update(c.Request().Context(), id, &req)
	if err != nil {
		return err
	}
	return envelope.Updated(c, "Appointment updated successfully", a)
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req StatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	a, err := h.svc.UpdateStatus(c.Request().Context(), id, &req)
	if err != nil {
		return err
	}
	return envelope.Updated(c, "Appointment status updated successfully", a)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return envelope.Message(c, "Appointment deleted successfully")
}
