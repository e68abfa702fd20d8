package prescription

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
	g := api.Group("/prescriptions")

	// Read endpoints: the patient concerned or the care team
	g.GET("/patient/:patientId", h.ByPatient)
	g.GET("/doctor/:doctorId", h.ByDoctor)
	g.GET("/appointment/:appointmentId", h.ByAppointment)
	g.GET("/:id/details", h.GetDetails)
	g.GET("/:id", h.Get)

	staff := auth.RequireRole(careTeam...)
	g.GET("", h.List, staff)
	g.GET("/count", h.Count, staff)

	// Write endpoints: doctors
	doctors := auth.RequireRole(auth.RoleDoctor)
	g.POST("", h.Create, doctors)
	g.PUT("/:id", h.Update, doctors)
	g.PATCH("/:id/pdf", h.UpdatePDFLink, doctors)
	g.DELETE("/:id", h.Delete, auth.RequireRole(auth.RoleAdmin))
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
	return envelope.Created(c, "Prescription created successfully", p)
}

func (h *Handler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	p, err := h.svc.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	if err := auth.AuthorizeSelf(ctx, p.PatientID, careTeam...); err != nil {
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
	if err := auth.AuthorizeSelf(ctx, d.PatientID, careTeam...); err != nil {
		return err
	}
	return envelope.OK(c, d)
}

func (h *Handler) ByAppointment(c echo.Context) error {
	appointmentID, err := strconv.ParseInt(c.Param("appointmentId"), 10, 32)
	if errors.Is(err, strconv.ErrRange) {
		return errNotFound()
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid appointment id")
	}
	ctx := c.Request().Context()
	p, err := h.svc.GetByAppointment(ctx, int(appointmentID))
	if err != nil {
		return err
	}
	if err := auth.AuthorizeSelf(ctx, p.PatientID, careTeam...); err != nil {
		return err
	}
	return envelope.OK(c, p)
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

func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c)
	return h.list(c, ListFilter{Limit: p.Limit, Offset: p.Offset})
}

func (h *Handler) list(c echo.Context, f ListFilter) error {
	items, err := h.svc.List(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return envelope.List(c, items)
}

func (h *Handler) Count(c echo.Context) error {
	n, err := h.svc.Count(c.Request().Context())
	if err != nil {
		return err
	}
	return envelope.OK(c, map[string]int64{"total": n})
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
	return envelope.Updated(c, "Prescription updated successfully", p)
}

func (h *Handler) UpdatePDFLink(c echo.Context) error {
	var req PDFRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	p, err := h.svc.UpdatePDFLink(c.Request().Context(), c.Param("id"), req.PDFLink)
	if err != nil {
		return err
	}
	return envelope.Updated(c, "PDF link updated successfully", p)
}

func (h *Handler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return envelope.Message(c, "Prescription deleted successfully")
}
