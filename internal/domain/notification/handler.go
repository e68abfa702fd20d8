package notification

import (
	"errors"
	"fmt"
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
	g := api.Group("/notifications")

	// Front desk endpoints: receptionists and admins.
	desk := auth.RequireRole(auth.RoleReceptionist)
	g.POST("", h.Create, auth.RequireRole(careTeam...))
	g.GET("", h.List, desk)
	g.GET("/recent", h.Recent, desk)
	g.GET("/type/:type", h.ByType, desk)
	g.GET("/receptionist/:receptionistId", h.ByReceptionist, desk)
	g.DELETE("/old", h.PurgeOld, desk)
	g.DELETE("/:id", h.Delete, desk)

	// Patient inbox endpoints
	g.GET("/patient/:patientId", h.ByPatient)
	g.GET("/patient/:patientId/unread", h.UnreadByPatient)
	g.GET("/patient/:patientId/unread/count", h.CountUnread)
	g.PATCH("/patient/:patientId/mark-all-seen", h.MarkAllSeen)
	g.GET("/:id/details", h.GetDetails)
	g.GET("/:id", h.Get)
	g.PATCH("/:id/seen", h.MarkSeen)
}

func parseID(c echo.Context) (int, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if errors.Is(err, strconv.ErrRange) {
		// Keys are int4; nothing is stored beyond that range.
		return 0, errNotFound()
	}
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid notification id")
	}
	return int(id), nil
}

func (h *Handler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	n, err := h.svc.Create(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return envelope.Created(c, "Notification created successfully", n)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	n, err := h.svc.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.AuthorizeSelf(ctx, n.PatientID, careTeam...); err != nil {
		return err
	}
	return envelope.OK(c, n)
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
	return h.list(c, ListFilter{Limit: p.Limit, Offset: p.Offset})
}

func (h *Handler) Recent(c echo.Context) error {
	items, err := h.svc.Recent(c.Request().Context(), pagination.Limit(c, pagination.DefaultRecent))
	if err != nil {
		return err
	}
	return envelope.List(c, items)
}

func (h *Handler) ByType(c echo.Context) error {
	return h.list(c, ListFilter{Type: c.Param("type")})
}

func (h *Handler) ByReceptionist(c echo.Context) error {
	return h.list(c, ListFilter{ReceptionistID: c.Param("receptionistId")})
}

func (h *Handler) ByPatient(c echo.Context) error {
	patientID := c.Param("patientId")
	if err := auth.AuthorizeSelf(c.Request().Context(), patientID, careTeam...); err != nil {
		return err
	}
	return h.list(c, ListFilter{PatientID: patientID})
}

func (h *Handler) UnreadByPatient(c echo.Context) error {
	patientID := c.Param("patientId")
	if err := auth.AuthorizeSelf(c.Request().Context(), patientID, careTeam...); err != nil {
		return err
	}
	return h.list(c, ListFilter{PatientID: patientID, UnseenOnly: true})
}

func (h *Handler) list(c echo.Context, f ListFilter) error {
	items, err := h.svc.List(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return envelope.List(c, items)
}

func (h *Handler) CountUnread(c echo.Context) error {
	patientID := c.Param("patientId")
	ctx := c.Request().Context()
	if err := auth.AuthorizeSelf(ctx, patientID, careTeam...); err != nil {
		return err
	}
	n, err := h.svc.CountUnread(ctx, patientID)
	if err != nil {
		return err
	}
	return envelope.OK(c, map[string]int64{"unread": n})
}

func (h *Handler) MarkSeen(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	n, err := h.svc.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.AuthorizeSelf(ctx, n.PatientID, careTeam...); err != nil {
		return err
	}
	if err := h.svc.MarkSeen(ctx, id); err != nil {
		return err
	}
	return envelope.Message(c, "Notification marked as seen")
}

func (h *Handler) MarkAllSeen(c echo.Context) error {
	patientID := c.Param("patientId")
	ctx := c.Request().Context()
	if err := auth.AuthorizeSelf(ctx, patientID, careTeam...); err != nil {
		return err
	}
	n, err := h.svc.MarkAllSeen(ctx, patientID)
	if err != nil {
		return err
	}
	return envelope.Message(c, fmt.Sprintf("%d notification(s) marked as seen", n))
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return envelope.Message(c, "Notification deleted successfully")
}

// PurgeOld deletes seen notifications older than ?days= (default 30).
func (h *Handler) PurgeOld(c echo.Context) error {
	days := DefaultRetentionDays
	if v := c.QueryParam("days"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "days must be a number")
		}
		days = d
	}
	n, err := h.svc.PurgeSeen(c.Request().Context(), days)
	if err != nil {
		return err
	}
	return envelope.Message(c, fmt.Sprintf("%d old notification(s) deleted", n))
}
