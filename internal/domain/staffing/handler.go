package staffing

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinic/portal/internal/platform/auth"
	"github.com/clinic/portal/internal/platform/backend"
	"github.com/clinic/portal/internal/platform/session"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/manager", auth.RequireRole(session.RoleManager))
	g.GET("/shifts", h.Shifts)
	g.POST("/shifts", h.CreateShift)
	g.PUT("/shifts/:id", h.UpdateShift)
	g.DELETE("/shifts/:id", h.DeleteShift)
	g.PUT("/shifts/:id/doctors", h.AssignDoctors)
	g.GET("/doctors", h.Doctors)
	g.GET("/schedule", h.Schedule)
	g.GET("/coverage", h.Coverage)
	g.POST("/assignments", h.SaveAssignments)
}

func (h *Handler) Shifts(c echo.Context) error {
	items, err := h.svc.Shifts(c.Request().Context(), c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateShift(c echo.Context) error {
	var sh Shift
	if err := c.Bind(&sh); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateShift(c.Request().Context(), &sh); err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, sh)
}

func (h *Handler) UpdateShift(c echo.Context) error {
	var sh Shift
	if err := c.Bind(&sh); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sh.ID = backend.ID(c.Param("id"))
	if err := h.svc.UpdateShift(c.Request().Context(), &sh); err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, sh)
}

func (h *Handler) DeleteShift(c echo.Context) error {
	if err := h.svc.DeleteShift(c.Request().Context(), c.Param("id")); err != nil {
		return backend.ToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}

type assignRequest struct {
	DoctorIDs []backend.ID `json:"doctorIds"`
}

func (h *Handler) AssignDoctors(c echo.Context) error {
	var req assignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ids := make([]string, len(req.DoctorIDs))
	for i, d := range req.DoctorIDs {
		ids[i] = d.String()
	}
	if err := h.svc.AssignDoctors(c.Request().Context(), c.Param("id"), ids); err != nil {
		return backend.ToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Doctors(c echo.Context) error {
	items, err := h.svc.Doctors(c.Request().Context())
	if err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Schedule(c echo.Context) error {
	items, err := h.svc.Schedule(c.Request().Context(), c.QueryParam("week"))
	if err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Coverage(c echo.Context) error {
	gaps, err := h.svc.Gaps(c.Request().Context(), c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, gaps)
}

type saveAssignmentsRequest struct {
	From        string       `json:"from"`
	To          string       `json:"to"`
	Assignments []Assignment `json:"assignments"`
}

// SaveAssignments applies the assignment screen's selection, sending only
// the shifts that differ from what the backend has now.
func (h *Handler) SaveAssignments(c echo.Context) error {
	var req saveAssignmentsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()
	shifts, err := h.svc.Shifts(ctx, req.From, req.To)
	if err != nil {
		return backend.ToHTTP(err)
	}
	sel := NewSelection(shifts)
	for _, a := range req.Assignments {
		sel.Set(a.ShiftID, a.DoctorIDs)
	}
	saved, err := h.svc.SaveSelection(ctx, sel)
	if err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]int{"saved": saved})
}
