package appointment

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinic/portal/internal/platform/auth"
	"github.com/clinic/portal/internal/platform/backend"
	"github.com/clinic/portal/internal/platform/session"
	"github.com/clinic/portal/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("/appointments", auth.RequireRole(session.RoleDoctor, session.RoleNurse, session.RoleReception))
	read.GET("", h.List)
	read.GET("/status-counts", h.StatusCounts)
	read.GET("/:id", h.Get)
	read.PUT("/:id/status", h.UpdateStatus)

	reception := auth.RequireRole(session.RoleReception)
	read.POST("", h.Create, reception)
	read.PUT("/:id", h.Update, reception)
	read.POST("/:id/cancel", h.Cancel, reception)
	read.DELETE("/:id", h.Delete, reception)

	doc := api.Group("/doctor-appointments", auth.RequireRole(session.RoleDoctor))
	doc.GET("", h.Today)
	doc.GET("/:doctorId", h.ListForDoctor)
}

func filterFrom(c echo.Context) Filter {
	return Filter{
		Status:    c.QueryParam("status"),
		Date:      c.QueryParam("date"),
		PatientID: c.QueryParam("patient_id"),
		DoctorID:  c.QueryParam("doctor_id"),
	}
}

func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), filterFrom(c), p)
	if err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p))
}

func (h *Handler) StatusCounts(c echo.Context) error {
	f := filterFrom(c)
	if f.Date == "" {
		f.Date = h.svc.TodayDate()
	}
	items, err := pagination.All(c.Request().Context(), func(ctx context.Context, p pagination.Params) ([]*Appointment, int, error) {
		return h.svc.List(ctx, f, p)
	})
	if err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, CountByStatus(items))
}

func (h *Handler) Get(c echo.Context) error {
	a, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Create(c echo.Context) error {
	var a Appointment
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &a); err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) Update(c echo.Context) error {
	var a Appointment
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a.ID = backend.ID(c.Param("id"))
	if err := h.svc.Update(c.Request().Context(), &a); err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, a)
}

type statusRequest struct {
	Status string `json:"status" form:"status"`
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status); err != nil {
		return backend.ToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Cancel(c echo.Context) error {
	if err := h.svc.Cancel(c.Request().Context(), c.Param("id")); err != nil {
		return backend.ToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return backend.ToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Today(c echo.Context) error {
	items, err := h.svc.Today(c.Request().Context())
	if err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ListForDoctor(c echo.Context) error {
	items, err := h.svc.ListForDoctor(c.Request().Context(), c.Param("doctorId"), c.QueryParam("date"))
	if err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, items)
}
