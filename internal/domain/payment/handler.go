package payment

import (
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
	g := api.Group("/payments", auth.RequireRole(session.RoleReception, session.RoleManager))
	g.GET("", h.List)
	g.GET("/summary", h.Summary)
	g.GET("/patient/:patientId", h.ByPatient)
	g.GET("/:id", h.Get)
	g.POST("", h.Create, auth.RequireRole(session.RoleReception))
	g.PUT("/:id/confirm", h.Confirm, auth.RequireRole(session.RoleReception))
}

func filterFrom(c echo.Context) Filter {
	return Filter{
		Status:    c.QueryParam("status"),
		Method:    c.QueryParam("method"),
		PatientID: c.QueryParam("patient_id"),
		From:      c.QueryParam("from"),
		To:        c.QueryParam("to"),
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

func (h *Handler) Summary(c echo.Context) error {
	s, err := h.svc.Summary(c.Request().Context(), filterFrom(c))
	if err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) ByPatient(c echo.Context) error {
	items, err := h.svc.ByPatient(c.Request().Context(), c.Param("patientId"))
	if err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Get(c echo.Context) error {
	p, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Create(c echo.Context) error {
	var p Payment
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &p); err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, p)
}

type confirmRequest struct {
	Method string `json:"paymentMethod" form:"paymentMethod"`
}

func (h *Handler) Confirm(c echo.Context) error {
	var req confirmRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Confirm(c.Request().Context(), c.Param("id"), req.Method); err != nil {
		return backend.ToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}
