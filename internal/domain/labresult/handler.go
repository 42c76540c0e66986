package labresult

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
	g := api.Group("/test-results", auth.RequireRole(session.RoleDoctor, session.RoleNurse))
	g.GET("", h.List)
	g.GET("/worklist", h.Worklist)
	g.GET("/patient/:patientId", h.ByPatient)
	g.GET("/:id", h.Get)
	g.POST("", h.Create, auth.RequireRole(session.RoleDoctor))
	g.PUT("/:id/result", h.Enter)
}

func (h *Handler) Worklist(c echo.Context) error {
	p := pagination.FromContext(c)
	items, total, err := h.svc.Worklist(c.Request().Context(), p)
	if err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p))
}

func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), c.QueryParam("status"), p)
	if err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p))
}

func (h *Handler) ByPatient(c echo.Context) error {
	items, err := h.svc.ByPatient(c.Request().Context(), c.Param("patientId"))
	if err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Get(c echo.Context) error {
	r, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) Create(c echo.Context) error {
	var r TestResult
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &r); err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *Handler) Enter(c echo.Context) error {
	var e Entry
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Enter(c.Request().Context(), c.Param("id"), e); err != nil {
		return backend.ToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}
