package catalog

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
	editors := auth.RequireRole(session.RoleAdmin, session.RoleManager)

	svc := api.Group("/services", auth.RequireRole(session.StaffRoles...))
	svc.GET("", h.ListServices)
	svc.GET("/:id", h.GetService)
	svc.POST("", h.CreateService, editors)
	svc.PUT("/:id", h.UpdateService, editors)
	svc.DELETE("/:id", h.DeleteService, editors)

	tt := api.Group("/test-types", auth.RequireRole(session.StaffRoles...))
	tt.GET("", h.ListTestTypes)
	tt.GET("/:id", h.GetTestType)
	tt.POST("", h.CreateTestType, editors)
	tt.PUT("/:id", h.UpdateTestType, editors)
	tt.DELETE("/:id", h.DeleteTestType, editors)
}

// -- Services --

func (h *Handler) ListServices(c echo.Context) error {
	p := pagination.FromContext(c)
	items, total, err := h.svc.ListServices(c.Request().Context(), p)
	if err != nil {
		return backend.ToHTTP(err)
	}
	if c.QueryParam("active") == "true" {
		items = ActiveOnly(items)
		total = len(items)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p))
}

func (h *Handler) GetService(c echo.Context) error {
	s, err := h.svc.GetService(c.Request().Context(), c.Param("id"))
	if err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) CreateService(c echo.Context) error {
	var s ServiceDto
	if err := c.Bind(&s); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateService(c.Request().Context(), &s); err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *Handler) UpdateService(c echo.Context) error {
	var s ServiceDto
	if err := c.Bind(&s); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	s.ID = backend.ID(c.Param("id"))
	if err := h.svc.UpdateService(c.Request().Context(), &s); err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *Handler) DeleteService(c echo.Context) error {
	if err := h.svc.DeleteService(c.Request().Context(), c.Param("id")); err != nil {
		return backend.ToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Test types --

func (h *Handler) ListTestTypes(c echo.Context) error {
	p := pagination.FromContext(c)
	items, total, err := h.svc.ListTestTypes(c.Request().Context(), p)
	if err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p))
}

func (h *Handler) GetTestType(c echo.Context) error {
	t, err := h.svc.GetTestType(c.Request().Context(), c.Param("id"))
	if err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) CreateTestType(c echo.Context) error {
	var t TestType
	if err := c.Bind(&t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateTestType(c.Request().Context(), &t); err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *Handler) UpdateTestType(c echo.Context) error {
	var t TestType
	if err := c.Bind(&t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	t.ID = backend.ID(c.Param("id"))
	if err := h.svc.UpdateTestType(c.Request().Context(), &t); err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) DeleteTestType(c echo.Context) error {
	if err := h.svc.DeleteTestType(c.Request().Context(), c.Param("id")); err != nil {
		return backend.ToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}
