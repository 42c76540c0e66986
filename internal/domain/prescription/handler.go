package prescription

import (
	"net/http"
	"strconv"

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
	medRead := api.Group("/medicines", auth.RequireRole(session.StaffRoles...))
	medRead.GET("", h.ListMedicines)
	medRead.GET("/low-stock", h.LowStock)
	medRead.GET("/:id", h.GetMedicine)

	editors := auth.RequireRole(session.RoleAdmin, session.RoleManager)
	medRead.POST("", h.CreateMedicine, editors)
	medRead.PUT("/:id", h.UpdateMedicine, editors)
	medRead.DELETE("/:id", h.DeleteMedicine, editors)

	rx := api.Group("/prescriptions", auth.RequireRole(session.RoleDoctor, session.RoleNurse))
	rx.GET("", h.List)
	rx.GET("/:id", h.Get)
	rx.POST("", h.Create, auth.RequireRole(session.RoleDoctor))
}

func (h *Handler) ListMedicines(c echo.Context) error {
	p := pagination.FromContext(c)
	items, total, err := h.svc.ListMedicines(c.Request().Context(), c.QueryParam("search"), p)
	if err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p))
}

func (h *Handler) LowStock(c echo.Context) error {
	threshold, _ := strconv.Atoi(c.QueryParam("threshold"))
	items, err := h.svc.LowStock(c.Request().Context(), threshold)
	if err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) GetMedicine(c echo.Context) error {
	m, err := h.svc.GetMedicine(c.Request().Context(), c.Param("id"))
	if err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) CreateMedicine(c echo.Context) error {
	var m Medicine
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateMedicine(c.Request().Context(), &m); err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) UpdateMedicine(c echo.Context) error {
	var m Medicine
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m.ID = backend.ID(c.Param("id"))
	if err := h.svc.UpdateMedicine(c.Request().Context(), &m); err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) DeleteMedicine(c echo.Context) error {
	if err := h.svc.DeleteMedicine(c.Request().Context(), c.Param("id")); err != nil {
		return backend.ToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c)
	f := Filter{DoctorID: c.QueryParam("doctor_id"), PatientID: c.QueryParam("patient_id"), Date: c.QueryParam("date")}
	items, total, err := h.svc.List(c.Request().Context(), f, p)
	if err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p))
}

func (h *Handler) Get(c echo.Context) error {
	rx, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, rx)
}

func (h *Handler) Create(c echo.Context) error {
	var rx Prescription
	if err := c.Bind(&rx); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &rx); err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, rx)
}
