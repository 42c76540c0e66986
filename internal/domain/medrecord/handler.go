package medrecord

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
	read := api.Group("/medical-records", auth.RequireRole(session.RoleDoctor, session.RoleNurse))
	read.GET("/patient/:patientId", h.ByPatient)
	read.GET("/:id", h.Get)

	doctor := auth.RequireRole(session.RoleDoctor)
	read.POST("", h.Create, doctor)
	read.PUT("/:id", h.Update, doctor)
	read.PUT("/:id/internal", h.SaveInternal, doctor)
	read.PUT("/:id/pediatric", h.SavePediatric, doctor)
	read.PUT("/:id/dermatology", h.SaveDermatology, doctor)
}

func (h *Handler) ByPatient(c echo.Context) error {
	items, err := h.svc.ByPatient(c.Request().Context(), c.Param("patientId"))
	if err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) Get(c echo.Context) error {
	d, err := h.svc.Detail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) Create(c echo.Context) error {
	var r MedicalRecord
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &r); err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *Handler) Update(c echo.Context) error {
	var r MedicalRecord
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	r.ID = backend.ID(c.Param("id"))
	if err := h.svc.Update(c.Request().Context(), &r); err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) SaveInternal(c echo.Context) error {
	var rec InternalMedRecord
	if err := c.Bind(&rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.SaveInternal(c.Request().Context(), c.Param("id"), &rec); err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) SavePediatric(c echo.Context) error {
	var rec PediatricRecord
	if err := c.Bind(&rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.SavePediatric(c.Request().Context(), c.Param("id"), &rec); err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) SaveDermatology(c echo.Context) error {
	var rec DermatologyRecord
	if err := c.Bind(&rec); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.SaveDermatology(c.Request().Context(), c.Param("id"), &rec); err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, rec)
}
