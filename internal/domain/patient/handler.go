package patient

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
	g := api.Group("/patients", auth.RequireRole(session.RoleDoctor, session.RoleNurse, session.RoleReception))
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete, auth.RequireRole(session.RoleReception))
}

// patientView adds the derived age to the backend record.
type patientView struct {
	*Patient
	Age int `json:"age"`
}

func (h *Handler) view(p *Patient) patientView {
	return patientView{Patient: p, Age: h.svc.Age(p)}
}

func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c)
	f := Filter{Search: c.QueryParam("search"), Gender: c.QueryParam("gender")}
	items, total, err := h.svc.List(c.Request().Context(), f, p)
	if err != nil {
		return backend.ToHTTP(err)
	}
	views := make([]patientView, 0, len(items))
	for _, it := range items {
		views = append(views, h.view(it))
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(views, total, p))
}

func (h *Handler) Get(c echo.Context) error {
	p, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, h.view(p))
}

func (h *Handler) Create(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &p); err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusCreated, h.view(&p))
}

func (h *Handler) Update(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = backend.ID(c.Param("id"))
	if err := h.svc.Update(c.Request().Context(), &p); err != nil {
		return backend.ToHTTP(err)
	}
	return c.JSON(http.StatusOK, h.view(&p))
}

func (h *Handler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return backend.ToHTTP(err)
	}
	return c.NoContent(http.StatusNoContent)
}
