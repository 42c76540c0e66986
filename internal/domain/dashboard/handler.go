package dashboard

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clinic/portal/internal/platform/auth"
	"github.com/clinic/portal/internal/platform/session"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts one dashboard per role, each reachable only by that
// role.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	for _, role := range []string{session.RoleDoctor, session.RoleNurse, session.RoleReception, session.RoleManager, session.RoleAdmin} {
		api.GET("/dashboard/"+role, h.show(role), auth.RequireRole(role))
	}
}

func (h *Handler) show(role string) echo.HandlerFunc {
	return func(c echo.Context) error {
		v, err := h.svc.ForRole(c.Request().Context(), role)
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return c.JSON(http.StatusOK, v)
	}
}
