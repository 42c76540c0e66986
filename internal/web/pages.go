package web

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/clinic/portal/internal/domain/appointment"
	"github.com/clinic/portal/internal/domain/catalog"
	"github.com/clinic/portal/internal/domain/dashboard"
	"github.com/clinic/portal/internal/domain/labresult"
	"github.com/clinic/portal/internal/domain/medrecord"
	"github.com/clinic/portal/internal/domain/notification"
	"github.com/clinic/portal/internal/domain/patient"
	"github.com/clinic/portal/internal/domain/payment"
	"github.com/clinic/portal/internal/domain/prescription"
	"github.com/clinic/portal/internal/domain/staffing"
	"github.com/clinic/portal/internal/platform/auth"
	"github.com/clinic/portal/internal/platform/navigation"
	"github.com/clinic/portal/internal/platform/session"
)

// Services are the domain services the pages read and write through.
type Services struct {
	Patients      *patient.Service
	Appointments  *appointment.Service
	Prescriptions *prescription.Service
	Catalog       *catalog.Service
	Labs          *labresult.Service
	Records       *medrecord.Service
	Notifications *notification.Service
	Payments      *payment.Service
	Staffing      *staffing.Service
	Dashboard     *dashboard.Service
}

type Pages struct {
	svc    Services
	logger zerolog.Logger
}

func NewPages(svc Services, logger zerolog.Logger) *Pages {
	return &Pages{svc: svc, logger: logger}
}

// RegisterRoutes mounts every page. Each guarded page runs only for the
// roles auth.PageRoles lists for its path.
func (p *Pages) RegisterRoutes(e *echo.Echo) {
	e.GET("/", p.Home)
	for _, role := range session.StaffRoles {
		home := auth.HomeFor(role)
		e.GET(home, p.Dashboard(role), auth.PageGuard(home))
	}

	patients := auth.PageGuard("/patients")
	e.GET("/patients", p.Patients, patients)
	e.POST("/patients", p.CreatePatient, patients, auth.RequirePageRole(session.RoleReception))

	appts := auth.PageGuard("/appointments")
	e.GET("/appointments", p.Appointments, appts)
	e.POST("/appointments/:id/status", p.UpdateAppointmentStatus, appts)

	records := auth.PageGuard("/records")
	e.GET("/records", p.RecordsIndex, records)
	e.GET("/records/:patientID", p.Records, records)
	e.GET("/records/:patientID/:id", p.Record, records)

	tests := auth.PageGuard("/test-results")
	e.GET("/test-results", p.TestResults, tests)
	e.POST("/test-results/:id/result", p.EnterResult, tests)

	e.GET("/prescriptions", p.Prescriptions, auth.PageGuard("/prescriptions"))
	e.GET("/medicines", p.Medicines, auth.PageGuard("/medicines"))

	notes := auth.PageGuard("/notifications")
	e.GET("/notifications", p.Notifications, notes)
	e.POST("/notifications/read-all", p.MarkAllRead, notes)
	e.POST("/notifications/:id/read", p.MarkRead, notes)

	pays := auth.PageGuard("/payments")
	e.GET("/payments", p.Payments, pays)
	e.POST("/payments/:id/confirm", p.ConfirmPayment, pays, auth.RequirePageRole(session.RoleReception))

	shifts := auth.PageGuard("/shifts")
	e.GET("/shifts", p.Shifts, shifts)
	e.POST("/shifts/assignments", p.SaveAssignments, shifts)

	e.GET("/catalog", p.Catalog, auth.PageGuard("/catalog"))
	e.GET("/assistant", p.Assistant, auth.PageGuard("/assistant"))
}

func (p *Pages) render(c echo.Context, name, title string, data interface{}) error {
	u := session.Current(c)
	page := &Page{
		Title: title,
		Path:  c.Request().URL.Path,
		Query: c.QueryParams(),
		User:  u,
		Flash: takeFlash(c),
		Data:  data,
	}
	if u != nil {
		page.Nav = navigation.Active(navigation.ForRole(u.Role), page.Path)
	}
	return c.Render(http.StatusOK, name, page)
}

// done flashes the outcome of a form post and redirects back.
func (p *Pages) done(c echo.Context, err error, success, fallback string) error {
	if err != nil {
		p.logger.Warn().Err(err).Str("path", c.Request().URL.Path).Msg("form action failed")
		SetFlash(c, FlashError, Message(err))
	} else {
		SetFlash(c, FlashSuccess, success)
	}
	return c.Redirect(http.StatusSeeOther, backTo(c, fallback))
}

// backTo returns the form's local "back" path, or fallback.
func backTo(c echo.Context, fallback string) string {
	b := c.FormValue("back")
	if strings.HasPrefix(b, "/") && !strings.HasPrefix(b, "//") && !strings.Contains(b, `\`) {
		return b
	}
	return fallback
}

var loginErrors = map[string]string{
	"login_failed":        "Sai tên đăng nhập hoặc mật khẩu",
	"no_role":             "Tài khoản không có quyền sử dụng hệ thống",
	"backend_unavailable": "Không kết nối được máy chủ, vui lòng thử lại sau",
}

type loginView struct {
	Error string
}

// Home shows the login form, or sends a signed-in user to their dashboard.
func (p *Pages) Home(c echo.Context) error {
	if u := session.Current(c); u.HasRole(session.StaffRoles...) {
		return c.Redirect(http.StatusSeeOther, auth.HomeFor(u.Role))
	}
	v := loginView{}
	if code := c.QueryParam("error"); code != "" {
		v.Error = loginErrors[code]
		if v.Error == "" {
			v.Error = loginErrors["login_failed"]
		}
	}
	return p.render(c, "login", "Đăng nhập", v)
}

func (p *Pages) Dashboard(role string) echo.HandlerFunc {
	return func(c echo.Context) error {
		v, err := p.svc.Dashboard.ForRole(c.Request().Context(), role)
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return p.render(c, "dashboard", v.Title, v)
	}
}

// RecordsIndex sends the user to the patient list; records are opened per
// patient.
func (p *Pages) RecordsIndex(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, "/patients")
}

func (p *Pages) Assistant(c echo.Context) error {
	return p.render(c, "assistant", "Trợ lý AI", nil)
}
