package web

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clinic/portal/internal/domain/catalog"
	"github.com/clinic/portal/internal/domain/notification"
	"github.com/clinic/portal/internal/domain/payment"
	"github.com/clinic/portal/internal/domain/staffing"
	"github.com/clinic/portal/internal/platform/backend"
	"github.com/clinic/portal/internal/platform/session"
	"github.com/clinic/portal/pkg/pagination"
)

type notificationsView struct {
	Notifications List[*notification.Notification]
	Unread        int
}

func (p *Pages) Notifications(c echo.Context) error {
	items, err := p.svc.Notifications.List(c.Request().Context())
	return p.render(c, "notifications", "Thông báo", notificationsView{
		Notifications: NewList(items, len(items), err, pagination.Params{}),
		Unread:        notification.Unread(items),
	})
}

func (p *Pages) MarkRead(c echo.Context) error {
	err := p.svc.Notifications.MarkRead(c.Request().Context(), c.Param("id"))
	return p.done(c, err, "Đã đánh dấu là đã đọc", "/notifications")
}

func (p *Pages) MarkAllRead(c echo.Context) error {
	err := p.svc.Notifications.MarkAllRead(c.Request().Context())
	return p.done(c, err, "Đã đánh dấu tất cả là đã đọc", "/notifications")
}

type paymentsView struct {
	Status       string
	Payments     List[*payment.Payment]
	Summary      *payment.Summary
	SummaryError string
	CanConfirm   bool
}

func (p *Pages) Payments(c echo.Context) error {
	ctx := c.Request().Context()
	pg := pagination.FromContext(c)
	f := payment.Filter{
		Status: c.QueryParam("status"),
		From:   c.QueryParam("from"),
		To:     c.QueryParam("to"),
	}
	items, total, err := p.svc.Payments.List(ctx, f, pg)
	v := paymentsView{
		Status:     f.Status,
		Payments:   NewList(items, total, err, pg),
		CanConfirm: session.Current(c).HasRole(session.RoleReception),
	}
	if sum, err := p.svc.Payments.Summary(ctx, f); err != nil {
		v.SummaryError = Message(err)
	} else {
		v.Summary = &sum
	}
	return p.render(c, "payments", "Thanh toán", v)
}

func (p *Pages) ConfirmPayment(c echo.Context) error {
	err := p.svc.Payments.Confirm(c.Request().Context(), c.Param("id"), c.FormValue("paymentMethod"))
	return p.done(c, err, "Đã xác nhận thanh toán", "/payments")
}

type shiftsView struct {
	Week         string
	PrevWeek     string
	NextWeek     string
	Shifts       List[*staffing.Shift]
	Doctors      []*staffing.Doctor
	DoctorsError string
	Selection    *staffing.Selection
	Gaps         int
}

// week returns the Monday of the week containing the "week" value, or of
// the current week.
func week(raw string) time.Time {
	if d, err := backend.ParseDate(raw); err == nil {
		return staffing.WeekStart(d.Time)
	}
	return staffing.WeekStart(time.Now())
}

func (p *Pages) Shifts(c echo.Context) error {
	ctx := c.Request().Context()
	start := week(c.QueryParam("week"))
	from := start.Format(backend.DateLayout)
	to := start.AddDate(0, 0, 6).Format(backend.DateLayout)

	shifts, err := p.svc.Staffing.Shifts(ctx, from, to)
	v := shiftsView{
		Week:      from,
		PrevWeek:  start.AddDate(0, 0, -7).Format(backend.DateLayout),
		NextWeek:  start.AddDate(0, 0, 7).Format(backend.DateLayout),
		Shifts:    NewList(shifts, len(shifts), err, pagination.Params{}),
		Selection: staffing.NewSelection(shifts),
		Gaps:      len(staffing.Coverage(shifts)),
	}
	if err == nil {
		doctors, derr := p.svc.Staffing.Doctors(ctx)
		if derr != nil {
			v.DoctorsError = Message(derr)
		}
		v.Doctors = doctors
	}
	return p.render(c, "shifts", "Phân công ca làm việc", v)
}

// SaveAssignments applies the submitted checkbox grid. Each "assign" value
// is "<shiftID>:<doctorID>"; shifts with no checked box are cleared.
func (p *Pages) SaveAssignments(c echo.Context) error {
	ctx := c.Request().Context()
	start := week(c.FormValue("week"))
	from := start.Format(backend.DateLayout)
	to := start.AddDate(0, 0, 6).Format(backend.DateLayout)
	back := "/shifts?week=" + from

	shifts, err := p.svc.Staffing.Shifts(ctx, from, to)
	if err != nil {
		return p.done(c, err, "", back)
	}
	form, err := c.FormParams()
	if err != nil {
		return p.done(c, backend.Invalid("assign", "dữ liệu không hợp lệ"), "", back)
	}
	picked := make(map[backend.ID][]backend.ID)
	for _, v := range form["assign"] {
		shiftID, doctorID, ok := strings.Cut(v, ":")
		if !ok || shiftID == "" || doctorID == "" {
			continue
		}
		picked[backend.ID(shiftID)] = append(picked[backend.ID(shiftID)], backend.ID(doctorID))
	}

	sel := staffing.NewSelection(shifts)
	for _, sh := range shifts {
		sel.Set(sh.ID, picked[sh.ID])
	}
	n, err := p.svc.Staffing.SaveSelection(ctx, sel)
	return p.done(c, err, "Đã lưu phân công cho "+strconv.Itoa(n)+" ca", back)
}

type catalogView struct {
	Services  List[*catalog.ServiceDto]
	TestTypes List[*catalog.TestType]
}

func (p *Pages) Catalog(c echo.Context) error {
	ctx := c.Request().Context()
	all := pagination.Params{Page: 1, PageSize: pagination.MaxPageSize}
	services, stotal, serr := p.svc.Catalog.ListServices(ctx, all)
	types, ttotal, terr := p.svc.Catalog.ListTestTypes(ctx, all)
	return p.render(c, "catalog", "Dịch vụ & xét nghiệm", catalogView{
		Services:  NewList(services, stotal, serr, all),
		TestTypes: NewList(types, ttotal, terr, all),
	})
}
