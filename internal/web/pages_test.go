package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

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
	"github.com/clinic/portal/internal/platform/backend/backendtest"
	"github.com/clinic/portal/internal/platform/session"
)

type harness struct {
	e   *echo.Echo
	srv *backendtest.Server
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	srv := backendtest.New(t)
	api := srv.Client

	svc := Services{
		Patients:      patient.NewService(patient.NewRepo(api)),
		Appointments:  appointment.NewService(appointment.NewRepo(api)),
		Prescriptions: prescription.NewService(prescription.NewMedicineRepo(api), prescription.NewPrescriptionRepo(api)),
		Catalog:       catalog.NewService(catalog.NewServiceRepo(api), catalog.NewTestTypeRepo(api)),
		Labs:          labresult.NewService(labresult.NewRepo(api)),
		Records: medrecord.NewService(medrecord.NewRecordRepo(api),
			medrecord.NewInternalRepo(api), medrecord.NewPediatricRepo(api), medrecord.NewDermatologyRepo(api)),
		Notifications: notification.NewService(notification.NewRepo(api)),
		Payments:      payment.NewService(payment.NewRepo(api)),
		Staffing:      staffing.NewService(staffing.NewRepo(api)),
	}
	svc.Dashboard = dashboard.NewService(dashboard.Sources{
		Appointments:  svc.Appointments,
		Labs:          svc.Labs,
		Prescriptions: svc.Prescriptions,
		Notifications: svc.Notifications,
		Patients:      svc.Patients,
		Payments:      svc.Payments,
		Staffing:      svc.Staffing,
		Catalog:       svc.Catalog,
	}, zerolog.Nop())

	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	e := echo.New()
	e.Renderer = r
	NewPages(svc, zerolog.Nop()).RegisterRoutes(e)
	return &harness{e: e, srv: srv}
}

func (h *harness) do(method, target, role string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	if role != "" {
		req = req.WithContext(session.WithUser(req.Context(), backendtest.User(role)))
	}
	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)
	return rec
}

func flashCookieFrom(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == flashCookie && ck.Value != "" {
			return ck
		}
	}
	return nil
}

func TestGuard_RoleOutsideAllowList(t *testing.T) {
	h := newHarness(t)
	h.srv.Reply(http.MethodGet, "/Payments", http.StatusOK, []map[string]interface{}{
		{"id": 1, "patientName": "Trần Thị B", "amount": 200000, "status": "pending"},
	})

	cases := []struct {
		path, role string
	}{
		{"/payments", session.RoleNurse},
		{"/payments", ""},
		{"/doctor", session.RoleAdmin},
		{"/shifts", session.RoleDoctor},
		{"/records/1", session.RoleReception},
		{"/catalog", session.RoleNurse},
	}
	for _, tc := range cases {
		rec := h.do(http.MethodGet, tc.path, tc.role, nil)
		if rec.Code != http.StatusSeeOther {
			t.Errorf("%s as %q: expected 303, got %d", tc.path, tc.role, rec.Code)
		}
		if loc := rec.Header().Get(echo.HeaderLocation); loc != "/" {
			t.Errorf("%s as %q: redirected to %q", tc.path, tc.role, loc)
		}
		if strings.Contains(rec.Body.String(), "Trần Thị B") {
			t.Errorf("%s as %q: protected content rendered", tc.path, tc.role)
		}
	}
	if n := len(h.srv.Calls()); n != 0 {
		t.Errorf("guarded handlers must not reach the backend, got %d calls", n)
	}
}

func TestGuard_ReceptionOnlyAction(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodPost, "/payments/5/confirm", session.RoleManager, url.Values{"paymentMethod": {"cash"}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/" {
		t.Errorf("manager confirm: got %d to %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
	if n := len(h.srv.Calls()); n != 0 {
		t.Errorf("expected no backend calls, got %d", n)
	}
}

func TestPatients_BackendError(t *testing.T) {
	h := newHarness(t)
	h.srv.Reply(http.MethodGet, "/Patients", http.StatusInternalServerError, map[string]string{"message": "database down"})

	rec := h.do(http.MethodGet, "/patients", session.RoleDoctor, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `class="alert alert-error"`) {
		t.Error("error state not rendered")
	}
	if strings.Contains(body, `<table class="list">`) || strings.Contains(body, NoData) {
		t.Error("error state must not render rows or the empty message")
	}
}

func TestRecords_NoContentPatient(t *testing.T) {
	h := newHarness(t)
	h.srv.Handle(http.MethodGet, "/Patients/7", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rec := h.do(http.MethodGet, "/records/7", session.RoleDoctor, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `class="alert alert-error"`) || !strings.Contains(body, "Không tìm thấy dữ liệu") {
		t.Error("missing patient should render the error state")
	}
	if n := len(h.srv.Calls()); n != 1 {
		t.Errorf("nothing else should load after the patient fails, got %d calls", n)
	}
}

func TestPatients_Empty(t *testing.T) {
	h := newHarness(t)
	h.srv.Reply(http.MethodGet, "/Patients", http.StatusOK, map[string]interface{}{"data": []interface{}{}, "total": 0})

	body := h.do(http.MethodGet, "/patients", session.RoleNurse, nil).Body.String()
	if !strings.Contains(body, NoData) {
		t.Error("empty state should say there is no data")
	}
	if strings.Contains(body, `<table class="list">`) {
		t.Error("empty state must not render a table")
	}
}

func TestPatients_Data(t *testing.T) {
	h := newHarness(t)
	h.srv.Reply(http.MethodGet, "/Patients", http.StatusOK, map[string]interface{}{
		"data": []map[string]interface{}{
			{"id": 1, "fullName": "Lê Văn <C>", "dateOfBirth": "1990-05-01", "gender": "male", "phone": "0901234567"},
		},
		"total": 45,
	})

	rec := h.do(http.MethodGet, "/patients?q=Le", session.RoleDoctor, nil)
	body := rec.Body.String()
	if !strings.Contains(body, "Lê Văn &lt;C&gt;") {
		t.Error("patient row missing or not escaped")
	}
	if !strings.Contains(body, "01/05/1990") {
		t.Error("date of birth should be shown as dd/mm/yyyy")
	}
	if !strings.Contains(body, `href="/records/1"`) {
		t.Error("doctor should get a link to the records")
	}
	if !strings.Contains(body, "page=2") {
		t.Error("pager should link to the next page")
	}
	if strings.Contains(body, `action="/patients" method`) || strings.Contains(body, "Thêm bệnh nhân") {
		t.Error("only reception may create patients")
	}
	if q := h.srv.Last().Query; !strings.Contains(q, "search=Le") {
		t.Errorf("search not forwarded: %s", q)
	}
}

func TestCreatePatient_ValidationFlash(t *testing.T) {
	h := newHarness(t)
	h.srv.Reply(http.MethodGet, "/Patients", http.StatusOK, []interface{}{})

	rec := h.do(http.MethodPost, "/patients", session.RoleReception, url.Values{"fullName": {"  "}, "dateOfBirth": {"1990-01-01"}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/patients" {
		t.Fatalf("expected redirect to /patients, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
	ck := flashCookieFrom(rec)
	if ck == nil {
		t.Fatal("flash cookie not set")
	}
	for _, c := range h.srv.Calls() {
		if c.Method == http.MethodPost {
			t.Error("invalid patient must not be sent to the backend")
		}
	}

	body := h.do(http.MethodGet, "/patients", session.RoleReception, nil, ck).Body.String()
	if !strings.Contains(body, "toast-error") || !strings.Contains(body, "họ tên là bắt buộc") {
		t.Errorf("flash not rendered: %s", body)
	}
}

func TestCreatePatient_Success(t *testing.T) {
	h := newHarness(t)
	h.srv.Reply(http.MethodPost, "/Patients", http.StatusCreated, map[string]interface{}{"id": 9, "fullName": "Phạm D"})

	rec := h.do(http.MethodPost, "/patients", session.RoleReception, url.Values{"fullName": {"Phạm D"}, "dateOfBirth": {"2001-02-03"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if ck := flashCookieFrom(rec); ck == nil {
		t.Error("success flash not set")
	}
	if h.srv.Last().Method != http.MethodPost {
		t.Error("patient not created")
	}
}

func TestAppointments_DefaultsToToday(t *testing.T) {
	h := newHarness(t)
	h.srv.Reply(http.MethodGet, "/Appointments", http.StatusOK, []map[string]interface{}{
		{"id": 3, "patientName": "Hoàng E", "appointmentDate": "2024-06-15", "timeSlot": "08:00", "status": "Confirmed"},
	})

	body := h.do(http.MethodGet, "/appointments", session.RoleReception, nil).Body.String()
	if !strings.Contains(body, "Hoàng E") {
		t.Error("appointment row missing")
	}
	if !strings.Contains(h.srv.Last().Query, "date=") {
		t.Errorf("list should default to today's date, query %q", h.srv.Last().Query)
	}
}

func TestUpdateAppointmentStatus(t *testing.T) {
	h := newHarness(t)
	h.srv.Reply(http.MethodPut, "/Appointments/3/status", http.StatusNoContent, nil)

	rec := h.do(http.MethodPost, "/appointments/3/status", session.RoleNurse, url.Values{
		"status": {"checked_in"},
		"back":   {"/appointments?date=2024-06-15"},
	})
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/appointments?date=2024-06-15" {
		t.Errorf("unexpected redirect %q", loc)
	}
	if body := string(h.srv.Last().Body); !strings.Contains(body, "checked_in") {
		t.Errorf("status not sent: %s", body)
	}
}

func TestHome(t *testing.T) {
	h := newHarness(t)

	body := h.do(http.MethodGet, "/", "", nil).Body.String()
	if !strings.Contains(body, `action="/auth/login"`) {
		t.Error("anonymous visitors should see the login form")
	}

	rec := h.do(http.MethodGet, "/", session.RoleNurse, nil)
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/nurse" {
		t.Errorf("nurse should go to /nurse, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}

	body = h.do(http.MethodGet, "/?error=no_role", "", nil).Body.String()
	if !strings.Contains(body, loginErrors["no_role"]) {
		t.Error("login error not shown")
	}
}

func TestDashboardPage_FailingCardStandsAlone(t *testing.T) {
	h := newHarness(t)
	h.srv.Reply(http.MethodGet, "/DoctorAppointments/d-1", http.StatusOK, []map[string]interface{}{
		{"id": 1, "status": "pending"}, {"id": 2, "status": "completed"},
	})
	h.srv.Reply(http.MethodGet, "/TestResults", http.StatusInternalServerError, map[string]string{"message": "boom"})
	h.srv.Reply(http.MethodGet, "/PrescriptionsDoctor", http.StatusOK, map[string]interface{}{"data": []interface{}{}, "total": 3})

	rec := h.do(http.MethodGet, "/doctor", session.RoleDoctor, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, dashboard.LoadFailed) {
		t.Error("failed card should show its error")
	}
	if !strings.Contains(body, `<div class="card-value">2</div>`) {
		t.Error("appointments card should still show its value")
	}
	if !strings.Contains(body, `<div class="card-value">3</div>`) {
		t.Error("prescriptions card should still show its value")
	}
	if !strings.Contains(body, `class="nav-item active"`) {
		t.Error("dashboard nav item should be active")
	}
}

func TestSaveAssignments(t *testing.T) {
	h := newHarness(t)
	h.srv.Reply(http.MethodGet, "/Manager/shifts", http.StatusOK, []map[string]interface{}{
		{"id": 1, "name": "Ca sáng", "date": "2024-06-10", "startTime": "07:00", "endTime": "11:00", "doctorIds": []int{}},
		{"id": 2, "name": "Ca chiều", "date": "2024-06-10", "startTime": "13:00", "endTime": "17:00", "doctorIds": []int{8}},
		{"id": 3, "name": "Ca tối", "date": "2024-06-10", "startTime": "17:00", "endTime": "21:00", "doctorIds": []int{8}},
	})
	h.srv.Reply(http.MethodPut, "/Manager/shifts/1/doctors", http.StatusNoContent, nil)
	h.srv.Reply(http.MethodPut, "/Manager/shifts/2/doctors", http.StatusNoContent, nil)

	rec := h.do(http.MethodPost, "/shifts/assignments", session.RoleManager, url.Values{
		"week":   {"2024-06-12"},
		"assign": {"1:7", "3:8", "bad"},
	})
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/shifts?week=2024-06-10" {
		t.Errorf("unexpected redirect %q", loc)
	}

	var puts []string
	for _, c := range h.srv.Calls() {
		if c.Method == http.MethodGet && !strings.Contains(c.Query, "fromDate=2024-06-10") {
			t.Errorf("shifts should be loaded from the week's Monday, query %q", c.Query)
		}
		if c.Method == http.MethodPut {
			puts = append(puts, c.Path+" "+string(c.Body))
		}
	}
	if len(puts) != 2 {
		t.Fatalf("expected only changed shifts to be saved, got %v", puts)
	}
	if !strings.Contains(puts[0], "/Manager/shifts/1/doctors") || !strings.Contains(puts[0], `[7]`) {
		t.Errorf("shift 1: %s", puts[0])
	}
	if !strings.Contains(puts[1], "/Manager/shifts/2/doctors") || !strings.Contains(puts[1], "[]") {
		t.Errorf("shift 2 should be cleared: %s", puts[1])
	}
}

func TestShiftsPage_Grid(t *testing.T) {
	h := newHarness(t)
	h.srv.Reply(http.MethodGet, "/Manager/shifts", http.StatusOK, []map[string]interface{}{
		{"id": 1, "name": "Ca sáng", "date": "2024-06-10", "startTime": "07:00", "endTime": "11:00", "doctorIds": []int{7}},
	})
	h.srv.Reply(http.MethodGet, "/Manager/doctors", http.StatusOK, []map[string]interface{}{
		{"id": 7, "fullName": "BS. An"}, {"id": 8, "fullName": "BS. Bình"},
	})

	body := h.do(http.MethodGet, "/shifts?week=2024-06-10", session.RoleManager, nil).Body.String()
	if !strings.Contains(body, `value="1:7" checked`) {
		t.Error("assigned doctor should be checked")
	}
	if strings.Contains(body, `value="1:8" checked`) {
		t.Error("unassigned doctor should not be checked")
	}
	if !strings.Contains(body, "2024-06-03") || !strings.Contains(body, "2024-06-17") {
		t.Error("week navigation links missing")
	}
}

func TestStaticStylesheet(t *testing.T) {
	e := echo.New()
	RegisterStatic(e)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/portal.css", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), ".sidebar") {
		t.Errorf("stylesheet not served: %d", rec.Code)
	}
}

func TestErrorHandler(t *testing.T) {
	h := newHarness(t)
	h.e.HTTPErrorHandler = ErrorHandler(h.e, zerolog.Nop())

	rec := h.do(http.MethodGet, "/no-such-page", session.RoleNurse, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, statusMessages[http.StatusNotFound]) || !strings.Contains(body, `class="sidebar"`) {
		t.Errorf("expected the HTML error page with the sidebar: %s", body)
	}

	rec = h.do(http.MethodGet, "/api/v1/missing", "", nil)
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, echo.MIMEApplicationJSON) {
		t.Errorf("API errors should stay JSON, got %q", ct)
	}
}
