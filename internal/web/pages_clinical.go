package web

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/clinic/portal/internal/domain/appointment"
	"github.com/clinic/portal/internal/domain/labresult"
	"github.com/clinic/portal/internal/domain/medrecord"
	"github.com/clinic/portal/internal/domain/patient"
	"github.com/clinic/portal/internal/domain/prescription"
	"github.com/clinic/portal/internal/platform/backend"
	"github.com/clinic/portal/internal/platform/session"
	"github.com/clinic/portal/pkg/pagination"
)

type patientRow struct {
	*patient.Patient
	Age int
}

type patientsView struct {
	Search    string
	Patients  List[patientRow]
	CanCreate bool
}

func (p *Pages) Patients(c echo.Context) error {
	ctx := c.Request().Context()
	pg := pagination.FromContext(c)
	search := strings.TrimSpace(c.QueryParam("q"))

	items, total, err := p.svc.Patients.List(ctx, patient.Filter{Search: search}, pg)
	rows := make([]patientRow, 0, len(items))
	for _, pt := range items {
		rows = append(rows, patientRow{Patient: pt, Age: p.svc.Patients.Age(pt)})
	}
	return p.render(c, "patients", "Bệnh nhân", patientsView{
		Search:    search,
		Patients:  NewList(rows, total, err, pg),
		CanCreate: session.Current(c).HasRole(session.RoleReception),
	})
}

func (p *Pages) CreatePatient(c echo.Context) error {
	pt := &patient.Patient{
		FullName:    c.FormValue("fullName"),
		Gender:      c.FormValue("gender"),
		Phone:       c.FormValue("phone"),
		Address:     c.FormValue("address"),
		InsuranceNo: c.FormValue("insuranceNumber"),
		Email:       c.FormValue("email"),
	}
	if dob := strings.TrimSpace(c.FormValue("dateOfBirth")); dob != "" {
		d, err := backend.ParseDate(dob)
		if err != nil {
			return p.done(c, backend.Invalid("dateOfBirth", "ngày sinh không hợp lệ"), "", "/patients")
		}
		pt.DateOfBirth = d
	}
	err := p.svc.Patients.Create(c.Request().Context(), pt)
	return p.done(c, err, "Đã thêm bệnh nhân "+pt.FullName, "/patients")
}

type appointmentsView struct {
	Date         string
	Status       string
	Appointments List[*appointment.Appointment]
}

func (p *Pages) Appointments(c echo.Context) error {
	pg := pagination.FromContext(c)
	f := appointment.Filter{
		Date:   c.QueryParam("date"),
		Status: c.QueryParam("status"),
	}
	if f.Date == "" && c.QueryParam("all") == "" {
		f.Date = p.svc.Appointments.TodayDate()
	}
	items, total, err := p.svc.Appointments.List(c.Request().Context(), f, pg)
	return p.render(c, "appointments", "Lịch hẹn", appointmentsView{
		Date:         f.Date,
		Status:       f.Status,
		Appointments: NewList(items, total, err, pg),
	})
}

func (p *Pages) UpdateAppointmentStatus(c echo.Context) error {
	status := c.FormValue("status")
	err := p.svc.Appointments.UpdateStatus(c.Request().Context(), c.Param("id"), status)
	return p.done(c, err, "Đã cập nhật trạng thái: "+appointment.StatusLabel(status), "/appointments")
}

type recordsView struct {
	Patient  *patient.Patient
	Age      int
	Error    string
	Records  List[*medrecord.MedicalRecord]
	Tests    List[*labresult.TestResult]
	CanWrite bool
}

// Records shows one patient's medical records and test results. When the
// patient cannot be loaded nothing else is shown.
func (p *Pages) Records(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("patientID")

	pt, err := p.svc.Patients.Get(ctx, id)
	if err != nil {
		return p.render(c, "records", "Hồ sơ bệnh án", recordsView{Error: Message(err)})
	}
	records, err := p.svc.Records.ByPatient(ctx, id)
	recList := NewList(records, len(records), err, pagination.Params{})
	tests, err := p.svc.Labs.ByPatient(ctx, id)
	testList := NewList(tests, len(tests), err, pagination.Params{})

	return p.render(c, "records", "Hồ sơ bệnh án: "+pt.FullName, recordsView{
		Patient:  pt,
		Age:      p.svc.Patients.Age(pt),
		Records:  recList,
		Tests:    testList,
		CanWrite: session.Current(c).HasRole(session.RoleDoctor),
	})
}

type recordView struct {
	PatientID string
	Error     string
	Detail    *medrecord.Detail
	BMI       float64
}

func (p *Pages) Record(c echo.Context) error {
	v := recordView{PatientID: c.Param("patientID")}
	d, err := p.svc.Records.Detail(c.Request().Context(), c.Param("id"))
	if err != nil {
		v.Error = Message(err)
	} else {
		v.Detail = d
		if d.Pediatric != nil {
			v.BMI = d.Pediatric.BMI()
		}
	}
	return p.render(c, "record", "Chi tiết bệnh án", v)
}

type testResultsView struct {
	Results  List[*labresult.TestResult]
	CanEnter bool
}

func (p *Pages) TestResults(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := p.svc.Labs.Worklist(c.Request().Context(), pg)
	return p.render(c, "test_results", "Xét nghiệm chờ kết quả", testResultsView{
		Results:  NewList(items, total, err, pg),
		CanEnter: session.Current(c).HasRole(session.RoleDoctor, session.RoleNurse),
	})
}

func (p *Pages) EnterResult(c echo.Context) error {
	e := labresult.Entry{Value: c.FormValue("resultValue"), Conclusion: c.FormValue("conclusion")}
	err := p.svc.Labs.Enter(c.Request().Context(), c.Param("id"), e)
	return p.done(c, err, "Đã lưu kết quả xét nghiệm", "/test-results")
}

type prescriptionsView struct {
	Date          string
	Prescriptions List[*prescription.Prescription]
}

func (p *Pages) Prescriptions(c echo.Context) error {
	pg := pagination.FromContext(c)
	date := c.QueryParam("date")
	items, total, err := p.svc.Prescriptions.ListMine(c.Request().Context(), date, pg)
	return p.render(c, "prescriptions", "Đơn thuốc của tôi", prescriptionsView{
		Date:          date,
		Prescriptions: NewList(items, total, err, pg),
	})
}

type medicineRow struct {
	*prescription.Medicine
	Low bool
}

type medicinesView struct {
	Search    string
	Medicines List[medicineRow]
	Threshold int
}

func (p *Pages) Medicines(c echo.Context) error {
	pg := pagination.FromContext(c)
	search := strings.TrimSpace(c.QueryParam("q"))
	items, total, err := p.svc.Prescriptions.ListMedicines(c.Request().Context(), search, pg)
	rows := make([]medicineRow, 0, len(items))
	for _, m := range items {
		rows = append(rows, medicineRow{Medicine: m, Low: m.Stock <= prescription.DefaultLowStock})
	}
	return p.render(c, "medicines", "Thuốc", medicinesView{
		Search:    search,
		Medicines: NewList(rows, total, err, pg),
		Threshold: prescription.DefaultLowStock,
	})
}
