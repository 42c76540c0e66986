package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"

	"github.com/clinic/portal/internal/domain/appointment"
	"github.com/clinic/portal/internal/domain/catalog"
	"github.com/clinic/portal/internal/domain/labresult"
	"github.com/clinic/portal/internal/domain/patient"
	"github.com/clinic/portal/internal/domain/payment"
	"github.com/clinic/portal/internal/domain/prescription"
	"github.com/clinic/portal/internal/domain/staffing"
	"github.com/clinic/portal/internal/platform/backend"
	"github.com/clinic/portal/internal/platform/session"
	"github.com/clinic/portal/pkg/pagination"
)

// LoadFailed is shown on a card, chart or breakdown whose data could not be
// loaded.
const LoadFailed = "Không tải được dữ liệu"

// Sources the dashboards read from. Each is satisfied by the matching domain
// service.
type (
	Appointments interface {
		Today(ctx context.Context) ([]*appointment.Appointment, error)
		List(ctx context.Context, f appointment.Filter, p pagination.Params) ([]*appointment.Appointment, int, error)
	}
	Labs interface {
		Worklist(ctx context.Context, p pagination.Params) ([]*labresult.TestResult, int, error)
	}
	Prescriptions interface {
		ListMine(ctx context.Context, date string, p pagination.Params) ([]*prescription.Prescription, int, error)
		LowStock(ctx context.Context, threshold int) ([]*prescription.Medicine, error)
	}
	Notifications interface {
		UnreadCount(ctx context.Context) (int, error)
	}
	Patients interface {
		List(ctx context.Context, f patient.Filter, p pagination.Params) ([]*patient.Patient, int, error)
	}
	Payments interface {
		Summary(ctx context.Context, f payment.Filter) (payment.Summary, error)
	}
	Staffing interface {
		Gaps(ctx context.Context, from, to string) ([]*staffing.Shift, error)
	}
	Catalog interface {
		ListServices(ctx context.Context, p pagination.Params) ([]*catalog.ServiceDto, int, error)
		ListTestTypes(ctx context.Context, p pagination.Params) ([]*catalog.TestType, int, error)
	}
)

type Sources struct {
	Appointments  Appointments
	Labs          Labs
	Prescriptions Prescriptions
	Notifications Notifications
	Patients      Patients
	Payments      Payments
	Staffing      Staffing
	Catalog       Catalog
}

// CardLoader produces the value of one card.
type CardLoader struct {
	Key    string
	Title  string
	Format string
	Load   func(ctx context.Context) (float64, error)
}

// panel is a chart or breakdown task. It fills its own slot and reports an
// error for the slot only.
type panel func(ctx context.Context) error

type Service struct {
	src    Sources
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(src Sources, logger zerolog.Logger) *Service {
	return &Service{src: src, logger: logger, now: time.Now}
}

var (
	ErrUnknownRole = errors.New("no dashboard for role")
	errNotLoaded   = errors.New("not loaded")
)

var one = pagination.Params{Page: 1, PageSize: 1}

var titles = map[string]string{
	session.RoleDoctor:    "Bảng điều khiển bác sĩ",
	session.RoleNurse:     "Bảng điều khiển y tá",
	session.RoleReception: "Bảng điều khiển lễ tân",
	session.RoleManager:   "Bảng điều khiển quản lý",
	session.RoleAdmin:     "Bảng điều khiển quản trị",
}

// ForRole builds the dashboard of role.
func (s *Service) ForRole(ctx context.Context, role string) (*View, error) {
	switch session.NormalizeRole(role) {
	case session.RoleDoctor:
		return s.Doctor(ctx), nil
	case session.RoleNurse:
		return s.Nurse(ctx), nil
	case session.RoleReception:
		return s.Reception(ctx), nil
	case session.RoleManager:
		return s.Manager(ctx), nil
	case session.RoleAdmin:
		return s.Admin(ctx), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
}

func (s *Service) today() string {
	return s.now().Format(backend.DateLayout)
}

func (s *Service) Doctor(ctx context.Context) *View {
	v := &View{Role: session.RoleDoctor, Title: titles[session.RoleDoctor]}
	v.Charts = []Chart{{Key: "appointments-by-status", Title: "Lịch hẹn hôm nay theo trạng thái"}}
	chart := func(ctx context.Context) error {
		items, err := s.src.Appointments.Today(ctx)
		if err != nil {
			return err
		}
		v.Charts[0].Series = []Series{StatusSeries(appointment.CountByStatus(items))}
		return nil
	}
	v.Cards = s.run(ctx, []CardLoader{
		{Key: "appointments-today", Title: "Lịch hẹn hôm nay", Format: FormatCount, Load: func(ctx context.Context) (float64, error) {
			items, err := s.src.Appointments.Today(ctx)
			return float64(len(items)), err
		}},
		{Key: "tests-pending", Title: "Xét nghiệm chờ kết quả", Format: FormatCount, Load: func(ctx context.Context) (float64, error) {
			_, total, err := s.src.Labs.Worklist(ctx, one)
			return float64(total), err
		}},
		{Key: "prescriptions-today", Title: "Đơn thuốc hôm nay", Format: FormatCount, Load: func(ctx context.Context) (float64, error) {
			_, total, err := s.src.Prescriptions.ListMine(ctx, s.today(), one)
			return float64(total), err
		}},
	}, map[string]panel{"chart:appointments-by-status": chart}, func(key string) { v.Charts[0].Error = LoadFailed })
	return v
}

func (s *Service) Nurse(ctx context.Context) *View {
	v := &View{Role: session.RoleNurse, Title: titles[session.RoleNurse]}
	v.Charts = []Chart{{Key: "tests-by-type", Title: "Xét nghiệm chờ theo loại"}}
	chart := func(ctx context.Context) error {
		items, err := pagination.All(ctx, s.src.Labs.Worklist)
		if err != nil {
			return err
		}
		v.Charts[0].Series = []Series{TestTypeSeries(labresult.CountByType(items))}
		return nil
	}
	v.Cards = s.run(ctx, []CardLoader{
		{Key: "worklist", Title: "Việc cần làm", Format: FormatCount, Load: func(ctx context.Context) (float64, error) {
			_, total, err := s.src.Labs.Worklist(ctx, one)
			return float64(total), err
		}},
		{Key: "appointments-today", Title: "Lịch hẹn hôm nay", Format: FormatCount, Load: s.appointmentsOn(s.today())},
		{Key: "notifications-unread", Title: "Thông báo chưa đọc", Format: FormatCount, Load: func(ctx context.Context) (float64, error) {
			n, err := s.src.Notifications.UnreadCount(ctx)
			return float64(n), err
		}},
	}, map[string]panel{"chart:tests-by-type": chart}, func(string) { v.Charts[0].Error = LoadFailed })
	return v
}

func (s *Service) Reception(ctx context.Context) *View {
	v := &View{Role: session.RoleReception, Title: titles[session.RoleReception]}
	v.Breakdowns = []Breakdown{{Key: "appointments-by-status", Title: "Lịch hẹn hôm nay theo trạng thái"}}
	bars := func(ctx context.Context) error {
		f := appointment.Filter{Date: s.today()}
		items, err := pagination.All(ctx, func(ctx context.Context, p pagination.Params) ([]*appointment.Appointment, int, error) {
			return s.src.Appointments.List(ctx, f, p)
		})
		if err != nil {
			return err
		}
		v.Breakdowns[0].Shares = Percentages(StatusCounts(appointment.CountByStatus(items)))
		return nil
	}
	v.Cards = s.run(ctx, []CardLoader{
		{Key: "appointments-today", Title: "Lịch hẹn hôm nay", Format: FormatCount, Load: s.appointmentsOn(s.today())},
		{Key: "patients-total", Title: "Tổng số bệnh nhân", Format: FormatCount, Load: func(ctx context.Context) (float64, error) {
			_, total, err := s.src.Patients.List(ctx, patient.Filter{}, one)
			return float64(total), err
		}},
		{Key: "payments-pending", Title: "Thanh toán chờ xử lý", Format: FormatCount, Load: func(ctx context.Context) (float64, error) {
			sum, err := s.src.Payments.Summary(ctx, payment.Filter{Status: payment.StatusPending})
			return float64(sum.Count), err
		}},
	}, map[string]panel{"breakdown:appointments-by-status": bars}, func(string) { v.Breakdowns[0].Error = LoadFailed })
	return v
}

func (s *Service) Manager(ctx context.Context) *View {
	v := &View{Role: session.RoleManager, Title: titles[session.RoleManager]}
	v.Charts = []Chart{{Key: "revenue", Title: "Doanh thu theo ngày"}}
	v.Breakdowns = []Breakdown{{Key: "revenue-by-method", Title: "Doanh thu theo phương thức"}}
	month := s.monthToDate()
	revenue := func(ctx context.Context) error {
		sum, err := s.src.Payments.Summary(ctx, month)
		if err != nil {
			return err
		}
		v.Charts[0].Series = []Series{RevenueSeries(sum)}
		v.Breakdowns[0].Shares = Percentages(MethodCounts(sum.ByMethod))
		return nil
	}
	v.Cards = s.run(ctx, []CardLoader{
		{Key: "revenue-month", Title: "Doanh thu tháng này", Format: FormatCurrency, Load: func(ctx context.Context) (float64, error) {
			sum, err := s.src.Payments.Summary(ctx, month)
			return sum.Paid, err
		}},
		{Key: "payments-pending", Title: "Khoản chờ thanh toán", Format: FormatCurrency, Load: func(ctx context.Context) (float64, error) {
			sum, err := s.src.Payments.Summary(ctx, payment.Filter{Status: payment.StatusPending})
			return sum.Pending, err
		}},
		{Key: "shift-gaps", Title: "Ca chưa có bác sĩ", Format: FormatCount, Load: func(ctx context.Context) (float64, error) {
			gaps, err := s.src.Staffing.Gaps(ctx, "", "")
			return float64(len(gaps)), err
		}},
	}, map[string]panel{"chart:revenue": revenue}, func(string) {
		v.Charts[0].Error = LoadFailed
		v.Breakdowns[0].Error = LoadFailed
	})
	return v
}

func (s *Service) Admin(ctx context.Context) *View {
	v := &View{Role: session.RoleAdmin, Title: titles[session.RoleAdmin]}
	v.Cards = s.run(ctx, []CardLoader{
		{Key: "services", Title: "Dịch vụ", Format: FormatCount, Load: func(ctx context.Context) (float64, error) {
			_, total, err := s.src.Catalog.ListServices(ctx, one)
			return float64(total), err
		}},
		{Key: "test-types", Title: "Loại xét nghiệm", Format: FormatCount, Load: func(ctx context.Context) (float64, error) {
			_, total, err := s.src.Catalog.ListTestTypes(ctx, one)
			return float64(total), err
		}},
		{Key: "medicines-low-stock", Title: "Thuốc sắp hết", Format: FormatCount, Load: func(ctx context.Context) (float64, error) {
			meds, err := s.src.Prescriptions.LowStock(ctx, prescription.DefaultLowStock)
			return float64(len(meds)), err
		}},
	}, nil, nil)
	return v
}

func (s *Service) appointmentsOn(day string) func(context.Context) (float64, error) {
	return func(ctx context.Context) (float64, error) {
		_, total, err := s.src.Appointments.List(ctx, appointment.Filter{Date: day}, one)
		return float64(total), err
	}
}

func (s *Service) monthToDate() payment.Filter {
	now := s.now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return payment.Filter{From: first.Format(backend.DateLayout), To: now.Format(backend.DateLayout)}
}

// run loads every card and panel concurrently. Each task writes only its own
// slot, so a failing or panicking task leaves the others intact.
func (s *Service) run(ctx context.Context, loaders []CardLoader, panels map[string]panel, panelFailed func(key string)) []Card {
	cards := make([]Card, len(loaders))
	for i, l := range loaders {
		cards[i] = Card{Key: l.Key, Title: l.Title, Format: l.Format, Error: LoadFailed}
	}
	keys := make([]string, 0, len(panels))
	for key := range panels {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	// A panel that panics keeps its initial error.
	panelErrs := make([]error, len(keys))
	for i := range panelErrs {
		panelErrs[i] = errNotLoaded
	}

	var wg conc.WaitGroup
	for i, l := range loaders {
		i, l := i, l
		wg.Go(func() {
			v, err := l.Load(ctx)
			if err != nil {
				s.logger.Warn().Err(err).Str("card", l.Key).Msg("dashboard card failed")
				return
			}
			cards[i].Value = v
			cards[i].Error = ""
		})
	}
	for i, key := range keys {
		i, p := i, panels[key]
		wg.Go(func() { panelErrs[i] = p(ctx) })
	}
	if r := wg.WaitAndRecover(); r != nil {
		s.logger.Error().Str("panic", r.String()).Msg("dashboard loader panicked")
	}

	for i, err := range panelErrs {
		if err != nil {
			s.logger.Warn().Err(err).Str("panel", keys[i]).Msg("dashboard panel failed")
			panelFailed(keys[i])
		}
	}
	return cards
}
