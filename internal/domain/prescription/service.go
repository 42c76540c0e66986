package prescription

import (
	"context"
	"fmt"
	"strings"

	"github.com/clinic/portal/internal/platform/backend"
	"github.com/clinic/portal/internal/platform/session"
	"github.com/clinic/portal/pkg/pagination"
)

type Service struct {
	meds  MedicineRepository
	rxs   PrescriptionRepository
	lowAt int
}

func NewService(meds MedicineRepository, rxs PrescriptionRepository) *Service {
	return &Service{meds: meds, rxs: rxs, lowAt: DefaultLowStock}
}

// -- Medicine --

func (s *Service) ListMedicines(ctx context.Context, search string, p pagination.Params) ([]*Medicine, int, error) {
	return s.meds.List(ctx, strings.TrimSpace(search), p)
}

func (s *Service) GetMedicine(ctx context.Context, id string) (*Medicine, error) {
	return s.meds.GetByID(ctx, id)
}

func (s *Service) CreateMedicine(ctx context.Context, m *Medicine) error {
	if err := validateMedicine(m); err != nil {
		return err
	}
	return s.meds.Create(ctx, m)
}

func (s *Service) UpdateMedicine(ctx context.Context, m *Medicine) error {
	if m.ID.IsZero() {
		return backend.Invalid("id", "mã thuốc không hợp lệ")
	}
	if err := validateMedicine(m); err != nil {
		return err
	}
	return s.meds.Update(ctx, m)
}

func (s *Service) DeleteMedicine(ctx context.Context, id string) error {
	return s.meds.Delete(ctx, id)
}

// LowStock loads one page of the catalog at the largest page size and
// returns the medicines at or below threshold. A threshold <= 0 uses the
// default.
func (s *Service) LowStock(ctx context.Context, threshold int) ([]*Medicine, error) {
	if threshold <= 0 {
		threshold = s.lowAt
	}
	meds, err := s.allMedicines(ctx)
	if err != nil {
		return nil, err
	}
	return LowStock(meds, threshold), nil
}

func validateMedicine(m *Medicine) error {
	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return backend.Invalid("name", "tên thuốc là bắt buộc")
	}
	if m.Price < 0 {
		return backend.Invalid("price", "giá không được âm")
	}
	if m.Stock < 0 {
		return backend.Invalid("stockQuantity", "tồn kho không được âm")
	}
	return nil
}

// -- Prescriptions --

func (s *Service) List(ctx context.Context, f Filter, p pagination.Params) ([]*Prescription, int, error) {
	return s.rxs.List(ctx, f, p)
}

// ListMine lists the signed-in doctor's prescriptions.
func (s *Service) ListMine(ctx context.Context, date string, p pagination.Params) ([]*Prescription, int, error) {
	u := session.FromContext(ctx)
	if u == nil {
		return nil, 0, backend.ErrUnauthorized
	}
	return s.rxs.List(ctx, Filter{DoctorID: doctorID(u), Date: date}, p)
}

func (s *Service) Get(ctx context.Context, id string) (*Prescription, error) {
	return s.rxs.GetByID(ctx, id)
}

// Create validates and submits a prescription. The signed-in doctor is
// recorded as prescriber when none is given.
func (s *Service) Create(ctx context.Context, p *Prescription) error {
	if p.PatientID.IsZero() {
		return backend.Invalid("patientId", "chưa chọn bệnh nhân")
	}
	if len(p.Items) == 0 {
		return backend.Invalid("items", "đơn thuốc phải có ít nhất một thuốc")
	}
	for i := range p.Items {
		it := &p.Items[i]
		if it.MedicineID.IsZero() {
			return backend.Invalid(fmt.Sprintf("items[%d].medicineId", i), "chưa chọn thuốc")
		}
		if it.Quantity <= 0 {
			return backend.Invalid(fmt.Sprintf("items[%d].quantity", i), "số lượng phải lớn hơn 0")
		}
		it.Dosage = strings.TrimSpace(it.Dosage)
	}
	if p.DoctorID.IsZero() {
		if u := session.FromContext(ctx); u != nil {
			p.DoctorID = backend.ID(doctorID(u))
		}
	}
	return s.rxs.Create(ctx, p)
}

// Total prices p against the current medicine catalog.
func (s *Service) Total(ctx context.Context, p *Prescription) (float64, error) {
	meds, err := s.allMedicines(ctx)
	if err != nil {
		return 0, err
	}
	return p.Total(PriceIndex(meds)), nil
}

func doctorID(u *session.User) string {
	if u.DoctorID != "" {
		return u.DoctorID
	}
	return u.ID
}

func (s *Service) allMedicines(ctx context.Context) ([]*Medicine, error) {
	return pagination.All(ctx, func(ctx context.Context, p pagination.Params) ([]*Medicine, int, error) {
		return s.meds.List(ctx, "", p)
	})
}
