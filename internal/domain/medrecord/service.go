package medrecord

import (
	"context"
	"strings"

	"github.com/clinic/portal/internal/platform/backend"
	"github.com/clinic/portal/internal/platform/session"
)

type Service struct {
	records     RecordRepository
	internal    SpecialtyRepository[InternalMedRecord]
	pediatric   SpecialtyRepository[PediatricRecord]
	dermatology SpecialtyRepository[DermatologyRecord]
}

func NewService(records RecordRepository, internal SpecialtyRepository[InternalMedRecord], pediatric SpecialtyRepository[PediatricRecord], dermatology SpecialtyRepository[DermatologyRecord]) *Service {
	return &Service{records: records, internal: internal, pediatric: pediatric, dermatology: dermatology}
}

func (s *Service) ByPatient(ctx context.Context, patientID string) ([]*MedicalRecord, error) {
	if strings.TrimSpace(patientID) == "" {
		return nil, backend.Invalid("patientId", "thiếu mã bệnh nhân")
	}
	return s.records.ByPatient(ctx, patientID)
}

func (s *Service) Get(ctx context.Context, id string) (*MedicalRecord, error) {
	return s.records.GetByID(ctx, id)
}

// Detail loads a record and, for specialty visits, its specialty form. A
// form that has not been filled in yet is not an error.
func (s *Service) Detail(ctx context.Context, id string) (*Detail, error) {
	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &Detail{Record: rec}
	switch NormalizeSpecialty(rec.Specialty) {
	case SpecialtyInternal:
		d.Internal, err = optional(s.internal.ByMedicalRecord(ctx, id))
	case SpecialtyPediatric:
		d.Pediatric, err = optional(s.pediatric.ByMedicalRecord(ctx, id))
	case SpecialtyDermatology:
		d.Dermatology, err = optional(s.dermatology.ByMedicalRecord(ctx, id))
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func optional[T any](v *T, err error) (*T, error) {
	if backend.IsNotFound(err) {
		return nil, nil
	}
	return v, err
}

func (s *Service) Create(ctx context.Context, r *MedicalRecord) error {
	if err := validateRecord(r); err != nil {
		return err
	}
	if r.DoctorID.IsZero() {
		if u := session.FromContext(ctx); u != nil {
			r.DoctorID = backend.ID(u.DoctorID)
			if r.DoctorID.IsZero() {
				r.DoctorID = backend.ID(u.ID)
			}
		}
	}
	return s.records.Create(ctx, r)
}

func (s *Service) Update(ctx context.Context, r *MedicalRecord) error {
	if r.ID.IsZero() {
		return backend.Invalid("id", "mã hồ sơ không hợp lệ")
	}
	if err := validateRecord(r); err != nil {
		return err
	}
	return s.records.Update(ctx, r)
}

func validateRecord(r *MedicalRecord) error {
	r.Diagnosis = strings.TrimSpace(r.Diagnosis)
	r.Specialty = NormalizeSpecialty(r.Specialty)
	if r.PatientID.IsZero() {
		return backend.Invalid("patientId", "chưa chọn bệnh nhân")
	}
	if r.Diagnosis == "" {
		return backend.Invalid("diagnosis", "chẩn đoán là bắt buộc")
	}
	return nil
}

// -- Specialty forms --

func (s *Service) SaveInternal(ctx context.Context, medicalRecordID string, rec *InternalMedRecord) error {
	rec.MedicalRecordID = backend.ID(medicalRecordID)
	if rec.HeartRate < 0 || rec.RespiratoryRate < 0 || rec.Temperature < 0 {
		return backend.Invalid("vitals", "chỉ số sinh hiệu không hợp lệ")
	}
	return save(ctx, s.internal, medicalRecordID, rec, rec.ID.IsZero())
}

func (s *Service) SavePediatric(ctx context.Context, medicalRecordID string, rec *PediatricRecord) error {
	rec.MedicalRecordID = backend.ID(medicalRecordID)
	if rec.WeightKg < 0 || rec.HeightCm < 0 || rec.HeadCircumferenceCm < 0 {
		return backend.Invalid("measurements", "số đo không hợp lệ")
	}
	return save(ctx, s.pediatric, medicalRecordID, rec, rec.ID.IsZero())
}

func (s *Service) SaveDermatology(ctx context.Context, medicalRecordID string, rec *DermatologyRecord) error {
	rec.MedicalRecordID = backend.ID(medicalRecordID)
	return save(ctx, s.dermatology, medicalRecordID, rec, rec.ID.IsZero())
}

func save[T any](ctx context.Context, repo SpecialtyRepository[T], medicalRecordID string, rec *T, isNew bool) error {
	if strings.TrimSpace(medicalRecordID) == "" {
		return backend.Invalid("medicalRecordId", "thiếu mã hồ sơ")
	}
	if isNew {
		return repo.Create(ctx, rec)
	}
	return repo.Update(ctx, rec)
}
