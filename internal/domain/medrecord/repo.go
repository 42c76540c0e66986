package medrecord

import "context"

type RecordRepository interface {
	ByPatient(ctx context.Context, patientID string) ([]*MedicalRecord, error)
	GetByID(ctx context.Context, id string) (*MedicalRecord, error)
	Create(ctx context.Context, r *MedicalRecord) error
	Update(ctx context.Context, r *MedicalRecord) error
}

// SpecialtyRepository stores one kind of specialty form. Each medical record
// has at most one form of each kind.
type SpecialtyRepository[T any] interface {
	ByMedicalRecord(ctx context.Context, medicalRecordID string) (*T, error)
	Create(ctx context.Context, rec *T) error
	Update(ctx context.Context, rec *T) error
}
