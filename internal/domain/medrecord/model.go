package medrecord

import (
	"math"
	"strings"

	"github.com/clinic/portal/internal/platform/backend"
)

// Specialties a medical record can carry an extra form for.
const (
	SpecialtyGeneral     = "general"
	SpecialtyInternal    = "internal"
	SpecialtyPediatric   = "pediatric"
	SpecialtyDermatology = "dermatology"
)

var specialtyAliases = map[string]string{
	"":                 SpecialtyGeneral,
	"general":          SpecialtyGeneral,
	"tổng quát":        SpecialtyGeneral,
	"internal":         SpecialtyInternal,
	"internalmedicine": SpecialtyInternal,
	"internal_med":     SpecialtyInternal,
	"nội khoa":         SpecialtyInternal,
	"noi khoa":         SpecialtyInternal,
	"pediatric":        SpecialtyPediatric,
	"pediatrics":       SpecialtyPediatric,
	"nhi":              SpecialtyPediatric,
	"nhi khoa":         SpecialtyPediatric,
	"dermatology":      SpecialtyDermatology,
	"da liễu":          SpecialtyDermatology,
	"da lieu":          SpecialtyDermatology,
}

// NormalizeSpecialty maps backend and form spellings to a specialty
// constant. Unknown specialties are treated as general.
func NormalizeSpecialty(s string) string {
	key := strings.ToLower(strings.TrimSpace(s))
	if sp, ok := specialtyAliases[key]; ok {
		return sp
	}
	if sp, ok := specialtyAliases[strings.ReplaceAll(key, " ", "")]; ok {
		return sp
	}
	return SpecialtyGeneral
}

// MedicalRecord is one visit's clinical record.
type MedicalRecord struct {
	ID            backend.ID    `json:"id"`
	PatientID     backend.ID    `json:"patientId"`
	DoctorID      backend.ID    `json:"doctorId"`
	DoctorName    string        `json:"doctorName,omitempty"`
	AppointmentID backend.ID    `json:"appointmentId,omitempty"`
	VisitDate     *backend.Time `json:"visitDate,omitempty"`
	Symptoms      string        `json:"symptoms,omitempty"`
	Diagnosis     string        `json:"diagnosis"`
	Treatment     string        `json:"treatment,omitempty"`
	Specialty     string        `json:"specialty,omitempty"`
	Note          string        `json:"note,omitempty"`
}

// InternalMedRecord is the internal-medicine examination form.
type InternalMedRecord struct {
	ID              backend.ID `json:"id"`
	MedicalRecordID backend.ID `json:"medicalRecordId"`
	BloodPressure   string     `json:"bloodPressure,omitempty"`
	HeartRate       int        `json:"heartRate,omitempty"`
	Temperature     float64    `json:"temperature,omitempty"`
	RespiratoryRate int        `json:"respiratoryRate,omitempty"`
	Examination     string     `json:"examination,omitempty"`
	Note            string     `json:"note,omitempty"`
}

// PediatricRecord is the pediatric growth and development form.
type PediatricRecord struct {
	ID                  backend.ID `json:"id"`
	MedicalRecordID     backend.ID `json:"medicalRecordId"`
	WeightKg            float64    `json:"weight,omitempty"`
	HeightCm            float64    `json:"height,omitempty"`
	HeadCircumferenceCm float64    `json:"headCircumference,omitempty"`
	Vaccinations        string     `json:"vaccinationStatus,omitempty"`
	Development         string     `json:"developmentNotes,omitempty"`
	Note                string     `json:"note,omitempty"`
}

// BMI returns weight / height² rounded to one decimal, or 0 when either
// measurement is missing.
func (p *PediatricRecord) BMI() float64 {
	if p.WeightKg <= 0 || p.HeightCm <= 0 {
		return 0
	}
	m := p.HeightCm / 100
	return math.Round(p.WeightKg/(m*m)*10) / 10
}

// DermatologyRecord is the skin examination form.
type DermatologyRecord struct {
	ID              backend.ID `json:"id"`
	MedicalRecordID backend.ID `json:"medicalRecordId"`
	LesionLocation  string     `json:"lesionLocation,omitempty"`
	LesionType      string     `json:"lesionType,omitempty"`
	LesionSize      string     `json:"lesionSize,omitempty"`
	Itching         bool       `json:"itching"`
	Note            string     `json:"note,omitempty"`
}

// Detail is a medical record with the specialty form that belongs to it.
// At most one of the specialty fields is set.
type Detail struct {
	Record      *MedicalRecord     `json:"record"`
	Internal    *InternalMedRecord `json:"internal,omitempty"`
	Pediatric   *PediatricRecord   `json:"pediatric,omitempty"`
	Dermatology *DermatologyRecord `json:"dermatology,omitempty"`
}
