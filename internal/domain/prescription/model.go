package prescription

import (
	"github.com/clinic/portal/internal/platform/backend"
)

// DefaultLowStock is the stock level at or below which a medicine is flagged.
const DefaultLowStock = 10

// Medicine is an item of the pharmacy catalog.
type Medicine struct {
	ID          backend.ID `json:"id"`
	Name        string     `json:"name"`
	Unit        string     `json:"unit,omitempty"`
	Price       float64    `json:"price"`
	Stock       int        `json:"stockQuantity"`
	Description string     `json:"description,omitempty"`
}

// Item is one medicine line of a prescription.
type Item struct {
	MedicineID   backend.ID `json:"medicineId"`
	MedicineName string     `json:"medicineName,omitempty"`
	Quantity     int        `json:"quantity"`
	Dosage       string     `json:"dosage,omitempty"`
	Instructions string     `json:"instructions,omitempty"`
}

// Prescription is written by a doctor against a medical record.
type Prescription struct {
	ID              backend.ID    `json:"id"`
	MedicalRecordID backend.ID    `json:"medicalRecordId,omitempty"`
	PatientID       backend.ID    `json:"patientId"`
	PatientName     string        `json:"patientName,omitempty"`
	DoctorID        backend.ID    `json:"doctorId"`
	CreatedAt       *backend.Time `json:"createdAt,omitempty"`
	Note            string        `json:"note,omitempty"`
	Items           []Item        `json:"items"`
}

// Total prices the prescription. Lines whose medicine has no known price
// count as zero.
func (p *Prescription) Total(prices map[backend.ID]float64) float64 {
	var total float64
	for _, it := range p.Items {
		total += prices[it.MedicineID] * float64(it.Quantity)
	}
	return total
}

// PriceIndex maps medicine ids to unit prices.
func PriceIndex(meds []*Medicine) map[backend.ID]float64 {
	idx := make(map[backend.ID]float64, len(meds))
	for _, m := range meds {
		idx[m.ID] = m.Price
	}
	return idx
}

// LowStock returns the medicines whose stock is at or below threshold, in
// input order.
func LowStock(meds []*Medicine, threshold int) []*Medicine {
	var out []*Medicine
	for _, m := range meds {
		if m.Stock <= threshold {
			out = append(out, m)
		}
	}
	return out
}

// Filter narrows a prescription list.
type Filter struct {
	DoctorID  string
	PatientID string
	Date      string
}
