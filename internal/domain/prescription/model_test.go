package prescription

import (
	"testing"

	"github.com/clinic/portal/internal/platform/backend"
)

func TestPrescription_Total(t *testing.T) {
	rx := &Prescription{Items: []Item{
		{MedicineID: "1", Quantity: 2},
		{MedicineID: "2", Quantity: 3},
		{MedicineID: "unknown", Quantity: 5},
	}}
	prices := PriceIndex([]*Medicine{{ID: "1", Price: 1500}, {ID: "2", Price: 2000}})
	if got := rx.Total(prices); got != 9000 {
		t.Errorf("Total = %v, want 9000", got)
	}
	if got := (&Prescription{}).Total(prices); got != 0 {
		t.Errorf("empty prescription total = %v", got)
	}
}

func TestLowStock(t *testing.T) {
	meds := []*Medicine{
		{ID: "1", Name: "Paracetamol", Stock: 3},
		{ID: "2", Name: "Amoxicillin", Stock: 50},
		{ID: "3", Name: "Vitamin C", Stock: 10},
	}
	low := LowStock(meds, 10)
	if len(low) != 2 || low[0].ID != backend.ID("1") || low[1].ID != backend.ID("3") {
		t.Errorf("unexpected low stock result %+v", low)
	}
	if len(LowStock(nil, 10)) != 0 {
		t.Error("expected empty result for no medicines")
	}
}
