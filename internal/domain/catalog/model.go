package catalog

import "github.com/clinic/portal/internal/platform/backend"

// ServiceDto is a billable clinic service.
type ServiceDto struct {
	ID          backend.ID `json:"id"`
	Name        string     `json:"name"`
	Price       float64    `json:"price"`
	Description string     `json:"description,omitempty"`
	Active      bool       `json:"isActive"`
}

// TestType is a lab test the clinic can order.
type TestType struct {
	ID          backend.ID `json:"id"`
	Name        string     `json:"name"`
	Unit        string     `json:"unit,omitempty"`
	NormalRange string     `json:"normalRange,omitempty"`
	Price       float64    `json:"price"`
}

// ActiveOnly filters out disabled services.
func ActiveOnly(items []*ServiceDto) []*ServiceDto {
	var out []*ServiceDto
	for _, s := range items {
		if s.Active {
			out = append(out, s)
		}
	}
	return out
}
