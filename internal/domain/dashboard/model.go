package dashboard

import (
	"math"

	"github.com/clinic/portal/internal/domain/appointment"
	"github.com/clinic/portal/internal/domain/labresult"
	"github.com/clinic/portal/internal/domain/payment"
	"github.com/clinic/portal/pkg/vnformat"
)

// Count is one category of a breakdown.
type Count struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value int    `json:"value"`
}

// Share is a category with its rounded share of the total.
type Share struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Value   int    `json:"value"`
	Percent int    `json:"percent"`
}

// Percentages converts counts to integer percentages of their sum. A zero
// total yields 0% for every category.
func Percentages(counts []Count) []Share {
	total := 0
	for _, c := range counts {
		total += c.Value
	}
	out := make([]Share, len(counts))
	for i, c := range counts {
		out[i] = Share{Key: c.Key, Label: c.Label, Value: c.Value}
		if total > 0 {
			out[i].Percent = int(math.Round(float64(c.Value) * 100 / float64(total)))
		}
	}
	return out
}

// Point is one x/y pair of a chart.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Series is one named line or bar set of a chart.
type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// RevenueSeries plots paid revenue per day.
func RevenueSeries(s payment.Summary) Series {
	out := Series{Name: "Doanh thu", Points: make([]Point, 0, len(s.Daily))}
	for _, d := range s.Daily {
		out.Points = append(out.Points, Point{Label: d.Date, Value: d.Amount})
	}
	return out
}

// StatusSeries plots appointments per status.
func StatusSeries(counts []appointment.StatusCount) Series {
	out := Series{Name: "Lịch hẹn", Points: make([]Point, 0, len(counts))}
	for _, c := range counts {
		out.Points = append(out.Points, Point{Label: c.Label, Value: float64(c.Count)})
	}
	return out
}

// TestTypeSeries plots test results per test type.
func TestTypeSeries(counts []labresult.TypeCount) Series {
	out := Series{Name: "Xét nghiệm", Points: make([]Point, 0, len(counts))}
	for _, c := range counts {
		out.Points = append(out.Points, Point{Label: c.TestTypeName, Value: float64(c.Count)})
	}
	return out
}

// StatusCounts adapts appointment status counts for Percentages.
func StatusCounts(counts []appointment.StatusCount) []Count {
	out := make([]Count, len(counts))
	for i, c := range counts {
		out[i] = Count{Key: c.Status, Label: c.Label, Value: c.Count}
	}
	return out
}

// MethodCounts adapts payment method totals for Percentages, weighting each
// method by its paid amount.
func MethodCounts(totals []payment.MethodTotal) []Count {
	out := make([]Count, len(totals))
	for i, m := range totals {
		out[i] = Count{Key: m.Method, Label: m.Label, Value: int(math.Round(m.Amount))}
	}
	return out
}

// Card formats.
const (
	FormatCount    = "count"
	FormatCurrency = "currency"
)

// Card is one stats tile. A card whose loader failed carries Error and a
// zero Value.
type Card struct {
	Key    string  `json:"key"`
	Title  string  `json:"title"`
	Value  float64 `json:"value"`
	Format string  `json:"format"`
	Error  string  `json:"error,omitempty"`
}

// Display renders the card value for the page.
func (c Card) Display() string {
	if c.Format == FormatCurrency {
		return vnformat.VND(c.Value)
	}
	return vnformat.Count(int(c.Value))
}

// Chart is a titled chart panel.
type Chart struct {
	Key    string   `json:"key"`
	Title  string   `json:"title"`
	Series []Series `json:"series"`
	Error  string   `json:"error,omitempty"`
}

// Breakdown is a titled percentage bar.
type Breakdown struct {
	Key    string  `json:"key"`
	Title  string  `json:"title"`
	Shares []Share `json:"shares"`
	Error  string  `json:"error,omitempty"`
}

// View is everything a role dashboard shows.
type View struct {
	Role       string      `json:"role"`
	Title      string      `json:"title"`
	Cards      []Card      `json:"cards"`
	Charts     []Chart     `json:"charts,omitempty"`
	Breakdowns []Breakdown `json:"breakdowns,omitempty"`
}
