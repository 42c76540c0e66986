package payment

import (
	"sort"
	"strings"

	"github.com/clinic/portal/internal/platform/backend"
)

const (
	MethodCash      = "cash"
	MethodCard      = "card"
	MethodTransfer  = "transfer"
	MethodInsurance = "insurance"

	StatusPending  = "pending"
	StatusPaid     = "paid"
	StatusRefunded = "refunded"
)

// Methods lists payment methods in display order.
var Methods = []string{MethodCash, MethodCard, MethodTransfer, MethodInsurance}

var methodLabels = map[string]string{
	MethodCash:      "Tiền mặt",
	MethodCard:      "Thẻ",
	MethodTransfer:  "Chuyển khoản",
	MethodInsurance: "Bảo hiểm",
}

// MethodLabel returns the Vietnamese label of a method.
func MethodLabel(m string) string {
	if l, ok := methodLabels[NormalizeMethod(m)]; ok {
		return l
	}
	return m
}

// NormalizeMethod maps backend spellings ("Cash", "BankTransfer",
// "CreditCard") to a method constant. Unknown methods are lowercased.
func NormalizeMethod(m string) string {
	k := strings.ToLower(strings.TrimSpace(m))
	switch {
	case k == "cash" || k == "tiền mặt":
		return MethodCash
	case strings.Contains(k, "card") || k == "thẻ":
		return MethodCard
	case strings.Contains(k, "transfer") || k == "chuyển khoản" || k == "banking":
		return MethodTransfer
	case strings.Contains(k, "insurance") || k == "bhyt" || k == "bảo hiểm":
		return MethodInsurance
	}
	return k
}

var statusLabels = map[string]string{
	StatusPending:  "Chờ thanh toán",
	StatusPaid:     "Đã thanh toán",
	StatusRefunded: "Đã hoàn tiền",
}

// StatusLabel returns the Vietnamese label of a payment status.
func StatusLabel(s string) string {
	if l, ok := statusLabels[NormalizeStatus(s)]; ok {
		return l
	}
	return s
}

// NormalizeStatus maps backend spellings to a status constant.
func NormalizeStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "paid", "completed", "success", "succeeded":
		return StatusPaid
	case "refunded", "refund":
		return StatusRefunded
	case "pending", "unpaid", "":
		return StatusPending
	}
	return strings.ToLower(strings.TrimSpace(s))
}

type Payment struct {
	ID            backend.ID    `json:"id"`
	PatientID     backend.ID    `json:"patientId"`
	PatientName   string        `json:"patientName,omitempty"`
	AppointmentID backend.ID    `json:"appointmentId,omitempty"`
	Amount        float64       `json:"amount"`
	Method        string        `json:"paymentMethod"`
	Status        string        `json:"status"`
	PaidAt        *backend.Time `json:"paidAt,omitempty"`
	CreatedAt     *backend.Time `json:"createdAt,omitempty"`
}

// Day returns the payment's revenue date: the paid date when known, else
// the creation date, else "".
func (p *Payment) Day() string {
	switch {
	case p.PaidAt != nil && !p.PaidAt.IsZero():
		return p.PaidAt.Format(backend.DateLayout)
	case p.CreatedAt != nil && !p.CreatedAt.IsZero():
		return p.CreatedAt.Format(backend.DateLayout)
	}
	return ""
}

// Filter narrows a payment list.
type Filter struct {
	Status    string
	Method    string
	PatientID string
	From      string
	To        string
}

// MethodTotal is the paid amount through one method.
type MethodTotal struct {
	Method string  `json:"method"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
	Count  int     `json:"count"`
}

// DailyRevenue is the paid amount on one day.
type DailyRevenue struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// Summary aggregates a list of payments for the manager and reception
// screens. Refunded payments count toward Refunded only.
type Summary struct {
	Count    int            `json:"count"`
	Total    float64        `json:"total"`
	Paid     float64        `json:"paid"`
	Pending  float64        `json:"pending"`
	Refunded float64        `json:"refunded"`
	ByMethod []MethodTotal  `json:"byMethod"`
	Daily    []DailyRevenue `json:"daily"`
}

// Summarize totals payments by status, by method (paid only) and by day
// (paid only, ascending dates).
func Summarize(payments []*Payment) Summary {
	s := Summary{Count: len(payments)}
	byMethod := make(map[string]*MethodTotal)
	daily := make(map[string]float64)
	var extra []string

	for _, p := range payments {
		switch NormalizeStatus(p.Status) {
		case StatusPaid:
			s.Paid += p.Amount
			m := NormalizeMethod(p.Method)
			mt, ok := byMethod[m]
			if !ok {
				mt = &MethodTotal{Method: m, Label: MethodLabel(m)}
				byMethod[m] = mt
				if _, known := methodLabels[m]; !known {
					extra = append(extra, m)
				}
			}
			mt.Amount += p.Amount
			mt.Count++
			if d := p.Day(); d != "" {
				daily[d] += p.Amount
			}
		case StatusRefunded:
			s.Refunded += p.Amount
			continue
		default:
			s.Pending += p.Amount
		}
		s.Total += p.Amount
	}

	for _, m := range append(append([]string(nil), Methods...), extra...) {
		if mt, ok := byMethod[m]; ok {
			s.ByMethod = append(s.ByMethod, *mt)
		} else {
			s.ByMethod = append(s.ByMethod, MethodTotal{Method: m, Label: MethodLabel(m)})
		}
	}

	days := make([]string, 0, len(daily))
	for d := range daily {
		days = append(days, d)
	}
	sort.Strings(days)
	for _, d := range days {
		s.Daily = append(s.Daily, DailyRevenue{Date: d, Amount: daily[d]})
	}
	return s
}
