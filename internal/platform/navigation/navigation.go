// Package navigation holds the sidebar menu of each role.
package navigation

import (
	"strings"

	"github.com/clinic/portal/internal/platform/session"
)

// Item is one sidebar entry.
type Item struct {
	Label  string `json:"label"`
	Href   string `json:"href"`
	Icon   string `json:"icon"`
	Active bool   `json:"active,omitempty"`
}

var menus = map[string][]Item{
	session.RoleDoctor: {
		{Label: "Tổng quan", Href: "/doctor", Icon: "home"},
		{Label: "Lịch hẹn", Href: "/appointments", Icon: "calendar"},
		{Label: "Bệnh nhân", Href: "/patients", Icon: "users"},
		{Label: "Hồ sơ bệnh án", Href: "/records", Icon: "file-text"},
		{Label: "Đơn thuốc", Href: "/prescriptions", Icon: "pill"},
		{Label: "Kết quả xét nghiệm", Href: "/test-results", Icon: "flask"},
		{Label: "Thuốc", Href: "/medicines", Icon: "package"},
		{Label: "Thông báo", Href: "/notifications", Icon: "bell"},
		{Label: "Trợ lý AI", Href: "/assistant", Icon: "message"},
	},
	session.RoleNurse: {
		{Label: "Tổng quan", Href: "/nurse", Icon: "home"},
		{Label: "Lịch hẹn", Href: "/appointments", Icon: "calendar"},
		{Label: "Bệnh nhân", Href: "/patients", Icon: "users"},
		{Label: "Hồ sơ bệnh án", Href: "/records", Icon: "file-text"},
		{Label: "Xét nghiệm", Href: "/test-results", Icon: "flask"},
		{Label: "Thông báo", Href: "/notifications", Icon: "bell"},
		{Label: "Trợ lý AI", Href: "/assistant", Icon: "message"},
	},
	session.RoleReception: {
		{Label: "Tổng quan", Href: "/reception", Icon: "home"},
		{Label: "Lịch hẹn", Href: "/appointments", Icon: "calendar"},
		{Label: "Bệnh nhân", Href: "/patients", Icon: "users"},
		{Label: "Thanh toán", Href: "/payments", Icon: "credit-card"},
		{Label: "Thông báo", Href: "/notifications", Icon: "bell"},
	},
	session.RoleManager: {
		{Label: "Tổng quan", Href: "/manager", Icon: "home"},
		{Label: "Ca làm việc", Href: "/shifts", Icon: "clock"},
		{Label: "Doanh thu", Href: "/payments", Icon: "bar-chart"},
		{Label: "Dịch vụ", Href: "/catalog", Icon: "list"},
		{Label: "Thuốc", Href: "/medicines", Icon: "package"},
		{Label: "Thông báo", Href: "/notifications", Icon: "bell"},
	},
	session.RoleAdmin: {
		{Label: "Tổng quan", Href: "/admin", Icon: "home"},
		{Label: "Dịch vụ & xét nghiệm", Href: "/catalog", Icon: "list"},
		{Label: "Thuốc", Href: "/medicines", Icon: "package"},
		{Label: "Thông báo", Href: "/notifications", Icon: "bell"},
	},
}

// ForRole returns a copy of the role's menu. Unknown roles get an empty
// menu.
func ForRole(role string) []Item {
	items := menus[session.NormalizeRole(role)]
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// Active marks the item whose Href is the longest prefix of path and returns
// items for chaining.
func Active(items []Item, path string) []Item {
	best := -1
	for i := range items {
		items[i].Active = false
		h := items[i].Href
		if path != h && !strings.HasPrefix(path, strings.TrimSuffix(h, "/")+"/") {
			continue
		}
		if best < 0 || len(h) > len(items[best].Href) {
			best = i
		}
	}
	if best >= 0 {
		items[best].Active = true
	}
	return items
}
