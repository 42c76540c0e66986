package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/clinic/portal/internal/domain/appointment"
	"github.com/clinic/portal/internal/domain/medrecord"
	"github.com/clinic/portal/internal/domain/payment"
	"github.com/clinic/portal/internal/platform/backend"
	"github.com/clinic/portal/internal/platform/session"
	"github.com/clinic/portal/pkg/vnformat"
)

//go:embed templates
var templateFS embed.FS

// Renderer renders one page template inside the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

var _ echo.Renderer = (*Renderer)(nil)

var roleLabels = map[string]string{
	session.RoleDoctor:    "Bác sĩ",
	session.RoleNurse:     "Y tá",
	session.RoleReception: "Lễ tân",
	session.RoleManager:   "Quản lý",
	session.RoleAdmin:     "Quản trị viên",
}

var specialtyLabels = map[string]string{
	medrecord.SpecialtyGeneral:     "Tổng quát",
	medrecord.SpecialtyInternal:    "Nội khoa",
	medrecord.SpecialtyPediatric:   "Nhi khoa",
	medrecord.SpecialtyDermatology: "Da liễu",
}

var funcs = template.FuncMap{
	"vnd":     vnformat.VND,
	"count":   vnformat.Count,
	"percent": vnformat.Percent,
	"noData":  func() string { return NoData },
	"pager":   newPager,
	"datetime": func(t *backend.Time) string {
		if t == nil || t.IsZero() {
			return ""
		}
		return t.Display()
	},
	"apptStatus":   appointment.StatusLabel,
	"apptStatuses": func() []string { return appointment.Statuses },
	"payMethod":    payment.MethodLabel,
	"payMethods":   func() []string { return payment.Methods },
	"payStatus":    payment.StatusLabel,
	"roleLabel":    func(r string) string { return roleLabels[r] },
	"staffRoles":   func() []string { return session.StaffRoles },
	"specialty":    func(s string) string { return specialtyLabels[medrecord.NormalizeSpecialty(s)] },
	"specialtyKeys": func() []string {
		return []string{medrecord.SpecialtyGeneral, medrecord.SpecialtyInternal, medrecord.SpecialtyPediatric, medrecord.SpecialtyDermatology}
	},
}

type pagerLinks struct {
	Prev, Next string
	Total      int
}

func newPager(p *Page, prev, next, total int) pagerLinks {
	out := pagerLinks{Total: total}
	if prev > 0 {
		out.Prev = p.PageURL(prev)
	}
	if next > 0 {
		out.Next = p.PageURL(next)
	}
	return out
}

// NewRenderer parses the layout and every page under templates/pages.
func NewRenderer() (*Renderer, error) {
	base, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, f := range files {
		t, err := template.Must(base.Clone()).ParseFS(templateFS, f)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", f, err)
		}
		r.pages[strings.TrimSuffix(path.Base(f), ".html")] = t
	}
	return r, nil
}

// Has reports whether a page template exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}
