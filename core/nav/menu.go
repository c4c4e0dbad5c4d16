package nav

import (
	"github.com/edutrack/edutrack/core/authz"
	"github.com/edutrack/edutrack/core/session"
)

// MenuItem is one node of the navigation catalog. IDs are unique across
// the whole tree; sibling order is significant.
type MenuItem struct {
	ID         string
	Label      string
	Route      string
	Permission string
	Roles      []string
	Badge      string
	BadgeColor string
	Children   []MenuItem
}

func (it MenuItem) requirement() authz.Requirement {
	return authz.Requirement{Permission: it.Permission, Roles: it.Roles}
}

// Menu filters a static catalog against a session's permissions.
// The catalog is immutable; every query derives a new tree.
type Menu struct {
	items []MenuItem
}

func NewMenu(items []MenuItem) *Menu {
	return &Menu{items: items}
}

// Visible returns the pruned navigation tree for the given permission set.
// A node is kept iff its own requirement passes; kept nodes have their
// children filtered recursively, and a parent whose children were all
// pruned collapses to a leaf. Same permissions, same tree.
func (m *Menu) Visible(perms []session.Permission) []MenuItem {
	return filterItems(m.items, perms)
}

func filterItems(items []MenuItem, perms []session.Permission) []MenuItem {
	var kept []MenuItem
	for _, it := range items {
		if !authz.Evaluate(perms, it.requirement()).Allowed() {
			continue
		}
		it.Children = filterItems(it.Children, perms)
		kept = append(kept, it)
	}
	return kept
}

// FindByID returns the first node with the given id, searching the
// unfiltered catalog depth-first in pre-order.
func (m *Menu) FindByID(id string) (MenuItem, bool) {
	return findItem(m.items, func(it MenuItem) bool { return it.ID == id })
}

// FindByRoute returns the first node matching the route, searching the
// unfiltered catalog depth-first in pre-order.
func (m *Menu) FindByRoute(route string) (MenuItem, bool) {
	return findItem(m.items, func(it MenuItem) bool { return it.Route == route })
}

func findItem(items []MenuItem, match func(MenuItem) bool) (MenuItem, bool) {
	for _, it := range items {
		if match(it) {
			return it, true
		}
		if found, ok := findItem(it.Children, match); ok {
			return found, true
		}
	}
	return MenuItem{}, false
}

// DefaultCatalog is the EduTrack navigation tree.
func DefaultCatalog() []MenuItem {
	return []MenuItem{
		{
			ID:    "dashboard",
			Label: "Dashboard",
			Route: "/dashboard",
		},
		{
			ID:         "students",
			Label:      "Estudiantes",
			Route:      "/students",
			Permission: "view_students",
			Children: []MenuItem{
				{
					ID:         "students-list",
					Label:      "Lista de Estudiantes",
					Route:      "/students/list",
					Permission: "view_students",
				},
				{
					ID:         "students-enrollment",
					Label:      "Matrículas",
					Route:      "/students/enrollment",
					Permission: "manage_enrollment",
				},
				{
					ID:         "students-attendance",
					Label:      "Asistencia",
					Route:      "/students/attendance",
					Permission: "manage_attendance",
				},
			},
		},
		{
			ID:    "teachers",
			Label: "Profesores",
			Route: "/teachers",
			Roles: []string{"Administrador", "Secretaria"},
			Children: []MenuItem{
				{
					ID:    "teachers-list",
					Label: "Lista de Profesores",
					Route: "/teachers/list",
					Roles: []string{"Administrador", "Secretaria"},
				},
				{
					ID:    "teachers-schedule",
					Label: "Horarios",
					Route: "/teachers/schedule",
					Roles: []string{"Administrador"},
				},
			},
		},
		{
			ID:         "grades",
			Label:      "Calificaciones",
			Route:      "/grades",
			Permission: "manage_grades",
		},
		{
			ID:         "courses",
			Label:      "Cursos",
			Route:      "/courses",
			Permission: "view_courses",
			Children: []MenuItem{
				{
					ID:         "courses-list",
					Label:      "Lista de Cursos",
					Route:      "/courses/list",
					Permission: "view_courses",
				},
				{
					ID:    "courses-create",
					Label: "Crear Curso",
					Route: "/courses/create",
					Roles: []string{"Administrador"},
				},
			},
		},
		{
			ID:         "payments",
			Label:      "Pagos",
			Route:      "/payments",
			Permission: "register_payments",
			Badge:      "5",
			BadgeColor: "success",
		},
		{
			ID:         "reports",
			Label:      "Reportes",
			Route:      "/reports",
			Permission: "view_reports",
			Children: []MenuItem{
				{
					ID:         "reports-academic",
					Label:      "Académicos",
					Route:      "/reports/academic",
					Permission: "view_reports",
				},
				{
					ID:         "reports-financial",
					Label:      "Financieros",
					Route:      "/reports/financial",
					Permission: "view_financial_reports",
				},
			},
		},
		{
			ID:         "notifications",
			Label:      "Notificaciones",
			Route:      "/notifications",
			Badge:      "Nuevo",
			BadgeColor: "warning",
		},
		{
			ID:    "administration",
			Label: "Administración",
			Route: "/administration",
			Roles: []string{"Administrador"},
			Children: []MenuItem{
				{
					ID:    "admin-users",
					Label: "Usuarios",
					Route: "/administration/users",
					Roles: []string{"Administrador"},
				},
				{
					ID:    "admin-settings",
					Label: "Configuración",
					Route: "/administration/settings",
					Roles: []string{"Administrador"},
				},
			},
		},
	}
}
