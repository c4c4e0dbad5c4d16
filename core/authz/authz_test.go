package authz

import (
	"testing"

	"github.com/edutrack/edutrack/core/session"
)

func perm(roleName, module, accessType, description string) session.Permission {
	return session.Permission{
		UserID:      1,
		UserName:    "jdoe",
		RoleName:    roleName,
		Module:      module,
		AccessType:  accessType,
		Description: description,
	}
}

func TestEvaluate(t *testing.T) {
	secretaria := []session.Permission{
		perm("Secretaria", "view_students", "read", "Puede ver estudiantes"),
		perm("Secretaria", "register_payments", "write", "Puede registrar pagos"),
	}

	tests := []struct {
		name  string
		perms []session.Permission
		req   Requirement
		want  Decision
	}{
		{name: "empty requirement", perms: nil, req: None(), want: Allow},
		{name: "empty requirement with perms", perms: secretaria, req: None(), want: Allow},

		// wildcard "all" short-circuits everything, any casing, any field
		{
			name:  "wildcard module",
			perms: []session.Permission{perm("Administrador", "all", "read", "")},
			req:   RequirePermission("manage_grades"),
			want:  Allow,
		},
		{
			name:  "wildcard access type upper",
			perms: []session.Permission{perm("Administrador", "users", "ALL", "")},
			req:   RequirePermission("manage_grades"),
			want:  Allow,
		},
		{
			name:  "wildcard description mixed case",
			perms: []session.Permission{perm("Administrador", "users", "read", "All")},
			req:   RequireRoles("Director"),
			want:  Allow,
		},

		// single permission string: module/accessType equality, description substring
		{name: "module match", perms: secretaria, req: RequirePermission("view_students"), want: Allow},
		{name: "module match case-insensitive", perms: secretaria, req: RequirePermission("VIEW_STUDENTS"), want: Allow},
		{
			name:  "access type match",
			perms: []session.Permission{perm("Profesor", "grades", "manage_grades", "")},
			req:   RequirePermission("Manage_Grades"),
			want:  Allow,
		},
		{
			name:  "description substring match",
			perms: []session.Permission{perm("Profesor", "grades", "write", "grants manage_enrollment and more")},
			req:   RequirePermission("manage_enrollment"),
			want:  Allow,
		},
		{name: "no permission match", perms: secretaria, req: RequirePermission("manage_grades"), want: Deny},

		// role sets: ANY-of on roleName, case-insensitive
		{name: "role any-of match", perms: secretaria, req: RequireRoles("Administrador", "Secretaria"), want: Allow},
		{name: "role match case-insensitive", perms: secretaria, req: RequireRoles("SECRETARIA"), want: Allow},
		{name: "role no match", perms: secretaria, req: RequireRoles("Administrador"), want: Deny},

		// requirement with both: either side grants
		{
			name:  "permission side of mixed requirement",
			perms: secretaria,
			req:   Requirement{Permission: "view_students", Roles: []string{"Administrador"}},
			want:  Allow,
		},
		{
			name:  "role side of mixed requirement",
			perms: secretaria,
			req:   Requirement{Permission: "manage_grades", Roles: []string{"Secretaria"}},
			want:  Allow,
		},

		// deny-by-default: zero permissions never satisfy a non-empty requirement
		{name: "nil perms deny permission", perms: nil, req: RequirePermission("view_students"), want: Deny},
		{name: "empty perms deny roles", perms: []session.Permission{}, req: RequireRoles("Administrador"), want: Deny},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.perms, tt.req); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
			// no hidden state: same inputs, same answer
			if got := Evaluate(tt.perms, tt.req); got != tt.want {
				t.Errorf("Evaluate() second call = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRequirementIsZero(t *testing.T) {
	if !None().IsZero() {
		t.Error("None().IsZero() = false, want true")
	}
	if RequirePermission("x").IsZero() {
		t.Error("RequirePermission().IsZero() = true, want false")
	}
	if RequireRoles("Administrador").IsZero() {
		t.Error("RequireRoles().IsZero() = true, want false")
	}
}
