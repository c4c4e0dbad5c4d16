// Package authz decides whether a session satisfies an access requirement.
// The matching policy is intentionally loose (case-insensitive equality on
// module/access type, substring on the description) and lives only here so
// it can be swapped without touching call sites.
package authz

import (
	"strings"

	"github.com/edutrack/edutrack/core/session"
)

// wildcard grants access to everything, wherever it appears on a permission.
const wildcard = "all"

// Decision is the outcome of an access check.
type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) Allowed() bool { return d == Allow }

func (d Decision) String() string {
	if d == Allow {
		return "ALLOW"
	}
	return "DENY"
}

// Requirement is the access condition attached to a route or menu node:
// empty (any authenticated session), a single permission string, or a set
// of role names with ANY-of semantics. When both are set, satisfying
// either grants access.
type Requirement struct {
	Permission string
	Roles      []string
}

// None is the empty requirement.
func None() Requirement { return Requirement{} }

func RequirePermission(permission string) Requirement {
	return Requirement{Permission: permission}
}

func RequireRoles(roles ...string) Requirement {
	return Requirement{Roles: roles}
}

func (r Requirement) IsZero() bool {
	return r.Permission == "" && len(r.Roles) == 0
}

// Evaluate decides whether the permission set satisfies the requirement.
// It is pure and deterministic; an absent permission set yields zero
// matches, never an error.
func Evaluate(perms []session.Permission, req Requirement) Decision {
	if req.IsZero() {
		return Allow
	}

	for _, p := range perms {
		if strings.EqualFold(p.Module, wildcard) ||
			strings.EqualFold(p.AccessType, wildcard) ||
			strings.EqualFold(p.Description, wildcard) {
			return Allow
		}
	}

	if req.Permission != "" {
		want := strings.ToLower(req.Permission)
		for _, p := range perms {
			if strings.ToLower(p.Module) == want ||
				strings.ToLower(p.AccessType) == want ||
				strings.Contains(strings.ToLower(p.Description), want) {
				return Allow
			}
		}
	}

	if len(req.Roles) > 0 {
		for _, p := range perms {
			for _, role := range req.Roles {
				if strings.EqualFold(p.RoleName, role) {
					return Allow
				}
			}
		}
	}

	return Deny
}
