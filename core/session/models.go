package session

import (
	"time"

	"github.com/edutrack/edutrack/core"
)

// Employee is the staff record attached to the authenticated user.
type Employee struct {
	FullName     string `json:"fullName"`
	DepartmentID int    `json:"departmentId"`
	PositionID   int    `json:"positionId"`
	IsActive     bool   `json:"isActive"`
}

// Permission is one effective access grant: "this role can do this action
// on this module". A session owns a set of them; duplicates are harmless
// since all checks are existential.
type Permission struct {
	UserID      int    `json:"userId"`
	UserName    string `json:"userName"`
	RoleName    string `json:"roleName"`
	Module      string `json:"module"`
	AccessType  string `json:"accessType"`
	Description string `json:"permissionDescription"`
}

// Session is the authenticated identity: tokens, user, employee record and
// effective permissions. It is either fully present or entirely absent;
// a token without permissions is never persisted.
type Session struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresAt    time.Time    `json:"expiresAt"`
	UserID       int          `json:"userId"`
	UserName     string       `json:"userName"`
	Employee     Employee     `json:"employee"`
	RoleIDs      []int        `json:"roleIds"`
	Permissions  []Permission `json:"permissions"`
}

// clone returns a snapshot whose slices are detached from the original.
func (s Session) clone() Session {
	if s.RoleIDs != nil {
		s.RoleIDs = append([]int(nil), s.RoleIDs...)
	}
	if s.Permissions != nil {
		s.Permissions = append([]Permission(nil), s.Permissions...)
	}
	return s
}

// Credentials contains the information needed to log a user in.
type Credentials struct {
	UserName   string `json:"userName" validate:"required"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe"`
}

func (c *Credentials) Validate() error {
	c.UserName = core.CleanString(c.UserName)
	if err := core.Validate.Struct(c); err != nil {
		return core.TranslateValidationErrors(err)
	}
	return nil
}

// ForgotPassword requests a password-reset email for the given account.
type ForgotPassword struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
}

func (fp *ForgotPassword) Validate() error {
	fp.Username = core.CleanString(fp.Username)
	fp.Email = core.CleanString(fp.Email, true /* lower */)
	if err := core.Validate.Struct(fp); err != nil {
		return core.TranslateValidationErrors(err)
	}
	return nil
}

// ChangePassword replaces the current user's password.
type ChangePassword struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,nefield=CurrentPassword"`
}

func (cp *ChangePassword) Validate() error {
	if err := core.Validate.Struct(cp); err != nil {
		return core.TranslateValidationErrors(err)
	}
	return nil
}
