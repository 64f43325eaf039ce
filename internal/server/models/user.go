// Package models holds the server-side domain types: user profiles, citizen
// reports and the closed enumerations that gate access to the dashboard.
package models

import (
	"fmt"
	"time"
)

// Role is the closed set of dashboard roles. The profile record is the system
// of record for authorization; unrecognized role strings are rejected at the
// parsing boundary instead of being carried around as raw text.
type Role string

const (
	RoleSuperAdmin     Role = "super_admin"
	RolePersonnelAdmin Role = "personnel_admin"
	RoleStaffAdmin     Role = "staff_admin"
)

// AdminRoles returns every role that may access the dashboard.
func AdminRoles() []Role {
	return []Role{RoleSuperAdmin, RolePersonnelAdmin, RoleStaffAdmin}
}

// ParseRole converts a raw role string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleSuperAdmin, RolePersonnelAdmin, RoleStaffAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// RoleFromString is the lenient form used when reading stored profiles:
// an unknown role maps to the zero Role, which fails every access check.
func RoleFromString(s string) Role {
	r, err := ParseRole(s)
	if err != nil {
		return ""
	}
	return r
}

// Valid reports whether the role belongs to the closed admin set.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// DisplayName returns the human-readable label used by the dashboard.
func (r Role) DisplayName() string {
	switch r {
	case RoleSuperAdmin:
		return "Super Admin"
	case RolePersonnelAdmin:
		return "Personnel Admin"
	case RoleStaffAdmin:
		return "Staff Admin"
	default:
		return string(r)
	}
}

// AccountStatus gates login completion: only active accounts may sign in.
type AccountStatus string

const (
	StatusActive    AccountStatus = "active"
	StatusPending   AccountStatus = "pending"
	StatusSuspended AccountStatus = "suspended"
)

// ParseAccountStatus converts a raw status string. An empty string maps to
// active, matching how profiles without a status field have always behaved.
func ParseAccountStatus(s string) (AccountStatus, error) {
	switch AccountStatus(s) {
	case StatusActive, StatusPending, StatusSuspended:
		return AccountStatus(s), nil
	case "":
		return StatusActive, nil
	default:
		return "", fmt.Errorf("unknown account status %q", s)
	}
}

// User is the profile record mirroring an authenticated principal.
type User struct {
	ID        string        `json:"id"`
	FirstName string        `json:"firstName"`
	LastName  string        `json:"lastName"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone"`
	Barangay  string        `json:"barangay"`
	Role      Role          `json:"role"`
	Status    AccountStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`

	// PasswordHash is never serialized; it stays inside the service layer.
	PasswordHash string `json:"-"`
}

// FullName joins first and last name for display and search.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
