package model

import (
	"fmt"
	"strings"
)

// Role is the closed set of user roles.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleVendor Role = "vendor"
)

// ParseRole accepts role names case-insensitively.
func ParseRole(s string) (Role, error) {
	if r := Role(strings.ToLower(strings.TrimSpace(s))); r.Valid() {
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleVendor
}

// DisplayName returns the label shown to users.
func (r Role) DisplayName() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleVendor:
		return "Vendor"
	}
	return "No role"
}

// Actor is the authenticated identity performing a ledger operation.
// A zero UserID means the operation is not attributed to any user.
type Actor struct {
	UserID uint
	Role   Role
}

// Ref returns the nullable user reference stored on ledger rows.
func (a Actor) Ref() *uint {
	if a.UserID == 0 {
		return nil
	}
	id := a.UserID
	return &id
}

func (a Actor) String() string {
	if a.UserID == 0 {
		return "system"
	}
	return fmt.Sprintf("%d", a.UserID)
}
