// AngelaMos | 2026
// role.go

package core

import (
	"fmt"
)

// Role is the closed set of account roles. The zero value is not a role.
type Role string

const (
	RoleAdmin      Role = "Admin"
	RoleUser       Role = "User"
	RoleStoreOwner Role = "StoreOwner"
)

// Roles lists every variant in a stable order.
var Roles = [...]Role{RoleAdmin, RoleUser, RoleStoreOwner}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleStoreOwner:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q: %w", s, ErrInvalidInput)
	}
	return r, nil
}
