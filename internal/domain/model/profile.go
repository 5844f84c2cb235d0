package model

import (
	"fmt"
	"strings"
)

// AppUserRole is the persona a user picked at profile setup. It drives which
// features are offered and is unrelated to the administrative auth.UserRole.
type AppUserRole string

const (
	AppRoleTraveler AppUserRole = "traveler"
	AppRoleBusiness AppUserRole = "business"
)

// Valid reports whether the role is one of the known personas.
func (r AppUserRole) Valid() bool {
	switch r {
	case AppRoleTraveler, AppRoleBusiness:
		return true
	default:
		return false
	}
}

// ParseAppUserRole normalizes and parses a persona name.
func ParseAppUserRole(value string) (AppUserRole, error) {
	r := AppUserRole(strings.ToLower(strings.TrimSpace(value)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown app role %q (want traveler or business)", value)
	}
	return r, nil
}

// UserProfile is the per-principal profile record held by the remote store.
type UserProfile struct {
	AppRole AppUserRole `json:"appRole"`
	Name    string      `json:"name"`
}
