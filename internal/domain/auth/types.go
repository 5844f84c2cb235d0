package auth

// Package auth contains domain-level types for identity and local sessions.
// It is pure and free of framework/adapter concerns.

import (
	"fmt"
	"strings"
	"time"
)

// Principal is the opaque identity handle the remote store scopes every call by.
type Principal string

// AnonymousPrincipal is the identity used when no one is logged in.
const AnonymousPrincipal Principal = "anonymous"

// IsAnonymous reports whether p carries no authenticated identity.
func (p Principal) IsAnonymous() bool {
	return p == "" || p == AnonymousPrincipal
}

func (p Principal) String() string {
	if p == "" {
		return string(AnonymousPrincipal)
	}
	return string(p)
}

// UserRole is the administrative role axis held by the remote store.
// It is unrelated to the traveler/business axis of a profile.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
	RoleGuest UserRole = "guest"
)

// ParseUserRole parses a role name case-insensitively.
func ParseUserRole(s string) (UserRole, error) {
	switch r := UserRole(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleUser, RoleGuest:
		return r, nil
	default:
		return "", fmt.Errorf("unknown user role %q", s)
	}
}

// LoginStatus is the identity provider's progress indicator.
type LoginStatus string

const (
	StatusIdle          LoginStatus = "idle"
	StatusLoggingIn     LoginStatus = "logging-in"
	StatusInitializing  LoginStatus = "initializing"
	StatusAuthenticated LoginStatus = "authenticated"
	StatusError         LoginStatus = "error"
)

// Identity is what an authenticator hands back after a successful login.
// Credential is presented to the remote store as a bearer token.
type Identity struct {
	Principal   Principal
	Credential  string
	DisplayName string
	Email       string
	ExpiresAt   time.Time // zero means no expiry
}

// IsAnonymous reports whether the identity is the anonymous one.
func (i Identity) IsAnonymous() bool { return i.Principal.IsAnonymous() }

// Anonymous returns the identity used before login and after logout.
func Anonymous() Identity { return Identity{Principal: AnonymousPrincipal} }

// Session is the record persisted in the local session store.
type Session struct {
	ID          string    `json:"id"`
	Principal   Principal `json:"principal"`
	Credential  string    `json:"credential"`
	DisplayName string    `json:"display_name,omitempty"`
	Email       string    `json:"email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Identity returns the identity carried by the session.
func (s Session) Identity() Identity {
	return Identity{
		Principal:   s.Principal,
		Credential:  s.Credential,
		DisplayName: s.DisplayName,
		Email:       s.Email,
		ExpiresAt:   s.ExpiresAt,
	}
}
