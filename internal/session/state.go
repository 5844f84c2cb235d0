// Package session derives the client's session state from the identity, the remote
// client binding and the caller's profile, and drives login and logout.
package session

import (
	"github.com/tripmate/tripmate-client/internal/domain/auth"
	"github.com/tripmate/tripmate-client/internal/domain/model"
)

// Kind enumerates the session states.
type Kind int

const (
	KindUnauthenticated Kind = iota
	KindInitializing
	KindNeedsProfile
	KindReady
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindInitializing:
		return "initializing"
	case KindNeedsProfile:
		return "needs-profile"
	case KindReady:
		return "ready"
	default:
		return "unknown"
	}
}

// State is one of Unauthenticated, Initializing, NeedsProfile or Ready.
type State interface {
	Kind() Kind
	sealed()
}

// Unauthenticated: no identity, or the anonymous one.
type Unauthenticated struct {
	// Status is the identity provider's progress (idle, logging-in or error).
	Status auth.LoginStatus
	// Err is the last login failure when Status is error.
	Err error
}

// Initializing: the identity or the caller's profile is still being resolved.
type Initializing struct {
	Principal auth.Principal
	// Err is set when resolution stalled on a failure: a client that could not be
	// bound or a profile lookup that failed. Refresh retries the lookup.
	Err error
}

// NeedsProfile: authenticated, and the profile lookup settled with no profile.
type NeedsProfile struct {
	Principal auth.Principal
}

// Ready: authenticated with a profile.
type Ready struct {
	Principal auth.Principal
	Profile   model.UserProfile
}

func (Unauthenticated) Kind() Kind { return KindUnauthenticated }
func (Initializing) Kind() Kind    { return KindInitializing }
func (NeedsProfile) Kind() Kind    { return KindNeedsProfile }
func (Ready) Kind() Kind           { return KindReady }

func (Unauthenticated) sealed() {}
func (Initializing) sealed()    {}
func (NeedsProfile) sealed()    {}
func (Ready) sealed()           {}

// PrincipalOf returns the principal s belongs to, or the anonymous principal.
func PrincipalOf(s State) auth.Principal {
	switch st := s.(type) {
	case Initializing:
		if st.Principal != "" {
			return st.Principal
		}
	case NeedsProfile:
		return st.Principal
	case Ready:
		return st.Principal
	}
	return auth.AnonymousPrincipal
}

// IsAuthenticated reports whether s carries a non-anonymous principal.
func IsAuthenticated(s State) bool {
	return !PrincipalOf(s).IsAnonymous()
}

// ProfileOf returns the profile in s, if any.
func ProfileOf(s State) (model.UserProfile, bool) {
	if r, ok := s.(Ready); ok {
		return r.Profile, true
	}
	return model.UserProfile{}, false
}

// IsTraveler reports whether s is ready with a traveler profile.
func IsTraveler(s State) bool {
	p, ok := ProfileOf(s)
	return ok && p.AppRole == model.AppRoleTraveler
}

// IsBusinessOwner reports whether s is ready with a business profile.
func IsBusinessOwner(s State) bool {
	p, ok := ProfileOf(s)
	return ok && p.AppRole == model.AppRoleBusiness
}

// ShowProfileSetup reports whether the profile bootstrap prompt must be shown.
func ShowProfileSetup(s State) bool {
	return s != nil && s.Kind() == KindNeedsProfile
}

// ProfileLoading reports whether an authenticated identity still awaits its profile.
func ProfileLoading(s State) bool {
	return s != nil && s.Kind() == KindInitializing && IsAuthenticated(s)
}

// Snapshot holds the inputs a state is derived from.
type Snapshot struct {
	Principal   auth.Principal
	LoginStatus auth.LoginStatus
	LoginErr    error
	// BindErr is the binder's construction failure for Principal.
	BindErr error
	// ProfileFetched is true once a profile lookup for Principal completed.
	ProfileFetched bool
	Profile        *model.UserProfile
	ProfileErr     error
}

// Derive computes the state for snap.
func Derive(snap Snapshot) State {
	if snap.Principal.IsAnonymous() {
		if snap.LoginStatus == auth.StatusInitializing {
			return Initializing{Principal: auth.AnonymousPrincipal}
		}
		status := snap.LoginStatus
		if status == "" || status == auth.StatusAuthenticated {
			status = auth.StatusIdle
		}
		return Unauthenticated{Status: status, Err: snap.LoginErr}
	}

	switch {
	case snap.BindErr != nil:
		return Initializing{Principal: snap.Principal, Err: snap.BindErr}
	case !snap.ProfileFetched:
		return Initializing{Principal: snap.Principal}
	case snap.Profile != nil:
		// a failed refetch keeps the last profile
		return Ready{Principal: snap.Principal, Profile: *snap.Profile}
	case snap.ProfileErr != nil:
		return Initializing{Principal: snap.Principal, Err: snap.ProfileErr}
	default:
		return NeedsProfile{Principal: snap.Principal}
	}
}
