// Package gate decides what a gated region shows for a session state.
package gate

import (
	"github.com/tripmate/tripmate-client/internal/domain/auth"
	"github.com/tripmate/tripmate-client/internal/session"
)

// Capability is the app role a region requires.
type Capability string

const (
	CapabilityTraveler Capability = "traveler"
	CapabilityBusiness Capability = "business"
)

// HomePath is where the access-denied view sends the user.
const HomePath = "/"

// Decision is one of Admit, Loading, PromptLogin, ProfileSetup or AccessDenied.
type Decision interface {
	// Admitted reports whether the gated content may be shown.
	Admitted() bool
	decision()
}

// Admit shows the gated content.
type Admit struct{}

// Loading shows a placeholder while the session resolves.
type Loading struct {
	// Err is set when resolution stalled on a failure.
	Err error
}

// PromptLogin asks the user to authenticate.
type PromptLogin struct {
	Title   string
	Message string
	Action  string
	// InProgress is true while a login is running; the action should be disabled.
	InProgress bool
	Err        error
}

// ProfileSetup blocks the region until the caller creates a profile.
type ProfileSetup struct{}

// Dismissible is always false: the prompt has no way out but creating a profile.
func (ProfileSetup) Dismissible() bool { return false }

// AccessDenied rejects an authenticated caller with the wrong role.
type AccessDenied struct {
	Required Capability
	Title    string
	Message  string
	// HomeAction labels the way back to HomePath.
	HomeAction string
}

func (Admit) Admitted() bool        { return true }
func (Loading) Admitted() bool      { return false }
func (PromptLogin) Admitted() bool  { return false }
func (ProfileSetup) Admitted() bool { return false }
func (AccessDenied) Admitted() bool { return false }

func (Admit) decision()        {}
func (Loading) decision()      {}
func (PromptLogin) decision()  {}
func (ProfileSetup) decision() {}
func (AccessDenied) decision() {}

// RequireAuth admits any caller with an identity and a profile.
func RequireAuth(s session.State) Decision {
	switch st := s.(type) {
	case session.Ready:
		return Admit{}
	case session.NeedsProfile:
		return ProfileSetup{}
	case session.Initializing:
		return Loading{Err: st.Err}
	case session.Unauthenticated:
		return PromptLogin{
			Title:      "Authentication Required",
			Message:    "Please log in to access this feature",
			Action:     "Login to Continue",
			InProgress: st.Status == auth.StatusLoggingIn,
			Err:        st.Err,
		}
	default:
		return PromptLogin{
			Title:   "Authentication Required",
			Message: "Please log in to access this feature",
			Action:  "Login to Continue",
		}
	}
}

// RequireRole admits a caller whose profile holds capability c.
func RequireRole(s session.State, c Capability) Decision {
	d := RequireAuth(s)
	if !d.Admitted() {
		return d
	}
	if HasCapability(s, c) {
		return d
	}
	return AccessDenied{
		Required:   c,
		Title:      "Access Denied",
		Message:    deniedMessage(c),
		HomeAction: "Return to Home",
	}
}

// HasCapability reports whether s grants c.
func HasCapability(s session.State, c Capability) bool {
	switch c {
	case CapabilityTraveler:
		return session.IsTraveler(s)
	case CapabilityBusiness:
		return session.IsBusinessOwner(s)
	default:
		return false
	}
}

func deniedMessage(c Capability) string {
	if c == CapabilityBusiness {
		return "This section is only available to business owners."
	}
	return "This section is only available to travelers."
}
