package gate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tripmate/tripmate-client/internal/domain/auth"
	"github.com/tripmate/tripmate-client/internal/domain/model"
	"github.com/tripmate/tripmate-client/internal/session"
)

var (
	traveler = session.Ready{Principal: "tia", Profile: model.UserProfile{AppRole: model.AppRoleTraveler, Name: "Tia"}}
	business = session.Ready{Principal: "bo", Profile: model.UserProfile{AppRole: model.AppRoleBusiness, Name: "Bo"}}
)

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name  string
		state session.State
		want  Decision
	}{
		{"ready", traveler, Admit{}},
		{"needs profile", session.NeedsProfile{Principal: "tia"}, ProfileSetup{}},
		{"initializing", session.Initializing{Principal: "tia"}, Loading{}},
		{"unauthenticated", session.Unauthenticated{Status: auth.StatusIdle}, PromptLogin{
			Title: "Authentication Required", Message: "Please log in to access this feature", Action: "Login to Continue",
		}},
		{"nil state", nil, PromptLogin{
			Title: "Authentication Required", Message: "Please log in to access this feature", Action: "Login to Continue",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RequireAuth(tt.state))
		})
	}
}

func TestRequireAuth_LoginInProgress(t *testing.T) {
	d, ok := RequireAuth(session.Unauthenticated{Status: auth.StatusLoggingIn}).(PromptLogin)
	assert.True(t, ok)
	assert.True(t, d.InProgress)
}

func TestRequireAuth_StalledInitializationCarriesError(t *testing.T) {
	boom := errors.New("bind failed")
	d := RequireAuth(session.Initializing{Principal: "tia", Err: boom})
	assert.Equal(t, Loading{Err: boom}, d)
}

func TestRequireRole(t *testing.T) {
	assert.Equal(t, Admit{}, RequireRole(traveler, CapabilityTraveler))
	assert.Equal(t, Admit{}, RequireRole(business, CapabilityBusiness))

	denied, ok := RequireRole(traveler, CapabilityBusiness).(AccessDenied)
	assert.True(t, ok)
	assert.Equal(t, CapabilityBusiness, denied.Required)
	assert.Equal(t, "This section is only available to business owners.", denied.Message)
	assert.Equal(t, "Return to Home", denied.HomeAction)

	denied, ok = RequireRole(business, CapabilityTraveler).(AccessDenied)
	assert.True(t, ok)
	assert.Equal(t, "This section is only available to travelers.", denied.Message)
}

func TestRequireRole_ShortCircuitsBeforeRoleCheck(t *testing.T) {
	d := RequireRole(session.NeedsProfile{Principal: "tia"}, CapabilityBusiness)
	setup, ok := d.(ProfileSetup)
	assert.True(t, ok)
	assert.False(t, setup.Dismissible())

	assert.IsType(t, Loading{}, RequireRole(session.Initializing{Principal: "tia"}, CapabilityTraveler))
	assert.IsType(t, PromptLogin{}, RequireRole(session.Unauthenticated{}, CapabilityTraveler))
}

func TestRequireRole_UnknownProfileRoleIsDenied(t *testing.T) {
	odd := session.Ready{Principal: "x", Profile: model.UserProfile{AppRole: "admin"}}
	for _, c := range []Capability{CapabilityTraveler, CapabilityBusiness} {
		assert.IsType(t, AccessDenied{}, RequireRole(odd, c))
	}
}
