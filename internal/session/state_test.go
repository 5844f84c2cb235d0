package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tripmate/tripmate-client/internal/domain/auth"
	"github.com/tripmate/tripmate-client/internal/domain/model"
)

func TestDerive(t *testing.T) {
	traveler := &model.UserProfile{AppRole: model.AppRoleTraveler, Name: "Tia"}
	boom := errors.New("boom")

	tests := []struct {
		name string
		snap Snapshot
		want State
	}{
		{"anonymous idle", Snapshot{Principal: auth.AnonymousPrincipal, LoginStatus: auth.StatusIdle},
			Unauthenticated{Status: auth.StatusIdle}},
		{"empty principal", Snapshot{}, Unauthenticated{Status: auth.StatusIdle}},
		{"logging in", Snapshot{Principal: auth.AnonymousPrincipal, LoginStatus: auth.StatusLoggingIn},
			Unauthenticated{Status: auth.StatusLoggingIn}},
		{"login error", Snapshot{Principal: auth.AnonymousPrincipal, LoginStatus: auth.StatusError, LoginErr: boom},
			Unauthenticated{Status: auth.StatusError, Err: boom}},
		{"identity initializing", Snapshot{Principal: auth.AnonymousPrincipal, LoginStatus: auth.StatusInitializing},
			Initializing{Principal: auth.AnonymousPrincipal}},
		{"profile pending", Snapshot{Principal: "tia", LoginStatus: auth.StatusAuthenticated},
			Initializing{Principal: "tia"}},
		{"bind failed", Snapshot{Principal: "tia", BindErr: boom},
			Initializing{Principal: "tia", Err: boom}},
		{"profile lookup failed", Snapshot{Principal: "tia", ProfileFetched: true, ProfileErr: boom},
			Initializing{Principal: "tia", Err: boom}},
		{"no profile", Snapshot{Principal: "tia", ProfileFetched: true},
			NeedsProfile{Principal: "tia"}},
		{"profile", Snapshot{Principal: "tia", ProfileFetched: true, Profile: traveler},
			Ready{Principal: "tia", Profile: *traveler}},
		{"refetch failed keeps profile", Snapshot{Principal: "tia", ProfileFetched: true, Profile: traveler, ProfileErr: boom},
			Ready{Principal: "tia", Profile: *traveler}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Derive(tt.snap))
		})
	}
}

func TestDerivedFlags(t *testing.T) {
	principals := []auth.Principal{"", auth.AnonymousPrincipal, "tia"}
	profiles := []*model.UserProfile{nil,
		{AppRole: model.AppRoleTraveler, Name: "a"},
		{AppRole: model.AppRoleBusiness, Name: "b"},
		{AppRole: "admin", Name: "c"},
	}

	for _, p := range principals {
		for _, fetched := range []bool{false, true} {
			for _, prof := range profiles {
				s := Derive(Snapshot{Principal: p, LoginStatus: auth.StatusAuthenticated, ProfileFetched: fetched, Profile: prof})

				assert.Equal(t, !p.IsAnonymous(), IsAuthenticated(s), "authenticated iff non-anonymous principal")
				assert.False(t, IsTraveler(s) && IsBusinessOwner(s), "roles are exclusive")
				if !fetched || prof == nil {
					assert.False(t, IsTraveler(s))
					assert.False(t, IsBusinessOwner(s))
				}
				wantSetup := !p.IsAnonymous() && fetched && prof == nil
				assert.Equal(t, wantSetup, ShowProfileSetup(s))
				assert.Equal(t, !p.IsAnonymous() && !fetched, ProfileLoading(s))
			}
		}
	}
}

func TestSettled(t *testing.T) {
	assert.False(t, Settled(Initializing{Principal: "tia"}))
	assert.True(t, Settled(Initializing{Principal: "tia", Err: errors.New("x")}))
	assert.False(t, Settled(Unauthenticated{Status: auth.StatusLoggingIn}))
	assert.True(t, Settled(Unauthenticated{Status: auth.StatusIdle}))
	assert.True(t, Settled(NeedsProfile{Principal: "tia"}))
}
