package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripmate/tripmate-client/internal/domain/auth"
	"github.com/tripmate/tripmate-client/internal/domain/model"
	apperrors "github.com/tripmate/tripmate-client/internal/errors"
	"github.com/tripmate/tripmate-client/internal/testutil"
)

func newBusiness(t *testing.T, s *Store, p auth.Principal) {
	t.Helper()
	require.NoError(t, s.ForCaller(p).CreateProfile(context.Background(), "business", "Owner "+string(p)))
}

func TestProfiles(t *testing.T) {
	ctx := context.Background()
	s := New(Options{})
	ann := s.ForCaller("ann")

	got, err := ann.GetCallerUserProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "absent profile")

	require.NoError(t, ann.CreateProfile(ctx, "traveler", "  Ann "))
	got, err = ann.GetCallerUserProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, &model.UserProfile{AppRole: model.AppRoleTraveler, Name: "Ann"}, got)

	err = ann.CreateProfile(ctx, "traveler", "Ann")
	assert.True(t, apperrors.IsConflict(err))

	require.NoError(t, ann.SaveCallerUserProfile(ctx, model.UserProfile{AppRole: model.AppRoleBusiness, Name: "Ann B"}))
	got, err = ann.GetCallerUserProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.AppRoleBusiness, got.AppRole)

	assert.True(t, apperrors.IsValidation(ann.CreateProfile(ctx, "pirate", "x")))
}

func TestAnonymousCallerRules(t *testing.T) {
	ctx := context.Background()
	s := New(Options{})
	newBusiness(t, s, "bob")
	require.NoError(t, s.ForCaller("bob").CreatePromotedListing(ctx, testutil.NewListing().WithID("l1").Build()))

	anon := s.ForCaller("")
	_, err := anon.GetCallerUserProfile(ctx)
	assert.True(t, apperrors.IsForbidden(err))
	_, err = anon.CreateTrip(ctx, testutil.NewTripDetails().Build())
	assert.True(t, apperrors.IsForbidden(err))

	all, err := anon.GetAllPromotedListings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "public reads stay open")

	role, err := anon.GetCallerUserRole(ctx)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleGuest, role)
}

func TestListingOwnership(t *testing.T) {
	ctx := context.Background()
	s := New(Options{Admins: []auth.Principal{"root"}})
	newBusiness(t, s, "bob")
	newBusiness(t, s, "eve")
	bob := s.ForCaller("bob")

	draft := testutil.NewListing().WithID("l1").WithOwner("mallory").Build()
	require.NoError(t, bob.CreatePromotedListing(ctx, draft))

	mine, err := bob.GetCallerPromotedListings(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, auth.Principal("bob"), mine[0].Owner, "owner is the caller, never the request")

	update := mine[0]
	update.Name = "Renamed"
	err = s.ForCaller("eve").UpdatePromotedListing(ctx, "l1", update)
	assert.True(t, apperrors.IsForbidden(err))

	update.Owner = "eve"
	require.NoError(t, bob.UpdatePromotedListing(ctx, "l1", update))
	all, _ := bob.GetAllPromotedListings(ctx)
	assert.Equal(t, "Renamed", all[0].Name)
	assert.Equal(t, auth.Principal("bob"), all[0].Owner)

	assert.True(t, apperrors.IsNotFound(bob.DeletePromotedListing(ctx, "missing")))
	assert.True(t, apperrors.IsForbidden(s.ForCaller("eve").DeletePromotedListing(ctx, "l1")))
	require.NoError(t, s.ForCaller("root").DeletePromotedListing(ctx, "l1"))
	all, _ = bob.GetAllPromotedListings(ctx)
	assert.Empty(t, all)
}

func TestCreateListingRequiresBusinessProfile(t *testing.T) {
	ctx := context.Background()
	s := New(Options{})
	ann := s.ForCaller("ann")
	require.NoError(t, ann.CreateProfile(ctx, "traveler", "Ann"))

	err := ann.CreatePromotedListing(ctx, testutil.NewListing().WithID("l1").Build())
	assert.True(t, apperrors.IsForbidden(err))

	newBusiness(t, s, "bob")
	bob := s.ForCaller("bob")
	require.NoError(t, bob.CreatePromotedListing(ctx, testutil.NewListing().WithID("l1").Build()))
	assert.True(t, apperrors.IsConflict(bob.CreatePromotedListing(ctx, testutil.NewListing().WithID("l1").Build())))
	assert.True(t, apperrors.IsValidation(bob.CreatePromotedListing(ctx, testutil.NewListing().Build())))
}

func TestListingReads(t *testing.T) {
	ctx := context.Background()
	s := New(Options{})
	newBusiness(t, s, "bob")
	bob := s.ForCaller("bob")
	require.NoError(t, bob.CreatePromotedListing(ctx, testutil.NewListing().WithID("a").WithName("Zen Spa").WithCategory("resort").Build()))
	require.NoError(t, bob.CreatePromotedListing(ctx, testutil.NewListing().WithID("b").WithName("Alpine Inn").Build()))

	sorted, err := bob.GetAllListingsSortedByName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alpine Inn", sorted[0].Name)

	resorts, err := bob.FilterPromotedListingsByCategory(ctx, "resort")
	require.NoError(t, err)
	require.Len(t, resorts, 1)
	assert.Equal(t, "a", resorts[0].ID)

	all, err := bob.GetAllPromotedListings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", all[0].ID, "insertion order")
}

func TestCreateTripGeneratesPlan(t *testing.T) {
	ctx := context.Background()
	s := New(Options{})
	newBusiness(t, s, "bob")
	require.NoError(t, s.ForCaller("bob").CreatePromotedListing(ctx, testutil.NewListing().WithID("h").Build()))
	require.NoError(t, s.ForCaller("bob").CreatePromotedListing(ctx,
		testutil.NewListing().WithID("r").WithDestination("Rome").Build()))

	ann := s.ForCaller("ann")
	details := testutil.NewTripDetails().WithTripType("bike gang").WithInterests("museums").Build()
	plan, err := ann.CreateTrip(ctx, details)
	require.NoError(t, err)

	assert.Equal(t, auth.Principal("ann"), plan.Owner)
	assert.Equal(t, details, plan.TripDetails)
	require.Len(t, plan.Itinerary, 8)
	assert.Equal(t, int64(1), plan.Itinerary[0].Day)
	assert.Contains(t, plan.Itinerary[0].Activities, "Day 1 focus: museums")
	assert.Equal(t, []string{"Hotel Lumiere"}, plan.Itinerary[0].StaySuggestions)
	assert.Contains(t, plan.PackingChecklist.Items, "Helmet")
	require.Len(t, plan.SponsoredSuggestions, 1)
	assert.Equal(t, "h", plan.SponsoredSuggestions[0].ID)

	trips, err := ann.GetCallerTripPlans(ctx)
	require.NoError(t, err)
	assert.Len(t, trips, 1)
}

func TestCreateTripCapsLongTrips(t *testing.T) {
	start := testutil.TestTime()
	details := testutil.NewTripDetails().WithDates(start, start.Add(60*24*time.Hour)).Build()
	plan, err := New(Options{}).ForCaller("ann").CreateTrip(context.Background(), details)
	require.NoError(t, err)
	assert.Len(t, plan.Itinerary, maxPlanDays)
}

func TestCreateTripRejectsInvertedDates(t *testing.T) {
	start := testutil.TestTime()
	details := testutil.NewTripDetails().WithDates(start, start.Add(-time.Hour)).Build()
	_, err := New(Options{}).ForCaller("ann").CreateTrip(context.Background(), details)
	assert.True(t, apperrors.IsValidation(err))
}

func TestAdminOperations(t *testing.T) {
	ctx := context.Background()
	s := New(Options{Admins: []auth.Principal{"root"}})
	root := s.ForCaller("root")
	ann := s.ForCaller("ann")
	require.NoError(t, ann.CreateProfile(ctx, "traveler", "Ann"))
	_, err := ann.CreateTrip(ctx, testutil.NewTripDetails().Build())
	require.NoError(t, err)

	isAdmin, err := root.IsCallerAdmin(ctx)
	require.NoError(t, err)
	assert.True(t, isAdmin)
	isAdmin, _ = ann.IsCallerAdmin(ctx)
	assert.False(t, isAdmin)

	_, err = ann.GetAllUserProfiles(ctx)
	assert.True(t, apperrors.IsForbidden(err))
	_, err = ann.GetAllTripPlans(ctx)
	assert.True(t, apperrors.IsForbidden(err))
	_, err = s.ForCaller("eve").GetUserProfile(ctx, "ann")
	assert.True(t, apperrors.IsForbidden(err))

	entries, err := root.GetAllUserProfiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.ProfileEntry{{Principal: "ann", Profile: model.UserProfile{AppRole: model.AppRoleTraveler, Name: "Ann"}}}, entries)
	plans, err := root.GetAllTripPlans(ctx)
	require.NoError(t, err)
	assert.Len(t, plans, 1)

	assert.True(t, apperrors.IsForbidden(ann.AssignCallerUserRole(ctx, "ann", auth.RoleAdmin)))
	require.NoError(t, root.AssignCallerUserRole(ctx, "ann", auth.RoleAdmin))
	role, _ := ann.GetCallerUserRole(ctx)
	assert.Equal(t, auth.RoleAdmin, role)
	assert.True(t, apperrors.IsValidation(root.AssignCallerUserRole(ctx, "ann", "emperor")))
}

func TestFactoryBindsPrincipal(t *testing.T) {
	s := New(Options{})
	rc, err := s.Factory().NewClient(context.Background(), auth.Identity{Principal: "ann"})
	require.NoError(t, err)
	require.NoError(t, rc.CreateProfile(context.Background(), "traveler", "Ann"))

	got, err := s.ForCaller("ann").GetCallerUserProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)
}
