// Package memstore is an in-memory stand-in for the remote authoritative store. It
// enforces the store's ownership and role rules so clients can be exercised end to end
// without a network.
package memstore

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tripmate/tripmate-client/internal/domain/auth"
	"github.com/tripmate/tripmate-client/internal/domain/model"
	apperrors "github.com/tripmate/tripmate-client/internal/errors"
	"github.com/tripmate/tripmate-client/internal/ports"
)

// maxPlanDays bounds the generated itinerary.
const maxPlanDays = 14

// Options configure a Store.
type Options struct {
	// Admins are granted the admin role up front.
	Admins []auth.Principal
	Logger *slog.Logger
}

// Store holds every principal's data. It is safe for concurrent use.
type Store struct {
	logger *slog.Logger

	mu       sync.RWMutex
	roles    map[auth.Principal]auth.UserRole
	profiles map[auth.Principal]model.UserProfile
	trips    map[auth.Principal][]model.TripPlan
	listings map[string]model.PromotedListing
	order    []string
}

// New constructs an empty Store.
func New(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		logger:   logger.With("component", "memstore"),
		roles:    make(map[auth.Principal]auth.UserRole),
		profiles: make(map[auth.Principal]model.UserProfile),
		trips:    make(map[auth.Principal][]model.TripPlan),
		listings: make(map[string]model.PromotedListing),
	}
	for _, p := range opts.Admins {
		if !p.IsAnonymous() {
			s.roles[p] = auth.RoleAdmin
		}
	}
	return s
}

// ForCaller returns a client whose every call is evaluated as principal p.
func (s *Store) ForCaller(p auth.Principal) ports.RemoteClient {
	if p.IsAnonymous() {
		p = auth.AnonymousPrincipal
	}
	return &caller{store: s, principal: p}
}

// Factory binds clients in process, trusting the identity's principal.
func (s *Store) Factory() ports.ClientFactory {
	return ports.ClientFactoryFunc(func(_ context.Context, id auth.Identity) (ports.RemoteClient, error) {
		return s.ForCaller(id.Principal), nil
	})
}

func (s *Store) roleLocked(p auth.Principal) auth.UserRole {
	if p.IsAnonymous() {
		return auth.RoleGuest
	}
	if r, ok := s.roles[p]; ok {
		return r
	}
	return auth.RoleUser
}

func (s *Store) isAdminLocked(p auth.Principal) bool {
	return s.roleLocked(p) == auth.RoleAdmin
}

func (s *Store) listingsLocked(keep func(model.PromotedListing) bool) []model.PromotedListing {
	out := make([]model.PromotedListing, 0, len(s.order))
	for _, id := range s.order {
		l := s.listings[id]
		if keep == nil || keep(l) {
			out = append(out, l)
		}
	}
	return out
}

func (s *Store) removeLocked(id string) {
	delete(s.listings, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

func errUnauthorized(action string) error {
	return apperrors.Forbidden("Unauthorized: Only users can " + action)
}

// caller is the identity-scoped view handed to one principal.
type caller struct {
	store     *Store
	principal auth.Principal
}

var _ ports.RemoteClient = (*caller)(nil)

func (c *caller) requireUser(action string) error {
	if c.principal.IsAnonymous() {
		return errUnauthorized(action)
	}
	return nil
}

func (c *caller) AssignCallerUserRole(_ context.Context, user auth.Principal, role auth.UserRole) error {
	if _, err := auth.ParseUserRole(string(role)); err != nil {
		return apperrors.ValidationField("role", err.Error())
	}
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isAdminLocked(c.principal) {
		return apperrors.Forbidden("Unauthorized: Only admins can assign user roles")
	}
	if user.IsAnonymous() {
		return apperrors.ValidationField("user", "cannot assign a role to the anonymous principal")
	}
	s.roles[user] = role
	s.logger.Info("role assigned", "principal", user.String(), "role", string(role), "by", c.principal.String())
	return nil
}

func (c *caller) CreateProfile(_ context.Context, role, name string) error {
	if err := c.requireUser("create profiles"); err != nil {
		return err
	}
	appRole, err := model.ParseAppUserRole(role)
	if err != nil {
		return apperrors.ValidationField("appRole", err.Error())
	}
	if strings.TrimSpace(name) == "" {
		return apperrors.ValidationField("name", "name is required")
	}
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[c.principal]; ok {
		return apperrors.Conflict("Profile already exists")
	}
	s.profiles[c.principal] = model.UserProfile{AppRole: appRole, Name: strings.TrimSpace(name)}
	return nil
}

func (c *caller) SaveCallerUserProfile(_ context.Context, profile model.UserProfile) error {
	if err := c.requireUser("save profiles"); err != nil {
		return err
	}
	if !profile.AppRole.Valid() {
		return apperrors.ValidationField("appRole", fmt.Sprintf("unknown app role %q", profile.AppRole))
	}
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[c.principal] = profile
	return nil
}

func (c *caller) GetCallerUserProfile(_ context.Context) (*model.UserProfile, error) {
	if err := c.requireUser("view profiles"); err != nil {
		return nil, err
	}
	s := c.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[c.principal]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (c *caller) GetUserProfile(_ context.Context, user auth.Principal) (*model.UserProfile, error) {
	s := c.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user != c.principal && !s.isAdminLocked(c.principal) {
		return nil, apperrors.Forbidden("Unauthorized: Can only view your own profile")
	}
	p, ok := s.profiles[user]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (c *caller) GetAllUserProfiles(_ context.Context) ([]model.ProfileEntry, error) {
	s := c.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.isAdminLocked(c.principal) {
		return nil, apperrors.Forbidden("Unauthorized: Only admins can view all profiles")
	}
	out := make([]model.ProfileEntry, 0, len(s.profiles))
	for p, prof := range s.profiles {
		out = append(out, model.ProfileEntry{Principal: p, Profile: prof})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Principal < out[j].Principal })
	return out, nil
}

func (c *caller) GetCallerUserRole(_ context.Context) (auth.UserRole, error) {
	s := c.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roleLocked(c.principal), nil
}

func (c *caller) IsCallerAdmin(_ context.Context) (bool, error) {
	s := c.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isAdminLocked(c.principal), nil
}

func (c *caller) CreatePromotedListing(_ context.Context, listing model.PromotedListing) error {
	if err := c.requireUser("create listings"); err != nil {
		return err
	}
	if strings.TrimSpace(listing.ID) == "" {
		return apperrors.ValidationField("id", "id is required")
	}
	if err := listing.Validate(); err != nil {
		return err
	}
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if prof, ok := s.profiles[c.principal]; !ok || prof.AppRole != model.AppRoleBusiness {
		return apperrors.Forbidden("Unauthorized: Only business owners can create listings")
	}
	if _, ok := s.listings[listing.ID]; ok {
		return apperrors.Conflict("Listing already exists")
	}
	listing.Owner = c.principal
	s.listings[listing.ID] = listing
	s.order = append(s.order, listing.ID)
	return nil
}

func (c *caller) UpdatePromotedListing(_ context.Context, id string, listing model.PromotedListing) error {
	if err := c.requireUser("update listings"); err != nil {
		return err
	}
	if err := listing.Validate(); err != nil {
		return err
	}
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.listings[id]
	if !ok {
		return apperrors.NotFound("Listing not found")
	}
	if existing.Owner != c.principal && !s.isAdminLocked(c.principal) {
		return apperrors.Forbidden("Unauthorized: Only the owner can update this listing")
	}
	listing.ID = id
	listing.Owner = existing.Owner
	s.listings[id] = listing
	return nil
}

func (c *caller) DeletePromotedListing(_ context.Context, id string) error {
	if err := c.requireUser("delete listings"); err != nil {
		return err
	}
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.listings[id]
	if !ok {
		return apperrors.NotFound("Listing not found")
	}
	if existing.Owner != c.principal && !s.isAdminLocked(c.principal) {
		return apperrors.Forbidden("Unauthorized: Only the owner can delete this listing")
	}
	s.removeLocked(id)
	return nil
}

func (c *caller) GetAllPromotedListings(_ context.Context) ([]model.PromotedListing, error) {
	s := c.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listingsLocked(nil), nil
}

func (c *caller) GetCallerPromotedListings(_ context.Context) ([]model.PromotedListing, error) {
	if err := c.requireUser("view their listings"); err != nil {
		return nil, err
	}
	s := c.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listingsLocked(func(l model.PromotedListing) bool { return l.Owner == c.principal }), nil
}

func (c *caller) FilterPromotedListingsByCategory(_ context.Context, category string) ([]model.PromotedListing, error) {
	s := c.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listingsLocked(func(l model.PromotedListing) bool { return l.Category == category }), nil
}

func (c *caller) GetAllListingsSortedByName(_ context.Context) ([]model.PromotedListing, error) {
	s := c.store
	s.mu.RLock()
	out := s.listingsLocked(nil)
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (c *caller) CreateTrip(_ context.Context, trip model.TripDetails) (model.TripPlan, error) {
	if err := c.requireUser("create trips"); err != nil {
		return model.TripPlan{}, err
	}
	if err := trip.Validate(); err != nil {
		return model.TripPlan{}, err
	}
	s := c.store
	s.mu.Lock()
	defer s.mu.Unlock()
	plan := generatePlan(c.principal, trip, s.listingsLocked(nil))
	s.trips[c.principal] = append(s.trips[c.principal], plan)
	return plan, nil
}

func (c *caller) GetCallerTripPlans(_ context.Context) ([]model.TripPlan, error) {
	if err := c.requireUser("view their trips"); err != nil {
		return nil, err
	}
	s := c.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.TripPlan{}, s.trips[c.principal]...), nil
}

func (c *caller) GetAllTripPlans(_ context.Context) ([]model.TripPlan, error) {
	s := c.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.isAdminLocked(c.principal) {
		return nil, apperrors.Forbidden("Unauthorized: Only admins can view all trips")
	}
	owners := make([]auth.Principal, 0, len(s.trips))
	for p := range s.trips {
		owners = append(owners, p)
	}
	sort.Slice(owners, func(i, j int) bool { return owners[i] < owners[j] })
	var out []model.TripPlan
	for _, p := range owners {
		out = append(out, s.trips[p]...)
	}
	return out, nil
}

// generatePlan expands trip details into a day-by-day plan with sponsored suggestions
// for the destination.
func generatePlan(owner auth.Principal, trip model.TripDetails, listings []model.PromotedListing) model.TripPlan {
	days := int64(trip.EndDate.Std().Sub(trip.StartDate.Std())/(24*time.Hour)) + 1
	if days > maxPlanDays {
		days = maxPlanDays
	}
	sponsored := model.MatchSponsored(trip.Destination, listings)

	itinerary := make([]model.ItineraryItem, 0, days)
	for d := int64(1); d <= days; d++ {
		item := model.ItineraryItem{
			Day:                 d,
			RouteDescription:    routeFor(trip.Destination, d, days),
			OwnedBy:             owner,
			FoodRecommendations: []string{"Local breakfast spot in " + trip.Destination},
			Activities:          activitiesFor(trip, d),
		}
		for _, l := range sponsored {
			if l.Category == "hotel" || l.Category == "resort" {
				item.StaySuggestions = append(item.StaySuggestions, l.Name)
			}
		}
		itinerary = append(itinerary, item)
	}

	return model.TripPlan{
		Owner:                owner,
		TripDetails:          trip,
		Itinerary:            itinerary,
		PackingChecklist:     model.PackingChecklist{OwnedBy: owner, Items: packingFor(trip.TripType)},
		SponsoredSuggestions: sponsored,
	}
}

func routeFor(destination string, day, total int64) string {
	switch day {
	case 1:
		return "Arrive in " + destination + " and settle in"
	case total:
		return "Wrap up and depart " + destination
	default:
		return fmt.Sprintf("Explore %s, day %d", destination, day)
	}
}

func activitiesFor(trip model.TripDetails, day int64) []string {
	out := []string{fmt.Sprintf("Walking tour of %s", trip.Destination)}
	if interests := model.OptionalString(trip.Interests); interests != "" {
		out = append(out, fmt.Sprintf("Day %d focus: %s", day, interests))
	}
	return out
}

func packingFor(tripType string) []string {
	items := []string{"Travel documents", "Phone charger", "Toiletries"}
	switch strings.ToLower(strings.TrimSpace(tripType)) {
	case "bike gang":
		items = append(items, "Riding gear", "Helmet", "Repair kit")
	case "group":
		items = append(items, "Shared first-aid kit", "Group itinerary printout")
	default:
		items = append(items, "Day backpack")
	}
	return items
}
