package ports

import (
	"context"

	domainauth "github.com/tripmate/tripmate-client/internal/domain/auth"
	"github.com/tripmate/tripmate-client/internal/domain/model"
)

// RemoteClient is the identity-scoped interface of the remote authoritative store.
// Every call is evaluated by the store against the principal the client was bound to.
// A nil *model.UserProfile means the profile is absent.
type RemoteClient interface {
	AssignCallerUserRole(ctx context.Context, user domainauth.Principal, role domainauth.UserRole) error
	CreateProfile(ctx context.Context, role, name string) error
	CreatePromotedListing(ctx context.Context, listing model.PromotedListing) error
	CreateTrip(ctx context.Context, trip model.TripDetails) (model.TripPlan, error)
	DeletePromotedListing(ctx context.Context, id string) error
	FilterPromotedListingsByCategory(ctx context.Context, category string) ([]model.PromotedListing, error)
	GetAllListingsSortedByName(ctx context.Context) ([]model.PromotedListing, error)
	GetAllPromotedListings(ctx context.Context) ([]model.PromotedListing, error)
	GetAllTripPlans(ctx context.Context) ([]model.TripPlan, error)
	GetAllUserProfiles(ctx context.Context) ([]model.ProfileEntry, error)
	GetCallerPromotedListings(ctx context.Context) ([]model.PromotedListing, error)
	GetCallerTripPlans(ctx context.Context) ([]model.TripPlan, error)
	GetCallerUserProfile(ctx context.Context) (*model.UserProfile, error)
	GetCallerUserRole(ctx context.Context) (domainauth.UserRole, error)
	GetUserProfile(ctx context.Context, user domainauth.Principal) (*model.UserProfile, error)
	IsCallerAdmin(ctx context.Context) (bool, error)
	SaveCallerUserProfile(ctx context.Context, profile model.UserProfile) error
	UpdatePromotedListing(ctx context.Context, id string, listing model.PromotedListing) error
}

// ClientFactory constructs a RemoteClient bound to an identity. The anonymous
// identity yields an anonymous client.
type ClientFactory interface {
	NewClient(ctx context.Context, id domainauth.Identity) (RemoteClient, error)
}

// ClientFactoryFunc adapts a function to ClientFactory.
type ClientFactoryFunc func(ctx context.Context, id domainauth.Identity) (RemoteClient, error)

// NewClient calls f.
func (f ClientFactoryFunc) NewClient(ctx context.Context, id domainauth.Identity) (RemoteClient, error) {
	return f(ctx, id)
}

// Binding is a snapshot of the binder: the identity it is bound to, the client for
// that identity (nil while constructing or after a failed construction), and whether a
// construction is in flight.
type Binding struct {
	Principal domainauth.Principal
	Client    RemoteClient
	Fetching  bool
	// Err is the last construction failure for Principal, if any.
	Err error
	// Generation increases on every rebind.
	Generation uint64
}

// Ready reports whether the binding has a usable client.
func (b Binding) Ready() bool { return b.Client != nil && !b.Fetching }

// BindingSource exposes the current binding and change notifications.
type BindingSource interface {
	Current() Binding
	Subscribe() (unsubscribe func(), ch <-chan struct{})
}
