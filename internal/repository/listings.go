package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/tripmate/tripmate-client/internal/domain/model"
	apperrors "github.com/tripmate/tripmate-client/internal/errors"
	"github.com/tripmate/tripmate-client/internal/ports"
	"github.com/tripmate/tripmate-client/internal/querycache"
)

// ListingIDPrefix prefixes generated listing ids.
const ListingIDPrefix = "listing-"

// Listings reads and writes promoted listings.
type Listings struct {
	cache *querycache.Client
}

var callerListingsOptions = querycache.QueryOptions{RequireIdentity: true}

func listingFetcher(load func(context.Context, ports.RemoteClient) ([]model.PromotedListing, error)) querycache.Fetcher[[]model.PromotedListing] {
	return func(ctx context.Context, rc ports.RemoteClient) ([]model.PromotedListing, error) {
		out, err := load(ctx, rc)
		if err != nil {
			return nil, remote(err, "Failed to load listings")
		}
		return out, nil
	}
}

var (
	fetchAllListings = listingFetcher(func(ctx context.Context, rc ports.RemoteClient) ([]model.PromotedListing, error) {
		return rc.GetAllPromotedListings(ctx)
	})
	fetchCallerListings = listingFetcher(func(ctx context.Context, rc ports.RemoteClient) ([]model.PromotedListing, error) {
		return rc.GetCallerPromotedListings(ctx)
	})
	fetchSortedListings = listingFetcher(func(ctx context.Context, rc ports.RemoteClient) ([]model.PromotedListing, error) {
		return rc.GetAllListingsSortedByName(ctx)
	})
)

func fetchListingsByCategory(category string) querycache.Fetcher[[]model.PromotedListing] {
	return listingFetcher(func(ctx context.Context, rc ports.RemoteClient) ([]model.PromotedListing, error) {
		return rc.FilterPromotedListingsByCategory(ctx, category)
	})
}

// ObserveAll observes every listing. Anonymous callers may read it.
func (l *Listings) ObserveAll() *querycache.Observer[[]model.PromotedListing] {
	return querycache.Observe(l.cache, AllListingsKey(), fetchAllListings, querycache.QueryOptions{})
}

// All reads every listing through the cache.
func (l *Listings) All(ctx context.Context) ([]model.PromotedListing, error) {
	return querycache.Query(ctx, l.cache, AllListingsKey(), fetchAllListings, querycache.QueryOptions{})
}

// ObserveCaller observes the caller's own listings.
func (l *Listings) ObserveCaller() *querycache.Observer[[]model.PromotedListing] {
	return querycache.Observe(l.cache, CallerListingsKey(), fetchCallerListings, callerListingsOptions)
}

// Caller reads the caller's own listings through the cache.
func (l *Listings) Caller(ctx context.Context) ([]model.PromotedListing, error) {
	return querycache.Query(ctx, l.cache, CallerListingsKey(), fetchCallerListings, callerListingsOptions)
}

// ObserveByCategory observes the listings of one category. The query is disabled
// while category is empty.
func (l *Listings) ObserveByCategory(category string) *querycache.Observer[[]model.PromotedListing] {
	category = strings.TrimSpace(category)
	return querycache.Observe(l.cache, ListingsByCategoryKey(category), fetchListingsByCategory(category), querycache.QueryOptions{})
}

// ByCategory reads the listings of one category. An empty category returns
// querycache.ErrQueryDisabled without a remote call.
func (l *Listings) ByCategory(ctx context.Context, category string) ([]model.PromotedListing, error) {
	category = strings.TrimSpace(category)
	return querycache.Query(ctx, l.cache, ListingsByCategoryKey(category), fetchListingsByCategory(category), querycache.QueryOptions{})
}

// SortedByName reads all listings ordered by name.
func (l *Listings) SortedByName(ctx context.Context) ([]model.PromotedListing, error) {
	return querycache.Query(ctx, l.cache, ListingsSortedKey(), fetchSortedListings, querycache.QueryOptions{})
}

// NewListingID generates a listing id.
func NewListingID() string {
	return ListingIDPrefix + uuid.NewString()
}

// Create publishes a new listing and returns it with its id. The owner is always
// left for the store to fill in.
func (l *Listings) Create(ctx context.Context, draft model.PromotedListing) (model.PromotedListing, error) {
	if err := l.cache.CheckAvailable(ctx, CreateListingMutation); err != nil {
		return model.PromotedListing{}, err
	}
	if err := draft.Validate(); err != nil {
		return model.PromotedListing{}, err
	}
	if strings.TrimSpace(draft.ID) == "" {
		draft.ID = NewListingID()
	}
	draft.Owner = ""
	return querycache.Mutate(ctx, l.cache, CreateListingMutation,
		func(ctx context.Context, rc ports.RemoteClient, in model.PromotedListing) (model.PromotedListing, error) {
			if err := rc.CreatePromotedListing(ctx, in); err != nil {
				return model.PromotedListing{}, remote(err, CreateListingMutation.FallbackError)
			}
			return in, nil
		}, draft)
}

type listingUpdate struct {
	id      string
	listing model.PromotedListing
}

// Update replaces listing id. The owner field is passed through unchanged.
func (l *Listings) Update(ctx context.Context, id string, listing model.PromotedListing) error {
	if err := l.cache.CheckAvailable(ctx, UpdateListingMutation); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return apperrors.ValidationField("id", "listing id is required")
	}
	if err := listing.Validate(); err != nil {
		return err
	}
	listing.ID = id
	_, err := querycache.Mutate(ctx, l.cache, UpdateListingMutation,
		func(ctx context.Context, rc ports.RemoteClient, in listingUpdate) (none, error) {
			return none{}, remote(rc.UpdatePromotedListing(ctx, in.id, in.listing), UpdateListingMutation.FallbackError)
		}, listingUpdate{id: id, listing: listing})
	return err
}

// Delete removes listing id.
func (l *Listings) Delete(ctx context.Context, id string) error {
	if err := l.cache.CheckAvailable(ctx, DeleteListingMutation); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return apperrors.ValidationField("id", "listing id is required")
	}
	_, err := querycache.Mutate(ctx, l.cache, DeleteListingMutation,
		func(ctx context.Context, rc ports.RemoteClient, id string) (none, error) {
			return none{}, remote(rc.DeletePromotedListing(ctx, id), DeleteListingMutation.FallbackError)
		}, id)
	return err
}
