// Package repository exposes the entity reads and writes of the client. Every call
// goes through the query cache; nothing here talks to the remote store directly.
package repository

import "github.com/tripmate/tripmate-client/internal/querycache"

// Cache entities.
const (
	EntityProfile  = "profile"
	EntityTrips    = "trips"
	EntityListings = "listings"
	EntityRole     = "role"
)

// CallerProfileKey addresses the caller's own profile.
func CallerProfileKey() querycache.Key {
	return querycache.NewKey(EntityProfile, querycache.ScopeCaller)
}

// AllProfilesKey addresses every profile in the store.
func AllProfilesKey() querycache.Key {
	return querycache.NewKey(EntityProfile, querycache.ScopeAll)
}

// ProfileKey addresses the profile of one principal.
func ProfileKey(principal string) querycache.Key {
	return querycache.NewKey(EntityProfile, querycache.ScopeAll, "principal", principal)
}

// CallerTripsKey addresses the caller's trip plans.
func CallerTripsKey() querycache.Key {
	return querycache.NewKey(EntityTrips, querycache.ScopeCaller)
}

// CallerListingsKey addresses the caller's promoted listings.
func CallerListingsKey() querycache.Key {
	return querycache.NewKey(EntityListings, querycache.ScopeCaller)
}

// AllListingsKey addresses every promoted listing. As an invalidation pattern it
// also covers the category and sorted views.
func AllListingsKey() querycache.Key {
	return querycache.NewKey(EntityListings, querycache.ScopeAll)
}

// ListingsByCategoryKey addresses the listings of one category.
func ListingsByCategoryKey(category string) querycache.Key {
	return querycache.NewKey(EntityListings, querycache.ScopeAll, "category", category)
}

// ListingsSortedKey addresses all listings ordered by name.
func ListingsSortedKey() querycache.Key {
	return querycache.NewKey(EntityListings, querycache.ScopeAll, "sorted-by-name")
}

// CallerRoleKey addresses the caller's administrative tier.
func CallerRoleKey() querycache.Key {
	return querycache.NewKey(EntityRole, querycache.ScopeCaller)
}

// CallerAdminKey addresses the caller's admin flag.
func CallerAdminKey() querycache.Key {
	return querycache.NewKey(EntityRole, querycache.ScopeCaller, "is-admin")
}
