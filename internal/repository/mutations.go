package repository

import "github.com/tripmate/tripmate-client/internal/querycache"

// Every write the client can issue, with the keys it invalidates on success.
var (
	CreateProfileMutation = querycache.Mutation{
		Name:           "createProfile",
		Invalidates:    []querycache.Key{CallerProfileKey()},
		SuccessMessage: "Profile created successfully!",
		FallbackError:  "Failed to create profile",
	}
	SaveProfileMutation = querycache.Mutation{
		Name:           "saveProfile",
		Invalidates:    []querycache.Key{CallerProfileKey()},
		SuccessMessage: "Profile updated successfully!",
		FallbackError:  "Failed to update profile",
	}
	CreateTripMutation = querycache.Mutation{
		Name:           "createTrip",
		Invalidates:    []querycache.Key{CallerTripsKey()},
		SuccessMessage: "Trip plan created successfully!",
		FallbackError:  "Failed to create trip plan",
	}
	CreateListingMutation = querycache.Mutation{
		Name:           "createListing",
		Invalidates:    []querycache.Key{CallerListingsKey(), AllListingsKey()},
		SuccessMessage: "Listing created successfully!",
		FallbackError:  "Failed to create listing",
	}
	UpdateListingMutation = querycache.Mutation{
		Name:           "updateListing",
		Invalidates:    []querycache.Key{CallerListingsKey(), AllListingsKey()},
		SuccessMessage: "Listing updated successfully!",
		FallbackError:  "Failed to update listing",
	}
	DeleteListingMutation = querycache.Mutation{
		Name:           "deleteListing",
		Invalidates:    []querycache.Key{CallerListingsKey(), AllListingsKey()},
		SuccessMessage: "Listing deleted successfully!",
		FallbackError:  "Failed to delete listing",
	}
	AssignRoleMutation = querycache.Mutation{
		Name:           "assignRole",
		Invalidates:    []querycache.Key{CallerRoleKey()},
		SuccessMessage: "Role assigned successfully!",
		FallbackError:  "Failed to assign role",
	}
)

// Mutations lists every declared mutation.
func Mutations() []querycache.Mutation {
	return []querycache.Mutation{
		CreateProfileMutation,
		SaveProfileMutation,
		CreateTripMutation,
		CreateListingMutation,
		UpdateListingMutation,
		DeleteListingMutation,
		AssignRoleMutation,
	}
}
